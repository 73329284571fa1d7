// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spa

import (
	"github.com/emer/spa/rules"
	"github.com/emer/spa/vocab"
)

// Router applies the effect assignments of selected rules to their
// destination channels, weighted by the selection signal.  Contributions
// from multiple rules to the same destination sum (superposition), with
// no renormalization: magnitude communicates confidence.
//
// All effect expressions are evaluated against the channel state from
// the start of the tick before any write lands, so the result does not
// depend on rule order.
type Router struct {
	writes []write `view:"-" desc:"buffered writes for the two-phase apply"`
}

type write struct {
	dst *Channel
	vec []float32
}

// Apply routes all effects for rules with selection weight > 0.
func (rt *Router) Apply(cs *Channels, rls []*rules.Rule, sel []float32, rs rules.Resolver) error {
	rt.writes = rt.writes[:0]
	for ri, rl := range rls {
		w := sel[ri]
		if w <= 0 {
			continue
		}
		for _, ef := range rl.Effects {
			dst, err := cs.Channel(ef.Channel)
			if err != nil {
				return err
			}
			vec, err := ef.Expr.Eval(rs)
			if err != nil {
				return err
			}
			rt.writes = append(rt.writes, write{dst, vocab.Scale(w, vec)})
		}
	}
	for _, wr := range rt.writes {
		vocab.AddTo(wr.dst.Val.Values, wr.vec)
	}
	return nil
}
