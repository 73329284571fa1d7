// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spa

import (
	"github.com/emer/etable/v2/minmax"
	"github.com/emer/spa/rules"
	"github.com/emer/spa/vocab"
)

// Evaluator computes one scalar utility per rule each tick, as the sum
// over the rule's condition terms of the cosine similarity between the
// condition channel's current value and the condition expression value.
// It has no side effects and no randomness: identical channel state
// yields identical utilities.
type Evaluator struct {
	Rules []*rules.Rule   `desc:"the static, immutable rule list, in configured order"`
	Utils []float32       `desc:"per-rule utilities from the last Eval"`
	Stats minmax.AvgMax32 `desc:"avg and max over Utils from the last Eval, for diagnostics"`
}

// Init sets the rule list and allocates the utility vector.
func (ev *Evaluator) Init(rls []*rules.Rule) {
	ev.Rules = rls
	ev.Utils = make([]float32, len(rls))
	ev.Stats.Init()
}

// Eval recomputes all utilities against the given resolver.
// Reference errors cannot occur if the rules were validated at build time.
func (ev *Evaluator) Eval(rs rules.Resolver) error {
	ev.Stats.Init()
	for ri, rl := range ev.Rules {
		var util float32
		for _, ct := range rl.Cond {
			cv, err := rs.ChannelVector(ct.Channel)
			if err != nil {
				return err
			}
			xv, err := ct.Expr.Eval(rs)
			if err != nil {
				return err
			}
			util += vocab.Cosine(cv, xv)
		}
		ev.Utils[ri] = util
		ev.Stats.UpdateVal(util, int32(ri))
	}
	ev.Stats.CalcAvg()
	return nil
}
