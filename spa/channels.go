// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spa

import (
	"errors"
	"fmt"

	"github.com/emer/etable/v2/etensor"
	"github.com/goki/kigen/ordmap"
)

var (
	// ErrUnknownChannel is returned for references to undeclared channels.
	ErrUnknownChannel = errors.New("unknown channel")

	// ErrDuplicateChannel is returned when declaring a channel name twice.
	ErrDuplicateChannel = errors.New("duplicate channel")

	// ErrDimensionMismatch is returned when an input vector's length does
	// not match the configured dimensionality.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)

// ChannelSpec declares one named channel at configuration time.
type ChannelSpec struct {
	Name string  `desc:"unique channel name -- must start with a lowercase letter to be referencable from rule text"`
	Fb   float32 `min:"0" max:"1" desc:"per-tick retention of the previous value: 0 = transient register, fully refreshed by external input and routed writes each tick; 1 = perfect integrator, working-memory style recurrent feedback"`
}

// Channel is one named vector register, refreshed once per tick.
// Only the Router writes it during a tick; external stimulus is staged
// via SetInput and folded in at the start of the next refresh.
type Channel struct {
	Name  string          `desc:"channel name"`
	Fb    float32         `desc:"per-tick retention of previous value"`
	Val   etensor.Float32 `desc:"current value, 1D of store dimensionality"`
	In    etensor.Float32 `desc:"staged external input for the upcoming tick"`
	HasIn bool            `view:"-" desc:"whether In was set since the last refresh"`
}

func (ch *Channel) init(dim int) {
	ch.Val.SetShape([]int{dim}, nil, []string{"D"})
	ch.In.SetShape([]int{dim}, nil, []string{"D"})
}

// refresh folds retained value and staged input into the current value:
// Val = Fb*Val + In.  Staged input is consumed.
func (ch *Channel) refresh() {
	for i, v := range ch.Val.Values {
		nv := ch.Fb * v
		if ch.HasIn {
			nv += ch.In.Values[i]
		}
		ch.Val.Values[i] = nv
	}
	if ch.HasIn {
		ch.In.SetZeros()
		ch.HasIn = false
	}
}

// Channels is the store of named channels, in declaration order.
type Channels struct {
	Dim   int                          `desc:"dimensionality of all channel vectors"`
	Chans ordmap.Map[string, *Channel] `desc:"channels in declaration order"`
}

// Init sets the dimensionality and clears any existing channels.
func (cs *Channels) Init(dim int) {
	cs.Dim = dim
	cs.Chans = *ordmap.New[string, *Channel]()
}

// Add declares a new channel from given spec.
func (cs *Channels) Add(spec ChannelSpec) (*Channel, error) {
	if _, has := cs.Chans.ValByKey(spec.Name); has {
		return nil, fmt.Errorf("channels: %q: %w", spec.Name, ErrDuplicateChannel)
	}
	ch := &Channel{Name: spec.Name, Fb: spec.Fb}
	ch.init(cs.Dim)
	cs.Chans.Add(spec.Name, ch)
	return ch, nil
}

// Channel returns the named channel, or ErrUnknownChannel.
func (cs *Channels) Channel(name string) (*Channel, error) {
	ch, has := cs.Chans.ValByKey(name)
	if !has {
		return nil, fmt.Errorf("channels: %q: %w", name, ErrUnknownChannel)
	}
	return ch, nil
}

// Has returns true if the named channel is declared.
func (cs *Channels) Has(name string) bool {
	_, has := cs.Chans.ValByKey(name)
	return has
}

// Vector returns the current value of the named channel.
// The returned slice is the store's own memory: callers must not hold it
// across ticks.
func (cs *Channels) Vector(name string) ([]float32, error) {
	ch, err := cs.Channel(name)
	if err != nil {
		return nil, err
	}
	return ch.Val.Values, nil
}

// SetInput stages external stimulus for the named channel for the next
// tick.  Multiple calls before a tick accumulate additively.
func (cs *Channels) SetInput(name string, vec []float32) error {
	ch, err := cs.Channel(name)
	if err != nil {
		return err
	}
	if len(vec) != cs.Dim {
		return fmt.Errorf("channels.SetInput: %q: %d != %d: %w", name, len(vec), cs.Dim, ErrDimensionMismatch)
	}
	for i, v := range vec {
		ch.In.Values[i] += v
	}
	ch.HasIn = true
	return nil
}

// Refresh runs the per-tick refresh on all channels, in order.
func (cs *Channels) Refresh() {
	for _, kv := range cs.Chans.Order {
		kv.Val.refresh()
	}
}

// Reset zeros all channel values and staged inputs.
func (cs *Channels) Reset() {
	for _, kv := range cs.Chans.Order {
		kv.Val.Val.SetZeros()
		kv.Val.In.SetZeros()
		kv.Val.HasIn = false
	}
}
