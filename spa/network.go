// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spa

import (
	"errors"
	"fmt"

	"github.com/c2h5oh/datasize"
	"github.com/emer/spa/rules"
	"github.com/emer/spa/vocab"
	"github.com/emer/spa/wta"
)

// ErrConfig is the base error for invalid model wiring, detected once at
// Build time.  The per-tick path runs no wiring checks: every reference
// a rule can make is resolved against the declared name spaces here.
var ErrConfig = errors.New("config error")

// RuleSpec declares one rule at configuration time, as text in the
// condition --> effects grammar of the rules package.
type RuleSpec struct {
	Name string `desc:"rule name, for diagnostics and logging"`
	Text string `desc:"rule text: dot(chan, expr) [+ ...] --> chan = expr [; ...]"`
}

// Config fully specifies a Network.  There is no ambient builder state:
// everything the model needs is declared here and validated in Build.
type Config struct {
	Dim      int           `desc:"dimensionality of all vectors"`
	Seed     int64         `desc:"seed for vocabulary generation -- identical configs build bit-identical networks"`
	Symbols  []string      `desc:"vocabulary symbol names to generate, in order"`
	Channels []ChannelSpec `desc:"channel declarations, in order"`
	Rules    []RuleSpec    `desc:"rule declarations, in order"`
	Select   wta.Params    `view:"inline" desc:"winner-take-all selection dynamics parameters -- zero value means defaults"`
}

// Network is a configured action-selection model: vocabulary, channel
// store, rules, selector state, and timing.  Vocabulary and rules are
// immutable after Build; channel values and selection state mutate once
// per Cycle.
type Network struct {
	Nm       string        `desc:"name of this network"`
	Vocab    *vocab.Vocab  `desc:"symbol vocabulary"`
	Chans    Channels      `desc:"channel store"`
	Rules    []*rules.Rule `desc:"parsed rules in declaration order"`
	Eval     Evaluator     `desc:"per-rule utility evaluation"`
	Select   wta.Params    `view:"inline" desc:"selection dynamics parameters"`
	SelState wta.State     `desc:"per-rule selection state"`
	Route    Router        `desc:"effect router"`
	Time     Time          `desc:"timing state"`
	Probes   []*Probe      `desc:"similarity probes recorded into the cycle log"`
}

// NewNetwork builds a network from the given config, validating all
// wiring.  All errors here wrap ErrConfig (with rules.ErrParse also in
// the chain for malformed rule text).
func NewNetwork(name string, cfg *Config) (*Network, error) {
	if cfg.Dim <= 0 {
		return nil, fmt.Errorf("%w: dimension must be positive, got %d", ErrConfig, cfg.Dim)
	}
	nt := &Network{Nm: name}
	vc, err := vocab.New(cfg.Dim, cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	nt.Vocab = vc
	for _, snm := range cfg.Symbols {
		if _, err := vc.Add(snm); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfig, err)
		}
	}
	nt.Chans.Init(cfg.Dim)
	for _, csp := range cfg.Channels {
		if csp.Name == "" || rules.IsSymbolName(csp.Name) {
			return nil, fmt.Errorf("%w: channel name %q must start with a lowercase letter", ErrConfig, csp.Name)
		}
		if _, err := nt.Chans.Add(csp); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfig, err)
		}
	}
	for _, rsp := range cfg.Rules {
		rl, err := rules.ParseRule(rsp.Name, rsp.Text)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfig, err)
		}
		if err := nt.validateRefs(rl); err != nil {
			return nil, err
		}
		nt.Rules = append(nt.Rules, rl)
	}
	nt.Eval.Init(nt.Rules)
	nt.Select = cfg.Select
	if nt.Select.Gain == 0 { // zero value = defaults
		nt.Select.Defaults()
	}
	nt.SelState.Init(len(nt.Rules))
	nt.Time.Defaults()
	return nt, nil
}

// validateRefs checks every symbol and channel reference in the rule
// against the declared name spaces, so the per-tick path cannot fail on
// wiring.
func (nt *Network) validateRefs(rl *rules.Rule) error {
	syms, chans := rl.Refs()
	for _, snm := range syms {
		if !nt.Vocab.Has(snm) {
			return fmt.Errorf("%w: rule %q references undeclared symbol %q", ErrConfig, rl.Name, snm)
		}
	}
	for _, cnm := range chans {
		if !nt.Chans.Has(cnm) {
			return fmt.Errorf("%w: rule %q references undeclared channel %q", ErrConfig, rl.Name, cnm)
		}
	}
	return nil
}

// SymbolVector implements rules.Resolver on the vocabulary.
func (nt *Network) SymbolVector(name string) ([]float32, error) {
	return nt.Vocab.Vector(name)
}

// ChannelVector implements rules.Resolver on the channel store.
func (nt *Network) ChannelVector(name string) ([]float32, error) {
	return nt.Chans.Vector(name)
}

// SetInput stages external stimulus on the named channel for the next
// cycle.  The vector length must equal the configured dimensionality.
func (nt *Network) SetInput(name string, vec []float32) error {
	return nt.Chans.SetInput(name, vec)
}

// Channel returns the named channel's current value.
func (nt *Network) Channel(name string) ([]float32, error) {
	return nt.Chans.Vector(name)
}

// Cycle advances the model one tick: refresh channels from retained
// values and staged inputs, evaluate rule utilities, update the
// selection dynamics, route the selected effects, advance time.
// Returns the utility and selection vectors for probing; both are the
// network's own per-tick storage, valid until the next Cycle.
func (nt *Network) Cycle() (util, sel []float32, err error) {
	nt.Chans.Refresh()
	if err = nt.Eval.Eval(nt); err != nil {
		return nil, nil, err
	}
	nt.Select.Step(&nt.SelState, nt.Eval.Utils, nt.Time.TimePerCyc)
	if err = nt.Route.Apply(&nt.Chans, nt.Rules, nt.SelState.Sel, nt); err != nil {
		return nil, nil, err
	}
	nt.Time.CycleInc()
	return nt.Eval.Utils, nt.SelState.Sel, nil
}

// Run calls Cycle n times, stopping at the first error.
func (nt *Network) Run(n int) error {
	for i := 0; i < n; i++ {
		if _, _, err := nt.Cycle(); err != nil {
			return err
		}
	}
	return nil
}

// Utilities returns the per-rule utilities from the last Cycle.
func (nt *Network) Utilities() []float32 { return nt.Eval.Utils }

// Selection returns the per-rule selection signal from the last Cycle.
func (nt *Network) Selection() []float32 { return nt.SelState.Sel }

// Reset zeros all per-tick mutable state (channels, selection, time),
// leaving vocabulary and rules untouched.
func (nt *Network) Reset() {
	nt.Chans.Reset()
	nt.SelState.Reset()
	nt.Time.Reset()
}

// SizeReport returns a human-readable summary of the memory used by the
// vocabulary and channel store.
func (nt *Network) SizeReport() string {
	vb := uint64(nt.Vocab.Len()) * uint64(nt.Vocab.Dim) * 4
	cb := uint64(nt.Chans.Chans.Len()) * uint64(nt.Chans.Dim) * 2 * 4
	return fmt.Sprintf("%s: Symbols: %d  VocabMem: %v  Channels: %d  ChanMem: %v  Rules: %d",
		nt.Nm, nt.Vocab.Len(), (datasize.ByteSize)(vb).HumanReadable(),
		nt.Chans.Chans.Len(), (datasize.ByteSize)(cb).HumanReadable(), len(nt.Rules))
}
