// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spa

import (
	"errors"
	"testing"

	"github.com/emer/etable/v2/etable"
	"github.com/emer/spa/vocab"
)

// routingConfig is a two-rule question-answering routing model:
// statements are stored into memory, questions are answered from it.
func routingConfig(dim int) *Config {
	return &Config{
		Dim:     dim,
		Seed:    42,
		Symbols: []string{"RED", "BLUE", "CIRCLE", "SQUARE", "STATEMENT", "QUESTION"},
		Channels: []ChannelSpec{
			{Name: "vision", Fb: 0},
			{Name: "memory", Fb: 1},
			{Name: "motor", Fb: 0},
		},
		Rules: []RuleSpec{
			{Name: "store", Text: "dot(vision, STATEMENT) --> memory = vision - STATEMENT"},
			{Name: "answer", Text: "dot(vision, QUESTION) --> motor = ~vision * memory"},
		},
	}
}

func TestConfigErrors(t *testing.T) {
	if _, err := NewNetwork("bad", &Config{Dim: 0}); !errors.Is(err, ErrConfig) {
		t.Errorf("zero dim: %v", err)
	}
	cfg := routingConfig(64)
	cfg.Channels = append(cfg.Channels, ChannelSpec{Name: "vision"})
	if _, err := NewNetwork("bad", cfg); !errors.Is(err, ErrConfig) {
		t.Errorf("duplicate channel: %v", err)
	}
	cfg = routingConfig(64)
	cfg.Rules = append(cfg.Rules, RuleSpec{Name: "bad", Text: "dot(nochan, RED) --> motor = RED"})
	if _, err := NewNetwork("bad", cfg); !errors.Is(err, ErrConfig) {
		t.Errorf("undeclared channel: %v", err)
	}
	cfg = routingConfig(64)
	cfg.Rules = append(cfg.Rules, RuleSpec{Name: "bad", Text: "dot(vision, GREEN) --> motor = GREEN"})
	if _, err := NewNetwork("bad", cfg); !errors.Is(err, ErrConfig) {
		t.Errorf("undeclared symbol: %v", err)
	}
	cfg = routingConfig(64)
	cfg.Rules[0].Text = "dot(vision, STATEMENT) -- memory = vision"
	if _, err := NewNetwork("bad", cfg); !errors.Is(err, ErrConfig) {
		t.Errorf("malformed rule: %v", err)
	}
	cfg = routingConfig(64)
	cfg.Channels[0].Name = "Vision"
	if _, err := NewNetwork("bad", cfg); !errors.Is(err, ErrConfig) {
		t.Errorf("uppercase channel: %v", err)
	}
}

func TestRuntimeErrors(t *testing.T) {
	nt, err := NewNetwork("rt", routingConfig(64))
	if err != nil {
		t.Fatal(err)
	}
	if err := nt.SetInput("nochan", make([]float32, 64)); !errors.Is(err, ErrUnknownChannel) {
		t.Errorf("unknown channel input: %v", err)
	}
	if err := nt.SetInput("vision", make([]float32, 32)); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("wrong dim input: %v", err)
	}
	if _, err := nt.Channel("nochan"); !errors.Is(err, ErrUnknownChannel) {
		t.Errorf("unknown channel read: %v", err)
	}
}

func TestChannelRefresh(t *testing.T) {
	nt, err := NewNetwork("ch", routingConfig(64))
	if err != nil {
		t.Fatal(err)
	}
	red, _ := nt.Vocab.Vector("RED")

	// transient channel: value = staged input, gone next tick without input
	nt.SetInput("vision", red)
	nt.Cycle()
	v, _ := nt.Channel("vision")
	if sim := vocab.Cosine(v, red); sim < 0.999 {
		t.Errorf("vision after input: similarity %v", sim)
	}
	nt.Cycle()
	v, _ = nt.Channel("vision")
	if nrm := vocab.Norm(v); nrm > 1.0e-6 {
		t.Errorf("transient channel retained value: norm %v", nrm)
	}

	// integrator channel: external inputs accumulate across ticks
	nt.Reset()
	nt.SetInput("memory", red)
	nt.Cycle()
	nt.Cycle()
	m, _ := nt.Channel("memory")
	if sim := vocab.Cosine(m, red); sim < 0.999 {
		t.Errorf("memory retention: similarity %v", sim)
	}
}

func TestIdempotentConfigure(t *testing.T) {
	run := func() ([]float32, []float32, []float32) {
		nt, err := NewNetwork("idem", routingConfig(64))
		if err != nil {
			t.Fatal(err)
		}
		st, _ := nt.Vocab.Vector("STATEMENT")
		red, _ := nt.Vocab.Vector("RED")
		circ, _ := nt.Vocab.Vector("CIRCLE")
		vis := vocab.Superpose(st, vocab.Bind(red, circ))
		for i := 0; i < 50; i++ {
			nt.SetInput("vision", vis)
			if _, _, err := nt.Cycle(); err != nil {
				t.Fatal(err)
			}
		}
		mem, _ := nt.Channel("memory")
		ut := append([]float32{}, nt.Utilities()...)
		sl := append([]float32{}, nt.Selection()...)
		return ut, sl, append([]float32{}, mem...)
	}
	u1, s1, m1 := run()
	u2, s2, m2 := run()
	for i := range u1 {
		if u1[i] != u2[i] || s1[i] != s2[i] {
			t.Fatalf("diverging diagnostics at rule %d: %v/%v vs %v/%v", i, u1[i], s1[i], u2[i], s2[i])
		}
	}
	for i := range m1 {
		if m1[i] != m2[i] {
			t.Fatalf("diverging memory at %d: %v != %v", i, m1[i], m2[i])
		}
	}
}

func TestRoutingScenario(t *testing.T) {
	nt, err := NewNetwork("routing", routingConfig(128))
	if err != nil {
		t.Fatal(err)
	}
	st, _ := nt.Vocab.Vector("STATEMENT")
	qu, _ := nt.Vocab.Vector("QUESTION")
	red, _ := nt.Vocab.Vector("RED")
	circ, _ := nt.Vocab.Vector("CIRCLE")
	redCirc := vocab.Bind(red, circ)

	// phase 1: present a statement binding RED to CIRCLE
	stim := vocab.Superpose(st, redCirc)
	for i := 0; i < 20; i++ {
		nt.SetInput("vision", stim)
		if _, _, err := nt.Cycle(); err != nil {
			t.Fatal(err)
		}
	}
	mem, _ := nt.Channel("memory")
	if sim := vocab.Cosine(mem, redCirc); sim < 0.8 {
		t.Errorf("memory ~ RED*CIRCLE after statement phase: %v < 0.8", sim)
	}
	sel := nt.Selection()
	if sel[0] <= sel[1] {
		t.Errorf("store rule not selected in statement phase: %v", sel)
	}

	// phase 2: ask which shape is red
	stim = vocab.Superpose(qu, red)
	for i := 0; i < 20; i++ {
		nt.SetInput("vision", stim)
		if _, _, err := nt.Cycle(); err != nil {
			t.Fatal(err)
		}
	}
	mot, _ := nt.Channel("motor")
	if sim := vocab.Cosine(mot, circ); sim < 0.6 {
		t.Errorf("motor ~ CIRCLE after question phase: %v < 0.6", sim)
	}
	sel = nt.Selection()
	if sel[1] <= sel[0] {
		t.Errorf("answer rule not selected in question phase: %v", sel)
	}
	// memory is retained through the question phase
	mem, _ = nt.Channel("memory")
	if sim := vocab.Cosine(mem, redCirc); sim < 0.8 {
		t.Errorf("memory decayed in question phase: %v", sim)
	}
}

func TestRouterAccumulation(t *testing.T) {
	cfg := &Config{
		Dim:     64,
		Seed:    7,
		Symbols: []string{"A", "B"},
		Channels: []ChannelSpec{
			{Name: "in", Fb: 0},
			{Name: "out", Fb: 0},
		},
		Rules: []RuleSpec{
			{Name: "ra", Text: "dot(in, A) --> out = A"},
			{Name: "rb", Text: "dot(in, A) --> out = B"},
		},
	}
	nt, err := NewNetwork("accum", cfg)
	if err != nil {
		t.Fatal(err)
	}
	a, _ := nt.Vocab.Vector("A")
	b, _ := nt.Vocab.Vector("B")
	// both rules share the same condition: identical utilities dampen
	// both via tie handling, so neither writes strongly -- but both
	// contributions that do land must sum into out
	for i := 0; i < 100; i++ {
		nt.SetInput("in", a)
		nt.Cycle()
	}
	sel := nt.Selection()
	if sel[0] != sel[1] {
		t.Errorf("tied rules selected unequally: %v", sel)
	}
	out, _ := nt.Channel("out")
	if nrm := vocab.Norm(out); nrm > 0 {
		// writes landed: superposition must contain both A and B equally
		sa := vocab.Cosine(out, a)
		sb := vocab.Cosine(out, b)
		if sa < 0 || sb < 0 || (sa-sb) > 0.01 || (sb-sa) > 0.01 {
			t.Errorf("accumulated writes unequal: A %v B %v", sa, sb)
		}
	}
}

func TestCycLog(t *testing.T) {
	nt, err := NewNetwork("log", routingConfig(64))
	if err != nil {
		t.Fatal(err)
	}
	if err := nt.AddProbe("MemRedCirc", "memory", "RED * CIRCLE"); err != nil {
		t.Fatal(err)
	}
	if err := nt.AddProbe("Bad", "memory", "GREEN"); !errors.Is(err, ErrConfig) {
		t.Errorf("bad probe: %v", err)
	}
	dt := &etable.Table{}
	nt.ConfigCycLog(dt)

	st, _ := nt.Vocab.Vector("STATEMENT")
	for i := 0; i < 10; i++ {
		nt.SetInput("vision", st)
		if _, _, err := nt.Cycle(); err != nil {
			t.Fatal(err)
		}
		if err := nt.LogCyc(dt); err != nil {
			t.Fatal(err)
		}
	}
	if dt.Rows != 10 {
		t.Fatalf("log rows: %d != 10", dt.Rows)
	}
	if dt.CellFloat("Cycle", 9) != 10 {
		t.Errorf("last cycle: %v", dt.CellFloat("Cycle", 9))
	}
	if dt.CellFloat("store_Util", 9) < 0.9 {
		t.Errorf("store utility with pure STATEMENT input: %v", dt.CellFloat("store_Util", 9))
	}
}
