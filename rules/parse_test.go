// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rules

import (
	"errors"
	"fmt"
	"testing"

	"github.com/emer/spa/vocab"
)

func TestParseExprShapes(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"vision", "vision"},
		{"STATEMENT", "STATEMENT"},
		{"vision - STATEMENT", "(vision - STATEMENT)"},
		{"~vision * memory", "(~vision * memory)"},
		{"a + B * c", "((a + B) * c)"}, // single precedence level, left assoc
		{"a + (B * c)", "(a + (B * c))"},
		{"-a + b", "(-a + b)"},
		{"~(a * b)", "~(a * b)"},
		{"A + B + C", "((A + B) + C)"},
	}
	for _, ts := range tests {
		nd, err := ParseExpr(ts.src)
		if err != nil {
			t.Errorf("%q: %v", ts.src, err)
			continue
		}
		if got := nd.String(); got != ts.want {
			t.Errorf("%q: got %s, want %s", ts.src, got, ts.want)
		}
	}
}

func TestParseExprErrors(t *testing.T) {
	bad := []string{
		"",
		"a +",
		"* a",
		"(a + b",
		"a ? b",
		"a b",
		"~",
	}
	for _, src := range bad {
		if _, err := ParseExpr(src); !errors.Is(err, ErrParse) {
			t.Errorf("%q: expected ErrParse, got %v", src, err)
		}
	}
}

func TestSymbolVsChannel(t *testing.T) {
	nd, err := ParseExpr("vision - STATEMENT")
	if err != nil {
		t.Fatal(err)
	}
	var syms, chans []string
	nd.Refs(&syms, &chans)
	if len(syms) != 1 || syms[0] != "STATEMENT" {
		t.Errorf("syms: %v", syms)
	}
	if len(chans) != 1 || chans[0] != "vision" {
		t.Errorf("chans: %v", chans)
	}
}

func TestParseRule(t *testing.T) {
	rl, err := ParseRule("see", "dot(vision, STATEMENT) --> memory = vision - STATEMENT")
	if err != nil {
		t.Fatal(err)
	}
	if len(rl.Cond) != 1 || len(rl.Effects) != 1 {
		t.Fatalf("cond/effects: %d/%d", len(rl.Cond), len(rl.Effects))
	}
	if rl.Cond[0].Channel != "vision" {
		t.Errorf("cond channel: %q", rl.Cond[0].Channel)
	}
	if rl.Effects[0].Channel != "memory" {
		t.Errorf("effect channel: %q", rl.Effects[0].Channel)
	}
	want := "dot(vision, STATEMENT) --> memory = (vision - STATEMENT)"
	if got := rl.String(); got != want {
		t.Errorf("String: %s != %s", got, want)
	}
}

func TestParseRuleMulti(t *testing.T) {
	src := "dot(vision, QUESTION) + dot(vision, RED) --> motor = ~vision * memory\nstate = vision"
	rl, err := ParseRule("ask", src)
	if err != nil {
		t.Fatal(err)
	}
	if len(rl.Cond) != 2 {
		t.Errorf("cond terms: %d != 2", len(rl.Cond))
	}
	if len(rl.Effects) != 2 {
		t.Errorf("effects: %d != 2", len(rl.Effects))
	}
	syms, chans := rl.Refs()
	if len(syms) != 2 {
		t.Errorf("syms: %v", syms)
	}
	if len(chans) != 7 {
		t.Errorf("chans: %v", chans)
	}
}

func TestParseRuleErrors(t *testing.T) {
	bad := []string{
		"dot(vision, STATEMENT)",                      // no arrow
		"dot(VISION, STATEMENT) --> memory = vision",  // symbol as cond channel
		"dot(vision, STATEMENT) --> MEMORY = vision",  // symbol as effect target
		"dot(vision, STATEMENT) -->",                  // no effects
		"sum(vision, STATEMENT) --> memory = vision",  // not dot
		"dot(vision STATEMENT) --> memory = vision",   // missing comma
		"dot(vision, STATEMENT) --> memory = vision;;extra", // bad trailing effect
	}
	for _, src := range bad {
		if _, err := ParseRule("bad", src); err == nil {
			t.Errorf("%q: expected error", src)
		}
	}
}

// testResolver resolves from fixed maps for evaluator tests.
type testResolver struct {
	syms  map[string][]float32
	chans map[string][]float32
}

func (tr *testResolver) SymbolVector(name string) ([]float32, error) {
	v, ok := tr.syms[name]
	if !ok {
		return nil, fmt.Errorf("unknown symbol %q", name)
	}
	return v, nil
}

func (tr *testResolver) ChannelVector(name string) ([]float32, error) {
	v, ok := tr.chans[name]
	if !ok {
		return nil, fmt.Errorf("unknown channel %q", name)
	}
	return v, nil
}

func TestEval(t *testing.T) {
	vc, _ := vocab.New(64, 21)
	vc.AddMany("A", "B")
	a, _ := vc.Vector("A")
	b, _ := vc.Vector("B")
	tr := &testResolver{
		syms:  map[string][]float32{"A": a, "B": b},
		chans: map[string][]float32{"x": vocab.Bind(a, b)},
	}

	// unbinding via expression: ~B * x should recover A
	nd, err := ParseExpr("~B * x")
	if err != nil {
		t.Fatal(err)
	}
	got, err := nd.Eval(tr)
	if err != nil {
		t.Fatal(err)
	}
	if sim := vocab.Cosine(got, a); sim < 0.95 {
		t.Errorf("~B * x ~ A similarity: %v < 0.95", sim)
	}

	// subtraction removes a superposed term
	tr.chans["y"] = vocab.Superpose(a, b)
	nd, _ = ParseExpr("y - B")
	got, _ = nd.Eval(tr)
	if sim := vocab.Cosine(got, a); sim < 0.9 {
		t.Errorf("y - B ~ A similarity: %v < 0.9", sim)
	}

	// unknown reference surfaces as error
	nd, _ = ParseExpr("nochan")
	if _, err := nd.Eval(tr); err == nil {
		t.Error("expected unknown channel error")
	}
}
