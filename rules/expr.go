// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package rules implements the declarative condition --> effect rules that
drive action selection, including the restricted algebraic expression
grammar over vocabulary symbols and named channels.

Expressions support + (superposition), - (subtraction), * (binding) and
unary ~ (involution, giving unbind when combined with *), all left
associative with equal precedence; unary operators bind tightest.
Identifiers starting with an uppercase letter are vocabulary symbols;
all others are channel references.

Rule text has the form:

	dot(vision, STATEMENT) + dot(vision, RED) --> memory = vision - STATEMENT

with one or more +-joined dot(channel, expr) condition terms on the left
of -->, and one or more assignments channel = expr on the right, joined
by ; or newlines.

Parsing happens once at configuration time; evaluation is a tree walk
against a Resolver providing current symbol and channel vectors.
*/
package rules

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/emer/spa/vocab"
	"github.com/goki/ki/kit"
)

// Resolver provides the vectors that expression evaluation reads:
// vocabulary symbols and current channel values.
type Resolver interface {
	// SymbolVector returns the vocabulary vector for given symbol name.
	SymbolVector(name string) ([]float32, error)

	// ChannelVector returns the current value of given channel.
	ChannelVector(name string) ([]float32, error)
}

// Node is one node of a parsed expression tree.
type Node struct {
	Kind  NodeKind `desc:"what this node is"`
	Name  string   `desc:"identifier for Sym and Chan nodes"`
	Left  *Node    `desc:"left operand -- only child for unary nodes"`
	Right *Node    `desc:"right operand for binary nodes"`
}

// Eval evaluates the expression tree against given resolver, returning
// a freshly-allocated vector.  Reference errors can only occur if the
// tree was not validated against the same name space first.
func (nd *Node) Eval(rs Resolver) ([]float32, error) {
	switch nd.Kind {
	case Sym:
		return rs.SymbolVector(nd.Name)
	case Chan:
		return rs.ChannelVector(nd.Name)
	case Neg:
		v, err := nd.Left.Eval(rs)
		if err != nil {
			return nil, err
		}
		out := make([]float32, len(v))
		for i := range v {
			out[i] = -v[i]
		}
		return out, nil
	case Inv:
		v, err := nd.Left.Eval(rs)
		if err != nil {
			return nil, err
		}
		return vocab.Involution(v), nil
	}
	lv, err := nd.Left.Eval(rs)
	if err != nil {
		return nil, err
	}
	rv, err := nd.Right.Eval(rs)
	if err != nil {
		return nil, err
	}
	if len(lv) != len(rv) {
		return nil, fmt.Errorf("rules: operand dimensions differ: %d != %d", len(lv), len(rv))
	}
	switch nd.Kind {
	case Add:
		return vocab.Superpose(lv, rv), nil
	case Sub:
		return vocab.Subtract(lv, rv), nil
	case Bind:
		return vocab.Bind(lv, rv), nil
	}
	return nil, fmt.Errorf("rules: invalid node kind %d", nd.Kind)
}

// Refs appends the symbol and channel names this tree references to the
// given lists, for configuration-time validation.
func (nd *Node) Refs(syms, chans *[]string) {
	switch nd.Kind {
	case Sym:
		*syms = append(*syms, nd.Name)
	case Chan:
		*chans = append(*chans, nd.Name)
	}
	if nd.Left != nil {
		nd.Left.Refs(syms, chans)
	}
	if nd.Right != nil {
		nd.Right.Refs(syms, chans)
	}
}

// String returns the expression in parseable form, fully parenthesized.
func (nd *Node) String() string {
	switch nd.Kind {
	case Sym, Chan:
		return nd.Name
	case Neg:
		return "-" + nd.Left.String()
	case Inv:
		return "~" + nd.Left.String()
	case Add:
		return "(" + nd.Left.String() + " + " + nd.Right.String() + ")"
	case Sub:
		return "(" + nd.Left.String() + " - " + nd.Right.String() + ")"
	case Bind:
		return "(" + nd.Left.String() + " * " + nd.Right.String() + ")"
	}
	return "?"
}

// IsSymbolName returns true if the identifier names a vocabulary symbol
// (starts with an uppercase letter) as opposed to a channel.
func IsSymbolName(ident string) bool {
	r, _ := utf8.DecodeRuneInString(ident)
	return unicode.IsUpper(r)
}

//////////////////////////////////////////////////////////////////////
// Enums

// NodeKind is the variant tag for expression tree nodes.
type NodeKind int

//go:generate stringer -type=NodeKind

var KiT_NodeKind = kit.Enums.AddEnum(NodeKindN, false, nil)

const (
	// Sym is a reference to a vocabulary symbol by name
	Sym NodeKind = iota

	// Chan is a reference to a channel's current value by name
	Chan

	// Add is elementwise addition (superposition)
	Add

	// Sub is elementwise subtraction
	Sub

	// Bind is circular-convolution binding
	Bind

	// Inv is the unary ~ involution (approximate inverse under binding)
	Inv

	// Neg is unary negation
	Neg

	NodeKindN
)
