// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rules

import (
	"fmt"
	"strings"
)

// CondTerm is one dot(channel, expr) condition term: the cosine
// similarity of the channel's current value against the expression value
// contributes additively to the rule's utility.
type CondTerm struct {
	Channel string `desc:"channel whose current value is compared"`
	Expr    *Node  `desc:"expression the channel value is compared against"`
}

// Effect is one channel = expr assignment, applied by the router weighted
// by the rule's selection signal.
type Effect struct {
	Channel string `desc:"destination channel"`
	Expr    *Node  `desc:"expression whose value is added into the destination"`
}

// Rule is one declarative condition --> effect pair.  Rules are built at
// configuration time and never mutated afterward.
type Rule struct {
	Name    string     `desc:"name of this rule, for diagnostics and logging"`
	Cond    []CondTerm `desc:"condition terms, summed into the utility"`
	Effects []Effect   `desc:"effect assignments applied when selected"`
}

// ParseRule parses rule text of the form:
//
//	dot(chan, expr) + dot(chan, expr) --> chan = expr; chan = expr
//
// Effects may also be separated by newlines.
func ParseRule(name, src string) (*Rule, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, fmt.Errorf("rule %q: %w", name, err)
	}
	ps := &parser{toks: toks}
	rl := &Rule{Name: name}

	for ps.cur().kind == tkSemi { // leading newlines
		ps.next()
	}
	for {
		ct, err := ps.condTerm()
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", name, err)
		}
		rl.Cond = append(rl.Cond, ct)
		for ps.cur().kind == tkSemi { // newlines around + and before -->
			ps.next()
		}
		if ps.cur().kind != tkPlus {
			break
		}
		ps.next()
		for ps.cur().kind == tkSemi {
			ps.next()
		}
	}
	if _, err := ps.expect(tkArrow, "-->"); err != nil {
		return nil, fmt.Errorf("rule %q: %w", name, err)
	}
	for {
		// skip blank separators
		for ps.cur().kind == tkSemi {
			ps.next()
		}
		if ps.cur().kind == tkEOF {
			break
		}
		ef, err := ps.effect()
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", name, err)
		}
		rl.Effects = append(rl.Effects, ef)
		if ps.cur().kind != tkSemi && ps.cur().kind != tkEOF {
			return nil, fmt.Errorf("rule %q: %w: expected ; or end at %d, got %q", name, ErrParse, ps.cur().pos, ps.cur().text)
		}
	}
	if len(rl.Effects) == 0 {
		return nil, fmt.Errorf("rule %q: %w: no effect assignments", name, ErrParse)
	}
	return rl, nil
}

// condTerm := 'dot' '(' chanIdent ',' expr ')'
func (ps *parser) condTerm() (CondTerm, error) {
	ct := CondTerm{}
	tk, err := ps.expect(tkIdent, "dot")
	if err != nil {
		return ct, err
	}
	if tk.text != "dot" {
		return ct, fmt.Errorf("%w: expected dot at %d, got %q", ErrParse, tk.pos, tk.text)
	}
	if _, err := ps.expect(tkLParen, "("); err != nil {
		return ct, err
	}
	ch, err := ps.expect(tkIdent, "channel name")
	if err != nil {
		return ct, err
	}
	if IsSymbolName(ch.text) {
		return ct, fmt.Errorf("%w: dot first argument %q at %d must be a channel (lowercase), not a symbol", ErrParse, ch.text, ch.pos)
	}
	ct.Channel = ch.text
	if _, err := ps.expect(tkComma, ","); err != nil {
		return ct, err
	}
	ct.Expr, err = ps.expr()
	if err != nil {
		return ct, err
	}
	if _, err := ps.expect(tkRParen, ")"); err != nil {
		return ct, err
	}
	return ct, nil
}

// effect := chanIdent '=' expr
func (ps *parser) effect() (Effect, error) {
	ef := Effect{}
	ch, err := ps.expect(tkIdent, "channel name")
	if err != nil {
		return ef, err
	}
	if IsSymbolName(ch.text) {
		return ef, fmt.Errorf("%w: assignment target %q at %d must be a channel (lowercase), not a symbol", ErrParse, ch.text, ch.pos)
	}
	ef.Channel = ch.text
	if _, err := ps.expect(tkAssign, "="); err != nil {
		return ef, err
	}
	ef.Expr, err = ps.expr()
	if err != nil {
		return ef, err
	}
	return ef, nil
}

// Refs returns all symbol and channel names referenced anywhere in the
// rule (conditions and effects), for configuration-time validation.
func (rl *Rule) Refs() (syms, chans []string) {
	for _, ct := range rl.Cond {
		chans = append(chans, ct.Channel)
		ct.Expr.Refs(&syms, &chans)
	}
	for _, ef := range rl.Effects {
		chans = append(chans, ef.Channel)
		ef.Expr.Refs(&syms, &chans)
	}
	return
}

// String returns the rule in parseable form.
func (rl *Rule) String() string {
	var b strings.Builder
	for i, ct := range rl.Cond {
		if i > 0 {
			b.WriteString(" + ")
		}
		fmt.Fprintf(&b, "dot(%s, %s)", ct.Channel, ct.Expr)
	}
	b.WriteString(" --> ")
	for i, ef := range rl.Effects {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s = %s", ef.Channel, ef.Expr)
	}
	return b.String()
}
