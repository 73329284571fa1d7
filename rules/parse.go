// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rules

import (
	"errors"
	"fmt"
	"unicode"
)

// ErrParse is the base error for all expression and rule parse failures.
var ErrParse = errors.New("parse error")

// tokKind enumerates lexical token kinds for the rule grammar.
type tokKind int

const (
	tkEOF tokKind = iota
	tkIdent
	tkPlus
	tkMinus
	tkStar
	tkTilde
	tkLParen
	tkRParen
	tkComma
	tkArrow  // -->
	tkAssign // =
	tkSemi   // ; or newline
)

type token struct {
	kind tokKind
	text string
	pos  int
}

// lexer scans rule text into tokens.  It is deliberately minimal: the
// grammar is fixed and small, so no lexing library is warranted.
type lexer struct {
	src  string
	pos  int
	toks []token
}

func lex(src string) ([]token, error) {
	lx := &lexer{src: src}
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\r':
			lx.pos++
		case c == '\n' || c == ';':
			lx.emit(tkSemi, string(c))
		case c == '+':
			lx.emit(tkPlus, "+")
		case c == '*':
			lx.emit(tkStar, "*")
		case c == '~':
			lx.emit(tkTilde, "~")
		case c == '(':
			lx.emit(tkLParen, "(")
		case c == ')':
			lx.emit(tkRParen, ")")
		case c == ',':
			lx.emit(tkComma, ",")
		case c == '=':
			lx.emit(tkAssign, "=")
		case c == '-':
			if lx.pos+2 < len(lx.src) && lx.src[lx.pos+1] == '-' && lx.src[lx.pos+2] == '>' {
				lx.toks = append(lx.toks, token{tkArrow, "-->", lx.pos})
				lx.pos += 3
			} else {
				lx.emit(tkMinus, "-")
			}
		case isIdentStart(rune(c)):
			st := lx.pos
			for lx.pos < len(lx.src) && isIdentRune(rune(lx.src[lx.pos])) {
				lx.pos++
			}
			lx.toks = append(lx.toks, token{tkIdent, lx.src[st:lx.pos], st})
		default:
			return nil, fmt.Errorf("%w: unexpected character %q at %d", ErrParse, c, lx.pos)
		}
	}
	lx.toks = append(lx.toks, token{tkEOF, "", len(lx.src)})
	return lx.toks, nil
}

func (lx *lexer) emit(k tokKind, s string) {
	lx.toks = append(lx.toks, token{k, s, lx.pos})
	lx.pos += len(s)
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentRune(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

// parser is a recursive-descent parser over the token stream.
type parser struct {
	toks []token
	pos  int
}

func (ps *parser) cur() token  { return ps.toks[ps.pos] }
func (ps *parser) next() token { tk := ps.toks[ps.pos]; ps.pos++; return tk }

func (ps *parser) expect(k tokKind, what string) (token, error) {
	tk := ps.cur()
	if tk.kind != k {
		return tk, fmt.Errorf("%w: expected %s at %d, got %q", ErrParse, what, tk.pos, tk.text)
	}
	ps.pos++
	return tk, nil
}

// ParseExpr parses an algebraic expression over symbols and channels.
// All binary operators (+ - *) share one precedence level and associate
// left; unary ~ and - bind tightest.
func ParseExpr(src string) (*Node, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	ps := &parser{toks: toks}
	nd, err := ps.expr()
	if err != nil {
		return nil, err
	}
	if tk := ps.cur(); tk.kind != tkEOF {
		return nil, fmt.Errorf("%w: unexpected %q at %d", ErrParse, tk.text, tk.pos)
	}
	return nd, nil
}

// expr := factor (('+' | '-' | '*') factor)*
func (ps *parser) expr() (*Node, error) {
	nd, err := ps.factor()
	if err != nil {
		return nil, err
	}
	for {
		var kind NodeKind
		switch ps.cur().kind {
		case tkPlus:
			kind = Add
		case tkMinus:
			kind = Sub
		case tkStar:
			kind = Bind
		default:
			return nd, nil
		}
		ps.next()
		rt, err := ps.factor()
		if err != nil {
			return nil, err
		}
		nd = &Node{Kind: kind, Left: nd, Right: rt}
	}
}

// factor := '~' factor | '-' factor | ident | '(' expr ')'
func (ps *parser) factor() (*Node, error) {
	tk := ps.cur()
	switch tk.kind {
	case tkTilde:
		ps.next()
		ch, err := ps.factor()
		if err != nil {
			return nil, err
		}
		return &Node{Kind: Inv, Left: ch}, nil
	case tkMinus:
		ps.next()
		ch, err := ps.factor()
		if err != nil {
			return nil, err
		}
		return &Node{Kind: Neg, Left: ch}, nil
	case tkIdent:
		ps.next()
		if IsSymbolName(tk.text) {
			return &Node{Kind: Sym, Name: tk.text}, nil
		}
		return &Node{Kind: Chan, Name: tk.text}, nil
	case tkLParen:
		ps.next()
		nd, err := ps.expr()
		if err != nil {
			return nil, err
		}
		if _, err := ps.expect(tkRParen, ")"); err != nil {
			return nil, err
		}
		return nd, nil
	}
	return nil, fmt.Errorf("%w: expected operand at %d, got %q", ErrParse, tk.pos, tk.text)
}
