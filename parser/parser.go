// Copyright 2020 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package parser implements a backtracking recursive descent parser for
// hurl files.
//
// The parser works on Unicode code points. Every grammar rule is a method
// on Parser returning the parsed node or nil. A rule that fails leaves a
// SyntaxError in the parser; the combinators optional, choice, zeroOrMore
// and oneOrMore restore the position on failure and keep the error of
// every discarded alternative so that the most probable cause of a syntax
// error can be reported once parsing is over.
package parser

import (
	"github.com/vdobler/hurl/ast"
	"github.com/vdobler/hurl/errorlist"
)

// Parser is the cursor over the code points of a source text.
type Parser struct {
	buffer []rune
	pos    ast.Position
	err    *SyntaxError   // error of the rule currently running
	errs   []*SyntaxError // errors of all discarded alternatives
}

// New returns a parser for text.
func New(text string) *Parser {
	return &Parser{
		buffer: []rune(text),
		pos:    ast.StartPosition,
	}
}

// Position returns the current position of the cursor.
func (p *Parser) Position() ast.Position { return p.pos }

// Left returns the number of code points not yet consumed.
func (p *Parser) Left() int { return len(p.buffer) - p.pos.Offset }

// Errors returns the errors of all discarded alternatives.
func (p *Parser) Errors() errorlist.List {
	var el errorlist.List
	for _, e := range p.errs {
		el = el.Append(e)
	}
	return el
}

func (p *Parser) fail(msg string, pos ast.Position) {
	p.err = &SyntaxError{Msg: msg, Pos: pos}
}

func (p *Parser) peek() (rune, bool) {
	if p.pos.Offset >= len(p.buffer) {
		return 0, false
	}
	return p.buffer[p.pos.Offset], true
}

// read consumes the next code point. At the end of the buffer it sets
// an end of file error.
func (p *Parser) read() (rune, bool) {
	c, ok := p.peek()
	if !ok {
		p.err = &SyntaxError{Msg: "end of file", Pos: p.pos, EOF: true}
		return 0, false
	}
	p.pos.Offset++
	if !isCombining(c) {
		p.pos.Column++
	}
	if c == '\n' {
		p.pos.Line++
		p.pos.Column = 1
	}
	return c, true
}

// readN consumes n code points.
func (p *Parser) readN(n int) ([]rune, bool) {
	start := p.pos.Offset
	for i := 0; i < n; i++ {
		if _, ok := p.read(); !ok {
			return nil, false
		}
	}
	return p.buffer[start:p.pos.Offset], true
}

// readWhile consumes code points as long as f holds. It fails only if
// the end of the buffer is hit before anything could be read; an empty
// but successful result is possible.
func (p *Parser) readWhile(f func(rune) bool) ([]rune, bool) {
	start := p.pos.Offset
	for {
		c, ok := p.peek()
		if p.err != nil || !ok {
			if start == p.pos.Offset {
				return nil, false
			}
			p.err = nil
			break
		}
		if !f(c) {
			break
		}
		p.read()
	}
	return p.buffer[start:p.pos.Offset], true
}

// slice returns the source text between offset from and the cursor.
func (p *Parser) slice(from int) string {
	return string(p.buffer[from:p.pos.Offset])
}

// rewindTo moves the cursor back to pos retaining the current error.
func (p *Parser) rewindTo(pos ast.Position) {
	if p.err != nil {
		p.errs = append(p.errs, p.err)
	}
	p.err = nil
	p.pos = pos
}

// optional runs f and rewinds the parser if f fails.
func optional[T comparable](p *Parser, f func() T) T {
	var zero T
	pos := p.pos
	node := f()
	if p.err != nil || node == zero {
		p.rewindTo(pos)
		return zero
	}
	return node
}

// zeroOrMore applies f as long as it succeeds.
func zeroOrMore[T comparable](p *Parser, f func() T) []T {
	var nodes []T
	for p.Left() > 0 {
		node := optional(p, f)
		var zero T
		if node == zero {
			break
		}
		nodes = append(nodes, node)
	}
	return nodes
}

// oneOrMore is like zeroOrMore but the first application of f must
// succeed. On failure nil is returned.
func oneOrMore[T comparable](p *Parser, f func() T) []T {
	var zero T
	first := f()
	if first == zero {
		return nil
	}
	nodes := []T{first}
	for p.Left() > 0 {
		node := optional(p, f)
		if node == zero {
			break
		}
		nodes = append(nodes, node)
	}
	return nodes
}

// choice returns the result of the first alternative which succeeds.
func choice[T comparable](p *Parser, fs ...func() T) T {
	var zero T
	for _, f := range fs {
		if node := optional(p, f); node != zero {
			return node
		}
	}
	p.fail("no valid choices at", p.pos)
	return zero
}

// alt turns a rule producing a concrete node type T into one producing
// the interface type I so that it can be used in a choice. A failing
// rule yields a nil interface, never an interface holding a nil pointer.
func alt[I any, T comparable](f func() T) func() I {
	return func() I {
		var zero T
		var none I
		if node := f(); node != zero {
			return any(node).(I)
		}
		return none
	}
}

// RootError returns the most probable cause of a failed parse from all
// retained errors: the unique deepest error, or an unexpected char or
// unexpected end of file error at the deepest position if several
// errors share that position. It returns nil if no error was retained.
func (p *Parser) RootError() *SyntaxError {
	errs := p.errs
	if len(errs) == 0 && p.err != nil {
		errs = []*SyntaxError{p.err}
	}
	if len(errs) == 0 {
		return nil
	}
	deepest := errs[0]
	for _, e := range errs[1:] {
		if e.Pos.Offset > deepest.Pos.Offset {
			deepest = e
		}
	}
	var all errorlist.List
	for _, e := range errs {
		all = all.Append(e)
	}
	ties := all.Filter(func(err error) bool {
		return err.(*SyntaxError).Pos.Offset == deepest.Pos.Offset
	})
	if len(ties) == 1 {
		return deepest
	}
	if deepest.Pos.Offset >= len(p.buffer) {
		return &SyntaxError{Msg: "unexpected end of file", Pos: deepest.Pos}
	}
	c := p.buffer[deepest.Pos.Offset]
	return &SyntaxError{Msg: "unexpected char '" + string(c) + "'", Pos: deepest.Pos}
}
