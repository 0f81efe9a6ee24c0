// Copyright 2020 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parser

import (
	"fmt"

	"github.com/vdobler/hurl/ast"
)

// Parse parses the hurl source text. On failure the returned error is a
// *SyntaxError describing the most probable cause.
func Parse(text string) (*ast.HurlFile, error) {
	p := New(text)
	f := p.HurlFile()
	if f == nil {
		if e := p.RootError(); e != nil {
			return nil, e
		}
		return nil, &SyntaxError{Msg: "invalid hurl file", Pos: p.pos}
	}
	return f, nil
}

// HurlFile parses a complete hurl file. It returns nil if the input
// cannot be parsed completely.
func (p *Parser) HurlFile() *ast.HurlFile {
	begin := p.pos
	entries := zeroOrMore(p, p.entry)
	lts := p.lts()
	if p.err != nil {
		return nil
	}
	if c, ok := p.peek(); ok {
		p.fail(fmt.Sprintf("unexpected char '%c'", c), p.pos)
		return nil
	}
	return &ast.HurlFile{Span: span(begin, p.pos), Entries: entries, Lts: lts}
}

func (p *Parser) entry() *ast.Entry {
	begin := p.pos
	req := p.request()
	if req == nil {
		return nil
	}
	resp := optional(p, p.response)
	return &ast.Entry{Span: span(begin, p.pos), Request: req, Response: resp}
}
