// Copyright 2020 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parser

import (
	"strconv"

	"github.com/vdobler/hurl/ast"
)

var versions = []string{"HTTP/1.0", "HTTP/1.1", "HTTP/2", "HTTP/*"}

func (p *Parser) version() *ast.Version {
	begin := p.pos
	for _, v := range versions {
		if optional(p, p.lit(v)) != nil {
			return &ast.Version{Span: span(begin, p.pos), Value: v}
		}
	}
	p.fail("version is expected", p.pos)
	return nil
}

func (p *Parser) status() *ast.Status {
	begin := p.pos
	c, ok := p.peek()
	if !ok {
		return nil
	}
	if c == '*' {
		p.read()
		return &ast.Status{Span: span(begin, p.pos), Value: ast.StatusValue{Any: true}, Text: "*"}
	}
	digits, _ := p.readWhile(isDigit)
	code, err := strconv.Atoi(string(digits))
	if err != nil {
		p.fail("0-9 is expected", p.pos)
		return nil
	}
	return &ast.Status{Span: span(begin, p.pos), Value: ast.StatusValue{Code: code}, Text: string(digits)}
}

func (p *Parser) response() *ast.Response {
	begin := p.pos
	lts := p.lts()
	spaces0 := p.spaces()
	version := p.version()
	if version == nil {
		return nil
	}
	spaces1 := oneOrMore(p, p.space)
	if spaces1 == nil {
		return nil
	}
	status := p.status()
	if status == nil {
		return nil
	}
	lt := p.lineTerminator()
	if lt == nil {
		return nil
	}
	headers := zeroOrMore(p, p.header)
	sections := zeroOrMore(p, p.responseSection)
	body := optional(p, p.body)
	return &ast.Response{
		Span:     span(begin, p.pos),
		Lts:      lts,
		Spaces0:  spaces0,
		Version:  version,
		Spaces1:  spaces1,
		Status:   status,
		Lt:       lt,
		Headers:  headers,
		Sections: sections,
		Body:     body,
	}
}

func (p *Parser) responseSection() ast.ResponseSection {
	return choice(p,
		alt[ast.ResponseSection](p.capturesSection),
		alt[ast.ResponseSection](p.assertsSection),
	)
}

func (p *Parser) capturesSection() *ast.CapturesSection {
	base := p.sectionBase("Captures")
	if base == nil {
		return nil
	}
	captures := zeroOrMore(p, p.capture)
	base.To = p.pos
	return &ast.CapturesSection{SectionBase: *base, Captures: captures}
}

func (p *Parser) assertsSection() *ast.AssertsSection {
	base := p.sectionBase("Asserts")
	if base == nil {
		return nil
	}
	asserts := zeroOrMore(p, p.assert)
	base.To = p.pos
	return &ast.AssertsSection{SectionBase: *base, Asserts: asserts}
}

func (p *Parser) capture() *ast.Capture {
	begin := p.pos
	lts := p.lts()
	spaces0 := p.spaces()
	name := p.keyString()
	if name == nil {
		return nil
	}
	spaces1 := p.spaces()
	colon := p.literal(":")
	if colon == nil {
		return nil
	}
	spaces2 := p.spaces()
	query := p.query()
	if query == nil {
		return nil
	}
	spaces3 := p.spaces()
	var subquery ast.Subquery
	if len(spaces3) > 0 {
		subquery = optional(p, p.subquery)
	}
	lt := p.lineTerminator()
	if lt == nil {
		return nil
	}
	return &ast.Capture{
		Span:     span(begin, p.pos),
		Lts:      lts,
		Spaces0:  spaces0,
		Name:     name,
		Spaces1:  spaces1,
		Colon:    colon,
		Spaces2:  spaces2,
		Query:    query,
		Spaces3:  spaces3,
		Subquery: subquery,
		Lt:       lt,
	}
}

func (p *Parser) assert() *ast.Assert {
	begin := p.pos
	lts := p.lts()
	spaces0 := p.spaces()
	query := p.query()
	if query == nil {
		return nil
	}
	spaces1 := oneOrMore(p, p.space)
	if spaces1 == nil {
		return nil
	}
	predicate := p.predicate()
	if predicate == nil {
		return nil
	}
	lt := p.lineTerminator()
	if lt == nil {
		return nil
	}
	return &ast.Assert{
		Span:      span(begin, p.pos),
		Lts:       lts,
		Spaces0:   spaces0,
		Query:     query,
		Spaces1:   spaces1,
		Predicate: predicate,
		Lt:        lt,
	}
}
