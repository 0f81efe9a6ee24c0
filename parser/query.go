// Copyright 2020 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parser

import "github.com/vdobler/hurl/ast"

func (p *Parser) query() ast.Query {
	return choice(p,
		alt[ast.Query](p.statusQuery),
		alt[ast.Query](p.headerQuery),
		alt[ast.Query](p.cookieQuery),
		alt[ast.Query](p.bodyQuery),
		alt[ast.Query](p.xpathQuery),
		alt[ast.Query](p.jsonPathQuery),
		alt[ast.Query](p.regexQuery),
		alt[ast.Query](p.variableQuery),
		alt[ast.Query](p.durationQuery),
	)
}

func (p *Parser) queryBase(keyword string) *ast.QueryBase {
	begin := p.pos
	if p.literal(keyword) == nil {
		return nil
	}
	return &ast.QueryBase{
		Span:    span(begin, p.pos),
		Keyword: &ast.QueryType{Span: span(begin, p.pos), Value: keyword},
	}
}

// queryArg parses the spaces and quoted argument following a keyword.
func (p *Parser) queryArg() *ast.QueryArg {
	spaces := oneOrMore(p, p.space)
	if spaces == nil {
		return nil
	}
	expr := p.quotedString()
	if expr == nil {
		return nil
	}
	return &ast.QueryArg{Spaces: spaces, Expr: expr}
}

// keywordQuery parses a query with a quoted argument.
func (p *Parser) keywordQuery(keyword string) (ast.QueryBase, ast.QueryArg, bool) {
	base := p.queryBase(keyword)
	if base == nil {
		return ast.QueryBase{}, ast.QueryArg{}, false
	}
	arg := p.queryArg()
	if arg == nil {
		return ast.QueryBase{}, ast.QueryArg{}, false
	}
	base.To = p.pos
	return *base, *arg, true
}

func (p *Parser) statusQuery() *ast.StatusQuery {
	base := p.queryBase("status")
	if base == nil {
		return nil
	}
	return &ast.StatusQuery{QueryBase: *base}
}

func (p *Parser) bodyQuery() *ast.BodyQuery {
	base := p.queryBase("body")
	if base == nil {
		return nil
	}
	return &ast.BodyQuery{QueryBase: *base}
}

func (p *Parser) durationQuery() *ast.DurationQuery {
	base := p.queryBase("duration")
	if base == nil {
		return nil
	}
	return &ast.DurationQuery{QueryBase: *base}
}

func (p *Parser) headerQuery() *ast.HeaderQuery {
	base, arg, ok := p.keywordQuery("header")
	if !ok {
		return nil
	}
	return &ast.HeaderQuery{QueryBase: base, QueryArg: arg}
}

func (p *Parser) cookieQuery() *ast.CookieQuery {
	base, arg, ok := p.keywordQuery("cookie")
	if !ok {
		return nil
	}
	return &ast.CookieQuery{QueryBase: base, QueryArg: arg}
}

func (p *Parser) xpathQuery() *ast.XPathQuery {
	base, arg, ok := p.keywordQuery("xpath")
	if !ok {
		return nil
	}
	return &ast.XPathQuery{QueryBase: base, QueryArg: arg}
}

func (p *Parser) jsonPathQuery() *ast.JSONPathQuery {
	base, arg, ok := p.keywordQuery("jsonpath")
	if !ok {
		return nil
	}
	return &ast.JSONPathQuery{QueryBase: base, QueryArg: arg}
}

func (p *Parser) regexQuery() *ast.RegexQuery {
	base, arg, ok := p.keywordQuery("regex")
	if !ok {
		return nil
	}
	return &ast.RegexQuery{QueryBase: base, QueryArg: arg}
}

func (p *Parser) variableQuery() *ast.VariableQuery {
	base, arg, ok := p.keywordQuery("variable")
	if !ok {
		return nil
	}
	return &ast.VariableQuery{QueryBase: base, QueryArg: arg}
}

func (p *Parser) subquery() ast.Subquery {
	return choice(p, alt[ast.Subquery](p.regexSubquery))
}

func (p *Parser) regexSubquery() *ast.RegexSubquery {
	begin := p.pos
	if p.literal("regex") == nil {
		return nil
	}
	keyword := &ast.SubqueryType{Span: span(begin, p.pos), Value: "regex"}
	spaces := oneOrMore(p, p.space)
	if spaces == nil {
		return nil
	}
	expr := p.quotedString()
	if expr == nil {
		return nil
	}
	return &ast.RegexSubquery{Span: span(begin, p.pos), Keyword: keyword, Spaces: spaces, Expr: expr}
}
