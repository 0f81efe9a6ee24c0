// Copyright 2020 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parser

import "github.com/vdobler/hurl/ast"

var methods = []string{"GET", "HEAD", "POST", "PUT", "DELETE", "CONNECT", "OPTIONS", "TRACE", "PATCH"}

func (p *Parser) method() *ast.Method {
	begin := p.pos
	for _, m := range methods {
		if optional(p, p.lit(m)) != nil {
			return &ast.Method{Span: span(begin, p.pos), Value: m}
		}
	}
	p.fail("method is expected", p.pos)
	return nil
}

// url is not a real URL parser: it accepts the characters allowed by
// RFC 3986 plus the braces of templates.
func (p *Parser) url() *ast.URL {
	begin := p.pos
	u, _ := p.readWhile(func(c rune) bool {
		return isLetter(c) || isDigit(c) ||
			oneOf(c, "-._~") ||
			oneOf(c, ":/?#[]@") ||
			oneOf(c, `!$&\()*+,;=`) ||
			c == '%' || isTemplateControl(c)
	})
	if len(u) == 0 {
		p.fail("url is expected", p.pos)
		return nil
	}
	return &ast.URL{Span: span(begin, p.pos), Value: string(u)}
}

func (p *Parser) request() *ast.Request {
	begin := p.pos
	lts := p.lts()
	spaces0 := p.spaces()
	method := p.method()
	if method == nil {
		return nil
	}
	spaces1 := oneOrMore(p, p.space)
	if spaces1 == nil {
		return nil
	}
	url := p.url()
	if url == nil {
		return nil
	}
	lt := p.lineTerminator()
	if lt == nil {
		return nil
	}
	headers := zeroOrMore(p, p.header)
	sections := zeroOrMore(p, p.requestSection)
	body := optional(p, p.body)
	return &ast.Request{
		Span:     span(begin, p.pos),
		Lts:      lts,
		Spaces0:  spaces0,
		Method:   method,
		Spaces1:  spaces1,
		URL:      url,
		Lt:       lt,
		Headers:  headers,
		Sections: sections,
		Body:     body,
	}
}

func (p *Parser) requestSection() ast.RequestSection {
	return choice(p,
		alt[ast.RequestSection](p.queryStringParamsSection),
		alt[ast.RequestSection](p.formParamsSection),
		alt[ast.RequestSection](p.cookiesSection),
		alt[ast.RequestSection](p.multipartFormDataSection),
	)
}

// sectionBase parses the blank lines and header line of a section.
func (p *Parser) sectionBase(name string) *ast.SectionBase {
	begin := p.pos
	lts := p.lts()
	spaces := p.spaces()
	header := p.sectionHeader(name)
	if header == nil {
		return nil
	}
	lt := p.lineTerminator()
	if lt == nil {
		return nil
	}
	return &ast.SectionBase{Span: span(begin, p.pos), Lts: lts, Spaces: spaces, Header: header, Lt: lt}
}

func (p *Parser) queryStringParamsSection() *ast.QueryStringParamsSection {
	base := p.sectionBase("QueryStringParams")
	if base == nil {
		return nil
	}
	params := zeroOrMore(p, p.param)
	base.To = p.pos
	return &ast.QueryStringParamsSection{SectionBase: *base, Params: params}
}

func (p *Parser) formParamsSection() *ast.FormParamsSection {
	base := p.sectionBase("FormParams")
	if base == nil {
		return nil
	}
	params := zeroOrMore(p, p.param)
	base.To = p.pos
	return &ast.FormParamsSection{SectionBase: *base, Params: params}
}

func (p *Parser) cookiesSection() *ast.CookiesSection {
	base := p.sectionBase("Cookies")
	if base == nil {
		return nil
	}
	cookies := zeroOrMore(p, p.cookie)
	base.To = p.pos
	return &ast.CookiesSection{SectionBase: *base, Cookies: cookies}
}

func (p *Parser) multipartFormDataSection() *ast.MultipartFormDataSection {
	base := p.sectionBase("MultipartFormData")
	if base == nil {
		return nil
	}
	var params []*ast.Param
	var fileParams []*ast.FileParam
	for {
		// A file param is tried first: "b: file,x;" is a valid param too.
		if fp := optional(p, p.fileParam); fp != nil {
			fileParams = append(fileParams, fp)
			continue
		}
		if pa := optional(p, p.param); pa != nil {
			params = append(params, pa)
			continue
		}
		break
	}
	base.To = p.pos
	return &ast.MultipartFormDataSection{SectionBase: *base, Params: params, FileParams: fileParams}
}
