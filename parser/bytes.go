// Copyright 2020 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parser

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"strings"
	"unicode/utf8"

	"github.com/vdobler/hurl/ast"
)

func (p *Parser) body() *ast.Body {
	begin := p.pos
	lts := p.lts()
	spaces := p.spaces()
	b := p.bytes()
	if b == nil {
		return nil
	}
	lt := p.lineTerminator()
	if lt == nil {
		return nil
	}
	return &ast.Body{Span: span(begin, p.pos), Lts: lts, Spaces: spaces, Bytes: b, Lt: lt}
}

func (p *Parser) bytes() ast.Bytes {
	node := choice(p,
		alt[ast.Bytes](p.json),
		alt[ast.Bytes](p.xml),
		alt[ast.Bytes](p.rawString),
		alt[ast.Bytes](p.base64),
		alt[ast.Bytes](p.file),
	)
	if node == nil {
		p.fail("a valid bytes is expected", p.pos)
	}
	return node
}

func (p *Parser) base64() *ast.Base64 {
	begin := p.pos
	prefix := p.literal("base64,")
	if prefix == nil {
		return nil
	}
	spaces0 := p.spaces()
	value := p.base64String()
	if value == nil {
		return nil
	}
	spaces1 := p.spaces()
	suffix := p.literal(";")
	if suffix == nil {
		return nil
	}
	return &ast.Base64{
		Span:    span(begin, p.pos),
		Prefix:  prefix,
		Spaces0: spaces0,
		Value:   value,
		Spaces1: spaces1,
		Suffix:  suffix,
	}
}

func (p *Parser) file() *ast.File {
	begin := p.pos
	prefix := p.literal("file,")
	if prefix == nil {
		return nil
	}
	spaces0 := p.spaces()
	filename := p.pathString()
	if filename == nil {
		return nil
	}
	spaces1 := p.spaces()
	suffix := p.literal(";")
	if suffix == nil {
		return nil
	}
	return &ast.File{
		Span:     span(begin, p.pos),
		Prefix:   prefix,
		Spaces0:  spaces0,
		Filename: filename,
		Spaces1:  spaces1,
		Suffix:   suffix,
	}
}

// remaining returns the unconsumed input.
func (p *Parser) remaining() string {
	return string(p.buffer[p.pos.Offset:])
}

// consume advances the cursor over the code points of the first n bytes
// of the remaining input and returns them.
func (p *Parser) consume(rest string, n int) string {
	text := rest[:n]
	p.readN(utf8.RuneCountInString(text))
	return text
}

func (p *Parser) json() *ast.JSON {
	begin := p.pos
	rest := p.remaining()
	n, ok := jsonLength(rest)
	if !ok {
		p.fail("valid JSON body is expected", p.pos)
		return nil
	}
	text := p.consume(rest, n)
	return &ast.JSON{Span: span(begin, p.pos), Text: text}
}

// jsonLength returns the length in bytes of the JSON value at the start
// of s. Anything following the value is ignored.
func jsonLength(s string) (int, bool) {
	dec := json.NewDecoder(strings.NewReader(s))
	var v json.RawMessage
	if err := dec.Decode(&v); err != nil {
		return 0, false
	}
	return int(dec.InputOffset()), true
}

func (p *Parser) xml() *ast.XML {
	begin := p.pos
	if c, ok := p.peek(); !ok || c != '<' {
		p.fail("Xml is expected", p.pos)
		return nil
	}
	rest := p.remaining()
	n, ok := xmlLength(rest)
	if !ok {
		p.fail("valid Xml body is expected", p.pos)
		return nil
	}
	text := p.consume(rest, n)
	return &ast.XML{Span: span(begin, p.pos), Text: text}
}

// xmlLength returns the length in bytes of the XML document at the start
// of s: a prolog and one root element. Anything following the root
// element is ignored.
func xmlLength(s string) (int, bool) {
	dec := xml.NewDecoder(strings.NewReader(s))
	dec.Strict = true
	depth := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			return 0, false
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
			if depth == 0 {
				return int(dec.InputOffset()), true
			}
		case xml.CharData:
			if depth == 0 && len(bytes.TrimSpace(t)) > 0 {
				return 0, false
			}
		}
	}
}

const multilineMarker = "```"

func (p *Parser) isMultilineMarker() bool {
	begin := p.pos
	ok := p.literal(multilineMarker) != nil
	p.err = nil
	p.pos = begin
	return ok
}

// leadingRawStringPrefix is the optional rest of the line after the
// opening marker.
func (p *Parser) leadingRawStringPrefix() *ast.String {
	begin := p.pos
	p.spaces()
	if p.newline() == nil {
		return nil
	}
	text := p.slice(begin.Offset)
	return &ast.String{Span: span(begin, p.pos), Value: text, Text: text}
}

func (p *Parser) rawString() *ast.RawString {
	begin := p.pos
	if p.literal(multilineMarker) == nil {
		return nil
	}
	optional(p, p.leadingRawStringPrefix)
	content, ok := p.readWhile(func(rune) bool { return !p.isMultilineMarker() })
	if !ok {
		p.fail("invalid multiline-string", p.pos)
		return nil
	}
	value := string(content)
	if p.literal(multilineMarker) == nil {
		return nil
	}
	return &ast.RawString{Span: span(begin, p.pos), Value: value, Text: p.slice(begin.Offset)}
}
