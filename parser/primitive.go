// Copyright 2020 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parser

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/vdobler/hurl/ast"
)

func span(from, to ast.Position) ast.Span { return ast.Span{From: from, To: to} }

// lit returns a rule parsing the literal s.
func (p *Parser) lit(s string) func() *ast.Literal {
	return func() *ast.Literal { return p.literal(s) }
}

func (p *Parser) spaces() []*ast.Space { return zeroOrMore(p, p.space) }

func (p *Parser) lts() []*ast.LineTerminator { return zeroOrMore(p, p.lineTerminator) }

func (p *Parser) literal(s string) *ast.Literal {
	begin := p.pos
	for _, want := range s {
		c, ok := p.peek()
		if !ok {
			p.fail(fmt.Sprintf("'%s' is expected, invalid eof instead of '%c'", s, want), p.pos)
			return nil
		}
		if c != want {
			p.fail(fmt.Sprintf("'%s' is expected, invalid '%c' instead of '%c'", s, c, want), p.pos)
			return nil
		}
		p.read()
	}
	return &ast.Literal{Span: span(begin, p.pos), Value: s}
}

func (p *Parser) space() *ast.Space {
	begin := p.pos
	c, ok := p.read()
	if !ok || !isSpace(c) {
		p.fail("space or tab is expected", p.pos)
		return nil
	}
	return &ast.Space{Span: span(begin, p.pos), Value: string(c)}
}

func (p *Parser) newline() *ast.Newline {
	begin := p.pos
	c, _ := p.read()
	switch c {
	case '\n':
	case '\r':
		if c, ok := p.read(); !ok || c != '\n' {
			p.fail(`\n is expected`, begin)
			return nil
		}
	default:
		p.fail(`\n or \r\n is expected`, begin)
		return nil
	}
	return &ast.Newline{Span: span(begin, p.pos), Value: p.slice(begin.Offset)}
}

func (p *Parser) comment() *ast.Comment {
	begin := p.pos
	if p.literal("#") == nil {
		return nil
	}
	p.readWhile(func(c rune) bool { return !isNewline(c) })
	return &ast.Comment{Span: span(begin, p.pos), Value: p.slice(begin.Offset)}
}

// lineTerminator must end with a newline unless the input is exhausted.
func (p *Parser) lineTerminator() *ast.LineTerminator {
	begin := p.pos
	spaces := p.spaces()
	comment := optional(p, p.comment)
	nl := optional(p, p.newline)
	if nl == nil && p.Left() > 0 {
		p.fail("newline is expected", begin)
		return nil
	}
	return &ast.LineTerminator{
		Span:    span(begin, p.pos),
		Spaces:  spaces,
		Comment: comment,
		Newline: nl,
	}
}

func (p *Parser) sectionHeader(name string) *ast.SectionHeader {
	begin := p.pos
	l := p.literal("[" + name + "]")
	if l == nil {
		return nil
	}
	return &ast.SectionHeader{Span: span(begin, p.pos), Value: l.Value}
}

func (p *Parser) boolean() *ast.Bool {
	begin := p.pos
	for _, text := range []string{"true", "false"} {
		if optional(p, p.lit(text)) != nil {
			return &ast.Bool{Span: span(begin, p.pos), Value: text == "true", Text: text}
		}
	}
	p.fail("true or false is expected", p.pos)
	return nil
}

func (p *Parser) null() *ast.Null {
	begin := p.pos
	if p.literal("null") == nil {
		return nil
	}
	return &ast.Null{Span: span(begin, p.pos)}
}

func (p *Parser) not() *ast.Not {
	begin := p.pos
	l := p.literal("not")
	if l == nil {
		return nil
	}
	return &ast.Not{Span: span(begin, p.pos), Text: l}
}

func (p *Parser) sign() {
	if c, ok := p.peek(); ok && (c == '-' || c == '+') {
		p.read()
	}
}

func (p *Parser) integer() *ast.Number {
	begin := p.pos
	if _, ok := p.peek(); !ok {
		return nil
	}
	p.sign()
	if digits, _ := p.readWhile(isDigit); len(digits) == 0 {
		p.fail("[0-9] is expected", p.pos)
		return nil
	}
	text := p.slice(begin.Offset)
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil
	}
	return &ast.Number{Span: span(begin, p.pos), Value: float64(n), Text: text}
}

func (p *Parser) float() *ast.Number {
	begin := p.pos
	if _, ok := p.peek(); !ok {
		return nil
	}
	p.sign()
	if digits, _ := p.readWhile(isDigit); len(digits) == 0 {
		p.fail("[0-9] is expected", p.pos)
		return nil
	}
	if c, ok := p.read(); !ok || c != '.' {
		p.fail("'.' is expected", p.pos)
		return nil
	}
	if digits, _ := p.readWhile(isDigit); len(digits) == 0 {
		p.fail("[0-9] is expected", p.pos)
		return nil
	}
	text := p.slice(begin.Offset)
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil
	}
	return &ast.Number{Span: span(begin, p.pos), Value: f, Text: text}
}

func (p *Parser) number() *ast.Number {
	return choice(p, p.float, p.integer)
}

// unicodeChar parses the "{hex}" part of a \u escape.
func (p *Parser) unicodeChar() (rune, bool) {
	if c, ok := p.read(); !ok || c != '{' {
		p.fail("{ expected, invalid unicode literal", p.pos)
		return 0, false
	}
	hex, _ := p.readWhile(func(c rune) bool { return isDigit(c) || isHexLetter(c) })
	if len(hex) == 0 || len(hex) > 8 {
		p.fail("invalid unicode literal", p.pos)
		return 0, false
	}
	n, err := strconv.ParseUint(string(hex), 16, 32)
	if err != nil || !utf8.ValidRune(rune(n)) {
		p.fail("invalid unicode literal", p.pos)
		return 0, false
	}
	if c, ok := p.read(); !ok || c != '}' {
		p.fail("} expected, invalid unicode literal", p.pos)
		return 0, false
	}
	return rune(n), true
}

// escape handles the code point after a backslash. Allowed lists the
// characters which stand for themselves. The returned bool is false on
// error; missing is the message used at end of input.
func (p *Parser) escape(value *strings.Builder, allowed string, missing string) bool {
	c, ok := p.read()
	switch {
	case !ok:
		p.fail(missing, p.pos)
		return false
	case strings.ContainsRune(allowed, c):
		value.WriteRune(c)
	case c == 'b':
		value.WriteByte('\b')
	case c == 'n':
		value.WriteByte('\n')
	case c == 'r':
		value.WriteByte('\r')
	case c == 't':
		value.WriteByte('\t')
	case c == 'u':
		u, ok := p.unicodeChar()
		if !ok {
			return false
		}
		value.WriteRune(u)
	default:
		p.fail(fmt.Sprintf("invalid escape char %c", c), p.pos)
		return false
	}
	return true
}

func (p *Parser) keyString() *ast.String {
	begin := p.pos
	key := &strings.Builder{}
	for {
		c, ok := p.peek()
		if !ok {
			break
		}
		if isLetter(c) || isDigit(c) || oneOf(c, "_-.") {
			p.read()
			key.WriteRune(c)
		} else if c == '\\' {
			p.read()
			if !p.escape(key, "# :\\", "invalid key-string") {
				return nil
			}
		} else {
			break
		}
	}
	if p.pos.Offset == begin.Offset {
		p.fail("invalid empty key-string", p.pos)
		return nil
	}
	return &ast.String{Span: span(begin, p.pos), Value: key.String(), Text: p.slice(begin.Offset)}
}

func (p *Parser) quotedString() *ast.String {
	begin := p.pos
	if c, ok := p.read(); !ok || c != '"' {
		p.fail(`" is expected at quoted-string beginning`, p.pos)
		return nil
	}
	value := &strings.Builder{}
	for {
		c, ok := p.read()
		if !ok {
			p.fail(`" is expected at quoted-string end`, p.pos)
			return nil
		}
		if c == '"' {
			break
		}
		if c == '\\' {
			if !p.escape(value, `"\`, "invalid quoted-string") {
				return nil
			}
			continue
		}
		value.WriteRune(c)
	}
	return &ast.String{Span: span(begin, p.pos), Value: value.String(), Text: p.slice(begin.Offset)}
}

// valueString parses an unquoted value up to a comment or the end of
// the line. Trailing spaces are not part of the value and are left for
// the following line terminator.
func (p *Parser) valueString() *ast.String {
	begin := p.pos
	c, ok := p.peek()
	if !ok {
		return &ast.String{Span: span(begin, p.pos)}
	}
	if isSpace(c) {
		p.fail("invalid unquoted-string-value", p.pos)
		return nil
	}
	value := &strings.Builder{}
	end := p.pos
	pending := ""
	for {
		c, ok := p.read()
		if !ok || c == '#' || isNewline(c) {
			p.rewindTo(end)
			break
		}
		switch {
		case isSpace(c):
			pending += string(c)
		case c == '\\':
			value.WriteString(pending)
			pending = ""
			if !p.escape(value, `\#`, "invalid unquoted-string-value") {
				return nil
			}
			end = p.pos
		default:
			value.WriteString(pending)
			pending = ""
			value.WriteRune(c)
			end = p.pos
		}
	}
	return &ast.String{Span: span(begin, p.pos), Value: value.String(), Text: p.slice(begin.Offset)}
}

func (p *Parser) keyValue() *ast.KeyValue {
	begin := p.pos
	key := p.keyString()
	if key == nil {
		return nil
	}
	spaces0 := p.spaces()
	colon := p.literal(":")
	if colon == nil {
		return nil
	}
	spaces1 := p.spaces()
	value := p.valueString()
	if value == nil {
		return nil
	}
	return &ast.KeyValue{
		Span:    span(begin, p.pos),
		Key:     key,
		Spaces0: spaces0,
		Colon:   colon,
		Spaces1: spaces1,
		Value:   value,
	}
}

func (p *Parser) header() *ast.Header {
	begin := p.pos
	lts := p.lts()
	spaces := p.spaces()
	kv := p.keyValue()
	if kv == nil {
		return nil
	}
	lt := p.lineTerminator()
	if lt == nil {
		return nil
	}
	return &ast.Header{Span: span(begin, p.pos), Lts: lts, Spaces: spaces, KeyValue: kv, Lt: lt}
}

func (p *Parser) param() *ast.Param {
	begin := p.pos
	lts := p.lts()
	spaces := p.spaces()
	kv := p.keyValue()
	if kv == nil {
		return nil
	}
	lt := p.lineTerminator()
	if lt == nil {
		return nil
	}
	return &ast.Param{Span: span(begin, p.pos), Lts: lts, Spaces: spaces, KeyValue: kv, Lt: lt}
}

func (p *Parser) cookieValue() *ast.CookieValue {
	begin := p.pos
	value, _ := p.readWhile(func(c rune) bool {
		return isTemplateControl(c) || isLetter(c) || isDigit(c) || oneOf(c, ":/%_-")
	})
	if len(value) == 0 {
		p.fail("[A-Za-z0-9:/%_-] char is expected in cookie-value", p.pos)
		return nil
	}
	return &ast.CookieValue{Span: span(begin, p.pos), Value: string(value)}
}

func (p *Parser) cookie() *ast.Cookie {
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
	value := p.cookieValue()
	if value == nil {
		return nil
	}
	lt := p.lineTerminator()
	if lt == nil {
		return nil
	}
	return &ast.Cookie{
		Span:    span(begin, p.pos),
		Lts:     lts,
		Spaces0: spaces0,
		Name:    name,
		Spaces1: spaces1,
		Colon:   colon,
		Spaces2: spaces2,
		Value:   value,
		Lt:      lt,
	}
}

func (p *Parser) pathString() *ast.String {
	begin := p.pos
	name, ok := p.readWhile(func(c rune) bool {
		return isLetter(c) || isDigit(c) || oneOf(c, "./+_-")
	})
	if !ok {
		p.fail("a valid filename is expected", p.pos)
		return nil
	}
	filename := string(name)
	if strings.Contains(filename, "..") {
		p.fail("relative filename is not valid", p.pos)
		return nil
	}
	return &ast.String{Span: span(begin, p.pos), Value: filename, Text: filename}
}

func (p *Parser) fileValue() *ast.FileValue {
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
	spaces2 := p.spaces()
	contentType := optional(p, p.valueString)
	if contentType != nil && contentType.Value == "" {
		contentType = nil
	}
	return &ast.FileValue{
		Span:        span(begin, p.pos),
		Prefix:      prefix,
		Spaces0:     spaces0,
		Filename:    filename,
		Spaces1:     spaces1,
		Suffix:      suffix,
		Spaces2:     spaces2,
		ContentType: contentType,
	}
}

func (p *Parser) fileParam() *ast.FileParam {
	begin := p.pos
	lts := p.lts()
	spaces0 := p.spaces()
	key := p.keyString()
	if key == nil {
		return nil
	}
	spaces1 := p.spaces()
	colon := p.literal(":")
	if colon == nil {
		return nil
	}
	spaces2 := p.spaces()
	file := p.fileValue()
	if file == nil {
		return nil
	}
	lt := p.lineTerminator()
	if lt == nil {
		return nil
	}
	return &ast.FileParam{
		Span:    span(begin, p.pos),
		Lts:     lts,
		Spaces0: spaces0,
		Key:     key,
		Spaces1: spaces1,
		Colon:   colon,
		Spaces2: spaces2,
		File:    file,
		Lt:      lt,
	}
}

func (p *Parser) variableName() *ast.VariableName {
	begin := p.pos
	name, _ := p.readWhile(func(c rune) bool {
		return isLetter(c) || isDigit(c) || c == '_' || c == '-'
	})
	if len(name) == 0 {
		p.fail("[A-Za-z0-9_-] char is expected in variable-name", p.pos)
		return nil
	}
	return &ast.VariableName{Span: span(begin, p.pos), Value: string(name)}
}

func (p *Parser) expr() *ast.Expr {
	begin := p.pos
	prefix := p.literal("{{")
	if prefix == nil {
		return nil
	}
	name := p.variableName()
	if name == nil {
		return nil
	}
	suffix := p.literal("}}")
	if suffix == nil {
		return nil
	}
	return &ast.Expr{
		Span:   span(begin, p.pos),
		Prefix: prefix,
		Name:   name,
		Suffix: suffix,
		Text:   p.slice(begin.Offset),
	}
}

func (p *Parser) base64String() *ast.Base64String {
	begin := p.pos
	encoded, ok := p.readWhile(func(c rune) bool {
		return isLetter(c) || isDigit(c) || isNewline(c) || oneOf(c, "+/=")
	})
	if !ok {
		p.fail("a valid base64-string is expected", p.pos)
		return nil
	}
	text := string(encoded)
	value, err := decodeBase64(text)
	if err != nil {
		p.fail("a valid base64-string is expected", p.pos)
		return nil
	}
	return &ast.Base64String{Span: span(begin, p.pos), Value: value, Text: text}
}

// decodeBase64 decodes s ignoring line breaks; padding is optional.
func decodeBase64(s string) ([]byte, error) {
	s = strings.NewReplacer("\r", "", "\n", "").Replace(s)
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
}
