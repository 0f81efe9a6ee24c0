// Copyright 2020 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parser

import (
	"strings"
	"testing"
	"time"

	"github.com/vdobler/hurl/ast"
)

func TestReadPosition(t *testing.T) {
	p := New("ab\ncd")
	for i := 0; i < 3; i++ {
		p.read()
	}
	if want := (ast.Position{Offset: 3, Line: 2, Column: 1}); p.Position() != want {
		t.Errorf("Got %v, want %v", p.Position(), want)
	}

	// U+0301 is a combining acute accent and does not take a column.
	p = New("e\u0301x")
	p.read()
	p.read()
	if want := (ast.Position{Offset: 2, Line: 1, Column: 2}); p.Position() != want {
		t.Errorf("Got %#v, want %#v", p.Position(), want)
	}

	p = New("")
	if _, ok := p.read(); ok {
		t.Fatalf("read succeeded on empty input")
	}
	if p.err == nil || !p.err.EOF || p.err.Msg != "end of file" {
		t.Errorf("Got %v", p.err)
	}
}

func TestReadWhile(t *testing.T) {
	p := New("123abc")
	got, ok := p.readWhile(isDigit)
	if !ok || string(got) != "123" || p.Left() != 3 {
		t.Errorf("Got %q %t left=%d", string(got), ok, p.Left())
	}
	got, ok = p.readWhile(isDigit)
	if !ok || len(got) != 0 {
		t.Errorf("Got %q %t", string(got), ok)
	}

	p = New("12")
	if got, ok = p.readWhile(isDigit); !ok || string(got) != "12" || p.err != nil {
		t.Errorf("Got %q %t %v", string(got), ok, p.err)
	}
	if _, ok = p.readWhile(isDigit); ok {
		t.Errorf("readWhile at end of input succeeded")
	}
}

func TestOptionalRewinds(t *testing.T) {
	p := New("abc")
	if n := optional(p, p.lit("abd")); n != nil {
		t.Fatalf("Got %v", n)
	}
	if p.Position().Offset != 0 || p.err != nil {
		t.Errorf("Got offset %d, err %v", p.Position().Offset, p.err)
	}
	if len(p.errs) != 1 || p.errs[0].Pos.Offset != 2 {
		t.Errorf("Got %v", p.Errors())
	}
}

func TestChoice(t *testing.T) {
	p := New("xyz")
	n := choice(p, p.lit("a"), p.lit("b"))
	if n != nil || p.err == nil || p.err.Msg != "no valid choices at" {
		t.Errorf("Got %v, %v", n, p.err)
	}
	p = New("xyz")
	if n = choice(p, p.lit("a"), p.lit("xy")); n == nil || n.Value != "xy" {
		t.Errorf("Got %v", n)
	}
}

func TestLiteral(t *testing.T) {
	for i, tc := range []struct {
		in, lit, err string
	}{
		{"GET", "GET", ""},
		{"GEX", "GET", "'GET' is expected, invalid 'X' instead of 'T'"},
		{"GE", "GET", "'GET' is expected, invalid eof instead of 'T'"},
	} {
		p := New(tc.in)
		n := p.literal(tc.lit)
		if tc.err == "" {
			if n == nil || n.Value != tc.lit {
				t.Errorf("%d. Got %v", i, n)
			}
			continue
		}
		if n != nil || p.err == nil || p.err.Msg != tc.err {
			t.Errorf("%d. Got %v, want error %q", i, p.err, tc.err)
		}
	}
}

func TestKeyString(t *testing.T) {
	for i, tc := range []struct {
		in, value, text, err string
	}{
		{"key: value", "key", "key", ""},
		{`key\:1: value`, "key:1", `key\:1`, ""},
		{`\u{48}i:`, "Hi", `\u{48}i`, ""},
		{`a\ b`, "a b", `a\ b`, ""},
		{":abc", "", "", "invalid empty key-string"},
		{`a\x`, "", "", "invalid escape char x"},
		{`a\`, "", "", "invalid key-string"},
		{`a\u{zz}`, "", "", "invalid unicode literal"},
	} {
		p := New(tc.in)
		s := p.keyString()
		if tc.err != "" {
			if s != nil || p.err == nil || p.err.Msg != tc.err {
				t.Errorf("%d. Got %v, want error %q", i, p.err, tc.err)
			}
			continue
		}
		if s == nil {
			t.Errorf("%d. Unexpected error %v", i, p.err)
			continue
		}
		if s.Value != tc.value || s.Text != tc.text {
			t.Errorf("%d. Got %q/%q, want %q/%q", i, s.Value, s.Text, tc.value, tc.text)
		}
	}
}

func TestQuotedString(t *testing.T) {
	p := New(`"a\"b\u{263A}\n" rest`)
	s := p.quotedString()
	if s == nil {
		t.Fatalf("Unexpected error %v", p.err)
	}
	if s.Value != "a\"b☺\n" || s.Text != `"a\"b\u{263A}\n"` {
		t.Errorf("Got %q / %q", s.Value, s.Text)
	}

	for i, tc := range []struct{ in, err string }{
		{`abc"`, `" is expected at quoted-string beginning`},
		{`"abc`, `" is expected at quoted-string end`},
		{`"a\`, "invalid quoted-string"},
		{`"a\q"`, "invalid escape char q"},
	} {
		p := New(tc.in)
		if s := p.quotedString(); s != nil || p.err == nil || p.err.Msg != tc.err {
			t.Errorf("%d. Got %v, want %q", i, p.err, tc.err)
		}
	}
}

func TestValueString(t *testing.T) {
	for i, tc := range []struct {
		in, value, text string
		offset          int
	}{
		{"value  # comment\n", "value", "value", 5},
		{"a b\\#c  \n", "a b#c", `a b\#c`, 6},
		{"text/html", "text/html", "text/html", 9},
		{"", "", "", 0},
		{"\n", "", "", 0},
	} {
		p := New(tc.in)
		s := p.valueString()
		if s == nil {
			t.Errorf("%d. Unexpected error %v", i, p.err)
			continue
		}
		if s.Value != tc.value || s.Text != tc.text || p.Position().Offset != tc.offset {
			t.Errorf("%d. Got %q/%q at %d, want %q/%q at %d", i,
				s.Value, s.Text, p.Position().Offset, tc.value, tc.text, tc.offset)
		}
	}

	p := New(" x")
	if s := p.valueString(); s != nil || p.err.Msg != "invalid unquoted-string-value" {
		t.Errorf("Got %v %v", s, p.err)
	}
}

func TestNumbers(t *testing.T) {
	for i, tc := range []struct {
		in    string
		value float64
		isInt bool
	}{
		{"12", 12, true},
		{"-12", -12, true},
		{"+3", 3, true},
		{"1.5", 1.5, false},
		{"-0.25", -0.25, false},
	} {
		p := New(tc.in)
		n := p.number()
		if n == nil {
			t.Errorf("%d. Unexpected error %v", i, p.err)
			continue
		}
		if n.Value != tc.value || n.IsInteger() != tc.isInt || n.Text != tc.in {
			t.Errorf("%d. Got %v %t %q", i, n.Value, n.IsInteger(), n.Text)
		}
	}

	p := New("12")
	if n := p.float(); n != nil || p.err.Msg != "'.' is expected" {
		t.Errorf("Got %v %v", n, p.err)
	}
	p = New("")
	if n := p.integer(); n != nil || p.err != nil {
		t.Errorf("Got %v %v", n, p.err)
	}
}

func TestLineTerminator(t *testing.T) {
	p := New("  # comment\r\nnext")
	lt := p.lineTerminator()
	if lt == nil {
		t.Fatalf("Unexpected error %v", p.err)
	}
	if len(lt.Spaces) != 2 || lt.Comment.Value != "# comment" || lt.Newline.Value != "\r\n" {
		t.Errorf("Got %+v", lt)
	}
	if p.Left() != 4 {
		t.Errorf("Got %d left", p.Left())
	}

	p = New("  ")
	if lt = p.lineTerminator(); lt == nil || lt.Newline != nil {
		t.Errorf("Got %+v, %v", lt, p.err)
	}

	p = New("  x")
	if lt = p.lineTerminator(); lt != nil || p.err.Msg != "newline is expected" || p.err.Pos.Offset != 0 {
		t.Errorf("Got %+v, %v", lt, p.err)
	}
}

func TestJSONBody(t *testing.T) {
	p := New(`{"id":0,"selected":true}xxx`)
	j := p.json()
	if j == nil {
		t.Fatalf("Unexpected error %v", p.err)
	}
	if j.Text != `{"id":0,"selected":true}` || p.Left() != 3 {
		t.Errorf("Got %q, left %d", j.Text, p.Left())
	}

	p = New("[\"\u00e9\", 1] rest")
	if j = p.json(); j == nil || j.Text != "[\"\u00e9\", 1]" || p.Left() != 5 {
		t.Errorf("Got %v, left %d", j, p.Left())
	}
	if p.Position().Column != 9 {
		t.Errorf("Got column %d", p.Position().Column)
	}

	p = New(`GET http://example.org`)
	if j = p.json(); j != nil || p.err.Msg != "valid JSON body is expected" {
		t.Errorf("Got %v, %v", j, p.err)
	}
}

func TestXMLBody(t *testing.T) {
	p := New("<a><b/><c>x</c></a>\nGET")
	x := p.xml()
	if x == nil {
		t.Fatalf("Unexpected error %v", p.err)
	}
	if x.Text != "<a><b/><c>x</c></a>" || p.Left() != 4 {
		t.Errorf("Got %q, left %d", x.Text, p.Left())
	}

	p = New(`<?xml version="1.0"?><r a="1"/>tail`)
	if x = p.xml(); x == nil || x.Text != `<?xml version="1.0"?><r a="1"/>` {
		t.Errorf("Got %v, %v", x, p.err)
	}

	for i, tc := range []struct{ in, err string }{
		{"abc", "Xml is expected"},
		{"<a>", "valid Xml body is expected"},
		{"<a></b>", "valid Xml body is expected"},
		{"<a/", "valid Xml body is expected"},
	} {
		p := New(tc.in)
		if x := p.xml(); x != nil || p.err.Msg != tc.err {
			t.Errorf("%d. Got %v, %v", i, x, p.err)
		}
	}
}

func TestXMLBodyLarge(t *testing.T) {
	items := strings.Repeat("<i>x</i>", 5000)
	src := "<r>" + items + "</r>\nHTTP/1.1 200\n"
	start := time.Now()
	p := New(src)
	x := p.xml()
	if x == nil || x.Text != "<r>"+items+"</r>" {
		t.Fatalf("Got %v, %v", x, p.err)
	}

	// Not well formed: the rest of the input must not be rescanned.
	p = New("<p>a<br>b</p>\n" + strings.Repeat("<br>\n", 5000))
	if x := p.xml(); x != nil {
		t.Errorf("Got %q", x.Text)
	}

	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Parsing took %s", elapsed)
	}
}

func TestRawString(t *testing.T) {
	for i, tc := range []struct{ in, value string }{
		{"```\nline1\nline2\n```", "line1\nline2\n"},
		{"```abc```", "abc"},
		{"```  \r\nx```", "x"},
		{"``````", ""},
	} {
		p := New(tc.in)
		r := p.rawString()
		if r == nil {
			t.Errorf("%d. Unexpected error %v", i, p.err)
			continue
		}
		if r.Value != tc.value || r.Text != tc.in {
			t.Errorf("%d. Got %q / %q", i, r.Value, r.Text)
		}
	}
}

func TestBase64Body(t *testing.T) {
	p := New("base64, SGVs\nbG8= ;")
	b := p.base64()
	if b == nil {
		t.Fatalf("Unexpected error %v", p.err)
	}
	if string(b.Value.Value) != "Hello" {
		t.Errorf("Got %q", b.Value.Value)
	}
	p = New("base64,SGVsbG8;")
	if b = p.base64(); b == nil || string(b.Value.Value) != "Hello" {
		t.Errorf("Got %v %v", b, p.err)
	}
}

func TestFileValue(t *testing.T) {
	p := New("file, data.bin; application/octet-stream\n")
	f := p.fileValue()
	if f == nil {
		t.Fatalf("Unexpected error %v", p.err)
	}
	if f.Filename.Value != "data.bin" || f.ContentType == nil || f.ContentType.Value != "application/octet-stream" {
		t.Errorf("Got %+v", f)
	}

	p = New("file,a.txt;\n")
	if f = p.fileValue(); f == nil || f.ContentType != nil {
		t.Errorf("Got %+v %v", f, p.err)
	}

	p = New("file,../etc/passwd;")
	if f = p.fileValue(); f != nil || p.err.Msg != "relative filename is not valid" {
		t.Errorf("Got %+v %v", f, p.err)
	}
}

func TestRootError(t *testing.T) {
	p := New("xyz")
	p.errs = []*SyntaxError{
		{Msg: "a", Pos: ast.Position{Offset: 1, Line: 1, Column: 2}},
		{Msg: "b", Pos: ast.Position{Offset: 1, Line: 1, Column: 2}},
		{Msg: "c", Pos: ast.Position{Offset: 0, Line: 1, Column: 1}},
	}
	if e := p.RootError(); e.Msg != "unexpected char 'y'" || e.Pos.Offset != 1 {
		t.Errorf("Got %v", e)
	}

	p.errs = append(p.errs, &SyntaxError{Msg: "d", Pos: ast.Position{Offset: 2, Line: 1, Column: 3}})
	if e := p.RootError(); e.Msg != "d" {
		t.Errorf("Got %v", e)
	}

	p.errs = []*SyntaxError{
		{Msg: "a", Pos: ast.Position{Offset: 3, Line: 1, Column: 4}},
		{Msg: "b", Pos: ast.Position{Offset: 3, Line: 1, Column: 4}},
	}
	if e := p.RootError(); e.Msg != "unexpected end of file" {
		t.Errorf("Got %v", e)
	}
}
