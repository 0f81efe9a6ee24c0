// Copyright 2020 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parser

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/kr/pretty"

	"github.com/vdobler/hurl/ast"
)

const sampleFile = `# Fetch the hello page
GET http://localhost:8000/hello
User-Agent: hurl/1.0   # trailing comment
Accept: text/html
[QueryStringParams]
q: {{query}}
lang: fr

HTTP/1.1 200
Content-Type: text/html; charset=utf-8
[Captures]
token: regex "id=(\\d+)"
name: body regex "n=(\\w+)"
[Asserts]
status == 200
header "Content-Type" contains "html"
jsonpath "$.state" equals "running"
xpath "string(//title)" not startsWith "Foo"
duration < 1000
body matches "^Hello"
jsonpath "$.items" countEquals 3
cookie "LSID[Max-Age]" greaterThanOrEquals 10
variable "token" exists
jsonpath "$.id" equals {{token}}
{"a": 1}

POST http://localhost:8000/upload
[Cookies]
session: abc-123
[MultipartFormData]
field1: value1
file1: file,data.txt;
file2: file, img.png; image/png
field2: value2

PUT http://localhost:8000/raw
` + "```" + `
line one
line two
` + "```" + `
HTTP/* *

DELETE http://localhost:8000/b64
base64,SGVsbG8=;
`

func TestParseSample(t *testing.T) {
	f, err := Parse(sampleFile)
	if err != nil {
		t.Fatalf("Unexpected error %v", err)
	}
	if len(f.Entries) != 4 {
		t.Fatalf("Got %d entries, want 4", len(f.Entries))
	}

	e0 := f.Entries[0]
	if e0.Request.Method.Value != "GET" || e0.Request.URL.Value != "http://localhost:8000/hello" {
		t.Errorf("Got %s %s", e0.Request.Method.Value, e0.Request.URL.Value)
	}
	if len(e0.Request.Headers) != 2 || e0.Request.Headers[0].Value() != "hurl/1.0" {
		t.Errorf("Got headers %s", pretty.Sprint(e0.Request.Headers))
	}
	if qs := e0.Request.QueryStringParams(); qs == nil || len(qs.Params) != 2 || qs.Params[0].Value() != "{{query}}" {
		t.Errorf("Got %s", pretty.Sprint(qs))
	}
	resp := e0.Response
	if resp == nil {
		t.Fatalf("Missing response")
	}
	if resp.Version.Value != "HTTP/1.1" || resp.Status.Value.Code != 200 {
		t.Errorf("Got %s %s", resp.Version.Value, resp.Status.Text)
	}
	caps := resp.Captures()
	if caps == nil || len(caps.Captures) != 2 {
		t.Fatalf("Got %s", pretty.Sprint(caps))
	}
	if caps.Captures[0].Subquery != nil || caps.Captures[1].Subquery == nil {
		t.Errorf("Wrong subqueries %v %v", caps.Captures[0].Subquery, caps.Captures[1].Subquery)
	}
	if sq, ok := caps.Captures[1].Subquery.(*ast.RegexSubquery); !ok || sq.Expr.Value != `n=(\w+)` {
		t.Errorf("Got %s", pretty.Sprint(caps.Captures[1].Subquery))
	}
	asserts := resp.Asserts()
	if asserts == nil || len(asserts.Asserts) != 10 {
		t.Fatalf("Got %s", pretty.Sprint(asserts))
	}
	if _, ok := resp.Body.Bytes.(*ast.JSON); !ok {
		t.Errorf("Got body %T", resp.Body.Bytes)
	}

	e1 := f.Entries[1]
	if e1.Response != nil {
		t.Errorf("Unexpected response %s", pretty.Sprint(e1.Response))
	}
	if c := e1.Request.Cookies(); c == nil || len(c.Cookies) != 1 || c.Cookies[0].Value.Value != "abc-123" {
		t.Errorf("Got %s", pretty.Sprint(c))
	}
	mp := e1.Request.MultipartFormData()
	if mp == nil || len(mp.Params) != 2 || len(mp.FileParams) != 2 {
		t.Fatalf("Got %s", pretty.Sprint(mp))
	}
	if mp.FileParams[0].File.ContentType != nil ||
		mp.FileParams[1].File.ContentType.Value != "image/png" ||
		mp.FileParams[1].File.Filename.Value != "img.png" {
		t.Errorf("Got %s", pretty.Sprint(mp.FileParams))
	}

	e2 := f.Entries[2]
	raw, ok := e2.Request.Body.Bytes.(*ast.RawString)
	if !ok || raw.Value != "line one\nline two\n" {
		t.Errorf("Got %s", pretty.Sprint(e2.Request.Body))
	}
	if !e2.Response.Version.IsAny() || !e2.Response.Status.Value.Any {
		t.Errorf("Got %s", pretty.Sprint(e2.Response))
	}

	e3 := f.Entries[3]
	if b, ok := e3.Request.Body.Bytes.(*ast.Base64); !ok || string(b.Value.Value) != "Hello" {
		t.Errorf("Got %s", pretty.Sprint(e3.Request.Body))
	}
}

func TestRoundTrip(t *testing.T) {
	for i, src := range []string{
		sampleFile,
		"GET http://example.com\n",
		"GET http://example.com",
		"\n\n  # only comments\n\nGET http://a.b   \n\n\n",
		"POST http://example.com\r\nContent-Type: application/xml\r\n<a><b>1</b></a>\r\nHTTP/1.0 201\r\n",
		"GET http://x\nHTTP/2 200\n[Asserts]\nheader \"X\" not == \"a\\u{41}\"\n",
	} {
		f, err := Parse(src)
		if err != nil {
			t.Errorf("%d. Unexpected error %v", i, err)
			continue
		}
		if got := ast.Source(f); got != src {
			t.Errorf("%d. Round trip failed:\n%s", i, pretty.Diff(got, src))
		}
	}
}

func TestParseIdempotent(t *testing.T) {
	a, err := Parse(sampleFile)
	if err != nil {
		t.Fatalf("Unexpected error %v", err)
	}
	b, _ := Parse(sampleFile)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("Parses differ (-first +second):\n%s", diff)
	}
}

func TestParseSimple(t *testing.T) {
	f, err := Parse("GET http://example.com\n")
	if err != nil {
		t.Fatalf("Unexpected error %v", err)
	}
	if len(f.Entries) != 1 {
		t.Fatalf("Got %d entries", len(f.Entries))
	}
	e := f.Entries[0]
	if e.Request.Method.Value != "GET" || e.Request.URL.Value != "http://example.com" || e.Response != nil {
		t.Errorf("Got %s", pretty.Sprint(e))
	}
	if e.End().Offset != 23 || f.End().Line != 2 {
		t.Errorf("Got end %v / %v", e.End(), f.End())
	}

	f, err = Parse("")
	if err != nil || len(f.Entries) != 0 {
		t.Errorf("Got %v %v", f, err)
	}
}

func TestParseError(t *testing.T) {
	for i, tc := range []struct {
		src string
		msg string
		pos ast.Position
	}{
		{"GET", "space or tab is expected", ast.Position{Offset: 3, Line: 1, Column: 4}},
		{"GET http://x\nHTTP/1.1 20x\n", "space or tab is expected", ast.Position{Offset: 25, Line: 2, Column: 13}},
	} {
		_, err := Parse(tc.src)
		se, ok := err.(*SyntaxError)
		if !ok {
			t.Errorf("%d. Got %v", i, err)
			continue
		}
		if se.Msg != tc.msg || se.Pos != tc.pos {
			t.Errorf("%d. Got %q at %v, want %q at %v", i, se.Msg, se.Pos, tc.msg, tc.pos)
		}
	}
}

func TestPredicates(t *testing.T) {
	for i, tc := range []struct {
		src     string
		not     bool
		want    string // type of the predicate function
		keyword string
		left    int
	}{
		{"equals 12", false, "*ast.EqualNumberPredicate", "equals", 0},
		{"not equals 12.5", true, "*ast.EqualNumberPredicate", "equals", 0},
		{`== "x"`, false, "*ast.EqualStringPredicate", "==", 0},
		{"equals true", false, "*ast.EqualBoolPredicate", "equals", 0},
		{"equals null", false, "*ast.EqualNullPredicate", "equals", 0},
		{"equals {{name}}", false, "*ast.EqualExprPredicate", "equals", 0},
		{">= 3.5", false, "*ast.GreaterOrEqualPredicate", ">=", 0},
		{"> 3", false, "*ast.GreaterPredicate", ">", 0},
		{"lessThan 3", false, "*ast.LessPredicate", "lessThan", 0},
		{"<= 3", false, "*ast.LessOrEqualPredicate", "<=", 0},
		{"countEquals 2", false, "*ast.CountPredicate", "countEquals", 0},
		{`startsWith "a"`, false, "*ast.StartWithPredicate", "startsWith", 0},
		{`contains "a"`, false, "*ast.ContainPredicate", "contains", 0},
		{"includes null", false, "*ast.IncludeNullPredicate", "includes", 0},
		{"includes 3", false, "*ast.IncludeNumberPredicate", "includes", 0},
		{`includes "a"`, false, "*ast.IncludeStringPredicate", "includes", 0},
		{`matches "^a"`, false, "*ast.MatchPredicate", "matches", 0},
		{"not exists", true, "*ast.ExistPredicate", "exists", 0},
		{"existsxxx", false, "*ast.ExistPredicate", "exists", 3},
	} {
		p := New(tc.src)
		pred := p.predicate()
		if pred == nil {
			t.Errorf("%d. %q: unexpected error %v", i, tc.src, p.RootError())
			continue
		}
		if got := fmt.Sprintf("%T", pred.Func); got != tc.want {
			t.Errorf("%d. %q: got %s, want %s", i, tc.src, got, tc.want)
		}
		if (pred.Not != nil) != tc.not || pred.Func.Type().Value != tc.keyword || p.Left() != tc.left {
			t.Errorf("%d. %q: got not=%t keyword=%q left=%d", i, tc.src,
				pred.Not != nil, pred.Func.Type().Value, p.Left())
		}
	}

	p := New("notequals 1")
	if pred := p.predicate(); pred != nil {
		t.Errorf("Got %s", pretty.Sprint(pred))
	}
}

func TestQueries(t *testing.T) {
	for i, tc := range []struct {
		src, typ, expr string
	}{
		{"status", "status", ""},
		{`header "Content-Type"`, "header", "Content-Type"},
		{`cookie "LSID[Max-Age]"`, "cookie", "LSID[Max-Age]"},
		{"body", "body", ""},
		{`xpath "//h1"`, "xpath", "//h1"},
		{`jsonpath "$.a"`, "jsonpath", "$.a"},
		{`regex "a(b)"`, "regex", "a(b)"},
		{`variable "v"`, "variable", "v"},
		{"duration", "duration", ""},
	} {
		p := New(tc.src)
		q := p.query()
		if q == nil {
			t.Errorf("%d. %q: unexpected error %v", i, tc.src, p.RootError())
			continue
		}
		if q.Type().Value != tc.typ {
			t.Errorf("%d. Got type %q", i, q.Type().Value)
		}
		var expr string
		switch q := q.(type) {
		case *ast.HeaderQuery:
			expr = q.Expr.Value
		case *ast.CookieQuery:
			expr = q.Expr.Value
		case *ast.XPathQuery:
			expr = q.Expr.Value
		case *ast.JSONPathQuery:
			expr = q.Expr.Value
		case *ast.RegexQuery:
			expr = q.Expr.Value
		case *ast.VariableQuery:
			expr = q.Expr.Value
		}
		if expr != tc.expr {
			t.Errorf("%d. Got expr %q, want %q", i, expr, tc.expr)
		}
	}

	p := New(`header"x"`)
	if q := p.query(); q != nil {
		t.Errorf("Got %s", pretty.Sprint(q))
	}
}
