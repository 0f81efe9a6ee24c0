// Copyright 2020 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package query evaluates queries and subqueries against a received
// HTTP response.
package query

import (
	"fmt"
	"regexp"

	"github.com/vdobler/hurl/ast"
	"github.com/vdobler/hurl/response"
	"github.com/vdobler/hurl/template"
	"github.com/vdobler/hurl/value"
)

// InvalidQuery is returned if a query cannot be evaluated, e.g. due to a
// malformed expression.
type InvalidQuery struct {
	Msg string
}

func (e *InvalidQuery) Error() string { return e.Msg }

// InvalidSubquery is returned if a subquery cannot be applied to the
// result of its query.
type InvalidSubquery struct {
	Msg string
}

func (e *InvalidSubquery) Error() string { return e.Msg }

// Eval evaluates q against resp. Placeholders in the query expression
// are rendered with jar. Absent values are reported as a None value,
// not as an error.
func Eval(q ast.Query, resp *response.Response, jar *value.Jar) (value.Value, error) {
	switch q := q.(type) {
	case *ast.StatusQuery:
		return value.OfInt(int64(resp.Code)), nil
	case *ast.HeaderQuery:
		return header(resp, q.Expr.Value), nil
	case *ast.CookieQuery:
		expr, err := render(q.Expr, jar)
		if err != nil {
			return value.Value{}, err
		}
		return Cookie(expr, resp)
	case *ast.BodyQuery:
		body, err := resp.Text()
		if err != nil {
			return value.Value{}, err
		}
		return value.OfString(body), nil
	case *ast.XPathQuery:
		return bodyQuery(q.Expr, resp, jar, XPath)
	case *ast.JSONPathQuery:
		return bodyQuery(q.Expr, resp, jar, JSONPath)
	case *ast.RegexQuery:
		return bodyQuery(q.Expr, resp, jar, Regex)
	case *ast.VariableQuery:
		if v, ok := jar.Get(q.Expr.Value); ok {
			return v, nil
		}
		return value.Value{}, nil
	case *ast.DurationQuery:
		return value.OfInt(resp.Duration.Milliseconds()), nil
	}
	panic(fmt.Sprintf("query: unknown query type %T", q))
}

func render(s *ast.String, jar *value.Jar) (string, error) {
	return template.Render(s.Value, jar, s.From)
}

func bodyQuery(expr *ast.String, resp *response.Response, jar *value.Jar,
	eval func(expr, body string) (value.Value, error)) (value.Value, error) {
	body, err := resp.Text()
	if err != nil {
		return value.Value{}, err
	}
	e, err := render(expr, jar)
	if err != nil {
		return value.Value{}, err
	}
	return eval(e, body)
}

// header looks up a header case insensitively: none is None, a single
// one a String and several ones a List of strings.
func header(resp *response.Response, name string) value.Value {
	values := resp.Values(name)
	switch len(values) {
	case 0:
		return value.Value{}
	case 1:
		return value.OfString(values[0])
	}
	items := make([]interface{}, len(values))
	for i, v := range values {
		items[i] = v
	}
	return value.OfList(items)
}

// Regex returns the first group of the first match of pattern in body
// or None if pattern does not match or has no group.
func Regex(pattern, body string) (value.Value, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return value.Value{}, &InvalidQuery{Msg: fmt.Sprintf("invalid regex %q", pattern)}
	}
	m := re.FindStringSubmatch(body)
	if len(m) <= 1 {
		return value.Value{}, nil
	}
	return value.OfString(m[1]), nil
}

// EvalSubquery applies sq to the query result v.
func EvalSubquery(sq ast.Subquery, v value.Value, jar *value.Jar) (value.Value, error) {
	switch sq := sq.(type) {
	case *ast.RegexSubquery:
		if v.Kind != value.String {
			return value.Value{}, &InvalidSubquery{Msg: "regex subquery expects a query string result"}
		}
		pattern, err := render(sq.Expr, jar)
		if err != nil {
			return value.Value{}, err
		}
		re, err := regexp.Compile(`^(?:` + pattern + `)$`)
		if err != nil {
			return value.Value{}, &InvalidSubquery{Msg: fmt.Sprintf("invalid regex %q", pattern)}
		}
		m := re.FindStringSubmatch(v.Str)
		if len(m) <= 1 {
			return value.Value{}, &InvalidSubquery{Msg: "regex subquery must have at least one group"}
		}
		return value.OfString(m[1]), nil
	}
	panic(fmt.Sprintf("query: unknown subquery type %T", sq))
}
