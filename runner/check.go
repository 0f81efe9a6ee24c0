// Copyright 2020 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runner

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"unicode/utf8"

	"github.com/vdobler/hurl/ast"
	"github.com/vdobler/hurl/predicate"
	"github.com/vdobler/hurl/query"
	"github.com/vdobler/hurl/response"
	"github.com/vdobler/hurl/template"
	"github.com/vdobler/hurl/value"
)

// checkVersion compares the HTTP version of resp.
func checkVersion(v *ast.Version, resp *response.Response) StepResult {
	switch {
	case v.Value == resp.Version:
		return assertResult(true, v.From, "assert http version equals "+v.Value+" succeeded")
	case v.IsAny():
		return assertResult(true, v.From, "assert http version succeeded")
	}
	return assertResult(false, v.From, fmt.Sprintf(
		"assert http version equals failed\n  actual:   %s\n  expected: %s", resp.Version, v.Value))
}

// checkStatus compares the status code of resp.
func checkStatus(s *ast.Status, resp *response.Response) StepResult {
	switch {
	case s.Value.Any:
		return assertResult(true, s.From, "assert status code equals * succeeded")
	case s.Value.Code == resp.Code:
		return assertResult(true, s.From, fmt.Sprintf("assert status code equals %d succeeded", resp.Code))
	}
	return assertResult(false, s.From, fmt.Sprintf(
		"assert status code equals failed\n  actual:   %d\n  expected: %d", resp.Code, s.Value.Code))
}

// checkHeader succeeds if any header of resp with the name of h has
// the rendered value of h.
func checkHeader(h *ast.Header, resp *response.Response, jar *value.Jar) StepResult {
	want, err := template.Render(h.Value(), jar, h.KeyValue.Value.From)
	if err != nil {
		if sr, ok := invalidVariableResult(err); ok {
			return sr
		}
		return runtimeErrorResult(h.KeyValue.Key.From, err)
	}
	got := resp.Values(h.Name())
	if len(got) == 0 {
		return assertResult(false, h.KeyValue.Key.From, "assert header equals failed\n  actual:\n  expected: "+want)
	}
	for _, v := range got {
		if v == want {
			return assertResult(true, h.KeyValue.Key.From, "assert header "+h.Name()+" succeeded")
		}
	}
	return assertResult(false, h.KeyValue.Key.From, fmt.Sprintf(
		"assert header equals failed\n  actual:   %s\n  expected: %s", strings.Join(got, ", "), want))
}

// checkBody compares the decompressed body of resp byte by byte.
func checkBody(b *ast.Body, resp *response.Response, jar *value.Jar, root fs.FS) StepResult {
	want, err := renderBytes(b.Bytes, jar, root)
	if err != nil {
		if sr, ok := invalidVariableResult(err); ok {
			return sr
		}
		return runtimeErrorResult(b.Bytes.Begin(), err)
	}
	got, err := resp.Decompressed()
	if err != nil {
		got = resp.Body
	}
	if bytes.Equal(got, want) {
		return assertResult(true, b.Bytes.Begin(), "assert body equals succeeded")
	}
	return assertResult(false, b.Bytes.Begin(), fmt.Sprintf(
		"assert body equals failed\n  actual:   %s\n  expected: %s", shorten(string(got)), shorten(string(want))))
}

// maxShown is the number of characters of a body shown in messages.
const maxShown = 64

func shorten(s string) string {
	if utf8.RuneCountInString(s) <= maxShown {
		return s
	}
	return string([]rune(s)[:maxShown]) + "..."
}

// evalAssert runs the query of a and applies its predicate.
func evalAssert(a *ast.Assert, resp *response.Response, jar *value.Jar) StepResult {
	not := ""
	if a.Predicate.Not != nil {
		not = "not "
	}
	prefix := "assert " + a.Query.Type().Value + " " + not + a.Predicate.Func.Type().Value

	actual, err := query.Eval(a.Query, resp, jar)
	if err != nil {
		return assertError(a, prefix, err)
	}
	res, err := predicate.Eval(a.Predicate, actual, jar)
	if err != nil {
		return assertError(a, prefix, err)
	}
	state := "succeeded"
	if !res.Succeeded {
		state = "failed"
	}
	return assertResult(res.Succeeded, a.Query.Begin(), fmt.Sprintf("%s %s\n  actual:   %s\n  expected: %s",
		prefix, state, res.Actual, res.Expected))
}

// assertError converts an evaluation error of a into a step result.
func assertError(a *ast.Assert, prefix string, err error) StepResult {
	if sr, ok := invalidVariableResult(err); ok {
		return sr
	}
	if isEvalError(err) {
		return assertResult(false, a.Query.Begin(), prefix+" failed, "+err.Error())
	}
	return runtimeErrorResult(a.Query.Begin(), err)
}

// isEvalError reports whether err stems from a query, subquery or
// predicate which cannot be applied to the response.
func isEvalError(err error) bool {
	var iq *query.InvalidQuery
	var isq *query.InvalidSubquery
	var ip *predicate.InvalidPredicate
	var ub *response.UndecodableBody
	return errors.As(err, &iq) || errors.As(err, &isq) || errors.As(err, &ip) || errors.As(err, &ub)
}

// evalCapture computes the value of c. The jar is not modified.
func evalCapture(c *ast.Capture, resp *response.Response, jar *value.Jar) StepResult {
	name := c.Name.Value
	v, err := query.Eval(c.Query, resp, jar)
	if err == nil && c.Subquery != nil {
		v, err = query.EvalSubquery(c.Subquery, v, jar)
	}
	if err != nil {
		if sr, ok := invalidVariableResult(err); ok {
			return sr
		}
		if isEvalError(err) {
			return captureResult(false, c.Name.From, name, value.Value{})
		}
		return runtimeErrorResult(c.Name.From, err)
	}
	return captureResult(true, c.Name.From, name, v)
}
