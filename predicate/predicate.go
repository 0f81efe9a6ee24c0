// Copyright 2020 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package predicate evaluates predicates against query results.
//
// Every predicate accepts only some kinds of values: a value of another
// kind never satisfies it. A negated predicate succeeds exactly when the
// plain one fails, so a missing value (None) satisfies every negated
// predicate.
package predicate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vdobler/hurl/ast"
	"github.com/vdobler/hurl/template"
	"github.com/vdobler/hurl/value"
)

// Result of evaluating a predicate. Actual and Expected are human
// readable texts like "string <running>" and "equals string <stopped>".
type Result struct {
	Succeeded bool
	Actual    string
	Expected  string
}

// InvalidPredicate is returned if the expected value of a predicate
// cannot be used, e.g. a malformed regular expression.
type InvalidPredicate struct {
	Msg string
}

func (e *InvalidPredicate) Error() string { return e.Msg }

// outcome of a plain predicate and its texts.
type outcome struct {
	ok      bool
	text    string // describes the expectation
	negText string // describes the negated expectation
}

// Eval evaluates p against the query result actual. Strings in p are
// rendered with jar first.
func Eval(p *ast.Predicate, actual value.Value, jar *value.Jar) (Result, error) {
	o, err := eval(p.Func, actual, jar)
	if err != nil {
		return Result{}, err
	}
	r := Result{Succeeded: o.ok, Actual: actual.Text(), Expected: o.text}
	if p.Not != nil {
		r.Succeeded = !o.ok
		r.Expected = o.negText
	}
	return r, nil
}

func eval(f ast.PredicateFunc, actual value.Value, jar *value.Jar) (outcome, error) {
	switch f := f.(type) {
	case *ast.EqualStringPredicate:
		s, err := render(f.Expr, jar)
		if err != nil {
			return outcome{}, err
		}
		return equalString(actual, s), nil
	case *ast.EqualNumberPredicate:
		return equalNumber(actual, f.Expr.Value), nil
	case *ast.EqualBoolPredicate:
		return equalBool(actual, f.Expr.Value), nil
	case *ast.EqualNullPredicate:
		return equalNull(actual), nil
	case *ast.EqualExprPredicate:
		return equalExpr(actual, f.Expr, jar)
	case *ast.GreaterPredicate:
		return compare(actual, f.Expr.Value, "greater than", func(a, b float64) bool { return a > b }), nil
	case *ast.GreaterOrEqualPredicate:
		return compare(actual, f.Expr.Value, "greater than or equals", func(a, b float64) bool { return a >= b }), nil
	case *ast.LessPredicate:
		return compare(actual, f.Expr.Value, "less than", func(a, b float64) bool { return a < b }), nil
	case *ast.LessOrEqualPredicate:
		return compare(actual, f.Expr.Value, "less than or equals", func(a, b float64) bool { return a <= b }), nil
	case *ast.CountPredicate:
		return count(actual, f.Expr.Value), nil
	case *ast.StartWithPredicate:
		s, err := render(f.Expr, jar)
		if err != nil {
			return outcome{}, err
		}
		return outcome{
			ok:      actual.Kind == value.String && strings.HasPrefix(actual.Str, s),
			text:    "starts with string <" + s + ">",
			negText: "doesn't start with string <" + s + ">",
		}, nil
	case *ast.ContainPredicate:
		s, err := render(f.Expr, jar)
		if err != nil {
			return outcome{}, err
		}
		return outcome{
			ok:      actual.Kind == value.String && strings.Contains(actual.Str, s),
			text:    "contains string <" + s + ">",
			negText: "doesn't contain string <" + s + ">",
		}, nil
	case *ast.MatchPredicate:
		s, err := render(f.Expr, jar)
		if err != nil {
			return outcome{}, err
		}
		re, err := regexp.Compile(s)
		if err != nil {
			return outcome{}, &InvalidPredicate{Msg: fmt.Sprintf("invalid regex %q", s)}
		}
		return outcome{
			ok:      actual.Kind == value.String && re.MatchString(actual.Str),
			text:    "matches string <" + s + ">",
			negText: "doesn't match string <" + s + ">",
		}, nil
	case *ast.IncludeStringPredicate:
		s, err := render(f.Expr, jar)
		if err != nil {
			return outcome{}, err
		}
		return include(actual, "string <"+s+">", func(item interface{}) bool {
			is, ok := item.(string)
			return ok && is == s
		}), nil
	case *ast.IncludeNumberPredicate:
		n := f.Expr.Value
		return include(actual, "number <"+value.FormatDouble(n)+">", func(item interface{}) bool {
			v := value.FromGo(item)
			return v.Kind == value.Number && v.Num == n
		}), nil
	case *ast.IncludeBoolPredicate:
		b := f.Expr.Value
		return include(actual, fmt.Sprintf("boolean <%t>", b), func(item interface{}) bool {
			ib, ok := item.(bool)
			return ok && ib == b
		}), nil
	case *ast.IncludeNullPredicate:
		o := include(actual, "", func(item interface{}) bool { return item == nil })
		o.text, o.negText = "includes <null>", "doesn't include <null>"
		return o, nil
	case *ast.ExistPredicate:
		ok := actual.Kind != value.None
		if actual.Kind == value.NodeSet {
			ok = actual.Size > 0
		}
		return outcome{ok: ok, text: "anything", negText: ""}, nil
	}
	panic(fmt.Sprintf("predicate: unknown predicate type %T", f))
}

func render(s *ast.String, jar *value.Jar) (string, error) {
	return template.Render(s.Value, jar, s.From)
}

func equalString(actual value.Value, s string) outcome {
	return outcome{
		ok:      actual.Kind == value.String && actual.Str == s,
		text:    "equals string <" + s + ">",
		negText: "doesn't equal string <" + s + ">",
	}
}

func equalNumber(actual value.Value, n float64) outcome {
	f := value.FormatDouble(n)
	return outcome{
		ok:      actual.Kind == value.Number && actual.Num == n,
		text:    "equals number <" + f + ">",
		negText: "doesn't equal number <" + f + ">",
	}
}

func equalBool(actual value.Value, b bool) outcome {
	return outcome{
		ok:      actual.Kind == value.Boolean && actual.Bool == b,
		text:    fmt.Sprintf("equals boolean <%t>", b),
		negText: fmt.Sprintf("doesn't equal boolean <%t>", b),
	}
}

func equalNull(actual value.Value) outcome {
	return outcome{
		ok:      actual.Kind == value.Object && actual.Obj == nil,
		text:    "equals <null>",
		negText: "doesn't equal <null>",
	}
}

// equalExpr compares against the typed value of a variable.
func equalExpr(actual value.Value, expr *ast.Expr, jar *value.Jar) (outcome, error) {
	want, err := template.Expr(expr, jar)
	if err != nil {
		return outcome{}, err
	}
	switch want.Kind {
	case value.String:
		return equalString(actual, want.Str), nil
	case value.Number:
		return equalNumber(actual, want.Num), nil
	case value.Boolean:
		return equalBool(actual, want.Bool), nil
	case value.Object:
		if want.Obj == nil {
			return equalNull(actual), nil
		}
	}
	return outcome{}, &template.InvalidVariable{Name: expr.Name.Value, Pos: expr.Name.From, Value: want}
}

func compare(actual value.Value, n float64, what string, cmp func(a, b float64) bool) outcome {
	f := value.FormatDouble(n)
	return outcome{
		ok:      actual.Kind == value.Number && cmp(actual.Num, n),
		text:    what + " number <" + f + ">",
		negText: "not " + what + " number <" + f + ">",
	}
}

func count(actual value.Value, n float64) outcome {
	var ok bool
	switch actual.Kind {
	case value.List:
		ok = len(actual.Items) == int(n)
	case value.NodeSet:
		ok = actual.Size == int(n)
	}
	f := value.FormatDouble(n)
	return outcome{
		ok:      ok,
		text:    "count equals " + f,
		negText: "count doesn't equals " + f,
	}
}

func include(actual value.Value, what string, match func(item interface{}) bool) outcome {
	ok := false
	if actual.Kind == value.List {
		for _, item := range actual.Items {
			if match(item) {
				ok = true
				break
			}
		}
	}
	return outcome{
		ok:      ok,
		text:    "include " + what,
		negText: "doesn't include " + what,
	}
}
