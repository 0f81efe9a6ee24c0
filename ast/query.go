// Copyright 2020 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ast

// Query extracts a value from a response.
type Query interface {
	Node
	Type() *QueryType
}

// QueryBase is embedded in all queries.
type QueryBase struct {
	Span
	Keyword *QueryType
}

// Type returns the query keyword.
func (q *QueryBase) Type() *QueryType { return q.Keyword }

// QueryArg holds the quoted argument of the queries which take one.
type QueryArg struct {
	Spaces []*Space
	Expr   *String
}

// StatusQuery is "status".
type StatusQuery struct{ QueryBase }

// HeaderQuery is `header "name"`.
type HeaderQuery struct {
	QueryBase
	QueryArg
}

// CookieQuery is `cookie "name[attribute]"`.
type CookieQuery struct {
	QueryBase
	QueryArg
}

// BodyQuery is "body".
type BodyQuery struct{ QueryBase }

// XPathQuery is `xpath "expr"`.
type XPathQuery struct {
	QueryBase
	QueryArg
}

// JSONPathQuery is `jsonpath "expr"`.
type JSONPathQuery struct {
	QueryBase
	QueryArg
}

// RegexQuery is `regex "pattern"`.
type RegexQuery struct {
	QueryBase
	QueryArg
}

// VariableQuery is `variable "name"`.
type VariableQuery struct {
	QueryBase
	QueryArg
}

// DurationQuery is "duration".
type DurationQuery struct{ QueryBase }

// Subquery is applied to the result of the query of a capture.
type Subquery interface {
	Node
	Type() *SubqueryType
}

// RegexSubquery is `regex "pattern"`.
type RegexSubquery struct {
	Span
	Keyword *SubqueryType
	Spaces  []*Space
	Expr    *String
}

// Type returns the subquery keyword.
func (s *RegexSubquery) Type() *SubqueryType { return s.Keyword }

// ----------------------------------------------------------------------------
// Predicates

// Not is the negation of a predicate.
type Not struct {
	Span
	Text *Literal
}

// Predicate is an optionally negated predicate function.
type Predicate struct {
	Span
	Not    *Not // nil if not negated
	Spaces []*Space
	Func   PredicateFunc
}

// PredicateFunc is the test a query result must pass.
type PredicateFunc interface {
	Node
	Type() *PredicateType
}

// PredicateBase is embedded in all predicate functions.
type PredicateBase struct {
	Span
	Keyword *PredicateType
	Spaces  []*Space
}

// Type returns the predicate keyword.
func (p *PredicateBase) Type() *PredicateType { return p.Keyword }

// EqualBoolPredicate is "equals true".
type EqualBoolPredicate struct {
	PredicateBase
	Expr *Bool
}

// EqualNumberPredicate is "equals 12" or "== 1.5".
type EqualNumberPredicate struct {
	PredicateBase
	Expr *Number
}

// EqualStringPredicate is `equals "abc"`.
type EqualStringPredicate struct {
	PredicateBase
	Expr *String
}

// EqualNullPredicate is "equals null".
type EqualNullPredicate struct {
	PredicateBase
	Expr *Null
}

// EqualExprPredicate is "equals {{name}}".
type EqualExprPredicate struct {
	PredicateBase
	Expr *Expr
}

// GreaterPredicate is "greaterThan 3" or "> 3".
type GreaterPredicate struct {
	PredicateBase
	Expr *Number
}

// GreaterOrEqualPredicate is "greaterThanOrEquals 3" or ">= 3".
type GreaterOrEqualPredicate struct {
	PredicateBase
	Expr *Number
}

// LessPredicate is "lessThan 3" or "< 3".
type LessPredicate struct {
	PredicateBase
	Expr *Number
}

// LessOrEqualPredicate is "lessThanOrEquals 3" or "<= 3".
type LessOrEqualPredicate struct {
	PredicateBase
	Expr *Number
}

// CountPredicate is "countEquals 3".
type CountPredicate struct {
	PredicateBase
	Expr *Number
}

// StartWithPredicate is `startsWith "abc"`.
type StartWithPredicate struct {
	PredicateBase
	Expr *String
}

// ContainPredicate is `contains "abc"`.
type ContainPredicate struct {
	PredicateBase
	Expr *String
}

// IncludeBoolPredicate is "includes true".
type IncludeBoolPredicate struct {
	PredicateBase
	Expr *Bool
}

// IncludeNumberPredicate is "includes 3".
type IncludeNumberPredicate struct {
	PredicateBase
	Expr *Number
}

// IncludeStringPredicate is `includes "abc"`.
type IncludeStringPredicate struct {
	PredicateBase
	Expr *String
}

// IncludeNullPredicate is "includes null".
type IncludeNullPredicate struct {
	PredicateBase
	Expr *Null
}

// MatchPredicate is `matches "pattern"`.
type MatchPredicate struct {
	PredicateBase
	Expr *String
}

// ExistPredicate is "exists".
type ExistPredicate struct {
	PredicateBase
}
