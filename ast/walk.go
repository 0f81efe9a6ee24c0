// Copyright 2020 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ast

import (
	"fmt"
	"sort"
	"strings"
)

// A Visitor's Visit method is invoked for each node encountered by Walk.
// If the result visitor w is not nil, Walk visits each of the children
// of node with the visitor w, followed by a call of w.Visit(nil).
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses the tree rooted at node in document order.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}
	for _, c := range Children(node) {
		Walk(v, c)
	}
	v.Visit(nil)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Inspect traverses the tree rooted at node in document order calling
// f for each node. If f returns false the children of the node are skipped.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

func list[T Node](xs []T) []Node {
	out := make([]Node, 0, len(xs))
	for _, x := range xs {
		out = append(out, x)
	}
	return out
}

type builder []Node

func (b *builder) add(ns ...Node) {
	*b = append(*b, ns...)
}

func (b *builder) section(s *SectionBase) {
	b.add(list(s.Lts)...)
	b.add(list(s.Spaces)...)
	b.add(s.Header, s.Lt)
}

func (b *builder) queryArg(a *QueryArg) {
	b.add(list(a.Spaces)...)
	b.add(a.Expr)
}

// Children returns the direct children of node in document order.
// Leaves have no children. Absent optional parts are left out.
func Children(node Node) []Node {
	var b builder
	switch n := node.(type) {
	case *HurlFile:
		b.add(list(n.Entries)...)
		b.add(list(n.Lts)...)
	case *Entry:
		b.add(n.Request)
		if n.Response != nil {
			b.add(n.Response)
		}
	case *Request:
		b.add(list(n.Lts)...)
		b.add(list(n.Spaces0)...)
		b.add(n.Method)
		b.add(list(n.Spaces1)...)
		b.add(n.URL, n.Lt)
		b.add(list(n.Headers)...)
		b.add(list(n.Sections)...)
		if n.Body != nil {
			b.add(n.Body)
		}
	case *Response:
		b.add(list(n.Lts)...)
		b.add(list(n.Spaces0)...)
		b.add(n.Version)
		b.add(list(n.Spaces1)...)
		b.add(n.Status, n.Lt)
		b.add(list(n.Headers)...)
		b.add(list(n.Sections)...)
		if n.Body != nil {
			b.add(n.Body)
		}
	case *LineTerminator:
		b.add(list(n.Spaces)...)
		if n.Comment != nil {
			b.add(n.Comment)
		}
		if n.Newline != nil {
			b.add(n.Newline)
		}
	case *KeyValue:
		b.add(n.Key)
		b.add(list(n.Spaces0)...)
		b.add(n.Colon)
		b.add(list(n.Spaces1)...)
		b.add(n.Value)
	case *Header:
		b.add(list(n.Lts)...)
		b.add(list(n.Spaces)...)
		b.add(n.KeyValue, n.Lt)
	case *Param:
		b.add(list(n.Lts)...)
		b.add(list(n.Spaces)...)
		b.add(n.KeyValue, n.Lt)
	case *Cookie:
		b.add(list(n.Lts)...)
		b.add(list(n.Spaces0)...)
		b.add(n.Name)
		b.add(list(n.Spaces1)...)
		b.add(n.Colon)
		b.add(list(n.Spaces2)...)
		b.add(n.Value, n.Lt)
	case *FileValue:
		b.add(n.Prefix)
		b.add(list(n.Spaces0)...)
		b.add(n.Filename)
		b.add(list(n.Spaces1)...)
		b.add(n.Suffix)
		b.add(list(n.Spaces2)...)
		if n.ContentType != nil {
			b.add(n.ContentType)
		}
	case *FileParam:
		b.add(list(n.Lts)...)
		b.add(list(n.Spaces0)...)
		b.add(n.Key)
		b.add(list(n.Spaces1)...)
		b.add(n.Colon)
		b.add(list(n.Spaces2)...)
		b.add(n.File, n.Lt)
	case *QueryStringParamsSection:
		b.section(&n.SectionBase)
		b.add(list(n.Params)...)
	case *FormParamsSection:
		b.section(&n.SectionBase)
		b.add(list(n.Params)...)
	case *CookiesSection:
		b.section(&n.SectionBase)
		b.add(list(n.Cookies)...)
	case *MultipartFormDataSection:
		b.section(&n.SectionBase)
		items := append(list(n.Params), list(n.FileParams)...)
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Begin().Offset < items[j].Begin().Offset
		})
		b.add(items...)
	case *CapturesSection:
		b.section(&n.SectionBase)
		b.add(list(n.Captures)...)
	case *AssertsSection:
		b.section(&n.SectionBase)
		b.add(list(n.Asserts)...)
	case *Body:
		b.add(list(n.Lts)...)
		b.add(list(n.Spaces)...)
		b.add(n.Bytes, n.Lt)
	case *Base64:
		b.add(n.Prefix)
		b.add(list(n.Spaces0)...)
		b.add(n.Value)
		b.add(list(n.Spaces1)...)
		b.add(n.Suffix)
	case *File:
		b.add(n.Prefix)
		b.add(list(n.Spaces0)...)
		b.add(n.Filename)
		b.add(list(n.Spaces1)...)
		b.add(n.Suffix)
	case *Expr:
		b.add(n.Prefix, n.Name, n.Suffix)
	case *Capture:
		b.add(list(n.Lts)...)
		b.add(list(n.Spaces0)...)
		b.add(n.Name)
		b.add(list(n.Spaces1)...)
		b.add(n.Colon)
		b.add(list(n.Spaces2)...)
		b.add(n.Query)
		b.add(list(n.Spaces3)...)
		if n.Subquery != nil {
			b.add(n.Subquery)
		}
		b.add(n.Lt)
	case *Assert:
		b.add(list(n.Lts)...)
		b.add(list(n.Spaces0)...)
		b.add(n.Query)
		b.add(list(n.Spaces1)...)
		b.add(n.Predicate, n.Lt)

	case *StatusQuery:
		b.add(n.Keyword)
	case *BodyQuery:
		b.add(n.Keyword)
	case *DurationQuery:
		b.add(n.Keyword)
	case *HeaderQuery:
		b.add(n.Keyword)
		b.queryArg(&n.QueryArg)
	case *CookieQuery:
		b.add(n.Keyword)
		b.queryArg(&n.QueryArg)
	case *XPathQuery:
		b.add(n.Keyword)
		b.queryArg(&n.QueryArg)
	case *JSONPathQuery:
		b.add(n.Keyword)
		b.queryArg(&n.QueryArg)
	case *RegexQuery:
		b.add(n.Keyword)
		b.queryArg(&n.QueryArg)
	case *VariableQuery:
		b.add(n.Keyword)
		b.queryArg(&n.QueryArg)
	case *RegexSubquery:
		b.add(n.Keyword)
		b.add(list(n.Spaces)...)
		b.add(n.Expr)

	case *Predicate:
		if n.Not != nil {
			b.add(n.Not)
		}
		b.add(list(n.Spaces)...)
		b.add(n.Func)
	case *Not:
		b.add(n.Text)
	case *ExistPredicate:
		b.add(n.Keyword)
		b.add(list(n.Spaces)...)
	case PredicateFunc:
		b.add(n.Type())
		b.add(list(predicateBase(n).Spaces)...)
		b.add(predicateExpr(n))
	}
	return b
}

func predicateBase(p PredicateFunc) *PredicateBase {
	switch n := p.(type) {
	case *EqualBoolPredicate:
		return &n.PredicateBase
	case *EqualNumberPredicate:
		return &n.PredicateBase
	case *EqualStringPredicate:
		return &n.PredicateBase
	case *EqualNullPredicate:
		return &n.PredicateBase
	case *EqualExprPredicate:
		return &n.PredicateBase
	case *GreaterPredicate:
		return &n.PredicateBase
	case *GreaterOrEqualPredicate:
		return &n.PredicateBase
	case *LessPredicate:
		return &n.PredicateBase
	case *LessOrEqualPredicate:
		return &n.PredicateBase
	case *CountPredicate:
		return &n.PredicateBase
	case *StartWithPredicate:
		return &n.PredicateBase
	case *ContainPredicate:
		return &n.PredicateBase
	case *IncludeBoolPredicate:
		return &n.PredicateBase
	case *IncludeNumberPredicate:
		return &n.PredicateBase
	case *IncludeStringPredicate:
		return &n.PredicateBase
	case *IncludeNullPredicate:
		return &n.PredicateBase
	case *MatchPredicate:
		return &n.PredicateBase
	case *ExistPredicate:
		return &n.PredicateBase
	}
	panic(fmt.Sprintf("ast: unknown predicate %T", p))
}

// predicateExpr returns the operand of p.
func predicateExpr(p PredicateFunc) Node {
	switch n := p.(type) {
	case *EqualBoolPredicate:
		return n.Expr
	case *EqualNumberPredicate:
		return n.Expr
	case *EqualStringPredicate:
		return n.Expr
	case *EqualNullPredicate:
		return n.Expr
	case *EqualExprPredicate:
		return n.Expr
	case *GreaterPredicate:
		return n.Expr
	case *GreaterOrEqualPredicate:
		return n.Expr
	case *LessPredicate:
		return n.Expr
	case *LessOrEqualPredicate:
		return n.Expr
	case *CountPredicate:
		return n.Expr
	case *StartWithPredicate:
		return n.Expr
	case *ContainPredicate:
		return n.Expr
	case *IncludeBoolPredicate:
		return n.Expr
	case *IncludeNumberPredicate:
		return n.Expr
	case *IncludeStringPredicate:
		return n.Expr
	case *IncludeNullPredicate:
		return n.Expr
	case *MatchPredicate:
		return n.Expr
	}
	panic(fmt.Sprintf("ast: predicate %T has no operand", p))
}

// LeafText returns the source text of a leaf node. The boolean is false
// if node is not a leaf.
func LeafText(node Node) (string, bool) {
	switch n := node.(type) {
	case *Space:
		return n.Value, true
	case *Comment:
		return n.Value, true
	case *Newline:
		return n.Value, true
	case *Literal:
		return n.Value, true
	case *String:
		return n.Text, true
	case *Base64String:
		return n.Text, true
	case *Method:
		return n.Value, true
	case *URL:
		return n.Value, true
	case *Version:
		return n.Value, true
	case *Status:
		return n.Text, true
	case *CookieValue:
		return n.Value, true
	case *SectionHeader:
		return n.Value, true
	case *Bool:
		return n.Text, true
	case *Number:
		return n.Text, true
	case *Null:
		return "null", true
	case *VariableName:
		return n.Value, true
	case *QueryType:
		return n.Value, true
	case *PredicateType:
		return n.Value, true
	case *SubqueryType:
		return n.Value, true
	case *JSON:
		return n.Text, true
	case *XML:
		return n.Text, true
	case *RawString:
		return n.Text, true
	}
	return "", false
}

// Source reconstructs the source text of node by concatenating the text
// of all its leaves.
func Source(node Node) string {
	buf := &strings.Builder{}
	Inspect(node, func(n Node) bool {
		if n == nil {
			return false
		}
		if s, ok := LeafText(n); ok {
			buf.WriteString(s)
			return false
		}
		return true
	})
	return buf.String()
}
