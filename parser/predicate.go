// Copyright 2020 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parser

import "github.com/vdobler/hurl/ast"

// Keywords of the predicates; later entries are synonyms.
var (
	kwEquals         = []string{"equals", "=="}
	kwGreater        = []string{"greaterThan", ">"}
	kwGreaterOrEqual = []string{"greaterThanOrEquals", ">="}
	kwLess           = []string{"lessThan", "<"}
	kwLessOrEqual    = []string{"lessThanOrEquals", "<="}
	kwCount          = []string{"countEquals"}
	kwStartsWith     = []string{"startsWith"}
	kwContains       = []string{"contains"}
	kwIncludes       = []string{"includes"}
	kwMatches        = []string{"matches"}
	kwExists         = []string{"exists"}
)

func (p *Parser) predicate() *ast.Predicate {
	begin := p.pos
	not := optional(p, p.not)
	var spaces []*ast.Space
	if not != nil {
		if spaces = oneOrMore(p, p.space); spaces == nil {
			return nil
		}
	}
	f := p.predicateFunc()
	if f == nil {
		return nil
	}
	return &ast.Predicate{Span: span(begin, p.pos), Not: not, Spaces: spaces, Func: f}
}

func (p *Parser) predicateFunc() ast.PredicateFunc {
	return choice(p,
		p.equalPredicate,
		alt[ast.PredicateFunc](p.greaterOrEqualPredicate),
		alt[ast.PredicateFunc](p.greaterPredicate),
		alt[ast.PredicateFunc](p.lessOrEqualPredicate),
		alt[ast.PredicateFunc](p.lessPredicate),
		alt[ast.PredicateFunc](p.countPredicate),
		alt[ast.PredicateFunc](p.startWithPredicate),
		alt[ast.PredicateFunc](p.containPredicate),
		p.includePredicate,
		alt[ast.PredicateFunc](p.matchPredicate),
		alt[ast.PredicateFunc](p.existPredicate),
	)
}

// predicateType parses one of the keywords; the error of the last one
// is kept if none matches.
func (p *Parser) predicateType(keywords []string) *ast.PredicateType {
	begin := p.pos
	for i, k := range keywords {
		var l *ast.Literal
		if i < len(keywords)-1 {
			l = optional(p, p.lit(k))
		} else {
			l = p.literal(k)
		}
		if l != nil {
			return &ast.PredicateType{Span: span(begin, p.pos), Value: k}
		}
	}
	return nil
}

// predicateWith parses a keyword, optional spaces and the operand.
func predicateWith[T comparable](p *Parser, keywords []string, operand func() T) (ast.PredicateBase, T, bool) {
	var zero T
	begin := p.pos
	keyword := p.predicateType(keywords)
	if keyword == nil {
		return ast.PredicateBase{}, zero, false
	}
	spaces := p.spaces()
	expr := operand()
	if expr == zero {
		return ast.PredicateBase{}, zero, false
	}
	base := ast.PredicateBase{Span: span(begin, p.pos), Keyword: keyword, Spaces: spaces}
	return base, expr, true
}

func (p *Parser) equalPredicate() ast.PredicateFunc {
	return choice(p,
		alt[ast.PredicateFunc](p.equalNumberPredicate),
		alt[ast.PredicateFunc](p.equalBoolPredicate),
		alt[ast.PredicateFunc](p.equalStringPredicate),
		alt[ast.PredicateFunc](p.equalNullPredicate),
		alt[ast.PredicateFunc](p.equalExprPredicate),
	)
}

func (p *Parser) equalNumberPredicate() *ast.EqualNumberPredicate {
	base, expr, ok := predicateWith(p, kwEquals, p.number)
	if !ok {
		return nil
	}
	return &ast.EqualNumberPredicate{PredicateBase: base, Expr: expr}
}

func (p *Parser) equalBoolPredicate() *ast.EqualBoolPredicate {
	base, expr, ok := predicateWith(p, kwEquals, p.boolean)
	if !ok {
		return nil
	}
	return &ast.EqualBoolPredicate{PredicateBase: base, Expr: expr}
}

func (p *Parser) equalStringPredicate() *ast.EqualStringPredicate {
	base, expr, ok := predicateWith(p, kwEquals, p.quotedString)
	if !ok {
		return nil
	}
	return &ast.EqualStringPredicate{PredicateBase: base, Expr: expr}
}

func (p *Parser) equalNullPredicate() *ast.EqualNullPredicate {
	base, expr, ok := predicateWith(p, kwEquals, p.null)
	if !ok {
		return nil
	}
	return &ast.EqualNullPredicate{PredicateBase: base, Expr: expr}
}

func (p *Parser) equalExprPredicate() *ast.EqualExprPredicate {
	base, expr, ok := predicateWith(p, kwEquals, p.expr)
	if !ok {
		return nil
	}
	return &ast.EqualExprPredicate{PredicateBase: base, Expr: expr}
}

func (p *Parser) greaterPredicate() *ast.GreaterPredicate {
	base, expr, ok := predicateWith(p, kwGreater, p.number)
	if !ok {
		return nil
	}
	return &ast.GreaterPredicate{PredicateBase: base, Expr: expr}
}

func (p *Parser) greaterOrEqualPredicate() *ast.GreaterOrEqualPredicate {
	base, expr, ok := predicateWith(p, kwGreaterOrEqual, p.number)
	if !ok {
		return nil
	}
	return &ast.GreaterOrEqualPredicate{PredicateBase: base, Expr: expr}
}

func (p *Parser) lessPredicate() *ast.LessPredicate {
	base, expr, ok := predicateWith(p, kwLess, p.number)
	if !ok {
		return nil
	}
	return &ast.LessPredicate{PredicateBase: base, Expr: expr}
}

func (p *Parser) lessOrEqualPredicate() *ast.LessOrEqualPredicate {
	base, expr, ok := predicateWith(p, kwLessOrEqual, p.number)
	if !ok {
		return nil
	}
	return &ast.LessOrEqualPredicate{PredicateBase: base, Expr: expr}
}

func (p *Parser) countPredicate() *ast.CountPredicate {
	base, expr, ok := predicateWith(p, kwCount, p.integer)
	if !ok {
		return nil
	}
	return &ast.CountPredicate{PredicateBase: base, Expr: expr}
}

func (p *Parser) startWithPredicate() *ast.StartWithPredicate {
	base, expr, ok := predicateWith(p, kwStartsWith, p.quotedString)
	if !ok {
		return nil
	}
	return &ast.StartWithPredicate{PredicateBase: base, Expr: expr}
}

func (p *Parser) containPredicate() *ast.ContainPredicate {
	base, expr, ok := predicateWith(p, kwContains, p.quotedString)
	if !ok {
		return nil
	}
	return &ast.ContainPredicate{PredicateBase: base, Expr: expr}
}

func (p *Parser) includePredicate() ast.PredicateFunc {
	return choice(p,
		alt[ast.PredicateFunc](p.includeBoolPredicate),
		alt[ast.PredicateFunc](p.includeNumberPredicate),
		alt[ast.PredicateFunc](p.includeStringPredicate),
		alt[ast.PredicateFunc](p.includeNullPredicate),
	)
}

func (p *Parser) includeBoolPredicate() *ast.IncludeBoolPredicate {
	base, expr, ok := predicateWith(p, kwIncludes, p.boolean)
	if !ok {
		return nil
	}
	return &ast.IncludeBoolPredicate{PredicateBase: base, Expr: expr}
}

func (p *Parser) includeNumberPredicate() *ast.IncludeNumberPredicate {
	base, expr, ok := predicateWith(p, kwIncludes, p.number)
	if !ok {
		return nil
	}
	return &ast.IncludeNumberPredicate{PredicateBase: base, Expr: expr}
}

func (p *Parser) includeStringPredicate() *ast.IncludeStringPredicate {
	base, expr, ok := predicateWith(p, kwIncludes, p.quotedString)
	if !ok {
		return nil
	}
	return &ast.IncludeStringPredicate{PredicateBase: base, Expr: expr}
}

func (p *Parser) includeNullPredicate() *ast.IncludeNullPredicate {
	base, expr, ok := predicateWith(p, kwIncludes, p.null)
	if !ok {
		return nil
	}
	return &ast.IncludeNullPredicate{PredicateBase: base, Expr: expr}
}

func (p *Parser) matchPredicate() *ast.MatchPredicate {
	base, expr, ok := predicateWith(p, kwMatches, p.quotedString)
	if !ok {
		return nil
	}
	return &ast.MatchPredicate{PredicateBase: base, Expr: expr}
}

func (p *Parser) existPredicate() *ast.ExistPredicate {
	begin := p.pos
	keyword := p.predicateType(kwExists)
	if keyword == nil {
		return nil
	}
	return &ast.ExistPredicate{PredicateBase: ast.PredicateBase{Span: span(begin, p.pos), Keyword: keyword}}
}
