// Copyright 2020 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package query

import (
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/vdobler/hurl/value"
)

// JSONPath evaluates the JSONPath expr on the JSON document body.
//
// The matches are collected into a list. A single match is returned
// as a typed value; no or several matches are returned as a List.
// A definite path (one without wildcards, filters, slices, unions or
// recursive descent) that selects nothing yields None.
func JSONPath(expr, body string) (value.Value, error) {
	x, err := jp.ParseString(expr)
	if err != nil {
		return value.Value{}, &InvalidQuery{Msg: err.Error()}
	}
	doc, err := oj.ParseString(body)
	if err != nil {
		return value.Value{}, &InvalidQuery{Msg: err.Error()}
	}

	found := x.Get(doc)
	switch {
	case len(found) == 0 && definite(x):
		return value.Value{}, nil
	case len(found) == 1:
		return value.FromGo(found[0]), nil
	}
	if found == nil {
		found = []interface{}{}
	}
	return value.OfList(found), nil
}

// definite reports whether x can select at most one element.
func definite(x jp.Expr) bool {
	for _, f := range x {
		switch f.(type) {
		case jp.Root, jp.At, jp.Child, jp.Nth, jp.Bracket:
		default:
			return false
		}
	}
	return true
}
