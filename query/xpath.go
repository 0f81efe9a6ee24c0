// Copyright 2020 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package query

import (
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"

	"github.com/vdobler/hurl/value"
)

// XPath parses body as HTML and evaluates the XPath 1.0 expression expr
// on it. Node-sets are reported by their size only.
func XPath(expr, body string) (value.Value, error) {
	if body == "" {
		return value.Value{}, &InvalidQuery{Msg: "invalid query, empty body"}
	}
	x, err := xpath.Compile(expr)
	if err != nil {
		return value.Value{}, &InvalidQuery{Msg: err.Error()}
	}
	doc, err := htmlquery.Parse(strings.NewReader(body))
	if err != nil {
		return value.Value{}, &InvalidQuery{Msg: err.Error()}
	}

	switch r := x.Evaluate(htmlquery.CreateXPathNavigator(doc)).(type) {
	case bool:
		return value.OfBool(r), nil
	case float64:
		return value.OfFloat(r), nil
	case string:
		return value.OfString(r), nil
	case *xpath.NodeIterator:
		n := 0
		for r.MoveNext() {
			n++
		}
		return value.OfNodeSet(n), nil
	default:
		return value.Value{}, &InvalidQuery{Msg: fmt.Sprintf("invalid XPath return type %T", r)}
	}
}
