// Copyright 2020 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package template substitutes {{name}} placeholders with variables.
package template

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vdobler/hurl/ast"
	"github.com/vdobler/hurl/value"
)

var placeholderRE = regexp.MustCompile(`\{{2,3}([\sa-zA-Z0-9_\-]+)\}{2,3}`)

// UndefinedVariable is returned when a placeholder names a variable
// missing from the jar.
type UndefinedVariable struct {
	Name string
	Pos  ast.Position
}

func (e *UndefinedVariable) Error() string {
	return fmt.Sprintf("undefined variable %s at %s", e.Name, e.Pos)
}

// Reason is the short diagnostic without position.
func (e *UndefinedVariable) Reason() string { return "undefined variable" }

// InvalidVariable is returned when a variable cannot be rendered as
// text, e.g. a list or an object.
type InvalidVariable struct {
	Name  string
	Pos   ast.Position
	Value value.Value
}

func (e *InvalidVariable) Error() string {
	return fmt.Sprintf("invalid variable %s at %s", e.Name, e.Pos)
}

// Reason is the short diagnostic without position.
func (e *InvalidVariable) Reason() string { return "invalid variable " + e.Value.Text() }

// Render replaces every placeholder in text. Values are inserted as
// is and not scanned for further placeholders. The position pos is
// reported in errors.
func Render(text string, jar *value.Jar, pos ast.Position) (string, error) {
	matches := placeholderRE.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text, nil
	}

	var sb strings.Builder
	last := 0
	for _, m := range matches {
		name := strings.TrimSpace(text[m[2]:m[3]])
		v, err := lookup(name, jar, pos)
		if err != nil {
			return "", err
		}
		s, err := Text(name, v, pos)
		if err != nil {
			return "", err
		}
		sb.WriteString(text[last:m[0]])
		sb.WriteString(s)
		last = m[1]
	}
	sb.WriteString(text[last:])
	return sb.String(), nil
}

// Text renders a single variable value.
func Text(name string, v value.Value, pos ast.Position) (string, error) {
	switch v.Kind {
	case value.Boolean:
		if v.Bool {
			return "true", nil
		}
		return "false", nil
	case value.Number:
		return v.Number(), nil
	case value.String:
		return v.Str, nil
	}
	return "", &InvalidVariable{Name: name, Pos: pos, Value: v}
}

// Expr looks up the value of an {{name}} expression without converting
// it to text.
func Expr(expr *ast.Expr, jar *value.Jar) (value.Value, error) {
	return lookup(expr.Name.Value, jar, expr.Name.From)
}

func lookup(name string, jar *value.Jar, pos ast.Position) (value.Value, error) {
	if jar != nil {
		if v, ok := jar.Get(name); ok {
			return v, nil
		}
	}
	return value.Value{}, &UndefinedVariable{Name: name, Pos: pos}
}
