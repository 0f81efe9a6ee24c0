// Copyright 2020 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parser

import (
	"fmt"

	"github.com/vdobler/hurl/ast"
)

// SyntaxError is a parse error at a certain position.
type SyntaxError struct {
	Msg string
	Pos ast.Position
	EOF bool // an attempt was made to read past the end of the input
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d:col %d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
}
