// Copyright 2020 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parser

import "strings"

// isCombining reports whether c is a combining character which does not
// advance the column.
func isCombining(c rune) bool {
	return (c >= 0x0300 && c <= 0x036f) ||
		(c >= 0x1ab0 && c <= 0x1aff) ||
		(c >= 0x1dc0 && c <= 0x1dff) ||
		(c >= 0xfe20 && c <= 0xfe2f)
}

func isNewline(c rune) bool { return c == '\n' || c == '\r' }

func isSpace(c rune) bool { return c == ' ' || c == '\t' }

func isLetter(c rune) bool { return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') }

func isDigit(c rune) bool { return c >= '0' && c <= '9' }

func isHexLetter(c rune) bool { return (c >= 'A' && c <= 'F') || (c >= 'a' && c <= 'f') }

func isTemplateControl(c rune) bool { return c == '{' || c == '}' }

func oneOf(c rune, set string) bool { return strings.ContainsRune(set, c) }
