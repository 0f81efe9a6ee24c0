// Copyright 2016 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report formats the outcome of a run: as human readable text
// pointing into the hurl file, as JSON and as JUnit XML.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/vdobler/hurl/ast"
	"github.com/vdobler/hurl/parser"
	"github.com/vdobler/hurl/runner"
)

// Text reports errors with the offending source line to Err.
type Text struct {
	Filename string
	Source   string // content of the hurl file

	// Out receives the body of the last response of a successful run
	// or, in Test mode, the status lines.
	Out io.Writer
	Err io.Writer

	// Color enables ANSI colors.
	Color bool

	// Test switches to a unit test like output: "file: RUNNING" before
	// and "file: SUCCESS in 12 ms" after the run instead of the body.
	Test bool

	// IncludeHeaders writes the status line and headers of the last
	// response before its body.
	IncludeHeaders bool
}

func (t *Text) paint(s string, attrs ...color.Attribute) string {
	if !t.Color {
		return s
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(s)
}

// Start is called before the run.
func (t *Text) Start() {
	if t.Test {
		fmt.Fprintf(t.Out, "%s %s\n", t.paint(t.Filename+":", color.Bold),
			t.paint("RUNNING", color.FgBlue, color.Bold))
	}
}

// SyntaxError reports a parse error.
func (t *Text) SyntaxError(err *parser.SyntaxError) {
	t.Error(err.Msg, err.Pos, true)
}

// Error writes msg for position pos followed by the source line. If
// showPosition is set a caret marks the column.
func (t *Text) Error(msg string, pos ast.Position, showPosition bool) {
	fmt.Fprintf(t.Err, "%s%s%s\n",
		t.paint(t.Filename+pos.String()+": ", color.Bold),
		t.paint("error: ", color.FgRed, color.Bold),
		t.paint(msg, color.Bold))
	fmt.Fprintln(t.Err, LineAt(t.Source, pos.Line))
	if showPosition && pos.Column > 0 {
		fmt.Fprintln(t.Err, strings.Repeat(" ", pos.Column-1)+t.paint("^", color.FgGreen, color.Bold))
	} else {
		fmt.Fprintln(t.Err)
	}
}

// Result reports all failed steps of rr.
func (t *Text) Result(rr *runner.RunResult) error {
	for _, e := range rr.Entries {
		for _, f := range e.Failures() {
			t.Error(f.Message, f.Pos, f.ShowPosition())
		}
	}

	if t.Test {
		state := t.paint("SUCCESS", color.FgGreen, color.Bold)
		if !rr.Succeeded() {
			state = t.paint("FAILED", color.FgRed, color.Bold)
		}
		_, err := fmt.Fprintf(t.Out, "%s %s in %d ms\n", t.paint(t.Filename+":", color.Bold),
			state, rr.Duration.Milliseconds())
		return err
	}

	last := rr.LastResponse()
	if !rr.Succeeded() || last == nil {
		return nil
	}
	if t.IncludeHeaders {
		fmt.Fprintf(t.Out, "%s %d\n", last.Version, last.Code)
		for _, h := range last.Headers {
			fmt.Fprintf(t.Out, "%s: %s\n", h.Name, h.Value)
		}
		fmt.Fprintln(t.Out)
	}
	body, err := last.Decompressed()
	if err != nil {
		body = last.Body
	}
	_, err = t.Out.Write(body)
	return err
}

// LineAt returns the 1-based line n of text without line terminator.
func LineAt(text string, n int) string {
	lines := strings.Split(text, "\n")
	if n < 1 || n > len(lines) {
		return ""
	}
	return strings.TrimSuffix(lines[n-1], "\r")
}
