// Copyright 2020 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runner

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/vdobler/hurl/ast"
	"github.com/vdobler/hurl/client"
	"github.com/vdobler/hurl/response"
	"github.com/vdobler/hurl/template"
	"github.com/vdobler/hurl/value"
)

// ----------------------------------------------------------------------------
// Kind

// Kind of a step result.
type Kind int

// The kinds of step results.
const (
	Assert          Kind = iota // an implicit or explicit assert
	Capture                     // a capture of a variable
	InvalidVariable             // a template referenced a bad variable
	RuntimeError                // a file or the transport failed
)

var kindNames = []string{"assert", "capture", "invalid variable", "runtime error"}

func (k Kind) String() string { return kindNames[k] }

// ----------------------------------------------------------------------------
// StepResult

// StepResult is the outcome of one step of an entry.
type StepResult struct {
	Kind      Kind
	Succeeded bool
	Pos       ast.Position
	Message   string

	// Variable and Value are set for captures only.
	Variable string
	Value    value.Value
}

// ShowPosition reports whether a report should point at the exact
// column of the step.
func (s StepResult) ShowPosition() bool { return s.Kind == InvalidVariable }

func assertResult(ok bool, pos ast.Position, msg string) StepResult {
	return StepResult{Kind: Assert, Succeeded: ok, Pos: pos, Message: msg}
}

func captureResult(ok bool, pos ast.Position, name string, v value.Value) StepResult {
	msg := "capture variable '" + name + "' succeeded"
	if !ok {
		msg = "capture variable '" + name + "' failed"
	}
	return StepResult{Kind: Capture, Succeeded: ok, Pos: pos, Message: msg, Variable: name, Value: v}
}

// invalidVariableResult converts a template error. Other errors give
// false.
func invalidVariableResult(err error) (StepResult, bool) {
	var uv *template.UndefinedVariable
	if errors.As(err, &uv) {
		return StepResult{Kind: InvalidVariable, Pos: uv.Pos, Message: uv.Reason()}, true
	}
	var iv *template.InvalidVariable
	if errors.As(err, &iv) {
		return StepResult{Kind: InvalidVariable, Pos: iv.Pos, Message: iv.Reason()}, true
	}
	return StepResult{}, false
}

func runtimeErrorResult(pos ast.Position, err error) StepResult {
	return StepResult{Kind: RuntimeError, Pos: pos, Message: "runtime error " + err.Error()}
}

// ----------------------------------------------------------------------------
// EntryResult

// EntryResult collects everything that happened while running one entry.
type EntryResult struct {
	Index int // 1-based

	// Request is the rendered request; nil if rendering failed.
	Request *client.Request

	// Result of the last HTTP exchange; nil if the request was not
	// executed.
	Result *client.Result

	Captures []StepResult
	Asserts  []StepResult // version, status, headers, body, explicit asserts
	Errors   []StepResult // invalid variables and runtime errors

	Duration time.Duration
}

// Succeeded reports whether all steps of the entry succeeded.
func (e *EntryResult) Succeeded() bool {
	for _, list := range [][]StepResult{e.Errors, e.Captures, e.Asserts} {
		for _, s := range list {
			if !s.Succeeded {
				return false
			}
		}
	}
	return true
}

// Response is the last received response or nil.
func (e *EntryResult) Response() *response.Response {
	if e.Result == nil {
		return nil
	}
	return e.Result.Response
}

// Failures returns all failed steps in order errors, captures, asserts.
func (e *EntryResult) Failures() []StepResult {
	var failed []StepResult
	for _, list := range [][]StepResult{e.Errors, e.Captures, e.Asserts} {
		for _, s := range list {
			if !s.Succeeded {
				failed = append(failed, s)
			}
		}
	}
	return failed
}

// ----------------------------------------------------------------------------
// RunResult

// RunResult is the outcome of running a hurl file.
type RunResult struct {
	ID       uuid.UUID
	Started  time.Time
	Duration time.Duration

	// Entries holds the results of all executed entries; entries after
	// the first failing one are not executed.
	Entries []*EntryResult
}

// Succeeded reports whether all executed entries succeeded.
func (r *RunResult) Succeeded() bool {
	for _, e := range r.Entries {
		if !e.Succeeded() {
			return false
		}
	}
	return true
}

// LastResponse is the response of the last executed entry or nil.
func (r *RunResult) LastResponse() *response.Response {
	if len(r.Entries) == 0 {
		return nil
	}
	return r.Entries[len(r.Entries)-1].Response()
}
