// Copyright 2017 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package errorlist contains a type to collect errors.
//
// The parser retains every error of every discarded alternative in a List
// and the command line tool reports all invalid options at once.
package errorlist

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// List is a collection of errors.
type List []error

// Append err to el. Nested Lists are flattened, nil errors dropped.
func (el List) Append(err error) List {
	if err == nil {
		return el
	}
	if list, ok := err.(List); ok {
		return append(el, list...)
	}
	return append(el, err)
}

// Error implements the Error method of error.
func (el List) Error() string {
	return strings.Join(el.AsStrings(), "; ")
}

// AsError returns el properly returning nil for a empty el.
func (el List) AsError() error {
	if len(el) == 0 {
		return nil
	}
	return el
}

// AsStrings returns the error list as as string slice.
func (el List) AsStrings() []string {
	s := []string{}
	for _, e := range el {
		if nel, ok := e.(List); ok {
			s = append(s, nel.AsStrings()...)
		} else {
			s = append(s, e.Error())
		}
	}
	return s
}

// Filter returns the errors in el for which keep returns true.
func (el List) Filter(keep func(error) bool) List {
	var out List
	for _, e := range el {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// Fprintln prints err to w. If err is a List it prints one line per
// contained error.
func Fprintln(w io.Writer, err error) {
	if err == nil {
		return
	}
	if el, ok := err.(List); ok {
		for _, msg := range el.AsStrings() {
			fmt.Fprintln(w, msg)
		}
	} else {
		fmt.Fprintln(w, err.Error())
	}
}

// PrintlnStderr prints err to stderr.
func PrintlnStderr(err error) {
	Fprintln(os.Stderr, err)
}
