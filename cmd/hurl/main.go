// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// hurl runs the HTTP requests of hurl files and checks the responses.
//
// Usage:
//
//	hurl [flags] <file.hurl>...
//
// All flags may also be given as environment variables with a HURL_
// prefix, e.g. HURL_FILE_ROOT=/data for -file-root.
//
// The exit code is 0 if all files ran successfully, 1 for invalid
// options, 2 if a file could not be parsed, 3 for runtime errors
// (including undefined variables), 4 for failed asserts and 5 for
// anything else.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/peterbourgon/ff/v3"

	"github.com/vdobler/hurl/client"
	"github.com/vdobler/hurl/errorlist"
	"github.com/vdobler/hurl/parser"
	"github.com/vdobler/hurl/report"
	"github.com/vdobler/hurl/runner"
)

const version = "1.0.0"

// Exit codes.
const (
	exitSuccess = iota
	exitOptions
	exitParse
	exitRuntime
	exitAssert
	exitUnknown
)

// isTerminal reports whether the error output goes to a terminal.
var isTerminal = func() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes hurl with the command line arguments args and returns
// the exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	o := &options{}
	fs := newFlagSet(o)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: hurl [flags] <file.hurl>...\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := ff.Parse(fs, args, ff.WithEnvVarPrefix("HURL")); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitSuccess
		}
		return exitOptions
	}
	if o.version {
		fmt.Fprintf(stdout, "hurl %s\n", version)
		return exitSuccess
	}
	if err := o.validate(fs.NArg()); err != nil {
		errorlist.Fprintln(stderr, err)
		fs.Usage()
		return exitOptions
	}

	w := newWriters(o, stdout, stderr)
	ret := exitSuccess
	for _, filename := range fs.Args() {
		if code := runFile(ctx, filename, o, w); code != exitSuccess {
			ret = code
		}
	}
	if err := w.Close(); err != nil {
		fmt.Fprintln(stderr, err)
		if ret == exitSuccess {
			ret = exitRuntime
		}
	}
	return ret
}

// validate checks the option values. All problems are reported at once.
func (o *options) validate(nfiles int) error {
	var el errorlist.List
	if nfiles == 0 {
		el = el.Append(errors.New("no hurl file given"))
	}
	switch o.report {
	case "text", "json":
	case "junit":
		if nfiles > 1 {
			el = el.Append(errors.New("junit report needs exactly one hurl file"))
		}
	default:
		el = el.Append(fmt.Errorf("unknown report format %q", o.report))
	}
	if o.toEntry < 0 {
		el = el.Append(fmt.Errorf("invalid -to-entry %d", o.toEntry))
	}
	if o.connectTimeout < 0 || o.maxTime < 0 {
		el = el.Append(errors.New("timeouts must not be negative"))
	}
	if o.proxy != "" {
		if _, err := client.ParseProxy(o.proxy); err != nil {
			el = el.Append(err)
		}
	}
	if o.user != "" {
		if _, _, err := client.ParseUser(o.user); err != nil {
			el = el.Append(err)
		}
	}
	return el.AsError()
}

// runFile parses and runs one hurl file.
func runFile(ctx context.Context, filename string, o *options, w *writers) int {
	stderr := w.stderr
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitOptions
	}
	source := string(data)

	body := &bytes.Buffer{}
	text := &report.Text{
		Filename:       filepath.Base(filename),
		Source:         source,
		Out:            body,
		Err:            stderr,
		Color:          !o.noColor && os.Getenv("NO_COLOR") == "" && isTerminal(),
		Test:           o.test,
		IncludeHeaders: o.include,
	}
	if o.test {
		text.Out = w.status
	}
	text.Start()

	file, err := parser.Parse(source)
	if err != nil {
		var se *parser.SyntaxError
		if errors.As(err, &se) {
			text.SyntaxError(se)
		} else {
			fmt.Fprintln(stderr, err)
		}
		return exitParse
	}

	fileRoot := o.fileRoot
	if fileRoot == "" {
		fileRoot = filepath.Dir(filename)
	}
	connectTimeout, maxTime := o.clientTimeouts()
	ropts := runner.Options{
		Variables:      o.variables,
		FileRoot:       os.DirFS(fileRoot),
		FollowRedirect: o.followRedirect,
		ToEntry:        o.toEntry,
		ClientOptions: client.Options{
			Insecure:       o.insecure,
			Proxy:          o.proxy,
			User:           o.user,
			Compressed:     o.compressed,
			ConnectTimeout: connectTimeout,
			MaxTime:        maxTime,
		},
		Verbosity: o.level(),
		Log:       log.New(stderr, "", 0),
	}
	r, err := runner.New(file, ropts)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitOptions
	}
	if o.variablesFile != "" {
		vars, err := readVariablesFile(o.variablesFile)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return exitOptions
		}
		setVariables(r, vars, o.variables)
	}

	rr := r.Run(ctx)

	if err := text.Result(rr); err != nil {
		fmt.Fprintln(stderr, err)
		return exitRuntime
	}
	if body.Len() > 0 {
		if _, err := w.body.Write(body.Bytes()); err != nil {
			fmt.Fprintln(stderr, err)
			return exitRuntime
		}
	}
	if err := writeReport(o, w.report, text.Filename, source, file, rr); err != nil {
		fmt.Fprintln(stderr, err)
		return exitRuntime
	}

	return exitCode(rr)
}
