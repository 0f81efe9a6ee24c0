// Copyright 2020 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runner executes the entries of a parsed hurl file.
//
// Entries are run sequentially. The request of an entry is rendered
// with the current variables, sent and its response is checked against
// the response section of the entry. Captured values become variables
// for the following entries. The first failing entry stops the run.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vdobler/hurl/ast"
	"github.com/vdobler/hurl/client"
	"github.com/vdobler/hurl/value"
)

// MaxRedirects is the maximum number of redirects followed for one entry.
const MaxRedirects = 50

// Options controls a Runner.
type Options struct {
	// Variables seed the variable jar as strings.
	Variables map[string]string

	// FileRoot is the file system used for file bodies and multipart
	// files.
	FileRoot fs.FS

	// FollowRedirect makes 3xx responses be followed with a GET to the
	// Location header.
	FollowRedirect bool

	// ToEntry stops the run after the given 1-based entry. Zero runs
	// all entries.
	ToEntry int

	// Client executes the requests. If nil a client.HTTPClient is
	// created from ClientOptions.
	Client        client.Client
	ClientOptions client.Options

	// Verbosity level in logging.
	Verbosity int
	Log       client.Logger
}

// Runner runs a hurl file. A Runner is not safe for concurrent use.
type Runner struct {
	file   *ast.HurlFile
	opts   Options
	client client.Client
	jar    *value.Jar
}

// New returns a runner for file.
func New(file *ast.HurlFile, opts Options) (*Runner, error) {
	c := opts.Client
	if c == nil {
		co := opts.ClientOptions
		if co.Log == nil {
			co.Log = opts.Log
			co.Verbosity = opts.Verbosity
		}
		hc, err := client.New(co)
		if err != nil {
			return nil, err
		}
		c = hc
	}
	return &Runner{
		file:   file,
		opts:   opts,
		client: c,
		jar:    value.NewJar(opts.Variables),
	}, nil
}

// Jar returns the variables of the runner.
func (r *Runner) Jar() *value.Jar { return r.jar }

// Run executes the entries of the file in order until the first
// failing entry or the entry given by Options.ToEntry.
func (r *Runner) Run(ctx context.Context) *RunResult {
	rr := &RunResult{ID: uuid.New(), Started: time.Now()}
	r.infof("Run %s with %d entries", rr.ID, len(r.file.Entries))
	if r.opts.Verbosity >= 2 {
		for _, name := range r.jar.Names() {
			v, _ := r.jar.Get(name)
			r.debugf("Variable %s: %s", name, v.Text())
		}
	}

	for i, entry := range r.file.Entries {
		index := i + 1
		result := r.runEntry(ctx, entry, index)
		rr.Entries = append(rr.Entries, result)
		if !result.Succeeded() {
			r.infof("Entry %d failed", index)
			break
		}
		if r.opts.ToEntry > 0 && index == r.opts.ToEntry {
			r.debugf("Stopping after entry %d", index)
			break
		}
	}

	rr.Duration = time.Since(rr.Started)
	r.infof("Run %s finished in %s", rr.ID, rr.Duration)
	return rr
}

// runEntry executes one entry.
func (r *Runner) runEntry(ctx context.Context, entry *ast.Entry, index int) *EntryResult {
	start := time.Now()
	er := &EntryResult{Index: index}
	defer func() { er.Duration = time.Since(start) }()
	r.infof("Entry %d", index)

	req, err := renderRequest(entry.Request, r.jar, r.opts.FileRoot)
	if err != nil {
		if sr, ok := invalidVariableResult(err); ok {
			er.Errors = append(er.Errors, sr)
		} else {
			er.Errors = append(er.Errors, runtimeErrorResult(entry.Request.Method.From, err))
		}
		return er
	}
	er.Request = req

	methodPos := entry.Request.Method.From
	for redirects := 0; ; redirects++ {
		r.logRequestSpec(req)
		result, err := r.client.Execute(ctx, req)
		if err != nil {
			er.Errors = append(er.Errors, runtimeErrorResult(methodPos, err))
			return er
		}
		er.Result = result
		r.logCookies(result)

		code := result.Response.Code
		if !r.opts.FollowRedirect || code < 300 || code >= 400 {
			break
		}
		if redirects >= MaxRedirects {
			er.Errors = append(er.Errors, runtimeErrorResult(methodPos,
				fmt.Errorf("Too many redirects (%d)", redirects)))
			return er
		}
		location := result.Response.Get("Location")
		if location == "" {
			er.Errors = append(er.Errors, runtimeErrorResult(methodPos,
				errors.New("Unable to get Location header")))
			return er
		}
		next, err := resolve(result, location)
		if err != nil {
			er.Errors = append(er.Errors, runtimeErrorResult(methodPos, err))
			return er
		}
		r.debugf("Following redirect to %s", next)
		req = &client.Request{Method: "GET", URL: next}
	}

	spec := entry.Response
	if spec == nil {
		return er
	}
	resp := er.Response()

	// Captures see the variables from before this entry; their values
	// are stored afterwards.
	if cs := spec.Captures(); cs != nil {
		for _, c := range cs.Captures {
			er.Captures = append(er.Captures, evalCapture(c, resp, r.jar))
		}
	}
	for _, c := range er.Captures {
		if c.Kind == Capture && c.Succeeded && !c.Value.IsNone() {
			r.debugf("Capture %s = %s", c.Variable, c.Value.Text())
			r.jar.Set(c.Variable, c.Value)
		}
	}

	er.Asserts = append(er.Asserts, checkVersion(spec.Version, resp))
	er.Asserts = append(er.Asserts, checkStatus(spec.Status, resp))
	for _, h := range spec.Headers {
		er.Asserts = append(er.Asserts, checkHeader(h, resp, r.jar))
	}
	if spec.Body != nil {
		er.Asserts = append(er.Asserts, checkBody(spec.Body, resp, r.jar, r.opts.FileRoot))
	}
	if as := spec.Asserts(); as != nil {
		for _, a := range as.Asserts {
			er.Asserts = append(er.Asserts, evalAssert(a, resp, r.jar))
		}
	}

	for _, sr := range er.Asserts {
		if !sr.Succeeded {
			r.debugf("%s %s", sr.Pos, sr.Message)
		}
	}
	return er
}

// resolve location relative to the URL the result was received from.
func resolve(result *client.Result, location string) (string, error) {
	loc, err := url.Parse(location)
	if err != nil {
		return "", err
	}
	if result.Sent == nil || result.Sent.URL == nil {
		return loc.String(), nil
	}
	return result.Sent.URL.ResolveReference(loc).String(), nil
}

// ----------------------------------------------------------------------------
//  Logging

func (r *Runner) infof(format string, v ...interface{}) {
	if r.opts.Verbosity >= 1 && r.opts.Log != nil {
		r.opts.Log.Printf("INFO  "+format, v...)
	}
}

func (r *Runner) debugf(format string, v ...interface{}) {
	if r.opts.Verbosity >= 2 && r.opts.Log != nil {
		r.opts.Log.Printf("DEBUG "+format, v...)
	}
}

// logRequestSpec dumps the rendered request with "* " prefixes.
func (r *Runner) logRequestSpec(req *client.Request) {
	if r.opts.Verbosity < 2 || r.opts.Log == nil {
		return
	}
	buf := &bytes.Buffer{}
	fmt.Fprintf(buf, "* Request:\n* %s %s\n", req.Method, req.URL)
	for _, h := range req.Headers {
		fmt.Fprintf(buf, "* %s: %s\n", h.Name, h.Value)
	}
	dumpParams(buf, "Query string params:", req.QueryParams)
	dumpParams(buf, "Form params:", req.FormParams)
	dumpParams(buf, "Cookies:", req.Cookies)
	r.opts.Log.Printf("%s", strings.TrimSuffix(buf.String(), "\n"))
}

func dumpParams(buf *bytes.Buffer, title string, params []client.Param) {
	if len(params) == 0 {
		return
	}
	fmt.Fprintf(buf, "* %s\n", title)
	for _, p := range params {
		fmt.Fprintf(buf, "* %s: %s\n", p.Name, p.Value)
	}
}

// logCookies dumps the cookie store relevant to the last request.
func (r *Runner) logCookies(result *client.Result) {
	if r.opts.Verbosity < 2 || r.opts.Log == nil || len(result.Cookies) == 0 {
		return
	}
	buf := &bytes.Buffer{}
	buf.WriteString("* Cookie store:\n")
	for _, c := range result.Cookies {
		fmt.Fprintf(buf, "* %s: %s\n", c.Name, c.Value)
	}
	r.opts.Log.Printf("%s", strings.TrimSuffix(buf.String(), "\n"))
}
