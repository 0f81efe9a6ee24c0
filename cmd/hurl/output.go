// Copyright 2016 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"io"
	"io/ioutil"
	"os"

	"github.com/vdobler/hurl/ast"
	"github.com/vdobler/hurl/report"
	"github.com/vdobler/hurl/runner"
	"github.com/vdobler/hurl/value"
)

// setVariables adds the variables read from a variables file to the
// jar of r. Variables given with -D take precedence.
func setVariables(r *runner.Runner, vars map[string]interface{}, cmdl cmdlVar) {
	for name, v := range vars {
		if _, ok := cmdl[name]; ok {
			continue
		}
		r.Jar().Set(name, value.FromGo(v))
	}
}

// lazyFile is a file which is created by the first Write. All files
// given on the command line write to the same lazyFile.
type lazyFile struct {
	name string
	f    *os.File
}

func (lf *lazyFile) Write(p []byte) (int, error) {
	if lf.f == nil {
		f, err := os.Create(lf.name)
		if err != nil {
			return 0, err
		}
		lf.f = f
	}
	return lf.f.Write(p)
}

// Close closes the file if it was created.
func (lf *lazyFile) Close() error {
	if lf.f == nil {
		return nil
	}
	return lf.f.Close()
}

// writers are the destinations shared by all files of one invocation.
type writers struct {
	stderr io.Writer
	status         io.Writer // test mode summary
	body           io.Writer // body of the last response
	report         io.Writer // json or junit report
	files          []*lazyFile
}

// newWriters sets up the destinations selected by o. A json or junit
// report without -report-file claims stdout.
func newWriters(o *options, stdout, stderr io.Writer) *writers {
	w := &writers{stderr: stderr, status: stdout, body: stdout, report: stdout}
	if o.report != "text" && o.reportFile == "" {
		w.status, w.body = ioutil.Discard, ioutil.Discard
	}
	if o.output != "" {
		lf := &lazyFile{name: o.output}
		w.files = append(w.files, lf)
		w.body = lf
	}
	if o.reportFile != "" {
		lf := &lazyFile{name: o.reportFile}
		w.files = append(w.files, lf)
		w.report = lf
	}
	return w
}

// Close closes all created files.
func (w *writers) Close() error {
	var err error
	for _, lf := range w.files {
		if e := lf.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

// writeReport writes the json or junit report of rr.
func writeReport(o *options, w io.Writer, filename, source string, file *ast.HurlFile, rr *runner.RunResult) error {
	switch o.report {
	case "junit":
		return report.JUnit(w, filename, source, file, rr)
	case "json":
		return report.JSON(w, rr)
	}
	return nil
}

// exitCode derives the exit code from the outcome of a run.
func exitCode(rr *runner.RunResult) int {
	if rr.Succeeded() {
		return exitSuccess
	}
	failedAssert := false
	for _, e := range rr.Entries {
		if len(e.Errors) > 0 {
			return exitRuntime
		}
		// Invalid variables in checks and captures are runtime errors too.
		for _, steps := range [][]runner.StepResult{e.Captures, e.Asserts} {
			for _, s := range steps {
				if s.Kind == runner.InvalidVariable || s.Kind == runner.RuntimeError {
					return exitRuntime
				}
			}
		}
		for _, a := range e.Asserts {
			if !a.Succeeded {
				failedAssert = true
			}
		}
	}
	if failedAssert {
		return exitAssert
	}
	return exitUnknown
}
