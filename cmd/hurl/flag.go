// Copyright 2015 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// cmdlVar captures name=value pairs settable on the command line
// via the -D flag. For this cmdlVar satisfies the flag.Value interface.
type cmdlVar map[string]string

func (v *cmdlVar) String() string { return "" }
func (v *cmdlVar) Set(s string) error {
	part := strings.SplitN(s, "=", 2)
	if len(part) != 2 {
		return fmt.Errorf("variable %s not valid", s)
	}
	(*v)[part[0]] = part[1]
	return nil
}

// options collects all command line flags.
type options struct {
	variables      cmdlVar // -D
	variablesFile  string  // -variables-file
	fileRoot       string  // -file-root
	verbose        bool    // -v
	verbosity      int     // -verbosity
	include        bool    // -i
	followRedirect bool    // -L
	insecure       bool    // -k
	proxy          string  // -x
	toEntry        int     // -to-entry
	compressed     bool    // -compressed
	output         string  // -o
	user           string  // -u
	connectTimeout int     // -connect-timeout, seconds
	maxTime        int     // -max-time, seconds
	report         string  // -report
	reportFile     string  // -report-file
	test           bool    // -test
	noColor        bool    // -no-color
	version        bool    // -version
}

func newFlagSet(o *options) *flag.FlagSet {
	fs := flag.NewFlagSet("hurl", flag.ContinueOnError)
	o.variables = make(cmdlVar)
	fs.Var(&o.variables, "D", "define variable `name=value`")
	fs.StringVar(&o.variablesFile, "variables-file", "",
		"read variables from `file.yaml` (YAML or JSON)")
	fs.StringVar(&o.fileRoot, "file-root", "",
		"root `directory` for file inclusions (default directory of the hurl file)")
	fs.BoolVar(&o.verbose, "v", false, "make the operation more talkative")
	fs.IntVar(&o.verbosity, "verbosity", -99, "set verbosity to `level`")
	fs.BoolVar(&o.include, "i", false, "include HTTP headers in the output")
	fs.BoolVar(&o.followRedirect, "L", false, "follow redirects")
	fs.BoolVar(&o.insecure, "k", false, "allow connections to SSL sites without certs")
	fs.StringVar(&o.proxy, "x", "",
		"use `[PROTOCOL://]HOST[:PORT]` as proxy, only http proxies are supported")
	fs.IntVar(&o.toEntry, "to-entry", 0, "execute the hurl file up to entry `num` (starting at 1)")
	fs.BoolVar(&o.compressed, "compressed", false,
		"request a compressed response and decompress the content")
	fs.StringVar(&o.output, "o", "", "write the body of the last response to `file`")
	fs.StringVar(&o.user, "u", "", "use `user:password` for basic authentication")
	fs.IntVar(&o.connectTimeout, "connect-timeout", 60,
		"maximum `seconds` allowed for the connection")
	fs.IntVar(&o.maxTime, "max-time", 0, "maximum `seconds` allowed for a request/response")
	fs.StringVar(&o.report, "report", "text", "report `format`: text, json or junit")
	fs.StringVar(&o.reportFile, "report-file", "",
		"write the json or junit report to `file` instead of stdout")
	fs.BoolVar(&o.test, "test", false, "print a test like summary instead of the body")
	fs.BoolVar(&o.noColor, "no-color", false, "do not colorize the output")
	fs.BoolVar(&o.version, "version", false, "show version number and quit")
	return fs
}

func (o *options) level() int {
	if o.verbosity != -99 {
		return o.verbosity
	}
	if o.verbose {
		return 3
	}
	return 0
}

func (o *options) clientTimeouts() (connect, max time.Duration) {
	return time.Duration(o.connectTimeout) * time.Second,
		time.Duration(o.maxTime) * time.Second
}

// readVariablesFile reads the variables from a YAML (or JSON) file
// containing a single mapping.
func readVariablesFile(filename string) (map[string]interface{}, error) {
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	vars := map[string]interface{}{}
	if err := yaml.Unmarshal(data, &vars); err != nil {
		return nil, fmt.Errorf("variables file %s: %s", filename, err)
	}
	return vars, nil
}
