// Copyright 2017 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func init() {
	isTerminal = func() bool { return false }
}

func testServer() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/hello", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		io.WriteString(w, "Hello")
	})
	mux.HandleFunc("/id", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, r.URL.Query().Get("id"))
	})
	mux.HandleFunc("/fail", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	return httptest.NewServer(mux)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	filename := filepath.Join(dir, name)
	if err := ioutil.WriteFile(filename, []byte(content), 0644); err != nil {
		t.Fatalf("Unexpected error %v", err)
	}
	return filename
}

func hurl(args ...string) (int, string, string) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	code := run(context.Background(), args, stdout, stderr)
	return code, stdout.String(), stderr.String()
}

func TestExitCodes(t *testing.T) {
	ts := testServer()
	defer ts.Close()
	dir := t.TempDir()

	for i, tc := range []struct {
		content string
		code    int
		stdout  string
		stderr  string
	}{
		{"GET {{host}}/hello\nHTTP/1.1 200\n", exitSuccess, "Hello", ""},
		{"GET {{host}}/hello\n", exitSuccess, "Hello", ""},
		{"GET {{host}}/hello\nHTTP/1.1 20x\n", exitParse, "",
			"test.hurl[2:13]: error: space or tab is expected\nHTTP/1.1 20x\n            ^\n"},
		{"GET {{host}}/fail\nHTTP/1.1 200\n", exitAssert, "",
			"test.hurl[2:10]: error: assert status code equals failed"},
		{"GET {{host}}/{{nope}}\n", exitRuntime, "", "error: undefined variable"},
		{"GET {{host}}/hello\nHTTP/1.1 200\nContent-Type: {{nope}}\n", exitRuntime, "",
			"test.hurl[3:15]: error: undefined variable"},
		{"GET {{host}}/hello\nHTTP/1.1 200\n[Asserts]\nbody equals \"{{nope}}\"\n", exitRuntime, "",
			"error: undefined variable"},
		{"GET {{host}}/hello\nHTTP/1.1 200\n[Captures]\nx: regex \"(\"\n", exitUnknown, "",
			"error: capture variable 'x' failed"},
	} {
		filename := writeFile(t, dir, "test.hurl", tc.content)
		code, stdout, stderr := hurl("-D", "host="+ts.URL, filename)
		if code != tc.code {
			t.Errorf("%d. Got exit code %d, want %d (stderr %q)", i, code, tc.code, stderr)
		}
		if stdout != tc.stdout {
			t.Errorf("%d. Got stdout %q, want %q", i, stdout, tc.stdout)
		}
		if !strings.Contains(stderr, tc.stderr) {
			t.Errorf("%d. Got stderr %q, want %q", i, stderr, tc.stderr)
		}
	}
}

func TestOptionErrors(t *testing.T) {
	for i, args := range [][]string{
		{},
		{"-report", "xml", "x.hurl"},
		{"-D", "novalue", "x.hurl"},
		{"-to-entry", "-2", "x.hurl"},
		{"-u", "nocolon", "x.hurl"},
		{"-nosuchflag", "x.hurl"},
		{"does-not-exist.hurl"},
	} {
		if code, _, _ := hurl(args...); code != exitOptions {
			t.Errorf("%d. %v: Got exit code %d", i, args, code)
		}
	}

	code, stdout, _ := hurl("-version")
	if code != exitSuccess || !strings.HasPrefix(stdout, "hurl ") {
		t.Errorf("Got %d %q", code, stdout)
	}
}

func TestIncludeAndOutput(t *testing.T) {
	ts := testServer()
	defer ts.Close()
	dir := t.TempDir()
	filename := writeFile(t, dir, "out.hurl", "GET {{host}}/hello\n")

	code, stdout, _ := hurl("-i", "-D", "host="+ts.URL, filename)
	if code != exitSuccess || !strings.HasPrefix(stdout, "HTTP/1.1 200\n") ||
		!strings.Contains(stdout, "Content-Type: text/plain\n") ||
		!strings.HasSuffix(stdout, "\n\nHello") {
		t.Errorf("Got %d %q", code, stdout)
	}

	output := filepath.Join(dir, "body.txt")
	code, stdout, _ = hurl("-o", output, "-D", "host="+ts.URL, filename)
	if code != exitSuccess || stdout != "" {
		t.Errorf("Got %d %q", code, stdout)
	}
	if data, err := ioutil.ReadFile(output); err != nil || string(data) != "Hello" {
		t.Errorf("Got %q %v", data, err)
	}
}

func TestVariablesFile(t *testing.T) {
	ts := testServer()
	defer ts.Close()
	dir := t.TempDir()
	filename := writeFile(t, dir, "vars.hurl",
		"GET {{host}}/id\n[QueryStringParams]\nid: {{id}}\nHTTP/1.1 200\n[Asserts]\nbody equals \"{{id}}\"\n")
	varsFile := writeFile(t, dir, "vars.yaml", "host: http://wrong.invalid\nid: 42\n")

	code, stdout, stderr := hurl("-variables-file", varsFile, "-D", "host="+ts.URL, filename)
	if code != exitSuccess || stdout != "42" {
		t.Errorf("Got %d %q %q", code, stdout, stderr)
	}

	broken := writeFile(t, dir, "broken.yaml", "- a\n- b\n")
	if code, _, _ := hurl("-variables-file", broken, "-D", "host="+ts.URL, filename); code != exitOptions {
		t.Errorf("Got exit code %d", code)
	}
}

func TestEnvironmentFlags(t *testing.T) {
	ts := testServer()
	defer ts.Close()
	dir := t.TempDir()
	filename := writeFile(t, dir, "env.hurl",
		"GET {{host}}/hello\nHTTP/1.1 200\n\nGET {{host}}/fail\nHTTP/1.1 200\n")

	if code, _, _ := hurl("-D", "host="+ts.URL, filename); code != exitAssert {
		t.Errorf("Got exit code %d", code)
	}
	t.Setenv("HURL_TO_ENTRY", "1")
	if code, stdout, _ := hurl("-D", "host="+ts.URL, filename); code != exitSuccess || stdout != "Hello" {
		t.Errorf("Got %d %q", code, stdout)
	}
}

func TestReports(t *testing.T) {
	ts := testServer()
	defer ts.Close()
	dir := t.TempDir()
	filename := writeFile(t, dir, "report.hurl", "GET {{host}}/hello\nHTTP/1.1 200\n")

	// A json report on stdout replaces the body.
	code, stdout, _ := hurl("-report", "json", "-D", "host="+ts.URL, filename)
	if code != exitSuccess {
		t.Fatalf("Got exit code %d", code)
	}
	var got struct {
		Success bool          `json:"success"`
		Entries []interface{} `json:"entries"`
	}
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("Invalid JSON %v:\n%s", err, stdout)
	}
	if !got.Success || len(got.Entries) != 1 {
		t.Errorf("Got %+v", got)
	}

	reportFile := filepath.Join(dir, "junit.xml")
	code, stdout, _ = hurl("-report", "junit", "-report-file", reportFile, "-test",
		"-D", "host="+ts.URL, filename)
	if code != exitSuccess || !strings.HasPrefix(stdout, "report.hurl: RUNNING\nreport.hurl: SUCCESS in ") {
		t.Errorf("Got %d %q", code, stdout)
	}
	data, err := os.ReadFile(reportFile)
	if err != nil {
		t.Fatalf("Unexpected error %v", err)
	}
	if !bytes.Contains(data, []byte(`<testsuite name="report.hurl" tests="1" errors="0" failures="0" skipped="0"`)) {
		t.Errorf("Got %s", data)
	}
}

func TestSeveralFiles(t *testing.T) {
	ts := testServer()
	defer ts.Close()
	dir := t.TempDir()
	first := writeFile(t, dir, "first.hurl", "GET {{host}}/hello\n")
	second := writeFile(t, dir, "second.hurl", "GET {{host}}/id\n[QueryStringParams]\nid: 7\n")

	output := filepath.Join(dir, "body.txt")
	reportFile := filepath.Join(dir, "report.json")
	code, stdout, stderr := hurl("-o", output, "-report", "json", "-report-file", reportFile,
		"-D", "host="+ts.URL, first, second)
	if code != exitSuccess || stdout != "" {
		t.Fatalf("Got %d %q %q", code, stdout, stderr)
	}
	if data, err := ioutil.ReadFile(output); err != nil || string(data) != "Hello7" {
		t.Errorf("Got %q %v", data, err)
	}

	f, err := os.Open(reportFile)
	if err != nil {
		t.Fatalf("Unexpected error %v", err)
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	for i := 0; i < 2; i++ {
		var got struct {
			Success bool `json:"success"`
		}
		if err := dec.Decode(&got); err != nil || !got.Success {
			t.Errorf("%d. Got %+v %v", i, got, err)
		}
	}

	if code, _, _ := hurl("-report", "junit", "-D", "host="+ts.URL, first, second); code != exitOptions {
		t.Errorf("Got exit code %d", code)
	}
}
