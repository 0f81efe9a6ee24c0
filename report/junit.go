// Copyright 2016 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/vdobler/hurl/ast"
	"github.com/vdobler/hurl/runner"
)

// JUnit style output.
// ----------------------------------------------------------------------------

// JUnit writes a JUnit 4 compatible XML result of rr to w with each
// entry of file reported as an individual testcase. Entries which were
// not run are reported as skipped; invalid variables and runtime errors
// are counted as errored tests. The text report of the run becomes the
// standard output of the test suite.
func JUnit(w io.Writer, filename, source string, file *ast.HurlFile, rr *runner.RunResult) error {
	// Local types used for XML encoding
	type SysOut struct {
		XMLName xml.Name `xml:"system-out"`
		Data    string   `xml:",innerxml"`
	}
	type ErrorMsg struct {
		Message string `xml:"message,attr"`
		Typ     string `xml:"type,attr"`
		Text    string `xml:",chardata"`
	}
	type Testcase struct {
		XMLName   xml.Name  `xml:"testcase"`
		Name      string    `xml:"name,attr"`
		Classname string    `xml:"classname,attr"`
		Time      float64   `xml:"time,attr"`
		Skipped   *struct{} `xml:"skipped,omitempty"`
		Error     *ErrorMsg `xml:"error,omitempty"`
		Failure   *ErrorMsg `xml:"failure,omitempty"`
	}
	type Property struct {
		Name  string `xml:"name,attr"`
		Value string `xml:"value,attr"`
	}
	type Testsuite struct {
		XMLName    xml.Name   `xml:"testsuite"`
		Name       string     `xml:"name,attr"`
		Tests      int        `xml:"tests,attr"`
		Errors     int        `xml:"errors,attr"`
		Failures   int        `xml:"failures,attr"`
		Skipped    int        `xml:"skipped,attr"`
		Time       float64    `xml:"time,attr"`
		Timestamp  string     `xml:"timestamp,attr"`
		Properties []Property `xml:"properties>property"`
		Testcase   []Testcase
		SystemOut  SysOut
	}

	skipped, passed, failed, errored := 0, 0, 0, 0
	testcases := []Testcase{}
	for i, entry := range file.Entries {
		tc := Testcase{
			Name:      fmt.Sprintf("entry %d: %s %s", i+1, entry.Request.Method.Value, entry.Request.URL.Value),
			Classname: filename,
		}
		if i >= len(rr.Entries) {
			tc.Skipped = &struct{}{}
			skipped++
			testcases = append(testcases, tc)
			continue
		}

		er := rr.Entries[i]
		tc.Time = er.Duration.Seconds()
		switch {
		case len(er.Errors) > 0:
			tc.Error = &ErrorMsg{
				Message: er.Errors[0].Message,
				Typ:     er.Errors[0].Kind.String(),
				Text:    failureText(filename, er.Errors),
			}
			errored++
		case !er.Succeeded():
			failures := er.Failures()
			tc.Failure = &ErrorMsg{
				Message: firstLine(failures[0].Message),
				Typ:     failures[0].Kind.String(),
				Text:    failureText(filename, failures),
			}
			failed++
		default:
			passed++
		}
		testcases = append(testcases, tc)
	}

	// Generate a standard text report which becomes the standard-out of
	// the generated JUnit report.
	buf := &bytes.Buffer{}
	text := &Text{Filename: filename, Source: source, Out: buf, Err: buf, Test: true}
	if err := text.Result(rr); err != nil {
		return err
	}

	ts := Testsuite{
		Name:      filename,
		Tests:     skipped + passed + failed + errored,
		Errors:    errored,
		Failures:  failed,
		Skipped:   skipped,
		Time:      rr.Duration.Seconds(),
		Timestamp: rr.Started.Format("2006-01-02T15:04:05"),
		Testcase:  testcases,
		SystemOut: SysOut{Data: "\n" + xmlEscapeChars(buf.Bytes())},
		Properties: []Property{
			{Name: "id", Value: rr.ID.String()},
		},
	}

	data, err := xml.MarshalIndent(ts, "", "  ")
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, xml.Header+string(data)+"\n")
	return err
}

func failureText(filename string, steps []runner.StepResult) string {
	parts := make([]string, len(steps))
	for i, s := range steps {
		parts[i] = filename + s.Pos.String() + ": " + s.Message
	}
	return strings.Join(parts, "\n")
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// xmlEscapeChars escapes the reserved characters.
func xmlEscapeChars(s []byte) string {
	buf := &bytes.Buffer{}
	for i := 0; i < len(s); {
		rune, width := utf8.DecodeRune(s[i:])
		i += width
		switch rune {
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '&':
			buf.WriteString("&amp;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&apos;")
		case '\t':
			buf.WriteString("&#x9;")
		default:
			// TODO: drop runes outside the XML character range, e.g. U+0000.
			buf.WriteRune(rune)
		}
	}
	return buf.String()
}
