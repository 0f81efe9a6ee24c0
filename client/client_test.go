// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
)

type testLogger struct {
	lines []string
}

func (l *testLogger) Printf(format string, a ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(format, a...))
}

func echoHandler(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/cookie":
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "s3cr3t", Path: "/"})
	case "/redirect":
		http.Redirect(w, r, "/target", http.StatusFound)
		return
	}
	r.ParseMultipartForm(1 << 20)
	body, _ := io.ReadAll(r.Body)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "method=%s\n", r.Method)
	fmt.Fprintf(w, "query=%s\n", r.URL.RawQuery)
	fmt.Fprintf(w, "content-type=%s\n", r.Header.Get("Content-Type"))
	fmt.Fprintf(w, "user-agent=%s\n", r.Header.Get("User-Agent"))
	fmt.Fprintf(w, "x-test=%s\n", strings.Join(r.Header.Values("X-Test"), ","))
	if c, err := r.Cookie("c1"); err == nil {
		fmt.Fprintf(w, "c1=%s\n", c.Value)
	}
	if c, err := r.Cookie("session"); err == nil {
		fmt.Fprintf(w, "session=%s\n", c.Value)
	}
	if u, p, ok := r.BasicAuth(); ok {
		fmt.Fprintf(w, "auth=%s:%s\n", u, p)
	}
	if r.MultipartForm != nil {
		fmt.Fprintf(w, "field=%s\n", r.MultipartForm.Value["field"])
		for _, fh := range r.MultipartForm.File["file"] {
			fmt.Fprintf(w, "file=%s %s\n", fh.Filename, fh.Header.Get("Content-Type"))
		}
	} else if r.PostForm != nil && len(r.PostForm) > 0 {
		fmt.Fprintf(w, "form=%s\n", r.PostForm.Encode())
	}
	fmt.Fprintf(w, "body=%s\n", body)
}

func mustClient(t *testing.T, opts Options) *HTTPClient {
	c, err := New(opts)
	if err != nil {
		t.Fatalf("Unexpected error %v", err)
	}
	return c
}

func execute(t *testing.T, c *HTTPClient, req *Request) *Result {
	result, err := c.Execute(context.Background(), req)
	if err != nil {
		t.Fatalf("Unexpected error %v", err)
	}
	return result
}

func TestExecute(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(echoHandler))
	defer ts.Close()

	log := &testLogger{}
	c := mustClient(t, Options{User: "bob:pa:ss", Verbosity: 3, Log: log})

	result := execute(t, c, &Request{
		Method:      "POST",
		URL:         ts.URL + "/echo?a=1",
		QueryParams: []Param{{"q", "x y"}, {"b", "2"}},
		Headers:     []Param{{"X-Test", "one"}, {"X-Test", "two"}},
		Cookies:     []Param{{"c1", "v1"}},
		Body:        &Body{Kind: JSON, Data: []byte(`{"a":1}`)},
	})

	resp := result.Response
	if resp.Code != 200 || resp.Version != "HTTP/1.1" {
		t.Errorf("Got %s %d", resp.Version, resp.Code)
	}
	got := string(resp.Body)
	for _, want := range []string{
		"method=POST\n",
		"query=a=1&q=x+y&b=2\n",
		"content-type=application/json\n",
		"user-agent=" + DefaultUserAgent + "\n",
		"x-test=one,two\n",
		"c1=v1\n",
		"auth=bob:pa:ss\n",
		`body={"a":1}` + "\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Missing %q in\n%s", want, got)
		}
	}
	if resp.Get("content-type") != "text/plain; charset=utf-8" {
		t.Errorf("Got headers %v", resp.Headers)
	}
	if resp.Duration <= 0 {
		t.Errorf("Got duration %s", resp.Duration)
	}
	if result.Sent.URL.RawQuery != "a=1&q=x+y&b=2" {
		t.Errorf("Got sent URL %s", result.Sent.URL)
	}

	var sawRequest, sawResponse bool
	for _, line := range log.lines {
		sawRequest = sawRequest || strings.Contains(line, "> POST /echo?a=1&q=x+y&b=2")
		sawResponse = sawResponse || strings.Contains(line, "< HTTP/1.1 200")
	}
	if !sawRequest || !sawResponse {
		t.Errorf("Got log %q", log.lines)
	}
}

func TestExecuteForms(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(echoHandler))
	defer ts.Close()
	c := mustClient(t, Options{})

	result := execute(t, c, &Request{
		Method:     "POST",
		URL:        ts.URL + "/form",
		FormParams: []Param{{"name", "a b"}, {"n", "1"}},
	})
	if got := string(result.Response.Body); !strings.Contains(got, "form=n=1&name=a+b") ||
		!strings.Contains(got, "content-type=application/x-www-form-urlencoded") {
		t.Errorf("Got %s", got)
	}

	result = execute(t, c, &Request{
		Method: "POST",
		URL:    ts.URL + "/multipart",
		Multipart: []FormData{
			{Name: "field", Value: "value1"},
			{Name: "file", File: true, Filename: "dir/data.txt", Data: []byte("hello")},
			{Name: "file", File: true, Filename: "img.bin", ContentType: "image/png", Data: []byte{1, 2}},
		},
	})
	got := string(result.Response.Body)
	for _, want := range []string{
		"field=[value1]",
		"file=data.txt text/plain",
		"file=img.bin image/png",
		"content-type=multipart/form-data; boundary=",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Missing %q in\n%s", want, got)
		}
	}
}

func TestCookiesAndRedirects(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(echoHandler))
	defer ts.Close()
	c := mustClient(t, Options{})

	result := execute(t, c, &Request{Method: "GET", URL: ts.URL + "/cookie"})
	if len(result.Cookies) != 1 || result.Cookies[0].Value != "s3cr3t" {
		t.Errorf("Got cookies %v", result.Cookies)
	}
	result = execute(t, c, &Request{Method: "GET", URL: ts.URL + "/echo"})
	if !strings.Contains(string(result.Response.Body), "session=s3cr3t") {
		t.Errorf("Cookie not sent:\n%s", result.Response.Body)
	}

	result = execute(t, c, &Request{Method: "GET", URL: ts.URL + "/redirect"})
	if result.Response.Code != 302 || result.Response.Get("Location") != "/target" {
		t.Errorf("Got %d %v", result.Response.Code, result.Response.Headers)
	}
}

func TestTransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer ts.Close()

	c := mustClient(t, Options{MaxTime: 20 * time.Millisecond})
	_, err := c.Execute(context.Background(), &Request{Method: "GET", URL: ts.URL})
	te, ok := err.(*TransportError)
	if !ok {
		t.Fatalf("Got %T %v", err, err)
	}
	if errors.Cause(te.Err) == te.Err {
		t.Errorf("Error not wrapped: %v", te.Err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = mustClient(t, Options{}).Execute(ctx, &Request{Method: "GET", URL: ts.URL})
	if _, ok := err.(*TransportError); !ok {
		t.Errorf("Got %T %v", err, err)
	}
}

func TestParseProxy(t *testing.T) {
	for i, tc := range []struct {
		in, want string
	}{
		{"localhost", "http://localhost:1080"},
		{"localhost:3128", "http://localhost:3128"},
		{"http://10.0.0.1:8888", "http://10.0.0.1:8888"},
		{"ftp://host", ""},
		{"host:port", ""},
	} {
		u, err := ParseProxy(tc.in)
		if tc.want == "" {
			if err == nil {
				t.Errorf("%d. %q: missing error", i, tc.in)
			}
			continue
		}
		if err != nil || u.String() != tc.want {
			t.Errorf("%d. %q: got %v %v, want %s", i, tc.in, u, err, tc.want)
		}
	}
}

func TestParseUser(t *testing.T) {
	if u, p, err := ParseUser("bob:se:cret"); err != nil || u != "bob" || p != "se:cret" {
		t.Errorf("Got %q %q %v", u, p, err)
	}
	if _, _, err := ParseUser("bob"); err == nil {
		t.Errorf("Missing error")
	}
}

func TestContentTypeOf(t *testing.T) {
	for _, tc := range []struct{ name, want string }{
		{"a.png", "image/png"},
		{"dir/A.JPG", "image/jpeg"},
		{"x.txt", "text/plain"},
		{"noext", "application/octet-stream"},
	} {
		if got := ContentTypeOf(tc.name); got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}
