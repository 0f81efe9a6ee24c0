// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package client executes rendered requests over HTTP.
package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/net/publicsuffix"

	"github.com/vdobler/hurl/response"
)

const (
	// DefaultUserAgent is the user agent string sent if the request does
	// not set one.
	DefaultUserAgent = "hurl/1.0"

	// DefaultConnectTimeout is used if Options.ConnectTimeout is zero.
	DefaultConnectTimeout = 60 * time.Second
)

// Logger is the minimal logging interface used.
type Logger interface {
	Printf(format string, a ...interface{})
}

// Result of executing a Request.
type Result struct {
	Request *Request

	// Sent is the request as it went over the wire: with the final URL
	// and all headers including the ones added by the client.
	Sent *http.Request

	Response *response.Response

	// Cookies holds all cookies of the client's cookie store which
	// apply to the request URL after the response was processed.
	Cookies []*http.Cookie
}

// Client executes requests.
type Client interface {
	Execute(ctx context.Context, req *Request) (*Result, error)
}

// TransportError is returned if the request could not be sent or the
// response could not be read.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error { return e.Err }

// Options of a HTTPClient.
type Options struct {
	// Insecure disables verification of TLS certificates.
	Insecure bool

	// Proxy in the form [http://]host[:port].
	Proxy string

	// User is "user:password" for basic authentication.
	User string

	// Compressed requests a compressed response.
	Compressed bool

	ConnectTimeout time.Duration
	MaxTime        time.Duration // 0: no limit

	// Verbosity level in logging.
	Verbosity int
	Log       Logger
}

// HTTPClient is a Client using net/http. Cookies received are kept for
// the lifetime of the client.
type HTTPClient struct {
	opts     Options
	user     string
	password string
	client   *http.Client
	jar      *cookiejar.Jar
}

var _ Client = (*HTTPClient)(nil)

// New returns a HTTPClient configured by opts.
func New(opts Options) (*HTTPClient, error) {
	c := &HTTPClient{opts: opts}

	if opts.User != "" {
		user, password, err := ParseUser(opts.User)
		if err != nil {
			return nil, err
		}
		c.user, c.password = user, password
	}

	proxy := http.ProxyFromEnvironment
	if opts.Proxy != "" {
		pu, err := ParseProxy(opts.Proxy)
		if err != nil {
			return nil, err
		}
		proxy = http.ProxyURL(pu)
	}

	connectTimeout := opts.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = DefaultConnectTimeout
	}
	transport := &http.Transport{
		Proxy: proxy,
		DialContext: (&net.Dialer{
			Timeout:   connectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:    100,
		IdleConnTimeout: 90 * time.Second,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: opts.Insecure,
		},
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
		// Bodies are decoded by package response.
		DisableCompression: true,
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}
	c.jar = jar
	c.client = &http.Client{
		Transport:     transport,
		CheckRedirect: dontFollowRedirects,
		Jar:           jar,
		Timeout:       opts.MaxTime,
	}
	return c, nil
}

// Redirects are followed explicitly by the runner.
func dontFollowRedirects(*http.Request, []*http.Request) error {
	return http.ErrUseLastResponse
}

// Execute sends req and reads the whole response.
func (c *HTTPClient) Execute(ctx context.Context, req *Request) (*Result, error) {
	hreq, err := c.newRequest(ctx, req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	c.infof("%s %s", hreq.Method, hreq.URL)
	c.logRequest(hreq)

	start := time.Now()
	resp, err := c.client.Do(hreq)
	if err != nil {
		c.errorf("%s %s: %s", hreq.Method, hreq.URL, err)
		return nil, &TransportError{Err: errors.Wrapf(err, "%s %s", hreq.Method, hreq.URL)}
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	duration := time.Since(start)
	if err != nil {
		return nil, &TransportError{Err: errors.Wrap(err, "reading response body")}
	}

	r := &response.Response{
		Version:  version(resp),
		Code:     resp.StatusCode,
		Headers:  headerList(resp.Header),
		Body:     body,
		Duration: duration,
	}
	c.logResponse(r)
	c.debugf("Request took %s", duration)

	return &Result{
		Request:  req,
		Sent:     hreq,
		Response: r,
		Cookies:  c.jar.Cookies(hreq.URL),
	}, nil
}

// newRequest crafts the net/http request for req.
func (c *HTTPClient) newRequest(ctx context.Context, req *Request) (*http.Request, error) {
	u, err := req.FullURL()
	if err != nil {
		return nil, err
	}
	body, contentType, err := req.body()
	if err != nil {
		return nil, err
	}
	hreq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), body)
	if err != nil {
		return nil, err
	}

	hreq.Header.Set("User-Agent", DefaultUserAgent)
	for _, h := range req.Headers {
		if strings.EqualFold(h.Name, "User-Agent") {
			hreq.Header.Del("User-Agent")
		}
	}
	for _, h := range req.Headers {
		hreq.Header.Add(h.Name, h.Value)
	}
	if hreq.Header.Get("Content-Type") == "" && contentType != "" {
		hreq.Header.Set("Content-Type", contentType)
	}
	if c.opts.Compressed {
		hreq.Header.Set("Accept-Encoding", "br, gzip, deflate")
	}
	if c.user != "" {
		hreq.SetBasicAuth(c.user, c.password)
	}
	for _, cookie := range req.Cookies {
		hreq.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	}
	return hreq, nil
}

// version normalizes the protocol of resp to "HTTP/1.0", "HTTP/1.1" or "HTTP/2".
func version(resp *http.Response) string {
	if resp.ProtoMajor == 2 {
		return "HTTP/2"
	}
	return fmt.Sprintf("HTTP/%d.%d", resp.ProtoMajor, resp.ProtoMinor)
}

// headerList flattens h sorted by name. The order of values of the
// same name is kept.
func headerList(h http.Header) []response.Header {
	names := make([]string, 0, len(h))
	for n := range h {
		names = append(names, n)
	}
	sort.Strings(names)
	var list []response.Header
	for _, n := range names {
		for _, v := range h[n] {
			list = append(list, response.Header{Name: n, Value: v})
		}
	}
	return list
}

var proxyRE = regexp.MustCompile(`^(http://)?([a-zA-Z\d.]+)(:\d+)?$`)

// ParseProxy parses a proxy in the form [http://]host[:port], the port
// defaults to 1080.
func ParseProxy(s string) (*url.URL, error) {
	m := proxyRE.FindStringSubmatch(s)
	if m == nil {
		return nil, fmt.Errorf("Invalid proxy string %s", s)
	}
	port := m[3]
	if port == "" {
		port = ":1080"
	}
	return &url.URL{Scheme: "http", Host: m[2] + port}, nil
}

// ParseUser splits "user:password".
func ParseUser(s string) (user, password string, err error) {
	i := strings.IndexByte(s, ':')
	if i == -1 {
		return "", "", fmt.Errorf("param should be <user:password>")
	}
	return s[:i], s[i+1:], nil
}

// ----------------------------------------------------------------------------
//  Logging

func (c *HTTPClient) errorf(format string, v ...interface{}) {
	if c.opts.Verbosity >= 0 && c.opts.Log != nil {
		c.opts.Log.Printf("ERROR "+format, v...)
	}
}

func (c *HTTPClient) infof(format string, v ...interface{}) {
	if c.opts.Verbosity >= 1 && c.opts.Log != nil {
		c.opts.Log.Printf("INFO  "+format, v...)
	}
}

func (c *HTTPClient) debugf(format string, v ...interface{}) {
	if c.opts.Verbosity >= 2 && c.opts.Log != nil {
		c.opts.Log.Printf("DEBUG "+format, v...)
	}
}

func (c *HTTPClient) tracef(format string, v ...interface{}) {
	if c.opts.Verbosity >= 3 && c.opts.Log != nil {
		c.opts.Log.Printf("TRACE Begin\n"+format+"TRACE End", v...)
	}
}

// logRequest dumps the request line and headers with "> " prefixes.
func (c *HTTPClient) logRequest(req *http.Request) {
	if c.opts.Verbosity < 3 {
		return
	}
	buf := &bytes.Buffer{}
	fmt.Fprintf(buf, "> %s %s\n", req.Method, req.URL.RequestURI())
	fmt.Fprintf(buf, "> Host: %s\n", req.URL.Host)
	for _, h := range headerList(req.Header) {
		fmt.Fprintf(buf, "> %s: %s\n", h.Name, h.Value)
	}
	c.tracef("%s", buf.String())
}

// logResponse dumps the status line and headers with "< " prefixes.
func (c *HTTPClient) logResponse(resp *response.Response) {
	if c.opts.Verbosity < 3 {
		return
	}
	buf := &bytes.Buffer{}
	fmt.Fprintf(buf, "< %s %d\n", resp.Version, resp.Code)
	for _, h := range resp.Headers {
		fmt.Fprintf(buf, "< %s: %s\n", h.Name, h.Value)
	}
	c.tracef("%s", buf.String())
}
