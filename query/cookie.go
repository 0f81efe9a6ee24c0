// Copyright 2015 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package query

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/vdobler/hurl/response"
	"github.com/vdobler/hurl/value"
)

// CookiePath selects a cookie by name and optionally one of its
// attributes, e.g. "LSID" or "LSID[Max-Age]".
type CookiePath struct {
	Name      string
	Attribute string // canonical attribute name, "Value" if absent
}

var cookieAttributes = []string{
	"Value", "Expires", "Max-Age", "Domain", "Path", "Secure", "HttpOnly", "SameSite",
}

// ParseCookiePath parses expr. The attribute name is case insensitive.
func ParseCookiePath(expr string) (CookiePath, error) {
	invalid := &InvalidQuery{Msg: "Invalid cookie path query " + expr}
	start := strings.IndexByte(expr, '[')
	if start == -1 {
		return CookiePath{Name: expr, Attribute: "Value"}, nil
	}
	end := strings.IndexByte(expr[start+1:], ']')
	if end == -1 {
		return CookiePath{}, invalid
	}
	raw := expr[start+1 : start+1+end]
	for _, a := range cookieAttributes {
		if strings.EqualFold(a, raw) {
			return CookiePath{Name: expr[:start], Attribute: a}, nil
		}
	}
	return CookiePath{}, invalid
}

// Cookie evaluates the cookie path expr against the Set-Cookie headers
// of resp. A missing cookie or attribute yields None.
func Cookie(expr string, resp *response.Response) (value.Value, error) {
	cp, err := ParseCookiePath(expr)
	if err != nil {
		return value.Value{}, err
	}

	var cookie *http.Cookie
	for _, c := range receivedCookies(resp) {
		if c.Name == cp.Name {
			cookie = c
			break
		}
	}
	if cookie == nil {
		return value.Value{}, nil
	}

	switch cp.Attribute {
	case "Value":
		return value.OfString(cookie.Value), nil
	case "Expires":
		if cookie.RawExpires != "" {
			return value.OfString(cookie.RawExpires), nil
		}
	case "Max-Age":
		// net/http folds non-positive values into -1, the number is
		// reported as sent.
		if raw, ok := rawAttribute(cookie.Raw, "Max-Age"); ok {
			if n, err := strconv.Atoi(raw); err == nil {
				return value.OfInt(int64(n)), nil
			}
		}
	case "Domain":
		if cookie.Domain != "" {
			return value.OfString(cookie.Domain), nil
		}
	case "Path":
		if cookie.Path != "" {
			return value.OfString(cookie.Path), nil
		}
	case "Secure":
		if cookie.Secure {
			return value.OfBool(true), nil
		}
	case "HttpOnly":
		if cookie.HttpOnly {
			return value.OfBool(true), nil
		}
	case "SameSite":
		if raw, ok := rawAttribute(cookie.Raw, "SameSite"); ok {
			return value.OfString(raw), nil
		}
	}
	return value.Value{}, nil
}

// receivedCookies parses the Set-Cookie headers of resp.
func receivedCookies(resp *response.Response) []*http.Cookie {
	header := http.Header{}
	for _, v := range resp.Values("Set-Cookie") {
		header.Add("Set-Cookie", v)
	}
	return (&http.Response{Header: header}).Cookies()
}

// rawAttribute returns the unparsed value of the attribute name in the
// Set-Cookie line raw.
func rawAttribute(raw, name string) (string, bool) {
	parts := strings.Split(raw, ";")
	for _, part := range parts[1:] {
		key, val, _ := strings.Cut(strings.TrimSpace(part), "=")
		if strings.EqualFold(strings.TrimSpace(key), name) {
			return strings.TrimSpace(val), true
		}
	}
	return "", false
}
