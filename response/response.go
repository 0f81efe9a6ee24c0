// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package response provides the HTTP response as seen by queries. Its
// main purpose is decoding the received body: content encodings are
// removed and the bytes are converted to text using the declared charset.
package response

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/text/encoding/htmlindex"
)

// DefaultCharset is used if the Content-Type header names none.
const DefaultCharset = "utf-8"

// Header is one received header field. Headers keep the order in which
// they were received.
type Header struct {
	Name, Value string
}

// Response captures information about a http response.
type Response struct {
	// Version is the protocol version like "HTTP/1.1" or "HTTP/2".
	Version string
	Code    int
	Headers []Header

	// Body is the raw received body, still content-encoded.
	Body []byte

	// Duration to receive response and read the whole body.
	Duration time.Duration
}

// BodyReader returns a reader of the raw response body.
func (resp *Response) BodyReader() *bytes.Reader {
	return bytes.NewReader(resp.Body)
}

// Values returns the values of all headers called name, compared case
// insensitively.
func (resp *Response) Values(name string) []string {
	var values []string
	for _, h := range resp.Headers {
		if strings.EqualFold(h.Name, name) {
			values = append(values, h.Value)
		}
	}
	return values
}

// Get returns the first value of header name or "".
func (resp *Response) Get(name string) string {
	if v := resp.Values(name); len(v) > 0 {
		return v[0]
	}
	return ""
}

// MimeType is the media type of the Content-Type header, e.g. "text/html".
func (resp *Response) MimeType() string {
	mt, _, err := mime.ParseMediaType(resp.Get("Content-Type"))
	if err != nil {
		return ""
	}
	return mt
}

// Charset is the lower case charset parameter of the Content-Type
// header or DefaultCharset.
func (resp *Response) Charset() string {
	_, params, err := mime.ParseMediaType(resp.Get("Content-Type"))
	if err != nil || params["charset"] == "" {
		return DefaultCharset
	}
	return strings.ToLower(params["charset"])
}

// Encoding is a content encoding.
type Encoding string

// The known content encodings.
const (
	Gzip     Encoding = "gzip"
	Compress Encoding = "compress"
	Deflate  Encoding = "deflate"
	Identity Encoding = "identity"
	Brotli   Encoding = "br"
	Zstd     Encoding = "zstd"
)

// Encodings lists the content encodings in the order they have been
// applied to the body.
func (resp *Response) Encodings() []Encoding {
	var encs []Encoding
	for _, v := range resp.Values("Content-Encoding") {
		for _, e := range strings.Split(v, ",") {
			if e = strings.TrimSpace(e); e != "" {
				encs = append(encs, Encoding(strings.ToLower(e)))
			}
		}
	}
	return encs
}

// Decompressed undoes all content encodings of the body.
func (resp *Response) Decompressed() ([]byte, error) {
	buf := resp.Body
	encs := resp.Encodings()
	for i := len(encs) - 1; i >= 0; i-- {
		var err error
		if buf, err = decode(encs[i], buf); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

func decode(enc Encoding, data []byte) ([]byte, error) {
	switch enc {
	case Identity:
		return data, nil
	case Gzip:
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("invalid GZIP data: %w", err)
		}
		defer r.Close()
		return io.ReadAll(r)
	case Deflate:
		r, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("invalid deflate data: %w", err)
		}
		defer r.Close()
		return io.ReadAll(r)
	case Brotli:
		return io.ReadAll(brotli.NewReader(bytes.NewReader(data)))
	case Zstd:
		d, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer d.Close()
		return d.DecodeAll(data, nil)
	case Compress:
		return nil, fmt.Errorf("compress encoding not supported")
	}
	return nil, fmt.Errorf("unknown content encoding %q", string(enc))
}

// UndecodableBody is returned by Text if the body cannot be decoded.
type UndecodableBody struct {
	Charset string
	Err     error
}

func (e *UndecodableBody) Error() string {
	return "body can not be decoded with charset " + e.Charset
}

func (e *UndecodableBody) Unwrap() error { return e.Err }

// Text returns the decompressed body decoded with the response charset.
func (resp *Response) Text() (string, error) {
	cs := resp.Charset()
	body, err := resp.Decompressed()
	if err != nil {
		return "", &UndecodableBody{Charset: cs, Err: err}
	}
	if cs == "utf-8" || cs == "utf8" {
		if !utf8.Valid(body) {
			return "", &UndecodableBody{Charset: cs, Err: fmt.Errorf("invalid utf-8")}
		}
		return string(body), nil
	}
	enc, err := htmlindex.Get(cs)
	if err != nil {
		return "", &UndecodableBody{Charset: cs, Err: err}
	}
	text, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return "", &UndecodableBody{Charset: cs, Err: err}
	}
	return string(text), nil
}
