// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package client

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"path"
	"strings"
)

// Param is a name/value pair used for headers, query and form
// parameters and cookies.
type Param struct {
	Name  string
	Value string
}

// FormData is one part of a multipart/form-data body.
type FormData struct {
	Name  string
	Value string // value of a text part

	// File parts only.
	File        bool
	Filename    string
	ContentType string // empty: derived from Filename
	Data        []byte
}

// BodyKind describes the origin of a request body.
type BodyKind int

// Kinds of request bodies. JSON and XML bodies get a default
// Content-Type header.
const (
	Binary BodyKind = iota
	JSON
	XML
)

// Body of a request.
type Body struct {
	Kind BodyKind
	Data []byte
}

// Request is the fully rendered description of a HTTP request.
type Request struct {
	Method      string
	URL         string
	QueryParams []Param
	Headers     []Param
	FormParams  []Param
	Multipart   []FormData
	Cookies     []Param
	Body        *Body // nil: no body
}

// HeaderValues returns the values of all headers called name compared
// case insensitively.
func (r *Request) HeaderValues(name string) []string {
	var values []string
	for _, h := range r.Headers {
		if strings.EqualFold(h.Name, name) {
			values = append(values, h.Value)
		}
	}
	return values
}

// FullURL is the URL of r with the query parameters appended in order.
func (r *Request) FullURL() (*url.URL, error) {
	// Curly braces are allowed in hurl URLs.
	raw := strings.NewReplacer("{", "%7B", "}", "%7D").Replace(r.URL)
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if len(r.QueryParams) > 0 {
		q := encodeParams(r.QueryParams)
		if u.RawQuery != "" {
			u.RawQuery += "&" + q
		} else {
			u.RawQuery = q
		}
	}
	return u, nil
}

// encodeParams url-encodes params keeping their order.
func encodeParams(params []Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = url.QueryEscape(p.Name) + "=" + url.QueryEscape(p.Value)
	}
	return strings.Join(parts, "&")
}

// body returns the body to send and its implied content type.
func (r *Request) body() (io.Reader, string, error) {
	switch {
	case len(r.Multipart) > 0:
		return multipartBody(r.Multipart)
	case len(r.FormParams) > 0:
		return strings.NewReader(encodeParams(r.FormParams)), "application/x-www-form-urlencoded", nil
	case r.Body != nil:
		ct := ""
		switch r.Body.Kind {
		case JSON:
			ct = "application/json"
		case XML:
			ct = "text/xml"
		}
		return bytes.NewReader(r.Body.Data), ct, nil
	}
	return nil, "", nil
}

// ----------------------------------------------------------------------------
//  Multipart bodies

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// multipartBody formats parts as a proper multipart/form-data body and
// returns it together with the content type including the boundary.
// Parts are written in the given order.
func multipartBody(parts []FormData) (io.Reader, string, error) {
	var body = &bytes.Buffer{}
	var mpwriter = multipart.NewWriter(body)

	for _, p := range parts {
		if !p.File {
			if err := mpwriter.WriteField(p.Name, p.Value); err != nil {
				return nil, "", err
			}
			continue
		}
		if err := addFilePart(mpwriter, p); err != nil {
			return nil, "", err
		}
	}
	if err := mpwriter.Close(); err != nil {
		return nil, "", err
	}

	return body, mpwriter.FormDataContentType(), nil
}

// addFilePart to mpwriter.
func addFilePart(mpwriter *multipart.Writer, p FormData) error {
	basename := path.Base(p.Filename)

	// Doing fw, err := mpwriter.CreateFormFile(n, basename) would
	// be much simpler but would fix the content type to
	// application/octet-stream. We can do a bit better.
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			escapeQuotes(p.Name), escapeQuotes(basename)))
	ct := p.ContentType
	if ct == "" {
		ct = ContentTypeOf(p.Filename)
	}
	h.Set("Content-Type", ct)
	fw, err := mpwriter.CreatePart(h)
	if err != nil {
		return fmt.Errorf("Unable to create part for parameter %q: %s",
			p.Name, err.Error())
	}

	_, err = fw.Write(p.Data)
	return err
}

var contentTypes = map[string]string{
	".gif":  "image/gif",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".svg":  "image/svg+xml",
	".txt":  "text/plain",
	".htm":  "text/html",
	".html": "text/html",
	".pdf":  "application/pdf",
	".xml":  "application/xml",
}

// ContentTypeOf guesses the content type of a file from its extension.
func ContentTypeOf(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
