// Copyright 2020 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runner

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/vdobler/hurl/ast"
	"github.com/vdobler/hurl/client"
	"github.com/vdobler/hurl/template"
	"github.com/vdobler/hurl/value"
)

// renderRequest turns the request node into a client request. Errors
// are template errors or file errors from the file root.
func renderRequest(req *ast.Request, jar *value.Jar, root fs.FS) (*client.Request, error) {
	u, err := template.Render(req.URL.Value, jar, req.URL.From)
	if err != nil {
		return nil, err
	}
	cr := &client.Request{Method: req.Method.Value, URL: u}

	for _, h := range req.Headers {
		p, err := renderKeyValue(h.KeyValue, jar)
		if err != nil {
			return nil, err
		}
		cr.Headers = append(cr.Headers, p)
	}

	if qs := req.QueryStringParams(); qs != nil {
		if cr.QueryParams, err = renderParams(qs.Params, jar); err != nil {
			return nil, err
		}
	}
	if fp := req.FormParams(); fp != nil {
		if cr.FormParams, err = renderParams(fp.Params, jar); err != nil {
			return nil, err
		}
	}
	if mp := req.MultipartFormData(); mp != nil {
		if cr.Multipart, err = renderMultipart(mp, jar, root); err != nil {
			return nil, err
		}
	}
	if cs := req.Cookies(); cs != nil {
		for _, c := range cs.Cookies {
			v, err := template.Render(c.Value.Value, jar, c.Value.From)
			if err != nil {
				return nil, err
			}
			cr.Cookies = append(cr.Cookies, client.Param{Name: c.Name.Value, Value: v})
		}
	}

	if req.Body != nil {
		kind := client.Binary
		switch req.Body.Bytes.(type) {
		case *ast.JSON:
			kind = client.JSON
		case *ast.XML:
			kind = client.XML
		}
		data, err := renderBytes(req.Body.Bytes, jar, root)
		if err != nil {
			return nil, err
		}
		cr.Body = &client.Body{Kind: kind, Data: data}
	}

	return cr, nil
}

func renderKeyValue(kv *ast.KeyValue, jar *value.Jar) (client.Param, error) {
	v, err := template.Render(kv.Value.Value, jar, kv.Value.From)
	if err != nil {
		return client.Param{}, err
	}
	return client.Param{Name: kv.Key.Value, Value: v}, nil
}

func renderParams(params []*ast.Param, jar *value.Jar) ([]client.Param, error) {
	list := make([]client.Param, 0, len(params))
	for _, p := range params {
		cp, err := renderKeyValue(p.KeyValue, jar)
		if err != nil {
			return nil, err
		}
		list = append(list, cp)
	}
	return list, nil
}

// renderMultipart returns the text parts followed by the file parts.
func renderMultipart(mp *ast.MultipartFormDataSection, jar *value.Jar, root fs.FS) ([]client.FormData, error) {
	var parts []client.FormData
	for _, p := range mp.Params {
		cp, err := renderKeyValue(p.KeyValue, jar)
		if err != nil {
			return nil, err
		}
		parts = append(parts, client.FormData{Name: cp.Name, Value: cp.Value})
	}
	for _, fp := range mp.FileParams {
		data, err := readFile(root, fp.File.Filename.Value)
		if err != nil {
			return nil, err
		}
		fd := client.FormData{
			Name:     fp.Key.Value,
			File:     true,
			Filename: fp.File.Filename.Value,
			Data:     data,
		}
		if fp.File.ContentType != nil {
			fd.ContentType = fp.File.ContentType.Value
		}
		parts = append(parts, fd)
	}
	return parts, nil
}

// renderBytes returns the content of a body. JSON, XML and multiline
// strings are templates, base64 and file bodies are used verbatim.
func renderBytes(b ast.Bytes, jar *value.Jar, root fs.FS) ([]byte, error) {
	var s string
	var err error
	switch b := b.(type) {
	case *ast.JSON:
		s, err = template.Render(b.Text, jar, b.From)
	case *ast.XML:
		s, err = template.Render(b.Text, jar, b.From)
	case *ast.RawString:
		s, err = template.Render(b.Value, jar, b.From)
	case *ast.Base64:
		return b.Value.Value, nil
	case *ast.File:
		return readFile(root, b.Filename.Value)
	default:
		panic(fmt.Sprintf("runner: unknown bytes type %T", b))
	}
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// FileError is returned if a file referenced from the hurl file cannot
// be read.
type FileError struct {
	Name string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("file %s can not be read: %s", e.Name, e.Err)
}

// Unwrap returns the underlying error, typically fs.ErrNotExist.
func (e *FileError) Unwrap() error { return e.Err }

// readFile reads name relative to root.
func readFile(root fs.FS, name string) ([]byte, error) {
	if root == nil {
		return nil, &FileError{Name: name, Err: fs.ErrNotExist}
	}
	clean := strings.TrimPrefix(path.Clean(name), "/")
	data, err := fs.ReadFile(root, clean)
	if err != nil {
		return nil, &FileError{Name: name, Err: err}
	}
	return data, nil
}
