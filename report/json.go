// Copyright 2016 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"encoding/json"
	"io"
	"unicode/utf8"

	"github.com/vdobler/hurl/client"
	"github.com/vdobler/hurl/response"
	"github.com/vdobler/hurl/runner"
)

type keyValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type fileData struct {
	Name        string `json:"name"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType,omitempty"`
}

type multipartData struct {
	TextDatas []keyValue `json:"textDatas"`
	FileDatas []fileData `json:"fileDatas"`
}

type requestSpec struct {
	Method            string        `json:"method"`
	URL               string        `json:"url"`
	QueryString       []keyValue    `json:"queryString"`
	Headers           []keyValue    `json:"headers"`
	Cookies           []keyValue    `json:"cookies"`
	Form              []keyValue    `json:"form"`
	MultipartFormData multipartData `json:"multipartFormData"`
	Body              *string       `json:"body"`
}

type responseSpec struct {
	Version  string     `json:"version"`
	Status   int        `json:"status"`
	Headers  []keyValue `json:"headers"`
	Duration int64      `json:"duration"` // ms
}

type entryResult struct {
	RequestSpec *requestSpec  `json:"requestSpec"`
	Response    *responseSpec `json:"response"`
}

type runResult struct {
	ID       string        `json:"id"`
	Entries  []entryResult `json:"entries"`
	Success  bool          `json:"success"`
	Duration int64         `json:"duration"` // ms
}

// JSON writes rr as indented JSON to w.
func JSON(w io.Writer, rr *runner.RunResult) error {
	out := runResult{
		ID:       rr.ID.String(),
		Entries:  []entryResult{},
		Success:  rr.Succeeded(),
		Duration: rr.Duration.Milliseconds(),
	}
	for _, e := range rr.Entries {
		er := entryResult{}
		if e.Request != nil {
			er.RequestSpec = newRequestSpec(e.Request)
		}
		if resp := e.Response(); resp != nil {
			er.Response = newResponseSpec(resp)
		}
		out.Entries = append(out.Entries, er)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func keyValues(params []client.Param) []keyValue {
	list := make([]keyValue, 0, len(params))
	for _, p := range params {
		list = append(list, keyValue{Name: p.Name, Value: p.Value})
	}
	return list
}

func newRequestSpec(req *client.Request) *requestSpec {
	rs := &requestSpec{
		Method:      req.Method,
		URL:         req.URL,
		QueryString: keyValues(req.QueryParams),
		Headers:     keyValues(req.Headers),
		Cookies:     keyValues(req.Cookies),
		Form:        keyValues(req.FormParams),
		MultipartFormData: multipartData{
			TextDatas: []keyValue{},
			FileDatas: []fileData{},
		},
	}
	for _, fd := range req.Multipart {
		if fd.File {
			rs.MultipartFormData.FileDatas = append(rs.MultipartFormData.FileDatas,
				fileData{Name: fd.Name, Filename: fd.Filename, ContentType: fd.ContentType})
		} else {
			rs.MultipartFormData.TextDatas = append(rs.MultipartFormData.TextDatas,
				keyValue{Name: fd.Name, Value: fd.Value})
		}
	}
	if req.Body != nil {
		body := "<invalid text body>"
		if utf8.Valid(req.Body.Data) {
			body = string(req.Body.Data)
		}
		rs.Body = &body
	}
	return rs
}

func newResponseSpec(resp *response.Response) *responseSpec {
	rs := &responseSpec{
		Version:  resp.Version,
		Status:   resp.Code,
		Headers:  []keyValue{},
		Duration: resp.Duration.Milliseconds(),
	}
	for _, h := range resp.Headers {
		rs.Headers = append(rs.Headers, keyValue{Name: h.Name, Value: h.Value})
	}
	return rs
}
