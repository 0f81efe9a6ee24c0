// Copyright 2020 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ast declares the types used to represent the syntax tree of a
// hurl file.
//
// Every node records the positions where it begins and ends. Leaf nodes
// keep the exact source text they were parsed from so that concatenating
// the leaves in document order reproduces the input (see Source).
package ast

import "fmt"

// Position is a location in the source measured in Unicode code points.
// Offset starts at 0, Line and Column start at 1.
type Position struct {
	Offset int
	Line   int
	Column int
}

// StartPosition is the position of the first code point of a source.
var StartPosition = Position{Offset: 0, Line: 1, Column: 1}

func (p Position) String() string {
	return fmt.Sprintf("[%d:%d]", p.Line, p.Column)
}

// Node is implemented by all nodes of the syntax tree.
type Node interface {
	Begin() Position
	End() Position
}

// Span is embedded in every node and implements Node.
type Span struct {
	From, To Position
}

// Begin returns the position of the first code point of the node.
func (s Span) Begin() Position { return s.From }

// End returns the position immediately after the node.
func (s Span) End() Position { return s.To }

// ----------------------------------------------------------------------------
// Leaves

// Space is a single space or tab.
type Space struct {
	Span
	Value string
}

// Comment runs from '#' up to the end of the line; Value includes the '#'.
type Comment struct {
	Span
	Value string
}

// Newline is either "\n" or "\r\n".
type Newline struct {
	Span
	Value string
}

// Literal is a fixed token like ":" or "file,".
type Literal struct {
	Span
	Value string
}

// String is a string as written in the source (Text) and its value after
// escape processing (Value).
type String struct {
	Span
	Value string
	Text  string
}

func (s *String) String() string { return s.Value }

// Base64String is the encoded payload of a base64 body.
type Base64String struct {
	Span
	Value []byte
	Text  string
}

// Method is the HTTP method of a request.
type Method struct {
	Span
	Value string
}

// URL of a request, possibly containing templates.
type URL struct {
	Span
	Value string
}

// Version is one of HTTP/1.0, HTTP/1.1, HTTP/2 or HTTP/*.
type Version struct {
	Span
	Value string
}

// IsAny reports whether v matches any HTTP version.
func (v *Version) IsAny() bool { return v.Value == "HTTP/*" }

// StatusValue is the expected status code of a response. Any is true
// for the wildcard '*'.
type StatusValue struct {
	Any  bool
	Code int
}

// Status is the expected status of a response.
type Status struct {
	Span
	Value StatusValue
	Text  string
}

// CookieValue is the value of a request cookie.
type CookieValue struct {
	Span
	Value string
}

// SectionHeader is a section name in brackets like "[Asserts]".
type SectionHeader struct {
	Span
	Value string
}

// Bool is a boolean literal.
type Bool struct {
	Span
	Value bool
	Text  string
}

// Number is an integer or float literal.
type Number struct {
	Span
	Value float64
	Text  string
}

// IsInteger reports whether the number was written without a fraction.
func (n *Number) IsInteger() bool {
	for _, c := range n.Text {
		if c == '.' {
			return false
		}
	}
	return true
}

// Null is the literal null.
type Null struct {
	Span
}

// VariableName is the name inside a {{...}} expression.
type VariableName struct {
	Span
	Value string
}

// QueryType is the keyword of a query, e.g. "jsonpath".
type QueryType struct {
	Span
	Value string
}

// PredicateType is the keyword of a predicate as written, e.g. "==".
type PredicateType struct {
	Span
	Value string
}

// SubqueryType is the keyword of a subquery.
type SubqueryType struct {
	Span
	Value string
}

// ----------------------------------------------------------------------------
// Structure

// HurlFile is the root of the syntax tree.
type HurlFile struct {
	Span
	Entries []*Entry
	Lts     []*LineTerminator
}

// Entry is a request and its optional expected response.
type Entry struct {
	Span
	Request  *Request
	Response *Response // nil if nothing is checked
}

// LineTerminator ends a line: optional spaces and comment followed by a
// newline. Newline is nil only at the end of the input.
type LineTerminator struct {
	Span
	Spaces  []*Space
	Comment *Comment
	Newline *Newline
}

// KeyValue is the "key: value" part of headers and params.
type KeyValue struct {
	Span
	Key     *String
	Spaces0 []*Space
	Colon   *Literal
	Spaces1 []*Space
	Value   *String
}

// Header is a request or response header line.
type Header struct {
	Span
	Lts      []*LineTerminator
	Spaces   []*Space
	KeyValue *KeyValue
	Lt       *LineTerminator
}

// Name of the header.
func (h *Header) Name() string { return h.KeyValue.Key.Value }

// Value of the header, possibly a template.
func (h *Header) Value() string { return h.KeyValue.Value.Value }

// Param is a query string, form or multipart parameter.
type Param struct {
	Span
	Lts      []*LineTerminator
	Spaces   []*Space
	KeyValue *KeyValue
	Lt       *LineTerminator
}

// Name of the parameter.
func (p *Param) Name() string { return p.KeyValue.Key.Value }

// Value of the parameter, possibly a template.
func (p *Param) Value() string { return p.KeyValue.Value.Value }

// Cookie is a line in a [Cookies] section.
type Cookie struct {
	Span
	Lts     []*LineTerminator
	Spaces0 []*Space
	Name    *String
	Spaces1 []*Space
	Colon   *Literal
	Spaces2 []*Space
	Value   *CookieValue
	Lt      *LineTerminator
}

// FileValue is "file,name; [content-type]".
type FileValue struct {
	Span
	Prefix      *Literal
	Spaces0     []*Space
	Filename    *String
	Spaces1     []*Space
	Suffix      *Literal
	Spaces2     []*Space
	ContentType *String // nil if not given
}

// FileParam is a file upload in a [MultipartFormData] section.
type FileParam struct {
	Span
	Lts     []*LineTerminator
	Spaces0 []*Space
	Key     *String
	Spaces1 []*Space
	Colon   *Literal
	Spaces2 []*Space
	File    *FileValue
	Lt      *LineTerminator
}

// SectionBase holds the parts common to all sections.
type SectionBase struct {
	Span
	Lts    []*LineTerminator
	Spaces []*Space
	Header *SectionHeader
	Lt     *LineTerminator
}

// RequestSection is one of QueryStringParamsSection, FormParamsSection,
// CookiesSection or MultipartFormDataSection.
type RequestSection interface {
	Node
	requestSection()
}

// QueryStringParamsSection is a [QueryStringParams] section.
type QueryStringParamsSection struct {
	SectionBase
	Params []*Param
}

// FormParamsSection is a [FormParams] section.
type FormParamsSection struct {
	SectionBase
	Params []*Param
}

// CookiesSection is a [Cookies] section.
type CookiesSection struct {
	SectionBase
	Cookies []*Cookie
}

// MultipartFormDataSection is a [MultipartFormData] section. Params and
// FileParams may be interleaved in the source.
type MultipartFormDataSection struct {
	SectionBase
	Params     []*Param
	FileParams []*FileParam
}

func (*QueryStringParamsSection) requestSection() {}
func (*FormParamsSection) requestSection()        {}
func (*CookiesSection) requestSection()           {}
func (*MultipartFormDataSection) requestSection() {}

// ResponseSection is either a CapturesSection or an AssertsSection.
type ResponseSection interface {
	Node
	responseSection()
}

// CapturesSection is a [Captures] section.
type CapturesSection struct {
	SectionBase
	Captures []*Capture
}

// AssertsSection is an [Asserts] section.
type AssertsSection struct {
	SectionBase
	Asserts []*Assert
}

func (*CapturesSection) responseSection() {}
func (*AssertsSection) responseSection()  {}

// Request is the request part of an entry.
type Request struct {
	Span
	Lts      []*LineTerminator
	Spaces0  []*Space
	Method   *Method
	Spaces1  []*Space
	URL      *URL
	Lt       *LineTerminator
	Headers  []*Header
	Sections []RequestSection
	Body     *Body
}

// QueryStringParams returns the first [QueryStringParams] section or nil.
func (r *Request) QueryStringParams() *QueryStringParamsSection {
	for _, s := range r.Sections {
		if q, ok := s.(*QueryStringParamsSection); ok {
			return q
		}
	}
	return nil
}

// FormParams returns the first [FormParams] section or nil.
func (r *Request) FormParams() *FormParamsSection {
	for _, s := range r.Sections {
		if f, ok := s.(*FormParamsSection); ok {
			return f
		}
	}
	return nil
}

// Cookies returns the first [Cookies] section or nil.
func (r *Request) Cookies() *CookiesSection {
	for _, s := range r.Sections {
		if c, ok := s.(*CookiesSection); ok {
			return c
		}
	}
	return nil
}

// MultipartFormData returns the first [MultipartFormData] section or nil.
func (r *Request) MultipartFormData() *MultipartFormDataSection {
	for _, s := range r.Sections {
		if m, ok := s.(*MultipartFormDataSection); ok {
			return m
		}
	}
	return nil
}

// Response is the expected response of an entry.
type Response struct {
	Span
	Lts      []*LineTerminator
	Spaces0  []*Space
	Version  *Version
	Spaces1  []*Space
	Status   *Status
	Lt       *LineTerminator
	Headers  []*Header
	Sections []ResponseSection
	Body     *Body
}

// Captures returns the first [Captures] section or nil.
func (r *Response) Captures() *CapturesSection {
	for _, s := range r.Sections {
		if c, ok := s.(*CapturesSection); ok {
			return c
		}
	}
	return nil
}

// Asserts returns the first [Asserts] section or nil.
func (r *Response) Asserts() *AssertsSection {
	for _, s := range r.Sections {
		if a, ok := s.(*AssertsSection); ok {
			return a
		}
	}
	return nil
}

// Body of a request or response.
type Body struct {
	Span
	Lts    []*LineTerminator
	Spaces []*Space
	Bytes  Bytes
	Lt     *LineTerminator
}

// Bytes is one of JSON, XML, RawString, Base64 or File.
type Bytes interface {
	Node
	bytes()
}

// JSON is a JSON body; Text is exactly the JSON value.
type JSON struct {
	Span
	Text string
}

// XML is an XML body; Text is exactly the XML document.
type XML struct {
	Span
	Text string
}

// RawString is a body enclosed in ```. Text is the full source including
// the markers, Value the content without an optional leading newline.
type RawString struct {
	Span
	Value string
	Text  string
}

// Base64 is "base64,<data>;".
type Base64 struct {
	Span
	Prefix  *Literal
	Spaces0 []*Space
	Value   *Base64String
	Spaces1 []*Space
	Suffix  *Literal
}

// File is "file,<name>;".
type File struct {
	Span
	Prefix   *Literal
	Spaces0  []*Space
	Filename *String
	Spaces1  []*Space
	Suffix   *Literal
}

func (*JSON) bytes()      {}
func (*XML) bytes()       {}
func (*RawString) bytes() {}
func (*Base64) bytes()    {}
func (*File) bytes()      {}

// Expr is a variable reference "{{name}}".
type Expr struct {
	Span
	Prefix *Literal
	Name   *VariableName
	Suffix *Literal
	Text   string
}

// ----------------------------------------------------------------------------
// Captures and asserts

// Capture stores the result of a query in a variable.
type Capture struct {
	Span
	Lts      []*LineTerminator
	Spaces0  []*Space
	Name     *String
	Spaces1  []*Space
	Colon    *Literal
	Spaces2  []*Space
	Query    Query
	Spaces3  []*Space
	Subquery Subquery // nil if absent
	Lt       *LineTerminator
}

// Assert checks a query against a predicate.
type Assert struct {
	Span
	Lts       []*LineTerminator
	Spaces0   []*Space
	Query     Query
	Spaces1   []*Space
	Predicate *Predicate
	Lt        *LineTerminator
}
