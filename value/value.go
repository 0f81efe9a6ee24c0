// Copyright 2020 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package value provides the typed results of queries and the variable
// jar which stores captured values during a run.
package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/oj"
)

// Kind of a Value.
type Kind int

// The kinds of values. The zero Value is of kind None.
const (
	None Kind = iota
	Boolean
	Number
	String
	List
	NodeSet
	Object
)

var kindNames = []string{"none", "boolean", "number", "string", "list", "nodeset", "object"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Value is the result of evaluating a query. Only the fields belonging
// to Kind are meaningful.
type Value struct {
	Kind Kind

	Bool bool
	Num  float64
	// Int reports whether Num was produced from an integer and should
	// be printed without a fractional part.
	Int bool
	Str string

	// Items of a List. Elements are plain decoded values: nil, bool,
	// int64, float64, string, []interface{} or map[string]interface{}.
	Items []interface{}

	// Size of a NodeSet.
	Size int

	// Obj of an Object, may be nil for a JSON null.
	Obj interface{}
}

// OfBool returns a Boolean value.
func OfBool(b bool) Value { return Value{Kind: Boolean, Bool: b} }

// OfInt returns an integral Number value.
func OfInt(n int64) Value { return Value{Kind: Number, Num: float64(n), Int: true} }

// OfFloat returns a floating point Number value.
func OfFloat(f float64) Value { return Value{Kind: Number, Num: f} }

// OfString returns a String value.
func OfString(s string) Value { return Value{Kind: String, Str: s} }

// OfList returns a List value of the given items.
func OfList(items []interface{}) Value { return Value{Kind: List, Items: items} }

// OfNodeSet returns a NodeSet value of size n.
func OfNodeSet(n int) Value { return Value{Kind: NodeSet, Size: n} }

// OfObject returns an Object value.
func OfObject(v interface{}) Value { return Value{Kind: Object, Obj: v} }

// FromGo converts a decoded JSON or YAML value to a Value: booleans,
// numbers and strings keep their type, slices become lists and
// everything else (including nil) becomes an Object.
func FromGo(v interface{}) Value {
	switch v := v.(type) {
	case bool:
		return OfBool(v)
	case int:
		return OfInt(int64(v))
	case int64:
		return OfInt(v)
	case uint64:
		return OfInt(int64(v))
	case float32:
		return OfFloat(float64(v))
	case float64:
		return OfFloat(v)
	case string:
		return OfString(v)
	case []interface{}:
		return OfList(v)
	}
	return OfObject(v)
}

// IsNone reports whether v is the absent value.
func (v Value) IsNone() bool { return v.Kind == None }

// Number formats the numeric payload of v: integers without decimals,
// other values via FormatDouble.
func (v Value) Number() string {
	if v.Int && v.Num >= math.MinInt64 && v.Num <= math.MaxInt64 {
		return strconv.FormatInt(int64(v.Num), 10)
	}
	return FormatDouble(v.Num)
}

// Text is the human readable description of v used in assert
// messages like "string <running>" or "list(size=3)". None is "".
func (v Value) Text() string {
	switch v.Kind {
	case Boolean:
		return fmt.Sprintf("boolean <%t>", v.Bool)
	case Number:
		return "number <" + v.Number() + ">"
	case String:
		return "string <" + v.Str + ">"
	case List:
		return fmt.Sprintf("list(size=%d)", len(v.Items))
	case NodeSet:
		return fmt.Sprintf("nodeset(size=%d)", v.Size)
	case Object:
		return "object <" + ObjectText(v.Obj) + ">"
	}
	return ""
}

func (v Value) String() string { return v.Text() }

// ObjectText renders a decoded value compactly as JSON with sorted
// object keys.
func ObjectText(o interface{}) string {
	if o == nil {
		return "null"
	}
	return oj.JSON(o, &ojg.Options{Sort: true})
}

// Equal reports whether v and w hold the same value. Numbers are
// compared numerically regardless of Int.
func (v Value) Equal(w Value) bool {
	if v.Kind != w.Kind {
		return false
	}
	switch v.Kind {
	case None:
		return true
	case Boolean:
		return v.Bool == w.Bool
	case Number:
		return v.Num == w.Num
	case String:
		return v.Str == w.Str
	case List:
		return ObjectText(v.Items) == ObjectText(w.Items)
	case NodeSet:
		return v.Size == w.Size
	case Object:
		return ObjectText(v.Obj) == ObjectText(w.Obj)
	}
	return false
}

// FormatDouble formats f like a double is printed in most JVM based
// tools: at least one fractional digit ("12.0") and scientific notation
// ("1.0E7") outside of [1e-3, 1e7).
func FormatDouble(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}

	a := math.Abs(f)
	if a >= 1e-3 && a < 1e7 {
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}

	s := strconv.FormatFloat(f, 'E', -1, 64)
	i := strings.IndexByte(s, 'E')
	mant, exp := s[:i], s[i+1:]
	if !strings.Contains(mant, ".") {
		mant += ".0"
	}
	e, _ := strconv.Atoi(exp)
	return mant + "E" + strconv.Itoa(e)
}
