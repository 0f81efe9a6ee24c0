// Copyright 2020 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"math"
	"testing"
)

func TestFormatDouble(t *testing.T) {
	for i, tc := range []struct {
		f    float64
		want string
	}{
		{0, "0.0"},
		{math.Copysign(0, -1), "-0.0"},
		{12, "12.0"},
		{13.5, "13.5"},
		{-2.25, "-2.25"},
		{0.001, "0.001"},
		{0.0001, "1.0E-4"},
		{1234567, "1234567.0"},
		{1e7, "1.0E7"},
		{1.5e21, "1.5E21"},
		{2592000, "2592000.0"},
		{math.NaN(), "NaN"},
		{math.Inf(-1), "-Infinity"},
	} {
		if got := FormatDouble(tc.f); got != tc.want {
			t.Errorf("%d. FormatDouble(%g): got %q, want %q", i, tc.f, got, tc.want)
		}
	}
}

func TestText(t *testing.T) {
	for i, tc := range []struct {
		v    Value
		want string
	}{
		{Value{}, ""},
		{OfBool(true), "boolean <true>"},
		{OfInt(200), "number <200>"},
		{OfFloat(2), "number <2.0>"},
		{OfFloat(0.5), "number <0.5>"},
		{OfString("running"), "string <running>"},
		{OfString(""), "string <>"},
		{OfList([]interface{}{int64(1), "a", nil}), "list(size=3)"},
		{OfNodeSet(0), "nodeset(size=0)"},
		{OfObject(nil), "object <null>"},
		{OfObject(map[string]interface{}{"b": int64(2), "a": true}), `object <{"a":true,"b":2}>`},
	} {
		if got := tc.v.Text(); got != tc.want {
			t.Errorf("%d. Got %q, want %q", i, got, tc.want)
		}
	}
}

func TestFromGo(t *testing.T) {
	for i, tc := range []struct {
		in   interface{}
		kind Kind
		text string
	}{
		{true, Boolean, "boolean <true>"},
		{3, Number, "number <3>"},
		{int64(-7), Number, "number <-7>"},
		{1.25, Number, "number <1.25>"},
		{"x", String, "string <x>"},
		{[]interface{}{1.0, 2.0}, List, "list(size=2)"},
		{nil, Object, "object <null>"},
		{map[string]interface{}{}, Object, "object <{}>"},
	} {
		v := FromGo(tc.in)
		if v.Kind != tc.kind || v.Text() != tc.text {
			t.Errorf("%d. FromGo(%v): got %s %q, want %s %q", i, tc.in, v.Kind, v.Text(), tc.kind, tc.text)
		}
	}
}

func TestEqual(t *testing.T) {
	if !OfInt(2).Equal(OfFloat(2)) {
		t.Errorf("2 != 2.0")
	}
	if OfString("2").Equal(OfInt(2)) {
		t.Errorf("string 2 == number 2")
	}
	if !(Value{}).Equal(Value{}) {
		t.Errorf("none != none")
	}
	if !OfList([]interface{}{"a", int64(1)}).Equal(OfList([]interface{}{"a", int64(1)})) {
		t.Errorf("lists differ")
	}
}

func TestJar(t *testing.T) {
	jar := NewJar(map[string]string{"host": "localhost", "port": "8080"})
	if v, ok := jar.Get("host"); !ok || v.Kind != String || v.Str != "localhost" {
		t.Errorf("Got %v %t", v, ok)
	}
	if _, ok := jar.Get("missing"); ok {
		t.Errorf("Found missing variable")
	}
	jar.Set("port", OfInt(9090))
	jar.Set("token", OfString("42"))
	if v, _ := jar.Get("port"); v.Text() != "number <9090>" {
		t.Errorf("Got %s", v.Text())
	}
	names := jar.Names()
	if len(names) != 3 || names[0] != "host" || names[2] != "token" {
		t.Errorf("Got %v", names)
	}

	var empty Jar
	empty.Set("a", OfBool(false))
	if empty.Len() != 1 {
		t.Errorf("Got %d", empty.Len())
	}
}
