// Copyright 2020 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import "sort"

// Jar stores the variables of one run. A Jar must not be shared between
// concurrent runs.
type Jar struct {
	vars map[string]Value
}

// NewJar returns a jar seeded with the given string variables.
func NewJar(vars map[string]string) *Jar {
	j := &Jar{vars: make(map[string]Value, len(vars))}
	for name, s := range vars {
		j.vars[name] = OfString(s)
	}
	return j
}

// Get looks up the variable name.
func (j *Jar) Get(name string) (Value, bool) {
	if j == nil {
		return Value{}, false
	}
	v, ok := j.vars[name]
	return v, ok
}

// Set stores v under name, replacing any previous value.
func (j *Jar) Set(name string, v Value) {
	if j.vars == nil {
		j.vars = make(map[string]Value)
	}
	j.vars[name] = v
}

// Names returns the sorted variable names.
func (j *Jar) Names() []string {
	names := make([]string, 0, len(j.vars))
	for n := range j.vars {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Len is the number of variables.
func (j *Jar) Len() int { return len(j.vars) }
