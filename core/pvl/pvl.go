// Licensed to NASA JPL under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. NASA JPL licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

// Minimal reader for the Parameter Value Language (PVL) dialect ISIS uses
// for cube labels and tool output. We only need enough of PVL to pull
// groups and keyword values back out, not a full round-trip implementation.
package pvl

import (
	"fmt"
	"strconv"
	"strings"
)

type ValueKind int

const (
	// KindNull - keyword present but value is NULL/N/A
	KindNull ValueKind = iota

	// KindNumber - parsed as a float, Unit may be set (eg "10.5 <DEGREE>")
	KindNumber ValueKind = iota

	// KindString - anything else, quoted strings have quotes stripped
	KindString ValueKind = iota
)

// Value - one keyword value. Numbers keep their unit (if any) alongside the
// parsed float, so callers don't have to care whether a field was written
// plain or with units.
type Value struct {
	Raw  string
	Num  float64
	Unit string
	Kind ValueKind
}

// Number - makes a plain numeric value
func Number(num float64) Value {
	return Value{
		Raw:  strconv.FormatFloat(num, 'f', -1, 64),
		Num:  num,
		Kind: KindNumber,
	}
}

func (v Value) IsNull() bool {
	return v.Kind == KindNull
}

// Float - returns the numeric value whether it was written plain or with a
// unit. Errors for NULL and non-numeric values.
func (v Value) Float() (float64, error) {
	if v.Kind != KindNumber {
		return 0, fmt.Errorf("value \"%v\" is not a number", v.Raw)
	}
	return v.Num, nil
}

func (v Value) String() string {
	return v.Raw
}

// Entry - one "Keyword = Value" line within a group
type Entry struct {
	Key   string
	Value Value
}

// Object - a PVL Object or Group. Entries and child groups keep the order
// they appeared in, as campt batch output relies on it.
type Object struct {
	Name    string
	Entries []Entry
	Groups  []*Object
}

// Get - looks up a keyword in this object (not children). ISIS is not
// consistent with case so we match case-insensitively.
func (o *Object) Get(key string) (Value, bool) {
	for _, e := range o.Entries {
		if strings.EqualFold(e.Key, key) {
			return e.Value, true
		}
	}
	return Value{}, false
}

// Group - returns the first direct child with the given name, nil if none
func (o *Object) Group(name string) *Object {
	if o == nil {
		return nil
	}
	for _, g := range o.Groups {
		if strings.EqualFold(g.Name, name) {
			return g
		}
	}
	return nil
}

// HasGroup - nil-safe check for a direct child group
func (o *Object) HasGroup(name string) bool {
	return o.Group(name) != nil
}

// GroupsNamed - all direct children with the given name, in order. This is
// how repeated GroundPoint groups in a campt batch response are read back.
func (o *Object) GroupsNamed(name string) []*Object {
	result := []*Object{}
	if o == nil {
		return result
	}
	for _, g := range o.Groups {
		if strings.EqualFold(g.Name, name) {
			result = append(result, g)
		}
	}
	return result
}
