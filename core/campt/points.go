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

package campt

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"

	"github.com/pixlise/cubegeom/core/pvl"
)

// PointType - what the (x, y) of a point means
type PointType int

const (
	// PointTypeImage - (x, y) is (sample, line)
	PointTypeImage PointType = iota

	// PointTypeGround - (x, y) is (longitude, latitude)
	PointTypeGround PointType = iota
)

func (t PointType) String() string {
	if t == PointTypeGround {
		return "ground"
	}
	return "image"
}

// ParsePointType - case-insensitive, anything but image/ground is invalid
func ParsePointType(text string) (PointType, error) {
	switch strings.ToLower(text) {
	case "image":
		return PointTypeImage, nil
	case "ground":
		return PointTypeGround, nil
	}
	return PointTypeImage, &InvalidArgumentError{
		Reason: fmt.Sprintf("%v is not a valid point type, valid types are [\"image\", \"ground\"]", text),
	}
}

// PointResult - one point's worth of tool output, field name to value.
// Field lookups are case-insensitive because ISIS isn't consistent.
type PointResult map[string]pvl.Value

func flattenGroup(group *pvl.Object) PointResult {
	result := PointResult{}
	for _, e := range group.Entries {
		result[e.Key] = e.Value
	}
	return result
}

func (r PointResult) field(name string) (pvl.Value, bool) {
	if v, ok := r[name]; ok {
		return v, true
	}
	for k, v := range r {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return pvl.Value{}, false
}

// FieldFloat - numeric field value, whether it was written plain or with a
// unit (eg "9.92 <DEGREE>")
func (r PointResult) FieldFloat(name string) (float64, error) {
	v, ok := r.field(name)
	if !ok {
		return 0, fmt.Errorf("field %v not present", name)
	}
	return v.Float()
}

// addToField - shifts a numeric field in place, leaves anything else alone
func (r PointResult) addToField(name string, delta float64) {
	for k, v := range r {
		if strings.EqualFold(k, name) && v.Kind == pvl.KindNumber {
			r[k] = pvl.Number(v.Num + delta)
			return
		}
	}
}

// ToJSONMap - result in a form that serialises cleanly. Numbers with a unit
// become {"value": n, "unit": u}, plain numbers stay numbers, NULL becomes
// JSON null.
func (r PointResult) ToJSONMap() map[string]interface{} {
	result := map[string]interface{}{}
	for k, v := range r {
		switch v.Kind {
		case pvl.KindNull:
			result[k] = nil
		case pvl.KindNumber:
			if len(v.Unit) > 0 {
				result[k] = map[string]interface{}{"value": v.Num, "unit": v.Unit}
			} else {
				result[k] = v.Num
			}
		default:
			result[k] = v.String()
		}
	}
	return result
}

// describe - stable text form of a result, used when reporting it back in errors
func (r PointResult) describe() string {
	keys := maps.Keys(r)
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%v=%v", k, r[k].String()))
	}
	return strings.Join(parts, ", ")
}

func formatCoord(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func formatBool(value bool) string {
	if value {
		return "true"
	}
	return "false"
}
