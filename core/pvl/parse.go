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

package pvl

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Cube labels sit at the start of the file, before the pixel data. We only
// ever need the label so cap how much we read, cubes can be huge.
const maxLabelReadBytes = 1024 * 1024

// Parse - reads PVL text into a tree of Objects. Parsing stops at the
// top-level "End" keyword, anything following it is ignored (cube files
// have binary pixel data there).
func Parse(text string) (*Object, error) {
	root := &Object{Name: "Root"}
	stack := []*Object{root}

	lines := strings.Split(text, "\n")
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(strings.TrimSuffix(lines[i], "\r"))

		if len(line) <= 0 || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "/*") {
			continue
		}

		if strings.EqualFold(line, "End") {
			break
		}

		if strings.EqualFold(line, "End_Group") || strings.EqualFold(line, "End_Object") {
			if len(stack) <= 1 {
				return nil, fmt.Errorf("line %v: %v with no open group", i+1, line)
			}
			stack = stack[:len(stack)-1]
			continue
		}

		eqIdx := strings.Index(line, "=")
		if eqIdx < 0 {
			// Continuation of the previous value (long strings and tuples wrap)
			top := stack[len(stack)-1]
			if len(top.Entries) <= 0 {
				return nil, fmt.Errorf("line %v: unexpected text: %v", i+1, line)
			}
			last := &top.Entries[len(top.Entries)-1]
			last.Value = parseValue(last.Value.Raw + " " + line)
			continue
		}

		key := strings.TrimSpace(line[:eqIdx])
		valueText := strings.TrimSpace(line[eqIdx+1:])

		if strings.EqualFold(key, "Group") || strings.EqualFold(key, "Object") {
			child := &Object{Name: valueText}
			top := stack[len(stack)-1]
			top.Groups = append(top.Groups, child)
			stack = append(stack, child)
			continue
		}

		// Quoted values can span lines, keep consuming until the quote closes
		for isOpenQuote(valueText) && i+1 < len(lines) {
			i++
			valueText += " " + strings.TrimSpace(strings.TrimSuffix(lines[i], "\r"))
		}

		top := stack[len(stack)-1]
		top.Entries = append(top.Entries, Entry{Key: key, Value: parseValue(valueText)})
	}

	if len(stack) > 1 {
		return nil, fmt.Errorf("unterminated group: %v", stack[len(stack)-1].Name)
	}

	return root, nil
}

// LoadLabel - reads the PVL label from the start of a file (eg an ISIS cube)
func LoadLabel(path string) (*Object, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, maxLabelReadBytes)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}

	return Parse(string(buf[:n]))
}

func isOpenQuote(text string) bool {
	if !strings.HasPrefix(text, "\"") {
		return false
	}
	return len(text) < 2 || !strings.HasSuffix(text, "\"")
}

func parseValue(text string) Value {
	text = strings.TrimSpace(text)

	v := Value{Raw: text, Kind: KindString}

	if strings.EqualFold(text, "NULL") || strings.EqualFold(text, "N/A") {
		v.Kind = KindNull
		return v
	}

	// Split off a trailing unit, eg "255.64554860814 <DEGREE>"
	valueText := text
	if strings.HasSuffix(valueText, ">") {
		if unitIdx := strings.LastIndex(valueText, "<"); unitIdx >= 0 {
			v.Unit = strings.TrimSpace(valueText[unitIdx+1 : len(valueText)-1])
			valueText = strings.TrimSpace(valueText[:unitIdx])
		}
	}

	if strings.HasPrefix(valueText, "\"") && strings.HasSuffix(valueText, "\"") && len(valueText) >= 2 {
		v.Raw = valueText[1 : len(valueText)-1]
		return v
	}

	if num, err := strconv.ParseFloat(valueText, 64); err == nil {
		v.Num = num
		v.Kind = KindNumber
		v.Raw = valueText
		return v
	}

	return v
}
