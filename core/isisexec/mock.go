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

package isisexec

import "fmt"

// MockRunner - queue up outputs/errors, then assert on Invocations after.
// Each call to Run pops one queued response.
type MockRunner struct {
	// What to hand back, one per expected call, in order
	QueuedOutputs []string
	QueuedErrs    []error

	// Everything that was dispatched
	Invocations []Invocation
}

func (r *MockRunner) Run(tool string, params []Param) (string, error) {
	r.Invocations = append(r.Invocations, Invocation{Tool: tool, Params: params})

	if len(r.QueuedOutputs) <= 0 {
		return "", fmt.Errorf("MockRunner: no queued output for %v call %v", tool, len(r.Invocations))
	}

	out := r.QueuedOutputs[0]
	r.QueuedOutputs = r.QueuedOutputs[1:]

	var err error
	if len(r.QueuedErrs) > 0 {
		err = r.QueuedErrs[0]
		r.QueuedErrs = r.QueuedErrs[1:]
	}

	if err != nil {
		return "", err
	}
	return out, nil
}

// CallCount - how many times Run was dispatched
func (r *MockRunner) CallCount() int {
	return len(r.Invocations)
}

// ParamValue - digs a parameter out of a recorded invocation, "" if absent
func (i Invocation) ParamValue(key string) string {
	for _, p := range i.Params {
		if p.Key == key {
			return p.Value
		}
	}
	return ""
}

var _ Runner = &MockRunner{}
