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

import "fmt"

// The conversion error taxonomy. Callers match these with errors.As, the
// API layer maps them onto HTTP statuses.

// InvalidArgumentError - bad point type tag, mismatched x/y lengths etc.
// Raised before any tool is invoked.
type InvalidArgumentError struct {
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return e.Reason
}

// ExternalToolError - the ISIS tool exited with a failure status. Err is
// the underlying isisexec.ToolError which carries the tool's output.
type ExternalToolError struct {
	Cube string
	Tool string
	Err  error
}

func (e *ExternalToolError) Error() string {
	return fmt.Sprintf("%v call failed, image: %v: %v", e.Tool, e.Cube, e.Err)
}

func (e *ExternalToolError) Unwrap() error {
	return e.Err
}

// PointComputationError - the tool ran but flagged a point as failed via
// its Error field. Result is the offending block.
type PointComputationError struct {
	Cube       string
	PointIndex int
	Message    string
	Result     PointResult
}

func (e *PointComputationError) Error() string {
	return fmt.Sprintf("ground point error for %v point %v: %v", e.Cube, e.PointIndex, e.Message)
}

// MalformedResponseError - tool output didn't parse, or fields we rely on
// are absent. Raw holds whatever came back, for diagnosis.
type MalformedResponseError struct {
	Cube   string
	Reason string
	Raw    string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response for %v: %v", e.Cube, e.Reason)
}
