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

// Runs ISIS command line tools (campt, mappt...) and hands back their text
// output. ISIS tools take key=value parameters and print PVL to stdout, so
// this stays a thin wrapper around exec - all interpretation of the output
// happens in the campt package.
package isisexec

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pixlise/cubegeom/core/logger"
	"github.com/pixlise/cubegeom/core/timestamper"
)

// Param - one key=value command line parameter in ISIS convention
type Param struct {
	Key   string
	Value string
}

// Invocation - a recorded tool run, mainly so tests can assert on what was dispatched
type Invocation struct {
	Tool   string
	Params []Param
}

// Runner - the one interface the coordinate adapter codes against. Mocked
// out in unit tests so no ISIS install is needed there.
type Runner interface {
	Run(tool string, params []Param) (string, error)
}

// ToolError - the tool ran (or failed to start) and did not succeed. Output
// carries whatever diagnostics the tool printed.
type ToolError struct {
	Tool   string
	Output string
	Err    error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%v failed: %v\n%v", e.Tool, e.Err, e.Output)
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

var toolRuns = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "cubegeom_isis_tool_runs_total",
	Help: "Number of ISIS tool invocations.",
}, []string{"tool", "status"})

var toolRunDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "cubegeom_isis_tool_run_seconds",
	Help:    "Duration of ISIS tool invocations.",
	Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
}, []string{"tool"})

// ExecRunner - the real thing. BinPath (if set) is the directory holding the
// ISIS binaries, otherwise they're expected on PATH.
type ExecRunner struct {
	BinPath     string
	Log         logger.ILogger
	TimeStamper timestamper.ITimeStamper
}

func (r *ExecRunner) Run(tool string, params []Param) (string, error) {
	args := make([]string, 0, len(params))
	for _, p := range params {
		args = append(args, p.Key+"="+p.Value)
	}

	cmdPath := tool
	if len(r.BinPath) > 0 {
		cmdPath = filepath.Join(r.BinPath, tool)
	}

	r.Log.Debugf("exec.Command starting \"%v\", args: [%v]", cmdPath, strings.Join(args, ","))

	startUnixSec := r.TimeStamper.GetTimeNowSec()
	timer := prometheus.NewTimer(toolRunDuration.WithLabelValues(tool))

	cmd := exec.Command(cmdPath, args...)
	out, err := cmd.CombinedOutput()

	timer.ObserveDuration()
	runTimeUnixSec := r.TimeStamper.GetTimeNowSec() - startUnixSec

	if err != nil {
		toolRuns.WithLabelValues(tool, "error").Inc()
		r.Log.Errorf("%v run failed after %v sec: %v", tool, runTimeUnixSec, err)
		r.Log.Infof(string(out))
		return "", &ToolError{Tool: tool, Output: string(out), Err: err}
	}

	toolRuns.WithLabelValues(tool, "ok").Inc()
	r.Log.Debugf("%v runtime was %v sec", tool, runTimeUnixSec)
	return string(out), nil
}

// Compile time check that we don't drift from the interface
var _ Runner = &ExecRunner{}
