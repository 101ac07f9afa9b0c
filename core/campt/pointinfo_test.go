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
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pixlise/cubegeom/core/cubecache"
	"github.com/pixlise/cubegeom/core/fileaccess"
	"github.com/pixlise/cubegeom/core/isisexec"
	"github.com/pixlise/cubegeom/core/logger"
)

const unprojectedLabel = `Object = IsisCube
  Object = Core
    Group = Dimensions
      Samples = 1024
      Lines   = 1024
    End_Group
  End_Object
  Group = Instrument
    SpacecraftName = MESSENGER
  End_Group
End_Object
End
`

const projectedLabel = `Object = IsisCube
  Object = Core
    Group = Dimensions
      Samples = 1024
      Lines   = 1024
    End_Group
  End_Object
  Group = Mapping
    ProjectionName = SimpleCylindrical
  End_Group
End_Object
End
`

const camptOnePointOutput = `Group = GroundPoint
  Filename                 = test.cub
  Sample                   = 10.5
  Line                     = 20.5
  PlanetocentricLatitude   = 9.9284240564986 <DEGREE>
  PositiveEast360Longitude = 255.64554860814 <DEGREE>
  Error                    = NULL
End_Group
End
`

const camptTwoPointOutput = `Group = GroundPoint
  Sample                   = 10.5
  Line                     = 20.5
  PlanetocentricLatitude   = 9.9284240564986 <DEGREE>
  PositiveEast360Longitude = 255.64554860814 <DEGREE>
  Error                    = NULL
End_Group
Group = GroundPoint
  Sample                   = 15.5
  Line                     = 25.5
  PlanetocentricLatitude   = 10.110786 <DEGREE>
  PositiveEast360Longitude = 255.744523 <DEGREE>
  Error                    = NULL
End_Group
End
`

const camptErrorPointOutput = `Group = GroundPoint
  Sample                   = 10.5
  Line                     = 20.5
  Error                    = NULL
End_Group
Group = GroundPoint
  Sample                   = 9999.5
  Line                     = 9999.5
  Error                    = "Requested position does not project in camera model"
End_Group
End
`

const mapptImageOutput = `Group = Results
  Filename  = projected.cub
  Sample    = 10.5
  Line      = 20.5
  Latitude  = 9.928424
  Longitude = 255.645548
End_Group
End
`

func makeTestCube(t *testing.T, label string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.cub")
	if err := os.WriteFile(path, []byte(label), 0777); err != nil {
		t.Fatalf("failed to write test cube: %v", err)
	}
	return path
}

func makeTestConverter(mock *isisexec.MockRunner) *Converter {
	log := &logger.NullLogger{}
	return MakeConverter(mock, cubecache.MakeCubeCache(&fileaccess.FSAccess{}, "", log), log)
}

// Wraps MockRunner so we can capture the coordinate list contents while the
// temp file still exists, and check the file is cleaned up after
type coordListSpy struct {
	mock      *isisexec.MockRunner
	listPaths []string
	listData  []string
}

func (s *coordListSpy) Run(tool string, params []isisexec.Param) (string, error) {
	for _, p := range params {
		if p.Key == "coordlist" {
			data, err := os.ReadFile(p.Value)
			if err != nil {
				data = []byte("UNREADABLE: " + err.Error())
			}
			s.listPaths = append(s.listPaths, p.Value)
			s.listData = append(s.listData, string(data))
		}
	}
	return s.mock.Run(tool, params)
}

func Test_PointInfo_UnprojectedSinglePoint(t *testing.T) {
	cube := makeTestCube(t, unprojectedLabel)
	mock := &isisexec.MockRunner{QueuedOutputs: []string{camptOnePointOutput}}
	spy := &coordListSpy{mock: mock}

	log := &logger.NullLogger{}
	c := MakeConverter(spy, cubecache.MakeCubeCache(&fileaccess.FSAccess{}, "", log), log)

	result, err := c.PointInfo(cube, 10, 20, PointTypeImage, false)
	if err != nil {
		t.Fatalf("PointInfo failed: %v", err)
	}

	if mock.CallCount() != 1 {
		t.Errorf("got %v tool calls; want 1", mock.CallCount())
	}

	inv := mock.Invocations[0]
	if inv.Tool != "campt" {
		t.Errorf("tool got %v; want campt", inv.Tool)
	}
	if inv.ParamValue("coordtype") != "image" {
		t.Errorf("coordtype got %v; want image", inv.ParamValue("coordtype"))
	}
	if inv.ParamValue("usecoordlist") != "true" {
		t.Errorf("usecoordlist got %v; want true", inv.ParamValue("usecoordlist"))
	}
	if inv.ParamValue("allowoutside") != "false" {
		t.Errorf("allowoutside got %v; want false", inv.ParamValue("allowoutside"))
	}
	if inv.ParamValue("from") != cube {
		t.Errorf("from got %v; want %v", inv.ParamValue("from"), cube)
	}

	// ISIS pixel convention: our (10, 20) becomes (10.5, 20.5) in the list
	if len(spy.listData) != 1 || spy.listData[0] != "10.5, 20.5\n" {
		t.Errorf("coordinate list got %q; want \"10.5, 20.5\\n\"", spy.listData)
	}

	// ...and the returned Sample/Line come back in our convention
	gotSample, err := result.FieldFloat("Sample")
	if err != nil || gotSample != 10 {
		t.Errorf("Sample got %v (err %v); want 10", gotSample, err)
	}
	gotLine, err := result.FieldFloat("Line")
	if err != nil || gotLine != 20 {
		t.Errorf("Line got %v (err %v); want 20", gotLine, err)
	}

	// Temp coordinate list must be gone, success or not
	if _, err := os.Stat(spy.listPaths[0]); !os.IsNotExist(err) {
		t.Errorf("coordinate list %v not cleaned up", spy.listPaths[0])
	}
}

func Test_PointInfoBatch_UnprojectedOrder(t *testing.T) {
	cube := makeTestCube(t, unprojectedLabel)
	mock := &isisexec.MockRunner{QueuedOutputs: []string{camptTwoPointOutput}}
	c := makeTestConverter(mock)

	results, err := c.PointInfoBatch(cube, []float64{10, 15}, []float64{20, 25}, PointTypeImage, false)
	if err != nil {
		t.Fatalf("PointInfoBatch failed: %v", err)
	}

	if mock.CallCount() != 1 {
		t.Errorf("got %v tool calls; want 1 for a batch", mock.CallCount())
	}
	if len(results) != 2 {
		t.Fatalf("got %v results; want 2", len(results))
	}

	wantSamples := []float64{10, 15}
	wantLines := []float64{20, 25}
	for i, r := range results {
		gotSample, _ := r.FieldFloat("Sample")
		gotLine, _ := r.FieldFloat("Line")
		if gotSample != wantSamples[i] || gotLine != wantLines[i] {
			t.Errorf("result %v got (%v, %v); want (%v, %v)", i, gotSample, gotLine, wantSamples[i], wantLines[i])
		}
	}
}

func Test_PointInfoBatch_GroundSwapsColumns(t *testing.T) {
	cube := makeTestCube(t, unprojectedLabel)
	mock := &isisexec.MockRunner{QueuedOutputs: []string{camptTwoPointOutput}}
	spy := &coordListSpy{mock: mock}

	log := &logger.NullLogger{}
	c := MakeConverter(spy, cubecache.MakeCubeCache(&fileaccess.FSAccess{}, "", log), log)

	// x is longitude, y is latitude; campt wants (lat, lon) columns and no
	// pixel shift for ground queries
	_, err := c.PointInfoBatch(cube, []float64{255.6, 255.7}, []float64{9.9, 10.1}, PointTypeGround, true)
	if err != nil {
		t.Fatalf("PointInfoBatch failed: %v", err)
	}

	want := "9.9, 255.6\n10.1, 255.7\n"
	if len(spy.listData) != 1 || spy.listData[0] != want {
		t.Errorf("coordinate list got %q; want %q", spy.listData, want)
	}

	inv := mock.Invocations[0]
	if inv.ParamValue("coordtype") != "ground" {
		t.Errorf("coordtype got %v; want ground", inv.ParamValue("coordtype"))
	}
	if inv.ParamValue("allowoutside") != "true" {
		t.Errorf("allowoutside got %v; want true", inv.ParamValue("allowoutside"))
	}
}

func Test_PointInfoBatch_MismatchedLengths(t *testing.T) {
	cube := makeTestCube(t, unprojectedLabel)
	mock := &isisexec.MockRunner{}
	c := makeTestConverter(mock)

	_, err := c.PointInfoBatch(cube, []float64{1, 2, 3}, []float64{1, 2}, PointTypeImage, false)

	var invalidArg *InvalidArgumentError
	if !errors.As(err, &invalidArg) {
		t.Errorf("got %v; want InvalidArgumentError", err)
	}
	if mock.CallCount() != 0 {
		t.Errorf("got %v tool calls; want 0 before validation", mock.CallCount())
	}
}

func Test_PointInfoBatch_NoPoints(t *testing.T) {
	cube := makeTestCube(t, unprojectedLabel)
	mock := &isisexec.MockRunner{}
	c := makeTestConverter(mock)

	_, err := c.PointInfoBatch(cube, []float64{}, []float64{}, PointTypeImage, false)

	var invalidArg *InvalidArgumentError
	if !errors.As(err, &invalidArg) {
		t.Errorf("got %v; want InvalidArgumentError", err)
	}
	if mock.CallCount() != 0 {
		t.Errorf("got %v tool calls; want 0", mock.CallCount())
	}
}

func Test_PointInfoBatch_PerPointError(t *testing.T) {
	cube := makeTestCube(t, unprojectedLabel)
	mock := &isisexec.MockRunner{QueuedOutputs: []string{camptErrorPointOutput}}
	c := makeTestConverter(mock)

	results, err := c.PointInfoBatch(cube, []float64{10, 9999}, []float64{20, 9999}, PointTypeImage, false)

	// All-or-nothing: no partial results even though point 0 was fine
	if results != nil {
		t.Errorf("got partial results %v; want none", results)
	}

	var pointErr *PointComputationError
	if !errors.As(err, &pointErr) {
		t.Fatalf("got %v; want PointComputationError", err)
	}
	if pointErr.PointIndex != 1 {
		t.Errorf("PointIndex got %v; want 1", pointErr.PointIndex)
	}
	if pointErr.Message != "Requested position does not project in camera model" {
		t.Errorf("Message got %q", pointErr.Message)
	}
}

func Test_PointInfoBatch_ToolFailure(t *testing.T) {
	cube := makeTestCube(t, unprojectedLabel)
	mock := &isisexec.MockRunner{
		QueuedOutputs: []string{""},
		QueuedErrs:    []error{&isisexec.ToolError{Tool: "campt", Output: "**ERROR** Unable to initialize camera model", Err: errors.New("exit status 1")}},
	}
	spy := &coordListSpy{mock: mock}

	log := &logger.RecordingLogger{}
	c := MakeConverter(spy, cubecache.MakeCubeCache(&fileaccess.FSAccess{}, "", log), log)

	_, err := c.PointInfoBatch(cube, []float64{10}, []float64{20}, PointTypeImage, false)

	var toolErr *ExternalToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("got %v; want ExternalToolError", err)
	}
	if toolErr.Cube != cube {
		t.Errorf("Cube got %v; want %v", toolErr.Cube, cube)
	}

	// Failure must be logged with the image named
	if len(log.Lines) <= 0 {
		t.Errorf("expected the failure to be logged")
	}

	// Temp coordinate list cleaned up on the failure path too
	if _, err := os.Stat(spy.listPaths[0]); !os.IsNotExist(err) {
		t.Errorf("coordinate list %v not cleaned up after failure", spy.listPaths[0])
	}
}

func Test_PointInfoBatch_MalformedResponse(t *testing.T) {
	cube := makeTestCube(t, unprojectedLabel)

	// Two points submitted but only one block comes back
	mock := &isisexec.MockRunner{QueuedOutputs: []string{camptOnePointOutput}}
	c := makeTestConverter(mock)

	_, err := c.PointInfoBatch(cube, []float64{10, 15}, []float64{20, 25}, PointTypeImage, false)

	var malformed *MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("got %v; want MalformedResponseError", err)
	}
	if len(malformed.Raw) <= 0 {
		t.Errorf("expected raw output to be carried for diagnosis")
	}
}

func Test_PointInfoBatch_ProjectedPerPointDispatch(t *testing.T) {
	cube := makeTestCube(t, projectedLabel)
	mock := &isisexec.MockRunner{QueuedOutputs: []string{mapptImageOutput, mapptImageOutput}}
	c := makeTestConverter(mock)

	results, err := c.PointInfoBatch(cube, []float64{10, 15}, []float64{20, 25}, PointTypeImage, false)
	if err != nil {
		t.Fatalf("PointInfoBatch failed: %v", err)
	}

	// Projected cubes get one mappt run per point
	if mock.CallCount() != 2 {
		t.Fatalf("got %v tool calls; want 2", mock.CallCount())
	}
	if len(results) != 2 {
		t.Fatalf("got %v results; want 2", len(results))
	}

	first := mock.Invocations[0]
	if first.Tool != "mappt" {
		t.Errorf("tool got %v; want mappt", first.Tool)
	}
	// Pixel shift applies in the projected branch too
	if first.ParamValue("sample") != "10.5" || first.ParamValue("line") != "20.5" {
		t.Errorf("point params got (%v, %v); want (10.5, 20.5)", first.ParamValue("sample"), first.ParamValue("line"))
	}
	if first.ParamValue("type") != "image" {
		t.Errorf("type got %v; want image", first.ParamValue("type"))
	}

	second := mock.Invocations[1]
	if second.ParamValue("sample") != "15.5" || second.ParamValue("line") != "25.5" {
		t.Errorf("point params got (%v, %v); want (15.5, 25.5)", second.ParamValue("sample"), second.ParamValue("line"))
	}

	// ...and is reversed on results
	gotSample, _ := results[0].FieldFloat("Sample")
	if gotSample != 10 {
		t.Errorf("Sample got %v; want 10", gotSample)
	}
}

func Test_PointInfoBatch_ProjectedGroundParams(t *testing.T) {
	cube := makeTestCube(t, projectedLabel)
	mock := &isisexec.MockRunner{QueuedOutputs: []string{mapptImageOutput}}
	c := makeTestConverter(mock)

	_, err := c.PointInfo(cube, 255.6, 9.9, PointTypeGround, false)
	if err != nil {
		t.Fatalf("PointInfo failed: %v", err)
	}

	inv := mock.Invocations[0]
	if inv.ParamValue("longitude") != "255.6" || inv.ParamValue("latitude") != "9.9" {
		t.Errorf("got (%v, %v); want (255.6, 9.9)", inv.ParamValue("longitude"), inv.ParamValue("latitude"))
	}
	if inv.ParamValue("coordsys") != "UNIVERSAL" {
		t.Errorf("coordsys got %v; want UNIVERSAL", inv.ParamValue("coordsys"))
	}
	if inv.ParamValue("type") != "ground" {
		t.Errorf("type got %v; want ground", inv.ParamValue("type"))
	}
}

func Test_PointInfoBatch_ProjectedAbortsOnFirstFailure(t *testing.T) {
	cube := makeTestCube(t, projectedLabel)
	mock := &isisexec.MockRunner{
		QueuedOutputs: []string{mapptImageOutput, ""},
		QueuedErrs:    []error{nil, &isisexec.ToolError{Tool: "mappt", Output: "**ERROR**", Err: errors.New("exit status 1")}},
	}
	c := makeTestConverter(mock)

	results, err := c.PointInfoBatch(cube, []float64{10, 9999, 15}, []float64{20, 9999, 25}, PointTypeImage, false)

	if results != nil {
		t.Errorf("got partial results; want none")
	}
	var toolErr *ExternalToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("got %v; want ExternalToolError", err)
	}

	// Third point never dispatched
	if mock.CallCount() != 2 {
		t.Errorf("got %v tool calls; want 2", mock.CallCount())
	}
}

func Test_PointInfo_MissingCube(t *testing.T) {
	mock := &isisexec.MockRunner{}
	c := makeTestConverter(mock)

	_, err := c.PointInfo(filepath.Join(t.TempDir(), "nope.cub"), 10, 20, PointTypeImage, false)
	if err == nil {
		t.Fatalf("expected error for missing cube")
	}
	if mock.CallCount() != 0 {
		t.Errorf("got %v tool calls; want 0", mock.CallCount())
	}
}
