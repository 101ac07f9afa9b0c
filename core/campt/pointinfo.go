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

// Converts between image space (sample, line) and ground space
// (longitude, latitude) for ISIS cubes, by driving the campt and mappt
// tools and reading their PVL output back.
//
// Map projected cubes have to go through mappt one point at a time,
// unprojected cubes go through campt in one batch via a coordinate list
// file. Which branch applies is decided by the cube label carrying an
// IsisCube/Mapping group.
//
// Coordinate conventions: our callers use zero-based pixel-corner image
// coordinates, ISIS uses one-based pixel-centre ones, 0.5 apart. We shift
// +0.5 on the way in and -0.5 on returned Sample/Line, in both branches,
// so the correction always round-trips.
package campt

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"

	"github.com/pixlise/cubegeom/core/cubecache"
	"github.com/pixlise/cubegeom/core/isisexec"
	"github.com/pixlise/cubegeom/core/logger"
	"github.com/pixlise/cubegeom/core/pvl"
)

const isisPixelOriginShift = 0.5

// Field names campt reports ground coordinates under
const (
	DefaultLatitudeField  = "PlanetocentricLatitude"
	DefaultLongitudeField = "PositiveEast360Longitude"
)

// Converter - stateless adapter around the ISIS point tools. Safe to call
// from multiple goroutines, nothing is shared between calls.
type Converter struct {
	Runner isisexec.Runner
	Cubes  *cubecache.CubeCache
	Log    logger.ILogger

	// Where coordinate list files get written, "" means the OS temp dir
	TempPath string
}

func MakeConverter(runner isisexec.Runner, cubes *cubecache.CubeCache, log logger.ILogger) *Converter {
	return &Converter{Runner: runner, Cubes: cubes, Log: log}
}

// PointInfo - single point entry point, returns exactly one result
func (c *Converter) PointInfo(cubeRef string, x float64, y float64, pointType PointType, allowOutside bool) (PointResult, error) {
	results, err := c.PointInfoBatch(cubeRef, []float64{x}, []float64{y}, pointType, allowOutside)
	if err != nil {
		return nil, err
	}
	return results[0], nil
}

// PointInfoBatch - batch entry point. Returns one result per input point,
// in input order, or an error for the whole batch - never partial results.
func (c *Converter) PointInfoBatch(cubeRef string, xs []float64, ys []float64, pointType PointType, allowOutside bool) ([]PointResult, error) {
	if pointType != PointTypeImage && pointType != PointTypeGround {
		return nil, &InvalidArgumentError{Reason: "invalid point type"}
	}
	if len(xs) != len(ys) {
		return nil, &InvalidArgumentError{
			Reason: errors.Errorf("mismatched point counts: %v x values vs %v y values", len(xs), len(ys)).Error(),
		}
	}
	if len(xs) <= 0 {
		return nil, &InvalidArgumentError{Reason: "no points supplied"}
	}

	cubePath, err := c.Cubes.Resolve(cubeRef)
	if err != nil {
		return nil, err
	}

	label, err := pvl.LoadLabel(cubePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read label for %v", cubeRef)
	}

	if pointType == PointTypeImage {
		xs = shifted(xs, isisPixelOriginShift)
		ys = shifted(ys, isisPixelOriginShift)
	}

	var results []PointResult
	if label.Group("IsisCube").HasGroup("Mapping") {
		results, err = c.resolveProjected(cubeRef, cubePath, xs, ys, pointType, allowOutside)
	} else {
		results, err = c.resolveWithCoordList(cubeRef, cubePath, xs, ys, pointType, allowOutside)
	}
	if err != nil {
		return nil, err
	}

	// Back to caller convention, uniformly in both branches
	for _, r := range results {
		r.addToField("Sample", -isisPixelOriginShift)
		r.addToField("Line", -isisPixelOriginShift)
	}

	return results, nil
}

// Projected cubes: mappt doesn't take coordinate lists, so it's one
// invocation per point. First failing point aborts the whole call.
func (c *Converter) resolveProjected(cubeRef string, cubePath string, xs []float64, ys []float64, pointType PointType, allowOutside bool) ([]PointResult, error) {
	results := make([]PointResult, 0, len(xs))

	for i := range xs {
		params := []isisexec.Param{{Key: "from", Value: cubePath}}

		if pointType == PointTypeGround {
			params = append(params,
				isisexec.Param{Key: "longitude", Value: formatCoord(xs[i])},
				isisexec.Param{Key: "latitude", Value: formatCoord(ys[i])},
				isisexec.Param{Key: "allowoutside", Value: formatBool(allowOutside)},
				isisexec.Param{Key: "coordsys", Value: "UNIVERSAL"},
				isisexec.Param{Key: "type", Value: pointType.String()},
			)
		} else {
			params = append(params,
				isisexec.Param{Key: "sample", Value: formatCoord(xs[i])},
				isisexec.Param{Key: "line", Value: formatCoord(ys[i])},
				isisexec.Param{Key: "allowoutside", Value: formatBool(allowOutside)},
				isisexec.Param{Key: "type", Value: pointType.String()},
			)
		}

		out, err := c.Runner.Run("mappt", params)
		if err != nil {
			c.Log.Errorf("mappt call failed, image: %v, point %v of %v", cubeRef, i+1, len(xs))
			return nil, &ExternalToolError{Cube: cubeRef, Tool: "mappt", Err: err}
		}

		parsed, err := pvl.Parse(out)
		if err != nil {
			return nil, &MalformedResponseError{Cube: cubeRef, Reason: err.Error(), Raw: out}
		}

		resultsGroup := parsed.Group("Results")
		if resultsGroup == nil {
			return nil, &MalformedResponseError{Cube: cubeRef, Reason: "mappt output has no Results group", Raw: out}
		}

		result := flattenGroup(resultsGroup)
		if v, ok := result.field("Error"); ok && !v.IsNull() {
			return nil, &PointComputationError{Cube: cubeRef, PointIndex: i, Message: v.String(), Result: result}
		}

		results = append(results, result)
	}

	return results, nil
}

// Unprojected cubes: all points go into one coordinate list file and campt
// runs once for the whole batch.
func (c *Converter) resolveWithCoordList(cubeRef string, cubePath string, xs []float64, ys []float64, pointType PointType, allowOutside bool) ([]PointResult, error) {
	coordList, err := os.CreateTemp(c.TempPath, "coordlist-*.lis")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create coordinate list")
	}
	coordListPath := coordList.Name()
	defer os.Remove(coordListPath)

	var sb strings.Builder
	for i := range xs {
		v1, v2 := xs[i], ys[i]
		if pointType == PointTypeGround {
			// campt wants (latitude, longitude) columns for ground queries
			// but (sample, line) for image ones
			v1, v2 = v2, v1
		}
		sb.WriteString(formatCoord(v1) + ", " + formatCoord(v2) + "\n")
	}

	if _, err := coordList.WriteString(sb.String()); err != nil {
		coordList.Close()
		return nil, errors.Wrapf(err, "failed to write coordinate list %v", coordListPath)
	}
	if err := coordList.Close(); err != nil {
		return nil, errors.Wrapf(err, "failed to write coordinate list %v", coordListPath)
	}

	out, err := c.Runner.Run("campt", []isisexec.Param{
		{Key: "from", Value: cubePath},
		{Key: "coordlist", Value: coordListPath},
		{Key: "allowoutside", Value: formatBool(allowOutside)},
		{Key: "usecoordlist", Value: "true"},
		{Key: "coordtype", Value: pointType.String()},
	})
	if err != nil {
		c.Log.Errorf("campt call failed, image: %v", cubeRef)
		return nil, &ExternalToolError{Cube: cubeRef, Tool: "campt", Err: err}
	}

	parsed, err := pvl.Parse(out)
	if err != nil {
		return nil, &MalformedResponseError{Cube: cubeRef, Reason: err.Error(), Raw: out}
	}

	// One GroundPoint group per submitted point, in submission order
	groups := parsed.GroupsNamed("GroundPoint")
	if len(groups) != len(xs) {
		return nil, &MalformedResponseError{
			Cube:   cubeRef,
			Reason: errors.Errorf("expected %v GroundPoint blocks, got %v", len(xs), len(groups)).Error(),
			Raw:    out,
		}
	}

	results := make([]PointResult, 0, len(groups))
	for i, g := range groups {
		result := flattenGroup(g)
		if v, ok := result.field("Error"); ok && !v.IsNull() {
			return nil, &PointComputationError{Cube: cubeRef, PointIndex: i, Message: v.String(), Result: result}
		}
		results = append(results, result)
	}

	return results, nil
}

func shifted(values []float64, delta float64) []float64 {
	result := slices.Clone(values)
	for i := range result {
		result[i] += delta
	}
	return result
}
