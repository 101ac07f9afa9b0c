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

// Convenience wrappers over PointInfo for the two directions everyone
// actually wants. Batch forms return slices aligned with the input order,
// Point forms are for single coordinates.

// ImageToGround - converts (sample, line) points to (latitude, longitude).
// latField/lonField select which of the reported latitude/longitude
// representations to pull out, "" means the defaults.
func (c *Converter) ImageToGround(cubeRef string, samples []float64, lines []float64, latField string, lonField string) ([]float64, []float64, error) {
	if len(latField) <= 0 {
		latField = DefaultLatitudeField
	}
	if len(lonField) <= 0 {
		lonField = DefaultLongitudeField
	}

	results, err := c.PointInfoBatch(cubeRef, samples, lines, PointTypeImage, false)
	if err != nil {
		return nil, nil, err
	}

	lats := make([]float64, 0, len(results))
	lons := make([]float64, 0, len(results))

	for _, r := range results {
		lat, err := r.FieldFloat(latField)
		if err != nil {
			return nil, nil, &MalformedResponseError{
				Cube:   cubeRef,
				Reason: fmt.Sprintf("failed to read %v: %v", latField, err),
				Raw:    r.describe(),
			}
		}

		lon, err := r.FieldFloat(lonField)
		if err != nil {
			return nil, nil, &MalformedResponseError{
				Cube:   cubeRef,
				Reason: fmt.Sprintf("failed to read %v: %v", lonField, err),
				Raw:    r.describe(),
			}
		}

		lats = append(lats, lat)
		lons = append(lons, lon)
	}

	return lats, lons, nil
}

// ImageToGroundPoint - single point form, returns (latitude, longitude)
func (c *Converter) ImageToGroundPoint(cubeRef string, sample float64, line float64) (float64, float64, error) {
	lats, lons, err := c.ImageToGround(cubeRef, []float64{sample}, []float64{line}, "", "")
	if err != nil {
		return 0, 0, err
	}
	return lats[0], lons[0], nil
}

// GroundToImage - converts (longitude, latitude) points to (line, sample)
func (c *Converter) GroundToImage(cubeRef string, lons []float64, lats []float64) ([]float64, []float64, error) {
	results, err := c.PointInfoBatch(cubeRef, lons, lats, PointTypeGround, false)
	if err != nil {
		return nil, nil, err
	}

	lines := make([]float64, 0, len(results))
	samples := make([]float64, 0, len(results))

	for _, r := range results {
		line, err := r.FieldFloat("Line")
		if err != nil {
			return nil, nil, &MalformedResponseError{
				Cube:   cubeRef,
				Reason: fmt.Sprintf("failed to read Line: %v", err),
				Raw:    r.describe(),
			}
		}

		sample, err := r.FieldFloat("Sample")
		if err != nil {
			return nil, nil, &MalformedResponseError{
				Cube:   cubeRef,
				Reason: fmt.Sprintf("failed to read Sample: %v", err),
				Raw:    r.describe(),
			}
		}

		lines = append(lines, line)
		samples = append(samples, sample)
	}

	return lines, samples, nil
}

// GroundToImagePoint - single point form, returns (line, sample)
func (c *Converter) GroundToImagePoint(cubeRef string, lon float64, lat float64) (float64, float64, error) {
	lines, samples, err := c.GroundToImage(cubeRef, []float64{lon}, []float64{lat})
	if err != nil {
		return 0, 0, err
	}
	return lines[0], samples[0], nil
}
