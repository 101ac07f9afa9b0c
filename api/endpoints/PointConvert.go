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

package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	apiRouter "github.com/pixlise/cubegeom/api/router"
	"github.com/pixlise/cubegeom/core/campt"
	"github.com/pixlise/cubegeom/core/errorwithstatus"
	"github.com/pixlise/cubegeom/core/utils"
)

////////////////////////////////////////////////////////////////////////////////////////////////////////////
// Image space <-> ground space conversion endpoints

type pointInfoRequest struct {
	Cube      string    `json:"cube"`
	X         []float64 `json:"x"`
	Y         []float64 `json:"y"`
	PointType string    `json:"pointType"`

	// Optional, falls back to the configured default
	AllowOutside *bool `json:"allowOutside,omitempty"`
}

type pointInfoResponse struct {
	Results []map[string]interface{} `json:"results"`
}

func PostPointInfo(params apiRouter.ApiHandlerParams) error {
	var req pointInfoRequest
	if err := readRequestJSON(params.Request, &req); err != nil {
		return err
	}

	pointType, err := campt.ParsePointType(req.PointType)
	if err != nil {
		return toStatusError(err)
	}

	allowOutside := params.Svcs.Config.AllowOutsideDefault
	if req.AllowOutside != nil {
		allowOutside = *req.AllowOutside
	}

	results, err := params.Svcs.Converter.PointInfoBatch(req.Cube, req.X, req.Y, pointType, allowOutside)
	if err != nil {
		return toStatusError(err)
	}

	resp := pointInfoResponse{Results: make([]map[string]interface{}, 0, len(results))}
	for _, r := range results {
		resp.Results = append(resp.Results, r.ToJSONMap())
	}

	return utils.SendJSON(params.Writer, &resp)
}

type imageToGroundRequest struct {
	Cube    string    `json:"cube"`
	Samples []float64 `json:"samples"`
	Lines   []float64 `json:"lines"`

	// Which reported representations to return, optional
	LatField string `json:"latField,omitempty"`
	LonField string `json:"lonField,omitempty"`
}

type imageToGroundResponse struct {
	Latitudes  []float64 `json:"latitudes"`
	Longitudes []float64 `json:"longitudes"`
}

func PostImageToGround(params apiRouter.ApiHandlerParams) error {
	var req imageToGroundRequest
	if err := readRequestJSON(params.Request, &req); err != nil {
		return err
	}

	lats, lons, err := params.Svcs.Converter.ImageToGround(req.Cube, req.Samples, req.Lines, req.LatField, req.LonField)
	if err != nil {
		return toStatusError(err)
	}

	return utils.SendJSON(params.Writer, &imageToGroundResponse{Latitudes: lats, Longitudes: lons})
}

type groundToImageRequest struct {
	Cube       string    `json:"cube"`
	Longitudes []float64 `json:"longitudes"`
	Latitudes  []float64 `json:"latitudes"`
}

type groundToImageResponse struct {
	Lines   []float64 `json:"lines"`
	Samples []float64 `json:"samples"`
}

func PostGroundToImage(params apiRouter.ApiHandlerParams) error {
	var req groundToImageRequest
	if err := readRequestJSON(params.Request, &req); err != nil {
		return err
	}

	lines, samples, err := params.Svcs.Converter.GroundToImage(req.Cube, req.Longitudes, req.Latitudes)
	if err != nil {
		return toStatusError(err)
	}

	return utils.SendJSON(params.Writer, &groundToImageResponse{Lines: lines, Samples: samples})
}

func readRequestJSON(r *http.Request, reqPtr interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(reqPtr); err != nil {
		return errorwithstatus.MakeBadRequestError(fmt.Errorf("failed to parse request body: %v", err))
	}
	return nil
}

// Maps the conversion error taxonomy onto HTTP statuses. Bad inputs are the
// caller's fault, tool failures and unparseable output are the upstream
// tool's, a failed point computation is a valid request we couldn't satisfy.
func toStatusError(err error) error {
	var invalidArg *campt.InvalidArgumentError
	if errors.As(err, &invalidArg) {
		return errorwithstatus.MakeBadRequestError(err)
	}

	var pointErr *campt.PointComputationError
	if errors.As(err, &pointErr) {
		return errorwithstatus.MakeUnprocessableError(err)
	}

	var toolErr *campt.ExternalToolError
	if errors.As(err, &toolErr) {
		return errorwithstatus.MakeBadGatewayError(err)
	}

	var malformedErr *campt.MalformedResponseError
	if errors.As(err, &malformedErr) {
		return errorwithstatus.MakeBadGatewayError(err)
	}

	return err
}
