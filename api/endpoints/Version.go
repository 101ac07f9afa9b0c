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
	"fmt"

	apiRouter "github.com/pixlise/cubegeom/api/router"
	"github.com/pixlise/cubegeom/api/services"
	"github.com/pixlise/cubegeom/core/utils"
)

////////////////////////////////////////////////////////////////////////////////////////////////////////////
// Getting component versions

type versionResponse struct {
	Versions []componentVersion `json:"versions"`
}

type componentVersion struct {
	Component string `json:"component"`
	Version   string `json:"version"`
}

func getAPIVersion() string {
	ver := services.ApiVersion
	if len(services.ApiVersion) <= 0 {
		ver = "(Local build)"
	}

	if len(services.GitHash) > 0 {
		hashEnd := 8
		if len(services.GitHash) < 8 {
			hashEnd = len(services.GitHash)
		}
		ver += "-" + services.GitHash[0:hashEnd]
	}

	return ver
}

func GetVersionJSON(params apiRouter.ApiHandlerParams) error {
	result := versionResponse{
		Versions: []componentVersion{
			{
				Component: "API",
				Version:   getAPIVersion(),
			},
		},
	}

	return utils.SendJSON(params.Writer, &result)
}

// RootRequest - a human-readable status page, mainly so load balancer pings
// have something to hit
func RootRequest(params apiRouter.ApiHandlerParams) error {
	page := fmt.Sprintf("<!DOCTYPE html><html><body><h1>CUBEGEOM API</h1><p>Version %v</p></body></html>", getAPIVersion())
	_, err := params.Writer.Write([]byte(page))
	return err
}
