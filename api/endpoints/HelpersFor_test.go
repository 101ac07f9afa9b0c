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
	"net/http"
	"net/http/httptest"

	"github.com/gorilla/mux"

	"github.com/pixlise/cubegeom/api/config"
	"github.com/pixlise/cubegeom/api/services"
	"github.com/pixlise/cubegeom/core/campt"
	"github.com/pixlise/cubegeom/core/cubecache"
	"github.com/pixlise/cubegeom/core/fileaccess"
	"github.com/pixlise/cubegeom/core/isisexec"
	"github.com/pixlise/cubegeom/core/logger"
	"github.com/pixlise/cubegeom/core/timestamper"
)

func makeMockSvcs(runner isisexec.Runner) services.APIServices {
	cfg := config.APIConfig{
		EnvironmentName: "unit-test",
	}

	log := &logger.NullLogger{}
	cubes := cubecache.MakeCubeCache(&fileaccess.FSAccess{}, "", log)

	return services.APIServices{
		Config:      cfg,
		Log:         log,
		FS:          &fileaccess.FSAccess{},
		Runner:      runner,
		Converter:   campt.MakeConverter(runner, cubes, log),
		TimeStamper: &timestamper.MockTimeNowStamper{QueuedTimeStamps: []int64{1668100000}},
	}
}

func executeRequest(req *http.Request, router *mux.Router) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}
