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

package services

import (
	"github.com/pixlise/cubegeom/api/config"
	"github.com/pixlise/cubegeom/core/campt"
	"github.com/pixlise/cubegeom/core/fileaccess"
	"github.com/pixlise/cubegeom/core/isisexec"
	"github.com/pixlise/cubegeom/core/logger"
	"github.com/pixlise/cubegeom/core/timestamper"
)

// NOTE: these 2 vars are set during compilation in CI build (see Makefile)
var ApiVersion string
var GitHash string

// Instead of a bunch of global variables we pass around this services object,
// so handlers have access to a logger, config, the converter etc. This also
// makes unit tests easy, since everything in here is an interface or
// replaceable with a mock.

// APIServices contains any services that HTTP handlers would want to use
type APIServices struct {
	// Configuration read in on startup
	Config config.APIConfig

	// Default logger
	Log logger.ILogger

	// Reads cubes - S3 in deployment, local/in-memory otherwise
	FS fileaccess.FileAccess

	// Runs the ISIS tools
	Runner isisexec.Runner

	// The coordinate adapter everything here exists to serve
	Converter *campt.Converter

	// So tests can fake out time
	TimeStamper timestamper.ITimeStamper
}
