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

// Command line tool to spot-check cube coordinate conversions without
// standing up the API. Prints one JSON result block per point to stdout,
// logs go to stderr.
package main

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/pixlise/cubegeom/core/campt"
	"github.com/pixlise/cubegeom/core/cubecache"
	"github.com/pixlise/cubegeom/core/fileaccess"
	"github.com/pixlise/cubegeom/core/isisexec"
	"github.com/pixlise/cubegeom/core/logger"
	"github.com/pixlise/cubegeom/core/timestamper"
	"github.com/pixlise/cubegeom/core/utils"
)

var opts struct {
	Cube         string    `short:"c" long:"cube" required:"true" description:"Path to the cube file"`
	Type         string    `short:"t" long:"type" default:"image" description:"Point type" choice:"image" choice:"ground"`
	X            []float64 `short:"x" required:"true" description:"X values (sample or longitude), repeatable"`
	Y            []float64 `short:"y" required:"true" description:"Y values (line or latitude), repeatable"`
	AllowOutside bool      `long:"allow-outside" description:"Allow points off the image"`
	ISISBinPath  string    `long:"isis-bin" env:"ISIS_BIN_PATH" description:"Directory holding the ISIS binaries"`
	Verbose      bool      `short:"v" long:"verbose" description:"Debug logging"`
}

func main() {
	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(1)
	}

	cmdLog := &logger.StdErrLogger{}
	if !opts.Verbose {
		cmdLog.SetLogLevel(logger.LogInfo)
	}

	pointType, err := campt.ParsePointType(opts.Type)
	if err != nil {
		cmdLog.Errorf("%v", err)
		os.Exit(1)
	}

	runner := &isisexec.ExecRunner{
		BinPath:     opts.ISISBinPath,
		Log:         cmdLog,
		TimeStamper: &timestamper.UnixTimeNowStamper{},
	}

	cubes := cubecache.MakeCubeCache(&fileaccess.FSAccess{}, os.TempDir(), cmdLog)
	converter := campt.MakeConverter(runner, cubes, cmdLog)

	results, err := converter.PointInfoBatch(opts.Cube, opts.X, opts.Y, pointType, opts.AllowOutside)
	if err != nil {
		cmdLog.Errorf("%v", err)
		os.Exit(1)
	}

	for _, r := range results {
		fmt.Println(utils.MakePrettyJSON(r.ToJSONMap()))
	}
}
