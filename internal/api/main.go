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

package main

import (
	"flag"
	"log"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pixlise/cubegeom/api/config"
	"github.com/pixlise/cubegeom/api/endpoints"
	apiRouter "github.com/pixlise/cubegeom/api/router"
	"github.com/pixlise/cubegeom/api/services"
	"github.com/pixlise/cubegeom/core/awsutil"
	"github.com/pixlise/cubegeom/core/campt"
	"github.com/pixlise/cubegeom/core/cubecache"
	"github.com/pixlise/cubegeom/core/fileaccess"
	"github.com/pixlise/cubegeom/core/isisexec"
	"github.com/pixlise/cubegeom/core/logger"
	"github.com/pixlise/cubegeom/core/timestamper"
	"github.com/pixlise/cubegeom/core/utils"
)

func main() {
	// This is for prometheus
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		http.ListenAndServe(":2112", nil)
	}()

	cfg := loadConfig()
	svcs := initServices(cfg)

	////////////////////////////////////////////////////
	// Set up HTTP server

	muxRouter := mux.NewRouter()
	router := apiRouter.NewAPIRouter(svcs, muxRouter)

	// Root request which shows status HTML page
	router.AddHandler("/", "GET", endpoints.RootRequest)
	router.AddHandler("/version-json", "GET", endpoints.GetVersionJSON)

	// The actual conversion endpoints
	router.AddHandler("/point-info", "POST", endpoints.PostPointInfo)
	router.AddHandler("/image-to-ground", "POST", endpoints.PostImageToGround)
	router.AddHandler("/ground-to-image", "POST", endpoints.PostGroundToImage)

	// Setup middleware
	logware := endpoints.LoggerMiddleware{APIServices: svcs}
	router.Router.Use(logware.Middleware, endpoints.PrometheusMiddleware)

	svcs.Log.Infof("API version \"%v\" started...", services.ApiVersion)

	log.Fatal(
		http.ListenAndServe(":8080",
			handlers.CORS(
				handlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type"}),
				handlers.AllowedMethods([]string{"GET", "POST", "HEAD", "OPTIONS"}),
				handlers.AllowedOrigins([]string{"*"}))(router.Router)))
}

func loadConfig() config.APIConfig {
	configPath := flag.String("customConfigPath", "./config.json", "Path to JSON config file")
	flag.Parse()

	cfg, err := config.NewConfigFromFile(*configPath)
	if err != nil {
		log.Fatalf("Something went wrong with API config. Error: %v\n", err)
	}

	// Show the config
	log.Println(utils.MakePrettyJSON(cfg))
	return cfg
}

func initServices(cfg config.APIConfig) *services.APIServices {
	apiLog := &logger.StdOutLogger{}
	apiLog.SetLogLevel(cfg.LogLevel)

	if len(cfg.SentryEndpoint) > 0 {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryEndpoint,
			Environment: cfg.EnvironmentName,
		})
		if err != nil {
			apiLog.Errorf("Failed to init sentry: %v", err)
		}
	}

	// Cube refs can be s3:// paths, so set up remote file access if we have
	// a bucket configured, else everything is expected to be local
	var remoteFS fileaccess.FileAccess = &fileaccess.FSAccess{}
	if len(cfg.CubesBucket) > 0 {
		sess, err := awsutil.GetSession()
		if err != nil {
			log.Fatalf("Failed to create AWS session. Error: %v", err)
		}
		s3svc, err := awsutil.GetS3(sess)
		if err != nil {
			log.Fatalf("Failed to create AWS S3 service. Error: %v", err)
		}
		remoteFS = fileaccess.MakeS3Access(s3svc)
	}

	ts := &timestamper.UnixTimeNowStamper{}
	runner := &isisexec.ExecRunner{
		BinPath:     cfg.ISISBinPath,
		Log:         apiLog,
		TimeStamper: ts,
	}

	cubes := cubecache.MakeCubeCache(remoteFS, cfg.CubeCachePath, apiLog)

	converter := campt.MakeConverter(runner, cubes, apiLog)
	converter.TempPath = cfg.ISISTempPath

	return &services.APIServices{
		Config:      cfg,
		Log:         apiLog,
		FS:          remoteFS,
		Runner:      runner,
		Converter:   converter,
		TimeStamper: ts,
	}
}
