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

// API configuration as read from strings/JSON, overridable via env vars
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/pixlise/cubegeom/core/logger"
)

////////////////////////////////////////////////////////////////////////////////////////////////////////////
// Configuration for app

// APIConfig combines env vars and config JSON values
type APIConfig struct {
	EnvironmentName string

	// Where the ISIS binaries (campt, mappt) live. Empty means PATH.
	ISISBinPath string

	// Where coordinate list files get written. Empty means OS temp dir.
	ISISTempPath string

	// Cubes referenced as s3://... are fetched from here to CubeCachePath
	CubesBucket   string
	CubeCachePath string

	// Default for requests that don't say whether off-image points are ok
	AllowOutsideDefault bool

	LogLevel logger.LogLevel // Can be changed at runtime, but if API restarts, it goes back to configured value

	SentryEndpoint string
}

const envOverridePrefix = "CUBEGEOM_CONFIG_"

func NewConfigFromFile(configFilePath string) (APIConfig, error) {
	var cfg APIConfig

	fmt.Printf("Loading custom config from: %s\n", configFilePath)
	customConfig, err := os.ReadFile(configFilePath)
	if err != nil {
		return cfg, fmt.Errorf("could not read config file at %s", configFilePath)
	}
	return buildConfig(customConfig)
}

func NewConfigFromJsonString(configJson string) (APIConfig, error) {
	return buildConfig([]byte(configJson))
}

func buildConfig(configJson []byte) (APIConfig, error) {
	var cfg APIConfig

	err := json.Unmarshal(configJson, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse custom config: %v", err)
	}

	// Override Config with any values explicitly set in Env Vars (CUBEGEOM_CONFIG_*)
	// Ex: export CUBEGEOM_CONFIG_ISISBinPath="/opt/isis/bin"
	reflection := reflect.ValueOf(&cfg).Elem()
	for i := 0; i < reflection.NumField(); i++ {
		fieldName := reflection.Type().Field(i).Name
		field := reflection.Field(i)

		envValue, exists := os.LookupEnv(envOverridePrefix + fieldName)
		if !exists {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(envValue)
		case reflect.Bool:
			boolValue, err := strconv.ParseBool(envValue)
			if err != nil {
				return cfg, fmt.Errorf("failed to parse env override for %v: %v", fieldName, err)
			}
			field.SetBool(boolValue)
		case reflect.Int, reflect.Int32, reflect.Int64:
			intValue, err := strconv.ParseInt(envValue, 10, 64)
			if err != nil {
				return cfg, fmt.Errorf("failed to parse env override for %v: %v", fieldName, err)
			}
			field.SetInt(intValue)
		case reflect.Slice:
			items := strings.Split(envValue, ",")
			field.Set(reflect.ValueOf(items))
		default:
			return cfg, fmt.Errorf("unsupported env override for %v", fieldName)
		}
	}

	return cfg, nil
}
