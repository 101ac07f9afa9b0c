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

// Resolves cube references to local paths the ISIS tools can open. Plain
// paths pass straight through, s3://bucket/key refs get downloaded into a
// local cache directory first (ISIS only reads local files).
package cubecache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/pixlise/cubegeom/core/fileaccess"
	"github.com/pixlise/cubegeom/core/logger"
)

const s3Prefix = "s3://"

type CubeCache struct {
	RemoteFS  fileaccess.FileAccess
	CachePath string
	Log       logger.ILogger
}

func MakeCubeCache(remoteFS fileaccess.FileAccess, cachePath string, log logger.ILogger) *CubeCache {
	return &CubeCache{RemoteFS: remoteFS, CachePath: cachePath, Log: log}
}

// Resolve - returns a local path for the given cube reference, downloading
// it into the cache if it's remote. Already-cached cubes are not fetched
// again, cube files are immutable once delivered.
func (c *CubeCache) Resolve(cubeRef string) (string, error) {
	if !strings.HasPrefix(cubeRef, s3Prefix) {
		if _, err := os.Stat(cubeRef); err != nil {
			return "", errors.Wrapf(err, "cube not found: %v", cubeRef)
		}
		return cubeRef, nil
	}

	bucket, remotePath, err := splitS3Ref(cubeRef)
	if err != nil {
		return "", err
	}

	localPath := filepath.Join(c.CachePath, bucket, remotePath)
	if _, err := os.Stat(localPath); err == nil {
		c.Log.Debugf("Cube cache hit: %v", cubeRef)
		return localPath, nil
	}

	c.Log.Infof("Download \"%v\" -> \"%v\"", cubeRef, localPath)

	data, err := c.RemoteFS.ReadObject(bucket, remotePath)
	if err != nil {
		if c.RemoteFS.IsNotFoundError(err) {
			return "", fmt.Errorf("failed to download %v: not found", cubeRef)
		}
		return "", errors.Wrapf(err, "failed to download %v", cubeRef)
	}

	if err := os.MkdirAll(filepath.Dir(localPath), 0777); err != nil {
		return "", errors.Wrapf(err, "failed to create cache path for %v", cubeRef)
	}

	if err := os.WriteFile(localPath, data, 0777); err != nil {
		return "", errors.Wrapf(err, "failed to write %v byte cached cube %v", len(data), localPath)
	}

	c.Log.Debugf("Downloaded %v bytes", len(data))
	return localPath, nil
}

func splitS3Ref(cubeRef string) (string, string, error) {
	ref := cubeRef[len(s3Prefix):]
	slashIdx := strings.Index(ref, "/")
	if slashIdx <= 0 || slashIdx >= len(ref)-1 {
		return "", "", fmt.Errorf("invalid cube reference: %v", cubeRef)
	}
	return ref[:slashIdx], ref[slashIdx+1:], nil
}
