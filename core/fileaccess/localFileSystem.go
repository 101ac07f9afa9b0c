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

package fileaccess

import (
	"encoding/json"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pixlise/cubegeom/core/utils"
)

// Implementation of file access using local file system. The "bucket" is
// just a root directory the path is relative to.
type FSAccess struct {
}

func (fs *FSAccess) filePath(rootPath string, itemPath string) string {
	return filepath.Join(rootPath, itemPath)
}

func (fs *FSAccess) ListObjects(rootPath string, prefix string) ([]string, error) {
	result := []string{}

	rootOnly := path.Join(rootPath) // Using path.Join so it matches what fullPath looks like, cleans off ./ for example
	fullPath := fs.filePath(rootPath, prefix)

	err := filepath.Walk(fullPath, func(pathFound string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			// Paths are returned relative to the root dir
			toSave := pathFound
			if strings.HasPrefix(toSave, rootOnly) {
				toSave = toSave[len(rootOnly)+1:]
			}
			result = append(result, toSave)
		}
		return nil
	})

	return result, err
}

func (fs *FSAccess) ObjectExists(rootPath string, path string) (bool, error) {
	_, err := os.Stat(fs.filePath(rootPath, path))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (fs *FSAccess) ReadObject(rootPath string, path string) ([]byte, error) {
	fullPath := fs.filePath(rootPath, path)
	return os.ReadFile(fullPath)
}

func (fs *FSAccess) WriteObject(rootPath string, path string, data []byte) error {
	fullPath := fs.filePath(rootPath, path)

	// Ensure any subdirs in between are created
	createPath := filepath.Dir(fullPath)
	err := os.MkdirAll(createPath, 0777)
	if err != nil {
		return err
	}

	// Write the file out, this will create if needed else truncate and write
	return os.WriteFile(fullPath, data, 0777)
}

func (fs *FSAccess) ReadJSON(rootPath string, path string, itemsPtr interface{}, emptyIfNotFound bool) error {
	fileData, err := fs.ReadObject(rootPath, path)

	if err != nil {
		if emptyIfNotFound && fs.IsNotFoundError(err) {
			return nil
		}
		return err
	}

	return json.Unmarshal(fileData, itemsPtr)
}

func (fs *FSAccess) WriteJSON(rootPath string, path string, itemsPtr interface{}) error {
	fileData, err := json.MarshalIndent(itemsPtr, "", utils.PrettyPrintIndentForJSON)
	if err != nil {
		return err
	}

	return fs.WriteObject(rootPath, path, fileData)
}

func (fs *FSAccess) DeleteObject(rootPath string, path string) error {
	fullPath := fs.filePath(rootPath, path)
	return os.Remove(fullPath)
}

func (fs *FSAccess) IsNotFoundError(err error) bool {
	return os.IsNotExist(err)
}
