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
	"testing"
)

// Both implementations should behave the same way, so run the same
// scenario against each
func runFileAccessScenario(t *testing.T, fs FileAccess, bucket string) {
	t.Helper()

	exists, err := fs.ObjectExists(bucket, "subdir/file1.txt")
	if err != nil || exists {
		t.Errorf("ObjectExists before write got (%v, %v); want false", exists, err)
	}

	if err := fs.WriteObject(bucket, "subdir/file1.txt", []byte("hello")); err != nil {
		t.Fatalf("WriteObject failed: %v", err)
	}
	if err := fs.WriteObject(bucket, "subdir/file2.txt", []byte("world")); err != nil {
		t.Fatalf("WriteObject failed: %v", err)
	}

	exists, err = fs.ObjectExists(bucket, "subdir/file1.txt")
	if err != nil || !exists {
		t.Errorf("ObjectExists after write got (%v, %v); want true", exists, err)
	}

	data, err := fs.ReadObject(bucket, "subdir/file1.txt")
	if err != nil || string(data) != "hello" {
		t.Errorf("ReadObject got (%q, %v); want hello", data, err)
	}

	listing, err := fs.ListObjects(bucket, "subdir")
	if err != nil || len(listing) != 2 {
		t.Errorf("ListObjects got (%v, %v); want 2 items", listing, err)
	}

	_, err = fs.ReadObject(bucket, "subdir/missing.txt")
	if err == nil {
		t.Errorf("expected error reading missing object")
	}
	if !fs.IsNotFoundError(err) {
		t.Errorf("IsNotFoundError got false for: %v", err)
	}

	type testItem struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	if err := fs.WriteJSON(bucket, "subdir/item.json", &testItem{Name: "cube", Count: 3}); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var readBack testItem
	if err := fs.ReadJSON(bucket, "subdir/item.json", &readBack, false); err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	if readBack.Name != "cube" || readBack.Count != 3 {
		t.Errorf("ReadJSON got %+v; want {cube 3}", readBack)
	}

	// emptyIfNotFound leaves the struct alone instead of erroring
	var untouched testItem
	if err := fs.ReadJSON(bucket, "subdir/missing.json", &untouched, true); err != nil {
		t.Errorf("ReadJSON emptyIfNotFound got %v; want nil", err)
	}

	if err := fs.DeleteObject(bucket, "subdir/file1.txt"); err != nil {
		t.Fatalf("DeleteObject failed: %v", err)
	}
	exists, _ = fs.ObjectExists(bucket, "subdir/file1.txt")
	if exists {
		t.Errorf("object still exists after delete")
	}
}

func Test_FSAccess(t *testing.T) {
	runFileAccessScenario(t, &FSAccess{}, t.TempDir())
}

func Test_MemoryAccess(t *testing.T) {
	runFileAccessScenario(t, MakeMemoryAccess(), "test-bucket")
}
