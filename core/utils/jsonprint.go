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

package utils

import (
	"encoding/json"
	"net/http"
)

// So we're consistent everywhere we print JSON
const PrettyPrintIndentForJSON = "    "

// SendJSON - serialises itemPtr and writes it to the response with the right content type
func SendJSON(w http.ResponseWriter, itemPtr interface{}) error {
	data, err := json.Marshal(itemPtr)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(data)
	return err
}

// MakePrettyJSON - for logging structs in a readable way
func MakePrettyJSON(itemPtr interface{}) string {
	data, err := json.MarshalIndent(itemPtr, "", PrettyPrintIndentForJSON)
	if err != nil {
		return err.Error()
	}
	return string(data)
}
