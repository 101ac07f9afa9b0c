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

package logger

import "fmt"

// NullLogger - For mocking out in tests
type NullLogger struct {
}

func (l *NullLogger) Printf(level LogLevel, format string, a ...interface{}) {
	// We do nothing!
}
func (l *NullLogger) Debugf(format string, a ...interface{}) {
	// We do nothing!
}
func (l *NullLogger) Infof(format string, a ...interface{}) {
	// We do nothing!
}
func (l *NullLogger) Errorf(format string, a ...interface{}) {
	// We do nothing!
}
func (l *NullLogger) SetLogLevel(level LogLevel) {
}

// RecordingLogger - stores everything logged, so tests can verify what was reported
type RecordingLogger struct {
	Lines []string
}

func (l *RecordingLogger) Printf(level LogLevel, format string, a ...interface{}) {
	l.Lines = append(l.Lines, logLevelPrefix[level]+": "+fmt.Sprintf(format, a...))
}
func (l *RecordingLogger) Debugf(format string, a ...interface{}) {
	l.Printf(LogDebug, format, a...)
}
func (l *RecordingLogger) Infof(format string, a ...interface{}) {
	l.Printf(LogInfo, format, a...)
}
func (l *RecordingLogger) Errorf(format string, a ...interface{}) {
	l.Printf(LogError, format, a...)
}
func (l *RecordingLogger) SetLogLevel(level LogLevel) {
}
