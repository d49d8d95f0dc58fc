// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package logger configures the process-wide logrus logger. Diagnostics go
// to stderr; stdout is reserved for command results such as the asset
// check report.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Init sets the log level and formatter. Verbose mode enables debug output.
func Init(verbose bool) {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp:       true,
		DisableLevelTruncation: true,
		PadLevelText:           true,
	})
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}

// SetOutput redirects log output. Used by tests.
func SetOutput(w io.Writer) {
	logrus.SetOutput(w)
}

// IsVerbose reports whether debug logging is enabled.
func IsVerbose() bool {
	return logrus.IsLevelEnabled(logrus.DebugLevel)
}

// Debug logs a message at debug level.
func Debug(format string, args ...any) {
	logrus.Debugf(format, args...)
}

// Info logs a message at info level.
func Info(format string, args ...any) {
	logrus.Infof(format, args...)
}

// Warn logs a message at warning level.
func Warn(format string, args ...any) {
	logrus.Warnf(format, args...)
}

// WithFields returns an entry carrying structured fields.
func WithFields(fields logrus.Fields) *logrus.Entry {
	return logrus.WithFields(fields)
}
