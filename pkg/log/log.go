// Copyright 2024 The Larch Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log provides a minimal leveled logging facade for the kernel
// packages. The backend is logrus; kernel code only sees the functions
// below so the backend can be swapped without touching callers.
package log

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Level is the log level.
type Level uint32

// The set of levels, lowest priority first.
const (
	Debug Level = iota
	Info
	Warning
)

var logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: false,
		FullTimestamp:    true,
	})
	return l
}

// SetLevel sets the log level below which messages are discarded.
func SetLevel(level Level) {
	switch level {
	case Debug:
		logger.SetLevel(logrus.DebugLevel)
	case Info:
		logger.SetLevel(logrus.InfoLevel)
	default:
		logger.SetLevel(logrus.WarnLevel)
	}
}

// SetTarget redirects log output.
func SetTarget(w io.Writer) {
	logger.SetOutput(w)
}

// IsLogging returns whether messages at the given level are emitted.
func IsLogging(level Level) bool {
	switch level {
	case Debug:
		return logger.IsLevelEnabled(logrus.DebugLevel)
	case Info:
		return logger.IsLevelEnabled(logrus.InfoLevel)
	default:
		return logger.IsLevelEnabled(logrus.WarnLevel)
	}
}

// Debugf logs a debug-level message.
func Debugf(format string, v ...any) {
	logger.Debugf(format, v...)
}

// Infof logs an info-level message.
func Infof(format string, v ...any) {
	logger.Infof(format, v...)
}

// Warningf logs a warning-level message.
func Warningf(format string, v ...any) {
	logger.Warnf(format, v...)
}
