/*
Copyright 2018 The pdfcpu Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package log provides a logging abstraction with four independently
// switchable levels, the same shape the teacher uses throughout
// pdfcpu, but backed by go.uber.org/zap rather than the standard
// library's log.Logger.
package log

import (
	"go.uber.org/zap"
)

// Logger defines an interface for logging messages.
type Logger interface {
	// Printf logs a formatted string.
	Printf(format string, args ...interface{})

	// Println logs a line.
	Println(args ...interface{})

	// Fatalf is equivalent to Printf() followed by a program abort.
	Fatalf(format string, args ...interface{})

	// Fatalln is equivalent to Println() followed by a program abort.
	Fatalln(args ...interface{})
}

type logger struct {
	log Logger
}

// The engine's 4 defined loggers.
var (
	Debug = &logger{}
	Info  = &logger{}
	Stats = &logger{}
	Trace = &logger{}
)

// SetDebugLogger sets the debug logger.
func SetDebugLogger(l Logger) { Debug.log = l }

// SetInfoLogger sets the info logger.
func SetInfoLogger(l Logger) { Info.log = l }

// SetStatsLogger sets the stats logger.
func SetStatsLogger(l Logger) { Stats.log = l }

// SetTraceLogger sets the trace logger.
func SetTraceLogger(l Logger) { Trace.log = l }

// zapAdapter satisfies Logger on top of a zap.SugaredLogger, so the
// session package never imports zap directly.
type zapAdapter struct {
	s *zap.SugaredLogger
}

func (a *zapAdapter) Printf(format string, args ...interface{}) {
	a.s.Infof(format, args...)
}

func (a *zapAdapter) Println(args ...interface{}) {
	a.s.Info(args...)
}

func (a *zapAdapter) Fatalf(format string, args ...interface{}) {
	a.s.Fatalf(format, args...)
}

func (a *zapAdapter) Fatalln(args ...interface{}) {
	a.s.Fatal(args...)
}

func newZapLogger(level string) Logger {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.OutputPaths = []string{"stderr"}
	z, err := cfg.Build()
	if err != nil {
		return nil
	}
	return &zapAdapter{s: z.Sugar().Named(level)}
}

// SetDefaultDebugLogger sets the default debug logger (zap-backed).
func SetDefaultDebugLogger() { SetDebugLogger(newZapLogger("DEBUG")) }

// SetDefaultInfoLogger sets the default info logger (zap-backed).
func SetDefaultInfoLogger() { SetInfoLogger(newZapLogger("INFO")) }

// SetDefaultStatsLogger sets the default stats logger (zap-backed).
func SetDefaultStatsLogger() { SetStatsLogger(newZapLogger("STATS")) }

// SetDefaultTraceLogger sets the default trace logger. Trace is
// high-volume per-byte parser tracing; it stays off by default even
// when the other three are enabled.
func SetDefaultTraceLogger() { SetTraceLogger(nil) }

// SetDefaultLoggers sets the debug, info and stats loggers to their
// zap-backed default; the trace logger stays off.
func SetDefaultLoggers() {
	SetDefaultDebugLogger()
	SetDefaultInfoLogger()
	SetDefaultStatsLogger()
	SetDefaultTraceLogger()
}

// DisableLoggers turns off all logging.
func DisableLoggers() {
	SetDebugLogger(nil)
	SetInfoLogger(nil)
	SetStatsLogger(nil)
	SetTraceLogger(nil)
}

// Printf writes a formatted message to the log.
func (l *logger) Printf(format string, args ...interface{}) {
	if l.log == nil {
		return
	}
	l.log.Printf(format, args...)
}

// Println writes a line to the log.
func (l *logger) Println(args ...interface{}) {
	if l.log == nil {
		return
	}
	l.log.Println(args...)
}

func (l *logger) Fatalf(format string, args ...interface{}) {
	if l.log == nil {
		return
	}
	l.log.Fatalf(format, args...)
}

func (l *logger) Fatalln(args ...interface{}) {
	if l.log == nil {
		return
	}
	l.log.Fatalln(args...)
}
