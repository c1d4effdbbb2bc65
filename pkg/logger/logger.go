// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package logger provides the single structured logger used across the
// core. It wraps a zap.SugaredLogger behind a process-wide singleton so
// every command and package can log without threading a logger value
// through every call, while tests can swap the singleton out for one
// writing to a buffer.
package logger

import (
	"os"
	"strconv"
	"sync/atomic"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var singleton atomic.Pointer[zap.SugaredLogger]

// EnvReader abstracts environment variable lookup so tests can stub it
// without mutating the process environment.
type EnvReader interface {
	Getenv(key string) string
}

type osEnv struct{}

func (osEnv) Getenv(key string) string { return os.Getenv(key) }

// Initialize builds the process logger from the real OS environment. It is
// called from the CLI root command's PersistentPreRun, matching the
// teacher's "initialize once, on every command invocation" pattern.
func Initialize() {
	InitializeWithEnv(osEnv{})
}

// InitializeWithEnv builds the process logger using env as the source of
// the UNSTRUCTURED_LOGS toggle, defaulting to human-readable console output
// (as in a terminal) unless it is explicitly set to "false", in which case
// structured JSON is emitted (as in a log aggregator).
func InitializeWithEnv(env EnvReader) {
	level := zapcore.InfoLevel
	if os.Getenv("TANK_DEBUG") != "" {
		level = zapcore.DebugLevel
	}
	singleton.Store(build(os.Stderr, level, unstructuredLogsWithEnv(env)))
}

// build constructs a sugared zap logger writing to w at the given level,
// in console or JSON encoding.
func build(w zapcore.WriteSyncer, level zapcore.Level, unstructured bool) *zap.SugaredLogger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if unstructured {
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), level)
	return zap.New(core).Sugar()
}

func unstructuredLogsWithEnv(env EnvReader) bool {
	v := env.Getenv("UNSTRUCTURED_LOGS")
	if v == "" {
		return true
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return true
	}
	return parsed
}

// Get returns the current singleton logger, initializing a default one (info
// level, console output) if Initialize has not yet run.
func Get() *zap.SugaredLogger {
	if l := singleton.Load(); l != nil {
		return l
	}
	l := build(os.Stderr, zapcore.InfoLevel, true)
	singleton.Store(l)
	return l
}

// NewLogr adapts the singleton logger to a logr.Logger for libraries that
// expect the logr interface.
func NewLogr() logr.Logger {
	return zapr.NewLogger(Get().Desugar())
}

func Debug(args ...interface{})                  { Get().Debug(args...) }
func Debugf(template string, args ...interface{}) { Get().Debugf(template, args...) }
func Debugw(msg string, kv ...interface{})        { Get().Debugw(msg, kv...) }
func Info(args ...interface{})                    { Get().Info(args...) }
func Infof(template string, args ...interface{})  { Get().Infof(template, args...) }
func Infow(msg string, kv ...interface{})         { Get().Infow(msg, kv...) }
func Warn(args ...interface{})                    { Get().Warn(args...) }
func Warnf(template string, args ...interface{})  { Get().Warnf(template, args...) }
func Warnw(msg string, kv ...interface{})         { Get().Warnw(msg, kv...) }
func Error(args ...interface{})                   { Get().Error(args...) }
func Errorf(template string, args ...interface{}) { Get().Errorf(template, args...) }
func Errorw(msg string, kv ...interface{})        { Get().Errorw(msg, kv...) }
func DPanic(args ...interface{})                  { Get().DPanic(args...) }
func DPanicf(template string, args ...interface{}) { Get().DPanicf(template, args...) }
func DPanicw(msg string, kv ...interface{})       { Get().DPanicw(msg, kv...) }
func Panic(args ...interface{})                   { Get().Panic(args...) }
func Panicf(template string, args ...interface{}) { Get().Panicf(template, args...) }
func Panicw(msg string, kv ...interface{})        { Get().Panicw(msg, kv...) }
