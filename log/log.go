//
// Tencent is pleased to support the open source community by making trpc-es-provision available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-es-provision is licensed under the Apache License Version 2.0.
//
//

// Package log is the leveled logger of the provisioner. It writes to stderr
// so reports printed on stdout stay machine readable.
package log

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Levels accepted by SetLevel.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

var levels = map[string]zapcore.Level{
	LevelDebug: zapcore.DebugLevel,
	LevelInfo:  zapcore.InfoLevel,
	LevelWarn:  zapcore.WarnLevel,
	LevelError: zapcore.ErrorLevel,
}

var zapLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)

// Default is the logger behind the package functions. Tests may swap it.
var Default Logger = zap.New(
	zapcore.NewCore(
		zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "lvl",
			CallerKey:      "caller",
			MessageKey:     "message",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.RFC3339TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		}),
		zapcore.Lock(os.Stderr),
		zapLevel,
	),
	zap.AddCaller(),
	zap.AddCallerSkip(1),
).Sugar()

// SetLevel changes the level of the Default zap logger.
func SetLevel(level string) error {
	l, ok := levels[level]
	if !ok {
		return fmt.Errorf("unknown log level %q", level)
	}
	zapLevel.SetLevel(l)
	return nil
}

// Logger is the printf-style subset of zap.SugaredLogger the provisioner
// logs through.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Debugf logs per-resource detail such as skipped resources.
func Debugf(format string, args ...any) {
	Default.Debugf(format, args...)
}

// Infof logs changes made to the cluster.
func Infof(format string, args ...any) {
	Default.Infof(format, args...)
}

// Warnf logs failures the provisioner recovers from.
func Warnf(format string, args ...any) {
	Default.Warnf(format, args...)
}

// Errorf logs failures that end a pass.
func Errorf(format string, args ...any) {
	Default.Errorf(format, args...)
}
