// Copyright 2026 The loxvm Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package loxlog builds the zap logger loxvm's packages log through: a
// JSON encoder in production, a colorized console encoder in
// development.
package loxlog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects the logger's format and verbosity.
type Config struct {
	Debug bool // enables debug-level output (DEBUG_TRACE_EXECUTION/DEBUG_LOG_GC)
	JSON  bool // structured JSON instead of a human console encoder
}

// New builds a *zap.SugaredLogger satisfying both vm.Logger and
// gc.Logger (both declare only Debugf).
func New(cfg Config) (*zap.SugaredLogger, error) {
	level := zapcore.InfoLevel
	if cfg.Debug {
		level = zapcore.DebugLevel
	}

	zcfg := zap.NewProductionConfig()
	if !cfg.JSON {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
