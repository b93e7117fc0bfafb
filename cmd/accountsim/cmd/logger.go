// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"io"
	"os"
	"path/filepath"

	"github.com/ava-labs/avalanchego/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logMaxSizeMB  = 8
	logMaxAgeDays = 7
	logMaxFiles   = 4
)

// newLogger writes JSON logs to a rotated file named after the logger in
// dir. When display is set the same entries are also written to stderr.
func newLogger(name string, level logging.Level, dir string, display bool) logging.Logger {
	rw := &lumberjack.Logger{
		Filename:   filepath.Join(dir, name+".log"),
		MaxSize:    logMaxSizeMB,
		MaxAge:     logMaxAgeDays,
		MaxBackups: logMaxFiles,
		Compress:   true,
	}
	cores := []logging.WrappedCore{
		logging.NewWrappedCore(level, rw, logging.JSON.FileEncoder()),
	}
	if display {
		cores = append(cores, logging.NewWrappedCore(level, nopCloser{os.Stderr}, logging.Colors.ConsoleEncoder()))
	}
	return logging.NewLogger(logging.JSON.WrapPrefix(name), cores...)
}

// nopCloser keeps the logger from closing stderr when it stops.
type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}
