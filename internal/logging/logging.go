// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package logging wires zerolog's global logger, with an optional
// rotating file sink, the way the teacher's internal/config logging
// helper does (spec.md §1 "Shared" ambient logging).
package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Manager owns the current log sink so Apply can be called again on
// config hot-reload without re-initializing the global logger.
type Manager struct {
	mu      sync.Mutex
	rotator *lumberjack.Logger
}

func NewManager() *Manager {
	return &Manager{}
}

// Initialize points the global zerolog logger at a console writer and
// sets the process-wide log level for the first time.
func (m *Manager) Initialize(level string) {
	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	log.Logger = zerolog.New(console).With().Timestamp().Logger()
	setLevel(level)
}

// Apply reconfigures the log level and, when logPath is set, adds a
// rotating file sink alongside stderr (spec.md HostConfig
// logLevel/logPath/logMaxSize/logMaxBackups).
func (m *Manager) Apply(level, logPath string, maxSize, maxBackups int) error {
	setLevel(level)

	m.mu.Lock()
	defer m.mu.Unlock()

	if logPath == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0o750); err != nil {
		return err
	}

	if maxSize <= 0 {
		maxSize = 50
	}
	if maxBackups < 0 {
		maxBackups = 0
	}

	m.rotator = &lumberjack.Logger{Filename: logPath, MaxSize: maxSize, MaxBackups: maxBackups}

	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	var out io.Writer = io.MultiWriter(console, m.rotator)
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	return nil
}

func setLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}
