// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package config loads and hot-reloads the host's persisted TOML
// configuration (spec.md §6 "Config surface").
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"

	"github.com/mpplugins/core/internal/domain"
)

// defaults applied to zero-valued fields before the TOML file is decoded
// on top of them.
var defaults = domain.HostConfig{
	Host:          "0.0.0.0",
	Port:          7100,
	LogLevel:      "INFO",
	LogMaxSize:    50,
	LogMaxBackups: 3,
	MetricsHost:   "127.0.0.1",
	MetricsPort:   9091,
}

// AppConfig owns the live HostConfig and watches its backing file for
// edits made outside the process (spec.md §6).
type AppConfig struct {
	path string

	mu     sync.RWMutex
	Config domain.HostConfig

	watcher   *fsnotify.Watcher
	onReload  func(domain.HostConfig)
	closeOnce sync.Once
}

// New loads configPath, creating it with defaults if absent, and returns
// a ready AppConfig. Call Watch to start reacting to external edits.
func New(configPath string) (*AppConfig, error) {
	cfg := defaults

	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
		if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
			return nil, fmt.Errorf("config: create config dir: %w", err)
		}
		if err := writeDefault(configPath, cfg); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("config: read %s: %w", configPath, err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", configPath, err)
		}
	}

	return &AppConfig{path: configPath, Config: cfg}, nil
}

func writeDefault(path string, cfg domain.HostConfig) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal defaults: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Get returns a copy of the current configuration.
func (a *AppConfig) Get() domain.HostConfig {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.Config
}

// Watch starts an fsnotify watcher on the config file; onReload is called
// with the newly parsed configuration after each write event. Watch
// returns once the watcher goroutine is running; call Close to stop it.
func (a *AppConfig) Watch(onReload func(domain.HostConfig)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(a.path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("config: watch %s: %w", a.path, err)
	}

	a.watcher = watcher
	a.onReload = onReload

	go a.watchLoop()
	return nil
}

func (a *AppConfig) watchLoop() {
	for {
		select {
		case ev, ok := <-a.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(a.path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			a.reload()
		case err, ok := <-a.watcher.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("config: watcher error")
		}
	}
}

func (a *AppConfig) reload() {
	data, err := os.ReadFile(a.path)
	if err != nil {
		log.Error().Err(err).Str("path", a.path).Msg("config: reload read failed")
		return
	}

	cfg := defaults
	if err := toml.Unmarshal(data, &cfg); err != nil {
		log.Error().Err(err).Str("path", a.path).Msg("config: reload parse failed")
		return
	}

	a.mu.Lock()
	a.Config = cfg
	reload := a.onReload
	a.mu.Unlock()

	log.Info().Str("path", a.path).Msg("config: reloaded")
	if reload != nil {
		reload(cfg)
	}
}

// PersistLogSettings rewrites the four log settings in the backing TOML
// file to the given effective values, in place where a commented or
// active key already exists and preserving everything else (spec.md §6
// "Config surface"). Call this once the log settings actually applied
// at startup are known, so a freshly-created or partially-specified
// config.toml ends up reflecting what the process is really running
// with (e.g. a commented-out logLevel, or a file predating
// logMaxBackups) instead of silently diverging from it.
func (a *AppConfig) PersistLogSettings(logLevel, logPath string, logMaxSize, logMaxBackups int) error {
	data, err := os.ReadFile(a.path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", a.path, err)
	}

	updated := updateLogSettingsInTOML(string(data), logLevel, logPath, logMaxSize, logMaxBackups)
	if updated == string(data) {
		return nil
	}

	if err := os.WriteFile(a.path, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", a.path, err)
	}
	return nil
}

// Close stops the watcher, when one is running.
func (a *AppConfig) Close() error {
	var err error
	a.closeOnce.Do(func() {
		if a.watcher != nil {
			err = a.watcher.Close()
		}
	})
	return err
}
