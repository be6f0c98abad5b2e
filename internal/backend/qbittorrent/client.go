// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package qbittorrent adapts a qBittorrent instance to backend.Adapter
// (spec.md §4.3 "QB-style" backend).
package qbittorrent

import (
	"context"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"strings"
	"sync"
	"time"

	qbt "github.com/autobrr/go-qbittorrent"
	"github.com/rs/zerolog/log"
)

// Client wraps the go-qbittorrent client with a health flag so the
// removal engine can treat a dead backend as BackendUnavailable
// (spec.md §7) instead of propagating raw HTTP errors.
type Client struct {
	*qbt.Client
	name            string
	lastHealthCheck time.Time
	isHealthy       bool
	mu              sync.RWMutex
}

// filteredWriter drops qBittorrent's harmless "Unsolicited response
// received on idle HTTP channel" stderr noise; go-qbittorrent doesn't
// expose HTTP client configuration to suppress it upstream.
type filteredWriter struct {
	writer io.Writer
}

func (fw *filteredWriter) Write(p []byte) (n int, err error) {
	if strings.Contains(string(p), "Unsolicited response received on idle HTTP channel") {
		return len(p), nil
	}
	return fw.writer.Write(p)
}

func init() {
	stdlog.SetOutput(&filteredWriter{writer: os.Stderr})
}

// NewClient logs into a qBittorrent Web API instance.
func NewClient(name, host, username, password string) (*Client, error) {
	qbtClient := qbt.NewClient(qbt.Config{
		Host:     host,
		Username: username,
		Password: password,
		Timeout:  30,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := qbtClient.LoginCtx(ctx); err != nil {
		return nil, fmt.Errorf("connect to qBittorrent instance %q: %w", name, err)
	}

	c := &Client{
		Client:          qbtClient,
		name:            name,
		lastHealthCheck: time.Now(),
		isHealthy:       true,
	}

	log.Debug().Str("backend", name).Str("host", host).Msg("qbittorrent: client created")
	return c, nil
}

func (c *Client) IsHealthy() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isHealthy
}

// HealthCheck re-authenticates on failure, matching the teacher's
// retry-once-before-marking-unhealthy pattern.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.GetWebAPIVersionCtx(ctx)
	if err != nil {
		if loginErr := c.LoginCtx(ctx); loginErr != nil {
			c.setHealthy(false)
			return fmt.Errorf("health check: re-login failed: %w", loginErr)
		}
		if _, err = c.GetWebAPIVersionCtx(ctx); err != nil {
			c.setHealthy(false)
			return fmt.Errorf("health check: api call failed after re-login: %w", err)
		}
	}
	c.setHealthy(true)
	return nil
}

func (c *Client) setHealthy(v bool) {
	c.mu.Lock()
	c.isHealthy = v
	c.lastHealthCheck = time.Now()
	c.mu.Unlock()
}
