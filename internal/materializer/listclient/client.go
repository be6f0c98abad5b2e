// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package listclient is a thin client for the remote file-listing API the
// materializer traverses (spec.md §6 "Listing API (consumed)").
package listclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mpplugins/core/pkg/httphelpers"
)

// Entry is one item in a listing response (spec.md §6 envelope).
type Entry struct {
	Name     string `json:"name"`
	IsDir    bool   `json:"is_dir"`
	Modified string `json:"modified"`
	Sign     string `json:"sign"`
	Size     int64  `json:"size"`
	Thumb    string `json:"thumb"`
	Type     int    `json:"type"`
	Created  string `json:"created"`
	HashInfo string `json:"hash_info"`
}

type listRequest struct {
	Path     string `json:"path"`
	Password string `json:"password"`
	Page     int    `json:"page"`
	PerPage  int    `json:"per_page"`
	Refresh  bool   `json:"refresh"`
}

type listEnvelope struct {
	Code int `json:"code"`
	Data struct {
		Content []Entry `json:"content"`
	} `json:"data"`
}

// Client wraps one HTTP session shared read-only by traversal workers
// (spec.md §5 "Shared resources").
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New builds a Client against baseURL, authenticating with token when set.
func New(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the configured base URL, for download-URL construction
// (spec.md §4.2.3 "entry.download_url").
func (c *Client) BaseURL() string {
	return c.baseURL
}

// List fetches one directory's contents (spec.md §4.2.2 "Listing semantics").
func (c *Client) List(ctx context.Context, path string) ([]Entry, error) {
	body, err := json.Marshal(listRequest{Path: path, Password: "", Page: 1, PerPage: 0, Refresh: false})
	if err != nil {
		return nil, fmt.Errorf("listclient: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/fs/list", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("listclient: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("listclient: list %s: %w", path, err)
	}
	defer httphelpers.DrainAndClose(resp)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listclient: list %s: http %d", path, resp.StatusCode)
	}

	var env listEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("listclient: decode %s: %w", path, err)
	}
	if env.Code != 200 {
		return nil, fmt.Errorf("listclient: list %s: envelope code %d", path, env.Code)
	}
	return env.Data.Content, nil
}

// Get opens the download stream for a download URL (spec.md §4.2.3
// "Subtitle downloader").
func (c *Client) Get(ctx context.Context, downloadURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, fmt.Errorf("listclient: build get request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("listclient: get %s: %w", downloadURL, err)
	}
	return resp, nil
}
