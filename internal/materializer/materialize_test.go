// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package materializer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpplugins/core/internal/domain"
	"github.com/mpplugins/core/internal/materializer/listclient"
)

func TestShortcutBodyUsesDownloadURLWithoutReplace(t *testing.T) {
	got := shortcutBody("http://alist.local", "", "http://alist.local/d/src/a.mkv?sign=x")
	assert.Equal(t, "http://alist.local/d/src/a.mkv?sign=x", got)
}

func TestShortcutBodyAppliesURLReplace(t *testing.T) {
	got := shortcutBody("http://alist.local", "http://cdn.local/dl", "http://alist.local/d/src/a.mkv?sign=x")
	assert.Equal(t, "http://cdn.local/dl/src/a.mkv?sign=x", got)
}

func TestWriteShortcutCreatesParentAndOverwrites(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "nested", "a.strm")

	require.NoError(t, writeShortcut(target, "http://example.com/d/a.mkv"))
	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/d/a.mkv", string(got))

	require.NoError(t, writeShortcut(target, "http://example.com/d/b.mkv"))
	got, err = os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/d/b.mkv", string(got))
}

func TestDownloadSubtitleStreamsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("1\n00:00:01,000 --> 00:00:02,000\nhello\n"))
	}))
	defer srv.Close()

	client := listclient.New(srv.URL, "", 0)
	dir := t.TempDir()
	target := filepath.Join(dir, "sub", "b.srt")

	entry := domain.RemoteEntry{Path: "/src/sub/b.srt", DownloadURL: srv.URL + "/d/src/sub/b.srt"}
	require.NoError(t, downloadSubtitle(context.Background(), client, entry, target))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(got), "hello")
}

func TestPassRunWritesShortcutsAndSubtitles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte("1\n00:00:01,000 --> 00:00:02,000\nhello\n"))
			return
		}
		var req struct {
			Path string `json:"path"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		type envelope struct {
			Code int `json:"code"`
			Data struct {
				Content []listclient.Entry `json:"content"`
			} `json:"data"`
		}
		var env envelope
		env.Code = 200

		switch req.Path {
		case "/src":
			env.Data.Content = []listclient.Entry{
				{Name: "a.mkv", Size: 100},
				{Name: "sub", IsDir: true},
			}
		case "/src/sub":
			env.Data.Content = []listclient.Entry{
				{Name: "b.srt", Size: 10},
			}
		}
		_ = json.NewEncoder(w).Encode(env)
	}))
	defer srv.Close()

	// subtitle GET hits the same server for /d/... paths; the handler
	// above answers GETs with a small subtitle body and only decodes
	// listing POSTs.
	dstDir := t.TempDir()

	client := listclient.New(srv.URL, "", 0)
	cfg := domain.MaterializerConfig{
		SourceDir:         "/src",
		TargetDir:         dstDir,
		TraversalMode:     domain.TraversalBFS,
		MaxDepth:          -1,
		MaxListWorker:     2,
		MaxDownloadWorker: 2,
	}

	pass := NewPass(client, cfg, nil)
	require.NoError(t, pass.Run(context.Background()))

	_, err := os.Stat(filepath.Join(dstDir, "a.strm"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dstDir, "sub", "b.srt"))
	assert.NoError(t, err)
}
