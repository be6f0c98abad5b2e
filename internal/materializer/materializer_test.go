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

func TestMaterializerInitRejectsWrongConfigType(t *testing.T) {
	m := NewMaterializer()
	err := m.Init(context.Background(), "not a config")
	assert.ErrorIs(t, err, domain.ErrConfigInvalid)
}

func TestMaterializerInitRejectsInvalidConfig(t *testing.T) {
	m := NewMaterializer()
	err := m.Init(context.Background(), domain.MaterializerConfig{TraversalMode: "flood"})
	assert.ErrorIs(t, err, domain.ErrConfigInvalid)
}

func TestMaterializerRunOnceEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
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
		if req.Path == "/src" {
			env.Data.Content = []listclient.Entry{{Name: "a.mkv", Size: 100}}
		}
		_ = json.NewEncoder(w).Encode(env)
	}))
	defer srv.Close()

	dstDir := t.TempDir()

	m := NewMaterializer()
	cfg := domain.MaterializerConfig{
		Enabled:           true,
		URL:               srv.URL,
		SourceDir:         "/src",
		TargetDir:         dstDir,
		TraversalMode:     domain.TraversalBFS,
		FilterMode:        domain.FilterModeSet,
		MaxDepth:          -1,
		MaxListWorker:     2,
		MaxDownloadWorker: 2,
	}
	require.NoError(t, m.Init(context.Background(), cfg))

	m.RunOnce(context.Background())

	_, err := os.Stat(filepath.Join(dstDir, "a.strm"))
	assert.NoError(t, err)
}

func TestMaterializerStopIsIdempotent(t *testing.T) {
	m := NewMaterializer()
	assert.NoError(t, m.Stop())
	assert.NoError(t, m.Stop())
}
