// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package listclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListDecodesSuccessEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/fs/list", r.URL.Path)
		var req listRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "/src", req.Path)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(listEnvelope{
			Code: 200,
			Data: struct {
				Content []Entry `json:"content"`
			}{Content: []Entry{{Name: "a.mkv", Size: 100}}},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "tok", 0)
	entries, err := c.List(context.Background(), "/src")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.mkv", entries[0].Name)
}

func TestListReturnsErrorOnNonEnvelopeCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(listEnvelope{Code: 500})
	}))
	defer srv.Close()

	c := New(srv.URL, "", 0)
	_, err := c.List(context.Background(), "/src")
	assert.Error(t, err)
}

func TestListReturnsErrorOnNon200HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, "", 0)
	_, err := c.List(context.Background(), "/src")
	assert.Error(t, err)
}
