// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package httphelpers holds small HTTP response-handling helpers shared
// by this module's outbound HTTP clients (the remote-listing API client
// in internal/materializer/listclient, spec.md §6).
package httphelpers

import (
	"io"
	"net/http"
)

// DrainAndClose consumes the remaining response body and closes it, so
// the underlying connection can be reused for the listing client's next
// request instead of being torn down.
func DrainAndClose(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
