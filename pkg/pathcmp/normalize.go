// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package pathcmp normalizes the local target paths the materializer
// computes (spec.md §4.2.3) so repeated runs over the same remote tree
// produce byte-identical strings regardless of separator style.
// target_dir is host-supplied config and may be a Windows path even
// when this binary itself runs on Linux, so normalization works on
// forward-slash path semantics rather than the build host's filepath
// package.
package pathcmp

import (
	"path"
	"strings"
)

// NormalizePath normalizes a file path for comparison by:
//   - converting backslashes to forward slashes
//   - removing trailing slashes (preserving Windows drive roots like C:/)
//   - cleaning the path (removing . and .. where possible)
func NormalizePath(p string) string {
	if p == "" {
		return ""
	}
	p = strings.ReplaceAll(p, "\\", "/")

	if drive, rest, ok := splitWindowsDrive(p); ok {
		if rest == "" {
			return drive
		}
		rest = path.Clean(rest)
		if rest == "/" || rest == "." {
			return drive + "/"
		}
		return drive + rest
	}

	p = path.Clean(p)
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}

// splitWindowsDrive reports whether p starts with a drive letter ("C:"),
// returning the two-byte drive prefix and whatever follows it.
func splitWindowsDrive(p string) (drive, rest string, ok bool) {
	if len(p) < 2 {
		return "", "", false
	}
	c := p[0]
	if !((c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')) || p[1] != ':' {
		return "", "", false
	}
	return p[:2], p[2:], true
}
