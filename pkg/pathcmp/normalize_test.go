// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package pathcmp

import "testing"

func TestNormalizePath(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"trailing slash", "/media/movies/", "/media/movies"},
		{"backslashes", `\media\movies\a.strm`, "/media/movies/a.strm"},
		{"dot segments", "/media/./movies/../movies/a.strm", "/media/movies/a.strm"},
		{"root stays root", "/", "/"},
		{"windows drive root", `C:\Media\`, "C:/Media"},
		{"windows bare drive", "C:", "C:"},
		{"windows drive with dots", `C:\Media\..\Media\a.strm`, "C:/Media/a.strm"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := NormalizePath(c.in); got != c.want {
				t.Errorf("NormalizePath(%q) = %q, want %q", c.in, got, c.want)
			}
		})
	}
}
