// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package domain

// RemoteEntry is a single file or directory produced by the remote tree
// traverser (spec.md §3, §4.2.2).
type RemoteEntry struct {
	Path        string // absolute path in the remote namespace
	IsDir       bool
	Name        string
	Suffix      string // "." + last dotted segment; empty for directories
	DownloadURL string // base + "/d" + path + optional "?sign=..."
}

// TraversalFrontierEntry is one item of the BFS/DFS frontier queue
// (spec.md §3 "TraversalState").
type TraversalFrontierEntry struct {
	DirPath string // stored with a trailing "/"
	Depth   int    // 0 at source_dir
}
