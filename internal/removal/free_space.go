// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

//go:build !windows

package removal

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// DiskFree reports the bytes available to unprivileged users on the
// filesystem containing path (spec.md §4.1.2 freespace strategy,
// freespace_detect_path).
func DiskFree(path string) (int64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, fmt.Errorf("disk free %s: %w", path, err)
	}
	//nolint:gosec // disk free space never approaches int64 max
	return int64(stat.Bavail) * int64(stat.Bsize), nil
}
