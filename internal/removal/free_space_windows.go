// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

//go:build windows

package removal

import (
	"fmt"
	"syscall"
	"unsafe"
)

// DiskFree reports the bytes available to the current user on the volume
// containing path (spec.md §4.1.2 freespace strategy).
func DiskFree(path string) (int64, error) {
	kernel32 := syscall.NewLazyDLL("kernel32.dll")
	proc := kernel32.NewProc("GetDiskFreeSpaceExW")

	pathPtr, err := syscall.UTF16PtrFromString(path)
	if err != nil {
		return 0, fmt.Errorf("disk free %s: %w", path, err)
	}

	var freeBytesAvailable uint64
	ret, _, err := proc.Call(
		uintptr(unsafe.Pointer(pathPtr)),
		uintptr(unsafe.Pointer(&freeBytesAvailable)),
		0,
		0,
	)
	if ret == 0 {
		return 0, fmt.Errorf("disk free %s: %w", path, err)
	}
	return int64(freeBytesAvailable), nil
}
