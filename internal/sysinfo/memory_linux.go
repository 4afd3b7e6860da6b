//go:build linux

package sysinfo

import (
	"fmt"

	"golang.org/x/sys/unix"
)

func totalMemory() (int64, error) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, fmt.Errorf("sysinfo: %w", err)
	}
	return int64(uint64(info.Totalram) * uint64(info.Unit)), nil
}
