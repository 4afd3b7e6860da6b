//go:build !linux

package sysinfo

import "errors"

func totalMemory() (int64, error) {
	return 0, errors.New("total memory detection is only supported on linux")
}
