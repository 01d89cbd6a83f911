//go:build !unix && !windows

// Package mmfile provides platform-specific helpers for memory-mapping the
// Xbox ESM input read-only, so esm.Convert can handle multi-hundred-MB
// masters without a full-file copy.
package mmfile

import "os"

// Map reads the entire file when mmap is not available.
func Map(path string) ([]byte, func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, func() error { return nil }, err
	}
	return data, func() error { return nil }, nil
}
