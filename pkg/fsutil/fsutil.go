// Package fsutil provides file naming and atomic write helpers shared by
// the capture and extract commands.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/devicelab-dev/pagescout/pkg/core"
)

// WriteAtomic writes data to path via a temp file in the same directory
// followed by a rename, so a failed write never leaves a partial file.
func WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return core.ErrWriteFailed.WithCause(err).WithDetails(map[string]interface{}{
			"path": path,
		})
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return core.ErrWriteFailed.WithCause(err).WithDetails(map[string]interface{}{
			"path": path,
		})
	}
	return nil
}

// NextSequenceName returns the first unused "<prefix>_<n><ext>" name in dir,
// counting from 1. Existing files are never overwritten.
func NextSequenceName(dir, prefix, ext string) string {
	for n := 1; ; n++ {
		name := filepath.Join(dir, fmt.Sprintf("%s_%d%s", prefix, n, ext))
		if _, err := os.Stat(name); os.IsNotExist(err) {
			return name
		}
	}
}

// RunDir returns a timestamp-based subdirectory of base for one invocation,
// e.g. snapshots/2026-08-30_14-02-11.
func RunDir(base string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(base, timestamp)
}
