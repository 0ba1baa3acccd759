// Package filex contains filesystem helpers for locating and preparing the
// client's data directory and for reading user-selected files.
package filex

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// userConfigDir is a test seam for os.UserConfigDir.
var userConfigDir = os.UserConfigDir

// DefaultDataDir returns <user config dir>/<app>. It falls back to a dot
// directory in the working directory when the platform has no config dir.
func DefaultDataDir(app string) string {
	base, err := userConfigDir()
	if err != nil || base == "" {
		return "." + app
	}
	return filepath.Join(base, app)
}

// EnsureDir creates dir (and parents) with owner-only permissions if it does
// not already exist and returns its absolute path.
func EnsureDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}
	return abs, nil
}

// ReadHead reads up to n bytes from the start of r. A short file is not an
// error; the returned slice is simply shorter.
func ReadHead(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	read, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buf[:read], nil
}
