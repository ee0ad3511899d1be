// Package store persists the per-leg trim calibration between restarts.
//
// The on-disk format is the one the original firmware used: a single line of
// three comma-separated signed integers, left, mid, right. Keeping it means
// an already-calibrated robot keeps its trim across an upgrade.
package store

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// File persists trim values to a small text file.
type File struct {
	path string
}

// NewFile returns a trim store backed by the file at path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Load reads the persisted trim values. A missing or malformed file is an
// error; the caller keeps its configured defaults in that case.
func (s *File) Load() ([3]int, error) {
	var trim [3]int

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return trim, fmt.Errorf("store: reading %s: %w", s.path, err)
	}

	fields := strings.Split(strings.TrimSpace(string(raw)), ",")
	if len(fields) != 3 {
		return trim, fmt.Errorf("store: expected 3 trim values in %s, got %d", s.path, len(fields))
	}
	for i, field := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return trim, fmt.Errorf("store: bad trim value %q in %s: %w", field, s.path, err)
		}
		trim[i] = v
	}
	return trim, nil
}

// Save writes the trim values, replacing any previous content.
func (s *File) Save(trim [3]int) error {
	parts := make([]string, len(trim))
	for i, v := range trim {
		parts[i] = strconv.Itoa(v)
	}
	if err := os.WriteFile(s.path, []byte(strings.Join(parts, ",")+"\n"), 0o644); err != nil {
		return fmt.Errorf("store: writing %s: %w", s.path, err)
	}
	return nil
}

// Path returns the backing file path.
func (s *File) Path() string {
	return s.path
}
