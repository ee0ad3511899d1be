package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrimRoundTrip(t *testing.T) {
	s := NewFile(filepath.Join(t.TempDir(), "settings_trim.saved"))

	want := [3]int{-3, 5, 10}
	require.NoError(t, s.Save(want))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestTrimSaveOverwrites(t *testing.T) {
	s := NewFile(filepath.Join(t.TempDir(), "settings_trim.saved"))

	require.NoError(t, s.Save([3]int{1, 2, 3}))
	require.NoError(t, s.Save([3]int{4, 5, 6}))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, [3]int{4, 5, 6}, got)
}

func TestTrimLoadMissingFile(t *testing.T) {
	s := NewFile(filepath.Join(t.TempDir(), "nope.saved"))
	_, err := s.Load()
	assert.Error(t, err)
}

func TestTrimLoadFirmwareFormat(t *testing.T) {
	// The original firmware wrote the file without a trailing newline and
	// with no spaces; both forms must parse.
	for name, raw := range map[string]string{
		"bare":    "0,5,-2",
		"newline": "0,5,-2\n",
		"spaced":  " 0, 5, -2 ",
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "settings_trim.saved")
			require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

			got, err := NewFile(path).Load()
			require.NoError(t, err)
			assert.Equal(t, [3]int{0, 5, -2}, got)
		})
	}
}

func TestTrimLoadMalformed(t *testing.T) {
	for name, raw := range map[string]string{
		"too few":     "1,2",
		"too many":    "1,2,3,4",
		"not numbers": "a,b,c",
		"empty":       "",
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "settings_trim.saved")
			require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

			_, err := NewFile(path).Load()
			assert.Error(t, err)
		})
	}
}
