package contract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetColorLabel(t *testing.T) {
	tests := []struct {
		name  string
		label string
	}{
		{"leader", LeaderValue},
		{"points", PointsValue},
		{"mountain", MountainValue},
		{"unknown", "Lanterne"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GetColorLabel(tt.label)
			// Should contain the plain label
			assert.Contains(t, result, tt.label)
		})
	}
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("empty path returns stdout", func(t *testing.T) {
		file, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, file)
	})

	t.Run("valid path creates file", func(t *testing.T) {
		tempFile := filepath.Join(t.TempDir(), "test_output.txt")

		file, err := SelectOutputFile(tempFile)
		require.NoError(t, err)
		assert.NotNil(t, file)
		_ = file.Close()

		// Verify file was created
		_, err = os.Stat(tempFile)
		assert.NoError(t, err)
	})
}

func TestGetArchiveDBFilePath(t *testing.T) {
	path := GetArchiveDBFilePath()

	assert.NotEmpty(t, path)
	assert.Contains(t, path, ".peloton_archive.db")

	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, homeDir), "path %s should start with home dir %s", path, homeDir)
}

func TestTruncateName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		width    int
		expected string
	}{
		{"fits", "Pogacar", 10, "Pogacar"},
		{"exact", "Vingegaard", 10, "Vingegaard"},
		{"truncated", "Van der Poel", 10, "Van der..."},
		{"width too small", "Evenepoel", 3, "Evenepoel"},
		{"unicode", "Ålvarez Ñúñez", 8, "Ålvar..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TruncateName(tt.input, tt.width))
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Duration
		expected string
	}{
		{"zero", 0, "0:00:00"},
		{"one hour", time.Hour, "1:00:00"},
		{"hours carry", 26*time.Hour + 3*time.Minute + 7*time.Second, "26:03:07"},
		{"milliseconds", 4*time.Minute + 500*time.Millisecond, "0:04:00.500"},
		{"negative", -90 * time.Second, "-0:01:30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatDuration(tt.input))
		})
	}
}

func TestFormatGap(t *testing.T) {
	assert.Equal(t, "", FormatGap(0))
	assert.Equal(t, "+0:00:42", FormatGap(42*time.Second))
}

func TestParseBoolString(t *testing.T) {
	tests := []struct {
		input       string
		expected    bool
		expectError bool
	}{
		{"yes", true, false},
		{"TRUE", true, false},
		{"1", true, false},
		{"no", false, false},
		{"False", false, false},
		{"0", false, false},
		{"maybe", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBoolString(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
