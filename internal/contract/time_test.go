package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var stageStart = time.Date(2026, time.July, 4, 9, 0, 0, 0, time.UTC)

func TestParseStartTime(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    time.Time
		expectError bool
	}{
		{"rfc3339", "2026-07-04T09:00:00Z", stageStart, false},
		{"rfc3339 with offset", "2026-07-04T11:00:00+02:00", stageStart, false},
		{"no zone", "2026-07-04T09:00:00", stageStart, false},
		{"space separated", "2026-07-04 09:00", stageStart, false},
		{"garbage", "next tuesday", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStartTime(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestParseCheckpointTimes(t *testing.T) {
	t.Run("times of day anchored on stage date", func(t *testing.T) {
		got, err := ParseCheckpointTimes(stageStart, []string{"09:00:00", "09:45:10", "10:00:00.5"})
		require.NoError(t, err)
		assert.Equal(t, []time.Time{
			stageStart,
			stageStart.Add(45*time.Minute + 10*time.Second),
			stageStart.Add(time.Hour + 500*time.Millisecond),
		}, got)
	})

	t.Run("rolls over midnight", func(t *testing.T) {
		late := time.Date(2026, time.July, 4, 23, 0, 0, 0, time.UTC)
		got, err := ParseCheckpointTimes(late, []string{"23:00", "00:30"})
		require.NoError(t, err)
		assert.Equal(t, late.Add(90*time.Minute), got[1])
	})

	t.Run("absolute timestamps kept", func(t *testing.T) {
		got, err := ParseCheckpointTimes(stageStart, []string{"2026-07-04T09:00:00Z", "10:00"})
		require.NoError(t, err)
		assert.Equal(t, stageStart.Add(time.Hour), got[1])
	})

	t.Run("invalid value reports position", func(t *testing.T) {
		_, err := ParseCheckpointTimes(stageStart, []string{"09:00", "soon"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "timestamp 2")
	})

	t.Run("empty input", func(t *testing.T) {
		got, err := ParseCheckpointTimes(stageStart, nil)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func FuzzParseCheckpointTimes(f *testing.F) {
	f.Add("09:00:00", "10:00:00")
	f.Add("23:59", "00:01")
	f.Add("2026-07-04T09:00:00Z", "bogus")
	f.Fuzz(func(t *testing.T, a, b string) {
		got, err := ParseCheckpointTimes(stageStart, []string{a, b})
		if err != nil {
			return
		}
		assert.Len(t, got, 2)
	})
}
