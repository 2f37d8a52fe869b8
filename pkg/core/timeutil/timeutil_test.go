package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeTimeSlots(t *testing.T) {
	tests := []struct {
		name     string
		slots    []string
		expected []string
	}{
		{
			name:     "overlapping slots merge",
			slots:    []string{"08:00-10:00", "09:30-11:00"},
			expected: []string{"08:00 - 11:00"},
		},
		{
			name:     "touching slots merge",
			slots:    []string{"08:00-10:00", "10:00-12:00"},
			expected: []string{"08:00 - 12:00"},
		},
		{
			name:     "disjoint slots stay separate",
			slots:    []string{"08:00-10:00", "14:00-16:00"},
			expected: []string{"08:00 - 10:00", "14:00 - 16:00"},
		},
		{
			name:     "unparsable slot is dropped",
			slots:    []string{"invalid", "08:00-10:00"},
			expected: []string{"08:00 - 10:00"},
		},
		{
			name:     "unsorted input is sorted before merging",
			slots:    []string{"14:00-16:00", "08:00-10:00", "15:30-17:00"},
			expected: []string{"08:00 - 10:00", "14:00 - 17:00"},
		},
		{
			name:     "contained slot is absorbed",
			slots:    []string{"08:00-12:00", "09:00-10:00"},
			expected: []string{"08:00 - 12:00"},
		},
		{
			name:     "empty input",
			slots:    nil,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MergeTimeSlots(tt.slots))
		})
	}
}

func TestShiftDuration(t *testing.T) {
	rome, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)

	t.Run("plain interval", func(t *testing.T) {
		hours, err := ShiftDuration("2025-01-01T08:00:00", "2025-01-01T16:30:00", rome)
		require.NoError(t, err)
		assert.Equal(t, 8.5, hours)
	})

	t.Run("spring forward loses the skipped hour", func(t *testing.T) {
		hours, err := ShiftDuration("2025-03-30T01:00:00", "2025-03-30T04:00:00", rome)
		require.NoError(t, err)
		assert.Equal(t, 2.0, hours)
	})

	t.Run("fall back date with both timestamps past the transition", func(t *testing.T) {
		hours, err := ShiftDuration("2025-10-26T01:00:00", "2025-10-26T04:00:00", rome)
		require.NoError(t, err)
		assert.Equal(t, 4.0, hours)
	})

	t.Run("end past midnight rolls to next day", func(t *testing.T) {
		hours, err := ShiftDuration("2025-01-01T22:00:00", "2025-01-01T02:00:00", rome)
		require.NoError(t, err)
		assert.Equal(t, 4.0, hours)
	})

	t.Run("invalid start", func(t *testing.T) {
		_, err := ShiftDuration("not-a-timestamp", "2025-01-01T02:00:00", rome)
		assert.Error(t, err)
	})
}
