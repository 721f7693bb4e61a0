package orderbookv1

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTime is a mutable TimeSource pinned to a fixed instant.
type stubTime struct {
	now time.Time
}

func (s *stubTime) Now() time.Time {
	return s.now
}

func at(hour, minute int) time.Time {
	return time.Date(2025, time.March, 10, hour, minute, 0, 0, time.Local)
}

func TestNewClock_Validation(t *testing.T) {
	tests := []struct {
		name   string
		hour   int
		minute int
		ok     bool
	}{
		{"valid", 15, 59, true},
		{"midnight", 0, 0, true},
		{"hour too high", 24, 0, false},
		{"hour negative", -1, 30, false},
		{"minute too high", 12, 60, false},
		{"minute negative", 12, -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClock(tt.hour, tt.minute)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidResetTime)
			}
		})
	}
}

func TestClock_ShouldResetDay(t *testing.T) {
	source := &stubTime{now: at(10, 0)}
	clock, err := NewClockWithSource(15, 59, source)
	require.NoError(t, err)

	// Before the reset instant nothing happens.
	assert.False(t, clock.ShouldResetDay())

	// At the reset instant the reset is due.
	source.now = at(15, 59)
	assert.True(t, clock.ShouldResetDay())

	// Past it, still due until marked.
	source.now = at(16, 30)
	assert.True(t, clock.ShouldResetDay())

	clock.MarkResetOccurred()
	assert.False(t, clock.ShouldResetDay())

	// The next day's instant re-arms the reset.
	source.now = at(16, 0).AddDate(0, 0, 1)
	assert.True(t, clock.ShouldResetDay())
}

func TestClock_SetResetTime(t *testing.T) {
	source := &stubTime{now: at(10, 0)}
	clock, err := NewClockWithSource(15, 59, source)
	require.NoError(t, err)

	require.NoError(t, clock.SetResetTime(9, 30))
	assert.Equal(t, 9, clock.ResetHour())
	assert.Equal(t, 30, clock.ResetMinute())

	// The clock was created at 10:00, after the new 09:30 instant, so no
	// reset is due today.
	assert.False(t, clock.ShouldResetDay())

	assert.ErrorIs(t, clock.SetResetTime(25, 0), ErrInvalidResetTime)
	assert.Equal(t, 9, clock.ResetHour())
}

func TestClock_LastResetStartsAtConstruction(t *testing.T) {
	source := &stubTime{now: at(16, 0)}
	clock, err := NewClockWithSource(15, 59, source)
	require.NoError(t, err)

	// lastReset is initialized to construction time, which is already past
	// today's reset instant.
	assert.False(t, clock.ShouldResetDay())
	assert.Equal(t, at(16, 0), clock.LastResetTime())
}
