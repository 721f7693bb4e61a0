package orderbookv1

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidResetTime is returned for reset hours outside [0,23] or minutes
// outside [0,59].
var ErrInvalidResetTime = errors.New("invalid reset time")

// TimeSource supplies the current time. The book takes it as an interface so
// tests can pin the clock.
type TimeSource interface {
	Now() time.Time
}

// SystemTime is the wall-clock TimeSource.
type SystemTime struct{}

// Now returns the current wall-clock time.
func (SystemTime) Now() time.Time {
	return time.Now()
}

// Clock tracks the daily reset instant used to expire good-for-day orders.
// The reset instant is computed in the local civil calendar of the time
// source's values.
type Clock struct {
	source      TimeSource
	resetHour   int
	resetMinute int
	lastReset   time.Time
}

// NewClock creates a clock on the system time source.
func NewClock(resetHour, resetMinute int) (*Clock, error) {
	return NewClockWithSource(resetHour, resetMinute, SystemTime{})
}

// NewClockWithSource creates a clock on a caller-supplied time source.
func NewClockWithSource(resetHour, resetMinute int, source TimeSource) (*Clock, error) {
	if err := validateResetTime(resetHour, resetMinute); err != nil {
		return nil, err
	}
	return &Clock{
		source:      source,
		resetHour:   resetHour,
		resetMinute: resetMinute,
		lastReset:   source.Now(),
	}, nil
}

// ShouldResetDay reports whether the last reset happened before today's
// configured reset instant and the current time is at or past it.
func (c *Clock) ShouldResetDay() bool {
	now := c.source.Now()
	todayReset := time.Date(now.Year(), now.Month(), now.Day(), c.resetHour, c.resetMinute, 0, 0, now.Location())
	return c.lastReset.Before(todayReset) && !now.Before(todayReset)
}

// MarkResetOccurred records that the daily reset ran.
func (c *Clock) MarkResetOccurred() {
	c.lastReset = c.source.Now()
}

// SetResetTime changes the configured reset instant.
func (c *Clock) SetResetTime(hour, minute int) error {
	if err := validateResetTime(hour, minute); err != nil {
		return err
	}
	c.resetHour = hour
	c.resetMinute = minute
	return nil
}

// ResetHour returns the configured reset hour.
func (c *Clock) ResetHour() int {
	return c.resetHour
}

// ResetMinute returns the configured reset minute.
func (c *Clock) ResetMinute() int {
	return c.resetMinute
}

// LastResetTime returns when the last reset was recorded.
func (c *Clock) LastResetTime() time.Time {
	return c.lastReset
}

func validateResetTime(hour, minute int) error {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return fmt.Errorf("%w: hour must be 0-23 and minute 0-59, got %d:%d", ErrInvalidResetTime, hour, minute)
	}
	return nil
}
