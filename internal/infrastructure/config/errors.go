package config

import "errors"

var (
	// ErrInvalidBedtime is returned when the bedtime does not parse as HH:MM.
	ErrInvalidBedtime = errors.New("bedtime must be HH:MM")

	// ErrInvalidDayStartHour is returned when the day-start hour is outside 0-23.
	ErrInvalidDayStartHour = errors.New("day start hour must be between 0 and 23")

	// ErrInvalidIdleTimeout is returned when the idle timeout is not positive.
	ErrInvalidIdleTimeout = errors.New("idle timeout must be at least 1 second")
)
