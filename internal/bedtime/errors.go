package bedtime

import "errors"

var (
	// ErrSnoozeTooEarly is returned when a snooze is requested more than
	// 30 minutes before the deadline, which indicates a stale UI showing
	// an old deadline.
	ErrSnoozeTooEarly = errors.New("too early to snooze: deadline is more than 30 minutes away")

	// ErrSnoozeStale is returned when a snooze is requested more than
	// 2 hours after the deadline. The morning after should trigger a
	// full daily reset instead of a snooze.
	ErrSnoozeStale = errors.New("stale snooze: deadline passed more than 2 hours ago, reset for the new day instead")
)
