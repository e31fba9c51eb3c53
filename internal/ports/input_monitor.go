package ports

import "time"

// InputMonitor exposes elapsed-time queries over the most recent human
// input signals from the host editor.
type InputMonitor interface {
	// SinceHumanKeystroke returns the time since the last physical
	// keystroke.
	SinceHumanKeystroke(now time.Time) time.Duration

	// SincePaste returns the time since the last paste event.
	SincePaste(now time.Time) time.Duration

	// SinceHumanInput returns the time since the last keystroke or
	// manual interaction, whichever is more recent.
	SinceHumanInput(now time.Time) time.Duration
}
