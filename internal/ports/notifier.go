package ports

import "time"

// Notifier presents deadline alerts to the user.
type Notifier interface {
	// SoftNudge emits a non-blocking warning that the deadline is the
	// given lead time away.
	SoftNudge(lead time.Duration)

	// PromptHardStop presents the blocking stop-working dialog and
	// returns the chosen snooze duration in minutes. 0 means the dialog
	// was dismissed; the caller applies the configured auto-snooze.
	PromptHardStop() int
}
