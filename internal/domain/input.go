package domain

import "time"

// InputState holds the most recent human input signals observed from the
// host editor. It is a plain value so tests can construct arbitrary input
// histories; the editor feed adapter owns the live instance.
type InputState struct {
	LastKeystroke         time.Time
	LastManualInteraction time.Time
	LastPaste             time.Time
}

// Keystroke records a physical keystroke. A keystroke is also a manual
// interaction for idle-detection purposes.
func (s *InputState) Keystroke(now time.Time) {
	s.LastKeystroke = now
	s.LastManualInteraction = now
}

// ManualInteraction records a non-typing interaction such as a selection
// change.
func (s *InputState) ManualInteraction(now time.Time) {
	s.LastManualInteraction = now
}

// Paste records a paste event.
func (s *InputState) Paste(now time.Time) {
	s.LastPaste = now
}

// SinceKeystroke returns the elapsed time since the last keystroke.
func (s *InputState) SinceKeystroke(now time.Time) time.Duration {
	return elapsed(now, s.LastKeystroke)
}

// SincePaste returns the elapsed time since the last paste.
func (s *InputState) SincePaste(now time.Time) time.Duration {
	return elapsed(now, s.LastPaste)
}

// SinceHumanInput returns the elapsed time since the most recent keystroke
// or manual interaction, whichever is later.
func (s *InputState) SinceHumanInput(now time.Time) time.Duration {
	last := s.LastKeystroke
	if s.LastManualInteraction.After(last) {
		last = s.LastManualInteraction
	}
	return elapsed(now, last)
}

func elapsed(now, last time.Time) time.Duration {
	if last.IsZero() {
		// No signal observed yet; report an effectively infinite gap.
		return time.Duration(1<<63 - 1)
	}
	return now.Sub(last)
}
