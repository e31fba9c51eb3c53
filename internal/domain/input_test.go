package domain

import (
	"testing"
	"time"
)

func TestInputState_ElapsedQueries(t *testing.T) {
	base := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	var s InputState
	s.Keystroke(base)
	s.Paste(base.Add(2 * time.Second))
	s.ManualInteraction(base.Add(5 * time.Second))

	now := base.Add(6 * time.Second)

	if got := s.SinceKeystroke(now); got != 6*time.Second {
		t.Errorf("SinceKeystroke() = %v, want 6s", got)
	}
	if got := s.SincePaste(now); got != 4*time.Second {
		t.Errorf("SincePaste() = %v, want 4s", got)
	}
	// Manual interaction is more recent than the keystroke.
	if got := s.SinceHumanInput(now); got != time.Second {
		t.Errorf("SinceHumanInput() = %v, want 1s", got)
	}
}

func TestInputState_NoSignalYet(t *testing.T) {
	var s InputState
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	if got := s.SinceKeystroke(now); got < 24*time.Hour {
		t.Errorf("SinceKeystroke() = %v, want an effectively infinite gap", got)
	}
	if got := s.SincePaste(now); got < 24*time.Hour {
		t.Errorf("SincePaste() = %v, want an effectively infinite gap", got)
	}
}

func TestDocumentChange_InsertedLines(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected int
	}{
		{"empty", "", 0},
		{"single line", "x := 1", 0},
		{"two newlines", "a\nb\nc", 2},
		{"trailing newline", "line\n", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DocumentChange{Text: tt.text}
			if got := c.InsertedLines(); got != tt.expected {
				t.Errorf("InsertedLines() = %d, want %d", got, tt.expected)
			}
		})
	}
}
