package activity

import (
	"sync"
	"testing"
	"time"

	"github.com/mkidding/vibertime/internal/clock"
	"github.com/mkidding/vibertime/internal/domain"
)

type memStore struct {
	mu    sync.Mutex
	stats domain.DailyStats
}

func (m *memStore) Today() domain.DailyStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

func (m *memStore) UpdateToday(mutate func(*domain.DailyStats)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mutate(&m.stats)
}

// stubInput reports a fixed elapsed time since the last human input.
type stubInput struct {
	sinceInput time.Duration
}

func (s *stubInput) SinceHumanKeystroke(time.Time) time.Duration { return s.sinceInput }
func (s *stubInput) SincePaste(time.Time) time.Duration          { return s.sinceInput }
func (s *stubInput) SinceHumanInput(time.Time) time.Duration     { return s.sinceInput }

func newTestTracker(input *stubInput) (*Tracker, *memStore, *clock.Manual) {
	store := &memStore{}
	clk := clock.NewManual(time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))
	tr := NewTracker(store, input, clk, Config{})
	return tr, store, clk
}

func TestTick_TypingVsReviewing(t *testing.T) {
	tests := []struct {
		name       string
		sinceInput time.Duration
		typing     int64
		reviewing  int64
	}{
		{"fresh keypress counts as typing", 500 * time.Millisecond, 1, 0},
		{"just under the typing threshold", 1999 * time.Millisecond, 1, 0},
		{"watching completions counts as reviewing", 2 * time.Second, 0, 1},
		{"long gap still inside idle timeout", 29 * time.Second, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, store, _ := newTestTracker(&stubInput{sinceInput: tt.sinceInput})
			tr.Tick()

			stats := store.Today()
			if stats.ActiveSeconds != 1 {
				t.Errorf("ActiveSeconds = %d, want 1", stats.ActiveSeconds)
			}
			if stats.TypingSeconds != tt.typing {
				t.Errorf("TypingSeconds = %d, want %d", stats.TypingSeconds, tt.typing)
			}
			if stats.ReviewingSeconds != tt.reviewing {
				t.Errorf("ReviewingSeconds = %d, want %d", stats.ReviewingSeconds, tt.reviewing)
			}
		})
	}
}

func TestTick_IdleCreditsNothing(t *testing.T) {
	tr, store, _ := newTestTracker(&stubInput{sinceInput: time.Minute})

	for i := 0; i < 10; i++ {
		tr.Tick()
	}
	if store.Today() != (domain.DailyStats{}) {
		t.Errorf("idle ticks mutated the ledger: %+v", store.Today())
	}
}

func TestTick_UnfocusedCreditsNothing(t *testing.T) {
	tr, store, _ := newTestTracker(&stubInput{sinceInput: 0})
	tr.SetFocused(false)

	tr.Tick()
	if store.Today() != (domain.DailyStats{}) {
		t.Errorf("unfocused tick mutated the ledger: %+v", store.Today())
	}
}

func TestTick_ActivityInvariant(t *testing.T) {
	// typing + reviewing == active at every tick, across a mixed run.
	input := &stubInput{}
	tr, store, clk := newTestTracker(input)

	gaps := []time.Duration{
		0, time.Second, 3 * time.Second, 500 * time.Millisecond,
		time.Minute, 10 * time.Second, 0, 45 * time.Second, 25 * time.Second,
	}
	for _, gap := range gaps {
		input.sinceInput = gap
		tr.Tick()
		clk.Advance(time.Second)

		stats := store.Today()
		if stats.TypingSeconds+stats.ReviewingSeconds != stats.ActiveSeconds {
			t.Fatalf("invariant violated: typing=%d reviewing=%d active=%d",
				stats.TypingSeconds, stats.ReviewingSeconds, stats.ActiveSeconds)
		}
	}
}

func TestObserveEdit_ZombieRevival(t *testing.T) {
	input := &stubInput{sinceInput: time.Minute}
	tr, store, clk := newTestTracker(input)

	// First idle tick marks the time of death.
	tr.Tick()
	// Further idle ticks must not move the marker.
	clk.Advance(30 * time.Second)
	tr.Tick()

	clk.Advance(60 * time.Second)
	tr.ObserveEdit(domain.ProvenanceAIGenerated)

	// 90 seconds dead, revived in full.
	stats := store.Today()
	if stats.ActiveSeconds != 90 {
		t.Errorf("ActiveSeconds = %d, want 90", stats.ActiveSeconds)
	}
	if stats.ReviewingSeconds != 90 {
		t.Errorf("ReviewingSeconds = %d, want 90", stats.ReviewingSeconds)
	}
	if stats.TypingSeconds != 0 {
		t.Errorf("TypingSeconds = %d, want 0", stats.TypingSeconds)
	}
}

func TestObserveEdit_RevivalCreditIsFloored(t *testing.T) {
	input := &stubInput{sinceInput: time.Minute}
	tr, store, clk := newTestTracker(input)

	tr.Tick()
	clk.Advance(2500 * time.Millisecond)
	tr.ObserveEdit(domain.ProvenanceAIEdited)

	if got := store.Today().ActiveSeconds; got != 2 {
		t.Errorf("ActiveSeconds = %d, want 2 (floor of 2.5s)", got)
	}
}

func TestObserveEdit_NoCreditPastWindow(t *testing.T) {
	input := &stubInput{sinceInput: time.Minute}
	tr, store, clk := newTestTracker(input)

	tr.Tick()
	clk.Advance(DefaultZombieWindow)
	tr.ObserveEdit(domain.ProvenanceAIGenerated)

	if store.Today() != (domain.DailyStats{}) {
		t.Errorf("expired zombie still credited: %+v", store.Today())
	}

	// The marker was abandoned; a later machine edit must not revive a
	// gap measured from the stale time of death.
	clk.Advance(10 * time.Second)
	tr.ObserveEdit(domain.ProvenanceAIGenerated)
	if store.Today() != (domain.DailyStats{}) {
		t.Errorf("credit leaked past the revival window: %+v", store.Today())
	}
}

func TestObserveEdit_HumanEditClearsWithoutCredit(t *testing.T) {
	input := &stubInput{sinceInput: time.Minute}
	tr, store, clk := newTestTracker(input)

	tr.Tick()
	clk.Advance(time.Minute)
	tr.ObserveEdit(domain.ProvenanceHumanTyped)

	if store.Today() != (domain.DailyStats{}) {
		t.Errorf("human edit credited revival time: %+v", store.Today())
	}

	// The zombie window is over: a machine edit right after gets nothing.
	tr.ObserveEdit(domain.ProvenanceAIGenerated)
	if store.Today() != (domain.DailyStats{}) {
		t.Errorf("marker survived a human edit: %+v", store.Today())
	}
}

func TestObserveEdit_NoneLeavesMarker(t *testing.T) {
	input := &stubInput{sinceInput: time.Minute}
	tr, store, clk := newTestTracker(input)

	tr.Tick()
	clk.Advance(time.Minute)
	// Discarded events (undo/redo) must not touch the zombie state.
	tr.ObserveEdit(domain.ProvenanceNone)

	clk.Advance(time.Minute)
	tr.ObserveEdit(domain.ProvenanceAIGenerated)

	if got := store.Today().ActiveSeconds; got != 120 {
		t.Errorf("ActiveSeconds = %d, want 120", got)
	}
}

func TestTick_ActiveClearsZombie(t *testing.T) {
	input := &stubInput{sinceInput: time.Minute}
	tr, store, clk := newTestTracker(input)

	tr.Tick() // marks death
	clk.Advance(time.Minute)

	// User comes back and types: the active tick clears the marker.
	input.sinceInput = 0
	tr.Tick()

	clk.Advance(time.Second)
	tr.ObserveEdit(domain.ProvenanceAIGenerated)

	stats := store.Today()
	if stats.ActiveSeconds != 1 {
		t.Errorf("ActiveSeconds = %d, want 1 (no revival credit)", stats.ActiveSeconds)
	}
}
