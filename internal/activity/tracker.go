// Package activity classifies elapsed session time into typing, reviewing
// and idle, including the retroactive "zombie revival" credit for idle gaps
// spent waiting on an automated response.
package activity

import (
	"sync"
	"time"

	"github.com/mkidding/vibertime/internal/clock"
	"github.com/mkidding/vibertime/internal/domain"
	"github.com/mkidding/vibertime/internal/ports"
)

const (
	// DefaultIdleTimeout is how long without human input before the
	// session counts as idle.
	DefaultIdleTimeout = 30 * time.Second

	// DefaultZombieWindow is how long after activity stops an idle gap
	// can still be revived by a machine-origin edit. Past the window the
	// dead time is permanently lost.
	DefaultZombieWindow = 5 * time.Minute

	// typingThreshold separates "actively pressing keys" from "watching
	// completions appear" while still counted as present.
	typingThreshold = 2 * time.Second
)

// Config holds the tracker's timing thresholds.
type Config struct {
	IdleTimeout  time.Duration
	ZombieWindow time.Duration
}

// Tracker is the activity state machine. It is driven by a fixed 1-second
// tick plus focus and document-change events.
type Tracker struct {
	store ports.StatsStore
	input ports.InputMonitor
	clock clock.Clock
	cfg   Config

	mu          sync.Mutex
	focused     bool
	zombieSince time.Time // zero = not dead
}

// NewTracker creates a tracker. Zero config values fall back to defaults.
func NewTracker(store ports.StatsStore, input ports.InputMonitor, clk clock.Clock, cfg Config) *Tracker {
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.ZombieWindow <= 0 {
		cfg.ZombieWindow = DefaultZombieWindow
	}
	return &Tracker{
		store:   store,
		input:   input,
		clock:   clk,
		cfg:     cfg,
		focused: true,
	}
}

// SetFocused records a window focus change. It does not force an immediate
// idle transition; the idle timeout is left to expire naturally so a brief
// switch to a terminal and back does not interrupt an active session.
func (t *Tracker) SetFocused(focused bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.focused = focused
}

// Tick credits one second of session time. Called on a fixed 1-second
// period independent of all other components.
func (t *Tracker) Tick() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.Now()
	sinceInput := t.input.SinceHumanInput(now)

	if t.focused && sinceInput < t.cfg.IdleTimeout {
		t.zombieSince = time.Time{}
		typing := sinceInput < typingThreshold
		t.store.UpdateToday(func(s *domain.DailyStats) {
			s.ActiveSeconds++
			if typing {
				s.TypingSeconds++
			} else {
				s.ReviewingSeconds++
			}
		})
		return
	}

	// Idle or unfocused: mark the time of death once and leave it. The
	// session stays dead until a revival event or until the window
	// elapses.
	if t.zombieSince.IsZero() {
		t.zombieSince = now
	}
}

// ObserveEdit evaluates zombie revival for a classified document change,
// independent of the tick. A machine-origin edit inside the revival window
// retroactively credits the idle gap as observation time; any human-driven
// edit ends the zombie window without credit.
func (t *Tracker) ObserveEdit(p domain.Provenance) {
	if p == domain.ProvenanceNone {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.zombieSince.IsZero() {
		return
	}

	if p.MachineOrigin() {
		dead := t.clock.Now().Sub(t.zombieSince)
		if dead < t.cfg.ZombieWindow {
			secs := int64(dead / time.Second)
			if secs > 0 {
				t.store.UpdateToday(func(s *domain.DailyStats) {
					s.ActiveSeconds += secs
					s.ReviewingSeconds += secs
				})
			}
		}
	}
	t.zombieSince = time.Time{}
}
