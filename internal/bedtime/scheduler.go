// Package bedtime enforces a configured stop-working deadline with a soft
// advance warning, a blocking hard stop, bounded snooze and anti-spam
// guards. It is fully independent of the statistics components.
package bedtime

import (
	"sync"
	"time"

	"github.com/mkidding/vibertime/internal/clock"
	"github.com/mkidding/vibertime/internal/ports"
)

const (
	// hardStopGrace delays the hard stop 2 seconds past the exact
	// deadline; hardStopWindow closes the firing window 60 seconds past
	// it so time travel far beyond the deadline cannot fire a stale alert.
	hardStopGrace  = 2 * time.Second
	hardStopWindow = time.Minute

	// nudgeTolerance is how close to the lead mark the 1-second tick has
	// to land for the soft nudge to fire.
	nudgeTolerance = 1500 * time.Millisecond

	// nudgeRearm re-arms the soft nudge once the deadline sits more than
	// a minute beyond the nudge mark again, e.g. after a snooze.
	nudgeRearm = time.Minute

	snoozeEarlyLimit = 30 * time.Minute
	snoozeStaleLimit = 2 * time.Hour

	// DefaultNudgeLead is the advance warning before the deadline.
	DefaultNudgeLead = 30 * time.Minute

	// DefaultAutoSnooze applies when the hard-stop dialog is dismissed
	// without an explicit choice.
	DefaultAutoSnooze = 30 * time.Minute
)

// Config holds the scheduler's deadline parameters.
type Config struct {
	// BedtimeHour and BedtimeMinute define the stop-working time of day.
	BedtimeHour   int
	BedtimeMinute int

	// DayStartHour defines the session-day boundary: hours before it
	// belong to the previous calendar date.
	DayStartHour int

	NudgeLead  time.Duration
	AutoSnooze time.Duration
}

// Scheduler is the deadline state machine. One persistent variable
// (snoozedUntil) plus two one-shot flags.
type Scheduler struct {
	clock    clock.Clock
	notifier ports.Notifier
	logger   ports.Logger
	cfg      Config

	mu           sync.Mutex
	snoozedUntil time.Time
	softFired    bool
	hardActive   bool
	debugOffset  time.Duration
}

// NewScheduler creates a scheduler. Zero lead/auto-snooze values fall back
// to defaults.
func NewScheduler(clk clock.Clock, notifier ports.Notifier, logger ports.Logger, cfg Config) *Scheduler {
	if cfg.NudgeLead <= 0 {
		cfg.NudgeLead = DefaultNudgeLead
	}
	if cfg.AutoSnooze <= 0 {
		cfg.AutoSnooze = DefaultAutoSnooze
	}
	return &Scheduler{
		clock:    clk,
		notifier: notifier,
		logger:   logger,
		cfg:      cfg,
	}
}

// SetDebugOffset shifts every time read by d, enabling deterministic
// deadline testing without waiting real time. 0 in production.
func (s *Scheduler) SetDebugOffset(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debugOffset = d
}

// TargetDeadline returns the active deadline: the snooze target if one is
// set, otherwise the configured bedtime resolved against the session day.
func (s *Scheduler) TargetDeadline() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.targetDeadlineLocked(s.nowLocked())
}

// MinutesUntilDeadline returns whole minutes until the deadline, negative
// once it has passed.
func (s *Scheduler) MinutesUntilDeadline() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.nowLocked()
	return int(s.targetDeadlineLocked(now).Sub(now) / time.Minute)
}

// Snooze pushes the deadline to now + minutes. A new snooze always
// overwrites any prior one; snoozes do not stack.
func (s *Scheduler) Snooze(minutes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snoozedUntil = s.nowLocked().Add(time.Duration(minutes) * time.Minute)
}

// Reset clears the snooze and re-arms the soft nudge, e.g. on an explicit
// new-day action.
func (s *Scheduler) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snoozedUntil = time.Time{}
	s.softFired = false
}

// HandleSnooze validates a user-facing snooze click against the deadline
// the UI showed, then applies it. Guards against stale UI state in both
// directions.
func (s *Scheduler) HandleSnooze(target time.Time, minutes int) error {
	s.mu.Lock()
	now := s.nowLocked()
	s.mu.Unlock()

	if now.Before(target.Add(-snoozeEarlyLimit)) {
		return ErrSnoozeTooEarly
	}
	if now.After(target.Add(snoozeStaleLimit)) {
		return ErrSnoozeStale
	}
	s.Snooze(minutes)
	return nil
}

// Tick evaluates the deadline. Called on a fixed 1-second period.
func (s *Scheduler) Tick() {
	s.mu.Lock()
	now := s.nowLocked()
	diff := s.targetDeadlineLocked(now).Sub(now)

	fireHard := false
	if diff <= -hardStopGrace && diff > -hardStopWindow && !s.hardActive {
		s.hardActive = true
		fireHard = true
	}

	fireSoft := false
	delta := diff - s.cfg.NudgeLead
	if delta < 0 {
		delta = -delta
	}
	switch {
	case !s.softFired && delta < nudgeTolerance:
		s.softFired = true
		fireSoft = true
	case s.softFired && diff > s.cfg.NudgeLead+nudgeRearm:
		s.softFired = false
	}
	s.mu.Unlock()

	if fireSoft {
		s.notifier.SoftNudge(s.cfg.NudgeLead)
	}
	if fireHard {
		// Fire-and-forget: the tick never waits on the user's choice.
		go s.runHardStop()
	}
}

// TriggerSoftNudge emits the advance warning immediately, independent of
// the tick.
func (s *Scheduler) TriggerSoftNudge() {
	s.notifier.SoftNudge(s.cfg.NudgeLead)
}

// TriggerHardStop presents the blocking dialog immediately, honoring the
// same re-entrancy guard as the tick.
func (s *Scheduler) TriggerHardStop() {
	s.mu.Lock()
	if s.hardActive {
		s.mu.Unlock()
		return
	}
	s.hardActive = true
	s.mu.Unlock()
	go s.runHardStop()
}

func (s *Scheduler) runHardStop() {
	minutes := s.notifier.PromptHardStop()
	if minutes <= 0 {
		// Dismissal implies an implicit auto-snooze.
		minutes = int(s.cfg.AutoSnooze / time.Minute)
	}
	s.Snooze(minutes)

	s.mu.Lock()
	s.hardActive = false
	s.mu.Unlock()
}

func (s *Scheduler) nowLocked() time.Time {
	return s.clock.Now().Add(s.debugOffset)
}

func (s *Scheduler) targetDeadlineLocked(now time.Time) time.Time {
	if !s.snoozedUntil.IsZero() {
		return s.snoozedUntil
	}

	day := now
	if now.Hour() < s.cfg.DayStartHour {
		day = day.AddDate(0, 0, -1)
	}
	deadline := time.Date(day.Year(), day.Month(), day.Day(),
		s.cfg.BedtimeHour, s.cfg.BedtimeMinute, 0, 0, now.Location())

	// A bedtime hour before the day-start hour falls on the night after
	// the session date: day starts 4 AM, bedtime 1 AM means 1 AM of the
	// following calendar day.
	if s.cfg.BedtimeHour < s.cfg.DayStartHour {
		deadline = deadline.AddDate(0, 0, 1)
	}
	return deadline
}
