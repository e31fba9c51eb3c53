// Package turso persists the daily ledger in a libsql database, one row
// per session day, with write coalescing so per-second ticks do not hit
// the disk individually.
package turso

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/mkidding/vibertime/internal/clock"
	"github.com/mkidding/vibertime/internal/domain"
	"github.com/mkidding/vibertime/internal/ports"
)

// flushDelay coalesces persistence requests to at most one write per second.
const flushDelay = time.Second

// StatsStore owns the current session day's DailyStats record. Reads roll
// the day over when the session-day key changes; writes mutate the
// in-memory record and schedule a debounced flush.
type StatsStore struct {
	db           *sql.DB
	clock        clock.Clock
	dayStartHour int
	logger       ports.Logger

	mu         sync.Mutex
	today      domain.DailyStats
	dirty      bool
	flushArmed bool
	closed     bool
}

// NewStatsStore opens the store and loads (or initializes) the current
// day's record.
func NewStatsStore(db *sql.DB, clk clock.Clock, dayStartHour int, logger ports.Logger) (*StatsStore, error) {
	s := &StatsStore{
		db:           db,
		clock:        clk,
		dayStartHour: dayStartHour,
		logger:       logger,
	}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(domain.SessionDay(clk.Now(), dayStartHour)); err != nil {
		return nil, fmt.Errorf("load today: %w", err)
	}
	return s, nil
}

func (s *StatsStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS daily_stats (
		date TEXT PRIMARY KEY,
		active_seconds INTEGER NOT NULL DEFAULT 0,
		typing_seconds INTEGER NOT NULL DEFAULT 0,
		reviewing_seconds INTEGER NOT NULL DEFAULT 0,
		human_typed_lines INTEGER NOT NULL DEFAULT 0,
		human_refactored_lines INTEGER NOT NULL DEFAULT 0,
		ai_generated_lines INTEGER NOT NULL DEFAULT 0,
		ai_edited_lines INTEGER NOT NULL DEFAULT 0,
		human_chars INTEGER NOT NULL DEFAULT 0,
		ai_chars INTEGER NOT NULL DEFAULT 0,
		refactor_chars INTEGER NOT NULL DEFAULT 0
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Today returns a snapshot of the current day's ledger, rolling the day
// over first if the session-day key changed.
func (s *StatsStore) Today() domain.DailyStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rolloverLocked()
	return s.today
}

// UpdateToday applies the mutation atomically and schedules a flush.
func (s *StatsStore) UpdateToday(mutate func(*domain.DailyStats)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rolloverLocked()
	mutate(&s.today)
	s.dirty = true
	s.armFlushLocked()
}

// ListSince returns the per-day ledgers from the given day key onward,
// newest first, including any unflushed state for today.
func (s *StatsStore) ListSince(ctx context.Context, since string) ([]domain.DailyStats, error) {
	s.mu.Lock()
	if s.dirty {
		s.flushLocked()
	}
	s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT date, active_seconds, typing_seconds, reviewing_seconds,
		        human_typed_lines, human_refactored_lines,
		        ai_generated_lines, ai_edited_lines,
		        human_chars, ai_chars, refactor_chars
		 FROM daily_stats
		 WHERE date >= ?
		 ORDER BY date DESC`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("query daily stats: %w", err)
	}
	defer rows.Close()

	var days []domain.DailyStats
	for rows.Next() {
		var d domain.DailyStats
		if err := rows.Scan(
			&d.Date, &d.ActiveSeconds, &d.TypingSeconds, &d.ReviewingSeconds,
			&d.HumanTypedLines, &d.HumanRefactoredLines,
			&d.AIGeneratedLines, &d.AIEditedLines,
			&d.HumanChars, &d.AIChars, &d.RefactorChars,
		); err != nil {
			return nil, fmt.Errorf("scan daily stats: %w", err)
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// Close flushes pending state. Idempotent; the caller closes the *sql.DB.
func (s *StatsStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.dirty {
		s.flushLocked()
	}
	return nil
}

// rolloverLocked swaps in a new record when the session-day key changes,
// flushing the finished day first.
func (s *StatsStore) rolloverLocked() {
	key := domain.SessionDay(s.clock.Now(), s.dayStartHour)
	if key == s.today.Date {
		return
	}
	if s.dirty {
		s.flushLocked()
	}
	if err := s.loadLocked(key); err != nil {
		// Never fail the caller on rollover; start the new day empty
		// and let the next flush create the row.
		s.logger.Error(fmt.Sprintf("day rollover load failed: %v", err))
		s.today = domain.DailyStats{Date: key}
		s.dirty = false
	}
}

func (s *StatsStore) loadLocked(key string) error {
	var d domain.DailyStats
	err := s.db.QueryRow(
		`SELECT date, active_seconds, typing_seconds, reviewing_seconds,
		        human_typed_lines, human_refactored_lines,
		        ai_generated_lines, ai_edited_lines,
		        human_chars, ai_chars, refactor_chars
		 FROM daily_stats WHERE date = ?`,
		key,
	).Scan(
		&d.Date, &d.ActiveSeconds, &d.TypingSeconds, &d.ReviewingSeconds,
		&d.HumanTypedLines, &d.HumanRefactoredLines,
		&d.AIGeneratedLines, &d.AIEditedLines,
		&d.HumanChars, &d.AIChars, &d.RefactorChars,
	)
	if err == sql.ErrNoRows {
		s.today = domain.DailyStats{Date: key}
		s.dirty = false
		return nil
	}
	if err != nil {
		return err
	}
	s.today = d
	s.dirty = false
	return nil
}

func (s *StatsStore) armFlushLocked() {
	if s.flushArmed || s.closed {
		return
	}
	s.flushArmed = true
	time.AfterFunc(flushDelay, s.flush)
}

func (s *StatsStore) flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushArmed = false
	if s.dirty {
		s.flushLocked()
	}
}

func (s *StatsStore) flushLocked() {
	d := s.today
	_, err := s.db.Exec(
		`INSERT INTO daily_stats (
			date, active_seconds, typing_seconds, reviewing_seconds,
			human_typed_lines, human_refactored_lines,
			ai_generated_lines, ai_edited_lines,
			human_chars, ai_chars, refactor_chars
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			active_seconds = excluded.active_seconds,
			typing_seconds = excluded.typing_seconds,
			reviewing_seconds = excluded.reviewing_seconds,
			human_typed_lines = excluded.human_typed_lines,
			human_refactored_lines = excluded.human_refactored_lines,
			ai_generated_lines = excluded.ai_generated_lines,
			ai_edited_lines = excluded.ai_edited_lines,
			human_chars = excluded.human_chars,
			ai_chars = excluded.ai_chars,
			refactor_chars = excluded.refactor_chars`,
		d.Date, d.ActiveSeconds, d.TypingSeconds, d.ReviewingSeconds,
		d.HumanTypedLines, d.HumanRefactoredLines,
		d.AIGeneratedLines, d.AIEditedLines,
		d.HumanChars, d.AIChars, d.RefactorChars,
	)
	if err != nil {
		s.logger.Error(fmt.Sprintf("flush daily stats: %v", err))
		return
	}
	s.dirty = false
}
