package ports

import "github.com/mkidding/vibertime/internal/domain"

// StatsStore owns the DailyStats record for the current session day.
// Today may perform day-rollover initialization as a side effect, so
// callers must re-read it every tick instead of caching a copy.
type StatsStore interface {
	// Today returns a snapshot of the current session day's ledger.
	Today() domain.DailyStats

	// UpdateToday applies the mutation atomically to the current day's
	// record and schedules an asynchronous persistence request.
	UpdateToday(mutate func(*domain.DailyStats))
}
