package domain

import "time"

// DailyStats is the behavioral ledger for one session day. The activity
// fields and the provenance fields are written by different components but
// always through the same store record; see ports.StatsStore.
type DailyStats struct {
	Date string `json:"date"`

	ActiveSeconds    int64 `json:"active_seconds"`
	TypingSeconds    int64 `json:"typing_seconds"`
	ReviewingSeconds int64 `json:"reviewing_seconds"`

	HumanTypedLines      int64 `json:"human_typed_lines"`
	HumanRefactoredLines int64 `json:"human_refactored_lines"`
	AIGeneratedLines     int64 `json:"ai_generated_lines"`
	AIEditedLines        int64 `json:"ai_edited_lines"`

	HumanChars    int64 `json:"human_chars"`
	AIChars       int64 `json:"ai_chars"`
	RefactorChars int64 `json:"refactor_chars"`
}

// AIShare returns the fraction of classified characters attributed to AI.
// Zero-safe: returns 0 when nothing has been classified yet.
func (s *DailyStats) AIShare() float64 {
	total := s.HumanChars + s.AIChars
	if total == 0 {
		return 0
	}
	return float64(s.AIChars) / float64(total)
}

// TypingShare returns the fraction of attended time spent actively typing
// as opposed to reviewing. Zero-safe.
func (s *DailyStats) TypingShare() float64 {
	total := s.TypingSeconds + s.ReviewingSeconds
	if total == 0 {
		return 0
	}
	return float64(s.TypingSeconds) / float64(total)
}

// SessionDay returns the day key a moment belongs to. Hours before
// dayStartHour count toward the previous calendar date, so a stretch of
// work running past midnight stays in one bucket.
func SessionDay(t time.Time, dayStartHour int) string {
	if t.Hour() < dayStartHour {
		t = t.AddDate(0, 0, -1)
	}
	return t.Format("2006-01-02")
}
