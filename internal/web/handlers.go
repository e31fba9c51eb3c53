package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/mkidding/vibertime/internal/bedtime"
)

type snoozeRequest struct {
	Minutes int    `json:"minutes"`
	Target  string `json:"target,omitempty"`
}

type debugOffsetRequest struct {
	Seconds int64 `json:"seconds"`
}

func (s *Server) handleToday(w http.ResponseWriter, r *http.Request) {
	today := s.stats.Today()

	writeJSON(w, http.StatusOK, map[string]any{
		"stats":        today,
		"ai_share":     today.AIShare(),
		"typing_share": today.TypingShare(),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	since := r.URL.Query().Get("since")
	if since == "" {
		since = time.Now().AddDate(0, 0, -30).Format("2006-01-02")
	}

	list, err := s.stats.ListSince(r.Context(), since)
	if err != nil {
		s.logger.Error("listing stats: " + err.Error())
		writeError(w, http.StatusInternalServerError, "failed to read stats")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"since": since,
		"days":  list,
	})
}

func (s *Server) handleDeadline(w http.ResponseWriter, r *http.Request) {
	deadline := s.scheduler.TargetDeadline()

	writeJSON(w, http.StatusOK, map[string]any{
		"deadline":      deadline.Format(time.RFC3339),
		"minutes_until": s.scheduler.MinutesUntilDeadline(),
	})
}

func (s *Server) handleSnooze(w http.ResponseWriter, r *http.Request) {
	var req snoozeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Minutes <= 0 {
		writeError(w, http.StatusBadRequest, "minutes must be positive")
		return
	}

	// The caller may echo back the deadline it displayed; without one the
	// guards run against the current deadline.
	target := s.scheduler.TargetDeadline()
	if req.Target != "" {
		parsed, err := time.Parse(time.RFC3339, req.Target)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid target timestamp")
			return
		}
		target = parsed
	}

	if err := s.scheduler.HandleSnooze(target, req.Minutes); err != nil {
		switch {
		case errors.Is(err, bedtime.ErrSnoozeTooEarly), errors.Is(err, bedtime.ErrSnoozeStale):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"deadline": s.scheduler.TargetDeadline().Format(time.RFC3339),
	})
}

// handleReset clears the snooze and re-arms the nudge, the explicit
// new-day action for the morning after a stale deadline.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.scheduler.Reset()
	writeJSON(w, http.StatusOK, map[string]any{
		"deadline": s.scheduler.TargetDeadline().Format(time.RFC3339),
	})
}

func (s *Server) handleDebugOffset(w http.ResponseWriter, r *http.Request) {
	var req debugOffsetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.scheduler.SetDebugOffset(time.Duration(req.Seconds) * time.Second)
	writeJSON(w, http.StatusOK, map[string]any{
		"deadline":      s.scheduler.TargetDeadline().Format(time.RFC3339),
		"minutes_until": s.scheduler.MinutesUntilDeadline(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
