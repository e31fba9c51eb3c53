package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mkidding/vibertime/internal/bedtime"
	"github.com/mkidding/vibertime/internal/clock"
	"github.com/mkidding/vibertime/internal/domain"
)

type fakeStats struct {
	today domain.DailyStats
	list  []domain.DailyStats
}

func (f *fakeStats) Today() domain.DailyStats { return f.today }

func (f *fakeStats) ListSince(ctx context.Context, since string) ([]domain.DailyStats, error) {
	return f.list, nil
}

type nopNotifier struct{}

func (nopNotifier) SoftNudge(time.Duration) {}
func (nopNotifier) PromptHardStop() int     { return 0 }

type nopLogger struct{}

func (nopLogger) Debug(string) {}
func (nopLogger) Error(string) {}

func newTestServer(t *testing.T, now time.Time, debug bool) (*Server, *fakeStats) {
	t.Helper()
	clk := clock.NewManual(now)
	sched := bedtime.NewScheduler(clk, nopNotifier{}, nopLogger{}, bedtime.Config{
		BedtimeHour:   23,
		BedtimeMinute: 30,
		DayStartHour:  4,
	})
	stats := &fakeStats{
		today: domain.DailyStats{
			Date:          "2025-06-10",
			ActiveSeconds: 3600,
			HumanChars:    200,
			AIChars:       800,
		},
	}
	return NewServer("127.0.0.1:0", stats, sched, nopLogger{}, debug), stats
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, time.Date(2025, 6, 10, 22, 0, 0, 0, time.UTC), false)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Errorf("body = %q, want %q", rec.Body.String(), "ok")
	}
}

func TestToday(t *testing.T) {
	srv, _ := newTestServer(t, time.Date(2025, 6, 10, 22, 0, 0, 0, time.UTC), false)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/today", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Stats   domain.DailyStats `json:"stats"`
		AIShare float64           `json:"ai_share"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Stats.ActiveSeconds != 3600 {
		t.Errorf("ActiveSeconds = %d, want 3600", resp.Stats.ActiveSeconds)
	}
	if resp.AIShare != 0.8 {
		t.Errorf("AIShare = %v, want 0.8", resp.AIShare)
	}
}

func TestDeadline(t *testing.T) {
	srv, _ := newTestServer(t, time.Date(2025, 6, 10, 22, 0, 0, 0, time.UTC), false)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/deadline", nil))

	var resp struct {
		Deadline     string `json:"deadline"`
		MinutesUntil int    `json:"minutes_until"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.MinutesUntil != 90 {
		t.Errorf("minutes_until = %d, want 90", resp.MinutesUntil)
	}
	if !strings.HasPrefix(resp.Deadline, "2025-06-10T23:30:00") {
		t.Errorf("deadline = %q, want 23:30 same day", resp.Deadline)
	}
}

func TestSnooze(t *testing.T) {
	// 23:10, twenty minutes before the deadline: inside the snooze window.
	srv, _ := newTestServer(t, time.Date(2025, 6, 10, 23, 10, 0, 0, time.UTC), false)

	body := strings.NewReader(`{"minutes": 60}`)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/snooze", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Deadline string `json:"deadline"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !strings.HasPrefix(resp.Deadline, "2025-06-11T00:10:00") {
		t.Errorf("deadline = %q, want now+60m", resp.Deadline)
	}
}

func TestSnoozeTooEarly(t *testing.T) {
	// 20:00, three and a half hours before the deadline.
	srv, _ := newTestServer(t, time.Date(2025, 6, 10, 20, 0, 0, 0, time.UTC), false)

	body := strings.NewReader(`{"minutes": 60}`)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/snooze", body))

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestSnoozeBadBody(t *testing.T) {
	srv, _ := newTestServer(t, time.Date(2025, 6, 10, 23, 10, 0, 0, time.UTC), false)

	for _, body := range []string{`not json`, `{"minutes": 0}`, `{"minutes": -5}`} {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/snooze", strings.NewReader(body)))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestResetClearsSnooze(t *testing.T) {
	srv, _ := newTestServer(t, time.Date(2025, 6, 10, 23, 10, 0, 0, time.UTC), false)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/snooze", strings.NewReader(`{"minutes": 120}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("snooze status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/reset", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("reset status = %d, want 200", rec.Code)
	}

	var resp struct {
		Deadline string `json:"deadline"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !strings.HasPrefix(resp.Deadline, "2025-06-10T23:30:00") {
		t.Errorf("deadline after reset = %q, want configured bedtime", resp.Deadline)
	}
}

func TestDebugOffsetGated(t *testing.T) {
	srv, _ := newTestServer(t, time.Date(2025, 6, 10, 22, 0, 0, 0, time.UTC), false)

	body := strings.NewReader(`{"seconds": 3600}`)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/debug/offset", body))

	if rec.Code != http.StatusNotFound && rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("debug endpoint reachable without debug mode: status = %d", rec.Code)
	}
}

func TestDebugOffsetShiftsDeadline(t *testing.T) {
	srv, _ := newTestServer(t, time.Date(2025, 6, 10, 22, 0, 0, 0, time.UTC), true)

	body := strings.NewReader(`{"seconds": 3600}`)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/debug/offset", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		MinutesUntil int `json:"minutes_until"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.MinutesUntil != 30 {
		t.Errorf("minutes_until after +1h offset = %d, want 30", resp.MinutesUntil)
	}
}
