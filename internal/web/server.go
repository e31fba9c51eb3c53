// Package web exposes the watcher's state over a localhost HTTP API so
// the CLI and editor plugins can query the ledger and drive the snooze
// flow without touching the database.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mkidding/vibertime/internal/domain"
	"github.com/mkidding/vibertime/internal/ports"
)

// StatsSource is the read side of the ledger the API serves.
type StatsSource interface {
	Today() domain.DailyStats
	ListSince(ctx context.Context, since string) ([]domain.DailyStats, error)
}

// DeadlineController is the scheduler surface the API drives.
type DeadlineController interface {
	TargetDeadline() time.Time
	MinutesUntilDeadline() int
	HandleSnooze(target time.Time, minutes int) error
	Reset()
	SetDebugOffset(d time.Duration)
}

type Server struct {
	router    chi.Router
	addr      string
	stats     StatsSource
	scheduler DeadlineController
	logger    ports.Logger
	debug     bool
}

// NewServer creates the API server. The debug flag gates the time-travel
// endpoint.
func NewServer(addr string, stats StatsSource, scheduler DeadlineController, logger ports.Logger, debug bool) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		addr:      addr,
		stats:     stats,
		scheduler: scheduler,
		logger:    logger,
		debug:     debug,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Recoverer)

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.router.Get("/api/today", s.handleToday)
	s.router.Get("/api/stats", s.handleStats)
	s.router.Get("/api/deadline", s.handleDeadline)
	s.router.Post("/api/snooze", s.handleSnooze)
	s.router.Post("/api/reset", s.handleReset)

	if s.debug {
		s.router.Post("/api/debug/offset", s.handleDebugOffset)
	}
}

// Handler returns the router, for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("server shutdown: " + err.Error())
		}
	}()

	err := server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
