// Package app wires the watcher together: the editor feed, the two tick
// loops, the status API and the optional metrics export, all running until
// the context is canceled or the editor disconnects.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mkidding/vibertime/internal/activity"
	"github.com/mkidding/vibertime/internal/adapters/clipboard"
	"github.com/mkidding/vibertime/internal/adapters/editorfeed"
	"github.com/mkidding/vibertime/internal/adapters/logger"
	oteladapter "github.com/mkidding/vibertime/internal/adapters/otel"
	"github.com/mkidding/vibertime/internal/adapters/prompter"
	"github.com/mkidding/vibertime/internal/adapters/turso"
	"github.com/mkidding/vibertime/internal/bedtime"
	"github.com/mkidding/vibertime/internal/clock"
	"github.com/mkidding/vibertime/internal/infrastructure/config"
	"github.com/mkidding/vibertime/internal/ports"
	"github.com/mkidding/vibertime/internal/provenance"
	"github.com/mkidding/vibertime/internal/web"
)

// Run starts the watcher reading editor events from in. It blocks until
// the context is canceled or the feed reaches EOF.
func Run(ctx context.Context, cfg *config.Config, in io.Reader) error {
	log := logger.NewFileLogger(cfg.DataDir, cfg.Debug)
	defer log.Close()

	instanceID := uuid.NewString()
	log.Debug("watcher instance " + instanceID + " starting")

	clk := clock.System()

	db, err := turso.NewDB(cfg.DatabasePath())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	store, err := turso.NewStatsStore(db, clk, cfg.DayStartHour, log)
	if err != nil {
		return fmt.Errorf("opening stats store: %w", err)
	}
	defer store.Close()

	monitor := editorfeed.NewMonitor()
	classifier := provenance.NewClassifier(store, monitor, clipboard.New(), clk, log)
	tracker := activity.NewTracker(store, monitor, clk, activity.Config{
		IdleTimeout:  time.Duration(cfg.IdleTimeoutSeconds) * time.Second,
		ZombieWindow: time.Duration(cfg.ZombieWindowSeconds) * time.Second,
	})

	scheduler := bedtime.NewScheduler(clk, newNotifier(log), log, bedtime.Config{
		BedtimeHour:   cfg.BedtimeHour,
		BedtimeMinute: cfg.BedtimeMinute,
		DayStartHour:  cfg.DayStartHour,
		NudgeLead:     time.Duration(cfg.SoftNudgeMinutes) * time.Minute,
		AutoSnooze:    time.Duration(cfg.AutoSnoozeMinutes) * time.Minute,
	})

	feed := editorfeed.New(clk, monitor, classifier, tracker, log)

	exporter := ports.MetricsExporter(oteladapter.NewNoOpExporter())
	if cfg.OTELEnabled {
		exp, err := oteladapter.NewExporter(ctx, oteladapter.Config{
			Endpoint: cfg.OTELEndpoint,
			Enabled:  true,
			Insecure: cfg.OTELInsecure,
		}, store)
		if err != nil {
			log.Error("OTEL export disabled: " + err.Error())
		} else {
			exporter = exp
		}
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := exporter.Close(shutdownCtx); err != nil {
			log.Error("closing exporter: " + err.Error())
		}
	}()

	server := web.NewServer(cfg.Addr, store, scheduler, log, cfg.Debug)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		return server.Start(gctx)
	})
	g.Go(func() error {
		return tickLoop(gctx, log, "activity", tracker.Tick)
	})
	g.Go(func() error {
		return tickLoop(gctx, log, "bedtime", scheduler.Tick)
	})
	g.Go(func() error {
		// The feed closing means the editor is gone; wind everything down.
		defer cancel()
		if err := feed.Run(gctx, in); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("editor feed: %w", err)
		}
		return nil
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// tickLoop drives fn once per second until the context ends. A panic in a
// single tick is logged and the loop carries on; losing one second of
// credit is acceptable, losing the watcher is not.
func tickLoop(ctx context.Context, log ports.Logger, name string, fn func()) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			safeTick(log, name, fn)
		}
	}
}

func safeTick(log ports.Logger, name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Error(fmt.Sprintf("%s tick panicked: %v", name, r))
		}
	}()
	fn()
}

// newNotifier picks the TUI prompter, falling back to the plain-terminal
// one on dumb terminals.
func newNotifier(log ports.Logger) ports.Notifier {
	if os.Getenv("TERM") == "dumb" {
		return prompter.NewTTYPrompter(log)
	}
	return prompter.NewBubbleTeaPrompter(log)
}
