package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mkidding/vibertime/internal/adapters/logger"
	"github.com/mkidding/vibertime/internal/adapters/turso"
	"github.com/mkidding/vibertime/internal/clock"
	"github.com/mkidding/vibertime/internal/domain"
	"github.com/mkidding/vibertime/internal/infrastructure/config"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the daily ledgers",
	Long: `Show per-day activity and provenance statistics.

Examples:
  vibertime stats                  # Today
  vibertime stats --period week    # Last 7 session days
  vibertime stats --period month   # Last 30 session days`,
	RunE: runStats,
}

var statsPeriod string

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVarP(&statsPeriod, "period", "p", "today", "Time period: today, week, month")
}

var (
	statsTitleStyle  = lipgloss.NewStyle().Bold(true).MarginTop(1)
	statsHeaderStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	statsLabelStyle  = lipgloss.NewStyle().Faint(true)
)

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := turso.NewDB(cfg.DatabasePath())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	store, err := turso.NewStatsStore(db, clock.System(), cfg.DayStartHour, logger.Nop{})
	if err != nil {
		return fmt.Errorf("opening stats store: %w", err)
	}
	defer store.Close()

	days, err := store.ListSince(context.Background(), startDay(statsPeriod, cfg.DayStartHour))
	if err != nil {
		return fmt.Errorf("reading stats: %w", err)
	}

	printStats(days, statsPeriod)
	return nil
}

// startDay returns the earliest session-day key the period covers.
func startDay(period string, dayStartHour int) string {
	now := time.Now()
	switch period {
	case "week":
		now = now.AddDate(0, 0, -6)
	case "month":
		now = now.AddDate(0, 0, -29)
	}
	return domain.SessionDay(now, dayStartHour)
}

func printStats(days []domain.DailyStats, period string) {
	periodLabel := "Today"
	switch period {
	case "week":
		periodLabel = "Last 7 days"
	case "month":
		periodLabel = "Last 30 days"
	}

	fmt.Println(statsTitleStyle.Render(fmt.Sprintf("  vibertime — %s", periodLabel)))
	fmt.Println()

	if len(days) == 0 {
		fmt.Println("  No activity recorded.")
		fmt.Println()
		return
	}

	for _, d := range days {
		fmt.Println(statsHeaderStyle.Render("  " + d.Date))
		fmt.Printf("  %s %s active, %s typing, %s reviewing\n",
			statsLabelStyle.Render("Time:     "),
			formatSeconds(d.ActiveSeconds),
			formatSeconds(d.TypingSeconds),
			formatSeconds(d.ReviewingSeconds),
		)
		fmt.Printf("  %s %d human, %d refactored, %d AI-generated, %d AI-edited\n",
			statsLabelStyle.Render("Lines:    "),
			d.HumanTypedLines, d.HumanRefactoredLines,
			d.AIGeneratedLines, d.AIEditedLines,
		)
		fmt.Printf("  %s %.0f%% AI by characters, %.0f%% of attended time typing\n",
			statsLabelStyle.Render("Shares:   "),
			d.AIShare()*100, d.TypingShare()*100,
		)
		fmt.Println()
	}
}

func formatSeconds(s int64) string {
	d := time.Duration(s) * time.Second
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
}
