package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkidding/vibertime/internal/domain"
	"github.com/mkidding/vibertime/internal/infrastructure/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's ledger and the current deadline",
	Long:  `Query the running watcher for today's statistics and the active deadline.`,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	client := &http.Client{Timeout: 5 * time.Second}

	var today struct {
		Stats       domain.DailyStats `json:"stats"`
		AIShare     float64           `json:"ai_share"`
		TypingShare float64           `json:"typing_share"`
	}
	if err := getJSON(client, cfg.Addr, "/api/today", &today); err != nil {
		return err
	}

	var deadline struct {
		Deadline     string `json:"deadline"`
		MinutesUntil int    `json:"minutes_until"`
	}
	if err := getJSON(client, cfg.Addr, "/api/deadline", &deadline); err != nil {
		return err
	}

	d := today.Stats
	fmt.Println(statsTitleStyle.Render("  vibertime — " + d.Date))
	fmt.Println()
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
	fmt.Printf("  %s %.0f%% AI by characters\n",
		statsLabelStyle.Render("Shares:   "), today.AIShare*100)

	when, err := time.Parse(time.RFC3339, deadline.Deadline)
	if err == nil {
		fmt.Printf("  %s %s (%d minutes away)\n",
			statsLabelStyle.Render("Bedtime:  "),
			when.Format("15:04"), deadline.MinutesUntil)
	}
	fmt.Println()
	return nil
}

func getJSON(client *http.Client, addr, path string, v any) error {
	resp, err := client.Get("http://" + addr + path)
	if err != nil {
		return fmt.Errorf("reaching the watcher at %s (is 'vibertime watch' running?): %w", addr, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("watcher returned status %d for %s", resp.StatusCode, path)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding watcher response: %w", err)
	}
	return nil
}
