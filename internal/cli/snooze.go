package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkidding/vibertime/internal/infrastructure/config"
)

var snoozeCmd = &cobra.Command{
	Use:   "snooze [minutes]",
	Short: "Push the bedtime deadline back",
	Long: `Push the running watcher's deadline to now + minutes (default 30).

A new snooze replaces any earlier one; snoozes never stack. The watcher
refuses a snooze more than 30 minutes before the deadline or more than
2 hours after it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSnooze,
}

func init() {
	rootCmd.AddCommand(snoozeCmd)
}

func runSnooze(cmd *cobra.Command, args []string) error {
	minutes := 30
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return fmt.Errorf("minutes must be a positive number, got %q", args[0])
		}
		minutes = n
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	body, _ := json.Marshal(map[string]int{"minutes": minutes})
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Post(
		fmt.Sprintf("http://%s/api/snooze", cfg.Addr),
		"application/json",
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("reaching the watcher at %s (is 'vibertime watch' running?): %w", cfg.Addr, err)
	}
	defer resp.Body.Close()

	var result struct {
		Deadline string `json:"deadline"`
		Error    string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decoding watcher response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if result.Error != "" {
			return fmt.Errorf("snooze refused: %s", result.Error)
		}
		return fmt.Errorf("snooze refused: status %d", resp.StatusCode)
	}

	deadline, err := time.Parse(time.RFC3339, result.Deadline)
	if err != nil {
		fmt.Printf("Snoozed %d minutes.\n", minutes)
		return nil
	}
	fmt.Printf("Snoozed %d minutes. New deadline: %s\n", minutes, deadline.Format("15:04"))
	return nil
}
