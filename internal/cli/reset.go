package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkidding/vibertime/internal/infrastructure/config"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the snooze and re-arm the nudge",
	Long: `Clear any active snooze and restore the configured bedtime deadline.

Use this the morning after: once a deadline is more than 2 hours stale the
watcher refuses further snoozes and expects a reset instead.`,
	RunE: runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Post(
		fmt.Sprintf("http://%s/api/reset", cfg.Addr),
		"application/json",
		strings.NewReader("{}"),
	)
	if err != nil {
		return fmt.Errorf("reaching the watcher at %s (is 'vibertime watch' running?): %w", cfg.Addr, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("reset refused: status %d", resp.StatusCode)
	}

	var result struct {
		Deadline string `json:"deadline"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decoding watcher response: %w", err)
	}

	deadline, err := time.Parse(time.RFC3339, result.Deadline)
	if err != nil {
		fmt.Println("Deadline reset.")
		return nil
	}
	fmt.Printf("Deadline reset to %s\n", deadline.Format("15:04"))
	return nil
}
