package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mkidding/vibertime/internal/app"
	"github.com/mkidding/vibertime/internal/infrastructure/config"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the watcher on an editor event stream",
	Long: `Run the watcher, reading newline-delimited JSON editor events on stdin.

An editor extension pipes its keystroke, paste, selection, focus and
document-change events into this command. The watcher classifies and
credits them, persists the daily ledger, serves the status API and
enforces the bedtime deadline until stdin closes or it is interrupted.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return app.Run(ctx, cfg, os.Stdin)
}
