// Package cli implements the vibertime command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vibertime",
	Short: "Passive provenance and bedtime watcher for editor sessions",
	Long: `vibertime watches an editor session, attributes each text change to a
human or an AI from timing signals alone, credits active/typing/reviewing
time, and enforces a configurable stop-working deadline.

It never blocks an edit: classification and crediting happen as a side
effect of events the editor already emits.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
