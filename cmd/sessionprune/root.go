package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sessionprune",
	Short: "sessionprune removes stale single-save session locks from a game profile",
	Long: `sessionprune performs one guarded edit on a binary profile file: it decodes
the profile to an XML tree with the external converter, removes every
<node id="DisabledSingleSaveSessions"> entry at any depth, re-encodes the
tree, and commits the result only after two timestamped backups exist.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("color", "auto", "Color output: auto, always or never")
}
