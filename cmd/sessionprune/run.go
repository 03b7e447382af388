package main

import (
	"os"
	"time"

	"github.com/aretw0/sessionprune/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Prune the disabled-session locks and commit the profile",
	Long: `Runs the full pipeline: backup, decode, prune, encode, commit.
The profile is never written until the freshly encoded result and both
backups exist; any failure before the commit leaves it byte-identical.`,
	Run: func(cmd *cobra.Command, args []string) {
		profile, _ := cmd.Flags().GetString("profile")
		if profile == "" && len(args) > 0 {
			profile = args[0]
		}
		tool, _ := cmd.Flags().GetString("tool")
		toolConfig, _ := cmd.Flags().GetString("tool-config")
		scratch, _ := cmd.Flags().GetString("scratch-dir")
		noInstall, _ := cmd.Flags().GetBool("no-install")
		force, _ := cmd.Flags().GetBool("force")
		timeout, _ := cmd.Flags().GetDuration("timeout")
		verbose, _ := cmd.Flags().GetBool("verbose")
		color, _ := cmd.Flags().GetString("color")

		code := cli.Execute(cmd.Context(), cli.RunOptions{
			ProfilePath:    profile,
			ToolPath:       tool,
			ToolConfigPath: toolConfig,
			ScratchDir:     scratch,
			NoInstall:      noInstall,
			Force:          force,
			Timeout:        timeout,
			Verbose:        verbose,
			Color:          color,
		})
		os.Exit(code)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("profile", "", "Path to the profile file (default: auto-detect)")
	runCmd.Flags().String("tool", "", "Path to the converter executable or assembly")
	runCmd.Flags().String("tool-config", "", "Path to a tool.yaml descriptor")
	runCmd.Flags().String("scratch-dir", "", "Parent directory for the run's scratch area")
	runCmd.Flags().Bool("no-install", false, "Never suggest installing the converter")
	runCmd.Flags().BoolP("force", "f", false, "Commit even when zero nodes matched")
	runCmd.Flags().Duration("timeout", 2*time.Minute, "Per-conversion subprocess timeout (0 disables)")

	// Make 'run' the default if no command is provided.
	rootCmd.Run = runCmd.Run
}
