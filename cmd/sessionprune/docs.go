package main

import (
	_ "embed"
	"fmt"

	"github.com/aretw0/sessionprune/internal/presentation/tui"
	"github.com/spf13/cobra"
)

//go:embed usage.md
var usageGuide string

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Show the usage guide",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(tui.RenderMarkdown(usageGuide))
	},
}

func init() {
	rootCmd.AddCommand(docsCmd)
}
