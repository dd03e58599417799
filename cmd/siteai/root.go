// Package main provides the entry point for the SiteAI CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for SiteAI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "siteai",
		Short: "Internal-link opportunity finder for topic clusters",
		Long: `SiteAI analyzes a topic cluster (one pillar page plus its satellite
articles) and proposes internal-link opportunities: which existing
phrase on a source page should link to which target page, with the
exact sentence it appears in.

Every proposed anchor is validated against the page's real text and
DOM, so the output contains no invented phrases and no placements
inside existing links, headings, or navigation.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewAnalyzeCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
