// Package main provides the entry point for the sitescan CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for sitescan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitescan",
		Short: "Sitemap-guided crawler and content-intelligence extractor",
		Long: `sitescan evaluates a brand's web presence. It discovers the site's
sitemap, crawls the highest-value pages in priority order, extracts
SEO, accessibility, business, and contact intelligence from each page,
and emits an evidence report for downstream brand scoring.

Blocked or unreachable sites degrade gracefully: sitescan rotates its
browser fingerprint, falls back to archives and public traces, and as
a last resort synthesizes clearly-flagged speculative evidence so a
well-formed result is always produced.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewHistoryCmd())
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
