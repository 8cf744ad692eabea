package main

import (
	"encoding/json"
	"fmt"

	"github.com/brandlens/sitescan/internal/config"
	"github.com/brandlens/sitescan/internal/database"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [brand-id]",
		Short: "Show stored evaluation history",
		Long: `History lists past evaluation runs from the local snapshot store.

Without arguments it lists all brands that have stored reports. With a
brand ID it lists that brand's runs, newest first.

Examples:
  # List all evaluated brands
  sitescan history

  # Show run history for one brand
  sitescan history example.com

  # Print the latest stored report as JSON
  sitescan history --latest example.com`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().Bool("latest", false, "Print the latest stored report as JSON")
	cmd.Flags().String("db-dir", "", "Snapshot store directory (default: XDG data directory)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false
	db, err := database.Open(dbDir, opts)
	if err != nil {
		return fmt.Errorf("failed to open database (no evaluations stored yet?): %w", err)
	}
	defer db.Close()

	if len(args) == 0 {
		return listBrands(cmd, db)
	}

	latest, err := cmd.Flags().GetBool("latest")
	if err != nil {
		return err
	}
	if latest {
		return printLatestReport(cmd, db, args[0])
	}
	return printBrandHistory(cmd, db, args[0])
}

// listBrands prints all brands with stored reports.
func listBrands(cmd *cobra.Command, db *database.SnapshotDB) error {
	brands, err := db.ListBrands(cmd.Context())
	if err != nil {
		return err
	}
	if len(brands) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No stored evaluations.")
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Brands with stored evaluations (%d):\n", len(brands))
	for _, brand := range brands {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", brand)
	}
	return nil
}

// printBrandHistory prints run metadata for one brand, newest first.
func printBrandHistory(cmd *cobra.Command, db *database.SnapshotDB, brandID string) error {
	history, err := db.GetReportHistory(cmd.Context(), brandID)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No stored evaluations for %s.\n", brandID)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Evaluation history for %s:\n\n", brandID)
	fmt.Fprintf(cmd.OutOrStdout(), "%-20s  %-22s  %6s  %s\n", "DATE", "METHOD", "PAGES", "WEBSITE")
	for _, meta := range history {
		fmt.Fprintf(cmd.OutOrStdout(), "%-20s  %-22s  %6d  %s\n",
			meta.CreatedAt.Format("2006-01-02 15:04:05"),
			meta.Method,
			meta.PagesCrawled,
			meta.WebsiteURL,
		)
	}
	return nil
}

// printLatestReport prints the latest stored report as indented JSON.
func printLatestReport(cmd *cobra.Command, db *database.SnapshotDB, brandID string) error {
	crawlReport, err := db.GetLatestCrawlReport(cmd.Context(), brandID)
	if err != nil {
		return err
	}
	if crawlReport == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "No stored evaluations for %s.\n", brandID)
		return nil
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(crawlReport)
}
