// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/ads-harvest/internal/ads"
	"github.com/pdiddy/ads-harvest/internal/export"
	"github.com/pdiddy/ads-harvest/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Search, fetch references, and write the combined table",
	Long: `Run searches ADS for refereed articles matching --keyword in every year
from --start-year to --end-year, drops articles without a DOI, fetches the
reference list of each article in batches, and writes
<prefix>_with_references.csv and <prefix>_with_references.json.

HTTP error statuses are reported as warnings and the run continues with the
results gathered so far.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, "page-size", "batch-size", "batch-delay", "out-dir", "summary", "sqlite")
	},
	RunE: runRun,
}

func init() {
	runCmd.Flags().Int("start-year", 0, "first publication year (inclusive)")
	runCmd.Flags().Int("end-year", 0, "last publication year (inclusive)")
	runCmd.Flags().String("keyword", "", "search keyword")
	runCmd.Flags().String("prefix", "", "output file prefix (default ads_<keyword>_<start>_<end>)")
	runCmd.Flags().Int("page-size", types.DefaultPageSize, "rows per search page")
	runCmd.Flags().Int("batch-size", types.DefaultBatchSize, "bibcodes per reference request")
	runCmd.Flags().Duration("batch-delay", types.DefaultBatchDelay, "pause between reference requests")
	runCmd.Flags().String("out-dir", "", "directory for output files (default current directory)")
	runCmd.Flags().Bool("summary", false, "also write <prefix>_run.yaml")
	runCmd.Flags().Bool("sqlite", false, "also write <prefix>_with_references.db")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	start, end, err := yearRange(cmd)
	if err != nil {
		return err
	}
	keyword, _ := cmd.Flags().GetString("keyword")
	if keyword == "" {
		return fmt.Errorf("--keyword is required")
	}
	prefix, _ := cmd.Flags().GetString("prefix")
	if prefix == "" {
		prefix = fmt.Sprintf("ads_%s_%d_%d", keyword, start, end)
	}

	cfg, err := adsConfig()
	if err != nil {
		return err
	}
	out := types.OutputConfig{
		Dir:     viper.GetString("out_dir"),
		Prefix:  prefix,
		Summary: viper.GetBool("summary"),
		SQLite:  viper.GetBool("sqlite"),
	}
	if out.Dir != "" {
		if err := os.MkdirAll(out.Dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	client, err := ads.NewClient(cfg, ads.WithLog(os.Stderr), ads.WithOutput(out))
	if err != nil {
		return err
	}

	records, err := client.RunCombined(cmd.Context(), start, end, keyword, prefix, cfg.BatchSize)
	if err != nil {
		return err
	}

	paths := export.PathsFor(out.Dir, prefix)
	fmt.Fprintf(cmd.OutOrStdout(), "%d articles written to %s and %s\n", len(records), paths.CSV, paths.JSON)
	return nil
}
