// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ads-harvest/internal/ads"
	"github.com/pdiddy/ads-harvest/internal/export"
	"github.com/pdiddy/ads-harvest/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search ADS for refereed articles without fetching references",
	Long: `Search pages through ADS results for --keyword in each year of the range
and prints the articles that have a DOI, as JSON (default), CSV, or a
CSL-YAML bibliography.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, "page-size")
	},
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Int("start-year", 0, "first publication year (inclusive)")
	searchCmd.Flags().Int("end-year", 0, "last publication year (inclusive)")
	searchCmd.Flags().String("keyword", "", "search keyword")
	searchCmd.Flags().Int("page-size", types.DefaultPageSize, "rows per search page")
	searchCmd.Flags().String("format", "json", "output format: json, csv, or csl (CSL-YAML)")
	searchCmd.Flags().String("out", "", "write to this file instead of stdout")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	start, end, err := yearRange(cmd)
	if err != nil {
		return err
	}
	keyword, _ := cmd.Flags().GetString("keyword")
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "json", "csv", "csl":
	default:
		return fmt.Errorf("unknown format %q: use json, csv, or csl", format)
	}

	cfg, err := adsConfig()
	if err != nil {
		return err
	}
	client, err := ads.NewClient(cfg, ads.WithLog(os.Stderr))
	if err != nil {
		return err
	}

	records, err := client.Search(cmd.Context(), start, end, keyword)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "%d articles with DOI (%d requests)\n", len(records), client.RequestsMade())

	path, _ := cmd.Flags().GetString("out")
	if path == "" {
		return writeSearchResults(records, format, cmd.OutOrStdout())
	}

	return writeSearchFile(path, records, format)
}

// writeSearchFile writes records to path in format. Close errors are returned.
func writeSearchFile(path string, records []*types.Record, format string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := writeSearchResults(records, format, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing output file: %w", err)
	}
	return nil
}

func writeSearchResults(records []*types.Record, format string, w io.Writer) error {
	switch format {
	case "csv":
		return export.FormatCSV(records, w)
	case "csl":
		return export.FormatCSL(records, w)
	default:
		return export.FormatJSON(records, w)
	}
}
