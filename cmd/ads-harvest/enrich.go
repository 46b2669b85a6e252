// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ads-harvest/internal/ads"
	"github.com/pdiddy/ads-harvest/pkg/types"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich [bibcodes...]",
	Short: "Fetch reference lists for bibcodes in batches",
	Long: `Enrich looks up the reference list of every bibcode given as an argument
or listed one per line in --from, batching --batch-size bibcodes per request.
The result is printed as a JSON object mapping bibcode to references.
Bibcodes in a failed batch map to an empty list.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, "batch-size", "batch-delay")
	},
	RunE: runEnrich,
}

func init() {
	enrichCmd.Flags().String("from", "", "file with one bibcode per line")
	enrichCmd.Flags().Int("batch-size", types.DefaultBatchSize, "bibcodes per reference request")
	enrichCmd.Flags().Duration("batch-delay", types.DefaultBatchDelay, "pause between reference requests")

	rootCmd.AddCommand(enrichCmd)
}

func runEnrich(cmd *cobra.Command, args []string) error {
	bibcodes := append([]string{}, args...)
	if from, _ := cmd.Flags().GetString("from"); from != "" {
		lines, err := readLines(from)
		if err != nil {
			return err
		}
		bibcodes = append(bibcodes, lines...)
	}
	if len(bibcodes) == 0 {
		return fmt.Errorf("provide bibcodes as arguments or with --from")
	}

	cfg, err := adsConfig()
	if err != nil {
		return err
	}
	client, err := ads.NewClient(cfg, ads.WithLog(os.Stderr))
	if err != nil {
		return err
	}

	refs, err := client.Enrich(cmd.Context(), bibcodes, cfg.BatchSize)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "total requests made: %d\n", client.RequestsMade())

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(refs)
}

// readLines returns the non-blank, trimmed lines of path.
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening bibcode list: %w", err)
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			out = append(out, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading bibcode list: %w", err)
	}
	return out, nil
}
