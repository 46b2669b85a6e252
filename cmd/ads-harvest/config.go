// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/ads-harvest/internal/secrets"
	"github.com/pdiddy/ads-harvest/pkg/types"
)

// viperKey maps a flag name to its config key: batch-size → batch_size.
func viperKey(flag string) string {
	return strings.ReplaceAll(flag, "-", "_")
}

// bindFlags binds the named flags of cmd to viper. Called from PreRunE so
// commands sharing a flag name do not overwrite each other's binding.
func bindFlags(cmd *cobra.Command, names ...string) error {
	for _, name := range names {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			return fmt.Errorf("unknown flag %q", name)
		}
		if err := viper.BindPFlag(viperKey(name), f); err != nil {
			return fmt.Errorf("binding flag %s: %w", name, err)
		}
	}
	return nil
}

// resolveToken returns the API token: flag or config or ADS_HARVEST_TOKEN,
// then .secrets/ads-api-token, then ADS_API_TOKEN.
func resolveToken() string {
	if tok := secrets.Lookup(loadedSecrets, secrets.ADSTokenKey, viper.GetString("token")); tok != "" {
		return tok
	}
	return strings.TrimSpace(os.Getenv("ADS_API_TOKEN"))
}

// adsConfig assembles the client configuration from viper.
func adsConfig() (types.ADSConfig, error) {
	token := resolveToken()
	if token == "" {
		return types.ADSConfig{}, fmt.Errorf("no ADS API token: pass --token, set ADS_API_TOKEN, or write %s%s",
			secrets.DefaultDir, secrets.ADSTokenKey)
	}

	cfg := types.DefaultADSConfig()
	cfg.APIToken = token
	if v := viper.GetString("base_url"); v != "" {
		cfg.BaseURL = v
	}
	if v := viper.GetDuration("timeout"); v > 0 {
		cfg.Timeout = v
	}
	if v := viper.GetStringSlice("fields"); len(v) > 0 {
		cfg.Fields = v
	}
	if v := viper.GetInt("page_size"); v > 0 {
		cfg.PageSize = v
	}
	if v := viper.GetInt("batch_size"); v > 0 {
		cfg.BatchSize = v
	}
	if viper.IsSet("batch_delay") {
		cfg.BatchDelay = viper.GetDuration("batch_delay")
	}
	return cfg.WithDefaults(), nil
}

// yearRange reads and validates --start-year and --end-year.
func yearRange(cmd *cobra.Command) (int, int, error) {
	start, _ := cmd.Flags().GetInt("start-year")
	end, _ := cmd.Flags().GetInt("end-year")
	if start == 0 || end == 0 {
		return 0, 0, fmt.Errorf("--start-year and --end-year are required")
	}
	if start > end {
		return 0, 0, fmt.Errorf("--start-year %d is after --end-year %d", start, end)
	}
	return start, end, nil
}
