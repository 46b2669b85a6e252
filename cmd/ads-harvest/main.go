// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the ads-harvest CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/ads-harvest/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials read from the secrets directory at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the ads-harvest CLI.
var rootCmd = &cobra.Command{
	Use:   "ads-harvest",
	Short: "Harvest refereed articles and their references from ADS",
	Long: `ads-harvest queries the ADS search API for refereed articles matching a
keyword over a range of years, fetches each article's reference list in
batched lookups, and writes the merged table as CSV and JSON.

The API token is read from --token, the config file, .secrets/ads-api-token,
or the ADS_API_TOKEN environment variable (a .env file is honored).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("secrets-dir")
		s, err := secrets.Load(dir, os.Stderr)
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	// Load .env if present (for ADS_API_TOKEN).
	_ = godotenv.Load()

	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./ads-harvest.yaml or ~/.config/ads-harvest/ads-harvest.yaml)")
	pf.String("secrets-dir", secrets.DefaultDir, "directory holding secret files")
	pf.String("token", "", "ADS API token")
	pf.String("base-url", "", "ADS search endpoint")
	pf.Duration("timeout", 0, "HTTP request timeout (default 60s)")

	for _, name := range []string{"token", "base-url", "timeout"} {
		viper.BindPFlag(viperKey(name), pf.Lookup(name))
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("ads-harvest")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "ads-harvest"))
		}
	}

	viper.SetEnvPrefix("ADS_HARVEST")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
