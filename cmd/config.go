package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/stevenajg93/orla3-marketing-suite-app-sub001/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  "View and update Orla CLI configuration settings.",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	Long:  "Display the current effective configuration including environment variable overrides.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		cmd.Printf("Server:\n")
		cmd.Printf("  URL: %s\n", cfg.Server.URL)
		if cfg.IsInsecure() {
			cmd.Printf("  (insecure: plain HTTP against a remote host)\n")
		}
		cmd.Printf("\n")
		cmd.Printf("Logging:\n")
		cmd.Printf("  Level: %s\n", cfg.Logging.Level)
		cmd.Printf("  Debug: %t\n", cfg.Logging.Debug)

		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Update a configuration value",
	Long:  "Update a configuration value in the config file. Example: orla config set server.url https://api.example.com",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		value := args[1]

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		switch key {
		case "server.url":
			cfg.Server.URL = value
		case "logging.level":
			cfg.Logging.Level = value
		case "logging.debug":
			debug, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("logging.debug must be true or false, got %q", value)
			}
			cfg.Logging.Debug = debug
		default:
			return fmt.Errorf("unknown config key: %s (valid keys: server.url, logging.level, logging.debug)", key)
		}

		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		cmd.Printf("Updated %s\n", key)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
