package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stevenajg93/orla3-marketing-suite-app-sub001/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long:  "Create the configuration file and directory for the Orla CLI.",
	RunE: func(cmd *cobra.Command, args []string) error {
		configDir := config.GetConfigDir()
		configPath := config.GetConfigPath()

		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("configuration already exists at %s\n\nTo reconfigure, edit the file directly or use 'orla config set <key> <value>'", configPath)
		}

		if err := os.MkdirAll(configDir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}

		cfg := &config.Config{}
		cfg.Server.URL = config.DefaultServerURL
		cfg.Logging.Level = "info"

		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		cmd.Printf("Configuration initialized at %s\n", configPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
