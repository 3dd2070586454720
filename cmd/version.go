package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"
)

// versionResponse is the backend's advertised compatibility range.
type versionResponse struct {
	Success       bool   `json:"success"`
	MinCLIVersion string `json:"min_cli_version"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Print the CLI version and warn when the backend requires a newer one.",
	RunE:  runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) error {
	cmd.Printf("orla version %s\n", version)

	// Compatibility check is best effort; no backend, no warning.
	a, err := newApp()
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 3*time.Second)
	defer cancel()

	var resp versionResponse
	if err := a.client.Get(ctx, "/meta/client-version", &resp); err != nil {
		return nil
	}
	if !resp.Success || resp.MinCLIVersion == "" {
		return nil
	}

	if semver.Compare("v"+version, "v"+resp.MinCLIVersion) < 0 {
		cmd.PrintErrf("Warning: the backend requires CLI %s or newer; please upgrade.\n", resp.MinCLIVersion)
	}
	return nil
}
