package main

import (
	"github.com/spf13/cobra"

	"github.com/stevenajg93/orla3-marketing-suite-app-sub001/internal/guard"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in account",
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

func runWhoami(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	user, err := guard.Require(cmd.Context(), a.session)
	if err != nil {
		return err
	}

	cmd.Printf("Name:     %s\n", user.Name)
	cmd.Printf("Email:    %s", user.Email)
	if !user.EmailVerified {
		cmd.Printf(" (unverified)")
	}
	cmd.Println()
	cmd.Printf("Role:     %s\n", user.Role)
	cmd.Printf("Plan:     %s\n", user.Plan)
	if user.OrganizationName != "" {
		cmd.Printf("Org:      %s\n", user.OrganizationName)
	}
	if user.Timezone != "" {
		cmd.Printf("Timezone: %s\n", user.Timezone)
	}

	return nil
}
