package main

import (
	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the current session",
	Long:  "Logout from Orla: notify the backend to invalidate the refresh token and remove the stored session tokens.",
	RunE:  runLogout,
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogout(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	if err := a.session.Logout(cmd.Context()); err != nil {
		return err
	}

	cmd.Println("Logged out. Session tokens removed.")
	return nil
}
