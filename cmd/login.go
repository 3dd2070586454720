package main

import (
	"fmt"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with the Orla backend",
	Long:  "Login to your Orla account and store the session tokens securely in the OS keychain.",
	RunE:  runLogin,
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Email address")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Password (will prompt if not provided)")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	if loginEmail == "" {
		fmt.Fprint(cmd.OutOrStdout(), "Email: ")
		if _, err := fmt.Fscanln(cmd.InOrStdin(), &loginEmail); err != nil {
			return fmt.Errorf("failed to read email: %w", err)
		}
	}

	if loginPassword == "" {
		fmt.Fprint(cmd.OutOrStdout(), "Password: ")
		passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		loginPassword = string(passwordBytes)
	}

	if err := a.session.Login(cmd.Context(), loginEmail, loginPassword); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	user := a.session.CurrentUser()
	cmd.Printf("Logged in as %s (%s)\n", user.Name, user.Email)

	// Reset flags for reuse in tests
	loginEmail = ""
	loginPassword = ""

	return nil
}
