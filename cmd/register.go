package main

import (
	"errors"
	"fmt"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	registerName  string
	registerEmail string
	registerOrg   string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an Orla account",
	Long:  "Create a new Orla account and log in with it. Registration happens against the configured backend.",
	RunE:  runRegister,
}

func init() {
	registerCmd.Flags().StringVar(&registerName, "name", "", "Display name")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "Email address")
	registerCmd.Flags().StringVar(&registerOrg, "organization", "", "Organization name (optional)")
	rootCmd.AddCommand(registerCmd)
}

func runRegister(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	if registerName == "" {
		fmt.Fprint(cmd.OutOrStdout(), "Name: ")
		if _, err := fmt.Fscanln(cmd.InOrStdin(), &registerName); err != nil {
			return fmt.Errorf("failed to read name: %w", err)
		}
	}
	if registerEmail == "" {
		fmt.Fprint(cmd.OutOrStdout(), "Email: ")
		if _, err := fmt.Fscanln(cmd.InOrStdin(), &registerEmail); err != nil {
			return fmt.Errorf("failed to read email: %w", err)
		}
	}

	fmt.Fprint(cmd.OutOrStdout(), "Password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), "Confirm password: ")
	confirmBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("failed to read password confirmation: %w", err)
	}

	if string(passwordBytes) != string(confirmBytes) {
		return errors.New("passwords do not match")
	}

	err = a.session.Register(cmd.Context(), registerName, registerEmail, string(passwordBytes), registerOrg)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	user := a.session.CurrentUser()
	cmd.Printf("Account created. Logged in as %s (%s)\n", user.Name, user.Email)

	registerName = ""
	registerEmail = ""
	registerOrg = ""

	return nil
}
