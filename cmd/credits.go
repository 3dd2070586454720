package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/stevenajg93/orla3-marketing-suite-app-sub001/internal/guard"
)

var creditsCmd = &cobra.Command{
	Use:   "credits",
	Short: "Inspect and top up your credit balance",
	Long:  "Read the server-side credit ledger: balance, transaction history, purchasable packages, and affordability checks.",
}

var creditsBalanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the current credit balance",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if _, err := guard.Require(cmd.Context(), a.session); err != nil {
			return err
		}

		balance, err := a.credits.Balance(cmd.Context())
		if err != nil {
			if balance == nil {
				return fmt.Errorf("failed to fetch balance: %w", err)
			}
			// Stale but better than nothing.
			cmd.PrintErrf("Warning: balance fetch failed (%v); showing last known value\n", err)
		}

		cmd.Printf("Balance:    %d credits\n", balance.CurrentBalance)
		cmd.Printf("Monthly:    %d\n", balance.MonthlyAllocation)
		cmd.Printf("Used:       %d\n", balance.TotalUsed)
		cmd.Printf("Purchased:  %d\n", balance.TotalPurchased)
		cmd.Printf("Usage:      %.0f%%\n", balance.UsagePercentage)
		if balance.LowBalanceWarning {
			cmd.Println("Warning: balance is running low")
		}
		return nil
	},
}

var historyLimit int

var creditsHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent credit transactions",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if _, err := guard.Require(cmd.Context(), a.session); err != nil {
			return err
		}

		transactions := a.credits.History(cmd.Context(), historyLimit)
		if len(transactions) == 0 {
			cmd.Println("No transactions")
			return nil
		}
		for _, tx := range transactions {
			cmd.Printf("%s  %+d  %s (balance %d)\n",
				tx.CreatedAt.Format("2006-01-02 15:04"), tx.Amount, tx.Description, tx.BalanceAfter)
		}
		return nil
	},
}

var creditsPackagesCmd = &cobra.Command{
	Use:   "packages",
	Short: "List purchasable credit packages",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if _, err := guard.Require(cmd.Context(), a.session); err != nil {
			return err
		}

		packages := a.credits.Packages(cmd.Context())
		if len(packages) == 0 {
			cmd.Println("No packages available")
			return nil
		}

		ids := make([]string, 0, len(packages))
		for id := range packages {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, id := range ids {
			p := packages[id]
			cmd.Printf("%-12s %s: %d credits for %d.%02d %s\n",
				id, p.Name, p.Credits, p.PriceCents/100, p.PriceCents%100, p.Currency)
		}
		return nil
	},
}

var creditsCheckCmd = &cobra.Command{
	Use:   "check <operation>",
	Short: "Check whether an operation is affordable",
	Long:  "Check whether the account can afford one operation of the given type (e.g. blog_post, caption, carousel).",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if _, err := guard.Require(cmd.Context(), a.session); err != nil {
			return err
		}

		if a.credits.Check(cmd.Context(), args[0]) {
			cmd.Printf("You have enough credits for one %s\n", args[0])
			return nil
		}
		cmd.Printf("Not enough credits for %s\n", args[0])
		return nil
	},
}

var creditsBuyCmd = &cobra.Command{
	Use:   "buy <package>",
	Short: "Start a checkout for a credit package",
	Long:  "Start a checkout for the given credit package id. Payment completes in the browser; the balance updates server-side and is re-fetched afterwards.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if _, err := guard.Require(cmd.Context(), a.session); err != nil {
			return err
		}

		checkoutURL, err := a.credits.Purchase(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("purchase failed: %w", err)
		}

		cmd.Printf("Open this URL to complete the purchase:\n\n  %s\n\n", checkoutURL)
		cmd.Println("After paying, run 'orla credits balance' to see the updated balance.")

		// Re-fetch rather than guessing at the outcome; checkout may not
		// have completed yet and that's fine.
		a.credits.Refresh(cmd.Context())
		return nil
	},
}

func init() {
	creditsHistoryCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of transactions to show")
	creditsCmd.AddCommand(creditsBalanceCmd)
	creditsCmd.AddCommand(creditsHistoryCmd)
	creditsCmd.AddCommand(creditsPackagesCmd)
	creditsCmd.AddCommand(creditsCheckCmd)
	creditsCmd.AddCommand(creditsBuyCmd)
	rootCmd.AddCommand(creditsCmd)
}
