package credits

import "time"

// Balance is the server-computed credit position. It is a projection of a
// server-side ledger: this package caches it but never derives changes to
// it locally.
type Balance struct {
	CurrentBalance    int        `json:"current_balance"`
	MonthlyAllocation int        `json:"monthly_allocation"`
	TotalUsed         int        `json:"total_used"`
	TotalPurchased    int        `json:"total_purchased"`
	UsagePercentage   float64    `json:"usage_percentage"`
	LowBalanceWarning bool       `json:"low_balance_warning"`
	LastReset         *time.Time `json:"last_reset,omitempty"`
}

// Transaction is one credit ledger entry.
type Transaction struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	Amount       int       `json:"amount"`
	BalanceAfter int       `json:"balance_after"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
}

// Package is a purchasable credit SKU.
type Package struct {
	Name       string `json:"name"`
	Credits    int    `json:"credits"`
	PriceCents int    `json:"price_cents"`
	Currency   string `json:"currency"`
}

type balanceResponse struct {
	Success bool    `json:"success"`
	Credits Balance `json:"credits"`
}

type historyResponse struct {
	Success      bool          `json:"success"`
	Transactions []Transaction `json:"transactions"`
}

type packagesResponse struct {
	Success  bool               `json:"success"`
	Packages map[string]Package `json:"packages"`
}

type checkResponse struct {
	HasCredits bool `json:"has_credits"`
}

type purchaseRequest struct {
	PackageID string `json:"package_id"`
}

type purchaseResponse struct {
	CheckoutURL string `json:"checkout_url"`
}
