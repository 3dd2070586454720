// Package credits is a read layer over the server-owned credit ledger. The
// balance is never mutated here: every apparent change is a re-fetch.
package credits

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stevenajg93/orla3-marketing-suite-app-sub001/internal/api"
)

// DefaultHistoryLimit bounds transaction history reads when the caller
// passes no limit.
const DefaultHistoryLimit = 20

// Service exposes credit reads and the purchase flow. The supplementary
// reads (history, packages, affordability) fail soft with empty defaults;
// only the balance, which is shown directly to the user, records an error.
type Service struct {
	client *api.Client
	log    *zap.Logger

	mu      sync.Mutex
	balance *Balance
	lastErr string
}

// NewService creates a credits service over the given client.
func NewService(client *api.Client, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		client: client,
		log:    log,
	}
}

// Balance fetches the current balance. On success the cache is updated and
// any recorded error cleared. On failure the prior cached balance is kept
// (stale beats blank) and returned alongside the error.
func (s *Service) Balance(ctx context.Context) (*Balance, error) {
	var resp balanceResponse
	if err := s.client.Get(ctx, "/credits/balance", &resp); err != nil {
		s.mu.Lock()
		s.lastErr = err.Error()
		stale := s.balance
		s.mu.Unlock()
		return stale, err
	}
	if !resp.Success {
		err := fmt.Errorf("balance fetch rejected by server")
		s.mu.Lock()
		s.lastErr = err.Error()
		stale := s.balance
		s.mu.Unlock()
		return stale, err
	}

	b := resp.Credits
	s.mu.Lock()
	s.balance = &b
	s.lastErr = ""
	s.mu.Unlock()
	return &b, nil
}

// Refresh re-fetches the balance. Failures are captured in LastError, never
// returned: refresh is fire-and-forget for callers reacting to an external
// change (a completed checkout, a credit-consuming action).
func (s *Service) Refresh(ctx context.Context) {
	if _, err := s.Balance(ctx); err != nil {
		s.log.Debug("balance refresh failed", zap.Error(err))
	}
}

// Cached returns the last successfully fetched balance, or nil.
func (s *Service) Cached() *Balance {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.balance == nil {
		return nil
	}
	b := *s.balance
	return &b
}

// LastError returns the error message from the most recent failed balance
// fetch, or "" after a successful one.
func (s *Service) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// History returns up to limit transactions, newest first. Any failure
// degrades to an empty list.
func (s *Service) History(ctx context.Context, limit int) []Transaction {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	var resp historyResponse
	endpoint := "/credits/history?limit=" + strconv.Itoa(limit)
	if err := s.client.Get(ctx, endpoint, &resp); err != nil {
		s.log.Debug("history fetch failed", zap.Error(err))
		return []Transaction{}
	}
	if !resp.Success || resp.Transactions == nil {
		return []Transaction{}
	}
	return resp.Transactions
}

// Packages returns the purchasable credit packages keyed by package id.
// Any failure degrades to an empty map.
func (s *Service) Packages(ctx context.Context) map[string]Package {
	var resp packagesResponse
	if err := s.client.Get(ctx, "/payment/credit-packages", &resp); err != nil {
		s.log.Debug("packages fetch failed", zap.Error(err))
		return map[string]Package{}
	}
	if !resp.Success || resp.Packages == nil {
		return map[string]Package{}
	}
	return resp.Packages
}

// Check reports whether the account can afford the given operation type.
// Fails closed: any failure reads as "cannot afford".
func (s *Service) Check(ctx context.Context, operationType string) bool {
	var resp checkResponse
	endpoint := "/credits/check/" + url.PathEscape(operationType)
	if err := s.client.Get(ctx, endpoint, &resp); err != nil {
		s.log.Debug("credit check failed", zap.Error(err))
		return false
	}
	return resp.HasCredits
}

// Purchase starts a checkout for the given package and returns the checkout
// URL. The request carries an idempotency key so an accidental double
// submission cannot open two checkouts. The balance is not touched: callers
// re-fetch after the external checkout completes.
func (s *Service) Purchase(ctx context.Context, packageID string) (string, error) {
	headers := http.Header{}
	headers.Set("Idempotency-Key", uuid.NewString())

	var resp purchaseResponse
	err := s.client.DoWithHeaders(ctx, http.MethodPost, "/payment/purchase-credits",
		headers, purchaseRequest{PackageID: packageID}, &resp)
	if err != nil {
		return "", err
	}
	if resp.CheckoutURL == "" {
		return "", fmt.Errorf("purchase failed: no checkout URL in response")
	}
	return resp.CheckoutURL, nil
}
