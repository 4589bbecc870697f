// Package gateway is the boundary to the external payment provider. The core
// never interprets raw provider errors; they are translated here into a small
// typed set.
package gateway

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrConnection        = errors.New("gateway connection error")
	ErrAPI               = errors.New("gateway api error")
	ErrRateLimit         = errors.New("gateway rate limited")
	ErrInsufficientFunds = errors.New("gateway insufficient funds")
)

// Retryable reports whether a translated gateway error is worth retrying.
// API errors and insufficient funds are terminal for the attempt.
func Retryable(err error) bool {
	return errors.Is(err, ErrConnection) || errors.Is(err, ErrRateLimit)
}

type Account struct {
	ID      string
	Country string
}

type PayoutRequest struct {
	AccountID string
	Amount    int64
	Currency  string
	// IdempotencyKey dedupes retried submissions provider-side.
	IdempotencyKey string
}

type Payout struct {
	ID     string
	Status string // provider-side status: pending, in_transit, paid, failed
}

// Client is implemented per provider. Implementations translate provider
// errors through TranslateError before returning.
type Client interface {
	RetrieveAccount(ctx context.Context, accountID string) (*Account, error)
	CreatePayout(ctx context.Context, req PayoutRequest) (*Payout, error)
}

// DisabledClient is wired when no provider is configured; every call fails
// as a non-retryable API error.
type DisabledClient struct{}

func (DisabledClient) RetrieveAccount(ctx context.Context, accountID string) (*Account, error) {
	return nil, fmt.Errorf("%w: gateway client not configured", ErrAPI)
}

func (DisabledClient) CreatePayout(ctx context.Context, req PayoutRequest) (*Payout, error) {
	return nil, fmt.Errorf("%w: gateway client not configured", ErrAPI)
}

// TranslateError maps a provider error code onto the typed error set. Unknown
// codes become API errors so callers never see provider-specific values.
func TranslateError(code string, cause error) error {
	switch code {
	case "connection_error", "timeout":
		return fmt.Errorf("%w: %v", ErrConnection, cause)
	case "rate_limit":
		return fmt.Errorf("%w: %v", ErrRateLimit, cause)
	case "balance_insufficient", "insufficient_funds":
		return fmt.Errorf("%w: %v", ErrInsufficientFunds, cause)
	default:
		return fmt.Errorf("%w: %s: %v", ErrAPI, code, cause)
	}
}
