package events

import (
	"time"

	"github.com/google/uuid"

	"payout-ledger-backend/internal/domain"
)

const (
	TopicTransferCreated = "payout.transfer_created"
	TopicLedgerProcessed = "payout.ledger_processed"
)

// Publisher emits domain events for downstream consumers (reporting,
// reconciliation). Publish failures must not fail the payout operation that
// produced the event.
type Publisher interface {
	Publish(topic string, event any) error
}

type TransferCreated struct {
	TransferID       int64                 `json:"transfer_id"`
	PaymentAccountID int64                 `json:"payment_account_id"`
	Amount           int64                 `json:"amount"`
	Currency         domain.Currency       `json:"currency"`
	Status           domain.TransferStatus `json:"status"`
	TransactionIDs   []int64               `json:"transaction_ids"`
	CreatedAt        time.Time             `json:"created_at"`
}

type LedgerProcessed struct {
	LedgerID         uuid.UUID          `json:"ledger_id"`
	PaymentAccountID string             `json:"payment_account_id"`
	Balance          int64              `json:"balance"`
	State            domain.LedgerState `json:"state"`
	ProcessedAt      time.Time          `json:"processed_at"`
}

// NopPublisher drops all events. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(string, any) error { return nil }
