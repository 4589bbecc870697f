package domain

import "time"

type TransferStatus string

const (
	TransferStatusCreating  TransferStatus = "CREATING"
	TransferStatusNew       TransferStatus = "NEW"
	TransferStatusPending   TransferStatus = "PENDING"
	TransferStatusPaid      TransferStatus = "PAID"
	TransferStatusFailed    TransferStatus = "FAILED"
	TransferStatusCancelled TransferStatus = "CANCELLED"
)

type TransferType string

const (
	TransferTypeScheduled TransferType = "SCHEDULED"
	TransferTypeManual    TransferType = "MANUAL"
)

// Transfer is a payout instruction aggregating unpaid transactions into one
// gateway-bound payment. Amount equals Subtotal when there are no adjustments.
type Transfer struct {
	ID               int64             `json:"id"`
	PaymentAccountID int64             `json:"payment_account_id"`
	Subtotal         int64             `json:"subtotal"`
	Amount           int64             `json:"amount"`
	Currency         Currency          `json:"currency"`
	Status           TransferStatus    `json:"status"`
	Method           string            `json:"method"`
	Adjustments      map[string]int64  `json:"adjustments"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// Transaction is a single unit of earned or owed amount pending payout.
// TransferID is nil until the transaction is aggregated into a transfer.
type Transaction struct {
	ID               int64     `json:"id"`
	PaymentAccountID int64     `json:"payment_account_id"`
	Amount           int64     `json:"amount"` // minor units, may be negative
	TransferID       *int64    `json:"transfer_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type SubmissionStatus string

const (
	SubmissionStatusPending   SubmissionStatus = "pending"
	SubmissionStatusInTransit SubmissionStatus = "in_transit"
	SubmissionStatusPaid      SubmissionStatus = "paid"
	SubmissionStatusFailed    SubmissionStatus = "failed"
)

// GatewaySubmission is the persisted record of one attempt to push a transfer
// through the payment gateway. The latest submission decides transfer status.
type GatewaySubmission struct {
	ID         int64            `json:"id"`
	TransferID int64            `json:"transfer_id"`
	GatewayID  string           `json:"gateway_id"` // provider-side payout id
	Status     SubmissionStatus `json:"status"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}
