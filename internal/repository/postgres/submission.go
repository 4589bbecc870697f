package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"payout-ledger-backend/internal/domain"
	"payout-ledger-backend/internal/repository"
)

type gatewaySubmissionRepository struct {
	db *sql.DB
}

func NewGatewaySubmissionRepository(db *sql.DB) repository.GatewaySubmissionRepository {
	return &gatewaySubmissionRepository{db: db}
}

func (r *gatewaySubmissionRepository) Insert(ctx context.Context, sub *domain.GatewaySubmission) (*domain.GatewaySubmission, error) {
	query := `INSERT INTO gateway_submissions (transfer_id, gateway_id, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $4) RETURNING id, created_at, updated_at`
	now := time.Now().UTC()
	err := r.db.QueryRowContext(ctx, query,
		sub.TransferID, sub.GatewayID, sub.Status, now,
	).Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return sub, nil
}

func (r *gatewaySubmissionRepository) GetLatestByTransfer(ctx context.Context, transferID int64) (*domain.GatewaySubmission, error) {
	query := `SELECT id, transfer_id, gateway_id, status, created_at, updated_at
	          FROM gateway_submissions WHERE transfer_id = $1
	          ORDER BY created_at DESC LIMIT 1`
	var sub domain.GatewaySubmission
	err := r.db.QueryRowContext(ctx, query, transferID).Scan(
		&sub.ID, &sub.TransferID, &sub.GatewayID, &sub.Status, &sub.CreatedAt, &sub.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}
