package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"payout-ledger-backend/internal/domain"
	"payout-ledger-backend/internal/repository/postgres"
)

func TestGatewaySubmissionRepository_Insert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewGatewaySubmissionRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		sub := &domain.GatewaySubmission{TransferID: 42, GatewayID: "po_1", Status: domain.SubmissionStatusPending}

		mock.ExpectQuery("INSERT INTO gateway_submissions").
			WithArgs(int64(42), "po_1", domain.SubmissionStatusPending, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
				AddRow(int64(1), time.Now(), time.Now()))

		inserted, err := repo.Insert(ctx, sub)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), inserted.ID)
	})
}

func TestGatewaySubmissionRepository_GetLatestByTransfer(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewGatewaySubmissionRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		now := time.Now().UTC()
		mock.ExpectQuery("SELECT (.+) FROM gateway_submissions WHERE transfer_id (.+) ORDER BY created_at DESC LIMIT 1").
			WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "transfer_id", "gateway_id", "status", "created_at", "updated_at"}).
				AddRow(int64(2), int64(42), "po_2", "paid", now, now))

		sub, err := repo.GetLatestByTransfer(ctx, 42)
		assert.NoError(t, err)
		assert.Equal(t, "po_2", sub.GatewayID)
		assert.Equal(t, domain.SubmissionStatusPaid, sub.Status)
	})

	t.Run("NeverSubmitted", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM gateway_submissions WHERE transfer_id").
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		sub, err := repo.GetLatestByTransfer(ctx, 99)
		assert.NoError(t, err)
		assert.Nil(t, sub)
	})
}
