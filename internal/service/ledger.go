package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"payout-ledger-backend/internal/domain"
	"payout-ledger-backend/internal/events"
	"payout-ledger-backend/internal/lock"
	"payout-ledger-backend/internal/logger"
	"payout-ledger-backend/internal/repository"
)

// Scheduled periods are anchored at 07:00 UTC; weekly periods start Monday.
const periodAnchorHourUTC = 7

type ledgerService struct {
	ledgerRepo    repository.LedgerRepository
	scheduledRepo repository.ScheduledLedgerRepository
	locker        lock.AccountLocker
	publisher     events.Publisher
}

func NewLedgerService(
	ledgerRepo repository.LedgerRepository,
	scheduledRepo repository.ScheduledLedgerRepository,
	locker lock.AccountLocker,
	publisher events.Publisher,
) LedgerService {
	return &ledgerService{
		ledgerRepo:    ledgerRepo,
		scheduledRepo: scheduledRepo,
		locker:        locker,
		publisher:     publisher,
	}
}

func (s *ledgerService) GetOpenScheduledLedgerForPeriod(ctx context.Context, paymentAccountID string, routingKey time.Time, interval domain.ScheduledLedgerInterval) (*domain.ScheduledLedger, error) {
	return s.scheduledRepo.GetOpenForPeriod(ctx, paymentAccountID, routingKey, interval)
}

func (s *ledgerService) GetOpenScheduledLedgerForAccount(ctx context.Context, paymentAccountID string) (*domain.ScheduledLedger, error) {
	return s.scheduledRepo.GetOpenForAccount(ctx, paymentAccountID)
}

func (s *ledgerService) GetOrCreateScheduledLedger(ctx context.Context, paymentAccountID string, currency domain.Currency, interval domain.ScheduledLedgerInterval, routingKey time.Time) (*domain.ScheduledLedger, error) {
	var result *domain.ScheduledLedger
	err := s.locker.WithLock(ctx, ledgerLockKey(paymentAccountID), func(ctx context.Context) error {
		var lockErr error
		result, lockErr = s.getOrCreateForPeriod(ctx, paymentAccountID, currency, interval, routingKey)
		return lockErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *ledgerService) getOrCreateForPeriod(ctx context.Context, paymentAccountID string, currency domain.Currency, interval domain.ScheduledLedgerInterval, routingKey time.Time) (*domain.ScheduledLedger, error) {
	existing, err := s.scheduledRepo.GetOpenForPeriod(ctx, paymentAccountID, routingKey, interval)
	if err != nil {
		return nil, fmt.Errorf("failed to look up scheduled ledger: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	start, end := PeriodFor(routingKey, interval)
	ledger := &domain.Ledger{
		ID:               uuid.New(),
		Type:             domain.LedgerTypeScheduled,
		Currency:         currency,
		State:            domain.LedgerStateOpen,
		Balance:          0,
		PaymentAccountID: paymentAccountID,
	}
	scheduled := &domain.ScheduledLedger{
		ID:               uuid.New(),
		PaymentAccountID: paymentAccountID,
		LedgerID:         ledger.ID,
		IntervalType:     interval,
		StartTime:        start,
		EndTime:          end,
		ClosedAt:         0,
	}

	// Both rows are written in one database transaction, so losing the race
	// rolls the ledger back rather than stranding it OPEN.
	created, err := s.scheduledRepo.InsertWithLedger(ctx, ledger, scheduled)
	if errors.Is(err, domain.ErrDuplicate) {
		// Lost the creation race; the winner's row is authoritative.
		logger.Info("Scheduled ledger already exists for period",
			"payment_account_id", paymentAccountID, "interval", interval, "start_time", start)
		winner, lookupErr := s.scheduledRepo.GetOpenForPeriod(ctx, paymentAccountID, routingKey, interval)
		if lookupErr != nil {
			return nil, lookupErr
		}
		if winner == nil {
			return nil, fmt.Errorf("scheduled ledger for period vanished after conflict: %w", err)
		}
		return winner, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduled ledger: %w", err)
	}
	return created, nil
}

func (s *ledgerService) ProcessLedger(ctx context.Context, ledgerID uuid.UUID) (*domain.Ledger, error) {
	ledger, err := s.ledgerRepo.GetByID(ctx, ledgerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger %s: %w", ledgerID, err)
	}

	var processed *domain.Ledger
	err = s.locker.WithLock(ctx, ledgerLockKey(ledger.PaymentAccountID), func(ctx context.Context) error {
		updated, err := s.ledgerRepo.ProcessAndCloseScheduledLedger(ctx, ledgerID, time.Now().UTC().UnixMicro())
		if err != nil {
			return fmt.Errorf("failed to process ledger %s: %w", ledgerID, err)
		}
		processed = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	event := events.LedgerProcessed{
		LedgerID:         processed.ID,
		PaymentAccountID: processed.PaymentAccountID,
		Balance:          processed.Balance,
		State:            processed.State,
		ProcessedAt:      time.Now().UTC(),
	}
	if err := s.publisher.Publish(events.TopicLedgerProcessed, event); err != nil {
		logger.Error("Failed to publish ledger processed event", "ledger_id", processed.ID, "error", err)
	}

	logger.Info("Ledger processed and scheduled period closed",
		"ledger_id", processed.ID, "payment_account_id", processed.PaymentAccountID)
	return processed, nil
}

// PeriodFor returns the scheduled period covering t: [anchor, anchor+interval)
// with the anchor at 07:00 UTC, rolled back to Monday for weekly periods.
func PeriodFor(t time.Time, interval domain.ScheduledLedgerInterval) (time.Time, time.Time) {
	t = t.UTC()
	anchor := time.Date(t.Year(), t.Month(), t.Day(), periodAnchorHourUTC, 0, 0, 0, time.UTC)
	if anchor.After(t) {
		anchor = anchor.AddDate(0, 0, -1)
	}
	if interval == domain.ScheduledLedgerIntervalWeekly {
		for anchor.Weekday() != time.Monday {
			anchor = anchor.AddDate(0, 0, -1)
		}
		return anchor, anchor.AddDate(0, 0, 7)
	}
	return anchor, anchor.AddDate(0, 0, 1)
}

func ledgerLockKey(paymentAccountID string) string {
	return "mx-ledger-account-" + paymentAccountID
}
