package service

import (
	"context"
	"fmt"
	"time"

	"payout-ledger-backend/internal/domain"
	"payout-ledger-backend/internal/events"
	"payout-ledger-backend/internal/gateway"
	"payout-ledger-backend/internal/lock"
	"payout-ledger-backend/internal/logger"
	"payout-ledger-backend/internal/repository"
)

type transferService struct {
	transferRepo    repository.TransferRepository
	transactionRepo repository.TransactionRepository
	accountRepo     repository.PaymentAccountRepository
	submissionRepo  repository.GatewaySubmissionRepository
	eligibility     EligibilityService
	gatewayClient   gateway.Client
	locker          lock.AccountLocker
	publisher       events.Publisher
	alerts          AlertService
}

func NewTransferService(
	transferRepo repository.TransferRepository,
	transactionRepo repository.TransactionRepository,
	accountRepo repository.PaymentAccountRepository,
	submissionRepo repository.GatewaySubmissionRepository,
	eligibility EligibilityService,
	gatewayClient gateway.Client,
	locker lock.AccountLocker,
	publisher events.Publisher,
	alerts AlertService,
) TransferService {
	return &transferService{
		transferRepo:    transferRepo,
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
		submissionRepo:  submissionRepo,
		eligibility:     eligibility,
		gatewayClient:   gatewayClient,
		locker:          locker,
		publisher:       publisher,
		alerts:          alerts,
	}
}

func (s *transferService) CreateTransfer(ctx context.Context, req CreateTransferRequest) (*domain.Transfer, []int64, error) {
	logger.Info("Creating transfer for account", "payment_account_id", req.PayoutAccountID, "transfer_type", req.TransferType)

	account, err := s.accountRepo.GetByID(ctx, req.PayoutAccountID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get payment account %d: %w", req.PayoutAccountID, err)
	}

	// Country filter and eligibility gating apply only to automatic payouts.
	if req.TransferType != domain.TransferTypeManual {
		if len(req.PayoutCountries) > 0 && !containsString(req.PayoutCountries, account.Country) {
			logger.Debug("Skipping transfer: payout country does not match",
				"payment_account_id", account.ID, "account_country", account.Country)
			return nil, nil, nil
		}
		if !s.eligibility.ShouldAutoPayWeekly(ctx, account.ID, req.TargetType, req.TargetID, req.TargetBusinessID) {
			logger.Info("Payment stopped: ignoring weekly transfer for account", "payment_account_id", account.ID)
			return nil, nil, nil
		}
	}

	currency, ok := domain.CurrencyForCountry(account.Country)
	if !ok {
		logger.Warn("No payout currency for account country",
			"payment_account_id", account.ID, "country", account.Country)
	}

	var transfer *domain.Transfer
	var transactionIDs []int64
	err = s.locker.WithLock(ctx, payoutAccountLockKey(account.ID), func(ctx context.Context) error {
		var lockErr error
		transfer, transactionIDs, lockErr = s.createForUnpaidTransactions(ctx, account.ID, currency, req.StartTime, req.EndTime)
		return lockErr
	})
	if err != nil {
		return nil, nil, err
	}
	if transfer == nil {
		return nil, nil, nil
	}

	event := events.TransferCreated{
		TransferID:       transfer.ID,
		PaymentAccountID: transfer.PaymentAccountID,
		Amount:           transfer.Amount,
		Currency:         transfer.Currency,
		Status:           transfer.Status,
		TransactionIDs:   transactionIDs,
		CreatedAt:        transfer.CreatedAt,
	}
	if err := s.publisher.Publish(events.TopicTransferCreated, event); err != nil {
		logger.Error("Failed to publish transfer created event", "transfer_id", transfer.ID, "error", err)
	}
	return transfer, transactionIDs, nil
}

func (s *transferService) createForUnpaidTransactions(ctx context.Context, paymentAccountID int64, currency domain.Currency, startTime *time.Time, endTime time.Time) (*domain.Transfer, []int64, error) {
	unpaid, err := s.transactionRepo.ListUnpaid(ctx, paymentAccountID, startTime, endTime)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list unpaid transactions: %w", err)
	}
	if len(unpaid) == 0 {
		return nil, nil, nil
	}

	var subtotal int64
	transactionIDs := make([]int64, 0, len(unpaid))
	for _, txn := range unpaid {
		subtotal += txn.Amount
		transactionIDs = append(transactionIDs, txn.ID)
	}
	if subtotal < 0 {
		logger.Warn("Skipping transfer: unpaid transactions sum to a negative amount",
			"payment_account_id", paymentAccountID, "subtotal", subtotal)
		return nil, nil, nil
	}

	// No adjustments at creation time, so amount equals subtotal and the
	// method is left empty until submission.
	transfer := &domain.Transfer{
		PaymentAccountID: paymentAccountID,
		Subtotal:         subtotal,
		Amount:           subtotal,
		Currency:         currency,
		Status:           domain.TransferStatusCreating,
		Method:           "",
		Adjustments:      map[string]int64{},
	}
	created, updatedIDs, err := s.transferRepo.CreateAndAssignTransactions(ctx, transfer, transactionIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create transfer: %w", err)
	}

	if len(updatedIDs) != len(transactionIDs) {
		logger.Error("Inconsistency updating transactions",
			"transfer_id", created.ID,
			"updated_transactions_count", len(updatedIDs),
			"transaction_count", len(transactionIDs))
		s.alertOps(ctx, "Transfer transaction reassignment inconsistency",
			fmt.Sprintf("transfer %d: reassigned %d of %d fetched transactions for account %d",
				created.ID, len(updatedIDs), len(transactionIDs), paymentAccountID))
	}

	status, err := s.DetermineTransferStatus(ctx, created)
	if err != nil {
		return nil, nil, err
	}
	updated, err := s.transferRepo.UpdateStatus(ctx, created.ID, status)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to update transfer %d status: %w", created.ID, err)
	}

	logger.Info("Transfer created for unpaid transactions",
		"transfer_id", updated.ID, "amount", updated.Amount, "transaction_count", len(updatedIDs))
	return updated, updatedIDs, nil
}

func (s *transferService) DetermineTransferStatus(ctx context.Context, transfer *domain.Transfer) (domain.TransferStatus, error) {
	latest, err := s.submissionRepo.GetLatestByTransfer(ctx, transfer.ID)
	if err != nil {
		return "", fmt.Errorf("failed to get latest submission for transfer %d: %w", transfer.ID, err)
	}
	return transferStatusFromSubmission(latest), nil
}

func (s *transferService) SubmitTransfer(ctx context.Context, transferID int64) (*domain.Transfer, error) {
	transfer, err := s.transferRepo.GetByID(ctx, transferID)
	if err != nil {
		return nil, fmt.Errorf("failed to get transfer %d: %w", transferID, err)
	}
	if transfer.Status != domain.TransferStatusNew && transfer.Status != domain.TransferStatusPending {
		return nil, fmt.Errorf("transfer %d is not submittable in status %s", transferID, transfer.Status)
	}

	account, err := s.accountRepo.GetByID(ctx, transfer.PaymentAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment account %d: %w", transfer.PaymentAccountID, err)
	}

	payout, err := s.gatewayClient.CreatePayout(ctx, gateway.PayoutRequest{
		AccountID:      account.GatewayAccount,
		Amount:         transfer.Amount,
		Currency:       string(transfer.Currency),
		IdempotencyKey: fmt.Sprintf("transfer-%d", transfer.ID),
	})
	if err != nil {
		logger.Error("Gateway payout failed", "transfer_id", transfer.ID, "error", err)
		if gateway.Retryable(err) {
			return nil, err
		}
		if _, updateErr := s.transferRepo.UpdateStatus(ctx, transfer.ID, domain.TransferStatusFailed); updateErr != nil {
			logger.Error("Failed to mark transfer failed", "transfer_id", transfer.ID, "error", updateErr)
		}
		return nil, err
	}

	sub := &domain.GatewaySubmission{
		TransferID: transfer.ID,
		GatewayID:  payout.ID,
		Status:     domain.SubmissionStatus(payout.Status),
	}
	if _, err := s.submissionRepo.Insert(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to record gateway submission for transfer %d: %w", transfer.ID, err)
	}

	return s.transferRepo.UpdateStatus(ctx, transfer.ID, transferStatusFromSubmission(sub))
}

func (s *transferService) alertOps(ctx context.Context, subject, message string) {
	if s.alerts == nil {
		return
	}
	if err := s.alerts.SendOpsAlert(ctx, subject, message); err != nil {
		logger.Error("Failed to send ops alert", "subject", subject, "error", err)
	}
}

// transferStatusFromSubmission maps gateway submission status onto transfer
// status; a transfer never submitted is NEW.
func transferStatusFromSubmission(sub *domain.GatewaySubmission) domain.TransferStatus {
	if sub == nil {
		return domain.TransferStatusNew
	}
	switch sub.Status {
	case domain.SubmissionStatusPaid:
		return domain.TransferStatusPaid
	case domain.SubmissionStatusFailed:
		return domain.TransferStatusFailed
	case domain.SubmissionStatusInTransit, domain.SubmissionStatusPending:
		return domain.TransferStatusPending
	default:
		return domain.TransferStatusNew
	}
}

func payoutAccountLockKey(paymentAccountID int64) string {
	return fmt.Sprintf("payout-account-%d", paymentAccountID)
}

func containsString(list []string, item string) bool {
	for _, s := range list {
		if s == item {
			return true
		}
	}
	return false
}
