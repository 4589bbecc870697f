package jobs

import (
	"context"
	"fmt"
	"time"

	"payout-ledger-backend/internal/domain"
	"payout-ledger-backend/internal/logger"
	"payout-ledger-backend/internal/service"
)

// CreateWeeklyTransfers aggregates unpaid transactions into transfers for
// every payout account that has any, applying the payout-country filter and
// the eligibility gate through the transfer service.
func (jr *JobRunner) CreateWeeklyTransfers() {
	jr.runWithRecovery("CreateWeeklyTransfers", func() {
		ctx := context.Background()
		endTime := time.Now().UTC()

		accountIDs, err := jr.store.TransactionRepository.ListAccountIDsWithUnpaid(ctx, endTime)
		if err != nil {
			logger.Error("Failed to list accounts with unpaid transactions", "error", err)
			jr.alertOps("CreateWeeklyTransfers", fmt.Sprintf("failed to list accounts: %v", err))
			return
		}

		created, failed := 0, 0
		for _, accountID := range accountIDs {
			account, err := jr.store.PaymentAccountRepository.GetByID(ctx, accountID)
			if err != nil {
				logger.Error("Failed to get payment account", "payment_account_id", accountID, "error", err)
				failed++
				continue
			}
			if account.PayoutDisabled {
				logger.Debug("Skipping account with payouts disabled", "payment_account_id", accountID)
				continue
			}

			transfer, _, err := jr.services.Transfer.CreateTransfer(ctx, service.CreateTransferRequest{
				PayoutAccountID: accountID,
				TransferType:    domain.TransferTypeScheduled,
				EndTime:         endTime,
				TargetType:      targetTypeForEntity(account.Entity),
				PayoutCountries: jr.config.Payout.Countries,
			})
			if err != nil {
				logger.Error("Failed to create weekly transfer", "payment_account_id", accountID, "error", err)
				failed++
				continue
			}
			if transfer != nil {
				created++
			}
		}

		logger.Info("Weekly transfer creation finished",
			"accounts", len(accountIDs), "transfers_created", created, "failures", failed)
		if failed > 0 {
			jr.alertOps("CreateWeeklyTransfers",
				fmt.Sprintf("%d of %d accounts failed transfer creation", failed, len(accountIDs)))
		}
	})
}

// ProcessDueLedgers processes every ledger whose scheduled period has ended,
// transitioning it to PROCESSING and closing the period.
func (jr *JobRunner) ProcessDueLedgers() {
	jr.runWithRecovery("ProcessDueLedgers", func() {
		ctx := context.Background()

		due, err := jr.store.ScheduledLedgerRepository.ListDue(ctx, time.Now().UTC())
		if err != nil {
			logger.Error("Failed to list due scheduled ledgers", "error", err)
			jr.alertOps("ProcessDueLedgers", fmt.Sprintf("failed to list due ledgers: %v", err))
			return
		}

		processed, failed := 0, 0
		for _, scheduled := range due {
			if _, err := jr.services.Ledger.ProcessLedger(ctx, scheduled.LedgerID); err != nil {
				logger.Error("Failed to process due ledger",
					"ledger_id", scheduled.LedgerID, "payment_account_id", scheduled.PaymentAccountID, "error", err)
				failed++
				continue
			}
			processed++
		}

		logger.Info("Due ledger processing finished", "due", len(due), "processed", processed, "failures", failed)
		if failed > 0 {
			jr.alertOps("ProcessDueLedgers", fmt.Sprintf("%d of %d due ledgers failed processing", failed, len(due)))
		}
	})
}

func targetTypeForEntity(entity string) domain.PayoutTargetType {
	if entity == "store" {
		return domain.PayoutTargetTypeStore
	}
	return domain.PayoutTargetTypeDasher
}
