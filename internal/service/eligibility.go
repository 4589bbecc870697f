package service

import (
	"context"
	"time"

	"payout-ledger-backend/internal/domain"
	"payout-ledger-backend/internal/logger"
	"payout-ledger-backend/internal/repository"
	"payout-ledger-backend/internal/runtime"
)

type eligibilityService struct {
	accountRepo repository.PaymentAccountRepository
	flags       runtime.Provider
}

func NewEligibilityService(accountRepo repository.PaymentAccountRepository, flags runtime.Provider) EligibilityService {
	return &eligibilityService{accountRepo: accountRepo, flags: flags}
}

func (s *eligibilityService) ShouldAutoPayWeekly(ctx context.Context, paymentAccountID int64, targetType domain.PayoutTargetType, targetID, targetBusinessID *int64) bool {
	if s.ShouldBlockPayout(ctx, time.Now().UTC(), paymentAccountID, targetType, targetID, targetBusinessID) {
		return false
	}

	// Manually maintained payment stops. Copied before concatenating so the
	// provider's backing slices are never written to.
	dasher := s.flags.GetIntList(runtime.PayoutDasherAccountStopList, nil)
	merchant := s.flags.GetIntList(runtime.PayoutMerchantAccountStopList, nil)
	stopList := make([]int64, 0, len(dasher)+len(merchant))
	stopList = append(stopList, dasher...)
	stopList = append(stopList, merchant...)
	for _, id := range stopList {
		if id == paymentAccountID {
			logger.Info("Account is on a payout stop list", "payment_account_id", paymentAccountID)
			return false
		}
	}
	return true
}

// ShouldBlockPayout blocks automatic store payouts when the account's bank
// information changed within the configured window before payoutTime. The
// check fails open: an internal error is logged and never holds a payout.
func (s *eligibilityService) ShouldBlockPayout(ctx context.Context, payoutTime time.Time, paymentAccountID int64, targetType domain.PayoutTargetType, targetID, targetBusinessID *int64) bool {
	if !s.flags.GetBool(runtime.FraudEnablePayoutDelayAfterBankChange, false) {
		return false
	}

	blocked, err := s.recentBankChange(ctx, payoutTime, paymentAccountID, targetType, targetBusinessID)
	if err != nil {
		logger.Error("Bank change check failed, not blocking payout",
			"payment_account_id", paymentAccountID, "error", err)
		return false
	}
	return blocked
}

func (s *eligibilityService) recentBankChange(ctx context.Context, payoutTime time.Time, paymentAccountID int64, targetType domain.PayoutTargetType, targetBusinessID *int64) (bool, error) {
	if targetType != domain.PayoutTargetTypeStore {
		return false, nil
	}
	if targetBusinessID != nil {
		whitelist := s.flags.GetIntList(runtime.FraudBusinessWhitelistForPayoutDelay, nil)
		for _, id := range whitelist {
			if id == *targetBusinessID {
				return false, nil
			}
		}
	}

	hours := s.flags.GetInt(runtime.FraudMinimumHoursBeforePayoutAfterChange, 0)
	if hours == 0 {
		return false, nil
	}

	start := payoutTime.Add(-time.Duration(hours) * time.Hour)
	updates, err := s.accountRepo.ListBankUpdates(ctx, paymentAccountID, start, payoutTime)
	if err != nil {
		return false, err
	}
	if len(updates) > 0 {
		logger.Info("Blocking payout: bank information recently changed",
			"payment_account_id", paymentAccountID, "updates", len(updates), "window_hours", hours)
		return true, nil
	}
	return false, nil
}
