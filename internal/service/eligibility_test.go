package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"payout-ledger-backend/internal/domain"
	"payout-ledger-backend/internal/runtime"
	"payout-ledger-backend/internal/service"
)

func int64Ptr(v int64) *int64 { return &v }

func TestEligibilityService_ShouldBlockPayout(t *testing.T) {
	ctx := context.Background()
	payoutTime := time.Date(2019, 8, 5, 7, 0, 0, 0, time.UTC)

	t.Run("DisabledFlagNeverBlocks", func(t *testing.T) {
		accountRepo := new(MockPaymentAccountRepo)
		flags := runtime.NewStaticProvider(nil)
		svc := service.NewEligibilityService(accountRepo, flags)

		blocked := svc.ShouldBlockPayout(ctx, payoutTime, 7, domain.PayoutTargetTypeStore, int64Ptr(1), int64Ptr(2))
		assert.False(t, blocked)
		accountRepo.AssertNotCalled(t, "ListBankUpdates", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("RecentBankChangeBlocksStore", func(t *testing.T) {
		accountRepo := new(MockPaymentAccountRepo)
		flags := runtime.NewStaticProvider(map[runtime.Key]any{
			runtime.FraudEnablePayoutDelayAfterBankChange:    true,
			runtime.FraudMinimumHoursBeforePayoutAfterChange: 48,
		})
		svc := service.NewEligibilityService(accountRepo, flags)

		windowStart := payoutTime.Add(-48 * time.Hour)
		accountRepo.On("ListBankUpdates", ctx, int64(7), windowStart, payoutTime).
			Return([]domain.BankUpdateEvent{{ID: 1, PaymentAccountID: 7, Field: "account_number"}}, nil)

		blocked := svc.ShouldBlockPayout(ctx, payoutTime, 7, domain.PayoutTargetTypeStore, int64Ptr(1), int64Ptr(2))
		assert.True(t, blocked)
		accountRepo.AssertExpectations(t)
	})

	t.Run("NoBankChangeInWindow", func(t *testing.T) {
		accountRepo := new(MockPaymentAccountRepo)
		flags := runtime.NewStaticProvider(map[runtime.Key]any{
			runtime.FraudEnablePayoutDelayAfterBankChange:    true,
			runtime.FraudMinimumHoursBeforePayoutAfterChange: 48,
		})
		svc := service.NewEligibilityService(accountRepo, flags)

		accountRepo.On("ListBankUpdates", ctx, int64(7), mock.Anything, payoutTime).
			Return([]domain.BankUpdateEvent{}, nil)

		blocked := svc.ShouldBlockPayout(ctx, payoutTime, 7, domain.PayoutTargetTypeStore, int64Ptr(1), int64Ptr(2))
		assert.False(t, blocked)
	})

	t.Run("DasherTargetNeverChecked", func(t *testing.T) {
		accountRepo := new(MockPaymentAccountRepo)
		flags := runtime.NewStaticProvider(map[runtime.Key]any{
			runtime.FraudEnablePayoutDelayAfterBankChange:    true,
			runtime.FraudMinimumHoursBeforePayoutAfterChange: 48,
		})
		svc := service.NewEligibilityService(accountRepo, flags)

		blocked := svc.ShouldBlockPayout(ctx, payoutTime, 7, domain.PayoutTargetTypeDasher, int64Ptr(1), nil)
		assert.False(t, blocked)
		accountRepo.AssertNotCalled(t, "ListBankUpdates", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("WhitelistedBusinessNeverBlocked", func(t *testing.T) {
		accountRepo := new(MockPaymentAccountRepo)
		flags := runtime.NewStaticProvider(map[runtime.Key]any{
			runtime.FraudEnablePayoutDelayAfterBankChange:    true,
			runtime.FraudMinimumHoursBeforePayoutAfterChange: 48,
			runtime.FraudBusinessWhitelistForPayoutDelay:     []int64{2, 5},
		})
		svc := service.NewEligibilityService(accountRepo, flags)

		blocked := svc.ShouldBlockPayout(ctx, payoutTime, 7, domain.PayoutTargetTypeStore, int64Ptr(1), int64Ptr(5))
		assert.False(t, blocked)
		accountRepo.AssertNotCalled(t, "ListBankUpdates", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ZeroHourWindowDisablesCheck", func(t *testing.T) {
		accountRepo := new(MockPaymentAccountRepo)
		flags := runtime.NewStaticProvider(map[runtime.Key]any{
			runtime.FraudEnablePayoutDelayAfterBankChange: true,
		})
		svc := service.NewEligibilityService(accountRepo, flags)

		blocked := svc.ShouldBlockPayout(ctx, payoutTime, 7, domain.PayoutTargetTypeStore, int64Ptr(1), int64Ptr(2))
		assert.False(t, blocked)
		accountRepo.AssertNotCalled(t, "ListBankUpdates", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("LookupFailureFailsOpen", func(t *testing.T) {
		accountRepo := new(MockPaymentAccountRepo)
		flags := runtime.NewStaticProvider(map[runtime.Key]any{
			runtime.FraudEnablePayoutDelayAfterBankChange:    true,
			runtime.FraudMinimumHoursBeforePayoutAfterChange: 48,
		})
		svc := service.NewEligibilityService(accountRepo, flags)

		accountRepo.On("ListBankUpdates", ctx, int64(7), mock.Anything, payoutTime).
			Return(nil, errors.New("connection reset"))

		blocked := svc.ShouldBlockPayout(ctx, payoutTime, 7, domain.PayoutTargetTypeStore, int64Ptr(1), int64Ptr(2))
		assert.False(t, blocked)
	})
}

func TestEligibilityService_ShouldAutoPayWeekly(t *testing.T) {
	ctx := context.Background()

	t.Run("EligibleByDefault", func(t *testing.T) {
		accountRepo := new(MockPaymentAccountRepo)
		flags := runtime.NewStaticProvider(nil)
		svc := service.NewEligibilityService(accountRepo, flags)

		assert.True(t, svc.ShouldAutoPayWeekly(ctx, 7, domain.PayoutTargetTypeStore, int64Ptr(1), int64Ptr(2)))
	})

	t.Run("DasherStopList", func(t *testing.T) {
		accountRepo := new(MockPaymentAccountRepo)
		flags := runtime.NewStaticProvider(map[runtime.Key]any{
			runtime.PayoutDasherAccountStopList: []int64{3, 7},
		})
		svc := service.NewEligibilityService(accountRepo, flags)

		assert.False(t, svc.ShouldAutoPayWeekly(ctx, 7, domain.PayoutTargetTypeDasher, int64Ptr(1), nil))
		assert.True(t, svc.ShouldAutoPayWeekly(ctx, 8, domain.PayoutTargetTypeDasher, int64Ptr(1), nil))
	})

	t.Run("MerchantStopList", func(t *testing.T) {
		accountRepo := new(MockPaymentAccountRepo)
		flags := runtime.NewStaticProvider(map[runtime.Key]any{
			runtime.PayoutMerchantAccountStopList: []int64{9},
		})
		svc := service.NewEligibilityService(accountRepo, flags)

		assert.False(t, svc.ShouldAutoPayWeekly(ctx, 9, domain.PayoutTargetTypeStore, int64Ptr(1), int64Ptr(2)))
	})

	t.Run("StopListLookupDoesNotMutateProviderValues", func(t *testing.T) {
		accountRepo := new(MockPaymentAccountRepo)
		// Spare capacity in the stored slice; concatenating the merchant list
		// must not write into it.
		dasherList := make([]int64, 1, 4)
		dasherList[0] = 3
		flags := runtime.NewStaticProvider(map[runtime.Key]any{
			runtime.PayoutDasherAccountStopList:   dasherList,
			runtime.PayoutMerchantAccountStopList: []int64{9},
		})
		svc := service.NewEligibilityService(accountRepo, flags)

		assert.False(t, svc.ShouldAutoPayWeekly(ctx, 9, domain.PayoutTargetTypeStore, int64Ptr(1), int64Ptr(2)))
		assert.Equal(t, []int64{3, 0, 0, 0}, dasherList[:cap(dasherList)])
		assert.Equal(t, []int64{3}, flags.GetIntList(runtime.PayoutDasherAccountStopList, nil))
	})

	t.Run("BlockedPayoutIsIneligible", func(t *testing.T) {
		accountRepo := new(MockPaymentAccountRepo)
		flags := runtime.NewStaticProvider(map[runtime.Key]any{
			runtime.FraudEnablePayoutDelayAfterBankChange:    true,
			runtime.FraudMinimumHoursBeforePayoutAfterChange: 48,
		})
		svc := service.NewEligibilityService(accountRepo, flags)

		accountRepo.On("ListBankUpdates", ctx, int64(7), mock.Anything, mock.Anything).
			Return([]domain.BankUpdateEvent{{ID: 1, PaymentAccountID: 7}}, nil)

		assert.False(t, svc.ShouldAutoPayWeekly(ctx, 7, domain.PayoutTargetTypeStore, int64Ptr(1), int64Ptr(2)))
	})
}
