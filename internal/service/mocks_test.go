package service_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"payout-ledger-backend/internal/domain"
	"payout-ledger-backend/internal/gateway"
	"payout-ledger-backend/internal/service"
)

// passLocker runs the critical section directly; lock semantics are covered
// by the lock package tests.
type passLocker struct{}

func (passLocker) WithLock(ctx context.Context, accountKey string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// MockLedgerRepo
type MockLedgerRepo struct {
	mock.Mock
}

func (m *MockLedgerRepo) Insert(ctx context.Context, ledger *domain.Ledger) (*domain.Ledger, error) {
	args := m.Called(ctx, ledger)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ledger), args.Error(1)
}
func (m *MockLedgerRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Ledger, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ledger), args.Error(1)
}
func (m *MockLedgerRepo) GetOpenForAccount(ctx context.Context, paymentAccountID string) (*domain.Ledger, error) {
	args := m.Called(ctx, paymentAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ledger), args.Error(1)
}
func (m *MockLedgerRepo) UpdateBalance(ctx context.Context, id uuid.UUID, balance int64) (*domain.Ledger, error) {
	args := m.Called(ctx, id, balance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ledger), args.Error(1)
}
func (m *MockLedgerRepo) ProcessAndCloseScheduledLedger(ctx context.Context, id uuid.UUID, closedAt int64) (*domain.Ledger, error) {
	args := m.Called(ctx, id, closedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ledger), args.Error(1)
}

// MockScheduledLedgerRepo
type MockScheduledLedgerRepo struct {
	mock.Mock
}

func (m *MockScheduledLedgerRepo) Insert(ctx context.Context, scheduled *domain.ScheduledLedger) (*domain.ScheduledLedger, error) {
	args := m.Called(ctx, scheduled)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScheduledLedger), args.Error(1)
}
func (m *MockScheduledLedgerRepo) InsertWithLedger(ctx context.Context, ledger *domain.Ledger, scheduled *domain.ScheduledLedger) (*domain.ScheduledLedger, error) {
	args := m.Called(ctx, ledger, scheduled)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScheduledLedger), args.Error(1)
}
func (m *MockScheduledLedgerRepo) GetOpenForPeriod(ctx context.Context, paymentAccountID string, routingKey time.Time, interval domain.ScheduledLedgerInterval) (*domain.ScheduledLedger, error) {
	args := m.Called(ctx, paymentAccountID, routingKey, interval)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScheduledLedger), args.Error(1)
}
func (m *MockScheduledLedgerRepo) GetOpenForAccount(ctx context.Context, paymentAccountID string) (*domain.ScheduledLedger, error) {
	args := m.Called(ctx, paymentAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScheduledLedger), args.Error(1)
}
func (m *MockScheduledLedgerRepo) ListDue(ctx context.Context, cutoff time.Time) ([]domain.ScheduledLedger, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ScheduledLedger), args.Error(1)
}

// MockTransferRepo
type MockTransferRepo struct {
	mock.Mock
}

func (m *MockTransferRepo) GetByID(ctx context.Context, id int64) (*domain.Transfer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transfer), args.Error(1)
}
func (m *MockTransferRepo) UpdateStatus(ctx context.Context, id int64, status domain.TransferStatus) (*domain.Transfer, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transfer), args.Error(1)
}
func (m *MockTransferRepo) CreateAndAssignTransactions(ctx context.Context, transfer *domain.Transfer, transactionIDs []int64) (*domain.Transfer, []int64, error) {
	args := m.Called(ctx, transfer, transactionIDs)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Transfer), args.Get(1).([]int64), args.Error(2)
}

// MockTransactionRepo
type MockTransactionRepo struct {
	mock.Mock
}

func (m *MockTransactionRepo) Insert(ctx context.Context, txn *domain.Transaction) (*domain.Transaction, error) {
	args := m.Called(ctx, txn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionRepo) ListUnpaid(ctx context.Context, paymentAccountID int64, startTime *time.Time, endTime time.Time) ([]domain.Transaction, error) {
	args := m.Called(ctx, paymentAccountID, startTime, endTime)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}
func (m *MockTransactionRepo) ListAccountIDsWithUnpaid(ctx context.Context, cutoff time.Time) ([]int64, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

// MockPaymentAccountRepo
type MockPaymentAccountRepo struct {
	mock.Mock
}

func (m *MockPaymentAccountRepo) GetByID(ctx context.Context, id int64) (*domain.PaymentAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentAccount), args.Error(1)
}
func (m *MockPaymentAccountRepo) ListBankUpdates(ctx context.Context, paymentAccountID int64, startTime, endTime time.Time) ([]domain.BankUpdateEvent, error) {
	args := m.Called(ctx, paymentAccountID, startTime, endTime)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankUpdateEvent), args.Error(1)
}

// MockSubmissionRepo
type MockSubmissionRepo struct {
	mock.Mock
}

func (m *MockSubmissionRepo) Insert(ctx context.Context, sub *domain.GatewaySubmission) (*domain.GatewaySubmission, error) {
	args := m.Called(ctx, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GatewaySubmission), args.Error(1)
}
func (m *MockSubmissionRepo) GetLatestByTransfer(ctx context.Context, transferID int64) (*domain.GatewaySubmission, error) {
	args := m.Called(ctx, transferID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GatewaySubmission), args.Error(1)
}

// MockGatewayClient
type MockGatewayClient struct {
	mock.Mock
}

func (m *MockGatewayClient) RetrieveAccount(ctx context.Context, accountID string) (*gateway.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Account), args.Error(1)
}
func (m *MockGatewayClient) CreatePayout(ctx context.Context, req gateway.PayoutRequest) (*gateway.Payout, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Payout), args.Error(1)
}

// MockPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(topic string, event any) error {
	args := m.Called(topic, event)
	return args.Error(0)
}

// MockAlertService
type MockAlertService struct {
	mock.Mock
}

func (m *MockAlertService) SendOpsAlert(ctx context.Context, subject, message string) error {
	args := m.Called(ctx, subject, message)
	return args.Error(0)
}

// MockEligibilityService
type MockEligibilityService struct {
	mock.Mock
}

func (m *MockEligibilityService) ShouldAutoPayWeekly(ctx context.Context, paymentAccountID int64, targetType domain.PayoutTargetType, targetID, targetBusinessID *int64) bool {
	args := m.Called(ctx, paymentAccountID, targetType, targetID, targetBusinessID)
	return args.Bool(0)
}
func (m *MockEligibilityService) ShouldBlockPayout(ctx context.Context, payoutTime time.Time, paymentAccountID int64, targetType domain.PayoutTargetType, targetID, targetBusinessID *int64) bool {
	args := m.Called(ctx, payoutTime, paymentAccountID, targetType, targetID, targetBusinessID)
	return args.Bool(0)
}

var _ service.EligibilityService = (*MockEligibilityService)(nil)
