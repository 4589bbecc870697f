package jobs

import (
	"context"
	"fmt"

	"payout-ledger-backend/internal/config"
	"payout-ledger-backend/internal/logger"
	"payout-ledger-backend/internal/repository/postgres"
	"payout-ledger-backend/internal/service"
)

// JobRunner coordinates all scheduled payout jobs
type JobRunner struct {
	store    *postgres.Store
	services *Services
	config   *config.Config
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Ledger   service.LedgerService
	Transfer service.TransferService
	Alert    service.AlertService
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(store *postgres.Store, services *Services, cfg *config.Config) *JobRunner {
	return &JobRunner{
		store:    store,
		services: services,
		config:   cfg,
	}
}

// Config exposes the runner's configuration to the scheduler
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
			jr.alertOps(jobName, fmt.Sprintf("job panicked: %v", r))
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

func (jr *JobRunner) alertOps(jobName, message string) {
	if jr.services.Alert == nil {
		return
	}
	subject := fmt.Sprintf("Payout job failure: %s", jobName)
	if err := jr.services.Alert.SendOpsAlert(context.Background(), subject, message); err != nil {
		logger.Error("Failed to send ops alert", "job", jobName, "error", err)
	}
}
