package main

import (
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"payout-ledger-backend/internal/config"
	"payout-ledger-backend/internal/events"
	eventskafka "payout-ledger-backend/internal/events/kafka"
	"payout-ledger-backend/internal/gateway"
	"payout-ledger-backend/internal/jobs"
	"payout-ledger-backend/internal/lock"
	"payout-ledger-backend/internal/logger"
	"payout-ledger-backend/internal/repository/postgres"
	"payout-ledger-backend/internal/runtime"
	"payout-ledger-backend/internal/scheduler"
	"payout-ledger-backend/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit ('create-weekly-transfers', 'process-due-ledgers')")
	flag.Parse()

	// Local .env overrides, ignored when absent
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting payout job runner...", "log_level", cfg.Log.Level)

	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	store := postgres.NewStore(db)
	locker := lock.NewPostgresLocker(db)

	flags := runtime.NewStaticProvider(nil)
	if cfg.Runtime.FlagsFile != "" {
		flags, err = runtime.LoadFile(cfg.Runtime.FlagsFile)
		if err != nil {
			log.Fatalf("Failed to load runtime flags: %v", err)
		}
	}

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher := eventskafka.NewPublisher(cfg.Kafka.Brokers)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		logger.Info("Kafka event publishing enabled", "brokers", cfg.Kafka.Brokers)
	}

	var alerts service.AlertService
	if cfg.Alert.SendgridAPIKey != "" {
		alerts = service.NewSendgridAlertService(cfg.Alert.SendgridAPIKey, cfg.Alert.FromEmail, cfg.Alert.OpsEmail)
		logger.Info("Ops alerting enabled", "ops_email", cfg.Alert.OpsEmail)
	}

	eligibility := service.NewEligibilityService(store.PaymentAccountRepository, flags)
	ledgerService := service.NewLedgerService(store.LedgerRepository, store.ScheduledLedgerRepository, locker, publisher)
	transferService := service.NewTransferService(
		store.TransferRepository,
		store.TransactionRepository,
		store.PaymentAccountRepository,
		store.GatewaySubmissionRepository,
		eligibility,
		gateway.DisabledClient{},
		locker,
		publisher,
		alerts,
	)

	jobRunner := jobs.NewJobRunner(store, &jobs.Services{
		Ledger:   ledgerService,
		Transfer: transferService,
		Alert:    alerts,
	}, cfg)

	if *runOnce != "" {
		switch *runOnce {
		case "create-weekly-transfers":
			jobRunner.CreateWeeklyTransfers()
		case "process-due-ledgers":
			jobRunner.ProcessDueLedgers()
		default:
			log.Fatalf("Unknown job: %s", *runOnce)
		}
		return
	}

	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()
	defer sched.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down payout job runner...")
}
