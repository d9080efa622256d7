package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/config"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/repository/postgres"
	internalworker "github.com/rahul-kr-rai/ayushgyan-health-hub/internal/worker"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/logger"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/messaging/redis"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/metrics"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/worker"
)

// The worker drains the outbox into the Redis broker and sweeps reservations
// whose checkout never finished.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)
	appMetrics := metrics.NewMetrics("ayushgyan_worker")

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	zl := appLogger.Zerolog()
	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, zl)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	outboxRepo := postgres.NewOutboxRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)

	processor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
		BatchSize:     cfg.Outbox.BatchSize,
		PollInterval:  cfg.Outbox.PollInterval,
		RetryAttempts: cfg.Outbox.RetryAttempts,
		RetryDelay:    cfg.Outbox.RetryDelay,
	}, appLogger, appMetrics)

	reconciler := internalworker.NewReconciler(appointmentRepo, cfg.Reconciler, appLogger, appMetrics)

	ctx, cancel := context.WithCancel(context.Background())
	go processor.Start(ctx)
	go reconciler.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()
}
