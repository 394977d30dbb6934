package cmd

import (
	"context"
	"fmt"
	"time"

	"raffler/application"
	"raffler/config"
	"raffler/database"
	"raffler/infrastructure"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting raffler...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established successfully")

	// Initialize NATS
	log.Infof("Connecting to NATS at %s...", cfg.NATSServers)
	natsClient := infrastructure.NewNATSClient(cfg.NATSServers)
	if err := natsClient.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}

	subjectMapper := infrastructure.NewEventSubjectMapper()
	eventPublisher := infrastructure.NewNATSEventPublisher(natsClient, subjectMapper)
	if err := eventPublisher.EnsureDomainEventStream(); err != nil {
		return fmt.Errorf("failed to ensure domain event stream: %w", err)
	}
	log.Info("Event publisher initialized successfully")

	// Deliver winner announcements for draws, including draws executed by
	// the one-shot CLI in another process
	notifier := infrastructure.NewWinnerNotifier(natsClient)
	if err := notifier.Start(); err != nil {
		return fmt.Errorf("failed to start winner notifier: %w", err)
	}

	// Initialize unit of work factory
	uowFactory := infrastructure.NewUnitOfWorkFactory(db, eventPublisher)

	// Start the periodic consolidation worker
	consolidator := application.NewBatchConsolidator(uowFactory)
	worker := application.NewConsolidationWorker(consolidator, cfg.ConsolidationInterval)
	stopWorker := worker.Start(ctx)

	// Wait for context cancellation
	log.Infof("Raffler is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Info("Shutting down...")
	stopWorker()

	if err := natsClient.Close(); err != nil {
		log.Errorf("Error closing NATS client: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Info("Shutdown completed")
	}

	return nil
}
