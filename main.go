package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"raffler/application"
	"raffler/cmd"
	"raffler/config"
	"raffler/database"
	"raffler/domain/entities"
	"raffler/domain/events"
	"raffler/infrastructure"

	log "github.com/sirupsen/logrus"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "migrate":
			if err := handleMigrationCommand(); err != nil {
				log.Fatal("Migration error: ", err)
			}
			return
		case "consolidate":
			if err := handleConsolidate(); err != nil {
				log.Fatal("Consolidation error: ", err)
			}
			return
		case "draw":
			if err := handleDraw(); err != nil {
				log.Fatal("Draw error: ", err)
			}
			return
		case "winners":
			if err := handleListWinners(); err != nil {
				log.Fatal("Winner listing error: ", err)
			}
			return
		case "purge-winners":
			if err := handlePurgeWinners(); err != nil {
				log.Fatal("Purge error: ", err)
			}
			return
		}
	}

	// Normal service operation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("Received shutdown signal, shutting down gracefully...")
		cancel()
	}()

	if err := cmd.Run(ctx); err != nil {
		log.Fatal("Application error: ", err)
	}
}

func handleMigrationCommand() error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: raffler migrate [up|down|status] [args...]")
	}

	command := os.Args[2]
	switch command {
	case "up":
		return database.MigrateUp()
	case "down":
		steps := "1"
		if len(os.Args) > 3 {
			steps = os.Args[3]
		}
		return database.MigrateDown(steps)
	case "status":
		return database.MigrateStatus()
	default:
		return fmt.Errorf("unknown migration command: %s", command)
	}
}

// adminContext carries the wiring shared by the one-shot admin commands.
// Commands go through the same NATS event path as the long-running service,
// so domain events they raise reach the stream after commit.
type adminContext struct {
	uowFactory application.UnitOfWorkFactory
	publisher  *infrastructure.NATSEventPublisher
	natsClient *infrastructure.NATSClient
	db         *database.DB
}

func newAdminContext(ctx context.Context) (*adminContext, error) {
	cfg := config.Get()

	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	natsClient := infrastructure.NewNATSClient(cfg.NATSServers)
	if err := natsClient.Connect(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	publisher := infrastructure.NewNATSEventPublisher(natsClient, infrastructure.NewEventSubjectMapper())
	if err := publisher.EnsureDomainEventStream(); err != nil {
		_ = natsClient.Close()
		db.Close()
		return nil, fmt.Errorf("failed to ensure domain event stream: %w", err)
	}

	return &adminContext{
		uowFactory: infrastructure.NewUnitOfWorkFactory(db, publisher),
		publisher:  publisher,
		natsClient: natsClient,
		db:         db,
	}, nil
}

func (a *adminContext) Close() {
	if err := a.natsClient.Close(); err != nil {
		log.Errorf("Error closing NATS client: %v", err)
	}
	a.db.Close()
}

func handleConsolidate() error {
	ctx := context.Background()

	admin, err := newAdminContext(ctx)
	if err != nil {
		return err
	}
	defer admin.Close()

	// Optional user IDs limit the batch; none consolidates everyone
	var userIDs []int64
	for _, arg := range os.Args[2:] {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid user id %q: %w", arg, err)
		}
		userIDs = append(userIDs, id)
	}

	consolidator := application.NewBatchConsolidator(admin.uowFactory)
	report, err := consolidator.Consolidate(ctx, userIDs)
	if err != nil {
		return err
	}

	log.Infof("Consolidated %d users into %d pools (%d tickets drawable, %d failures)",
		report.UsersProcessed, len(report.Pools), len(report.EligibleTickets), len(report.Failures))
	return nil
}

func handleDraw() error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: raffler draw giveaway-id [winner-count]")
	}

	giveawayID, err := strconv.ParseInt(os.Args[2], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid giveaway id %q: %w", os.Args[2], err)
	}

	winnerCount := config.Get().DefaultWinnerCount
	if len(os.Args) > 3 {
		winnerCount, err = strconv.Atoi(os.Args[3])
		if err != nil {
			return fmt.Errorf("invalid winner count %q: %w", os.Args[3], err)
		}
	}

	ctx := context.Background()
	admin, err := newAdminContext(ctx)
	if err != nil {
		return err
	}
	defer admin.Close()

	// Announce winners in this process as the committed events flush; the
	// service's durable consumer delivers the notifications proper
	notifier := infrastructure.NewWinnerNotifier(admin.natsClient)
	admin.publisher.RegisterLocalHandler(events.EventTypeWinnerSelected, notifier.Announce)

	executor := application.NewDrawExecutor(admin.uowFactory)
	winners, err := executor.ExecuteDraw(ctx, giveawayID, winnerCount)
	if err != nil {
		return err
	}

	for _, w := range winners {
		log.Infof("%s: %s (ticket %s)", w.Position, w.Email, w.TicketID)
	}
	return nil
}

func handleListWinners() error {
	ctx := context.Background()

	admin, err := newAdminContext(ctx)
	if err != nil {
		return err
	}
	defer admin.Close()

	winnerAdmin := application.NewWinnerAdmin(admin.uowFactory)

	// With a giveaway ID the listing is scoped and in selection order;
	// without, every current winner is shown newest first
	var winners []*entities.Winner
	if len(os.Args) > 2 {
		giveawayID, err := strconv.ParseInt(os.Args[2], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid giveaway id %q: %w", os.Args[2], err)
		}
		winners, err = winnerAdmin.ListGiveawayWinners(ctx, giveawayID)
		if err != nil {
			return err
		}
	} else {
		winners, err = winnerAdmin.ListWinners(ctx)
		if err != nil {
			return err
		}
	}

	if len(winners) == 0 {
		log.Info("No winners recorded")
		return nil
	}
	for _, w := range winners {
		log.Infof("giveaway %d %s: %s (ticket %s)", w.GiveawayID, w.Position, w.Email, w.TicketID)
	}
	return nil
}

func handlePurgeWinners() error {
	ctx := context.Background()

	admin, err := newAdminContext(ctx)
	if err != nil {
		return err
	}
	defer admin.Close()

	winnerAdmin := application.NewWinnerAdmin(admin.uowFactory)
	purged, err := winnerAdmin.PurgeWinners(ctx)
	if err != nil {
		return err
	}

	log.Infof("Purged %d winners", purged)
	return nil
}
