package application

import (
	"context"
	"fmt"

	"raffler/domain/entities"
	"raffler/domain/services"

	log "github.com/sirupsen/logrus"
)

// DrawExecutor owns the transaction boundary for giveaway draws
type DrawExecutor struct {
	uowFactory UnitOfWorkFactory
}

// NewDrawExecutor creates a new draw executor
func NewDrawExecutor(uowFactory UnitOfWorkFactory) *DrawExecutor {
	return &DrawExecutor{
		uowFactory: uowFactory,
	}
}

// ExecuteDraw selects winners for the giveaway and clears the pools in a
// single transaction. Winner notifications flush after commit, so a failed
// notification never rolls back a completed draw.
func (e *DrawExecutor) ExecuteDraw(ctx context.Context, giveawayID int64, winnerCount int) ([]*entities.Winner, error) {
	uow := e.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	drawService := services.NewDrawService(
		uow.GiveawayRepository(),
		uow.TicketPoolRepository(),
		uow.PoolArchiveRepository(),
		uow.WinnerRepository(),
		uow.EventBus(),
	)

	winners, err := drawService.Draw(ctx, winnerCount, giveawayID)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"giveawayId":  giveawayID,
		"winnerCount": len(winners),
	}).Info("Completed giveaway draw")

	return winners, nil
}
