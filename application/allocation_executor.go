package application

import (
	"context"
	"fmt"

	"raffler/domain/entities"
	"raffler/domain/interfaces"
	"raffler/domain/services"

	log "github.com/sirupsen/logrus"
)

// AllocationExecutor owns the transaction boundary for ticket allocation
type AllocationExecutor struct {
	uowFactory UnitOfWorkFactory
}

// NewAllocationExecutor creates a new allocation executor
func NewAllocationExecutor(uowFactory UnitOfWorkFactory) *AllocationExecutor {
	return &AllocationExecutor{
		uowFactory: uowFactory,
	}
}

// AllocateFreeTickets issues the subscription's periodic free tickets in a
// single transaction
func (e *AllocationExecutor) AllocateFreeTickets(ctx context.Context, quotaID int64) (*interfaces.AllocationResult, error) {
	uow := e.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	svc := services.NewAllocationService(
		uow.TicketGrantRepository(),
		uow.SubscriptionQuotaRepository(),
		uow.GiveawayRepository(),
		uow.EventBus(),
	)

	result, err := svc.AllocateFreeTickets(ctx, quotaID)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"quotaId":  quotaID,
		"standard": result.Standard,
		"bonus":    result.Bonus,
	}).Info("Allocated free tickets")

	return result, nil
}

// ConfirmGrant finalizes a paid grant in a single transaction
func (e *AllocationExecutor) ConfirmGrant(ctx context.Context, grantID int64) (*entities.TicketGrant, error) {
	uow := e.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	svc := services.NewAllocationService(
		uow.TicketGrantRepository(),
		uow.SubscriptionQuotaRepository(),
		uow.GiveawayRepository(),
		uow.EventBus(),
	)

	grant, err := svc.ConfirmGrant(ctx, grantID)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return grant, nil
}
