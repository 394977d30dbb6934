package application

import (
	"context"
	"fmt"

	"raffler/domain/entities"
	"raffler/domain/interfaces"
	"raffler/domain/services"

	log "github.com/sirupsen/logrus"
)

// BatchConsolidator runs consolidation across many users, each in its own
// transaction so one user's failure cannot poison the rest of the batch.
type BatchConsolidator struct {
	uowFactory UnitOfWorkFactory
}

// NewBatchConsolidator creates a new batch consolidator
func NewBatchConsolidator(uowFactory UnitOfWorkFactory) *BatchConsolidator {
	return &BatchConsolidator{
		uowFactory: uowFactory,
	}
}

// Consolidate merges grants into pools for the given users. A nil or empty
// user list consolidates every user holding unconsumed grants. The returned
// report includes the resulting pools and the full drawable ticket set.
func (c *BatchConsolidator) Consolidate(ctx context.Context, userIDs []int64) (*interfaces.ConsolidationReport, error) {
	if len(userIDs) == 0 {
		ids, err := c.usersWithUnconsumedGrants(ctx)
		if err != nil {
			return nil, err
		}
		userIDs = ids
	}

	report := &interfaces.ConsolidationReport{}

	for _, userID := range userIDs {
		pool, err := c.consolidateOne(ctx, userID)
		if err != nil {
			log.WithFields(log.Fields{
				"userId": userID,
				"error":  err,
			}).Error("Failed to consolidate user")
			report.Failures = append(report.Failures, interfaces.ConsolidationFailure{
				UserID: userID,
				Err:    err,
			})
			continue
		}

		report.UsersProcessed++
		if pool != nil {
			report.TicketsConsolidated += len(pool.TicketIDs)
		}
	}

	// Snapshot the drawable state after the batch
	if err := c.fillReportSnapshot(ctx, report); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"usersProcessed":      report.UsersProcessed,
		"ticketsConsolidated": report.TicketsConsolidated,
		"failures":            len(report.Failures),
		"eligibleTickets":     len(report.EligibleTickets),
	}).Info("Completed consolidation batch")

	return report, nil
}

// consolidateOne runs a single user's consolidation in its own transaction
func (c *BatchConsolidator) consolidateOne(ctx context.Context, userID int64) (pool *entities.TicketPool, err error) {
	uow := c.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	quotaService := services.NewQuotaService(uow.SubscriptionQuotaRepository())
	consolidationService := services.NewConsolidationService(
		uow.UserRepository(),
		uow.TicketGrantRepository(),
		uow.SubscriptionQuotaRepository(),
		uow.TicketPoolRepository(),
		quotaService,
		uow.EventBus(),
	)

	pool, err = consolidationService.ConsolidateUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return pool, nil
}

// usersWithUnconsumedGrants returns every user with consolidatable grants
func (c *BatchConsolidator) usersWithUnconsumedGrants(ctx context.Context) ([]int64, error) {
	uow := c.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	ids, err := uow.UserRepository().GetIDsWithUnconsumedGrants(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users with unconsumed grants: %w", err)
	}

	return ids, nil
}

// fillReportSnapshot reads the post-batch pool state into the report
func (c *BatchConsolidator) fillReportSnapshot(ctx context.Context, report *interfaces.ConsolidationReport) error {
	uow := c.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	pools, err := uow.TicketPoolRepository().GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to read pools: %w", err)
	}
	report.Pools = pools

	ticketIDs, err := uow.TicketPoolRepository().GetAllTicketIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to read eligible tickets: %w", err)
	}
	report.EligibleTickets = ticketIDs

	return nil
}
