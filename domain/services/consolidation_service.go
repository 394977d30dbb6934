package services

import (
	"context"
	"fmt"

	"raffler/domain/entities"
	"raffler/domain/events"
	"raffler/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// consolidationService merges a user's ticket grants into their drawable
// pool. All methods operate within the caller's transaction; grant and quota
// rows are read with row locks so two concurrent passes over the same user
// cannot double-drain a grant or double-count usage.
type consolidationService struct {
	userRepo       interfaces.UserRepository
	grantRepo      interfaces.TicketGrantRepository
	quotaRepo      interfaces.SubscriptionQuotaRepository
	poolRepo       interfaces.TicketPoolRepository
	quotaService   interfaces.QuotaService
	eventPublisher interfaces.EventPublisher
}

// NewConsolidationService creates a new consolidation service
func NewConsolidationService(
	userRepo interfaces.UserRepository,
	grantRepo interfaces.TicketGrantRepository,
	quotaRepo interfaces.SubscriptionQuotaRepository,
	poolRepo interfaces.TicketPoolRepository,
	quotaService interfaces.QuotaService,
	eventPublisher interfaces.EventPublisher,
) interfaces.ConsolidationService {
	return &consolidationService{
		userRepo:       userRepo,
		grantRepo:      grantRepo,
		quotaRepo:      quotaRepo,
		poolRepo:       poolRepo,
		quotaService:   quotaService,
		eventPublisher: eventPublisher,
	}
}

// ConsolidateUser merges the user's unconsumed grants into their pool
func (s *consolidationService) ConsolidateUser(ctx context.Context, userID int64) (*entities.TicketPool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %d not found", userID)
	}

	grants, err := s.grantRepo.GetUnconsumedByUserForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get unconsumed grants: %w", err)
	}
	if len(grants) == 0 {
		return nil, nil
	}

	quota, err := s.quotaRepo.GetActiveByUserForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription quota: %w", err)
	}

	if quota != nil {
		if err := s.quotaService.ResetIfElapsed(ctx, quota); err != nil {
			return nil, err
		}
	}

	cycle := entities.BillingCycleMonthly
	if quota != nil {
		cycle = quota.BillingCycle
	}

	// Collect this pass's eligible identifiers and drain them from each
	// grant. Grants are never deleted, only emptied.
	var consumed []string
	type drained struct {
		grantID   int64
		remaining []string
	}
	var updates []drained

	for _, grant := range grants {
		eligible := grant.EligibleTicketIDs(cycle)
		if len(eligible) == 0 {
			continue
		}
		consumed = append(consumed, eligible...)

		used := make(map[string]bool, len(eligible))
		for _, id := range eligible {
			used[id] = true
		}
		remaining := make([]string, 0, len(grant.TicketIDs)-len(eligible))
		for _, id := range grant.TicketIDs {
			if !used[id] {
				remaining = append(remaining, id)
			}
		}
		if len(remaining) != len(grant.TicketIDs) {
			updates = append(updates, drained{grantID: grant.ID, remaining: remaining})
		}
	}

	// Tickets consolidated by an earlier pass live only in the pool row now
	// (their grants are drained), so the merge below must start from the
	// existing pool or those tickets are lost before they are ever drawn.
	existing, err := s.poolRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket pool: %w", err)
	}

	// Deduplicate while preserving first-seen order, pool contents first.
	// Identifiers are unique at issuance; a duplicate across grants or
	// against the pool means dirty data, not a crash.
	var ticketIDs []string
	seen := make(map[string]bool, len(consumed))
	if existing != nil {
		ticketIDs = append(ticketIDs, existing.TicketIDs...)
		for _, id := range existing.TicketIDs {
			seen[id] = true
		}
	}
	newTickets := 0
	for _, id := range consumed {
		if seen[id] {
			log.WithFields(log.Fields{
				"userID":   userID,
				"ticketID": id,
			}).Warn("Duplicate ticket identifier across grants, dropping")
			continue
		}
		seen[id] = true
		ticketIDs = append(ticketIDs, id)
		newTickets++
	}

	if newTickets == 0 {
		return nil, nil
	}

	pool := &entities.TicketPool{
		UserID:    userID,
		Email:     user.Email,
		FullName:  user.FullName,
		TicketIDs: ticketIDs,
	}
	if err := s.poolRepo.Upsert(ctx, pool); err != nil {
		return nil, fmt.Errorf("failed to upsert ticket pool: %w", err)
	}

	for _, u := range updates {
		if err := s.grantRepo.UpdateTicketIDs(ctx, u.grantID, u.remaining); err != nil {
			return nil, fmt.Errorf("failed to drain grant %d: %w", u.grantID, err)
		}
	}

	if quota != nil {
		quota.RecordUsage(newTickets)
		if err := s.quotaRepo.UpdateUsage(ctx, quota); err != nil {
			return nil, fmt.Errorf("failed to update quota usage: %w", err)
		}
	}

	if err := s.eventPublisher.Publish(events.TicketPoolUpdatedEvent{
		UserID:      userID,
		Email:       user.Email,
		TicketCount: len(ticketIDs),
	}); err != nil {
		log.WithError(err).Warn("Failed to publish ticket pool updated event")
	}

	return pool, nil
}

// EligibleTickets returns every drawable ticket identifier across all pools
func (s *consolidationService) EligibleTickets(ctx context.Context) ([]string, error) {
	ids, err := s.poolRepo.GetAllTicketIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list eligible tickets: %w", err)
	}
	return ids, nil
}
