package services

import (
	"context"
	"fmt"
	"time"

	"raffler/domain/entities"
	"raffler/domain/events"
	"raffler/domain/interfaces"
	"raffler/domain/utils"

	log "github.com/sirupsen/logrus"
)

// allocationService issues ticket grants: periodic free tickets for
// subscribers and confirmation of paid grants. Operates within the caller's
// transaction.
type allocationService struct {
	grantRepo      interfaces.TicketGrantRepository
	quotaRepo      interfaces.SubscriptionQuotaRepository
	giveawayRepo   interfaces.GiveawayRepository
	eventPublisher interfaces.EventPublisher
	now            func() time.Time
}

// NewAllocationService creates a new allocation service
func NewAllocationService(
	grantRepo interfaces.TicketGrantRepository,
	quotaRepo interfaces.SubscriptionQuotaRepository,
	giveawayRepo interfaces.GiveawayRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.AllocationService {
	return &allocationService{
		grantRepo:      grantRepo,
		quotaRepo:      quotaRepo,
		giveawayRepo:   giveawayRepo,
		eventPublisher: eventPublisher,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// AllocateFreeTickets issues the subscription's free tickets against the
// open giveaway, plus a one-ticket bonus for first-time entrants. Monthly
// subscribers are allocated at most once per calendar month; yearly
// subscribers receive the full twelve-month allotment up front (consolidation
// releases it in monthly installments).
func (s *allocationService) AllocateFreeTickets(ctx context.Context, quotaID int64) (*interfaces.AllocationResult, error) {
	now := s.now()

	quota, err := s.quotaRepo.GetByIDForUpdate(ctx, quotaID)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription quota: %w", err)
	}
	if quota == nil || !quota.IsCurrent(now) {
		return nil, ErrQuotaNotFound
	}

	giveaway, err := s.giveawayRepo.GetOpenForUpdate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get open giveaway: %w", err)
	}
	if giveaway == nil {
		return nil, ErrGiveawayNotFound
	}

	hasGrants, err := s.grantRepo.ExistsForUser(ctx, quota.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing grants: %w", err)
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	alreadyAllocated, err := s.grantRepo.ExistsSubscriptionGrantSince(ctx, quota.UserID, monthStart)
	if err != nil {
		return nil, fmt.Errorf("failed to check prior allocation: %w", err)
	}

	var ticketCount int64
	switch quota.BillingCycle {
	case entities.BillingCycleYearly:
		ticketCount = quota.Entitlement * 12
	default:
		if !alreadyAllocated {
			ticketCount = quota.Entitlement
		}
	}

	var bonusCount int64
	if !hasGrants {
		bonusCount = 1
	}

	if giveaway.TotalAvailable < ticketCount+bonusCount {
		return nil, ErrInsufficientCapacity
	}

	result := &interfaces.AllocationResult{}

	if ticketCount > 0 {
		grant := &entities.TicketGrant{
			UserID:        quota.UserID,
			GiveawayID:    giveaway.ID,
			Quantity:      ticketCount,
			TicketIDs:     utils.NewTicketIDs(int(ticketCount)),
			Source:        entities.GrantSourceSubscription,
			PaymentStatus: entities.PaymentStatusSucceeded,
		}
		if err := s.grantRepo.Create(ctx, grant); err != nil {
			return nil, fmt.Errorf("failed to create subscription grant: %w", err)
		}
		if err := s.giveawayRepo.DecrementCapacity(ctx, giveaway.ID, ticketCount); err != nil {
			return nil, fmt.Errorf("failed to decrement giveaway capacity: %w", err)
		}
		result.Standard = int(ticketCount)
	}

	if bonusCount > 0 {
		grant := &entities.TicketGrant{
			UserID:        quota.UserID,
			GiveawayID:    giveaway.ID,
			Quantity:      bonusCount,
			TicketIDs:     utils.NewTicketIDs(int(bonusCount)),
			Source:        entities.GrantSourceFirstTimeBonus,
			PaymentStatus: entities.PaymentStatusSucceeded,
		}
		if err := s.grantRepo.Create(ctx, grant); err != nil {
			return nil, fmt.Errorf("failed to create bonus grant: %w", err)
		}
		if err := s.giveawayRepo.DecrementCapacity(ctx, giveaway.ID, bonusCount); err != nil {
			return nil, fmt.Errorf("failed to decrement giveaway capacity: %w", err)
		}
		result.Bonus = int(bonusCount)
	}

	result.Total = result.Standard + result.Bonus

	if result.Total > 0 {
		if err := s.eventPublisher.Publish(events.TicketsGrantedEvent{
			UserID:     quota.UserID,
			GiveawayID: giveaway.ID,
			Source:     string(entities.GrantSourceSubscription),
			Quantity:   result.Total,
		}); err != nil {
			log.WithError(err).Warn("Failed to publish tickets granted event")
		}
	}

	log.WithFields(log.Fields{
		"userID":   quota.UserID,
		"plan":     quota.PlanName,
		"standard": result.Standard,
		"bonus":    result.Bonus,
	}).Info("Allocated free tickets")

	return result, nil
}

// ConfirmGrant finalizes a grant whose payment succeeded: decrements the
// giveaway capacity and generates ticket identifiers if absent. Confirming
// an already-confirmed grant regenerates nothing.
func (s *allocationService) ConfirmGrant(ctx context.Context, grantID int64) (*entities.TicketGrant, error) {
	grant, err := s.grantRepo.GetByID(ctx, grantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get grant: %w", err)
	}
	if grant == nil {
		return nil, ErrGrantNotFound
	}
	if grant.PaymentStatus != entities.PaymentStatusSucceeded {
		return nil, ErrPaymentNotSucceeded
	}

	giveaway, err := s.giveawayRepo.GetByIDForUpdate(ctx, grant.GiveawayID)
	if err != nil {
		return nil, fmt.Errorf("failed to get giveaway: %w", err)
	}
	if giveaway == nil {
		return nil, ErrGiveawayNotFound
	}
	if giveaway.TotalAvailable < grant.Quantity {
		return nil, ErrInsufficientCapacity
	}

	if err := s.giveawayRepo.DecrementCapacity(ctx, giveaway.ID, grant.Quantity); err != nil {
		return nil, fmt.Errorf("failed to decrement giveaway capacity: %w", err)
	}

	if int64(len(grant.TicketIDs)) != grant.Quantity {
		grant.TicketIDs = utils.NewTicketIDs(int(grant.Quantity))
		if err := s.grantRepo.UpdateTicketIDs(ctx, grant.ID, grant.TicketIDs); err != nil {
			return nil, fmt.Errorf("failed to assign ticket identifiers: %w", err)
		}
	}

	if err := s.eventPublisher.Publish(events.TicketsGrantedEvent{
		UserID:     grant.UserID,
		GiveawayID: grant.GiveawayID,
		Source:     string(grant.Source),
		Quantity:   int(grant.Quantity),
	}); err != nil {
		log.WithError(err).Warn("Failed to publish tickets granted event")
	}

	return grant, nil
}
