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

// drawEntry is one (user, ticket) pair eligible for a draw
type drawEntry struct {
	userID   int64
	email    string
	fullName string
	ticketID string
}

// drawService runs giveaway draws over the consolidated pools. All methods
// operate within the caller's transaction: winners and the archive-and-clear
// of the pools commit or roll back as one unit.
type drawService struct {
	giveawayRepo    interfaces.GiveawayRepository
	poolRepo        interfaces.TicketPoolRepository
	poolArchiveRepo interfaces.PoolArchiveRepository
	winnerRepo      interfaces.WinnerRepository
	eventPublisher  interfaces.EventPublisher
}

// NewDrawService creates a new draw service
func NewDrawService(
	giveawayRepo interfaces.GiveawayRepository,
	poolRepo interfaces.TicketPoolRepository,
	poolArchiveRepo interfaces.PoolArchiveRepository,
	winnerRepo interfaces.WinnerRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.DrawService {
	return &drawService{
		giveawayRepo:    giveawayRepo,
		poolRepo:        poolRepo,
		poolArchiveRepo: poolArchiveRepo,
		winnerRepo:      winnerRepo,
		eventPublisher:  eventPublisher,
	}
}

// Draw selects winners from all current pools and clears them
func (s *drawService) Draw(ctx context.Context, winnerCount int, giveawayID int64) ([]*entities.Winner, error) {
	if winnerCount < 1 {
		return nil, ErrInvalidWinnerCount
	}

	// Locking the giveaway row serializes concurrent draws; both would race
	// to consume the same pools otherwise.
	giveaway, err := s.giveawayRepo.GetByIDForUpdate(ctx, giveawayID)
	if err != nil {
		return nil, fmt.Errorf("failed to get giveaway: %w", err)
	}
	if giveaway == nil || !giveaway.IsOpen(time.Now().UTC()) {
		return nil, ErrGiveawayNotFound
	}

	pools, err := s.poolRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket pools: %w", err)
	}

	var eligible []drawEntry
	for _, pool := range pools {
		for _, ticketID := range pool.TicketIDs {
			eligible = append(eligible, drawEntry{
				userID:   pool.UserID,
				email:    pool.Email,
				fullName: pool.FullName,
				ticketID: ticketID,
			})
		}
	}
	if len(eligible) == 0 {
		return nil, ErrNoEligibleTickets
	}

	selected, err := utils.Sample(eligible, winnerCount)
	if err != nil {
		return nil, fmt.Errorf("failed to sample winners: %w", err)
	}

	winners := make([]*entities.Winner, 0, len(selected))
	for idx, entry := range selected {
		winner := &entities.Winner{
			GiveawayID: giveawayID,
			UserID:     entry.userID,
			Email:      entry.email,
			FullName:   entry.fullName,
			TicketID:   entry.ticketID,
			Position:   utils.PositionLabel(idx),
		}
		if err := s.winnerRepo.Create(ctx, winner); err != nil {
			return nil, fmt.Errorf("failed to create winner: %w", err)
		}
		winners = append(winners, winner)
	}

	// Same transaction as the winner writes: a failed archive rolls the
	// whole draw back, never leaving a half-drawn giveaway.
	if _, err := s.ArchiveAndClearPools(ctx); err != nil {
		return nil, err
	}

	for _, winner := range winners {
		if err := s.eventPublisher.Publish(events.WinnerSelectedEvent{
			WinnerID:   winner.ID,
			GiveawayID: winner.GiveawayID,
			UserID:     winner.UserID,
			Email:      winner.Email,
			FullName:   winner.FullName,
			TicketID:   winner.TicketID,
			Position:   winner.Position,
		}); err != nil {
			log.WithError(err).WithField("winnerID", winner.ID).Warn("Failed to publish winner selected event")
		}
	}

	log.WithFields(log.Fields{
		"giveawayID":  giveawayID,
		"winnerCount": len(winners),
	}).Info("Draw completed")

	return winners, nil
}

// ArchiveAndClearPools snapshots every pool, confirms the copies, then
// deletes the pool rows. A confirmation mismatch aborts with no deletion;
// tickets are never lost between pool and archive.
func (s *drawService) ArchiveAndClearPools(ctx context.Context) (int64, error) {
	pools, err := s.poolRepo.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get ticket pools: %w", err)
	}
	if len(pools) == 0 {
		log.Info("No ticket pools to archive")
		return 0, nil
	}

	archives := make([]*entities.PoolArchive, 0, len(pools))
	for _, pool := range pools {
		archives = append(archives, &entities.PoolArchive{
			UserID:    pool.UserID,
			Email:     pool.Email,
			FullName:  pool.FullName,
			TicketIDs: pool.TicketIDs,
		})
	}
	if err := s.poolArchiveRepo.CreateBatch(ctx, archives); err != nil {
		return 0, fmt.Errorf("failed to archive ticket pools: %w", err)
	}

	// Re-read the archive before deleting anything.
	archivedCount, err := s.poolArchiveRepo.CountMatching(ctx, pools)
	if err != nil {
		return 0, fmt.Errorf("failed to confirm pool archive: %w", err)
	}
	if archivedCount < int64(len(pools)) {
		log.WithFields(log.Fields{
			"pools":    len(pools),
			"archived": archivedCount,
		}).Error("Pool archive confirmation mismatch, aborting deletion")
		return 0, ErrArchiveMismatch
	}

	deleted, err := s.poolRepo.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to clear ticket pools: %w", err)
	}

	if err := s.eventPublisher.Publish(events.PoolsArchivedEvent{PoolCount: int(deleted)}); err != nil {
		log.WithError(err).Warn("Failed to publish pools archived event")
	}

	log.WithField("count", deleted).Info("Archived and cleared ticket pools")
	return deleted, nil
}
