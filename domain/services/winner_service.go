package services

import (
	"context"
	"fmt"

	"raffler/domain/entities"
	"raffler/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// winnerService implements winner administration. Operates within the
// caller's transaction.
type winnerService struct {
	winnerRepo        interfaces.WinnerRepository
	winnerArchiveRepo interfaces.WinnerArchiveRepository
	poolArchiveRepo   interfaces.PoolArchiveRepository
}

// NewWinnerService creates a new winner service
func NewWinnerService(
	winnerRepo interfaces.WinnerRepository,
	winnerArchiveRepo interfaces.WinnerArchiveRepository,
	poolArchiveRepo interfaces.PoolArchiveRepository,
) interfaces.WinnerService {
	return &winnerService{
		winnerRepo:        winnerRepo,
		winnerArchiveRepo: winnerArchiveRepo,
		poolArchiveRepo:   poolArchiveRepo,
	}
}

func (s *winnerService) ListWinners(ctx context.Context) ([]*entities.Winner, error) {
	winners, err := s.winnerRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list winners: %w", err)
	}
	return winners, nil
}

func (s *winnerService) ListGiveawayWinners(ctx context.Context, giveawayID int64) ([]*entities.Winner, error) {
	winners, err := s.winnerRepo.GetByGiveaway(ctx, giveawayID)
	if err != nil {
		return nil, fmt.Errorf("failed to list winners for giveaway %d: %w", giveawayID, err)
	}
	return winners, nil
}

func (s *winnerService) ListArchivedWinners(ctx context.Context) ([]*entities.WinnerArchive, error) {
	archived, err := s.winnerArchiveRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list archived winners: %w", err)
	}
	return archived, nil
}

func (s *winnerService) ListArchivedPools(ctx context.Context) ([]*entities.PoolArchive, error) {
	archived, err := s.poolArchiveRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list archived pools: %w", err)
	}
	return archived, nil
}

// PurgeAllWinners archives every winner, preserving its original creation
// time, then deletes the winner rows. Zero winners is a no-op success.
func (s *winnerService) PurgeAllWinners(ctx context.Context) (int64, error) {
	winners, err := s.winnerRepo.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get winners: %w", err)
	}
	if len(winners) == 0 {
		log.Info("No winners to archive and delete")
		return 0, nil
	}

	archives := make([]*entities.WinnerArchive, 0, len(winners))
	for _, w := range winners {
		archives = append(archives, &entities.WinnerArchive{
			GiveawayID: w.GiveawayID,
			UserID:     w.UserID,
			Email:      w.Email,
			FullName:   w.FullName,
			TicketID:   w.TicketID,
			Position:   w.Position,
			CreatedAt:  w.CreatedAt,
		})
	}
	if err := s.winnerArchiveRepo.CreateBatch(ctx, archives); err != nil {
		return 0, fmt.Errorf("failed to archive winners: %w", err)
	}

	deleted, err := s.winnerRepo.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete winners: %w", err)
	}

	log.WithField("count", deleted).Info("Archived and deleted all winners")
	return deleted, nil
}
