package application

import (
	"context"
	"fmt"

	"raffler/domain/entities"
	"raffler/domain/services"

	log "github.com/sirupsen/logrus"
)

// WinnerAdmin owns the transaction boundary for winner administration
type WinnerAdmin struct {
	uowFactory UnitOfWorkFactory
}

// NewWinnerAdmin creates a new winner admin
func NewWinnerAdmin(uowFactory UnitOfWorkFactory) *WinnerAdmin {
	return &WinnerAdmin{
		uowFactory: uowFactory,
	}
}

// ListWinners returns current winners, newest first
func (a *WinnerAdmin) ListWinners(ctx context.Context) ([]*entities.Winner, error) {
	uow := a.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	svc := services.NewWinnerService(
		uow.WinnerRepository(),
		uow.WinnerArchiveRepository(),
		uow.PoolArchiveRepository(),
	)
	return svc.ListWinners(ctx)
}

// ListGiveawayWinners returns a giveaway's winners in selection order
func (a *WinnerAdmin) ListGiveawayWinners(ctx context.Context, giveawayID int64) ([]*entities.Winner, error) {
	uow := a.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	svc := services.NewWinnerService(
		uow.WinnerRepository(),
		uow.WinnerArchiveRepository(),
		uow.PoolArchiveRepository(),
	)
	return svc.ListGiveawayWinners(ctx, giveawayID)
}

// ListArchivedWinners returns purged winners, most recently archived first
func (a *WinnerAdmin) ListArchivedWinners(ctx context.Context) ([]*entities.WinnerArchive, error) {
	uow := a.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	svc := services.NewWinnerService(
		uow.WinnerRepository(),
		uow.WinnerArchiveRepository(),
		uow.PoolArchiveRepository(),
	)
	return svc.ListArchivedWinners(ctx)
}

// ListArchivedPools returns archived pool snapshots, most recent first
func (a *WinnerAdmin) ListArchivedPools(ctx context.Context) ([]*entities.PoolArchive, error) {
	uow := a.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	svc := services.NewWinnerService(
		uow.WinnerRepository(),
		uow.WinnerArchiveRepository(),
		uow.PoolArchiveRepository(),
	)
	return svc.ListArchivedPools(ctx)
}

// PurgeWinners archives then deletes every winner row in one transaction,
// returning the number purged
func (a *WinnerAdmin) PurgeWinners(ctx context.Context) (int64, error) {
	uow := a.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	svc := services.NewWinnerService(
		uow.WinnerRepository(),
		uow.WinnerArchiveRepository(),
		uow.PoolArchiveRepository(),
	)

	purged, err := svc.PurgeAllWinners(ctx)
	if err != nil {
		return 0, err
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithField("purged", purged).Info("Purged winners")

	return purged, nil
}
