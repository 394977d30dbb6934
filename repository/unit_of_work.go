package repository

import (
	"context"
	"fmt"

	"raffler/application"
	"raffler/database"
	"raffler/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the application.UnitOfWork interface
type unitOfWork struct {
	db                     *database.DB
	tx                     pgx.Tx
	ctx                    context.Context
	transactionalPublisher interfaces.TransactionalEventPublisher
	userRepo               interfaces.UserRepository
	giveawayRepo           interfaces.GiveawayRepository
	grantRepo              interfaces.TicketGrantRepository
	quotaRepo              interfaces.SubscriptionQuotaRepository
	poolRepo               interfaces.TicketPoolRepository
	poolArchiveRepo        interfaces.PoolArchiveRepository
	winnerRepo             interfaces.WinnerRepository
	winnerArchiveRepo      interfaces.WinnerArchiveRepository
}

type unitOfWorkFactory struct {
	db *database.DB
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB) *unitOfWorkFactory {
	return &unitOfWorkFactory{
		db: db,
	}
}

// CreateWithPublisher creates a new UnitOfWork with a specific transactional publisher
func (f *unitOfWorkFactory) CreateWithPublisher(transactionalPublisher interfaces.TransactionalEventPublisher) application.UnitOfWork {
	return &unitOfWork{
		db:                     f.db,
		transactionalPublisher: transactionalPublisher,
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	// Create repositories bound to the transaction
	u.userRepo = NewUserRepository(tx)
	u.giveawayRepo = NewGiveawayRepository(tx)
	u.grantRepo = NewTicketGrantRepository(tx)
	u.quotaRepo = NewSubscriptionQuotaRepository(tx)
	u.poolRepo = NewTicketPoolRepository(tx)
	u.poolArchiveRepo = NewPoolArchiveRepository(tx)
	u.winnerRepo = NewWinnerRepository(tx)
	u.winnerArchiveRepo = NewWinnerArchiveRepository(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Flush pending events after successful commit
	if u.transactionalPublisher != nil {
		u.transactionalPublisher.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	// Discard pending events on rollback
	if u.transactionalPublisher != nil {
		u.transactionalPublisher.Discard()
	}

	return nil
}

// UserRepository returns the user repository for this unit of work
func (u *unitOfWork) UserRepository() interfaces.UserRepository {
	if u.userRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.userRepo
}

// GiveawayRepository returns the giveaway repository for this unit of work
func (u *unitOfWork) GiveawayRepository() interfaces.GiveawayRepository {
	if u.giveawayRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.giveawayRepo
}

// TicketGrantRepository returns the ticket grant repository for this unit of work
func (u *unitOfWork) TicketGrantRepository() interfaces.TicketGrantRepository {
	if u.grantRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.grantRepo
}

// SubscriptionQuotaRepository returns the quota repository for this unit of work
func (u *unitOfWork) SubscriptionQuotaRepository() interfaces.SubscriptionQuotaRepository {
	if u.quotaRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.quotaRepo
}

// TicketPoolRepository returns the ticket pool repository for this unit of work
func (u *unitOfWork) TicketPoolRepository() interfaces.TicketPoolRepository {
	if u.poolRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.poolRepo
}

// PoolArchiveRepository returns the pool archive repository for this unit of work
func (u *unitOfWork) PoolArchiveRepository() interfaces.PoolArchiveRepository {
	if u.poolArchiveRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.poolArchiveRepo
}

// WinnerRepository returns the winner repository for this unit of work
func (u *unitOfWork) WinnerRepository() interfaces.WinnerRepository {
	if u.winnerRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.winnerRepo
}

// WinnerArchiveRepository returns the winner archive repository for this unit of work
func (u *unitOfWork) WinnerArchiveRepository() interfaces.WinnerArchiveRepository {
	if u.winnerArchiveRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.winnerArchiveRepo
}

// EventBus returns the transactional event publisher for this unit of work
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	if u.transactionalPublisher == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionalPublisher
}
