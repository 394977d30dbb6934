package application

import (
	"context"

	"raffler/domain/interfaces"
)

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	UserRepository() interfaces.UserRepository
	GiveawayRepository() interfaces.GiveawayRepository
	TicketGrantRepository() interfaces.TicketGrantRepository
	SubscriptionQuotaRepository() interfaces.SubscriptionQuotaRepository
	TicketPoolRepository() interfaces.TicketPoolRepository
	PoolArchiveRepository() interfaces.PoolArchiveRepository
	WinnerRepository() interfaces.WinnerRepository
	WinnerArchiveRepository() interfaces.WinnerArchiveRepository
	EventBus() interfaces.EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}
