package interfaces

import (
	"context"
	"time"

	"raffler/domain/entities"
	"raffler/domain/events"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *entities.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id int64) (*entities.User, error)

	// GetIDsWithUnconsumedGrants returns the IDs of users holding at least
	// one succeeded grant with undrained ticket identifiers
	GetIDsWithUnconsumedGrants(ctx context.Context) ([]int64, error)
}

// GiveawayRepository defines the interface for giveaway data access
type GiveawayRepository interface {
	// GetByID retrieves a giveaway by its ID
	GetByID(ctx context.Context, id int64) (*entities.Giveaway, error)

	// GetByIDForUpdate retrieves a giveaway by ID with a row lock, used to
	// serialize concurrent draws against the same giveaway
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.Giveaway, error)

	// GetOpenForUpdate returns the oldest open giveaway (capacity remaining,
	// not expired) with a row lock, or nil if none exists
	GetOpenForUpdate(ctx context.Context) (*entities.Giveaway, error)

	// Create creates a new giveaway
	Create(ctx context.Context, giveaway *entities.Giveaway) error

	// DecrementCapacity reduces remaining capacity by quantity, failing if
	// insufficient capacity remains
	DecrementCapacity(ctx context.Context, id int64, quantity int64) error
}

// TicketGrantRepository defines the interface for the ticket grant ledger
type TicketGrantRepository interface {
	// Create creates a new grant
	Create(ctx context.Context, grant *entities.TicketGrant) error

	// GetByID retrieves a grant by its ID
	GetByID(ctx context.Context, id int64) (*entities.TicketGrant, error)

	// GetUnconsumedByUserForUpdate returns the user's succeeded grants that
	// still hold ticket identifiers, locked for update
	GetUnconsumedByUserForUpdate(ctx context.Context, userID int64) ([]*entities.TicketGrant, error)

	// UpdateTicketIDs writes back a grant's remaining ticket identifiers
	UpdateTicketIDs(ctx context.Context, grantID int64, ticketIDs []string) error

	// UpdatePaymentStatus updates a grant's payment status
	UpdatePaymentStatus(ctx context.Context, grantID int64, status entities.PaymentStatus) error

	// ExistsForUser reports whether the user has any grant at all
	ExistsForUser(ctx context.Context, userID int64) (bool, error)

	// ExistsSubscriptionGrantSince reports whether the user already received
	// a subscription grant at or after the given time
	ExistsSubscriptionGrantSince(ctx context.Context, userID int64, since time.Time) (bool, error)
}

// SubscriptionQuotaRepository defines the interface for quota data access
type SubscriptionQuotaRepository interface {
	// GetByID retrieves a quota by its ID
	GetByID(ctx context.Context, id int64) (*entities.SubscriptionQuota, error)

	// GetActiveByUserForUpdate returns the user's active quota locked for
	// update, or nil if the user has no active subscription
	GetActiveByUserForUpdate(ctx context.Context, userID int64) (*entities.SubscriptionQuota, error)

	// GetByIDForUpdate retrieves a quota by ID with a row lock
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.SubscriptionQuota, error)

	// UpdateUsage persists the usage counters and last-reset timestamp
	UpdateUsage(ctx context.Context, quota *entities.SubscriptionQuota) error
}

// TicketPoolRepository defines the interface for consolidated pool access
type TicketPoolRepository interface {
	// Upsert creates or replaces the user's pool contents
	Upsert(ctx context.Context, pool *entities.TicketPool) error

	// GetByUser retrieves the pool for a user, or nil if none exists
	GetByUser(ctx context.Context, userID int64) (*entities.TicketPool, error)

	// GetAll returns every current pool
	GetAll(ctx context.Context) ([]*entities.TicketPool, error)

	// GetAllTicketIDs returns every ticket identifier across all pools
	GetAllTicketIDs(ctx context.Context) ([]string, error)

	// DeleteAll clears every pool row, returning the number deleted
	DeleteAll(ctx context.Context) (int64, error)
}

// PoolArchiveRepository defines the interface for archived pool snapshots
type PoolArchiveRepository interface {
	// CreateBatch writes archive snapshots for the given pools
	CreateBatch(ctx context.Context, archives []*entities.PoolArchive) error

	// CountMatching counts archive rows matching the given pools by owner
	// and ticket-set identity, used to confirm the archive write
	CountMatching(ctx context.Context, pools []*entities.TicketPool) (int64, error)

	// GetAll returns archived pools ordered by archival time descending
	GetAll(ctx context.Context) ([]*entities.PoolArchive, error)
}

// WinnerRepository defines the interface for winner data access
type WinnerRepository interface {
	// Create creates a new winner record
	Create(ctx context.Context, winner *entities.Winner) error

	// GetAll returns all current winners ordered by creation descending
	GetAll(ctx context.Context) ([]*entities.Winner, error)

	// GetByGiveaway returns winners for a giveaway ordered by creation
	GetByGiveaway(ctx context.Context, giveawayID int64) ([]*entities.Winner, error)

	// DeleteAll removes every winner row, returning the number deleted
	DeleteAll(ctx context.Context) (int64, error)
}

// WinnerArchiveRepository defines the interface for archived winners
type WinnerArchiveRepository interface {
	// CreateBatch writes archive copies for the given winners
	CreateBatch(ctx context.Context, archives []*entities.WinnerArchive) error

	// GetAll returns archived winners ordered by archival time descending
	GetAll(ctx context.Context) ([]*entities.WinnerArchive, error)
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	Publish(event events.Event) error
}

// TransactionalEventPublisher buffers events during a transaction. Flush
// publishes the buffer after commit; Discard drops it on rollback.
type TransactionalEventPublisher interface {
	EventPublisher
	Flush(ctx context.Context) error
	Discard()
}
