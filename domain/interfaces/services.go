package interfaces

import (
	"context"

	"raffler/domain/entities"
)

// QuotaService defines the interface for subscription quota accounting
type QuotaService interface {
	// ResetIfElapsed zeroes the quota's usage counters when the billing
	// period has rolled over since the last reset, stamping the reset time.
	// Must run in the same transaction as any subsequent usage increment.
	ResetIfElapsed(ctx context.Context, quota *entities.SubscriptionQuota) error
}

// ConsolidationService defines the interface for merging a user's ticket
// grants into their drawable pool. Operates within the caller's transaction.
type ConsolidationService interface {
	// ConsolidateUser merges the user's unconsumed grants into their pool:
	// applies the quota rollover check, limits yearly-cycle free grants to a
	// monthly installment, deduplicates identifiers, replaces the pool,
	// drains the consumed identifiers from each grant, and records quota
	// usage. Returns nil when the user has nothing to consolidate.
	ConsolidateUser(ctx context.Context, userID int64) (*entities.TicketPool, error)

	// EligibleTickets returns every ticket identifier currently drawable
	// across all pools
	EligibleTickets(ctx context.Context) ([]string, error)
}

// DrawService defines the interface for running giveaway draws. Operates
// within the caller's transaction; winner persistence and pool clearing are
// atomic because they share it.
type DrawService interface {
	// Draw selects up to winnerCount winners uniformly without replacement
	// from all current pools, persists them with ordinal positions, then
	// archives and clears the pools
	Draw(ctx context.Context, winnerCount int, giveawayID int64) ([]*entities.Winner, error)

	// ArchiveAndClearPools snapshots every pool into the archive, confirms
	// the copies by re-reading them, and only then deletes the pool rows.
	// Returns the number of pools cleared.
	ArchiveAndClearPools(ctx context.Context) (int64, error)
}

// WinnerService defines the interface for winner administration
type WinnerService interface {
	// ListWinners returns current winners, newest first
	ListWinners(ctx context.Context) ([]*entities.Winner, error)

	// ListGiveawayWinners returns a giveaway's winners in selection order
	ListGiveawayWinners(ctx context.Context, giveawayID int64) ([]*entities.Winner, error)

	// ListArchivedWinners returns purged winners, most recently archived first
	ListArchivedWinners(ctx context.Context) ([]*entities.WinnerArchive, error)

	// ListArchivedPools returns archived pool snapshots, most recent first
	ListArchivedPools(ctx context.Context) ([]*entities.PoolArchive, error)

	// PurgeAllWinners archives then deletes every winner row, returning the
	// number purged. Zero winners is a no-op success.
	PurgeAllWinners(ctx context.Context) (int64, error)
}

// AllocationService defines the interface for issuing ticket grants
type AllocationService interface {
	// AllocateFreeTickets issues the subscription's periodic free tickets,
	// plus a one-ticket bonus for first-time entrants, against the open
	// giveaway
	AllocateFreeTickets(ctx context.Context, quotaID int64) (*AllocationResult, error)

	// ConfirmGrant finalizes a grant whose payment succeeded: checks and
	// decrements giveaway capacity and generates ticket identifiers
	ConfirmGrant(ctx context.Context, grantID int64) (*entities.TicketGrant, error)
}

// AllocationResult summarizes one free-ticket allocation
type AllocationResult struct {
	Standard int
	Bonus    int
	Total    int
}

// ConsolidationFailure records a per-user consolidation error within a batch
type ConsolidationFailure struct {
	UserID int64
	Err    error
}

// ConsolidationReport summarizes one batch consolidation pass
type ConsolidationReport struct {
	UsersProcessed      int
	TicketsConsolidated int
	Pools               []*entities.TicketPool
	EligibleTickets     []string
	Failures            []ConsolidationFailure
}
