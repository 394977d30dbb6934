package services

import "errors"

var (
	// ErrGiveawayNotFound is returned when the target giveaway does not
	// exist or is inactive, expired, or out of capacity at draw time.
	ErrGiveawayNotFound = errors.New("active giveaway not found")

	// ErrNoEligibleTickets is returned when a draw is attempted against an
	// empty pool.
	ErrNoEligibleTickets = errors.New("no eligible tickets found for draw")

	// ErrInvalidWinnerCount is returned when a draw is requested with fewer
	// than one winner.
	ErrInvalidWinnerCount = errors.New("winner count must be a positive integer")

	// ErrArchiveMismatch is returned when the archive confirmation read does
	// not account for every pool row. The operation aborts and nothing is
	// deleted.
	ErrArchiveMismatch = errors.New("pool archive confirmation mismatch, aborting deletion")

	// ErrGrantNotFound is returned when a referenced ticket grant does not
	// exist.
	ErrGrantNotFound = errors.New("ticket grant not found")

	// ErrQuotaNotFound is returned when a referenced subscription quota does
	// not exist or is inactive.
	ErrQuotaNotFound = errors.New("subscription quota not found")

	// ErrPaymentNotSucceeded is returned when confirming a grant whose
	// payment has not succeeded.
	ErrPaymentNotSucceeded = errors.New("cannot confirm grant unless payment succeeded")

	// ErrInsufficientCapacity is returned when a giveaway lacks the capacity
	// to cover an issuance.
	ErrInsufficientCapacity = errors.New("not enough tickets available")
)
