package events

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeTicketPoolUpdated EventType = "ticket_pool_updated"
	EventTypeWinnerSelected    EventType = "winner_selected"
	EventTypePoolsArchived     EventType = "pools_archived"
	EventTypeTicketsGranted    EventType = "tickets_granted"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// TicketPoolUpdatedEvent signals that a user's consolidated pool changed
type TicketPoolUpdatedEvent struct {
	UserID      int64
	Email       string
	TicketCount int
}

func (e TicketPoolUpdatedEvent) Type() EventType {
	return EventTypeTicketPoolUpdated
}

// WinnerSelectedEvent signals a newly persisted draw winner. The notifier
// consumes it to deliver the congratulatory message.
type WinnerSelectedEvent struct {
	WinnerID   int64
	GiveawayID int64
	UserID     int64
	Email      string
	FullName   string
	TicketID   string
	Position   string
}

func (e WinnerSelectedEvent) Type() EventType {
	return EventTypeWinnerSelected
}

// PoolsArchivedEvent signals that all ticket pools were archived and cleared
type PoolsArchivedEvent struct {
	PoolCount int
}

func (e PoolsArchivedEvent) Type() EventType {
	return EventTypePoolsArchived
}

// TicketsGrantedEvent signals a new ticket grant (allocation or purchase)
type TicketsGrantedEvent struct {
	UserID     int64
	GiveawayID int64
	Source     string
	Quantity   int
}

func (e TicketsGrantedEvent) Type() EventType {
	return EventTypeTicketsGranted
}
