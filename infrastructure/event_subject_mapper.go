package infrastructure

import (
	"fmt"

	"raffler/domain/events"
)

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	switch event.Type() {
	case events.EventTypeTicketPoolUpdated:
		return "pools.updated"
	case events.EventTypeWinnerSelected:
		return "draws.winner_selected"
	case events.EventTypePoolsArchived:
		return "pools.archived"
	case events.EventTypeTicketsGranted:
		return "grants.created"
	default:
		return fmt.Sprintf("unknown.%s", event.Type())
	}
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	switch subject {
	case "pools.updated":
		return events.EventTypeTicketPoolUpdated
	case "draws.winner_selected":
		return events.EventTypeWinnerSelected
	case "pools.archived":
		return events.EventTypePoolsArchived
	case "grants.created":
		return events.EventTypeTicketsGranted
	default:
		return events.EventType(subject)
	}
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		"pools.updated",
		"draws.winner_selected",
		"pools.archived",
		"grants.created",
	}
}
