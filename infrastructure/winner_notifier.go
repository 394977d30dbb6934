package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"

	"raffler/domain/events"

	log "github.com/sirupsen/logrus"
)

// WinnerNotifier delivers winner announcements. The long-running service
// consumes winner_selected events from the domain event stream with a durable
// consumer, so announcements are delivered even when the draw ran in a
// separate process; the drawing process itself can additionally register
// Announce as a local handler for immediate feedback.
type WinnerNotifier struct {
	natsClient *NATSClient
}

// NewWinnerNotifier creates a new winner notifier
func NewWinnerNotifier(natsClient *NATSClient) *WinnerNotifier {
	return &WinnerNotifier{natsClient: natsClient}
}

// Start subscribes to the winner subject on the domain event stream
func (n *WinnerNotifier) Start() error {
	return n.natsClient.Subscribe("draws.winner_selected", n.HandleMessage)
}

// HandleMessage decodes a winner envelope from the stream and announces it
func (n *WinnerNotifier) HandleMessage(data []byte) error {
	var envelope EventEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("failed to decode event envelope: %w", err)
	}

	if events.EventType(envelope.EventType) != events.EventTypeWinnerSelected {
		log.WithField("eventType", envelope.EventType).Warn("Ignoring unexpected event on winner subject")
		return nil
	}

	var winner events.WinnerSelectedEvent
	if err := json.Unmarshal(envelope.Payload, &winner); err != nil {
		return fmt.Errorf("failed to decode winner payload: %w", err)
	}

	n.announce(winner)
	return nil
}

// Announce reacts to a winner event published in-process, without waiting for
// stream delivery. Matches the local handler signature.
func (n *WinnerNotifier) Announce(ctx context.Context, event events.Event) error {
	winner, ok := event.(events.WinnerSelectedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %s", event.Type())
	}
	n.announce(winner)
	return nil
}

func (n *WinnerNotifier) announce(winner events.WinnerSelectedEvent) {
	log.WithFields(log.Fields{
		"winnerID":   winner.WinnerID,
		"giveawayID": winner.GiveawayID,
		"email":      winner.Email,
		"position":   winner.Position,
		"ticketID":   winner.TicketID,
	}).Info("Notifying giveaway winner")
}
