package infrastructure

import (
	"context"
	"testing"

	"raffler/domain/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingPublisher captures published events for assertions
type recordingPublisher struct {
	published []events.Event
	err       error
}

func (r *recordingPublisher) Publish(event events.Event) error {
	if r.err != nil {
		return r.err
	}
	r.published = append(r.published, event)
	return nil
}

func TestNATSTransactionalPublisher_FlushPublishesQueuedEvents(t *testing.T) {
	real := &recordingPublisher{}
	pub := NewNATSTransactionalPublisher(real)

	err := pub.Publish(events.TicketPoolUpdatedEvent{UserID: 1, Email: "a@example.com", TicketCount: 3})
	require.NoError(t, err)
	err = pub.Publish(events.PoolsArchivedEvent{PoolCount: 2})
	require.NoError(t, err)

	// Nothing reaches the real publisher until flush
	assert.Empty(t, real.published)

	err = pub.Flush(context.Background())
	require.NoError(t, err)
	require.Len(t, real.published, 2)
	assert.Equal(t, events.EventTypeTicketPoolUpdated, real.published[0].Type())
	assert.Equal(t, events.EventTypePoolsArchived, real.published[1].Type())

	// A second flush publishes nothing
	err = pub.Flush(context.Background())
	require.NoError(t, err)
	assert.Len(t, real.published, 2)
}

func TestNATSTransactionalPublisher_DiscardDropsQueuedEvents(t *testing.T) {
	real := &recordingPublisher{}
	pub := NewNATSTransactionalPublisher(real)

	err := pub.Publish(events.WinnerSelectedEvent{WinnerID: 1, Position: "1st"})
	require.NoError(t, err)

	pub.Discard()

	err = pub.Flush(context.Background())
	require.NoError(t, err)
	assert.Empty(t, real.published)
}

func TestEventSubjectMapper_RoundTrip(t *testing.T) {
	mapper := NewEventSubjectMapper()

	for _, subject := range mapper.GetAllSubjects() {
		eventType := mapper.MapSubjectToEventType(subject)
		assert.NotEqual(t, events.EventType(subject), eventType, "subject %s should map to a known event type", subject)
	}

	assert.Equal(t, "draws.winner_selected", mapper.MapEventToSubject(events.WinnerSelectedEvent{}))
	assert.Equal(t, "pools.updated", mapper.MapEventToSubject(events.TicketPoolUpdatedEvent{}))
}
