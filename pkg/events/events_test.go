package events

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/marionette/pkg/conversation"
)

func testMetadata() EventMetadata {
	return EventMetadata{
		ID:             uuid.New(),
		ConversationID: uuid.New(),
	}
}

func testHistory() conversation.Conversation {
	return conversation.Conversation{
		conversation.NewUserMessage("Hi"),
		conversation.NewAssistantMessage("Hello!"),
	}
}

func TestPendingEventRoundTrip(t *testing.T) {
	metadata := testMetadata()
	b, err := json.Marshal(NewPendingEvent(metadata, testHistory()))
	require.NoError(t, err)

	e, err := NewEventFromJson(b)
	require.NoError(t, err)
	require.Equal(t, EventTypePending, e.Type())
	assert.Equal(t, metadata.ID, e.Metadata().ID)
	assert.Equal(t, metadata.ConversationID, e.Metadata().ConversationID)

	pending, ok := e.(*EventPending)
	require.True(t, ok)
	require.Len(t, pending.History, 2)
	assert.Equal(t, conversation.RoleUser, pending.History[0].Role)
	assert.Equal(t, "Hi", pending.History[0].Text)
}

func TestSettledEventRoundTrip(t *testing.T) {
	b, err := json.Marshal(NewSettledEvent(testMetadata(), testHistory()))
	require.NoError(t, err)

	e, err := NewEventFromJson(b)
	require.NoError(t, err)

	settled, ok := e.(*EventSettled)
	require.True(t, ok)
	require.Len(t, settled.History, 2)
	assert.Equal(t, conversation.RoleAssistant, settled.History[1].Role)
	assert.Equal(t, "Hello!", settled.History[1].Text)
}

func TestFailedEventRoundTrip(t *testing.T) {
	history := conversation.Conversation{conversation.NewUserMessage("Hi")}
	b, err := json.Marshal(NewFailedEvent(testMetadata(), history, "network error: connection refused"))
	require.NoError(t, err)

	e, err := NewEventFromJson(b)
	require.NoError(t, err)

	failed, ok := e.(*EventFailed)
	require.True(t, ok)
	assert.Equal(t, "network error: connection refused", failed.ErrorString)
	require.Len(t, failed.History, 1)
	assert.Equal(t, "Hi", failed.History[0].Text)
}

func TestClearedEventRoundTrip(t *testing.T) {
	b, err := json.Marshal(NewClearedEvent(testMetadata()))
	require.NoError(t, err)

	e, err := NewEventFromJson(b)
	require.NoError(t, err)
	assert.Equal(t, EventTypeCleared, e.Type())

	_, ok := e.(*EventCleared)
	require.True(t, ok)
}

func TestToTypedEvent(t *testing.T) {
	b, err := json.Marshal(NewFailedEvent(testMetadata(), testHistory(), "service error: boom"))
	require.NoError(t, err)

	e, err := NewEventFromJson(b)
	require.NoError(t, err)

	failed, ok := ToTypedEvent[EventFailed](e)
	require.True(t, ok)
	require.NotNil(t, failed)
	assert.Equal(t, "service error: boom", failed.ErrorString)
}

func TestUnknownEventTypeFallsBackToImpl(t *testing.T) {
	e, err := NewEventFromJson([]byte(`{"type":"bogus"}`))
	require.NoError(t, err)
	assert.Equal(t, EventType("bogus"), e.Type())

	_, ok := e.(*EventImpl)
	assert.True(t, ok)
}

func TestNewEventFromJsonRejectsGarbage(t *testing.T) {
	_, err := NewEventFromJson([]byte(`{`))
	require.Error(t, err)
}

func TestEventPreservesMessageText(t *testing.T) {
	history := conversation.Conversation{
		conversation.NewUserMessage("line one\n\n  indented\tline\n"),
	}
	b, err := json.Marshal(NewSettledEvent(testMetadata(), history))
	require.NoError(t, err)

	e, err := NewEventFromJson(b)
	require.NoError(t, err)

	settled, ok := e.(*EventSettled)
	require.True(t, ok)
	assert.Equal(t, "line one\n\n  indented\tline\n", settled.History[0].Text)
}
