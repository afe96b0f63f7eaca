package ui

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/marionette/pkg/chat"
	"github.com/go-go-golems/marionette/pkg/conversation"
)

type stubClient struct {
	release chan struct{}
}

func (s *stubClient) Complete(ctx context.Context, history conversation.Conversation) (string, error) {
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return "stub reply", nil
}

func testModel(t *testing.T) model {
	t.Helper()
	controller, err := chat.NewController(&stubClient{release: make(chan struct{})})
	require.NoError(t, err)
	return InitialModel(controller).(model)
}

func testHistory() conversation.Conversation {
	return conversation.Conversation{
		conversation.NewMessage(conversation.RoleUser, "hello"),
		conversation.NewMessage(conversation.RoleAssistant, "hi there"),
	}
}

func TestPendingDisablesSubmit(t *testing.T) {
	m := testModel(t)
	assert.True(t, m.keyMap.SubmitMessage.Enabled())

	updated, _ := m.Update(PendingMsg{History: testHistory()[:1]})
	mm := updated.(model)

	assert.Equal(t, StatePendingCompletion, mm.state)
	assert.False(t, mm.keyMap.SubmitMessage.Enabled())
	assert.False(t, mm.keyMap.ClearConversation.Enabled())
	assert.False(t, mm.keyMap.SaveToFile.Enabled())
}

func TestSettledReenablesInput(t *testing.T) {
	m := testModel(t)

	updated, _ := m.Update(PendingMsg{History: testHistory()[:1]})
	updated, _ = updated.(model).Update(SettledMsg{History: testHistory()})
	mm := updated.(model)

	assert.Equal(t, StateUserInput, mm.state)
	assert.True(t, mm.keyMap.SubmitMessage.Enabled())
	require.Len(t, mm.history, 2)
	assert.Equal(t, "hi there", mm.history[1].Text)
}

func TestFailedShowsErrorUntilDismissed(t *testing.T) {
	m := testModel(t)

	updated, _ := m.Update(FailedMsg{
		History:     testHistory()[:1],
		ErrorString: "network error: could not reach the service",
	})
	mm := updated.(model)

	assert.Equal(t, StateError, mm.state)
	assert.True(t, mm.keyMap.DismissError.Enabled())
	assert.Contains(t, mm.textAreaView(), "network error")
}

func TestClearedResetsHistory(t *testing.T) {
	m := testModel(t)

	updated, _ := m.Update(SettledMsg{History: testHistory()})
	updated, _ = updated.(model).Update(ClearedMsg{})
	mm := updated.(model)

	assert.Empty(t, mm.history)
	assert.Equal(t, StateUserInput, mm.state)
}

func TestSubmitSendsToController(t *testing.T) {
	client := &stubClient{release: make(chan struct{})}
	controller, err := chat.NewController(client)
	require.NoError(t, err)
	m := InitialModel(controller).(model)

	m.textArea.SetValue("a question")
	cmd := m.submit()
	require.NotNil(t, cmd)

	assert.Equal(t, StatePendingCompletion, m.state)
	assert.Equal(t, "", m.textArea.Value())
	assert.Equal(t, chat.StateTypePending, controller.State().Type())

	history := controller.State().History()
	require.Len(t, history, 1)
	assert.Equal(t, "a question", history[0].Text)
}

func TestSubmitIgnoresBlankInput(t *testing.T) {
	m := testModel(t)

	m.textArea.SetValue("   \n ")
	cmd := m.submit()
	assert.Nil(t, cmd)
	assert.Equal(t, StateUserInput, m.state)
	assert.Equal(t, chat.StateTypeIdle, m.controller.State().Type())
}

func TestMessageViewShowsRolesAndStatus(t *testing.T) {
	m := testModel(t)
	m.history = testHistory()
	m.statusText = "transcript saved to transcript-x.md"

	view := m.messageView()
	assert.Contains(t, view, "[user]: hello")
	assert.Contains(t, view, "[assistant]: hi there")
	assert.Contains(t, view, "transcript saved")
}

func TestViewCarriesHeader(t *testing.T) {
	m := testModel(t)
	view := m.View()
	assert.True(t, strings.HasPrefix(view, "MARIONETTE AT YOUR SERVICE:"))
}
