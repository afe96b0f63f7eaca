package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderConcise(t *testing.T) {
	r := &Renderer{Concise: true}
	c := Conversation{
		NewUserMessage("Hi"),
		NewAssistantMessage("Hello!"),
	}

	out, err := r.Render("Test Chat", c)
	require.NoError(t, err)

	assert.Contains(t, out, "# Test Chat")
	assert.Contains(t, out, "**user**: Hi")
	assert.Contains(t, out, "**assistant**: Hello!")
	assert.NotContains(t, out, "**ID**")
}

func TestRenderVerboseWithMetadata(t *testing.T) {
	r := &Renderer{WithMetadata: true}
	msg := NewUserMessage("Hi")
	c := Conversation{msg}

	out, err := r.Render("Chat", c)
	require.NoError(t, err)

	assert.Contains(t, out, "### User")
	assert.Contains(t, out, msg.ID.String())
	assert.Contains(t, out, "---")
}

func TestRenderRenamesRoles(t *testing.T) {
	r := &Renderer{
		Concise:     true,
		RenameRoles: map[string]string{"assistant": "gemini"},
	}
	c := Conversation{NewAssistantMessage("Hello!")}

	out, err := r.Render("Chat", c)
	require.NoError(t, err)

	assert.Contains(t, out, "**gemini**: Hello!")
	assert.NotContains(t, out, "**assistant**")
}

func TestRenderSkipsBlankMessages(t *testing.T) {
	r := &Renderer{Concise: true}
	c := Conversation{
		NewUserMessage("   "),
		NewAssistantMessage("real content"),
	}

	out, err := r.Render("Chat", c)
	require.NoError(t, err)

	assert.NotContains(t, out, "**user**")
	assert.Contains(t, out, "real content")
}
