package conversation

import (
	"fmt"
)

// Conversation is an ordered message history. It is append-only: positions and
// contents of appended messages never change.
type Conversation []*Message

// Clone returns a copy of the history slice. Messages themselves are immutable
// and shared between the copies.
func (c Conversation) Clone() Conversation {
	if len(c) == 0 {
		return nil
	}
	ret := make(Conversation, len(c))
	copy(ret, c)
	return ret
}

func (c Conversation) LastMessage() (*Message, bool) {
	if len(c) == 0 {
		return nil, false
	}
	return c[len(c)-1], true
}

// LastAssistantText returns the text of the most recent assistant message.
func (c Conversation) LastAssistantText() (string, bool) {
	for i := len(c) - 1; i >= 0; i-- {
		if c[i].Role == RoleAssistant {
			return c[i].Text, true
		}
	}
	return "", false
}

// Turns counts the user messages, which is the number of exchanges started.
func (c Conversation) Turns() int {
	count := 0
	for _, m := range c {
		if m.Role == RoleUser {
			count++
		}
	}
	return count
}

// GetSinglePrompt concatenates the history into a single prompt string, with
// one `[role]: text` line per message when there is more than one.
func (c Conversation) GetSinglePrompt() string {
	if len(c) == 0 {
		return ""
	}

	if len(c) == 1 {
		return c[0].Text
	}

	prompt := ""
	for _, message := range c {
		prompt += fmt.Sprintf("[%s]: %s\n", message.Role, message.Text)
	}

	return prompt
}
