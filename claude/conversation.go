package claude

import (
	"context"
	"strings"

	"github.com/vinayprograms/wavekit/errors"
)

// trimKeepRecent is the minimum number of recent turns Trim preserves
// even when the history exceeds the context window.
const trimKeepRecent = 4

// continuationMarker opens a repaired history that no longer starts
// with a user turn after trimming.
const continuationMarker = "(Continuing conversation)"

// Conversation accumulates user and assistant turns for multi-turn chat.
// Not safe for concurrent use; confine each conversation to one goroutine.
type Conversation struct {
	system   string
	messages []Message
}

// NewConversation starts an empty conversation with an optional system
// prompt.
func NewConversation(system string) *Conversation {
	return &Conversation{system: strings.TrimSpace(system)}
}

// System returns the conversation's system prompt.
func (c *Conversation) System() string {
	return c.system
}

// Len returns the number of turns in the history.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// Messages returns a copy of the history.
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// AddUser appends a user turn.
func (c *Conversation) AddUser(text string) {
	c.messages = append(c.messages, Message{Role: RoleUser, Content: text})
}

// AddAssistant appends an assistant turn.
func (c *Conversation) AddAssistant(text string) {
	c.messages = append(c.messages, Message{Role: RoleAssistant, Content: text})
}

// Reset discards the history, keeping the system prompt.
func (c *Conversation) Reset() {
	c.messages = nil
}

// Trim removes the oldest turns until the history plus reserveTokens
// fits the context window, always keeping the most recent turns.
// Returns the number of turns removed.
func (c *Conversation) Trim(reserveTokens int) int {
	if reserveTokens <= 0 {
		reserveTokens = DefaultReserveTokens
	}
	budget := ContextWindow - reserveTokens

	total := EstimateTokens(c.system) + EstimateMessageTokens(c.messages)
	if total <= budget || len(c.messages) <= trimKeepRecent {
		return 0
	}

	removed := 0
	for total > budget && len(c.messages) > trimKeepRecent {
		total -= EstimateMessageTokens(c.messages[:1])
		c.messages = c.messages[1:]
		removed++
	}
	return removed
}

// Prepare trims and normalizes the history for sending: consecutive
// same-role turns are consolidated, and a continuation marker is
// prepended if trimming left an assistant turn first. The normalized
// history replaces the stored one and a copy is returned.
func (c *Conversation) Prepare(reserveTokens int) []Message {
	c.Trim(reserveTokens)
	c.messages = Consolidate(c.messages)
	if len(c.messages) > 0 && c.messages[0].Role != RoleUser {
		c.messages = append([]Message{{Role: RoleUser, Content: continuationMarker}}, c.messages...)
	}
	return c.Messages()
}

// Ask appends the prompt as a user turn, sends the prepared history,
// records the assistant's reply, and returns it.
func (c *Conversation) Ask(ctx context.Context, client *Client, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", errors.InvalidInput("prompt cannot be empty")
	}

	c.AddUser(strings.TrimSpace(prompt))
	messages := c.Prepare(client.maxTokens + 1000)

	resp, err := client.Complete(ctx, CompletionRequest{
		Messages: messages,
		System:   c.system,
	})
	if err != nil {
		return "", err
	}

	c.AddAssistant(resp.Text)
	return resp.Text, nil
}

// Consolidate merges consecutive same-role messages, joining text with
// blank lines and concatenating image attachments.
func Consolidate(messages []Message) []Message {
	if len(messages) == 0 {
		return messages
	}

	out := make([]Message, 0, len(messages))
	for _, m := range messages {
		if len(out) > 0 && out[len(out)-1].Role == m.Role {
			last := &out[len(out)-1]
			if last.Content != "" && m.Content != "" {
				last.Content += "\n\n" + m.Content
			} else {
				last.Content += m.Content
			}
			last.Images = append(last.Images, m.Images...)
			continue
		}
		out = append(out, m)
	}
	return out
}
