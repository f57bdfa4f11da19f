package gemini

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"

	"github.com/vinayprograms/wavekit/errors"
)

// Turn is one entry in a chat history.
type Turn struct {
	Role string // "user" or "model"
	Text string
}

// Chat is a stateful multi-turn session. The session keeps its own
// history; not safe for concurrent use.
type Chat struct {
	client  *Client
	session *genai.ChatSession
}

// StartChat opens a fresh chat session on the client's model.
func (c *Client) StartChat() *Chat {
	return &Chat{
		client:  c,
		session: c.model.StartChat(),
	}
}

// Send appends the text as a user turn, sends the conversation, and
// returns the reply. The session records both turns.
func (c *Chat) Send(ctx context.Context, text string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.InvalidInput("message cannot be empty")
	}

	resp, err := c.client.sendChat(ctx, c.session, genai.Text(text))
	if err != nil {
		return nil, errors.Wrap(err, "gemini chat request failed")
	}
	return extractResult(resp), nil
}

// History returns the session's turns with text parts joined.
func (c *Chat) History() []Turn {
	turns := make([]Turn, 0, len(c.session.History))
	for _, content := range c.session.History {
		turn := Turn{Role: content.Role}
		for _, part := range content.Parts {
			if text, ok := part.(genai.Text); ok {
				turn.Text += string(text)
			}
		}
		turns = append(turns, turn)
	}
	return turns
}

// Len returns the number of turns in the session history.
func (c *Chat) Len() int {
	return len(c.session.History)
}
