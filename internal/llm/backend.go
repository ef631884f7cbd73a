// Package llm talks to the chat-completion backend used for translation
// and summarization.
package llm

import "context"

// Message roles understood by the backend.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one entry of a chat-completion request.
type Message struct {
	Role    string
	Content string
}

// Backend is a blocking round trip to a chat-completion model. Complete
// returns the first choice's text verbatim; streaming and multi-choice
// responses are never inspected.
type Backend interface {
	Complete(ctx context.Context, model string, messages []Message, temperature float32) (string, error)
	Ping(ctx context.Context) error
}
