package ai

import (
	"context"
	"errors"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ErrAPIKeyMissing is reported before any upstream connection is attempted.
var ErrAPIKeyMissing = errors.New("api key is required")

// Provider is the buffered completion surface, used when the caller cannot
// consume a stream.
type Provider interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}

// StreamProvider is the streaming completion surface.
type StreamProvider interface {
	StreamChat(ctx context.Context, messages []Message) (<-chan string, <-chan error)
}
