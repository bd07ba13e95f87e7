package web

import (
	"log/slog"
	"sync"

	sports "sportx"
)

// Conversations holds the chat transcripts opened since the server started.
// Transcripts are not persisted.
type Conversations struct {
	replier sports.Replier
	logger  *slog.Logger

	mu    sync.Mutex
	convs map[string]*sports.Conversation
}

func NewConversations(replier sports.Replier, logger *slog.Logger) *Conversations {
	return &Conversations{
		replier: replier,
		logger:  logger,
		convs:   make(map[string]*sports.Conversation),
	}
}

// Get returns the conversation with id, creating it on first use. created
// reports whether it was new.
func (c *Conversations) Get(id string) (conv *sports.Conversation, created bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if conv, ok := c.convs[id]; ok {
		return conv, false
	}
	conv = sports.NewConversation(id, c.replier, c.logger)
	c.convs[id] = conv
	return conv, true
}
