package sports

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrTurnInFlight = errors.New("a reply is already being generated for this conversation")
	ErrEmptyMessage = errors.New("message is empty")
)

// Replier answers a single chat turn. Implementations make one attempt.
type Replier interface {
	Reply(ctx context.Context, req ChatTurnRequest) (string, error)
}

// Conversation is an append-only chat transcript that allows one turn in
// flight at a time.
type Conversation struct {
	id      string
	replier Replier
	logger  *slog.Logger

	mu       sync.Mutex
	messages []ChatMessage
	loading  bool
}

func NewConversation(id string, replier Replier, logger *slog.Logger) *Conversation {
	if logger == nil {
		logger = slog.Default()
	}
	return &Conversation{
		id:      id,
		replier: replier,
		logger:  logger,
		messages: []ChatMessage{{
			ID:     uuid.NewString(),
			Text:   WelcomeMessage,
			Sender: SenderBot,
		}},
	}
}

func (c *Conversation) ID() string { return c.id }

// Send appends the user's message, waits for the reply and appends it.
// A failed reply is recorded as FallbackMessage, so the only errors are
// ErrEmptyMessage and ErrTurnInFlight.
func (c *Conversation) Send(ctx context.Context, text string) (ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return ChatMessage{}, ErrEmptyMessage
	}

	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return ChatMessage{}, ErrTurnInFlight
	}
	c.loading = true
	c.messages = append(c.messages, ChatMessage{ID: uuid.NewString(), Text: text, Sender: SenderUser})
	c.mu.Unlock()

	reply, err := c.replier.Reply(ctx, ChatTurnRequest{ConversationID: c.id, Question: text})
	if err != nil {
		c.logger.Error("Assistant reply failed", "conversationID", c.id, "error", err)
		MetricChatTurns.WithLabelValues("fallback").Inc()
		reply = FallbackMessage
	} else {
		MetricChatTurns.WithLabelValues("ok").Inc()
	}

	bot := ChatMessage{ID: uuid.NewString(), Text: reply, Sender: SenderBot}
	c.mu.Lock()
	c.messages = append(c.messages, bot)
	c.loading = false
	c.mu.Unlock()
	return bot, nil
}

// Messages returns a copy of the transcript.
func (c *Conversation) Messages() []ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *Conversation) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}
