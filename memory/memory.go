// Package memory exposes a bounded, token-aware view of a conversation's
// history. The view is read-only: the chat pipeline writes turns elsewhere,
// and every Buffer call re-reads the store so callers always see the current
// persisted state.
package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/parleylabs/parley/stores"
)

// Role tags a buffer message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// PromptMessage is one role-tagged message in the history buffer. Transient:
// rebuilt on every read, never persisted.
type PromptMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// TokenCounter reports the total token count of a message sequence under the
// target model's tokenizer. Counting may call out to a provider API, so it
// takes a context.
type TokenCounter interface {
	CountTokens(ctx context.Context, messages []PromptMessage) (int, error)
}

// TurnSource yields the most recent completed turns of a conversation,
// newest first. stores.ConversationStore satisfies it.
type TurnSource interface {
	RecentTurns(conversationID string, limit int) ([]stores.Turn, error)
}

const (
	defaultMaxTokenLimit = 2000
	defaultMessageLimit  = 10
)

// TokenBufferMemory binds to one conversation and serves its recent history
// trimmed to a token budget. Zero limits fall back to the defaults.
type TokenBufferMemory struct {
	ConversationID string
	Turns          TurnSource
	Counter        TokenCounter

	HumanPrefix   string
	AIPrefix      string
	MaxTokenLimit int
	MessageLimit  int
}

func NewTokenBufferMemory(conversationID string, turns TurnSource, counter TokenCounter) *TokenBufferMemory {
	return &TokenBufferMemory{
		ConversationID: conversationID,
		Turns:          turns,
		Counter:        counter,
		HumanPrefix:    "Human",
		AIPrefix:       "Assistant",
		MaxTokenLimit:  defaultMaxTokenLimit,
		MessageLimit:   defaultMessageLimit,
	}
}

// Buffer returns the conversation history as an ordered message sequence:
// the most recent turns in chronological order, each expanded into a user
// message followed by an assistant message, then trimmed from the oldest
// single message until the token budget holds. Trimming one message at a
// time can leave an unpaired assistant message at the head; that matches the
// established behavior and is reported by UnpairedHead rather than fixed.
func (m *TokenBufferMemory) Buffer(ctx context.Context) ([]PromptMessage, error) {
	limit := m.MessageLimit
	if limit <= 0 {
		limit = defaultMessageLimit
	}

	turns, err := m.Turns.RecentTurns(m.ConversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent turns: %w", err)
	}

	// Turns arrive newest first; expand oldest first.
	messages := make([]PromptMessage, 0, 2*len(turns))
	for i := len(turns) - 1; i >= 0; i-- {
		messages = append(messages,
			PromptMessage{Role: RoleUser, Content: turns[i].Query},
			PromptMessage{Role: RoleAssistant, Content: turns[i].Answer},
		)
	}
	if len(messages) == 0 {
		return messages, nil
	}

	maxTokens := m.MaxTokenLimit
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokenLimit
	}

	total, err := m.Counter.CountTokens(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("failed to count history tokens: %w", err)
	}
	// Drop the oldest message and recount until the budget holds. The
	// recount happens after every single removal; no batch estimation.
	for total > maxTokens && len(messages) > 0 {
		messages = messages[1:]
		if len(messages) == 0 {
			break
		}
		total, err = m.Counter.CountTokens(ctx, messages)
		if err != nil {
			return nil, fmt.Errorf("failed to count history tokens: %w", err)
		}
	}

	return messages, nil
}

// BufferString renders the buffer as a prefixed transcript, one message per
// line, for completion-mode prompt templates.
func (m *TokenBufferMemory) BufferString(ctx context.Context) (string, error) {
	messages, err := m.Buffer(ctx)
	if err != nil {
		return "", err
	}
	human := m.HumanPrefix
	if human == "" {
		human = "Human"
	}
	ai := m.AIPrefix
	if ai == "" {
		ai = "Assistant"
	}

	var b strings.Builder
	for i, msg := range messages {
		if i > 0 {
			b.WriteString("\n")
		}
		prefix := human
		if msg.Role == RoleAssistant {
			prefix = ai
		}
		b.WriteString(prefix)
		b.WriteString(": ")
		b.WriteString(msg.Content)
	}
	return b.String(), nil
}

// SaveContext is a no-op. The turn write path lives in the chat pipeline;
// this view never writes.
func (m *TokenBufferMemory) SaveContext(inputs, outputs map[string]any) error {
	return nil
}

// Clear is a no-op for the same reason.
func (m *TokenBufferMemory) Clear() error {
	return nil
}

// UnpairedHead reports whether the buffer starts with an assistant message
// whose user half was trimmed away. Diagnostic only; callers may log it.
func UnpairedHead(messages []PromptMessage) bool {
	return len(messages) > 0 && messages[0].Role == RoleAssistant
}
