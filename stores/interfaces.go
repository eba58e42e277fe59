package stores

import (
	"time"

	"gorm.io/gorm"
)

// Turn is one query/answer exchange within a conversation. Turns are written
// by the chat pipeline after each exchange and never mutated afterwards; a
// turn with AnswerTokens == 0 is treated as incomplete/abandoned and is
// excluded from history reads.
type Turn struct {
	gorm.Model
	ConversationID string `gorm:"index;not null"`
	Query          string `gorm:"type:text"`
	Answer         string `gorm:"type:text"`
	AnswerTokens   int    `gorm:"default:0"`
}

// Conversation holds metadata for a chat conversation.
type Conversation struct {
	gorm.Model
	ConversationID string `gorm:"uniqueIndex;not null"`
	AppID          string `gorm:"index"`
	TenantID       string `gorm:"index"`
	Title          string `gorm:"type:text"`
	TurnCount      int    `gorm:"default:0"`
	Turns          []Turn `gorm:"foreignKey:ConversationID;references:ConversationID"`
}

// Dataset is a tenant-scoped knowledge base referenced by dataset tools.
type Dataset struct {
	gorm.Model
	DatasetID string `gorm:"uniqueIndex;not null"`
	TenantID  string `gorm:"index;not null"`
	Name      string `gorm:"type:text"`
}

// AppConfigRecord persists a validated app model configuration. ConfigJSON
// holds the normalized document exactly as the validator produced it; raw,
// unvalidated documents must never be written here.
type AppConfigRecord struct {
	gorm.Model
	AppID      string `gorm:"index;not null"`
	TenantID   string `gorm:"index"`
	ConfigJSON string `gorm:"type:json"`
}

// ConversationInfo holds basic conversation metadata for listing.
type ConversationInfo struct {
	ConversationID string
	AppID          string
	TenantID       string
	Title          string
	TurnCount      int
	CreatedAt      string
	UpdatedAt      string
}

// ConversationStore abstracts database operations over conversations, turns,
// datasets and app configurations.
type ConversationStore interface {
	// Turn operations
	SaveTurn(conversationID, query, answer string, answerTokens int) error
	// RecentTurns returns up to limit completed turns (AnswerTokens > 0) of
	// the conversation, newest first.
	RecentTurns(conversationID string, limit int) ([]Turn, error)
	// PruneAbandonedTurns removes turns that never received an answer and
	// are older than the given age. Returns the number of pruned turns.
	PruneAbandonedTurns(olderThan time.Duration) (int64, error)

	// Conversation operations
	CreateConversation(convoID, appID, tenantID string) error
	ListConversationsForApp(appID string) ([]ConversationInfo, error)

	// Dataset operations
	SaveDataset(datasetID, tenantID, name string) error
	GetDataset(datasetID string) (*Dataset, error)

	// App configuration operations
	SaveAppConfig(appID, tenantID, configJSON string) error
	LatestAppConfig(appID string) (*AppConfigRecord, error)

	// Connection management
	Connect() error
	Close() error

	// Health check
	Ping() error
}

// StoreConfig holds configuration for database stores.
type StoreConfig struct {
	Type       string            `json:"type"`       // "sqlite", "postgres"
	Connection string            `json:"connection"` // file path or DSN
	Options    map[string]string `json:"options"`
}

// NewStoreConfig creates a new store configuration.
func NewStoreConfig(storeType, connection string) *StoreConfig {
	return &StoreConfig{
		Type:       storeType,
		Connection: connection,
		Options:    make(map[string]string),
	}
}

// WithOption adds an option to the store configuration.
func (c *StoreConfig) WithOption(key, value string) *StoreConfig {
	c.Options[key] = value
	return c
}
