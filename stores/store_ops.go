package stores

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
)

// dbStore carries the data operations shared by the SQLite and PostgreSQL
// stores. Each driver embeds it and provides its own Connect.
type dbStore struct {
	db *gorm.DB
}

func (s *dbStore) migrate() error {
	return s.db.AutoMigrate(&Conversation{}, &Turn{}, &Dataset{}, &AppConfigRecord{})
}

// Close closes the database connection.
func (s *dbStore) Close() error {
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}

// Ping checks if the database connection is alive.
func (s *dbStore) Ping() error {
	if s.db == nil {
		return fmt.Errorf("database connection is nil")
	}

	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Ping()
}

// SaveTurn appends a completed exchange to the conversation, creating the
// conversation record on first write.
func (s *dbStore) SaveTurn(conversationID, query, answer string, answerTokens int) error {
	if s.db == nil {
		return fmt.Errorf("database connection is nil")
	}

	// Ensure conversation record exists (create if first turn). Count avoids
	// "record not found" noise in the gorm logs.
	var count int64
	if err := s.db.Model(&Conversation{}).Where("conversation_id = ?", conversationID).Count(&count).Error; err != nil {
		log.Printf("Warning: Error checking for conversation %s: %v", conversationID, err)
	} else if count == 0 {
		if err := s.CreateConversation(conversationID, "", ""); err != nil {
			log.Printf("Warning: Failed to create conversation record for %s: %v", conversationID, err)
		}
	}

	turn := Turn{
		ConversationID: conversationID,
		Query:          query,
		Answer:         answer,
		AnswerTokens:   answerTokens,
	}

	tx := s.db.Begin()
	if err := tx.Create(&turn).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to create turn record: %w", err)
	}

	if err := tx.Model(&Conversation{}).Where("conversation_id = ?", conversationID).
		Update("turn_count", gorm.Expr("turn_count + 1")).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to update conversation turn count: %w", err)
	}

	return tx.Commit().Error
}

// RecentTurns retrieves up to limit completed turns of a conversation,
// newest first. Turns without a recorded answer are excluded.
func (s *dbStore) RecentTurns(conversationID string, limit int) ([]Turn, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	var turns []Turn
	query := s.db.Where("conversation_id = ? AND answer_tokens > ?", conversationID, 0).
		Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&turns).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch turns: %w", err)
	}

	return turns, nil
}

// PruneAbandonedTurns deletes turns that never received an answer and are
// older than the given age.
func (s *dbStore) PruneAbandonedTurns(olderThan time.Duration) (int64, error) {
	if s.db == nil {
		return 0, fmt.Errorf("database connection is nil")
	}

	cutoff := time.Now().Add(-olderThan)
	res := s.db.Where("answer_tokens = ? AND created_at < ?", 0, cutoff).Delete(&Turn{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to prune abandoned turns: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// CreateConversation creates a new conversation record.
func (s *dbStore) CreateConversation(convoID, appID, tenantID string) error {
	if s.db == nil {
		return fmt.Errorf("database connection is nil")
	}

	conv := Conversation{
		ConversationID: convoID,
		AppID:          appID,
		TenantID:       tenantID,
		TurnCount:      0,
	}

	return s.db.Create(&conv).Error
}

// ListConversationsForApp returns all conversations with details for an app.
func (s *dbStore) ListConversationsForApp(appID string) ([]ConversationInfo, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	var convs []Conversation
	if err := s.db.Where("app_id = ?", appID).Order("updated_at DESC").Find(&convs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch conversations: %w", err)
	}

	result := make([]ConversationInfo, len(convs))
	for i, c := range convs {
		result[i] = ConversationInfo{
			ConversationID: c.ConversationID,
			AppID:          c.AppID,
			TenantID:       c.TenantID,
			Title:          c.Title,
			TurnCount:      c.TurnCount,
			CreatedAt:      c.CreatedAt.Format(time.RFC3339),
			UpdatedAt:      c.UpdatedAt.Format(time.RFC3339),
		}
	}

	return result, nil
}

// SaveDataset registers a dataset for a tenant.
func (s *dbStore) SaveDataset(datasetID, tenantID, name string) error {
	if s.db == nil {
		return fmt.Errorf("database connection is nil")
	}

	ds := Dataset{DatasetID: datasetID, TenantID: tenantID, Name: name}
	return s.db.Create(&ds).Error
}

// GetDataset returns the dataset with the given ID, or nil when it does not
// exist.
func (s *dbStore) GetDataset(datasetID string) (*Dataset, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	var ds Dataset
	err := s.db.Where("dataset_id = ?", datasetID).First(&ds).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dataset: %w", err)
	}
	return &ds, nil
}

// SaveAppConfig appends a new validated configuration version for an app.
func (s *dbStore) SaveAppConfig(appID, tenantID, configJSON string) error {
	if s.db == nil {
		return fmt.Errorf("database connection is nil")
	}

	rec := AppConfigRecord{AppID: appID, TenantID: tenantID, ConfigJSON: configJSON}
	return s.db.Create(&rec).Error
}

// LatestAppConfig returns the most recently saved configuration of an app,
// or nil when the app has none.
func (s *dbStore) LatestAppConfig(appID string) (*AppConfigRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	var rec AppConfigRecord
	err := s.db.Where("app_id = ?", appID).Order("id DESC").First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch app config: %w", err)
	}
	return &rec, nil
}
