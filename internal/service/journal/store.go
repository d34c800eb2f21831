package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zhouzirui/mood-journal/backend/internal/model/journal"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrTextRequired         = errors.New("text is required")
)

// Store persists conversations and their messages.
type Store interface {
	CreateConversation(ctx context.Context) (journal.Conversation, error)
	GetConversation(ctx context.Context, id uint) (journal.Conversation, error)
	AppendMessage(ctx context.Context, message *journal.Message) error
	LoadTranscript(ctx context.Context, conversationID uint) ([]journal.Message, error)
	RecentMoods(ctx context.Context, limit int) ([]journal.Message, error)
}

type gormStore struct {
	db *gorm.DB
}

// NewStore returns a Store backed by db. The schema must already exist.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) CreateConversation(ctx context.Context) (journal.Conversation, error) {
	conversation := journal.Conversation{UserID: uuid.NewString()}
	if err := s.db.WithContext(ctx).Create(&conversation).Error; err != nil {
		return journal.Conversation{}, fmt.Errorf("create conversation: %w", err)
	}
	return conversation, nil
}

func (s *gormStore) GetConversation(ctx context.Context, id uint) (journal.Conversation, error) {
	var conversation journal.Conversation
	err := s.db.WithContext(ctx).First(&conversation, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return journal.Conversation{}, ErrConversationNotFound
	}
	if err != nil {
		return journal.Conversation{}, fmt.Errorf("get conversation %d: %w", id, err)
	}
	return conversation, nil
}

func (s *gormStore) AppendMessage(ctx context.Context, message *journal.Message) error {
	if message.ConversationID == 0 {
		return ErrConversationNotFound
	}
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now().UTC()
	}
	if err := s.db.WithContext(ctx).Create(message).Error; err != nil {
		return fmt.Errorf("append %s message to conversation %d: %w", message.Role, message.ConversationID, err)
	}
	return nil
}

func (s *gormStore) LoadTranscript(ctx context.Context, conversationID uint) ([]journal.Message, error) {
	var messages []journal.Message
	err := s.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("load transcript %d: %w", conversationID, err)
	}
	return messages, nil
}

func (s *gormStore) RecentMoods(ctx context.Context, limit int) ([]journal.Message, error) {
	var messages []journal.Message
	err := s.db.WithContext(ctx).
		Where("emotion IS NOT NULL").
		Order(clause.OrderBy{Columns: []clause.OrderByColumn{
			{Column: clause.Column{Name: "timestamp"}, Desc: true},
			{Column: clause.Column{Name: "id"}, Desc: true},
		}}).
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("load recent moods: %w", err)
	}
	return messages, nil
}
