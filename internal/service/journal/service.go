package journal

import (
	"context"
	"fmt"
	"strings"

	"github.com/zhouzirui/mood-journal/backend/internal/analysis/emotion"
	"github.com/zhouzirui/mood-journal/backend/internal/logger"
	"github.com/zhouzirui/mood-journal/backend/internal/model/journal"
)

// MoodHistoryLimit caps the number of entries returned by MoodHistory.
const MoodHistoryLimit = 7

// Classifier labels the emotion expressed in a single user entry.
// Implementations never fail; they fall back to emotion.Unknown.
type Classifier interface {
	Classify(ctx context.Context, text string) emotion.Classification
}

// Responder writes the ai reply for a transcript whose last message is the
// user's newest entry. Implementations never fail; they fall back to a fixed
// sentence.
type Responder interface {
	Reply(ctx context.Context, history []journal.Message, label emotion.Label) string
}

// SubmitRequest is one journal entry. A zero ConversationID starts a new
// conversation.
type SubmitRequest struct {
	Text           string
	ConversationID uint
}

// SubmitResult mirrors the JSON returned to the client.
type SubmitResult struct {
	ConversationID uint   `json:"conversation_id"`
	Emotion        string `json:"emotion"`
	Color          string `json:"color"`
	Response       string `json:"response"`
}

// MoodEntry is one point of the mood history chart.
type MoodEntry struct {
	Date    string `json:"date"`
	Emotion string `json:"emotion"`
	Color   string `json:"color"`
}

// Service composes persistence, classification and reply generation.
type Service struct {
	store      Store
	classifier Classifier
	responder  Responder
	log        *logger.Logger
}

// NewService wires the journal flow.
func NewService(store Store, classifier Classifier, responder Responder, log *logger.Logger) *Service {
	return &Service{
		store:      store,
		classifier: classifier,
		responder:  responder,
		log:        log.With("service", "journal"),
	}
}

// Submit stores the user entry, classifies it, generates and stores the ai
// reply. ErrTextRequired and ErrConversationNotFound are returned before any
// row is written.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (SubmitResult, error) {
	if strings.TrimSpace(req.Text) == "" {
		return SubmitResult{}, ErrTextRequired
	}

	conversation, err := s.resolveConversation(ctx, req.ConversationID)
	if err != nil {
		return SubmitResult{}, err
	}

	userMsg := &journal.Message{
		ConversationID: conversation.ID,
		Role:           journal.RoleUser,
		Text:           req.Text,
	}
	if err := s.store.AppendMessage(ctx, userMsg); err != nil {
		return SubmitResult{}, err
	}

	history, err := s.store.LoadTranscript(ctx, conversation.ID)
	if err != nil {
		return SubmitResult{}, err
	}

	classification := s.classifier.Classify(ctx, req.Text)
	reply := s.responder.Reply(ctx, history, classification.Emotion)

	label := string(classification.Emotion)
	color := classification.Color
	aiMsg := &journal.Message{
		ConversationID: conversation.ID,
		Role:           journal.RoleAI,
		Text:           reply,
		Emotion:        &label,
		Color:          &color,
	}
	if err := s.store.AppendMessage(ctx, aiMsg); err != nil {
		return SubmitResult{}, err
	}

	s.log.Info("journal entry processed",
		"conversation", conversation.ID,
		"emotion", label,
		"history", len(history),
	)

	return SubmitResult{
		ConversationID: conversation.ID,
		Emotion:        label,
		Color:          color,
		Response:       reply,
	}, nil
}

func (s *Service) resolveConversation(ctx context.Context, id uint) (journal.Conversation, error) {
	if id == 0 {
		conversation, err := s.store.CreateConversation(ctx)
		if err != nil {
			return journal.Conversation{}, err
		}
		s.log.Debug("conversation created", "conversation", conversation.ID)
		return conversation, nil
	}
	return s.store.GetConversation(ctx, id)
}

// MoodHistory returns the latest emotion-tagged messages, most recent first.
func (s *Service) MoodHistory(ctx context.Context) ([]MoodEntry, error) {
	messages, err := s.store.RecentMoods(ctx, MoodHistoryLimit)
	if err != nil {
		return nil, err
	}

	entries := make([]MoodEntry, 0, len(messages))
	for _, msg := range messages {
		if msg.Emotion == nil {
			continue
		}
		entry := MoodEntry{
			Date:    msg.Timestamp.UTC().Format("2006-01-02"),
			Emotion: *msg.Emotion,
			Color:   emotion.FallbackColor,
		}
		if msg.Color != nil {
			entry.Color = *msg.Color
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Transcript returns every message of an existing conversation in order.
func (s *Service) Transcript(ctx context.Context, conversationID uint) ([]journal.Message, error) {
	if _, err := s.store.GetConversation(ctx, conversationID); err != nil {
		return nil, err
	}
	messages, err := s.store.LoadTranscript(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("transcript: %w", err)
	}
	return messages, nil
}
