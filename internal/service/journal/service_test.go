package journal

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/zhouzirui/mood-journal/backend/internal/analysis/emotion"
	"github.com/zhouzirui/mood-journal/backend/internal/logger"
	"github.com/zhouzirui/mood-journal/backend/internal/model/journal"
)

type stubClassifier struct {
	label emotion.Label
	calls []string
}

func (c *stubClassifier) Classify(_ context.Context, text string) emotion.Classification {
	c.calls = append(c.calls, text)
	return emotion.Classify(c.label)
}

type stubResponder struct {
	histories [][]journal.Message
}

func (r *stubResponder) Reply(_ context.Context, history []journal.Message, label emotion.Label) string {
	r.histories = append(r.histories, history)
	return fmt.Sprintf("reply %d to %s", len(history), label)
}

func newTestService(t *testing.T, label emotion.Label) (*Service, *gorm.DB, *stubClassifier, *stubResponder) {
	t.Helper()
	db := openTestDB(t)
	classifier := &stubClassifier{label: label}
	responder := &stubResponder{}
	return NewService(NewStore(db), classifier, responder, logger.Nop()), db, classifier, responder
}

func countRows(t *testing.T, db *gorm.DB) (conversations, messages int64) {
	t.Helper()
	require.NoError(t, db.Model(&journal.Conversation{}).Count(&conversations).Error)
	require.NoError(t, db.Model(&journal.Message{}).Count(&messages).Error)
	return conversations, messages
}

func TestSubmitCreatesConversation(t *testing.T) {
	svc, db, classifier, _ := newTestService(t, emotion.Happy)

	result, err := svc.Submit(context.Background(), SubmitRequest{Text: "I got the job"})
	require.NoError(t, err)

	assert.NotZero(t, result.ConversationID)
	assert.Equal(t, "happy", result.Emotion)
	assert.Equal(t, "#FFD700", result.Color)
	assert.Equal(t, "reply 1 to happy", result.Response)
	assert.Equal(t, []string{"I got the job"}, classifier.calls)

	conversations, messages := countRows(t, db)
	assert.EqualValues(t, 1, conversations)
	assert.EqualValues(t, 2, messages)
}

func TestSubmitRejectsEmptyText(t *testing.T) {
	svc, db, _, _ := newTestService(t, emotion.Happy)

	for _, text := range []string{"", "   \n"} {
		_, err := svc.Submit(context.Background(), SubmitRequest{Text: text})
		assert.ErrorIs(t, err, ErrTextRequired)
	}

	conversations, messages := countRows(t, db)
	assert.Zero(t, conversations)
	assert.Zero(t, messages)
}

func TestSubmitRejectsUnknownConversation(t *testing.T) {
	svc, db, _, _ := newTestService(t, emotion.Sad)

	_, err := svc.Submit(context.Background(), SubmitRequest{Text: "hello", ConversationID: 42})
	assert.ErrorIs(t, err, ErrConversationNotFound)

	conversations, messages := countRows(t, db)
	assert.Zero(t, conversations)
	assert.Zero(t, messages)
}

func TestSubmitAppendsToConversation(t *testing.T) {
	svc, _, _, responder := newTestService(t, emotion.Anxious)
	ctx := context.Background()

	first, err := svc.Submit(ctx, SubmitRequest{Text: "exam tomorrow"})
	require.NoError(t, err)
	second, err := svc.Submit(ctx, SubmitRequest{Text: "still nervous", ConversationID: first.ConversationID})
	require.NoError(t, err)
	assert.Equal(t, first.ConversationID, second.ConversationID)

	// the responder sees the whole transcript including the newest entry
	require.Len(t, responder.histories, 2)
	assert.Len(t, responder.histories[1], 3)
	assert.Equal(t, "still nervous", responder.histories[1][2].Text)

	transcript, err := svc.Transcript(ctx, first.ConversationID)
	require.NoError(t, err)
	require.Len(t, transcript, 4)

	wantRoles := []journal.Role{journal.RoleUser, journal.RoleAI, journal.RoleUser, journal.RoleAI}
	for i, msg := range transcript {
		assert.Equal(t, wantRoles[i], msg.Role)
		if msg.Role == journal.RoleUser {
			assert.Nil(t, msg.Emotion)
			assert.Nil(t, msg.Color)
		} else {
			require.NotNil(t, msg.Emotion)
			assert.Equal(t, "anxious", *msg.Emotion)
			assert.Equal(t, "#FFB6C1", *msg.Color)
		}
	}
	assert.Equal(t, "exam tomorrow", transcript[0].Text)
	assert.Equal(t, "still nervous", transcript[2].Text)
}

func TestSubmitUnknownEmotion(t *testing.T) {
	svc, _, _, _ := newTestService(t, emotion.Unknown)

	result, err := svc.Submit(context.Background(), SubmitRequest{Text: "meh"})
	require.NoError(t, err)
	assert.Equal(t, "unknown", result.Emotion)
	assert.Equal(t, "#FFFFFF", result.Color)
}

func TestMoodHistory(t *testing.T) {
	svc, _, classifier, _ := newTestService(t, emotion.Happy)
	ctx := context.Background()

	empty, err := svc.MoodHistory(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	labels := []emotion.Label{
		emotion.Happy, emotion.Sad, emotion.Angry, emotion.Anxious, emotion.Excited,
		emotion.Happy, emotion.Sad, emotion.Angry, emotion.Excited,
	}
	for _, label := range labels {
		classifier.label = label
		_, err := svc.Submit(ctx, SubmitRequest{Text: "entry"})
		require.NoError(t, err)
	}

	entries, err := svc.MoodHistory(ctx)
	require.NoError(t, err)
	require.Len(t, entries, MoodHistoryLimit)

	// most recent first: the tail of labels, reversed
	for i, entry := range entries {
		want := labels[len(labels)-1-i]
		assert.Equal(t, string(want), entry.Emotion)
		assert.Equal(t, want.Color(), entry.Color)
		assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, entry.Date)
	}
}

func TestTranscriptUnknownConversation(t *testing.T) {
	svc, _, _, _ := newTestService(t, emotion.Happy)
	_, err := svc.Transcript(context.Background(), 7)
	assert.ErrorIs(t, err, ErrConversationNotFound)
}
