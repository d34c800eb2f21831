package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/mood-journal/backend/internal/config"
)

func TestNewChatModelRequiresCredentials(t *testing.T) {
	_, err := NewChatModel(context.Background(), config.AIConfig{Provider: config.ProviderGemini, GeminiModel: "gemini-1.5-flash"})
	assert.Error(t, err)

	_, err = NewChatModel(context.Background(), config.AIConfig{Provider: config.ProviderArk, ArkAPIKey: "k"})
	assert.Error(t, err)
}

func TestNewChatModelGemini(t *testing.T) {
	chatModel, err := NewChatModel(context.Background(), config.AIConfig{
		Provider:     config.ProviderGemini,
		GeminiAPIKey: "test-key",
		GeminiModel:  "gemini-1.5-flash",
	})
	require.NoError(t, err)

	gemini, ok := chatModel.(*GeminiChatModel)
	require.True(t, ok)
	assert.Equal(t, "gemini-1.5-flash", gemini.model)
}
