package ai

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"

	"github.com/zhouzirui/mood-journal/backend/internal/config"
)

// NewChatModel creates the chat model selected by cfg.Provider.
func NewChatModel(ctx context.Context, cfg config.AIConfig) (model.ChatModel, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("%s 凭证或模型配置缺失", cfg.Provider)
	}

	switch cfg.Provider {
	case config.ProviderGemini:
		chatModel, err := NewGeminiChatModel(ctx, GeminiConfig{
			APIKey:    cfg.GeminiAPIKey,
			Model:     cfg.GeminiModel,
			MaxTokens: cfg.MaxTokens,
		})
		if err != nil {
			return nil, err
		}
		return chatModel, nil
	case config.ProviderArk:
		return newArkChatModel(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported AI provider %q", cfg.Provider)
	}
}

func newArkChatModel(ctx context.Context, c config.AIConfig) (model.ChatModel, error) {
	var maxTokens *int
	if c.MaxTokens != nil {
		val := *c.MaxTokens
		maxTokens = &val
	}

	chatModel, err := ark.NewChatModel(ctx, &ark.ChatModelConfig{
		BaseURL:   c.ArkBaseURL,
		Region:    c.ArkRegion,
		APIKey:    c.ArkAPIKey,
		AccessKey: c.ArkAccessKey,
		SecretKey: c.ArkSecretKey,
		Model:     c.ArkModel,
		MaxTokens: maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ark chat model: %w", err)
	}
	return chatModel, nil
}
