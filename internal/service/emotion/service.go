package emotion

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	analysis "github.com/zhouzirui/mood-journal/backend/internal/analysis/emotion"
	"github.com/zhouzirui/mood-journal/backend/internal/logger"
)

// Service 使用大模型识别日记文本的主要情绪，失败时回退为 unknown。
type Service struct {
	classifier compose.Runnable[map[string]any, *schema.Message]
	log        *logger.Logger
}

// NewService 创建情绪分析服务。chatModel 为 nil 时所有文本都归为 unknown。
func NewService(ctx context.Context, chatModel model.ChatModel, log *logger.Logger) (*Service, error) {
	svc := &Service{log: log.With("service", "emotion")}
	if chatModel == nil {
		return svc, nil
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(emotionSystemPrompt),
		schema.UserMessage(emotionUserPrompt),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile emotion classifier chain: %w", err)
	}

	svc.classifier = runnable
	return svc, nil
}

// Enabled 返回情绪分析服务是否启用。
func (s *Service) Enabled() bool {
	return s != nil && s.classifier != nil
}

// Classify 返回文本的情绪标签与颜色。模型错误只记录日志，不向上返回。
func (s *Service) Classify(ctx context.Context, text string) analysis.Classification {
	if !s.Enabled() {
		return analysis.Classify(analysis.Unknown)
	}

	msg, err := s.classifier.Invoke(ctx, map[string]any{"text": strings.TrimSpace(text)})
	if err != nil {
		s.log.Warn("classifier invoke failed, use unknown", "error", err)
		return analysis.Classify(analysis.Unknown)
	}
	if msg == nil {
		return analysis.Classify(analysis.Unknown)
	}

	label := analysis.Parse(msg.Content)
	if label == analysis.Unknown {
		s.log.Debug("classifier returned label outside palette", "raw", msg.Content)
	}
	return analysis.Classify(label)
}

var emotionSystemPrompt = "Analyze the following text and return the primary emotion in one word (" + vocabulary() + "). " +
	"Answer with that single lower-case word and nothing else."

const emotionUserPrompt = "Text: {text}\nEmotion:"

func vocabulary() string {
	labels := analysis.Labels()
	words := make([]string, 0, len(labels))
	for _, label := range labels {
		words = append(words, string(label))
	}
	return strings.Join(words, ", ")
}
