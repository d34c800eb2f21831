package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/zhouzirui/mood-journal/backend/internal/analysis/emotion"
	"github.com/zhouzirui/mood-journal/backend/internal/logger"
	"github.com/zhouzirui/mood-journal/backend/internal/model/journal"
)

// FallbackReply is returned whenever the model cannot produce a reply.
const FallbackReply = "I'm here for you. How can I help you today?"

const replySystemPrompt = "You are a gentle journaling companion. Generate a short, warm, and caring response to someone feeling {emotion}. " +
	"The conversation so far follows, one line per turn, prefixed with who said it. Reply to the last user line only, in plain text without a role prefix."

// Responder generates empathetic replies through an eino chain.
type Responder struct {
	chain       compose.Runnable[map[string]any, *schema.Message]
	temperature float32
	log         *logger.Logger
}

// NewResponder compiles the reply chain. A nil chatModel yields a Responder
// that always answers with FallbackReply.
func NewResponder(ctx context.Context, chatModel model.ChatModel, temperature float32, log *logger.Logger) (*Responder, error) {
	r := &Responder{
		temperature: temperature,
		log:         log.With("service", "responder"),
	}
	if chatModel == nil {
		return r, nil
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(replySystemPrompt),
		schema.UserMessage("{history}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile reply chain: %w", err)
	}
	r.chain = runnable
	return r, nil
}

// Enabled reports whether replies come from a model.
func (r *Responder) Enabled() bool {
	return r != nil && r.chain != nil
}

// Reply answers the last entry of history. Failures are logged and replaced
// by FallbackReply.
func (r *Responder) Reply(ctx context.Context, history []journal.Message, label emotion.Label) string {
	if !r.Enabled() {
		return FallbackReply
	}

	input := map[string]any{
		"emotion": string(label),
		"history": FormatHistory(history),
	}

	msg, err := r.chain.Invoke(ctx, input, compose.WithChatModelOption(model.WithTemperature(r.temperature)))
	if err != nil {
		r.log.Warn("reply generation failed, using fallback", "error", err)
		return FallbackReply
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		r.log.Warn("reply generation returned empty content, using fallback")
		return FallbackReply
	}
	return strings.TrimSpace(msg.Content)
}

// FormatHistory renders the transcript as "role: text" lines.
func FormatHistory(messages []journal.Message) string {
	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		lines = append(lines, fmt.Sprintf("%s: %s", msg.Role, msg.Text))
	}
	return strings.Join(lines, "\n")
}
