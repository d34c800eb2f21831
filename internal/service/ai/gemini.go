package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"
)

// ErrEmptyResponse is returned when Gemini answers without any text, which
// is what happens when a prompt is blocked.
var ErrEmptyResponse = errors.New("gemini returned no text")

// GeminiConfig configures the Gemini chat model.
type GeminiConfig struct {
	APIKey    string
	Model     string
	MaxTokens *int
}

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiChatModel exposes the Gemini API as an eino chat model so prompt
// templates and chains work the same for every provider.
type GeminiChatModel struct {
	models    contentGenerator
	model     string
	maxTokens *int
}

var _ model.ChatModel = (*GeminiChatModel)(nil)

// NewGeminiChatModel creates a Gemini API client.
func NewGeminiChatModel(ctx context.Context, cfg GeminiConfig) (*GeminiChatModel, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiChatModel{models: client.Models, model: cfg.Model, maxTokens: cfg.MaxTokens}, nil
}

// Generate sends the conversation to Gemini and returns the first candidate.
func (m *GeminiChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	options := model.GetCommonOptions(&model.Options{
		Model:     &m.model,
		MaxTokens: m.maxTokens,
	}, opts...)

	contents, system := toGeminiContents(input)
	if len(contents) == 0 {
		return nil, fmt.Errorf("gemini: no user or assistant content to send")
	}

	cfg := &genai.GenerateContentConfig{SystemInstruction: system}
	if options.Temperature != nil {
		cfg.Temperature = genai.Ptr(*options.Temperature)
	}
	if options.TopP != nil {
		cfg.TopP = genai.Ptr(*options.TopP)
	}
	if options.MaxTokens != nil {
		cfg.MaxOutputTokens = int32(*options.MaxTokens)
	}
	if len(options.Stop) > 0 {
		cfg.StopSequences = options.Stop
	}

	resp, err := m.models.GenerateContent(ctx, *options.Model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}

	text := firstCandidateText(resp)
	if text == "" {
		return nil, ErrEmptyResponse
	}
	return schema.AssistantMessage(text, nil), nil
}

// Stream has no incremental mode here; it yields the full reply as one chunk.
func (m *GeminiChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

// BindTools is not supported; the journal prompts never use tools.
func (m *GeminiChatModel) BindTools(_ []*schema.ToolInfo) error {
	return errors.New("gemini chat model: tool calling is not supported")
}

// toGeminiContents maps eino roles onto Gemini roles. System messages are
// merged into a single system instruction.
func toGeminiContents(input []*schema.Message) ([]*genai.Content, *genai.Content) {
	var (
		contents     []*genai.Content
		instructions []string
	)
	for _, msg := range input {
		if msg == nil || strings.TrimSpace(msg.Content) == "" {
			continue
		}
		switch msg.Role {
		case schema.System:
			instructions = append(instructions, msg.Content)
		case schema.Assistant:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}

	var system *genai.Content
	if len(instructions) > 0 {
		system = genai.NewContentFromText(strings.Join(instructions, "\n\n"), genai.RoleUser)
	}
	return contents, system
}

func firstCandidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return ""
	}

	var builder strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil {
			continue
		}
		builder.WriteString(part.Text)
	}
	return strings.TrimSpace(builder.String())
}
