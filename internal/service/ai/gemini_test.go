package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeGenerator struct {
	resp *genai.GenerateContentResponse
	err  error

	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func (g *fakeGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	g.model = model
	g.contents = contents
	g.config = config
	return g.resp, g.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{Role: string(genai.RoleModel)}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}

func TestGeminiGenerateMapsRolesAndOptions(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse("Sounds ", "lovely. ")}
	chatModel := &GeminiChatModel{models: gen, model: "gemini-1.5-flash"}

	msg, err := chatModel.Generate(context.Background(), []*schema.Message{
		schema.SystemMessage("be kind"),
		schema.UserMessage("hello"),
		schema.AssistantMessage("hi there", nil),
		schema.UserMessage("I baked bread"),
	}, model.WithTemperature(0.7))
	require.NoError(t, err)

	assert.Equal(t, schema.Assistant, msg.Role)
	assert.Equal(t, "Sounds lovely.", msg.Content)
	assert.Equal(t, "gemini-1.5-flash", gen.model)

	require.Len(t, gen.contents, 3)
	assert.Equal(t, string(genai.RoleUser), gen.contents[0].Role)
	assert.Equal(t, string(genai.RoleModel), gen.contents[1].Role)
	assert.Equal(t, "I baked bread", gen.contents[2].Parts[0].Text)

	require.NotNil(t, gen.config.SystemInstruction)
	assert.Equal(t, "be kind", gen.config.SystemInstruction.Parts[0].Text)
	require.NotNil(t, gen.config.Temperature)
	assert.InDelta(t, 0.7, *gen.config.Temperature, 1e-6)
}

func TestGeminiGenerateModelOverrideAndMaxTokens(t *testing.T) {
	maxTokens := 64
	gen := &fakeGenerator{resp: textResponse("ok")}
	chatModel := &GeminiChatModel{models: gen, model: "gemini-1.5-flash", maxTokens: &maxTokens}

	_, err := chatModel.Generate(context.Background(), []*schema.Message{schema.UserMessage("x")}, model.WithModel("gemini-2.5-flash"))
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", gen.model)
	assert.EqualValues(t, 64, gen.config.MaxOutputTokens)
	assert.Nil(t, gen.config.Temperature)
}

func TestGeminiGenerateErrors(t *testing.T) {
	t.Run("api error", func(t *testing.T) {
		chatModel := &GeminiChatModel{models: &fakeGenerator{err: errors.New("403")}, model: "m"}
		_, err := chatModel.Generate(context.Background(), []*schema.Message{schema.UserMessage("x")})
		assert.ErrorContains(t, err, "403")
	})

	t.Run("blocked prompt", func(t *testing.T) {
		chatModel := &GeminiChatModel{models: &fakeGenerator{resp: &genai.GenerateContentResponse{}}, model: "m"}
		_, err := chatModel.Generate(context.Background(), []*schema.Message{schema.UserMessage("x")})
		assert.ErrorIs(t, err, ErrEmptyResponse)
	})

	t.Run("nothing to send", func(t *testing.T) {
		gen := &fakeGenerator{resp: textResponse("ok")}
		chatModel := &GeminiChatModel{models: gen, model: "m"}
		_, err := chatModel.Generate(context.Background(), []*schema.Message{schema.SystemMessage("only system")})
		assert.Error(t, err)
		assert.Nil(t, gen.contents)
	})
}

func TestGeminiStreamYieldsSingleChunk(t *testing.T) {
	chatModel := &GeminiChatModel{models: &fakeGenerator{resp: textResponse("chunk")}, model: "m"}

	stream, err := chatModel.Stream(context.Background(), []*schema.Message{schema.UserMessage("x")})
	require.NoError(t, err)
	defer stream.Close()

	msg, err := stream.Recv()
	require.NoError(t, err)
	assert.Equal(t, "chunk", msg.Content)
}

func TestGeminiBindToolsUnsupported(t *testing.T) {
	assert.Error(t, (&GeminiChatModel{}).BindTools(nil))
}
