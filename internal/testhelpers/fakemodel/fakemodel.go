// Package fakemodel provides a deterministic eino chat model for tests.
package fakemodel

import (
	"context"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// Call records one Generate invocation.
type Call struct {
	Input   []*schema.Message
	Options *model.Options
}

// ChatModel answers every prompt through Respond, or with Reply/Err when
// Respond is nil.
type ChatModel struct {
	Reply   string
	Err     error
	Respond func(input []*schema.Message) (string, error)

	mu    sync.Mutex
	calls []Call
}

var _ model.ChatModel = (*ChatModel)(nil)

// New returns a model that always replies with reply.
func New(reply string) *ChatModel {
	return &ChatModel{Reply: reply}
}

// Failing returns a model whose every call fails with err.
func Failing(err error) *ChatModel {
	return &ChatModel{Err: err}
}

func (m *ChatModel) Generate(_ context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	m.mu.Lock()
	m.calls = append(m.calls, Call{Input: input, Options: model.GetCommonOptions(&model.Options{}, opts...)})
	m.mu.Unlock()

	if m.Respond != nil {
		text, err := m.Respond(input)
		if err != nil {
			return nil, err
		}
		return schema.AssistantMessage(text, nil), nil
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return schema.AssistantMessage(m.Reply, nil), nil
}

func (m *ChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func (m *ChatModel) BindTools(_ []*schema.ToolInfo) error {
	return nil
}

// Calls returns a copy of the recorded invocations.
func (m *ChatModel) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}
