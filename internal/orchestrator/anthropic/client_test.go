package anthropic

import (
	"context"
	"encoding/json"
	"testing"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modcraft/internal/specstore"
)

type fakeMessagesClient struct {
	response *sdk.Message
	err      error
	lastBody sdk.MessageNewParams
}

func (f *fakeMessagesClient) New(ctx context.Context, body sdk.MessageNewParams, opts ...option.RequestOption) (*sdk.Message, error) {
	f.lastBody = body
	return f.response, f.err
}

func toolUseMessage(t *testing.T, payload any) *sdk.Message {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return &sdk.Message{
		Content: []sdk.ContentBlockUnion{
			{Type: "tool_use", Name: proposeSpecChangesTool, Input: raw},
		},
	}
}

func TestGenerateReturnsDeltasFromToolCall(t *testing.T) {
	fake := &fakeMessagesClient{response: toolUseMessage(t, toolResponse{
		Deltas: []specstore.SpecDelta{{Operation: specstore.OpAdd, Path: "items[0]", Value: map[string]any{"item_name": "Ruby Sword"}}},
	})}
	client, err := New(fake, Options{Model: "claude-x"})
	require.NoError(t, err)

	result, err := client.Generate(context.Background(), "Create a ruby sword", nil)
	require.NoError(t, err)
	require.Len(t, result.Deltas, 1)
	assert.Equal(t, "items[0]", result.Deltas[0].Path)
	assert.False(t, result.RequiresUserInput)
}

func TestGenerateReturnsClarifyingQuestions(t *testing.T) {
	fake := &fakeMessagesClient{response: toolUseMessage(t, toolResponse{
		ClarifyingQuestions: []string{"What should the item be?"},
	})}
	client, err := New(fake, Options{Model: "claude-x"})
	require.NoError(t, err)

	result, err := client.Generate(context.Background(), "add it", nil)
	require.NoError(t, err)
	assert.True(t, result.RequiresUserInput)
	assert.Empty(t, result.Deltas)
	assert.Equal(t, []string{"What should the item be?"}, result.ClarifyingQuestions)
}

func TestGenerateFailsWhenToolNotCalled(t *testing.T) {
	fake := &fakeMessagesClient{response: &sdk.Message{Content: []sdk.ContentBlockUnion{{Type: "text", Text: "no tool call"}}}}
	client, err := New(fake, Options{Model: "claude-x"})
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), "prompt", nil)
	require.Error(t, err)
}

func TestNewRejectsMissingModel(t *testing.T) {
	_, err := New(&fakeMessagesClient{}, Options{})
	require.Error(t, err)
}
