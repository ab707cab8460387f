// Package anthropic implements orchestrator.Client on top of the
// Anthropic Claude Messages API, grounded on the teacher's own
// features/model/anthropic adapter: a narrow MessagesClient interface
// satisfied by the real SDK client or a test double, a single forced
// tool call whose input schema mirrors the desired response shape, and
// translation of the tool_use block back into domain types.
package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"modcraft/internal/orchestrator"
	"modcraft/internal/specstore"
)

// MessagesClient captures the subset of the Anthropic SDK client this
// adapter uses, so tests can substitute a double for *sdk.MessageService.
type MessagesClient interface {
	New(ctx context.Context, body sdk.MessageNewParams, opts ...option.RequestOption) (*sdk.Message, error)
}

const proposeSpecChangesTool = "propose_spec_changes"

// proposeSpecChangesSchema forces the model to answer in the shape
// orchestrator.Result needs: a delta list, a clarifying-question list,
// reasoning, and a requires_user_input flag, all four required. The
// schema does not make deltas and questions mutually exclusive.
var proposeSpecChangesSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"deltas": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"operation": map[string]any{"type": "string", "enum": []string{"add", "update", "remove"}},
					"path":      map[string]any{"type": "string"},
					"value":     map[string]any{},
				},
				"required": []string{"operation", "path"},
			},
		},
		"clarifying_questions": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"reasoning":           map[string]any{"type": "string"},
		"requires_user_input": map[string]any{"type": "boolean"},
	},
	"required": []string{"deltas", "clarifying_questions", "reasoning", "requires_user_input"},
}

type toolResponse struct {
	Deltas              []specstore.SpecDelta `json:"deltas"`
	ClarifyingQuestions []string               `json:"clarifying_questions"`
	Reasoning           string                 `json:"reasoning"`
	RequiresUserInput   bool                   `json:"requires_user_input"`
}

// Options configures the Anthropic orchestrator adapter.
type Options struct {
	// Model is the Claude model identifier used for every Generate call.
	Model string
	// MaxTokens caps the completion length.
	MaxTokens int
	// SystemPrompt is prepended as the system message on every request.
	SystemPrompt string
}

// Client implements orchestrator.Client on Anthropic Claude Messages.
type Client struct {
	msg       MessagesClient
	model     string
	maxTokens int
	system    string
}

func New(msg MessagesClient, opts Options) (*Client, error) {
	if msg == nil {
		return nil, errors.New("orchestrator/anthropic: messages client is required")
	}
	if opts.Model == "" {
		return nil, errors.New("orchestrator/anthropic: model identifier is required")
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	return &Client{msg: msg, model: opts.Model, maxTokens: maxTokens, system: opts.SystemPrompt}, nil
}

func (c *Client) Generate(ctx context.Context, prompt string, currentSpec *specstore.ModSpec) (orchestrator.Result, error) {
	userContent, err := buildUserContent(prompt, currentSpec)
	if err != nil {
		return orchestrator.Result{}, fmt.Errorf("orchestrator/anthropic: encode request: %w", err)
	}

	params := sdk.MessageNewParams{
		Model:     sdk.Model(c.model),
		MaxTokens: int64(c.maxTokens),
		Messages:  []sdk.MessageParam{sdk.NewUserMessage(sdk.NewTextBlock(userContent))},
		Tools: []sdk.ToolUnionParam{
			sdk.ToolUnionParamOfTool(sdk.ToolInputSchemaParam{ExtraFields: proposeSpecChangesSchema}, proposeSpecChangesTool),
		},
		ToolChoice: sdk.ToolChoiceParamOfTool(proposeSpecChangesTool),
	}
	if c.system != "" {
		params.System = []sdk.TextBlockParam{{Text: c.system}}
	}

	msg, err := c.msg.New(ctx, params)
	if err != nil {
		return orchestrator.Result{}, fmt.Errorf("orchestrator/anthropic: messages.new: %w", err)
	}

	return translateMessage(msg)
}

func buildUserContent(prompt string, currentSpec *specstore.ModSpec) (string, error) {
	specJSON := "null"
	if currentSpec != nil {
		raw, err := json.Marshal(currentSpec)
		if err != nil {
			return "", err
		}
		specJSON = string(raw)
	}
	return fmt.Sprintf(
		"Current spec:\n%s\n\nUser request:\n%s\n\nCall %s with either clarifying questions or a list of path-addressed deltas.",
		specJSON, prompt, proposeSpecChangesTool,
	), nil
}

func translateMessage(msg *sdk.Message) (orchestrator.Result, error) {
	if msg == nil {
		return orchestrator.Result{}, errors.New("orchestrator/anthropic: nil response")
	}
	for _, block := range msg.Content {
		if block.Type != "tool_use" || block.Name != proposeSpecChangesTool {
			continue
		}
		var parsed toolResponse
		if err := json.Unmarshal(block.Input, &parsed); err != nil {
			return orchestrator.Result{}, fmt.Errorf("orchestrator/anthropic: decode tool input: %w", err)
		}
		return orchestrator.Result{
			Deltas:              parsed.Deltas,
			ClarifyingQuestions: parsed.ClarifyingQuestions,
			Reasoning:           parsed.Reasoning,
			RequiresUserInput:   parsed.RequiresUserInput || len(parsed.ClarifyingQuestions) > 0,
		}, nil
	}
	return orchestrator.Result{}, errors.New("orchestrator/anthropic: response did not call propose_spec_changes")
}
