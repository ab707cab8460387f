// Package bedrock implements texturegen.Client on top of the AWS Bedrock
// runtime's InvokeModel API, targeting Titan Image Generator-family
// models. It mirrors the teacher's features/model/bedrock adapter shape —
// a narrow RuntimeClient interface satisfied by the real SDK client or a
// test double — applied to image generation instead of the Converse chat
// API.
package bedrock

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"modcraft/internal/texturegen"
)

// RuntimeClient mirrors the subset of the AWS Bedrock runtime client this
// adapter requires, matching *bedrockruntime.Client so callers can pass
// either the real client or a test double.
type RuntimeClient interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Options configures the Bedrock texture generator adapter.
type Options struct {
	// Runtime provides access to the Bedrock runtime. Required.
	Runtime RuntimeClient
	// ModelID is the Bedrock model identifier, e.g.
	// "amazon.titan-image-generator-v2:0".
	ModelID string
}

// Client implements texturegen.Client on AWS Bedrock InvokeModel.
type Client struct {
	runtime RuntimeClient
	modelID string
}

func New(opts Options) (*Client, error) {
	if opts.Runtime == nil {
		return nil, errors.New("texturegen/bedrock: runtime client is required")
	}
	if opts.ModelID == "" {
		return nil, errors.New("texturegen/bedrock: model id is required")
	}
	return &Client{runtime: opts.Runtime, modelID: opts.ModelID}, nil
}

type titanImageRequest struct {
	TaskType          string                  `json:"taskType"`
	TextToImageParams titanTextToImageParams  `json:"textToImageParams"`
	ImageGenConfig    titanImageGenerationCfg `json:"imageGenerationConfig"`
}

type titanTextToImageParams struct {
	Text string `json:"text"`
}

type titanImageGenerationCfg struct {
	NumberOfImages int `json:"numberOfImages"`
	Quality        string `json:"quality"`
	Height         int    `json:"height"`
	Width          int    `json:"width"`
}

type titanImageResponse struct {
	Images []string `json:"images"`
	Error  string   `json:"error,omitempty"`
}

var _ texturegen.Client = (*Client)(nil)

func (c *Client) Generate(ctx context.Context, prompt string, referenceIDs []string, variantCount int) ([][]byte, error) {
	if variantCount < 1 {
		variantCount = 1
	}

	body, err := json.Marshal(titanImageRequest{
		TaskType:          "TEXT_IMAGE",
		TextToImageParams: titanTextToImageParams{Text: referencedPrompt(prompt, referenceIDs)},
		ImageGenConfig: titanImageGenerationCfg{
			NumberOfImages: variantCount,
			Quality:        "standard",
			Height:         16,
			Width:          16,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("texturegen/bedrock: encode request: %w", err)
	}

	out, err := c.runtime.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     &c.modelID,
		Body:        body,
		ContentType: stringPtr("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("texturegen/bedrock: invoke model: %w", err)
	}

	var resp titanImageResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return nil, fmt.Errorf("texturegen/bedrock: decode response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("texturegen/bedrock: model error: %s", resp.Error)
	}
	if len(resp.Images) == 0 {
		return nil, errors.New("texturegen/bedrock: model returned no images")
	}

	variants := make([][]byte, 0, len(resp.Images))
	for _, encoded := range resp.Images {
		raw, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("texturegen/bedrock: decode image: %w", err)
		}
		variants = append(variants, raw)
	}
	return variants, nil
}

// referencedPrompt folds reference texture identifiers into the prompt
// text, since Titan's text-to-image params carry no dedicated reference
// field; minecraft texture packs reuse neighboring block/item textures as
// style anchors, so naming them helps keep generated art consistent.
func referencedPrompt(prompt string, referenceIDs []string) string {
	if len(referenceIDs) == 0 {
		return prompt
	}
	out := prompt + " (match the style of: "
	for i, id := range referenceIDs {
		if i > 0 {
			out += ", "
		}
		out += id
	}
	return out + ")"
}

func stringPtr(s string) *string { return &s }
