package openaivision

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"toolgen/internal/application/port/output"
	"toolgen/internal/domain/entity"

	"github.com/sashabaranov/go-openai"
)

const method = "openai-vision"

const detectPrompt = `Identify the interactive UI elements in this screenshot.
Respond with JSON only, in this shape:
{"confidence": 0.0-1.0, "elements": [{"type": "button|input|link|menu|login_form", "label": "visible text", "box": {"x": 0, "y": 0, "width": 0, "height": 0}, "confidence": 0.0-1.0}]}`

var _ output.Detector = (*Adapter)(nil)

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

func DefaultConfig(apiKey, model string) Config {
	return Config{
		APIKey: apiKey,
		Model:  model,
	}
}

// Adapter asks a vision-capable chat model to enumerate interactive
// elements on the screenshot.
type Adapter struct {
	client *openai.Client
	model  string
	logger output.LoggerPort
}

func NewAdapter(cfg Config, logger output.LoggerPort) *Adapter {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Adapter{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: logger,
	}
}

func (a *Adapter) Name() string { return method }

func (a *Adapter) Detect(ctx context.Context, shot *entity.Screenshot, _ *entity.PageContext) (*entity.Detection, error) {
	if shot == nil || len(shot.Data) == 0 {
		return nil, errors.New("no screenshot available")
	}

	imageURL := fmt.Sprintf("data:image/%s;base64,%s", shot.Format, base64.StdEncoding.EncodeToString(shot.Data))

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: detectPrompt},
					{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: imageURL}},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("vision completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("no choices in vision response")
	}

	content := resp.Choices[0].Message.Content
	parsed, err := parseResponse(content)
	if err != nil {
		return nil, fmt.Errorf("unparsable vision response: %w", err)
	}

	return &entity.Detection{
		Method:     method,
		Confidence: parsed.Confidence,
		Elements:   parsed.Elements,
		Raw:        content,
	}, nil
}

type visionResponse struct {
	Confidence float64                  `json:"confidence"`
	Elements   []entity.DetectedElement `json:"elements"`
}

// parseResponse tolerates prose around the JSON object, as models tend to
// add it despite instructions.
func parseResponse(content string) (*visionResponse, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return nil, errors.New("no JSON object in response")
	}

	var parsed visionResponse
	if err := json.Unmarshal([]byte(content[start:end+1]), &parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}
