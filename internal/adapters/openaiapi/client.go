package openaiapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	DefaultModel      = "gpt-4o-mini"
	DefaultImageModel = "dall-e-3"
)

var ErrEmptyResponse = errors.New("openai: empty response")

type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	ImageModel string
	HTTPClient *http.Client
}

// Client adapts the OpenAI chat and image APIs to the generation ports.
type Client struct {
	api        *openai.Client
	model      string
	imageModel string
}

func NewClient(cfg Config) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = DefaultImageModel
	}
	return &Client{
		api:        openai.NewClient(opts...),
		model:      cfg.Model,
		imageModel: cfg.ImageModel,
	}
}

func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	completion, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		}),
		Model: openai.F(openai.ChatModel(c.model)),
	})
	if err != nil {
		return "", fmt.Errorf("openai: chat completion: %w", err)
	}
	if len(completion.Choices) == 0 || strings.TrimSpace(completion.Choices[0].Message.Content) == "" {
		return "", ErrEmptyResponse
	}
	return completion.Choices[0].Message.Content, nil
}

func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	res, err := c.api.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt: openai.F(prompt),
		Model:  openai.F(openai.ImageModel(c.imageModel)),
		N:      openai.F(int64(1)),
	})
	if err != nil {
		return "", fmt.Errorf("openai: image generation: %w", err)
	}
	if len(res.Data) == 0 || res.Data[0].URL == "" {
		return "", ErrEmptyResponse
	}
	return res.Data[0].URL, nil
}
