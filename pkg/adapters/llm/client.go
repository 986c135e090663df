package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/aescanero/dailyquote/internal/domain"
	"github.com/aescanero/dailyquote/internal/ports"
)

// Config holds LLM client configuration
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	MaxTokens      int64
	Temperature    float64
	RequestTimeout time.Duration
	Metrics        ports.MetricsCollector
	Logger         *zap.Logger
}

// Client calls the Anthropic Messages API
type Client struct {
	messages    anthropic.MessageService
	model       string
	maxTokens   int64
	temperature float64
	metrics     ports.MetricsCollector
	logger      *zap.Logger
}

// NewClient creates a new LLM client
func NewClient(cfg *Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("LLM API key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("LLM model is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.RequestTimeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.RequestTimeout))
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	client := anthropic.NewClient(opts...)

	return &Client{
		messages:    client.Messages,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		metrics:     cfg.Metrics,
		logger:      logger,
	}, nil
}

// NewRequest builds the completion request for a system instruction and user message
func (c *Client) NewRequest(system, user string) *domain.CompletionRequest {
	return &domain.CompletionRequest{
		System:      system,
		User:        user,
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}
}

// Complete sends one completion and returns the first text segment of the answer
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.Generate(ctx, c.NewRequest(system, user))
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// Generate sends a completion request to the provider
func (c *Client) Generate(ctx context.Context, req *domain.CompletionRequest) (*domain.CompletionResponse, error) {
	start := time.Now()

	msg, err := c.messages.New(ctx, toParams(req))
	duration := time.Since(start)
	if err != nil {
		c.observe(req.Model, "error", duration)
		c.logger.Error("error calling completion provider",
			zap.String("model", req.Model),
			zap.Int("status_code", statusCode(err)),
			zap.Duration("duration", duration),
			zap.Error(err))
		return nil, fmt.Errorf("failed to call completion provider: %w", err)
	}

	c.observe(req.Model, "ok", duration)
	if c.metrics != nil {
		c.metrics.AddLLMTokens(req.Model, msg.Usage.InputTokens, msg.Usage.OutputTokens)
	}

	text, ok := firstText(msg)
	if !ok {
		c.logger.Error("completion contained no text block",
			zap.String("model", req.Model),
			zap.String("message_id", msg.ID))
		return nil, domain.ErrEmptyCompletion
	}

	c.logger.Debug("completion received",
		zap.String("model", string(msg.Model)),
		zap.Int64("input_tokens", msg.Usage.InputTokens),
		zap.Int64("output_tokens", msg.Usage.OutputTokens),
		zap.Duration("duration", duration))

	return &domain.CompletionResponse{
		Text:         text,
		Model:        string(msg.Model),
		InputTokens:  msg.Usage.InputTokens,
		OutputTokens: msg.Usage.OutputTokens,
	}, nil
}

func (c *Client) observe(model, status string, duration time.Duration) {
	if c.metrics != nil {
		c.metrics.ObserveLLMCall(model, status, duration)
	}
}

// toParams converts a domain request into SDK parameters
func toParams(req *domain.CompletionRequest) anthropic.MessageNewParams {
	return anthropic.MessageNewParams{
		Model:       anthropic.Model(req.Model),
		MaxTokens:   req.MaxTokens,
		Temperature: anthropic.Float(req.Temperature),
		System: []anthropic.TextBlockParam{
			{Text: req.System},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.User)),
		},
	}
}

// firstText returns the first text block of a message
func firstText(msg *anthropic.Message) (string, bool) {
	for _, block := range msg.Content {
		if block.Type == "text" {
			return block.Text, true
		}
	}
	return "", false
}

func statusCode(err error) int {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
