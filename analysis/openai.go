package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/sonnes/bellhop/core"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "gpt-4o-mini"

// ErrEmptyResponse is returned when the model sends back no content.
var ErrEmptyResponse = errors.New("empty response from model")

// Config holds settings for an OpenAI-compatible endpoint.
type Config struct {
	APIKey  string
	BaseURL string // defaults to the OpenAI API
	Model   string
	Timeout time.Duration
}

// Client implements Analyzer with chat completions.
type Client struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

var _ Analyzer = (*Client)(nil)

// New creates a Client.
func New(cfg Config) *Client {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   model,
		timeout: timeout,
	}
}

// Analyze sends the conversation to the model and parses its review.
func (c *Client) Analyze(ctx context.Context, conv *core.Conversation) (*Analysis, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt, err := buildPrompt(conv)
	if err != nil {
		return nil, err
	}

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, req)
	latency := time.Since(start)
	if err != nil {
		slog.Error("conversation analysis request failed",
			"conversation", conv.ID,
			"error", err,
			"latency_ms", latency.Milliseconds())
		return nil, fmt.Errorf("analysis request: %w", err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return nil, ErrEmptyResponse
	}

	content := resp.Choices[0].Message.Content
	a, err := Parse(content)
	if err != nil {
		slog.Warn("failed to parse analysis response", "conversation", conv.ID, "error", err)
		return nil, err
	}

	slog.Debug("conversation analysis completed",
		"conversation", conv.ID,
		"model", c.model,
		"latency_ms", latency.Milliseconds(),
		"tokens", resp.Usage.TotalTokens)
	return a, nil
}

var fenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// Parse decodes a model reply, tolerating a surrounding markdown code fence.
func Parse(content string) (*Analysis, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyResponse
	}
	if strings.HasPrefix(content, "```") {
		if m := fenceRe.FindStringSubmatch(content); len(m) > 1 {
			content = m[1]
		}
	}

	var a Analysis
	if err := json.Unmarshal([]byte(content), &a); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}
	return &a, nil
}
