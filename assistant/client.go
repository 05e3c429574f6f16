// Package assistant wraps the OpenAI completion API: the chat relay and
// the itinerary requester share one lazily initialized client.
package assistant

import (
	"context"
	"fmt"
	"sync"

	"ai-travel-agent/config"
	"ai-travel-agent/logger"
	"ai-travel-agent/models"
	"ai-travel-agent/prefs"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Client relays prompts to the completion API.
type Client struct {
	apiKey             string
	model              string
	temperature        float64
	maxChatTokens      int64
	maxItineraryTokens int64

	initOnce sync.Once
	client   *openai.Client
}

// NewClient creates a client. The underlying API client is initialized on
// first use so a missing key surfaces as a request-time error, not a crash.
func NewClient(cfg *config.Config, apiKey string) *Client {
	return &Client{
		apiKey:             apiKey,
		model:              cfg.OpenAI.Model,
		temperature:        cfg.OpenAI.Temperature,
		maxChatTokens:      int64(cfg.OpenAI.MaxChatTokens),
		maxItineraryTokens: int64(cfg.OpenAI.MaxItineraryTokens),
	}
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// IsConfigured reports whether an API key is present.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// init builds the API client exactly once. Requests arrive on concurrent
// handler goroutines, so the write has to be synchronized.
func (c *Client) init() error {
	if c.apiKey == "" {
		return ErrNotConfigured
	}
	c.initOnce.Do(func() {
		client := openai.NewClient(option.WithAPIKey(c.apiKey))
		c.client = &client
		logger.Debug("openai client initialized", "model", c.model)
	})
	return nil
}

// Chat relays one user message, with optional history, through the travel
// agent system prompt. Failures come back as *UpstreamError.
func (c *Client) Chat(ctx context.Context, message string, history []models.ConversationMessage) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	messages = append(messages, openai.SystemMessage(systemPrompt))
	for _, msg := range history {
		switch msg.Role {
		case models.RoleUser:
			messages = append(messages, openai.UserMessage(msg.Content))
		case models.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(msg.Content))
		}
	}
	messages = append(messages, openai.UserMessage(message))

	return c.complete(ctx, messages, c.maxChatTokens)
}

// GenerateItinerary turns a preference snapshot into a day-by-day plan.
func (c *Client) GenerateItinerary(ctx context.Context, p prefs.Store) (string, error) {
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(itinerarySystemPrompt),
		openai.UserMessage(BuildItineraryPrompt(p)),
	}
	return c.complete(ctx, messages, c.maxItineraryTokens)
}

func (c *Client) complete(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion, maxTokens int64) (string, error) {
	if err := c.init(); err != nil {
		return "", classifyError(err)
	}

	params := openai.ChatCompletionNewParams{
		Model:            openai.ChatModel(c.model),
		Messages:         messages,
		MaxTokens:        openai.Int(maxTokens),
		Temperature:      openai.Float(c.temperature),
		PresencePenalty:  openai.Float(0.1),
		FrequencyPenalty: openai.Float(0.1),
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		logger.Error("completion request failed", "model", c.model, "error", err)
		return "", classifyError(err)
	}
	if len(completion.Choices) == 0 {
		return "", classifyError(fmt.Errorf("no response choices returned"))
	}
	return completion.Choices[0].Message.Content, nil
}
