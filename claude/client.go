// Package claude provides a chat client for Anthropic's Claude API with
// retry handling, conversation management, token accounting, and a prompt
// enhancer for image generation workflows.
package claude

import (
	"context"
	"encoding/base64"
	"strings"
	"sync"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/sirupsen/logrus"

	"github.com/vinayprograms/wavekit/credentials"
	"github.com/vinayprograms/wavekit/errors"
	"github.com/vinayprograms/wavekit/logging"
)

// Default generation settings.
const (
	DefaultModel       = "claude-sonnet-4-5-20250929"
	DefaultMaxTokens   = 1024
	DefaultTemperature = 0.7
)

const (
	defaultMaxRetries  = 3
	defaultInitBackoff = 1 * time.Second
	defaultMaxBackoff  = 60 * time.Second
	backoffFactor      = 2.0
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Image is an inline image attachment for vision requests.
type Image struct {
	MediaType string // defaults to "image/png"
	Data      []byte
}

// Message is one turn in a conversation. Images precede the text when
// both are present.
type Message struct {
	Role    string
	Content string
	Images  []Image
}

// RetryConfig controls retry behavior for transient API failures.
type RetryConfig struct {
	MaxRetries  int
	InitBackoff time.Duration
	MaxBackoff  time.Duration
}

// Config holds configuration for the Claude client.
type Config struct {
	// APIKey overrides environment and credentials file lookup.
	APIKey string

	// BaseURL points the client at a custom endpoint. Optional.
	BaseURL string

	// Model defaults to DefaultModel.
	Model string

	// MaxTokens defaults to DefaultMaxTokens.
	MaxTokens int

	// Temperature defaults to DefaultTemperature when zero.
	Temperature float64

	// Retry controls backoff for rate limits and server errors.
	Retry RetryConfig

	// Logger receives debug and retry events. Optional.
	Logger *logrus.Logger
}

// Usage accumulates token counts across requests.
type Usage struct {
	InputTokens         int64
	OutputTokens        int64
	CacheReadTokens     int64
	CacheCreationTokens int64
}

// CompletionRequest is a single chat request.
type CompletionRequest struct {
	Messages  []Message
	System    string
	Model     string // overrides the client's model
	MaxTokens int    // overrides the client's max tokens
}

// Completion is the assistant's reply with usage accounting.
type Completion struct {
	Text                string
	StopReason          string
	Model               string
	InputTokens         int
	OutputTokens        int
	CacheReadTokens     int
	CacheCreationTokens int
}

// Client talks to the Claude API. Safe for concurrent use.
type Client struct {
	api         *anthropic.Client
	model       string
	maxTokens   int
	temperature float64
	retry       RetryConfig
	log         *logrus.Entry

	mu    sync.Mutex
	usage Usage

	send  func(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error)
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a Claude client. Without Config.APIKey the key is resolved
// from the ANTHROPIC_API_KEY environment variable, then the
// credentials.toml file.
func New(cfg Config) (*Client, error) {
	key := cfg.APIKey
	if key == "" {
		resolved, err := credentials.Resolve("anthropic")
		if err != nil {
			return nil, errors.Wrap(err, "resolving API key")
		}
		key = resolved
	}
	if key == "" {
		return nil, errors.Unauthorized(
			"no API key configured: pass Config.APIKey, set ANTHROPIC_API_KEY, or add an [anthropic] section to credentials.toml")
	}

	opts := []option.RequestOption{option.WithAPIKey(key)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	api := anthropic.NewClient(opts...)

	c := &Client{
		api:         &api,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		retry:       cfg.Retry,
		log:         logging.Component(logging.OrNop(cfg.Logger), "claude"),
		sleep:       sleepContext,
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.maxTokens <= 0 {
		c.maxTokens = DefaultMaxTokens
	}
	if c.temperature <= 0 {
		c.temperature = DefaultTemperature
	}
	c.send = func(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
		return c.api.Messages.New(ctx, params)
	}
	return c, nil
}

// Model returns the client's default model.
func (c *Client) Model() string {
	return c.model
}

// Complete sends the messages and returns the assistant's reply. Rate
// limits and server errors are retried with doubling backoff; other
// failures return immediately.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	if len(req.Messages) == 0 {
		return nil, errors.InvalidInput("at least one message is required")
	}

	params, err := c.buildParams(req)
	if err != nil {
		return nil, err
	}

	maxRetries, backoff, maxBackoff := c.retryConfig()
	var resp *anthropic.Message

	for attempt := 0; attempt <= maxRetries; attempt++ {
		resp, err = c.send(ctx, params)
		if err == nil {
			break
		}

		if isBillingError(err) {
			return nil, errors.Wrap(err, "anthropic billing or quota error")
		}
		if !isRetryableError(err) {
			return nil, errors.Wrap(err, "anthropic request failed")
		}
		if attempt == maxRetries {
			return nil, errors.Wrapf(classifyAPIError(err),
				"request failed after %d attempts", maxRetries+1)
		}

		c.log.WithError(err).WithFields(logrus.Fields{
			"attempt": attempt + 1,
			"backoff": backoff,
		}).Debug("retrying anthropic request")

		if serr := c.sleep(ctx, backoff); serr != nil {
			return nil, errors.Wrap(serr, "retry wait interrupted")
		}
		backoff = time.Duration(float64(backoff) * backoffFactor)
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}

	completion := &Completion{
		StopReason:          string(resp.StopReason),
		Model:               string(resp.Model),
		InputTokens:         int(resp.Usage.InputTokens),
		OutputTokens:        int(resp.Usage.OutputTokens),
		CacheReadTokens:     int(resp.Usage.CacheReadInputTokens),
		CacheCreationTokens: int(resp.Usage.CacheCreationInputTokens),
	}
	for _, block := range resp.Content {
		if block.Type == "text" {
			completion.Text += block.Text
		}
	}

	c.mu.Lock()
	c.usage.InputTokens += resp.Usage.InputTokens
	c.usage.OutputTokens += resp.Usage.OutputTokens
	c.usage.CacheReadTokens += resp.Usage.CacheReadInputTokens
	c.usage.CacheCreationTokens += resp.Usage.CacheCreationInputTokens
	c.mu.Unlock()

	return completion, nil
}

// Usage returns cumulative token counts for this client.
func (c *Client) Usage() Usage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.usage
}

// ResetUsage clears the cumulative token counts.
func (c *Client) ResetUsage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.usage = Usage{}
}

func (c *Client) buildParams(req CompletionRequest) (anthropic.MessageNewParams, error) {
	model := c.model
	if req.Model != "" {
		model = req.Model
	}
	maxTokens := c.maxTokens
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}

	messages := make([]anthropic.MessageParam, 0, len(req.Messages))
	for _, m := range req.Messages {
		blocks := make([]anthropic.ContentBlockParamUnion, 0, len(m.Images)+1)
		for _, img := range m.Images {
			mediaType := img.MediaType
			if mediaType == "" {
				mediaType = "image/png"
			}
			blocks = append(blocks, anthropic.NewImageBlockBase64(
				mediaType, base64.StdEncoding.EncodeToString(img.Data)))
		}
		if m.Content != "" || len(blocks) == 0 {
			blocks = append(blocks, anthropic.NewTextBlock(m.Content))
		}

		switch m.Role {
		case RoleUser:
			messages = append(messages, anthropic.NewUserMessage(blocks...))
		case RoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(blocks...))
		default:
			return anthropic.MessageNewParams{}, errors.Newf(errors.ErrCodeInvalidInput, "invalid message role: %s", m.Role)
		}
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(c.temperature),
		Messages:    messages,
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	return params, nil
}

func (c *Client) retryConfig() (maxRetries int, initBackoff, maxBackoff time.Duration) {
	maxRetries = c.retry.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	initBackoff = c.retry.InitBackoff
	if initBackoff <= 0 {
		initBackoff = defaultInitBackoff
	}
	maxBackoff = c.retry.MaxBackoff
	if maxBackoff <= 0 {
		maxBackoff = defaultMaxBackoff
	}
	return
}

// classifyAPIError maps a retryable SDK failure onto the error taxonomy
// so exhaustion keeps the transient classification.
func classifyAPIError(err error) error {
	switch {
	case isRateLimitError(err):
		return errors.RateLimited("anthropic rate limit", errors.WithCause(err))
	case isServerError(err):
		return errors.ServerError("anthropic server error", errors.WithCause(err))
	default:
		return errors.Wrap(err, "anthropic request failed")
	}
}

// isRateLimitError checks if the error is a rate limit error.
func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests") ||
		strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "overloaded")
}

// isServerError checks if the error is a transient server error (5xx).
func isServerError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "500") ||
		strings.Contains(errStr, "502") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "504") ||
		strings.Contains(errStr, "internal server error") ||
		strings.Contains(errStr, "service unavailable") ||
		strings.Contains(errStr, "temporarily unavailable")
}

// isRetryableError checks if the error is retryable (rate limit or server error).
func isRetryableError(err error) bool {
	return isRateLimitError(err) || isServerError(err)
}

// isBillingError checks if the error is a billing/payment/quota error (fatal, no retry).
func isBillingError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "billing") ||
		strings.Contains(errStr, "payment") ||
		strings.Contains(errStr, "credits") ||
		strings.Contains(errStr, "quota exceeded") ||
		strings.Contains(errStr, "insufficient")
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
