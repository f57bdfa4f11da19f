// Package gemini provides a chat and vision client for Google's Gemini
// API.
package gemini

import (
	"context"
	"sort"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"github.com/vinayprograms/wavekit/credentials"
	"github.com/vinayprograms/wavekit/errors"
	"github.com/vinayprograms/wavekit/logging"
)

// Default generation settings.
const (
	DefaultModel       = "gemini-2.5-flash"
	DefaultMaxTokens   = 8192
	DefaultTemperature = 0.7
)

// models maps each supported model to a short description.
var models = map[string]string{
	"gemini-2.5-pro":        "State-of-the-art thinking model",
	"gemini-2.5-flash":      "Best price-performance",
	"gemini-2.5-flash-lite": "Fastest, most cost-efficient",
	"gemini-2.0-flash":      "Previous generation workhorse",
	"gemini-1.5-pro":        "Legacy long-context model",
	"gemini-1.5-flash":      "Legacy fast model",
}

// Models returns the supported model names, sorted.
func Models() []string {
	out := make([]string, 0, len(models))
	for name := range models {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ModelDescription returns the description for a model name.
func ModelDescription(name string) (string, bool) {
	desc, ok := models[name]
	return desc, ok
}

// Image is an inline image for vision requests.
type Image struct {
	Format string // "png", "jpeg"; defaults to "png"
	Data   []byte
}

// Config holds configuration for the Gemini client.
type Config struct {
	// APIKey overrides environment and credentials file lookup.
	APIKey string

	// Model defaults to DefaultModel. Unknown names are rejected.
	Model string

	// MaxTokens defaults to DefaultMaxTokens.
	MaxTokens int

	// Temperature defaults to DefaultTemperature when zero.
	Temperature float64

	// SystemInstruction steers every request when set.
	SystemInstruction string

	// Logger receives debug events. Optional.
	Logger *logrus.Logger
}

// GenerateRequest is a single-shot generation request. Images are sent
// before the prompt when present.
type GenerateRequest struct {
	Prompt string
	Images []Image
}

// Result is the model's reply. Blocked is set when the response carries
// no text, with FinishReason explaining why.
type Result struct {
	Text         string
	FinishReason string
	Blocked      bool
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Client talks to the Gemini API. Safe for concurrent use; Close
// releases the underlying connection.
type Client struct {
	api   *genai.Client
	model *genai.GenerativeModel
	name  string
	log   *logrus.Entry

	generate func(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
	sendChat func(ctx context.Context, session *genai.ChatSession, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// New creates a Gemini client. Without Config.APIKey the key is resolved
// from GEMINI_API_KEY, then GOOGLE_API_KEY, then the credentials.toml
// file.
func New(ctx context.Context, cfg Config) (*Client, error) {
	name := cfg.Model
	if name == "" {
		name = DefaultModel
	}
	if _, ok := models[name]; !ok {
		return nil, errors.Newf(errors.ErrCodeInvalidInput,
			"unknown model %q (valid: %s)", name, strings.Join(Models(), ", "))
	}

	key := cfg.APIKey
	if key == "" {
		resolved, err := credentials.Resolve("gemini")
		if err != nil {
			return nil, errors.Wrap(err, "resolving API key")
		}
		key = resolved
	}
	if key == "" {
		return nil, errors.Unauthorized(
			"no API key configured: pass Config.APIKey, set GEMINI_API_KEY or GOOGLE_API_KEY, or add a [gemini] section to credentials.toml")
	}

	api, err := genai.NewClient(ctx, option.WithAPIKey(key))
	if err != nil {
		return nil, errors.Wrap(err, "creating gemini client")
	}

	model := api.GenerativeModel(name)
	maxTokens := int32(cfg.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	model.MaxOutputTokens = &maxTokens

	temperature := float32(cfg.Temperature)
	if temperature <= 0 {
		temperature = DefaultTemperature
	}
	model.Temperature = &temperature

	if cfg.SystemInstruction != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(cfg.SystemInstruction)},
		}
	}

	c := &Client{
		api:   api,
		model: model,
		name:  name,
		log:   logging.Component(logging.OrNop(cfg.Logger), "gemini"),
	}
	c.generate = func(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
		return c.model.GenerateContent(ctx, parts...)
	}
	c.sendChat = func(ctx context.Context, session *genai.ChatSession, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
		return session.SendMessage(ctx, parts...)
	}
	return c, nil
}

// Model returns the client's model name.
func (c *Client) Model() string {
	return c.name
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.api.Close()
}

// Generate sends a single-shot request and returns the reply. A safety
// block yields a Result with Blocked set, not an error.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*Result, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, errors.InvalidInput("prompt cannot be empty")
	}

	parts := make([]genai.Part, 0, len(req.Images)+1)
	for _, img := range req.Images {
		format := img.Format
		if format == "" {
			format = "png"
		}
		parts = append(parts, genai.ImageData(format, img.Data))
	}
	parts = append(parts, genai.Text(req.Prompt))

	resp, err := c.generate(ctx, parts...)
	if err != nil {
		return nil, errors.Wrap(err, "gemini request failed")
	}

	result := extractResult(resp)
	c.log.WithFields(logrus.Fields{
		"model":   c.name,
		"blocked": result.Blocked,
	}).Debug("content generated")
	return result, nil
}

// extractResult pulls text, finish reason, and usage out of a response.
// Missing candidates or text parts mark the result blocked.
func extractResult(resp *genai.GenerateContentResponse) *Result {
	result := &Result{}
	if resp.UsageMetadata != nil {
		result.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		result.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
		result.TotalTokens = int(resp.UsageMetadata.TotalTokenCount)
	}

	if len(resp.Candidates) == 0 {
		result.Blocked = true
		if resp.PromptFeedback != nil {
			result.FinishReason = resp.PromptFeedback.BlockReason.String()
		}
		return result
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason != 0 {
		result.FinishReason = candidate.FinishReason.String()
	}
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				result.Text += string(text)
			}
		}
	}
	if result.Text == "" {
		result.Blocked = true
	}
	return result
}
