package transport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/vinayprograms/wavekit/errors"
)

// envelope is the standard WaveSpeed response wrapper.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// decode turns a raw response into envelope data or a classified error.
// An application-level error code inside a 200 envelope is handled the
// same way as the equivalent HTTP status.
func (c *Client) decode(status int, body []byte) (json.RawMessage, error) {
	if status == http.StatusUnauthorized {
		return nil, errors.Unauthorized("invalid API key or unauthorized access",
			errors.WithMetadata("status", "401"))
	}
	if status != http.StatusOK {
		return nil, c.classify(status, errorMessage(body, statusFallback(status)))
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, errors.Internal("decoding response envelope", errors.WithCause(err))
	}
	if env.Code == http.StatusOK {
		return env.Data, nil
	}

	msg := env.Message
	if msg == "" {
		msg = fmt.Sprintf("code %d", env.Code)
	}
	return nil, c.classify(env.Code, "api error: "+msg)
}

// classify maps a status code to an error category. The retryable set
// comes from the client's policy; non-429 4xx codes are never retried.
func (c *Client) classify(status int, msg string) error {
	meta := errors.WithMetadata("status", strconv.Itoa(status))
	switch {
	case status == http.StatusUnauthorized:
		return errors.Unauthorized(msg, meta)
	case status == http.StatusTooManyRequests:
		return errors.RateLimited(msg, meta, errors.WithRetryable(c.retry.Retryable(status)))
	case status >= 500:
		return errors.ServerError(msg, meta, errors.WithRetryable(c.retry.Retryable(status)))
	case status >= 400:
		return errors.BadRequest(msg, meta)
	default:
		return errors.ServerError(msg, meta, errors.WithRetryable(false))
	}
}

// errorMessage digs a human-readable message out of an error body,
// preferring "message" over "error", falling back when neither is set.
func errorMessage(body []byte, fallback string) string {
	if m := gjson.GetBytes(body, "message"); m.Exists() && m.String() != "" {
		return m.String()
	}
	if m := gjson.GetBytes(body, "error"); m.Exists() && m.String() != "" {
		return m.String()
	}
	return fallback
}

func statusFallback(status int) string {
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", status)
}
