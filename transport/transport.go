package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vinayprograms/wavekit/errors"
	"github.com/vinayprograms/wavekit/logging"
)

// DefaultBaseURL is the production WaveSpeed API endpoint.
const DefaultBaseURL = "https://api.wavespeed.ai"

// Connection tuning. Dial budgets are derived from the per-request
// timeout so a slow handshake leaves room for the response.
const (
	postConnectCeiling   = 15 * time.Second
	getConnectCeiling    = 10 * time.Second
	uploadConnectTimeout = 15 * time.Second
	uploadReadTimeout    = 180 * time.Second

	maxIdleConns        = 20
	maxIdleConnsPerHost = 10
	idleConnTimeout     = 90 * time.Second
)

// Config holds transport client configuration.
type Config struct {
	// BaseURL is the API endpoint. Defaults to DefaultBaseURL.
	BaseURL string

	// APIKey is sent as a bearer token on every request.
	APIKey string

	// Retry controls backoff behavior. Zero fields use defaults.
	Retry RetryPolicy

	// Logger for request diagnostics. Optional.
	Logger *logrus.Logger
}

// Client is a retrying HTTP client for the WaveSpeed API.
type Client struct {
	baseURL string
	apiKey  string
	retry   RetryPolicy
	http    *http.Client
	log     *logrus.Entry

	// sleep is swapped out in tests to avoid real backoff waits.
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a transport client with a pooled connection transport.
func New(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		retry:   cfg.Retry.withDefaults(),
		http:    &http.Client{Transport: newPooledTransport()},
		log:     logging.Component(logging.OrNop(cfg.Logger), "transport"),
		sleep:   sleepContext,
	}
}

// Close releases idle connections held by the pool.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

// PostJSON sends a JSON body and returns the envelope data field.
// The timeout bounds each individual attempt, not the whole retry loop.
func (c *Client) PostJSON(ctx context.Context, path string, body []byte, timeout time.Duration) (json.RawMessage, error) {
	build := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}
	return c.do(ctx, path, build, connectBudget(timeout, postConnectCeiling, 4), timeout)
}

// GetJSON issues a GET and returns the envelope data field.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, timeout time.Duration) (json.RawMessage, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	build := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		return req, nil
	}
	return c.do(ctx, path, build, connectBudget(timeout, getConnectCeiling, 3), timeout)
}

// PostMultipart uploads data as a single multipart form file and returns
// the envelope data field. Uploads get a fixed generous read timeout.
func (c *Client) PostMultipart(ctx context.Context, path, field, filename, contentType string, data []byte) (json.RawMessage, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, errors.Internal("creating multipart form", errors.WithCause(err))
	}
	if _, err := part.Write(data); err != nil {
		return nil, errors.Internal("writing multipart form", errors.WithCause(err))
	}
	if err := writer.Close(); err != nil {
		return nil, errors.Internal("finalizing multipart form", errors.WithCause(err))
	}

	body := buf.Bytes()
	build := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		return req, nil
	}
	return c.do(ctx, path, build, uploadConnectTimeout, uploadReadTimeout)
}

// do runs the retry loop around attempt. Each retry rebuilds the request
// from scratch and waits with exponential backoff, capped at MaxDelay.
func (c *Client) do(ctx context.Context, path string, build func(context.Context) (*http.Request, error), connect, timeout time.Duration) (json.RawMessage, error) {
	backoff := c.retry.BaseDelay

	var data json.RawMessage
	var err error
	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		data, err = c.attempt(ctx, build, connect, timeout)
		if err == nil {
			break
		}

		if !errors.IsRetryable(err) {
			return nil, err
		}

		if attempt == c.retry.MaxRetries {
			return nil, errors.Wrapf(err, "request failed after %d attempts", c.retry.Attempts())
		}

		c.log.WithFields(logrus.Fields{
			"path":    path,
			"attempt": attempt + 1,
			"backoff": backoff.String(),
		}).WithError(err).Debug("retrying request")

		if serr := c.sleep(ctx, backoff); serr != nil {
			return nil, errors.Wrap(serr, "retry wait interrupted")
		}

		backoff = time.Duration(float64(backoff) * c.retry.BackoffFactor)
		if backoff > c.retry.MaxDelay {
			backoff = c.retry.MaxDelay
		}
	}
	return data, nil
}

// attempt performs one request with its own deadline and connect budget.
func (c *Client) attempt(ctx context.Context, build func(context.Context) (*http.Request, error), connect, timeout time.Duration) (json.RawMessage, error) {
	attemptCtx := withConnectBudget(ctx, connect)
	if timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(attemptCtx, timeout)
		defer cancel()
	}

	req, err := build(attemptCtx)
	if err != nil {
		return nil, errors.Internal("building request", errors.WithCause(err))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.classifyNetError(ctx, attemptCtx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.classifyNetError(ctx, attemptCtx, err)
	}

	return c.decode(resp.StatusCode, body)
}

// classifyNetError separates caller cancellation from per-attempt
// timeouts and plain connectivity failures. A dead parent context makes
// the error non-retryable; a per-attempt timeout or network failure is
// worth another try.
func (c *Client) classifyNetError(parent, attempt context.Context, err error) error {
	switch {
	case parent.Err() == context.Canceled:
		return errors.New(errors.ErrCodeCanceled, "request canceled", errors.WithCause(err))
	case parent.Err() != nil:
		return errors.Timeout("request deadline exceeded", errors.WithCause(err), errors.WithRetryable(false))
	case attempt.Err() == context.DeadlineExceeded:
		return errors.Timeout("request timed out", errors.WithCause(err))
	}
	return errors.Transport("request failed", errors.WithCause(err))
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// connectBudget splits a per-request timeout into a dial budget. The
// budget is total/fraction, never above the ceiling.
func connectBudget(total, ceiling time.Duration, fraction int64) time.Duration {
	if total <= 0 {
		return ceiling
	}
	if split := total / time.Duration(fraction); split < ceiling {
		return split
	}
	return ceiling
}

// connectBudgetKey carries the dial budget from a request context into
// the shared transport's DialContext.
type connectBudgetKey struct{}

func withConnectBudget(ctx context.Context, d time.Duration) context.Context {
	if d <= 0 {
		return ctx
	}
	return context.WithValue(ctx, connectBudgetKey{}, d)
}

// newPooledTransport builds the shared connection pool. The dialer reads
// its timeout from the request context so each call shape can carry its
// own connect budget over one pool.
func newPooledTransport() *http.Transport {
	return &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			dialer := net.Dialer{
				Timeout:   postConnectCeiling,
				KeepAlive: 30 * time.Second,
			}
			if budget, ok := ctx.Value(connectBudgetKey{}).(time.Duration); ok {
				dialer.Timeout = budget
			}
			return dialer.DialContext(ctx, network, addr)
		},
		MaxIdleConns:          maxIdleConns,
		MaxIdleConnsPerHost:   maxIdleConnsPerHost,
		IdleConnTimeout:       idleConnTimeout,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}
