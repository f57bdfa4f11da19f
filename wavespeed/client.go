package wavespeed

import (
	"context"
	"image"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vinayprograms/wavekit/credentials"
	"github.com/vinayprograms/wavekit/errors"
	"github.com/vinayprograms/wavekit/logging"
	"github.com/vinayprograms/wavekit/media"
	"github.com/vinayprograms/wavekit/ratelimit"
	"github.com/vinayprograms/wavekit/requests"
	"github.com/vinayprograms/wavekit/tasks"
	"github.com/vinayprograms/wavekit/transport"
	"github.com/vinayprograms/wavekit/upload"
)

// limiterResource is the bucket name used for all rate-limited calls.
const limiterResource = "wavespeed-api"

// Client talks to the WaveSpeed API. Build one with New and share it;
// all methods are safe for concurrent use.
type Client struct {
	apiKey       string
	baseURL      string
	retry        transport.RetryPolicy
	pollInterval time.Duration
	taskTimeout  time.Duration
	limiter      ratelimit.RateLimiter
	logger       *logrus.Logger

	transport *transport.Client
	submitter *tasks.Submitter
	poller    *tasks.Poller
	uploader  *upload.Uploader
	log       *logrus.Entry
}

// New creates a Client. Without WithAPIKey the key is resolved from the
// WAVESPEED_API_KEY environment variable, then the credentials.toml file.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:      transport.DefaultBaseURL,
		retry:        transport.DefaultRetryPolicy(),
		pollInterval: tasks.DefaultPollInterval,
		taskTimeout:  tasks.DefaultTotalTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.apiKey == "" {
		key, err := credentials.Resolve("wavespeed")
		if err != nil {
			return nil, errors.Wrap(err, "resolving API key")
		}
		c.apiKey = key
	}
	if c.apiKey == "" {
		return nil, errors.Unauthorized(
			"no API key configured: pass WithAPIKey, set WAVESPEED_API_KEY, or add a [wavespeed] section to credentials.toml")
	}

	c.transport = transport.New(transport.Config{
		BaseURL: c.baseURL,
		APIKey:  c.apiKey,
		Retry:   c.retry,
		Logger:  c.logger,
	})
	c.submitter = tasks.NewSubmitter(c.transport, c.logger)
	c.poller = tasks.NewPoller(c.transport, c.logger)
	c.uploader = upload.NewUploader(c.transport, c.logger)
	c.log = logging.Component(logging.OrNop(c.logger), "client")
	return c, nil
}

// Run submits the request and blocks until the task reaches a terminal
// state, honoring the configured poll interval and task timeout.
func (c *Client) Run(ctx context.Context, contract requests.Contract) (*tasks.Result, error) {
	handle, err := c.Submit(ctx, contract)
	if err != nil {
		return nil, err
	}
	return c.WaitFor(ctx, handle)
}

// Submit sends the request and returns a handle for the created task
// without waiting for it to finish.
func (c *Client) Submit(ctx context.Context, contract requests.Contract) (*tasks.Handle, error) {
	if err := c.acquire(ctx); err != nil {
		return nil, err
	}
	defer c.release()

	handle, err := c.submitter.Submit(ctx, contract)
	if err != nil {
		c.observeRateLimit(err)
		return nil, err
	}
	return handle, nil
}

// WaitFor polls the task behind the handle until it reaches a terminal
// state. Polling is never rate limited.
func (c *Client) WaitFor(ctx context.Context, handle *tasks.Handle) (*tasks.Result, error) {
	return c.poller.WaitFor(ctx, handle, c.pollInterval, c.taskTimeout)
}

// UploadImage encodes the image as PNG and uploads it, returning the
// hosted URL usable as a model input.
func (c *Client) UploadImage(ctx context.Context, img image.Image) (string, error) {
	data, err := media.EncodePNG(img)
	if err != nil {
		return "", err
	}
	return c.upload(ctx, data, upload.KindImage)
}

// UploadImages uploads the images one by one and returns their URLs in
// input order. The first failure aborts the batch.
func (c *Client) UploadImages(ctx context.Context, imgs []image.Image) ([]string, error) {
	urls := make([]string, 0, len(imgs))
	for i, img := range imgs {
		url, err := c.UploadImage(ctx, img)
		if err != nil {
			return nil, errors.Wrapf(err, "uploading image %d of %d", i+1, len(imgs))
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// UploadFile uploads a local media file, picking the upload type from
// the file extension.
func (c *Client) UploadFile(ctx context.Context, path string) (string, error) {
	if err := c.acquire(ctx); err != nil {
		return "", err
	}
	defer c.release()

	url, err := c.uploader.UploadPath(ctx, path)
	if err != nil {
		c.observeRateLimit(err)
		return "", err
	}
	return url, nil
}

// Close releases idle connections. A limiter passed in via WithLimiter
// is left open for its owner.
func (c *Client) Close() {
	c.transport.Close()
}

func (c *Client) upload(ctx context.Context, data []byte, kind upload.Kind) (string, error) {
	if err := c.acquire(ctx); err != nil {
		return "", err
	}
	defer c.release()

	url, err := c.uploader.Upload(ctx, data, kind)
	if err != nil {
		c.observeRateLimit(err)
		return "", err
	}
	return url, nil
}

func (c *Client) acquire(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Acquire(ctx, limiterResource); err != nil {
		return errors.Wrap(err, "acquiring rate limit token")
	}
	return nil
}

func (c *Client) release() {
	if c.limiter != nil {
		c.limiter.Release(limiterResource)
	}
}

// observeRateLimit shrinks local limiter capacity after the service
// answered 429, so later calls back off before hitting the wire.
func (c *Client) observeRateLimit(err error) {
	if c.limiter == nil || !errors.Is(err, errors.ErrCodeRateLimit) {
		return
	}
	c.limiter.ReduceCapacity(limiterResource, "received 429 response")
	c.log.WithField("resource", limiterResource).Debug("reduced limiter capacity")
}
