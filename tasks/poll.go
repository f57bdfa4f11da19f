package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vinayprograms/wavekit/errors"
	"github.com/vinayprograms/wavekit/logging"
	"github.com/vinayprograms/wavekit/transport"
)

// Poll loop defaults.
const (
	DefaultPollInterval = 5 * time.Second
	DefaultTotalTimeout = 30 * time.Minute

	pollRequestTimeout = 30 * time.Second
)

// Poller waits for submitted tasks to reach a terminal state.
type Poller struct {
	client *transport.Client
	log    *logrus.Entry

	// now and sleep are swapped out in tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewPoller creates a poller over the shared transport.
func NewPoller(client *transport.Client, logger *logrus.Logger) *Poller {
	return &Poller{
		client: client,
		log:    logging.Component(logging.OrNop(logger), "tasks"),
		now:    time.Now,
		sleep:  sleepContext,
	}
}

// WaitFor polls until the task reaches a terminal state or the
// wall-clock deadline passes. Zero interval and timeout use the
// defaults. The handle's status is updated as the task progresses.
//
// Transport faults during polling are logged and swallowed; the task
// may still be running when the network blinks. Task failure and
// caller cancellation are surfaced immediately.
func (p *Poller) WaitFor(ctx context.Context, handle *Handle, pollInterval, totalTimeout time.Duration) (*Result, error) {
	if handle == nil || handle.ID == "" {
		return nil, errors.InvalidInput("task handle has no id")
	}
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	if totalTimeout <= 0 {
		totalTimeout = DefaultTotalTimeout
	}

	deadline := p.now().Add(totalTimeout)
	path := fmt.Sprintf("/api/v2/predictions/%s/result", handle.ID)

	for {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "polling interrupted")
		}
		if !p.now().Before(deadline) {
			handle.Status = StatusTimedOut
			return nil, errors.TaskTimeout(handle.ID, totalTimeout)
		}

		data, err := p.client.GetJSON(ctx, path, nil, pollRequestTimeout)
		switch {
		case err == nil:
			res := parsePrediction(handle.ID, data)
			p.observe(handle, res.Status)
			if res.Status == StatusCompleted {
				return res, nil
			}
			if res.Status == StatusFailed {
				reason := res.Error
				if reason == "" {
					reason = "unknown reason"
				}
				return nil, errors.TaskFailed(handle.ID, reason)
			}
		case errors.Is(err, errors.ErrCodeCanceled):
			return nil, err
		default:
			p.log.WithError(err).WithField("task", handle.ID).Warn("poll attempt failed")
		}

		if serr := p.sleep(ctx, pollInterval); serr != nil {
			return nil, errors.Wrap(serr, "polling interrupted")
		}
	}
}

// observe records a status change on the handle. Each transition is
// logged once; repeats are silent.
func (p *Poller) observe(handle *Handle, status Status) {
	if status == handle.Status || status == "" {
		return
	}
	p.log.WithFields(logrus.Fields{
		"task": handle.ID,
		"from": handle.Status.String(),
		"to":   status.String(),
	}).Info("task status changed")
	handle.Status = status
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
