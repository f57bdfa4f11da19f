package tasks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/vinayprograms/wavekit/errors"
	"github.com/vinayprograms/wavekit/logging"
	"github.com/vinayprograms/wavekit/requests"
	"github.com/vinayprograms/wavekit/transport"
)

// submitTimeout bounds each submission attempt.
const submitTimeout = 60 * time.Second

// maxServiceSeed is the largest seed the service accepts. Seeds beyond
// it are reduced modulo this value.
const maxServiceSeed = 9999999999

// Submitter posts generation requests and returns task handles.
type Submitter struct {
	client *transport.Client
	log    *logrus.Entry
}

// NewSubmitter creates a submitter over the shared transport.
func NewSubmitter(client *transport.Client, logger *logrus.Logger) *Submitter {
	return &Submitter{
		client: client,
		log:    logging.Component(logging.OrNop(logger), "tasks"),
	}
}

// Submit builds the request payload, applies the universal wire
// normalizations and posts it. On success the returned handle starts
// in the submitted state.
func (s *Submitter) Submit(ctx context.Context, contract requests.Contract) (*Handle, error) {
	payload, err := requests.BuildPayload(contract)
	if err != nil {
		return nil, err
	}
	payload, err = normalizePayload(payload)
	if err != nil {
		return nil, err
	}

	trace := uuid.New().String()
	s.log.WithFields(logrus.Fields{
		"trace": trace,
		"path":  contract.Path(),
	}).Debug("submitting task")

	data, err := s.client.PostJSON(ctx, contract.Path(), payload, submitTimeout)
	if err != nil {
		return nil, err
	}

	id := gjson.GetBytes(data, "id").String()
	if id == "" {
		return nil, errors.Submission("no task id in response")
	}

	s.log.WithFields(logrus.Fields{
		"trace": trace,
		"task":  id,
	}).Info("task submitted")

	return &Handle{ID: id, Status: StatusSubmitted}, nil
}

// normalizePayload applies the normalizations every model shares:
// base64 output is forced off so outputs come back as URLs, and seeds
// beyond the service maximum are reduced into range. A key already in
// the payload keeps its position; a new key is appended.
func normalizePayload(payload []byte) ([]byte, error) {
	payload, err := sjson.SetBytes(payload, "enable_base64_output", false)
	if err != nil {
		return nil, errors.Internal("normalizing payload", errors.WithCause(err))
	}

	if seed := gjson.GetBytes(payload, "seed"); seed.Exists() && seed.Int() > maxServiceSeed {
		payload, err = sjson.SetBytes(payload, "seed", seed.Int()%maxServiceSeed)
		if err != nil {
			return nil, errors.Internal("normalizing payload", errors.WithCause(err))
		}
	}
	return payload, nil
}
