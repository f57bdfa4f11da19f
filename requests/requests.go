package requests

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/sjson"

	"github.com/vinayprograms/wavekit/errors"
)

// Contract describes one generation endpoint: where to post, which
// fields to send and in what order, and what must be present.
type Contract interface {
	// Path is the endpoint path under the API base URL.
	Path() string

	// Fields maps wire field names to their values.
	Fields() map[string]any

	// Required lists fields that must survive empty-value scrubbing.
	Required() []string

	// Order is the canonical field order for the wire body.
	Order() []string

	// Validate checks field ranges before payload construction.
	Validate() error
}

// BuildPayload serializes a contract into its JSON wire body. Fields
// whose values serialize to null, "", [] or {} are dropped so the
// service fills in its own defaults. Field order follows Order().
func BuildPayload(c Contract) ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	fields := c.Fields()
	payload := []byte("{}")
	present := make(map[string]bool, len(fields))

	for _, name := range c.Order() {
		value, ok := fields[name]
		if !ok {
			continue
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, errors.Internal(fmt.Sprintf("marshaling field %s", name), errors.WithCause(err))
		}
		if emptyValue(raw) {
			continue
		}
		payload, err = sjson.SetRawBytes(payload, name, raw)
		if err != nil {
			return nil, errors.Internal(fmt.Sprintf("setting field %s", name), errors.WithCause(err))
		}
		present[name] = true
	}

	for _, name := range c.Required() {
		if !present[name] {
			return nil, errors.InvalidInput(fmt.Sprintf("missing required field: %s", name))
		}
	}
	return payload, nil
}

// emptyValue reports whether a serialized value carries no information.
func emptyValue(raw []byte) bool {
	switch string(raw) {
	case "null", `""`, "[]", "{}":
		return true
	}
	return false
}
