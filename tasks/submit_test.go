package tasks

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/vinayprograms/wavekit/errors"
	"github.com/vinayprograms/wavekit/requests"
	"github.com/vinayprograms/wavekit/transport"
)

// seededContract lets tests push seeds past model validation ranges.
type seededContract struct {
	seed int64
}

func (c *seededContract) Path() string { return "/api/v3/test/model" }
func (c *seededContract) Fields() map[string]any {
	return map[string]any{"prompt": "p", "seed": c.seed}
}
func (c *seededContract) Required() []string { return []string{"prompt"} }
func (c *seededContract) Order() []string    { return []string{"prompt", "seed"} }
func (c *seededContract) Validate() error    { return nil }

// ============================================================================
// 1. Payload normalization
// ============================================================================

func TestNormalizePayload(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"appends base64 flag when absent",
			`{"prompt":"p","size":"2048*2048"}`,
			`{"prompt":"p","size":"2048*2048","enable_base64_output":false}`,
		},
		{
			"forces base64 flag off in place",
			`{"a":1,"enable_base64_output":true,"b":2}`,
			`{"a":1,"enable_base64_output":false,"b":2}`,
		},
		{
			"random seed passes through",
			`{"seed":-1}`,
			`{"seed":-1,"enable_base64_output":false}`,
		},
		{
			"in-range seed passes through",
			`{"seed":42}`,
			`{"seed":42,"enable_base64_output":false}`,
		},
		{
			"maximum seed passes through",
			`{"seed":9999999999}`,
			`{"seed":9999999999,"enable_base64_output":false}`,
		},
		{
			"oversized seed reduced modulo maximum",
			`{"seed":20000000000}`,
			`{"seed":2,"enable_base64_output":false}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizePayload([]byte(tt.in))
			if err != nil {
				t.Fatalf("normalizePayload() error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("normalizePayload(%s) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

// ============================================================================
// 2. Submission
// ============================================================================

func TestSubmitReturnsHandle(t *testing.T) {
	var body []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/wavespeed-ai/qwen-image/text-to-image" {
			t.Errorf("path = %s", r.URL.Path)
		}
		body, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"code": 200, "data": {"id": "task-9"}}`))
	}))
	defer server.Close()

	client := transport.New(transport.Config{BaseURL: server.URL, APIKey: "k"})
	s := NewSubmitter(client, nil)

	handle, err := s.Submit(context.Background(), requests.NewQwenImageTextToImage("a fox"))
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}

	if handle.ID != "task-9" {
		t.Errorf("handle.ID = %q, want task-9", handle.ID)
	}
	if handle.Status != StatusSubmitted {
		t.Errorf("handle.Status = %q, want submitted", handle.Status)
	}

	if gjson.GetBytes(body, "enable_base64_output").Bool() {
		t.Error("submitted payload must have base64 output disabled")
	}
	if got := gjson.GetBytes(body, "seed").Int(); got != -1 {
		t.Errorf("submitted seed = %d, want -1 untouched", got)
	}
}

func TestSubmitReducesOversizedSeed(t *testing.T) {
	var body []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"code": 200, "data": {"id": "task-10"}}`))
	}))
	defer server.Close()

	client := transport.New(transport.Config{BaseURL: server.URL, APIKey: "k"})
	s := NewSubmitter(client, nil)

	if _, err := s.Submit(context.Background(), &seededContract{seed: 20000000000}); err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if got := gjson.GetBytes(body, "seed").Int(); got != 2 {
		t.Errorf("submitted seed = %d, want 2", got)
	}
}

func TestSubmitNoTaskID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code": 200, "data": {}}`))
	}))
	defer server.Close()

	client := transport.New(transport.Config{BaseURL: server.URL, APIKey: "k"})
	s := NewSubmitter(client, nil)

	_, err := s.Submit(context.Background(), requests.NewSeedreamV4("p"))
	if err == nil {
		t.Fatal("expected error when response has no task id")
	}
	if !errors.Is(err, errors.ErrCodeSubmission) {
		t.Errorf("code = %v, want %v", errors.Code(err), errors.ErrCodeSubmission)
	}
}

func TestSubmitInvalidContractSkipsRequest(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	client := transport.New(transport.Config{BaseURL: server.URL, APIKey: "k"})
	s := NewSubmitter(client, nil)

	bad := requests.NewQwenImageTextToImage("p")
	bad.Seed = -2

	_, err := s.Submit(context.Background(), bad)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("code = %v, want %v", errors.Code(err), errors.ErrCodeInvalidInput)
	}
	if calls != 0 {
		t.Errorf("calls = %d, want 0 (invalid input must not reach the wire)", calls)
	}
}
