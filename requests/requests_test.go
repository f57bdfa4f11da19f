package requests

import (
	"strings"
	"testing"

	"github.com/vinayprograms/wavekit/errors"
)

// stubContract exercises BuildPayload without a real model.
type stubContract struct {
	fields   map[string]any
	required []string
	order    []string
	err      error
}

func (s *stubContract) Path() string           { return "/api/v3/stub" }
func (s *stubContract) Fields() map[string]any { return s.fields }
func (s *stubContract) Required() []string     { return s.required }
func (s *stubContract) Order() []string        { return s.order }
func (s *stubContract) Validate() error        { return s.err }

// ============================================================================
// 1. Payload construction
// ============================================================================

func TestBuildPayloadDropsEmptyValues(t *testing.T) {
	c := &stubContract{
		fields: map[string]any{
			"nil_value":    nil,
			"empty_string": "",
			"empty_array":  []string{},
			"empty_object": map[string]string{},
			"kept_string":  "x",
			"kept_zero":    0,
			"kept_false":   false,
		},
		order: []string{"nil_value", "empty_string", "empty_array", "empty_object", "kept_string", "kept_zero", "kept_false"},
	}

	payload, err := BuildPayload(c)
	if err != nil {
		t.Fatalf("BuildPayload() error: %v", err)
	}

	want := `{"kept_string":"x","kept_zero":0,"kept_false":false}`
	if string(payload) != want {
		t.Errorf("payload = %s, want %s", payload, want)
	}
}

func TestBuildPayloadPreservesOrder(t *testing.T) {
	c := &stubContract{
		fields: map[string]any{"z": 1, "a": 2, "m": 3},
		order:  []string{"z", "a", "m"},
	}

	payload, err := BuildPayload(c)
	if err != nil {
		t.Fatalf("BuildPayload() error: %v", err)
	}

	want := `{"z":1,"a":2,"m":3}`
	if string(payload) != want {
		t.Errorf("payload = %s, want %s", payload, want)
	}
}

func TestBuildPayloadMissingRequired(t *testing.T) {
	c := &stubContract{
		fields:   map[string]any{"prompt": ""},
		required: []string{"prompt"},
		order:    []string{"prompt"},
	}

	_, err := BuildPayload(c)
	if err == nil {
		t.Fatal("expected error for scrubbed required field")
	}
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("code = %v, want %v", errors.Code(err), errors.ErrCodeInvalidInput)
	}
	if !strings.Contains(err.Error(), "prompt") {
		t.Errorf("message should name the missing field, got %q", err.Error())
	}
}

func TestBuildPayloadValidateFailure(t *testing.T) {
	c := &stubContract{
		fields: map[string]any{"prompt": "p"},
		order:  []string{"prompt"},
		err:    errors.InvalidInput("width out of range"),
	}

	if _, err := BuildPayload(c); err == nil {
		t.Fatal("expected validation error to propagate")
	}
}

func TestEmptyValue(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"null", true},
		{`""`, true},
		{"[]", true},
		{"{}", true},
		{"0", false},
		{"false", false},
		{`"x"`, false},
		{`[1]`, false},
		{`{"a":1}`, false},
		{"-1", false},
	}

	for _, tt := range tests {
		if got := emptyValue([]byte(tt.raw)); got != tt.want {
			t.Errorf("emptyValue(%s) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

// ============================================================================
// 2. Seedream models
// ============================================================================

func TestSeedreamV4Defaults(t *testing.T) {
	payload, err := BuildPayload(NewSeedreamV4("a cat"))
	if err != nil {
		t.Fatalf("BuildPayload() error: %v", err)
	}

	want := `{"prompt":"a cat","size":"2048*2048"}`
	if string(payload) != want {
		t.Errorf("payload = %s, want %s", payload, want)
	}
}

func TestSeedreamV4CustomSize(t *testing.T) {
	r := NewSeedreamV4("a cat")
	r.Width = 1024
	r.Height = 768

	payload, err := BuildPayload(r)
	if err != nil {
		t.Fatalf("BuildPayload() error: %v", err)
	}
	if want := `{"prompt":"a cat","size":"1024*768"}`; string(payload) != want {
		t.Errorf("payload = %s, want %s", payload, want)
	}
}

func TestSeedreamV4DimensionValidation(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
		ok     bool
	}{
		{"defaults", 2048, 2048, true},
		{"min", 1, 1, true},
		{"max", 4096, 4096, true},
		{"zero width", 0, 2048, false},
		{"oversize width", 4097, 2048, false},
		{"zero height", 2048, 0, false},
		{"oversize height", 2048, 5000, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewSeedreamV4("p")
			r.Width = tt.width
			r.Height = tt.height

			err := r.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() error: %v", err)
			}
			if !tt.ok {
				if err == nil {
					t.Fatal("expected validation error")
				}
				if !errors.Is(err, errors.ErrCodeInvalidInput) {
					t.Errorf("code = %v, want %v", errors.Code(err), errors.ErrCodeInvalidInput)
				}
			}
		})
	}
}

func TestSeedreamV4EditPayload(t *testing.T) {
	payload, err := BuildPayload(NewSeedreamV4Edit("make it night", []string{"https://cdn/a.png"}))
	if err != nil {
		t.Fatalf("BuildPayload() error: %v", err)
	}

	want := `{"prompt":"make it night","images":["https://cdn/a.png"],"size":"2048*2048","enable_sync_mode":false,"enable_base64_output":false}`
	if string(payload) != want {
		t.Errorf("payload = %s, want %s", payload, want)
	}
}

func TestSeedreamV4EditRequiresImages(t *testing.T) {
	_, err := BuildPayload(NewSeedreamV4Edit("p", nil))
	if err == nil {
		t.Fatal("expected error for missing images")
	}
	if !strings.Contains(err.Error(), "images") {
		t.Errorf("message should name images, got %q", err.Error())
	}
}

func TestSeedreamV4EditTooManyImages(t *testing.T) {
	images := make([]string, 11)
	for i := range images {
		images[i] = "https://cdn/img.png"
	}

	err := NewSeedreamV4Edit("p", images).Validate()
	if err == nil {
		t.Fatal("expected error for more than 10 images")
	}
	if !strings.Contains(err.Error(), "10") {
		t.Errorf("message should state the limit, got %q", err.Error())
	}
}

func TestSeedreamV4SequentialRange(t *testing.T) {
	if err := NewSeedreamV4Sequential("p", 0).Validate(); err == nil {
		t.Error("expected error for max_images 0")
	}
	if err := NewSeedreamV4Sequential("p", 16).Validate(); err == nil {
		t.Error("expected error for max_images 16")
	}

	payload, err := BuildPayload(NewSeedreamV4Sequential("a story", 5))
	if err != nil {
		t.Fatalf("BuildPayload() error: %v", err)
	}
	want := `{"prompt":"a story","max_images":5,"size":"2048*2048","enable_sync_mode":false,"enable_base64_output":false}`
	if string(payload) != want {
		t.Errorf("payload = %s, want %s", payload, want)
	}
}

func TestSeedreamV4EditSequentialPayload(t *testing.T) {
	payload, err := BuildPayload(NewSeedreamV4EditSequential("variations", []string{"https://cdn/a.png"}, 3))
	if err != nil {
		t.Fatalf("BuildPayload() error: %v", err)
	}

	want := `{"prompt":"variations","max_images":3,"images":["https://cdn/a.png"],"size":"2048*2048","enable_sync_mode":false,"enable_base64_output":false}`
	if string(payload) != want {
		t.Errorf("payload = %s, want %s", payload, want)
	}
}

// ============================================================================
// 3. Qwen models
// ============================================================================

func TestQwenTextToImageDefaults(t *testing.T) {
	payload, err := BuildPayload(NewQwenImageTextToImage("a fox"))
	if err != nil {
		t.Fatalf("BuildPayload() error: %v", err)
	}

	want := `{"prompt":"a fox","size":"1024*1024","seed":-1,"output_format":"jpeg","enable_sync_mode":false,"enable_base64_output":false}`
	if string(payload) != want {
		t.Errorf("payload = %s, want %s", payload, want)
	}
}

func TestQwenSeedValidation(t *testing.T) {
	tests := []struct {
		seed int64
		ok   bool
	}{
		{-1, true},
		{0, true},
		{42, true},
		{2147483647, true},
		{-2, false},
		{2147483648, false},
	}

	for _, tt := range tests {
		r := NewQwenImageTextToImage("p")
		r.Seed = tt.seed

		err := r.Validate()
		if tt.ok && err != nil {
			t.Errorf("Validate() with seed %d: %v", tt.seed, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("expected error for seed %d", tt.seed)
		}
	}
}

func TestQwenEditOmitsUnsetSize(t *testing.T) {
	payload, err := BuildPayload(NewQwenImageEdit("sharpen", "https://cdn/a.jpg"))
	if err != nil {
		t.Fatalf("BuildPayload() error: %v", err)
	}

	want := `{"prompt":"sharpen","image":"https://cdn/a.jpg","seed":-1,"output_format":"jpeg","enable_base64_output":false,"enable_sync_mode":false}`
	if string(payload) != want {
		t.Errorf("payload = %s, want %s", payload, want)
	}
}

func TestQwenEditPlusLimits(t *testing.T) {
	four := []string{"a", "b", "c", "d"}
	if err := NewQwenImageEditPlus("p", four).Validate(); err == nil {
		t.Error("expected error for more than 3 images")
	}

	payload, err := BuildPayload(NewQwenImageEditPlus("merge", []string{"https://cdn/a.jpg", "https://cdn/b.jpg"}))
	if err != nil {
		t.Fatalf("BuildPayload() error: %v", err)
	}
	want := `{"prompt":"merge","images":["https://cdn/a.jpg","https://cdn/b.jpg"],"seed":-1,"output_format":"jpeg","enable_base64_output":false,"enable_sync_mode":false}`
	if string(payload) != want {
		t.Errorf("payload = %s, want %s", payload, want)
	}
}

func TestModelPaths(t *testing.T) {
	tests := []struct {
		name string
		c    Contract
		want string
	}{
		{"seedream", NewSeedreamV4("p"), "/api/v3/bytedance/seedream-v4"},
		{"seedream edit", NewSeedreamV4Edit("p", nil), "/api/v3/bytedance/seedream-v4/edit"},
		{"seedream sequential", NewSeedreamV4Sequential("p", 1), "/api/v3/bytedance/seedream-v4/sequential"},
		{"seedream edit sequential", NewSeedreamV4EditSequential("p", nil, 1), "/api/v3/bytedance/seedream-v4/edit-sequential"},
		{"qwen text to image", NewQwenImageTextToImage("p"), "/api/v3/wavespeed-ai/qwen-image/text-to-image"},
		{"qwen edit", NewQwenImageEdit("p", "u"), "/api/v3/wavespeed-ai/qwen-image/edit"},
		{"qwen edit plus", NewQwenImageEditPlus("p", nil), "/api/v3/wavespeed-ai/qwen-image/edit-plus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Path(); got != tt.want {
				t.Errorf("Path() = %q, want %q", got, tt.want)
			}
		})
	}
}
