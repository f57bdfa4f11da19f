package requests

import (
	"fmt"

	"github.com/vinayprograms/wavekit/errors"
)

// Qwen seed range and defaults. A seed of -1 asks the service to pick
// one.
const (
	QwenRandomSeed = -1

	qwenMaxSeed          = 2147483647
	qwenDefaultSize      = "1024*1024"
	qwenDefaultFormat    = "jpeg"
	qwenEditPlusMaxInput = 3
)

// QwenImageTextToImage generates an image from a text prompt.
type QwenImageTextToImage struct {
	Prompt             string
	Size               string
	Seed               int64
	OutputFormat       string
	EnableSyncMode     bool
	EnableBase64Output bool
}

// NewQwenImageTextToImage returns a text-to-image request with a
// random seed and JPEG output.
func NewQwenImageTextToImage(prompt string) *QwenImageTextToImage {
	return &QwenImageTextToImage{
		Prompt:       prompt,
		Size:         qwenDefaultSize,
		Seed:         QwenRandomSeed,
		OutputFormat: qwenDefaultFormat,
	}
}

func (r *QwenImageTextToImage) Path() string {
	return "/api/v3/wavespeed-ai/qwen-image/text-to-image"
}

func (r *QwenImageTextToImage) Fields() map[string]any {
	return map[string]any{
		"prompt":               r.Prompt,
		"size":                 r.Size,
		"seed":                 r.Seed,
		"output_format":        r.OutputFormat,
		"enable_sync_mode":     r.EnableSyncMode,
		"enable_base64_output": r.EnableBase64Output,
	}
}

func (r *QwenImageTextToImage) Required() []string { return []string{"prompt"} }

func (r *QwenImageTextToImage) Order() []string {
	return []string{"prompt", "size", "seed", "output_format", "enable_sync_mode", "enable_base64_output"}
}

func (r *QwenImageTextToImage) Validate() error {
	return validateSeed(r.Seed)
}

// QwenImageEdit edits a single source image under a text prompt.
type QwenImageEdit struct {
	Prompt             string
	Image              string
	Size               string
	Seed               int64
	OutputFormat       string
	EnableSyncMode     bool
	EnableBase64Output bool
}

// NewQwenImageEdit returns an edit request over one uploaded image
// URL. Size is left unset so the service keeps the source dimensions.
func NewQwenImageEdit(prompt, image string) *QwenImageEdit {
	return &QwenImageEdit{
		Prompt:       prompt,
		Image:        image,
		Seed:         QwenRandomSeed,
		OutputFormat: qwenDefaultFormat,
	}
}

func (r *QwenImageEdit) Path() string { return "/api/v3/wavespeed-ai/qwen-image/edit" }

func (r *QwenImageEdit) Fields() map[string]any {
	return map[string]any{
		"prompt":               r.Prompt,
		"image":                r.Image,
		"size":                 r.Size,
		"seed":                 r.Seed,
		"output_format":        r.OutputFormat,
		"enable_base64_output": r.EnableBase64Output,
		"enable_sync_mode":     r.EnableSyncMode,
	}
}

func (r *QwenImageEdit) Required() []string { return []string{"prompt", "image"} }

func (r *QwenImageEdit) Order() []string {
	return []string{"prompt", "image", "size", "seed", "output_format", "enable_base64_output", "enable_sync_mode"}
}

func (r *QwenImageEdit) Validate() error {
	return validateSeed(r.Seed)
}

// QwenImageEditPlus edits up to three source images together.
type QwenImageEditPlus struct {
	Prompt             string
	Images             []string
	Size               string
	Seed               int64
	OutputFormat       string
	EnableSyncMode     bool
	EnableBase64Output bool
}

// NewQwenImageEditPlus returns a multi-image edit request. Size is
// left unset so the service keeps the source dimensions.
func NewQwenImageEditPlus(prompt string, images []string) *QwenImageEditPlus {
	return &QwenImageEditPlus{
		Prompt:       prompt,
		Images:       images,
		Seed:         QwenRandomSeed,
		OutputFormat: qwenDefaultFormat,
	}
}

func (r *QwenImageEditPlus) Path() string { return "/api/v3/wavespeed-ai/qwen-image/edit-plus" }

func (r *QwenImageEditPlus) Fields() map[string]any {
	return map[string]any{
		"prompt":               r.Prompt,
		"images":               r.Images,
		"size":                 r.Size,
		"seed":                 r.Seed,
		"output_format":        r.OutputFormat,
		"enable_base64_output": r.EnableBase64Output,
		"enable_sync_mode":     r.EnableSyncMode,
	}
}

func (r *QwenImageEditPlus) Required() []string { return []string{"prompt", "images"} }

func (r *QwenImageEditPlus) Order() []string {
	return []string{"prompt", "images", "size", "seed", "output_format", "enable_base64_output", "enable_sync_mode"}
}

func (r *QwenImageEditPlus) Validate() error {
	if len(r.Images) > qwenEditPlusMaxInput {
		return errors.InvalidInput(fmt.Sprintf("at most %d images allowed, got %d",
			qwenEditPlusMaxInput, len(r.Images)))
	}
	return validateSeed(r.Seed)
}

func validateSeed(seed int64) error {
	if seed < QwenRandomSeed || seed > qwenMaxSeed {
		return errors.InvalidInput(fmt.Sprintf("seed must be between %d and %d, got %d",
			QwenRandomSeed, qwenMaxSeed, seed))
	}
	return nil
}
