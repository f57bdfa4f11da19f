package requests

import (
	"fmt"

	"github.com/vinayprograms/wavekit/errors"
)

// Seedream dimension and batch limits.
const (
	seedreamMinDimension = 1
	seedreamMaxDimension = 4096
	seedreamDefaultSize  = 2048
	seedreamMaxImages    = 10
	sequentialMaxImages  = 15
)

// SeedreamV4 generates images from a text prompt.
type SeedreamV4 struct {
	Prompt string
	Width  int
	Height int
}

// NewSeedreamV4 returns a text-to-image request at the default
// 2048x2048 resolution.
func NewSeedreamV4(prompt string) *SeedreamV4 {
	return &SeedreamV4{
		Prompt: prompt,
		Width:  seedreamDefaultSize,
		Height: seedreamDefaultSize,
	}
}

func (r *SeedreamV4) Path() string { return "/api/v3/bytedance/seedream-v4" }

func (r *SeedreamV4) Fields() map[string]any {
	return map[string]any{
		"prompt": r.Prompt,
		"size":   fmt.Sprintf("%d*%d", r.Width, r.Height),
	}
}

func (r *SeedreamV4) Required() []string { return []string{"prompt"} }

func (r *SeedreamV4) Order() []string { return []string{"prompt", "size"} }

func (r *SeedreamV4) Validate() error {
	if r.Width < seedreamMinDimension || r.Width > seedreamMaxDimension {
		return errors.InvalidInput(fmt.Sprintf("width must be between %d and %d, got %d",
			seedreamMinDimension, seedreamMaxDimension, r.Width))
	}
	if r.Height < seedreamMinDimension || r.Height > seedreamMaxDimension {
		return errors.InvalidInput(fmt.Sprintf("height must be between %d and %d, got %d",
			seedreamMinDimension, seedreamMaxDimension, r.Height))
	}
	return nil
}

// SeedreamV4Edit edits one or more source images under a text prompt.
type SeedreamV4Edit struct {
	Prompt             string
	Images             []string
	Size               string
	EnableSyncMode     bool
	EnableBase64Output bool
}

// NewSeedreamV4Edit returns an edit request over uploaded image URLs.
func NewSeedreamV4Edit(prompt string, images []string) *SeedreamV4Edit {
	return &SeedreamV4Edit{
		Prompt: prompt,
		Images: images,
		Size:   fmt.Sprintf("%d*%d", seedreamDefaultSize, seedreamDefaultSize),
	}
}

func (r *SeedreamV4Edit) Path() string { return "/api/v3/bytedance/seedream-v4/edit" }

func (r *SeedreamV4Edit) Fields() map[string]any {
	return map[string]any{
		"prompt":               r.Prompt,
		"images":               r.Images,
		"size":                 r.Size,
		"enable_sync_mode":     r.EnableSyncMode,
		"enable_base64_output": r.EnableBase64Output,
	}
}

func (r *SeedreamV4Edit) Required() []string { return []string{"prompt", "images"} }

func (r *SeedreamV4Edit) Order() []string {
	return []string{"prompt", "images", "size", "enable_sync_mode", "enable_base64_output"}
}

func (r *SeedreamV4Edit) Validate() error {
	if len(r.Images) > seedreamMaxImages {
		return errors.InvalidInput(fmt.Sprintf("at most %d images allowed, got %d",
			seedreamMaxImages, len(r.Images)))
	}
	return nil
}

// SeedreamV4Sequential generates a connected series of images from one
// prompt.
type SeedreamV4Sequential struct {
	Prompt             string
	MaxImages          int
	Size               string
	EnableSyncMode     bool
	EnableBase64Output bool
}

// NewSeedreamV4Sequential returns a sequential generation request.
func NewSeedreamV4Sequential(prompt string, maxImages int) *SeedreamV4Sequential {
	return &SeedreamV4Sequential{
		Prompt:    prompt,
		MaxImages: maxImages,
		Size:      fmt.Sprintf("%d*%d", seedreamDefaultSize, seedreamDefaultSize),
	}
}

func (r *SeedreamV4Sequential) Path() string {
	return "/api/v3/bytedance/seedream-v4/sequential"
}

func (r *SeedreamV4Sequential) Fields() map[string]any {
	return map[string]any{
		"prompt":               r.Prompt,
		"max_images":           r.MaxImages,
		"size":                 r.Size,
		"enable_sync_mode":     r.EnableSyncMode,
		"enable_base64_output": r.EnableBase64Output,
	}
}

func (r *SeedreamV4Sequential) Required() []string { return []string{"prompt", "max_images"} }

func (r *SeedreamV4Sequential) Order() []string {
	return []string{"prompt", "max_images", "size", "enable_sync_mode", "enable_base64_output"}
}

func (r *SeedreamV4Sequential) Validate() error {
	if r.MaxImages < 1 || r.MaxImages > sequentialMaxImages {
		return errors.InvalidInput(fmt.Sprintf("max_images must be between 1 and %d, got %d",
			sequentialMaxImages, r.MaxImages))
	}
	return nil
}

// SeedreamV4EditSequential edits source images into a connected series.
type SeedreamV4EditSequential struct {
	Prompt             string
	MaxImages          int
	Images             []string
	Size               string
	EnableSyncMode     bool
	EnableBase64Output bool
}

// NewSeedreamV4EditSequential returns a sequential edit request over
// uploaded image URLs.
func NewSeedreamV4EditSequential(prompt string, images []string, maxImages int) *SeedreamV4EditSequential {
	return &SeedreamV4EditSequential{
		Prompt:    prompt,
		MaxImages: maxImages,
		Images:    images,
		Size:      fmt.Sprintf("%d*%d", seedreamDefaultSize, seedreamDefaultSize),
	}
}

func (r *SeedreamV4EditSequential) Path() string {
	return "/api/v3/bytedance/seedream-v4/edit-sequential"
}

func (r *SeedreamV4EditSequential) Fields() map[string]any {
	return map[string]any{
		"prompt":               r.Prompt,
		"max_images":           r.MaxImages,
		"images":               r.Images,
		"size":                 r.Size,
		"enable_sync_mode":     r.EnableSyncMode,
		"enable_base64_output": r.EnableBase64Output,
	}
}

func (r *SeedreamV4EditSequential) Required() []string { return []string{"prompt", "max_images"} }

func (r *SeedreamV4EditSequential) Order() []string {
	return []string{"prompt", "max_images", "images", "size", "enable_sync_mode", "enable_base64_output"}
}

func (r *SeedreamV4EditSequential) Validate() error {
	if r.MaxImages < 1 || r.MaxImages > sequentialMaxImages {
		return errors.InvalidInput(fmt.Sprintf("max_images must be between 1 and %d, got %d",
			sequentialMaxImages, r.MaxImages))
	}
	if len(r.Images) > seedreamMaxImages {
		return errors.InvalidInput(fmt.Sprintf("at most %d images allowed, got %d",
			seedreamMaxImages, len(r.Images)))
	}
	return nil
}
