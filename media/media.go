// Package media holds the image codec and output download helpers
// used around generation calls.
package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/vinayprograms/wavekit/errors"
)

// DefaultJPEGQuality is used when EncodeJPEG gets a non-positive
// quality.
const DefaultJPEGQuality = 95

// downloadTimeout bounds one output fetch.
const downloadTimeout = 60 * time.Second

// EncodePNG serializes an image as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Internal("encoding PNG", errors.WithCause(err))
	}
	return buf.Bytes(), nil
}

// EncodeJPEG serializes an image as JPEG at the given quality.
// Non-positive quality uses DefaultJPEGQuality.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	if quality <= 0 {
		quality = DefaultJPEGQuality
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, errors.Internal("encoding JPEG", errors.WithCause(err))
	}
	return buf.Bytes(), nil
}

// Downloader fetches generated outputs from their hosted URLs.
type Downloader struct {
	http *http.Client
}

// NewDownloader creates a downloader with a 60 second total timeout
// per fetch.
func NewDownloader() *Downloader {
	return &Downloader{
		http: &http.Client{Timeout: downloadTimeout},
	}
}

// Fetch retrieves the bytes behind an output URL.
func (d *Downloader) Fetch(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errors.InvalidInput(fmt.Sprintf("invalid output URL: %s", target))
	}

	resp, err := d.http.Do(req)
	if err != nil {
		return nil, errors.Transport(fmt.Sprintf("downloading %s", target), errors.WithCause(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Transport(fmt.Sprintf("download failed with status %d", resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Transport(fmt.Sprintf("downloading %s", target), errors.WithCause(err))
	}
	return data, nil
}

// Extension returns the file extension of an output URL, or fallback
// when the URL carries none or an implausible one.
func Extension(target, fallback string) string {
	u, err := url.Parse(target)
	if err != nil {
		return fallback
	}
	ext := path.Ext(u.Path)
	if ext == "" || ext == "." || len(ext) > 5 {
		return fallback
	}
	return ext
}
