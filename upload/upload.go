// Package upload sends local media to WaveSpeed and returns hosted
// URLs for use as generation inputs.
package upload

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/vinayprograms/wavekit/errors"
	"github.com/vinayprograms/wavekit/logging"
	"github.com/vinayprograms/wavekit/transport"
)

// uploadEndpoint is the binary media upload path.
const uploadEndpoint = "/api/v2/media/upload/binary"

// Kind is the media class of an upload.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
	KindAudio Kind = "audio"
)

// form returns the multipart filename and content type for the kind.
// The service reads the media class off the extension, so uploads use
// canonical names regardless of the source file.
func (k Kind) form() (filename, contentType string, err error) {
	switch k {
	case KindImage:
		return "image.png", "image/png", nil
	case KindVideo:
		return "video.mp4", "video/mp4", nil
	case KindAudio:
		return "audio.mp3", "audio/mpeg", nil
	}
	return "", "", errors.InvalidInput(fmt.Sprintf("invalid file type: %s", k))
}

// Uploader sends media bytes through the shared transport.
type Uploader struct {
	client *transport.Client
	log    *logrus.Entry
}

// NewUploader creates an uploader over the shared transport.
func NewUploader(client *transport.Client, logger *logrus.Logger) *Uploader {
	return &Uploader{
		client: client,
		log:    logging.Component(logging.OrNop(logger), "upload"),
	}
}

// Upload sends raw media bytes and returns the hosted download URL.
func (u *Uploader) Upload(ctx context.Context, data []byte, kind Kind) (string, error) {
	filename, contentType, err := kind.form()
	if err != nil {
		return "", err
	}

	resp, err := u.client.PostMultipart(ctx, uploadEndpoint, "file", filename, contentType, data)
	if err != nil {
		return "", err
	}

	url := gjson.GetBytes(resp, "download_url").String()
	if url == "" {
		return "", errors.Upload("no download URL in response")
	}

	u.log.WithFields(logrus.Fields{
		"kind":  string(kind),
		"bytes": len(data),
	}).Info("media uploaded")

	return url, nil
}

// UploadPath reads a local file, infers its media kind from the
// extension and uploads it.
func (u *Uploader) UploadPath(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.InvalidInput(fmt.Sprintf("file not found: %s", path))
		}
		return "", errors.Internal(fmt.Sprintf("reading %s", path), errors.WithCause(err))
	}

	kind, err := kindFromExtension(filepath.Ext(path))
	if err != nil {
		return "", err
	}
	return u.Upload(ctx, data, kind)
}

// kindFromExtension classifies a filename extension.
func kindFromExtension(ext string) (Kind, error) {
	switch strings.ToLower(ext) {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp":
		return KindImage, nil
	case ".mp4", ".mov", ".avi", ".webm", ".mkv":
		return KindVideo, nil
	case ".mp3", ".wav", ".ogg", ".m4a", ".flac":
		return KindAudio, nil
	}
	return "", errors.InvalidInput(fmt.Sprintf("unsupported file extension: %s", ext))
}
