package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spec-kit/event-ticketing/internal/config"
	apperrors "github.com/spec-kit/event-ticketing/pkg/util"
)

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9.\-_]`)

// UploadStore writes payment-proof images to local disk and returns a
// public reference path.
type UploadStore struct {
	dir     string
	maxSize int64
}

// NewUploadStore ensures the upload directory exists.
func NewUploadStore(cfg config.UploadsConfig) (*UploadStore, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &UploadStore{dir: cfg.Dir, maxSize: cfg.MaxSizeBytes}, nil
}

// SaveImage validates and persists an uploaded image, returning its
// reference path under /uploads.
func (s *UploadStore) SaveImage(header *multipart.FileHeader) (string, error) {
	if s.maxSize > 0 && header.Size > s.maxSize {
		return "", apperrors.NewValidationError("file too large",
			map[string]any{"max_bytes": s.maxSize})
	}
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", apperrors.NewValidationError("only image files are allowed",
			map[string]any{"content_type": contentType})
	}

	safeName := unsafeNameChars.ReplaceAllString(filepath.Base(header.Filename), "_")
	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), safeName)

	src, err := header.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return "/uploads/" + name, nil
}
