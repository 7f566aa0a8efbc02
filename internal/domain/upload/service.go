package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"coparent-api/internal/utils/platformerrors"
)

// Service accepts image uploads.
type Service interface {
	Upload(ctx context.Context, userID uint, filename string, body io.Reader) (*Result, error)
}

// DefaultService implements Service.
type DefaultService struct {
	storage   Storage
	extractor Extractor
	maxBytes  int64
	now       func() time.Time
	log       zerolog.Logger
}

func NewService(storage Storage, extractor Extractor, maxBytes int64, log zerolog.Logger) Service {
	return &DefaultService{
		storage:   storage,
		extractor: extractor,
		maxBytes:  maxBytes,
		now:       time.Now,
		log:       log.With().Str("component", "upload-service").Logger(),
	}
}

// Upload stores the image and runs OCR on it. OCR failures leave ExtractedText empty.
func (s *DefaultService) Upload(ctx context.Context, userID uint, filename string, body io.Reader) (*Result, error) {
	if body == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"file is required", nil, "upload-001")
	}

	data, err := io.ReadAll(io.LimitReader(body, s.maxBytes+1))
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"failed to read uploaded file", err, "upload-002")
	}
	if len(data) == 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"file is required", nil, "upload-001")
	}
	if int64(len(data)) > s.maxBytes {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			fmt.Sprintf("file exceeds the %d byte limit", s.maxBytes), nil, "upload-003")
	}

	detected := mimetype.Detect(data)
	contentType := detected.String()
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	if !allowedImageTypes[contentType] {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"only image uploads are supported, got "+contentType, nil, "upload-004")
	}

	key := objectKey(s.now(), filename, detected.Extension())
	url, err := s.storage.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal,
			"failed to store upload", err, "upload-005")
	}

	result := &Result{
		FileURL:  url,
		MimeType: contentType,
		Size:     int64(len(data)),
	}

	extraction, err := s.extractor.Extract(ctx, data, contentType)
	if err != nil {
		s.log.Warn().Err(err).Uint("user_id", userID).Str("key", key).Msg("text extraction failed")
		return result, nil
	}
	if extraction != nil {
		result.ExtractedText = strings.TrimSpace(extraction.Text)
		result.OCRConfidence = extraction.Confidence
	}
	return result, nil
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// objectKey builds "<unix-millis>-<sanitized-name>".
func objectKey(now time.Time, filename, ext string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" {
		base = ""
	}
	base = strings.Trim(unsafeNameChars.ReplaceAllString(base, "_"), "._")
	if base == "" {
		base = "upload" + ext
	}
	if len(base) > 100 {
		base = base[len(base)-100:]
	}
	return fmt.Sprintf("%d-%s", now.UnixMilli(), base)
}
