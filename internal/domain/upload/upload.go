// Package upload stores screenshot uploads and extracts their text.
package upload

import (
	"context"
	"io"
)

// Storage persists an uploaded object and returns the URL clients use to fetch it.
type Storage interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
}

// Extraction is the text recognized in an image.
type Extraction struct {
	Text       string
	Confidence *float64 // 0..100
}

// Extractor recognizes text in image bytes.
type Extractor interface {
	Extract(ctx context.Context, data []byte, contentType string) (*Extraction, error)
}

// Result describes a stored upload.
type Result struct {
	FileURL       string
	ExtractedText string
	OCRConfidence *float64
	MimeType      string
	Size          int64
}

var allowedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
	"image/tiff": true,
}
