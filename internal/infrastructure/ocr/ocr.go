// Package ocr extracts text from uploaded screenshots through an OCR sidecar.
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"coparent-api/internal/config"
	"coparent-api/internal/domain/upload"
	"coparent-api/internal/infrastructure/metrics"
)

type recognizeResponse struct {
	Text       string   `json:"text"`
	Confidence *float64 `json:"confidence"`
}

// HTTPExtractor posts images to an OCR service exposing POST /ocr
// (multipart field "file", form field "lang").
type HTTPExtractor struct {
	httpClient *resty.Client
	language   string
	log        zerolog.Logger
}

var _ upload.Extractor = (*HTTPExtractor)(nil)

func NewHTTPExtractor(baseURL, language string, timeout time.Duration, log zerolog.Logger) *HTTPExtractor {
	return &HTTPExtractor{
		httpClient: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(timeout),
		language: language,
		log:      log.With().Str("component", "ocr").Logger(),
	}
}

func (e *HTTPExtractor) Extract(ctx context.Context, data []byte, contentType string) (extraction *upload.Extraction, err error) {
	start := time.Now()
	defer func() { metrics.RecordOCR(time.Since(start).Seconds(), err) }()

	var result recognizeResponse
	resp, err := e.httpClient.R().
		SetContext(ctx).
		SetFileReader("file", "upload", bytes.NewReader(data)).
		SetFormData(map[string]string{"lang": e.language}).
		SetHeader("Accept", "application/json").
		SetResult(&result).
		Post("/ocr")
	if err != nil {
		return nil, fmt.Errorf("ocr request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("ocr service error %d: %s", resp.StatusCode(), resp.String())
	}

	e.log.Debug().
		Int("bytes", len(data)).
		Str("content_type", contentType).
		Int("chars", len(result.Text)).
		Msg("text extracted")

	return &upload.Extraction{
		Text:       strings.TrimSpace(result.Text),
		Confidence: result.Confidence,
	}, nil
}

// Disabled is used when no OCR service is configured; it always returns empty text.
type Disabled struct{}

var _ upload.Extractor = Disabled{}

func (Disabled) Extract(ctx context.Context, data []byte, contentType string) (*upload.Extraction, error) {
	return &upload.Extraction{}, nil
}

// New returns the HTTP extractor when OCR_SERVICE_URL is set.
func New(cfg *config.Config, log zerolog.Logger) upload.Extractor {
	if strings.TrimSpace(cfg.OCRServiceURL) == "" {
		log.Info().Msg("OCR_SERVICE_URL is not set; uploaded images will not be scanned for text")
		return Disabled{}
	}
	return NewHTTPExtractor(cfg.OCRServiceURL, cfg.OCRLanguage, cfg.OCRTimeout, log)
}
