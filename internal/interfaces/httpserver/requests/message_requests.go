package requests

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"coparent-api/internal/domain/message"
	"coparent-api/internal/utils/optional"
)

// CreateMessageRequest logs a new message. Content and type are checked again by the domain.
type CreateMessageRequest struct {
	Content       string     `json:"content" validate:"required"`
	MessageType   string     `json:"messageType" validate:"omitempty,max=32"`
	ReceiverID    *string    `json:"receiverId" validate:"omitempty,max=64"`
	ScreenshotURL *string    `json:"screenshotUrl" validate:"omitempty,max=2048"`
	OCRText       *string    `json:"ocrText"`
	OCRConfidence *float64   `json:"ocrConfidence" validate:"omitempty,gte=0,lte=100"`
	Platform      *string    `json:"platform" validate:"omitempty,max=100"`
	ExternalID    *string    `json:"externalId" validate:"omitempty,max=255"`
	Timestamp     *time.Time `json:"timestamp"`
}

func (r CreateMessageRequest) ToParams() message.CreateParams {
	return message.CreateParams{
		Content:       r.Content,
		MessageType:   r.MessageType,
		ReceiverID:    r.ReceiverID,
		ScreenshotURL: r.ScreenshotURL,
		OCRText:       r.OCRText,
		OCRConfidence: r.OCRConfidence,
		Platform:      r.Platform,
		ExternalID:    r.ExternalID,
		Timestamp:     r.Timestamp,
	}
}

// UpdateMessageRequest is a partial update. A key that is absent from the body leaves the field
// untouched; null or "" clears an optional text field.
type UpdateMessageRequest struct {
	Content       optional.Value[string]  `json:"content"`
	MessageType   optional.Value[string]  `json:"messageType"`
	ScreenshotURL optional.Value[string]  `json:"screenshotUrl"`
	OCRText       optional.Value[string]  `json:"ocrText"`
	OCRConfidence optional.Value[float64] `json:"ocrConfidence"`
	Platform      optional.Value[string]  `json:"platform"`
}

func (r UpdateMessageRequest) ToParams() message.UpdateParams {
	return message.UpdateParams{
		Content:       r.Content,
		MessageType:   r.MessageType,
		ScreenshotURL: r.ScreenshotURL,
		OCRText:       r.OCRText,
		OCRConfidence: r.OCRConfidence,
		Platform:      r.Platform,
	}
}

// AnalyzeRequest triggers an analysis run.
type AnalyzeRequest struct {
	MessageID string  `json:"messageId" validate:"required"`
	Provider  *string `json:"provider" validate:"omitempty,max=32"`
}

// ParseListFilter reads page, limit, platform, messageType, dateFrom, dateTo and hasAnalysis.
func ParseListFilter(c *gin.Context) (*message.ListFilter, error) {
	page, limit, err := parsePaging(c, message.DefaultListPageSize)
	if err != nil {
		return nil, err
	}
	filter := message.NewListFilter().WithPage(page, limit)

	if platform := strings.TrimSpace(c.Query("platform")); platform != "" {
		filter.WithPlatform(platform)
	}

	if raw := strings.TrimSpace(c.Query("messageType")); raw != "" {
		t, ok := message.ParseType(raw)
		if !ok {
			return nil, fmt.Errorf("messageType must be one of TEXT, IMAGE, SCREENSHOT, EMAIL")
		}
		filter.WithMessageType(t)
	}

	from, err := parseDate(c.Query("dateFrom"), false)
	if err != nil {
		return nil, fmt.Errorf("dateFrom: %w", err)
	}
	to, err := parseDate(c.Query("dateTo"), true)
	if err != nil {
		return nil, fmt.Errorf("dateTo: %w", err)
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, fmt.Errorf("dateFrom must not be after dateTo")
	}
	filter.WithDateRange(from, to)

	switch raw := strings.ToLower(strings.TrimSpace(c.Query("hasAnalysis"))); raw {
	case "":
	case "true":
		filter.WithHasAnalysis(true)
	case "false":
		filter.WithHasAnalysis(false)
	default:
		return nil, fmt.Errorf("hasAnalysis must be true or false")
	}

	return filter, nil
}

// ParseSearch reads q, page and limit. An empty q is reported separately so the handler can reject it.
func ParseSearch(c *gin.Context) (query string, page, limit int, err error) {
	page, limit, err = parsePaging(c, message.DefaultSearchPageSize)
	if err != nil {
		return "", 0, 0, err
	}
	return strings.TrimSpace(c.Query("q")), page, limit, nil
}

func parsePaging(c *gin.Context, defaultLimit int) (int, int, error) {
	page := 1
	if raw := strings.TrimSpace(c.Query("page")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return 0, 0, fmt.Errorf("page must be a positive integer")
		}
		page = v
	}

	limit := defaultLimit
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > message.MaxPageSize {
			return 0, 0, fmt.Errorf("limit must be between 1 and %d", message.MaxPageSize)
		}
		limit = v
	}
	return page, limit, nil
}

// parseDate accepts RFC 3339 or YYYY-MM-DD. A bare date used as an upper bound covers the whole day.
func parseDate(raw string, endOfDay bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, fmt.Errorf("expected RFC 3339 timestamp or YYYY-MM-DD, got %q", raw)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
