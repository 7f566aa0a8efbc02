package message

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"coparent-api/internal/domain/user"
	"coparent-api/internal/utils/optional"
	"coparent-api/internal/utils/platformerrors"
)

// Service defines message business logic. Every operation takes the acting user explicitly.
type Service interface {
	Create(ctx context.Context, ownerID uint, params CreateParams) (*Message, error)
	GetByID(ctx context.Context, id string, requesterID uint) (*Message, error)
	Update(ctx context.Context, id string, requesterID uint, params UpdateParams) (*Message, error)
	SoftDelete(ctx context.Context, id string, requesterID uint) error
	List(ctx context.Context, requesterID uint, filter *ListFilter) (*Page, error)
	Search(ctx context.Context, requesterID uint, query string, page, pageSize int) (*Page, error)
	GetStats(ctx context.Context, requesterID uint) (*Stats, error)
}

// CreateParams contains parameters for logging a new message.
type CreateParams struct {
	Content       string
	MessageType   string // defaults to TEXT
	ReceiverID    *string
	ScreenshotURL *string
	OCRText       *string
	OCRConfidence *float64
	Platform      *string
	ExternalID    *string
	Timestamp     *time.Time // defaults to now
}

// UpdateParams is a partial update; absent fields are left untouched.
type UpdateParams struct {
	Content       optional.Value[string]
	MessageType   optional.Value[string]
	ScreenshotURL optional.Value[string]
	OCRText       optional.Value[string]
	OCRConfidence optional.Value[float64]
	Platform      optional.Value[string]
}

// UserLookup resolves a public user id to a stored user.
type UserLookup interface {
	FindByPublicID(ctx context.Context, publicID string) (*user.User, error)
}

// Option customizes a DefaultService.
type Option func(*DefaultService)

// WithClock overrides the time source used for defaults and statistics.
func WithClock(now func() time.Time) Option {
	return func(s *DefaultService) {
		s.now = now
	}
}

// DefaultService implements Service.
type DefaultService struct {
	repo  Repository
	users UserLookup
	now   func() time.Time
}

func NewService(repo Repository, users UserLookup, opts ...Option) Service {
	s := &DefaultService{
		repo:  repo,
		users: users,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *DefaultService) Create(ctx context.Context, ownerID uint, params CreateParams) (*Message, error) {
	content := strings.TrimSpace(params.Content)
	if content == "" {
		return nil, validationError(ctx, "content is required", "message-create-001")
	}

	msgType := TypeText
	if strings.TrimSpace(params.MessageType) != "" {
		parsed, ok := ParseType(params.MessageType)
		if !ok {
			return nil, validationError(ctx, "messageType must be one of TEXT, IMAGE, SCREENSHOT, EMAIL", "message-create-002")
		}
		msgType = parsed
	}

	if err := validateConfidence(ctx, params.OCRConfidence); err != nil {
		return nil, err
	}

	var receiverID *uint
	if params.ReceiverID != nil && strings.TrimSpace(*params.ReceiverID) != "" {
		receiver, err := s.users.FindByPublicID(ctx, strings.TrimSpace(*params.ReceiverID))
		if err != nil {
			if platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
				return nil, validationError(ctx, "receiverId does not reference an existing user", "message-create-003")
			}
			return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to resolve receiver")
		}
		receiverID = &receiver.ID
	}

	now := s.now().UTC()
	timestamp := now
	if params.Timestamp != nil && !params.Timestamp.IsZero() {
		timestamp = params.Timestamp.UTC()
	}

	msg := &Message{
		PublicID:      uuid.NewString(),
		Content:       params.Content,
		MessageType:   msgType,
		SenderID:      ownerID,
		ReceiverID:    receiverID,
		ScreenshotURL: blankToNil(params.ScreenshotURL),
		OCRText:       blankToNil(params.OCRText),
		OCRConfidence: params.OCRConfidence,
		Platform:      blankToNil(params.Platform),
		ExternalID:    blankToNil(params.ExternalID),
		Timestamp:     timestamp,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to create message")
	}

	return s.reload(ctx, msg, ownerID)
}

func (s *DefaultService) GetByID(ctx context.Context, id string, requesterID uint) (*Message, error) {
	msg, err := s.repo.FindVisible(ctx, strings.TrimSpace(id), requesterID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "message not found")
	}
	return msg, nil
}

// Update applies params to a message the requester sent. Messages the requester
// cannot edit are reported as not found.
func (s *DefaultService) Update(ctx context.Context, id string, requesterID uint, params UpdateParams) (*Message, error) {
	msg, err := s.repo.FindOwned(ctx, strings.TrimSpace(id), requesterID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "message not found")
	}

	// Every field is checked before any is applied, so a rejected body leaves the message untouched.
	var content string
	if params.Content.Set {
		content, _ = params.Content.Get()
		if strings.TrimSpace(content) == "" {
			return nil, validationError(ctx, "content cannot be empty", "message-update-001")
		}
	}

	var messageType Type
	if params.MessageType.Set {
		raw, _ := params.MessageType.Get()
		parsed, ok := ParseType(raw)
		if !ok {
			return nil, validationError(ctx, "messageType must be one of TEXT, IMAGE, SCREENSHOT, EMAIL", "message-update-002")
		}
		messageType = parsed
	}

	if params.OCRConfidence.Set {
		if err := validateConfidence(ctx, params.OCRConfidence.Ptr()); err != nil {
			return nil, err
		}
	}

	if params.Content.Set {
		msg.Content = content
	}
	if params.MessageType.Set {
		msg.MessageType = messageType
	}
	if params.OCRConfidence.Set {
		msg.OCRConfidence = params.OCRConfidence.Ptr()
	}
	applyText(&msg.ScreenshotURL, params.ScreenshotURL)
	applyText(&msg.OCRText, params.OCRText)
	applyText(&msg.Platform, params.Platform)

	msg.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, msg); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to update message")
	}

	return s.reload(ctx, msg, requesterID)
}

func (s *DefaultService) SoftDelete(ctx context.Context, id string, requesterID uint) error {
	msg, err := s.repo.FindOwned(ctx, strings.TrimSpace(id), requesterID)
	if err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "message not found")
	}

	if err := s.repo.SoftDelete(ctx, msg.ID, s.now().UTC()); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to delete message")
	}
	return nil
}

func (s *DefaultService) List(ctx context.Context, requesterID uint, filter *ListFilter) (*Page, error) {
	if filter == nil {
		filter = NewListFilter()
	}
	if filter.PageSize == 0 {
		filter.PageSize = DefaultListPageSize
	}
	if filter.Page == 0 {
		filter.Page = 1
	}
	if err := validatePaging(ctx, filter.Page, filter.PageSize); err != nil {
		return nil, err
	}
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateFrom.After(*filter.DateTo) {
		return nil, validationError(ctx, "dateFrom must not be after dateTo", "message-list-003")
	}

	items, total, err := s.repo.List(ctx, requesterID, filter)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list messages")
	}
	return newPage(items, total, filter.Page, filter.PageSize), nil
}

// Search matches the query case-insensitively against content, OCR text and platform.
// A blank query returns an empty page without querying the store.
func (s *DefaultService) Search(ctx context.Context, requesterID uint, query string, page, pageSize int) (*Page, error) {
	if pageSize == 0 {
		pageSize = DefaultSearchPageSize
	}
	if page == 0 {
		page = 1
	}
	if err := validatePaging(ctx, page, pageSize); err != nil {
		return nil, err
	}

	term := strings.TrimSpace(query)
	if term == "" {
		return newPage(nil, 0, page, pageSize), nil
	}

	items, total, err := s.repo.Search(ctx, requesterID, SearchQuery{Term: term, Page: page, PageSize: pageSize})
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to search messages")
	}
	return newPage(items, total, page, pageSize), nil
}

// GetStats runs the four aggregate queries concurrently.
func (s *DefaultService) GetStats(ctx context.Context, requesterID uint) (*Stats, error) {
	now := s.now()
	var (
		total, analyzed int64
		platforms       []PlatformCount
		timestamps      []time.Time
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		total, err = s.repo.CountVisible(gctx, requesterID)
		return err
	})
	g.Go(func() (err error) {
		analyzed, err = s.repo.CountAnalyzed(gctx, requesterID)
		return err
	})
	g.Go(func() (err error) {
		platforms, err = s.repo.CountByPlatform(gctx, requesterID)
		return err
	})
	g.Go(func() (err error) {
		timestamps, err = s.repo.TimestampsSince(gctx, requesterID, activityWindowStart(now))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to compute message statistics")
	}

	return &Stats{
		TotalMessages:     total,
		AnalyzedMessages:  analyzed,
		PlatformBreakdown: mergePlatformCounts(platforms),
		RecentActivity:    buildRecentActivity(now, timestamps),
	}, nil
}

func (s *DefaultService) reload(ctx context.Context, msg *Message, userID uint) (*Message, error) {
	loaded, err := s.repo.FindVisible(ctx, msg.PublicID, userID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to reload message")
	}
	return loaded, nil
}

func validatePaging(ctx context.Context, page, pageSize int) error {
	if page < 1 {
		return validationError(ctx, "page must be at least 1", "message-list-001")
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		return validationError(ctx, "limit must be between 1 and 100", "message-list-002")
	}
	return nil
}

func validateConfidence(ctx context.Context, confidence *float64) error {
	if confidence == nil {
		return nil
	}
	if math.IsNaN(*confidence) || *confidence < 0 || *confidence > 100 {
		return validationError(ctx, "ocrConfidence must be between 0 and 100", "message-ocr-001")
	}
	return nil
}

// applyText clears the field on null or "" and sets it on any other value.
func applyText(field **string, v optional.Value[string]) {
	if !v.Set {
		return
	}
	*field = blankToNil(v.Ptr())
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

func validationError(ctx context.Context, msg, code string) error {
	return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, msg, nil, code)
}
