// Package message is the co-parenting message log: storage access, queries and statistics.
package message

import (
	"strings"
	"time"
)

// Type is the closed set of message kinds.
type Type string

const (
	TypeText       Type = "TEXT"
	TypeImage      Type = "IMAGE"
	TypeScreenshot Type = "SCREENSHOT"
	TypeEmail      Type = "EMAIL"
)

// ParseType accepts any casing of a known type.
func ParseType(raw string) (Type, bool) {
	switch t := Type(strings.ToUpper(strings.TrimSpace(raw))); t {
	case TypeText, TypeImage, TypeScreenshot, TypeEmail:
		return t, true
	default:
		return "", false
	}
}

// Participant is the reduced user projection attached to a message.
type Participant struct {
	ID        string
	Email     *string
	FirstName *string
	LastName  *string
}

// Message is one logged communication between co-parents.
type Message struct {
	ID            uint
	PublicID      string
	Content       string
	MessageType   Type
	SenderID      uint
	ReceiverID    *uint
	Sender        *Participant
	Receiver      *Participant
	ScreenshotURL *string
	OCRText       *string
	OCRConfidence *float64
	Platform      *string
	ExternalID    *string
	Timestamp     time.Time
	IsDeleted     bool
	DeletedAt     *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// LatestAnalysis is the most recent analysis run, if any.
	LatestAnalysis *Analysis
}

// VisibleTo reports whether userID may read the message.
func (m *Message) VisibleTo(userID uint) bool {
	if m.IsDeleted {
		return false
	}
	if m.SenderID == userID {
		return true
	}
	return m.ReceiverID != nil && *m.ReceiverID == userID
}

// Page is one page of a filtered message query.
type Page struct {
	Items    []*Message
	Total    int64
	Page     int
	PageSize int
	HasMore  bool
}

func newPage(items []*Message, total int64, page, pageSize int) *Page {
	if items == nil {
		items = []*Message{}
	}
	skip := (page - 1) * pageSize
	return &Page{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		HasMore:  int64(skip+pageSize) < total,
	}
}
