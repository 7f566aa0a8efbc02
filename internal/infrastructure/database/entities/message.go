package entities

import (
	"time"

	"coparent-api/internal/domain/message"
)

// TableName specifies the table name for Message.
func (Message) TableName() string {
	return "messages"
}

// Message is the persisted message row. Rows are never hard-deleted.
type Message struct {
	ID            uint       `gorm:"primaryKey"`
	PublicID      string     `gorm:"column:public_id;size:64;not null;uniqueIndex"`
	Content       string     `gorm:"type:text;not null"`
	MessageType   string     `gorm:"size:16;not null"`
	SenderID      uint       `gorm:"not null;index:idx_messages_sender_timestamp,priority:1"`
	Sender        *User      `gorm:"foreignKey:SenderID"`
	ReceiverID    *uint      `gorm:"index:idx_messages_receiver_timestamp,priority:1"`
	Receiver      *User      `gorm:"foreignKey:ReceiverID"`
	ScreenshotURL *string    `gorm:"column:screenshot_url;size:1024"`
	OCRText       *string    `gorm:"column:ocr_text;type:text"`
	OCRConfidence *float64   `gorm:"column:ocr_confidence"`
	Platform      *string    `gorm:"size:64;index"`
	ExternalID    *string    `gorm:"column:external_id;size:255;index"`
	Timestamp     time.Time  `gorm:"not null;index:idx_messages_sender_timestamp,priority:2;index:idx_messages_receiver_timestamp,priority:2"`
	IsDeleted     bool       `gorm:"not null;index"`
	DeletedAt     *time.Time
	CreatedAt     time.Time  `gorm:"not null"`
	UpdatedAt     time.Time  `gorm:"not null"`
}

// NewMessage converts a domain message into its row. Associations are not copied.
func NewMessage(m *message.Message) *Message {
	if m == nil {
		return nil
	}
	return &Message{
		ID:            m.ID,
		PublicID:      m.PublicID,
		Content:       m.Content,
		MessageType:   string(m.MessageType),
		SenderID:      m.SenderID,
		ReceiverID:    m.ReceiverID,
		ScreenshotURL: m.ScreenshotURL,
		OCRText:       m.OCRText,
		OCRConfidence: m.OCRConfidence,
		Platform:      m.Platform,
		ExternalID:    m.ExternalID,
		Timestamp:     m.Timestamp.UTC(),
		IsDeleted:     m.IsDeleted,
		DeletedAt:     m.DeletedAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// EtoD converts the row, including preloaded participants, to the domain message.
func (m *Message) EtoD() *message.Message {
	if m == nil {
		return nil
	}
	return &message.Message{
		ID:            m.ID,
		PublicID:      m.PublicID,
		Content:       m.Content,
		MessageType:   message.Type(m.MessageType),
		SenderID:      m.SenderID,
		ReceiverID:    m.ReceiverID,
		Sender:        m.Sender.Participant(),
		Receiver:      m.Receiver.Participant(),
		ScreenshotURL: m.ScreenshotURL,
		OCRText:       m.OCRText,
		OCRConfidence: m.OCRConfidence,
		Platform:      m.Platform,
		ExternalID:    m.ExternalID,
		Timestamp:     m.Timestamp.UTC(),
		IsDeleted:     m.IsDeleted,
		DeletedAt:     m.DeletedAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
