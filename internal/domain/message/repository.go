package message

import (
	"context"
	"time"
)

// Repository persists messages. Every read applies the visibility rule
// (requester is sender or receiver, and the message is not deleted).
type Repository interface {
	Create(ctx context.Context, msg *Message) error
	// FindVisible returns a message the user may read.
	FindVisible(ctx context.Context, publicID string, userID uint) (*Message, error)
	// FindOwned returns a non-deleted message sent by senderID.
	FindOwned(ctx context.Context, publicID string, senderID uint) (*Message, error)
	Update(ctx context.Context, msg *Message) error
	SoftDelete(ctx context.Context, id uint, at time.Time) error
	List(ctx context.Context, userID uint, filter *ListFilter) ([]*Message, int64, error)
	Search(ctx context.Context, userID uint, query SearchQuery) ([]*Message, int64, error)

	CountVisible(ctx context.Context, userID uint) (int64, error)
	CountAnalyzed(ctx context.Context, userID uint) (int64, error)
	CountByPlatform(ctx context.Context, userID uint) ([]PlatformCount, error)
	TimestampsSince(ctx context.Context, userID uint, since time.Time) ([]time.Time, error)

	// ArchiveByParticipant soft-deletes every message the user sent or received.
	ArchiveByParticipant(ctx context.Context, userID uint) (int64, error)
}
