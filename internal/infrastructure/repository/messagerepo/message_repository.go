package messagerepo

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"coparent-api/internal/domain/message"
	"coparent-api/internal/infrastructure/database/entities"
	"coparent-api/internal/utils/platformerrors"
)

const hasAnalysisClause = "EXISTS (SELECT 1 FROM message_analyses ma WHERE ma.message_id = messages.id)"

type MessageGormRepository struct {
	db *gorm.DB
}

var _ message.Repository = (*MessageGormRepository)(nil)

func NewMessageGormRepository(db *gorm.DB) *MessageGormRepository {
	return &MessageGormRepository{db: db}
}

// visibleTo restricts rows to non-deleted messages the user sent or received.
func visibleTo(userID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Where("messages.is_deleted = ?", false).
			Where("(messages.sender_id = ? OR messages.receiver_id = ?)", userID, userID)
	}
}

func applyListFilter(filter *message.ListFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter == nil {
			return db
		}
		if filter.Platform != nil {
			db = db.Where("messages.platform = ?", *filter.Platform)
		}
		if filter.MessageType != nil {
			db = db.Where("messages.message_type = ?", string(*filter.MessageType))
		}
		if filter.DateFrom != nil {
			db = db.Where("messages.timestamp >= ?", filter.DateFrom.UTC())
		}
		if filter.DateTo != nil {
			db = db.Where("messages.timestamp <= ?", filter.DateTo.UTC())
		}
		if filter.HasAnalysis != nil {
			if *filter.HasAnalysis {
				db = db.Where(hasAnalysisClause)
			} else {
				db = db.Where("NOT " + hasAnalysisClause)
			}
		}
		return db
	}
}

// matchesTerm is a case-insensitive substring match on content, OCR text or platform.
func matchesTerm(term string) func(*gorm.DB) *gorm.DB {
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			`(LOWER(messages.content) LIKE ? ESCAPE '\' OR LOWER(COALESCE(messages.ocr_text, '')) LIKE ? ESCAPE '\' OR LOWER(COALESCE(messages.platform, '')) LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern,
		)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (repo *MessageGormRepository) Create(ctx context.Context, msg *message.Message) error {
	row := entities.NewMessage(msg)
	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(row).Error; err != nil {
		return dbError(ctx, "failed to create message", err, "message-create-db-001")
	}
	msg.ID = row.ID
	return nil
}

func (repo *MessageGormRepository) FindVisible(ctx context.Context, publicID string, userID uint) (*message.Message, error) {
	return repo.findOne(ctx, repo.db.WithContext(ctx).
		Scopes(visibleTo(userID)).
		Where("messages.public_id = ?", publicID))
}

func (repo *MessageGormRepository) FindOwned(ctx context.Context, publicID string, senderID uint) (*message.Message, error) {
	return repo.findOne(ctx, repo.db.WithContext(ctx).
		Where("messages.is_deleted = ?", false).
		Where("messages.sender_id = ?", senderID).
		Where("messages.public_id = ?", publicID))
}

func (repo *MessageGormRepository) findOne(ctx context.Context, query *gorm.DB) (*message.Message, error) {
	var row entities.Message
	err := query.Preload("Sender").Preload("Receiver").First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			"message not found", nil, "message-find-001")
	}
	if err != nil {
		return nil, dbError(ctx, "failed to load message", err, "message-find-db-001")
	}

	msgs := []*message.Message{row.EtoD()}
	if err := repo.attachLatestAnalyses(ctx, msgs); err != nil {
		return nil, err
	}
	return msgs[0], nil
}

// Update writes the editable columns, including ones cleared to NULL.
func (repo *MessageGormRepository) Update(ctx context.Context, msg *message.Message) error {
	row := entities.NewMessage(msg)
	result := repo.db.WithContext(ctx).
		Model(&entities.Message{}).
		Where("id = ? AND is_deleted = ?", msg.ID, false).
		Select("content", "message_type", "screenshot_url", "ocr_text", "ocr_confidence", "platform", "updated_at").
		Updates(row)
	if result.Error != nil {
		return dbError(ctx, "failed to update message", result.Error, "message-update-db-001")
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			"message not found", nil, "message-update-002")
	}
	return nil
}

func (repo *MessageGormRepository) SoftDelete(ctx context.Context, id uint, at time.Time) error {
	result := repo.db.WithContext(ctx).
		Model(&entities.Message{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]any{
			"is_deleted": true,
			"deleted_at": at.UTC(),
			"updated_at": at.UTC(),
		})
	if result.Error != nil {
		return dbError(ctx, "failed to delete message", result.Error, "message-delete-db-001")
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			"message not found", nil, "message-delete-002")
	}
	return nil
}

func (repo *MessageGormRepository) List(ctx context.Context, userID uint, filter *message.ListFilter) ([]*message.Message, int64, error) {
	base := func() *gorm.DB {
		return repo.db.WithContext(ctx).
			Model(&entities.Message{}).
			Scopes(visibleTo(userID), applyListFilter(filter))
	}
	return repo.page(ctx, base, filter.Offset(), filter.PageSize, "message-list")
}

func (repo *MessageGormRepository) Search(ctx context.Context, userID uint, query message.SearchQuery) ([]*message.Message, int64, error) {
	base := func() *gorm.DB {
		return repo.db.WithContext(ctx).
			Model(&entities.Message{}).
			Scopes(visibleTo(userID), matchesTerm(query.Term))
	}
	return repo.page(ctx, base, query.Offset(), query.PageSize, "message-search")
}

// page counts the full result set, then loads one page newest first with ties in insertion order.
func (repo *MessageGormRepository) page(ctx context.Context, base func() *gorm.DB, offset, limit int, code string) ([]*message.Message, int64, error) {
	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, dbError(ctx, "failed to count messages", err, code+"-db-001")
	}
	if total == 0 || int64(offset) >= total {
		return []*message.Message{}, total, nil
	}

	var rows []entities.Message
	err := base().
		Preload("Sender").
		Preload("Receiver").
		Order("messages.timestamp DESC").
		Order("messages.id ASC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, dbError(ctx, "failed to load messages", err, code+"-db-002")
	}

	msgs := make([]*message.Message, 0, len(rows))
	for i := range rows {
		msgs = append(msgs, rows[i].EtoD())
	}
	if err := repo.attachLatestAnalyses(ctx, msgs); err != nil {
		return nil, 0, err
	}
	return msgs, total, nil
}

// attachLatestAnalyses sets LatestAnalysis to the newest run of each message.
func (repo *MessageGormRepository) attachLatestAnalyses(ctx context.Context, msgs []*message.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(msgs))
	for _, m := range msgs {
		ids = append(ids, m.ID)
	}

	var rows []entities.MessageAnalysis
	err := repo.db.WithContext(ctx).
		Where("message_id IN ?", ids).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return dbError(ctx, "failed to load analyses", err, "message-analysis-db-001")
	}

	latest := make(map[uint]*message.Analysis, len(msgs))
	for i := range rows {
		if _, seen := latest[rows[i].MessageID]; !seen {
			latest[rows[i].MessageID] = rows[i].EtoD()
		}
	}
	for _, m := range msgs {
		m.LatestAnalysis = latest[m.ID]
	}
	return nil
}

func (repo *MessageGormRepository) CountVisible(ctx context.Context, userID uint) (int64, error) {
	var total int64
	err := repo.db.WithContext(ctx).
		Model(&entities.Message{}).
		Scopes(visibleTo(userID)).
		Count(&total).Error
	if err != nil {
		return 0, dbError(ctx, "failed to count messages", err, "message-stats-db-001")
	}
	return total, nil
}

func (repo *MessageGormRepository) CountAnalyzed(ctx context.Context, userID uint) (int64, error) {
	var total int64
	err := repo.db.WithContext(ctx).
		Model(&entities.Message{}).
		Scopes(visibleTo(userID)).
		Where(hasAnalysisClause).
		Count(&total).Error
	if err != nil {
		return 0, dbError(ctx, "failed to count analyzed messages", err, "message-stats-db-002")
	}
	return total, nil
}

func (repo *MessageGormRepository) CountByPlatform(ctx context.Context, userID uint) ([]message.PlatformCount, error) {
	var rows []struct {
		Platform *string
		Count    int64
	}
	err := repo.db.WithContext(ctx).
		Model(&entities.Message{}).
		Scopes(visibleTo(userID)).
		Select("messages.platform AS platform, COUNT(*) AS count").
		Group("messages.platform").
		Scan(&rows).Error
	if err != nil {
		return nil, dbError(ctx, "failed to group messages by platform", err, "message-stats-db-003")
	}

	out := make([]message.PlatformCount, 0, len(rows))
	for _, r := range rows {
		out = append(out, message.PlatformCount{Platform: r.Platform, Count: r.Count})
	}
	return out, nil
}

func (repo *MessageGormRepository) TimestampsSince(ctx context.Context, userID uint, since time.Time) ([]time.Time, error) {
	var stamps []time.Time
	err := repo.db.WithContext(ctx).
		Model(&entities.Message{}).
		Scopes(visibleTo(userID)).
		Where("messages.timestamp >= ?", since.UTC()).
		Pluck("messages.timestamp", &stamps).Error
	if err != nil {
		return nil, dbError(ctx, "failed to load recent activity", err, "message-stats-db-004")
	}
	return stamps, nil
}

func (repo *MessageGormRepository) ArchiveByParticipant(ctx context.Context, userID uint) (int64, error) {
	now := time.Now().UTC()
	result := repo.db.WithContext(ctx).
		Model(&entities.Message{}).
		Where("is_deleted = ?", false).
		Where("(sender_id = ? OR receiver_id = ?)", userID, userID).
		Updates(map[string]any{
			"is_deleted": true,
			"deleted_at": now,
			"updated_at": now,
		})
	if result.Error != nil {
		return 0, dbError(ctx, "failed to archive messages", result.Error, "message-archive-db-001")
	}
	return result.RowsAffected, nil
}

func dbError(ctx context.Context, msg string, err error, code string) error {
	return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, msg, err, code)
}
