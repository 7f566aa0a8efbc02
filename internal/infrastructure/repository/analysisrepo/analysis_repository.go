package analysisrepo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"coparent-api/internal/domain/analysis"
	"coparent-api/internal/domain/message"
	"coparent-api/internal/infrastructure/database/entities"
	"coparent-api/internal/utils/platformerrors"
)

type AnalysisGormRepository struct {
	db *gorm.DB
}

var _ analysis.Repository = (*AnalysisGormRepository)(nil)

func NewAnalysisGormRepository(db *gorm.DB) *AnalysisGormRepository {
	return &AnalysisGormRepository{db: db}
}

// Create appends a run. Existing runs for the message are never replaced.
func (repo *AnalysisGormRepository) Create(ctx context.Context, a *message.Analysis) error {
	row := entities.NewMessageAnalysis(a)
	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(row).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to store analysis", err, "analysis-create-db-001")
	}
	a.ID = row.ID
	a.CreatedAt = row.CreatedAt
	return nil
}

func (repo *AnalysisGormRepository) ListByMessage(ctx context.Context, messageID uint) ([]*message.Analysis, error) {
	var rows []entities.MessageAnalysis
	err := repo.db.WithContext(ctx).
		Where("message_id = ?", messageID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to list analyses", err, "analysis-list-db-001")
	}

	out := make([]*message.Analysis, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].EtoD())
	}
	return out, nil
}
