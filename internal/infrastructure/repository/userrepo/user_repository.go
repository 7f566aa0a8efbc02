package userrepo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"coparent-api/internal/domain/credential"
	"coparent-api/internal/domain/user"
	"coparent-api/internal/infrastructure/database/entities"
	"coparent-api/internal/utils/platformerrors"
)

type UserGormRepository struct {
	db *gorm.DB
}

var _ user.Repository = (*UserGormRepository)(nil)

func NewUserGormRepository(db *gorm.DB) *UserGormRepository {
	return &UserGormRepository{db: db}
}

// Upsert inserts the identity or refreshes its profile. Profile fields missing from
// the token keep their stored values and a soft-deleted account is revived.
func (repo *UserGormRepository) Upsert(ctx context.Context, usr *user.User) (*user.User, error) {
	row := entities.NewUser(usr)
	if row.PublicID == "" {
		row.PublicID = uuid.NewString()
	}
	now := time.Now().UTC()
	row.CreatedAt = now
	row.UpdatedAt = now

	assignments := map[string]any{
		"auth_provider": row.AuthProvider,
		"updated_at":    now,
		"deleted_at":    nil,
	}
	if row.Email != nil {
		assignments["email"] = *row.Email
	}
	if row.FirstName != nil {
		assignments["first_name"] = *row.FirstName
	}
	if row.LastName != nil {
		assignments["last_name"] = *row.LastName
	}

	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "issuer"}, {Name: "subject"}},
			DoUpdates: clause.Assignments(assignments),
		}).
		Create(row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeConflict,
				"email is already linked to another account", err, "user-upsert-conflict-001")
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to upsert user", err, "user-upsert-db-001")
	}

	var persisted entities.User
	if err := repo.db.WithContext(ctx).
		Where("issuer = ? AND subject = ?", row.Issuer, row.Subject).
		First(&persisted).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to reload upserted user", err, "user-upsert-db-002")
	}
	return persisted.EtoD(), nil
}

func (repo *UserGormRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	return repo.findOne(ctx, "find-id", "id = ?", id)
}

func (repo *UserGormRepository) FindByPublicID(ctx context.Context, publicID string) (*user.User, error) {
	return repo.findOne(ctx, "find-public", "public_id = ?", publicID)
}

func (repo *UserGormRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return repo.findOne(ctx, "find-email", "LOWER(email) = ?", strings.ToLower(email))
}

func (repo *UserGormRepository) UpdateSettings(ctx context.Context, id uint, provider credential.Provider, analysisEnabled bool) (*user.User, error) {
	result := repo.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"ai_provider":      string(provider),
			"analysis_enabled": analysisEnabled,
			"updated_at":       time.Now().UTC(),
		})
	if result.Error != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to update user settings", result.Error, "user-settings-db-001")
	}
	if result.RowsAffected == 0 {
		return nil, notFound(ctx, "user-settings-db-002")
	}
	return repo.FindByID(ctx, id)
}

func (repo *UserGormRepository) SoftDelete(ctx context.Context, id uint) error {
	result := repo.db.WithContext(ctx).Delete(&entities.User{}, id)
	if result.Error != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to delete user", result.Error, "user-delete-db-001")
	}
	if result.RowsAffected == 0 {
		return notFound(ctx, "user-delete-db-002")
	}
	return nil
}

func (repo *UserGormRepository) findOne(ctx context.Context, op string, query string, arg any) (*user.User, error) {
	var row entities.User
	err := repo.db.WithContext(ctx).Where(query, arg).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound(ctx, "user-"+op+"-001")
	}
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to load user", err, "user-"+op+"-db-001")
	}
	return row.EtoD(), nil
}

func notFound(ctx context.Context, code string) error {
	return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
		"user not found", nil, code)
}
