package credentialrepo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"coparent-api/internal/domain/credential"
	"coparent-api/internal/infrastructure/database/entities"
	"coparent-api/internal/utils/platformerrors"
)

type CredentialGormRepository struct {
	db *gorm.DB
}

var _ credential.Repository = (*CredentialGormRepository)(nil)

func NewCredentialGormRepository(db *gorm.DB) *CredentialGormRepository {
	return &CredentialGormRepository{db: db}
}

// Upsert stores the key, replacing any key the user already has for the provider.
func (repo *CredentialGormRepository) Upsert(ctx context.Context, cred *credential.Credential) (*credential.Credential, error) {
	row := entities.NewProviderCredential(cred)
	now := time.Now().UTC()
	row.CreatedAt = now
	row.UpdatedAt = now

	err := repo.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "provider"}},
			DoUpdates: clause.Assignments(map[string]any{
				"encrypted_key": row.EncryptedKey,
				"last4":         row.Last4,
				"updated_at":    now,
			}),
		}).
		Create(row).Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to store credential", err, "credential-upsert-db-001")
	}
	return repo.FindByUserAndProvider(ctx, cred.UserID, cred.Provider)
}

func (repo *CredentialGormRepository) FindByUserAndProvider(ctx context.Context, userID uint, provider credential.Provider) (*credential.Credential, error) {
	var row entities.ProviderCredential
	err := repo.db.WithContext(ctx).
		Where("user_id = ? AND provider = ?", userID, string(provider)).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			"credential not found", nil, "credential-find-001")
	}
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to load credential", err, "credential-find-db-001")
	}
	return row.EtoD(), nil
}

func (repo *CredentialGormRepository) ListByUser(ctx context.Context, userID uint) ([]*credential.Credential, error) {
	var rows []entities.ProviderCredential
	if err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("provider ASC").
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to list credentials", err, "credential-list-db-001")
	}
	out := make([]*credential.Credential, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].EtoD())
	}
	return out, nil
}

func (repo *CredentialGormRepository) Delete(ctx context.Context, userID uint, provider credential.Provider) error {
	result := repo.db.WithContext(ctx).
		Where("user_id = ? AND provider = ?", userID, string(provider)).
		Delete(&entities.ProviderCredential{})
	if result.Error != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to delete credential", result.Error, "credential-delete-db-001")
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			"credential not found", nil, "credential-delete-002")
	}
	return nil
}
