package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/adebimpe-ng/course-portal-api/internal/models"
)

// CredentialRepository defines persistence operations for the admin credential record.
type CredentialRepository interface {
	Get(ctx context.Context) (models.AdminCredential, error)
	Upsert(ctx context.Context, credential *models.AdminCredential) error
}

type credentialRepository struct {
	db *gorm.DB
}

// NewCredentialRepository instantiates a GORM-backed repository.
func NewCredentialRepository(db *gorm.DB) CredentialRepository {
	return &credentialRepository{db: db}
}

func (r *credentialRepository) Get(ctx context.Context) (models.AdminCredential, error) {
	var credential models.AdminCredential
	if err := r.db.WithContext(ctx).First(&credential).Error; err != nil {
		return models.AdminCredential{}, err
	}

	return credential, nil
}

func (r *credentialRepository) Upsert(ctx context.Context, credential *models.AdminCredential) error {
	existing, err := r.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return r.db.WithContext(ctx).Create(credential).Error
		}
		return err
	}

	credential.ID = existing.ID
	return r.db.WithContext(ctx).Save(credential).Error
}
