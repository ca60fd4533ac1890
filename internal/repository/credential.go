package repository

import (
	"context"
	"errors"

	"bondtree/internal/models"
	"bondtree/internal/observability"

	"gorm.io/gorm"
)

// CredentialRepository defines persistence operations for login credentials.
// Credentials live in their own table so a failed profile write during signup
// can be compensated by deleting the credential row.
type CredentialRepository interface {
	Create(ctx context.Context, cred *models.Credential) error
	GetByEmail(ctx context.Context, email string) (*models.Credential, error)
	Delete(ctx context.Context, id uint) error
}

type credentialRepository struct {
	db      *gorm.DB
	metrics *observability.DatabaseMetrics
}

// NewCredentialRepository returns a new CredentialRepository implementation.
func NewCredentialRepository(db *gorm.DB) CredentialRepository {
	return &credentialRepository{db: db, metrics: observability.NewDatabaseMetrics(db)}
}

func (r *credentialRepository) Create(ctx context.Context, cred *models.Credential) error {
	defer r.metrics.TrackQuery("create", "credentials")()
	if err := r.db.WithContext(ctx).Create(cred).Error; err != nil {
		if IsUniqueConstraintError(err) {
			return models.NewConflictError("An account with this email already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *credentialRepository) GetByEmail(ctx context.Context, email string) (*models.Credential, error) {
	defer r.metrics.TrackQuery("get_by_email", "credentials")()
	var cred models.Credential
	if err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&cred).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &cred, nil
}

func (r *credentialRepository) Delete(ctx context.Context, id uint) error {
	defer r.metrics.TrackQuery("delete", "credentials")()
	if err := r.db.WithContext(ctx).Unscoped().Delete(&models.Credential{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
