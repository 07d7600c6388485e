package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/identity-access/internal"
	tenantModel "github.com/frahmantamala/identity-access/internal/core/datamodel/tenant"
	"github.com/frahmantamala/identity-access/internal/tenant"
	"gorm.io/gorm"
)

// TenantRepository implements tenant.RepositoryAPI using GORM.
type TenantRepository struct {
	db *gorm.DB
}

func NewTenantRepository(db *gorm.DB) tenant.RepositoryAPI {
	return &TenantRepository{db: db}
}

func (r *TenantRepository) GetByID(ctx context.Context, id int64) (*tenantModel.Tenant, error) {
	var t tenantModel.Tenant
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrTenantNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *TenantRepository) GetPolicy(ctx context.Context, tenantID int64) (tenantModel.PasswordPolicy, error) {
	t, err := r.GetByID(ctx, tenantID)
	if err != nil {
		return tenantModel.PasswordPolicy{}, err
	}
	return t.PasswordPolicy, nil
}

func (r *TenantRepository) UpdatePolicy(ctx context.Context, tenantID int64, p tenantModel.PasswordPolicy) error {
	res := r.db.WithContext(ctx).Model(&tenantModel.Tenant{}).
		Where("id = ?", tenantID).
		Updates(map[string]interface{}{
			"password_min_uppercase":       p.MinUppercase,
			"password_min_lowercase":       p.MinLowercase,
			"password_min_special_chars":   p.MinSpecialChars,
			"password_min_digits":          p.MinDigits,
			"password_min_length":          p.MinLength,
			"password_max_failed_attempts": p.MaxFailedAttempts,
			"password_expiration_days":     p.ExpirationDays,
			"password_required_questions":  p.RequiredSecurityQuestions,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrTenantNotFound
	}
	return nil
}
