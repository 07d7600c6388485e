package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/identity-access/internal"
	accessModel "github.com/frahmantamala/identity-access/internal/core/datamodel/access"
	identityModel "github.com/frahmantamala/identity-access/internal/core/datamodel/identity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PermissionRepository implements authz.PermissionStore and
// authz.RoleDirectory using GORM.
type PermissionRepository struct {
	db *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) *PermissionRepository {
	return &PermissionRepository{db: db}
}

// GetPermissions returns nil with no error when no grant row exists; the
// engine treats absence as an all-false grant.
func (r *PermissionRepository) GetPermissions(ctx context.Context, roleID, optionID int64) (*accessModel.RolePermission, error) {
	var grant accessModel.RolePermission
	err := r.db.WithContext(ctx).
		Where("role_id = ? AND option_id = ?", roleID, optionID).
		First(&grant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &grant, nil
}

func (r *PermissionRepository) UpsertGrant(ctx context.Context, grant accessModel.RolePermission) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "role_id"}, {Name: "option_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"can_create", "can_delete", "can_update", "can_print", "can_export", "updated_at",
		}),
	}).Create(&grant).Error
}

func (r *PermissionRepository) GetRoleID(ctx context.Context, userID string) (int64, error) {
	var user identityModel.User
	err := r.db.WithContext(ctx).
		Select("role_id").
		Where("id = ?", identityModel.NormalizeUserID(userID)).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, internal.ErrAccountNotFound
		}
		return 0, err
	}
	return user.RoleID, nil
}
