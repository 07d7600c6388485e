package postgres

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/frahmantamala/identity-access/internal"
	identityModel "github.com/frahmantamala/identity-access/internal/core/datamodel/identity"
)

// UserRepository implements identity.RepositoryAPI using GORM. Hashing of the
// initial password and security answer happens here so plaintext never
// reaches a row.
type UserRepository struct {
	db         *gorm.DB
	bcryptCost int
}

func NewUserRepository(db *gorm.DB, bcryptCost int) *UserRepository {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserRepository{db: db, bcryptCost: bcryptCost}
}

func (r *UserRepository) Create(ctx context.Context, user *identityModel.User, password, answer string) error {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), r.bcryptCost)
	if err != nil {
		return err
	}
	answerHash, err := bcrypt.GenerateFromPassword([]byte(identityModel.NormalizeAnswer(answer)), r.bcryptCost)
	if err != nil {
		return err
	}

	user.ID = identityModel.NormalizeUserID(user.ID)
	user.PasswordHash = string(passwordHash)
	user.SecurityAnswerHash = string(answerHash)

	var count int64
	if err := r.db.WithContext(ctx).Model(&identityModel.User{}).
		Where("id = ?", user.ID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return internal.ErrUserExists
	}

	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (*identityModel.User, error) {
	var user identityModel.User
	err := r.db.WithContext(ctx).
		Where("id = ?", identityModel.NormalizeUserID(userID)).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrAccountNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) SetStatus(ctx context.Context, userID string, status identityModel.Status) error {
	updates := map[string]interface{}{"status": status}
	if status == identityModel.StatusActive {
		updates["failed_attempts"] = 0
	}

	res := r.db.WithContext(ctx).Model(&identityModel.User{}).
		Where("id = ?", identityModel.NormalizeUserID(userID)).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrAccountNotFound
	}
	return nil
}
