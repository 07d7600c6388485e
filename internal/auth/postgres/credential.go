package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/identity-access/internal"
	"github.com/frahmantamala/identity-access/internal/auth"
	identityModel "github.com/frahmantamala/identity-access/internal/core/datamodel/identity"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// CredentialRepository implements auth.CredentialStore using GORM. Secrets
// and security answers are stored as bcrypt hashes.
type CredentialRepository struct {
	db         *gorm.DB
	bcryptCost int
}

func NewCredentialRepository(db *gorm.DB, bcryptCost int) auth.CredentialStore {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &CredentialRepository{db: db, bcryptCost: bcryptCost}
}

func (r *CredentialRepository) GetUser(ctx context.Context, userID string) (*identityModel.User, error) {
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

func (r *CredentialRepository) Verify(ctx context.Context, userID, secret string) (bool, error) {
	user, err := r.GetUser(ctx, userID)
	if err != nil {
		return false, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(secret)); err != nil {
		return false, nil
	}
	return true, nil
}

func (r *CredentialRepository) VerifyAnswer(ctx context.Context, userID, answer string) (bool, error) {
	user, err := r.GetUser(ctx, userID)
	if err != nil {
		return false, err
	}
	if user.SecurityAnswerHash == "" {
		return false, nil
	}

	normalized := identityModel.NormalizeAnswer(answer)
	if err := bcrypt.CompareHashAndPassword([]byte(user.SecurityAnswerHash), []byte(normalized)); err != nil {
		return false, nil
	}
	return true, nil
}

// IncrementAttemptAndMaybeLock bumps the counter and flips the status in one
// UPDATE, so concurrent failed attempts cannot observe a count above the
// threshold on a still-active account.
func (r *CredentialRepository) IncrementAttemptAndMaybeLock(ctx context.Context, userID string, threshold int) (int, bool, error) {
	userID = identityModel.NormalizeUserID(userID)

	err := r.db.WithContext(ctx).Exec(`
		UPDATE users
		SET failed_attempts = failed_attempts + 1,
		    status = CASE
		        WHEN failed_attempts + 1 >= ? AND status = ? THEN ?
		        ELSE status
		    END,
		    updated_at = ?
		WHERE id = ?`,
		threshold, identityModel.StatusActive, identityModel.StatusLocked,
		time.Now(), userID,
	).Error
	if err != nil {
		return 0, false, err
	}

	user, err := r.GetUser(ctx, userID)
	if err != nil {
		return 0, false, err
	}
	return user.FailedAttempts, user.Status == identityModel.StatusLocked, nil
}

func (r *CredentialRepository) ResetAttempts(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Model(&identityModel.User{}).
		Where("id = ?", identityModel.NormalizeUserID(userID)).
		Update("failed_attempts", 0).Error
}

func (r *CredentialRepository) RestoreActive(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Model(&identityModel.User{}).
		Where("id = ?", identityModel.NormalizeUserID(userID)).
		Updates(map[string]interface{}{
			"failed_attempts": 0,
			"status":          identityModel.StatusActive,
		}).Error
}

func (r *CredentialRepository) SetSecret(ctx context.Context, userID, newSecret string, changedAt time.Time) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newSecret), r.bcryptCost)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Model(&identityModel.User{}).
		Where("id = ?", identityModel.NormalizeUserID(userID)).
		Updates(map[string]interface{}{
			"password_hash":           string(hash),
			"last_password_change_at": changedAt,
		}).Error
}
