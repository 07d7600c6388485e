package identity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/identity-access/internal/auth"
	identityModel "github.com/frahmantamala/identity-access/internal/core/datamodel/identity"
	"github.com/frahmantamala/identity-access/internal/policy"
)

// Service provisions user accounts. The initial password has to satisfy the
// tenant policy just like any later change.
type Service struct {
	repo     RepositoryAPI
	policies auth.PolicyStore
	logger   *slog.Logger

	now func() time.Time
}

func NewService(repo RepositoryAPI, policies auth.PolicyStore, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		policies: policies,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *Service) CreateUser(ctx context.Context, dto CreateUserDTO) (*identityModel.User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	pol, err := s.policies.GetPolicy(ctx, dto.TenantID)
	if err != nil {
		return nil, fmt.Errorf("load tenant policy: %w", err)
	}

	if violations := policy.Validate(dto.Password, pol); len(violations) > 0 {
		return nil, auth.PolicyViolationError(violations)
	}

	user := &identityModel.User{
		ID:                   identityModel.NormalizeUserID(dto.UserID),
		TenantID:             dto.TenantID,
		RoleID:               dto.RoleID,
		FirstName:            dto.FirstName,
		LastName:             dto.LastName,
		Email:                dto.Email,
		Phone:                dto.Phone,
		SecurityQuestion:     dto.SecurityQuestion,
		Status:               identityModel.StatusActive,
		LastPasswordChangeAt: s.now(),
	}

	if err := s.repo.Create(ctx, user, dto.Password, dto.SecurityAnswer); err != nil {
		return nil, err
	}

	s.logger.Info("user provisioned", "user_id", user.ID, "tenant_id", user.TenantID, "role_id", user.RoleID)
	return user, nil
}

func (s *Service) GetUser(ctx context.Context, userID string) (*identityModel.User, error) {
	return s.repo.GetByID(ctx, identityModel.NormalizeUserID(userID))
}

// SetStatus is the administrative path for disabling accounts or clearing a
// lockout. The recovery flow remains the only self-service unlock.
func (s *Service) SetStatus(ctx context.Context, userID string, status identityModel.Status) error {
	if err := s.repo.SetStatus(ctx, identityModel.NormalizeUserID(userID), status); err != nil {
		return err
	}
	s.logger.Info("user status changed", "user_id", userID, "status", status)
	return nil
}
