package tenant

import (
	"context"
	"log/slog"

	tenantModel "github.com/frahmantamala/identity-access/internal/core/datamodel/tenant"
)

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetTenant(ctx context.Context, id int64) (*tenantModel.Tenant, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetPolicy(ctx context.Context, tenantID int64) (tenantModel.PasswordPolicy, error) {
	return s.repo.GetPolicy(ctx, tenantID)
}

// UpdatePolicy replaces the tenant's password policy wholesale. It is the
// only mutation path for policy fields.
func (s *Service) UpdatePolicy(ctx context.Context, tenantID int64, dto UpdatePolicyDTO) (tenantModel.PasswordPolicy, error) {
	if err := dto.Validate(); err != nil {
		return tenantModel.PasswordPolicy{}, err
	}

	p := dto.ToPolicy()
	if err := s.repo.UpdatePolicy(ctx, tenantID, p); err != nil {
		s.logger.Error("failed to update password policy", "error", err, "tenant_id", tenantID)
		return tenantModel.PasswordPolicy{}, err
	}

	s.logger.Info("password policy updated", "tenant_id", tenantID)
	return p, nil
}
