package tenant

import (
	"context"

	tenantModel "github.com/frahmantamala/identity-access/internal/core/datamodel/tenant"
)

// RepositoryAPI is the persistence contract for tenants and their password
// policies. The policy is owned by the tenant row and mutated only through
// UpdatePolicy.
type RepositoryAPI interface {
	GetByID(ctx context.Context, id int64) (*tenantModel.Tenant, error)
	GetPolicy(ctx context.Context, tenantID int64) (tenantModel.PasswordPolicy, error)
	UpdatePolicy(ctx context.Context, tenantID int64, p tenantModel.PasswordPolicy) error
}

type ServiceAPI interface {
	GetTenant(ctx context.Context, id int64) (*tenantModel.Tenant, error)
	GetPolicy(ctx context.Context, tenantID int64) (tenantModel.PasswordPolicy, error)
	UpdatePolicy(ctx context.Context, tenantID int64, dto UpdatePolicyDTO) (tenantModel.PasswordPolicy, error)
}
