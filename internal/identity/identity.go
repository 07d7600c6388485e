package identity

import (
	"context"

	identityModel "github.com/frahmantamala/identity-access/internal/core/datamodel/identity"
)

// RepositoryAPI persists user accounts. Implementations own the hashing of
// the initial password and the normalized security answer, and return
// internal.ErrUserExists on identifier collisions.
type RepositoryAPI interface {
	Create(ctx context.Context, user *identityModel.User, password, answer string) error
	GetByID(ctx context.Context, userID string) (*identityModel.User, error)
	SetStatus(ctx context.Context, userID string, status identityModel.Status) error
}

type ServiceAPI interface {
	CreateUser(ctx context.Context, dto CreateUserDTO) (*identityModel.User, error)
	GetUser(ctx context.Context, userID string) (*identityModel.User, error)
	SetStatus(ctx context.Context, userID string, status identityModel.Status) error
}
