package recovery

import (
	"context"

	identityModel "github.com/frahmantamala/identity-access/internal/core/datamodel/identity"
)

// Challenge is the security question presented to a user who lost their
// password. The account status rides along so the client can explain why the
// user ended up here.
type Challenge struct {
	Question   string               `json:"question"`
	UserStatus identityModel.Status `json:"user_status"`
}

// ServiceAPI is the self-service reset flow: answer the stored security
// question correctly and set a policy-compliant password. It is the only way
// a locked account returns to Active without an administrator.
type ServiceAPI interface {
	GetChallenge(ctx context.Context, userID string) (*Challenge, error)
	ValidateAndReset(ctx context.Context, dto ResetDTO) error
}
