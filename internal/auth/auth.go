package auth

import (
	"context"
	"net/http"
	"time"

	identityModel "github.com/frahmantamala/identity-access/internal/core/datamodel/identity"
	tenantModel "github.com/frahmantamala/identity-access/internal/core/datamodel/tenant"
)

type ctxKey string

const ContextUserKey ctxKey = "user"

// UserFromContext returns the authenticated user attached by AuthMiddleware.
func UserFromContext(ctx context.Context) (*identityModel.User, bool) {
	u, ok := ctx.Value(ContextUserKey).(*identityModel.User)
	return u, ok
}

// CredentialStore is the persistence contract for everything a login attempt
// touches. Implementations own the hashing of secrets and answers; the
// counter operations must be atomic against concurrent attempts for the same
// user.
type CredentialStore interface {
	GetUser(ctx context.Context, userID string) (*identityModel.User, error)
	Verify(ctx context.Context, userID, secret string) (bool, error)
	VerifyAnswer(ctx context.Context, userID, answer string) (bool, error)

	// IncrementAttemptAndMaybeLock adds one failed attempt and, in the same
	// write, flips the account to Locked when the new count reaches the
	// threshold. There is never a state where the count exceeds the
	// threshold while the account is still Active.
	IncrementAttemptAndMaybeLock(ctx context.Context, userID string, threshold int) (newCount int, nowLocked bool, err error)

	// ResetAttempts zeroes the failed-attempt counter without touching the
	// account status.
	ResetAttempts(ctx context.Context, userID string) error

	// RestoreActive zeroes the counter and returns the account to Active.
	// Used by the recovery flow, the only non-administrative unlock path.
	RestoreActive(ctx context.Context, userID string) error

	SetSecret(ctx context.Context, userID, newSecret string, changedAt time.Time) error
}

// PolicyStore resolves the password policy of the tenant a user belongs to.
type PolicyStore interface {
	GetPolicy(ctx context.Context, tenantID int64) (tenantModel.PasswordPolicy, error)
}

// SessionIssuer mints an opaque session token after a successful login.
type SessionIssuer interface {
	Issue(ctx context.Context, userID string) (string, error)
}

// SessionValidator checks a presented session token. The login state machine
// only issues tokens; validation is a transport concern used by the
// middleware.
type SessionValidator interface {
	Validate(tokenString string) (*SessionClaims, error)
}

// LoginResult is the outcome of one authentication attempt. StatusCode is one
// of 200, 401, 423, 404; infrastructure failures are returned as errors, not
// results.
type LoginResult struct {
	StatusCode             int    `json:"status_code"`
	Message                string `json:"message"`
	RequiresPasswordChange bool   `json:"requires_password_change"`
	AttemptsRemaining      *int   `json:"attempts_remaining,omitempty"`
	IsBlocked              bool   `json:"is_blocked"`
	UserID                 string `json:"user_id,omitempty"`
	SessionToken           string `json:"session_token,omitempty"`
}

func (r *LoginResult) Succeeded() bool {
	return r.StatusCode == http.StatusOK
}

type ServiceAPI interface {
	Login(ctx context.Context, dto LoginDTO) (*LoginResult, error)
	ChangePassword(ctx context.Context, userID string, dto ChangePasswordDTO) error
	GetUser(ctx context.Context, userID string) (*identityModel.User, error)
}
