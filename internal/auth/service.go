package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/frahmantamala/identity-access/internal"
	identityModel "github.com/frahmantamala/identity-access/internal/core/datamodel/identity"
	"github.com/frahmantamala/identity-access/internal/core/events"
	"github.com/frahmantamala/identity-access/internal/policy"
)

// Service runs the login state machine: policy lookup, credential
// verification, attempt counting and lockout. It holds no mutable state of
// its own; the per-user counter and status live in the CredentialStore.
type Service struct {
	credentials CredentialStore
	policies    PolicyStore
	sessions    SessionIssuer
	bus         *events.EventBus
	logger      *slog.Logger

	// now is swapped in tests for deterministic expiration checks.
	now func() time.Time
}

func NewService(credentials CredentialStore, policies PolicyStore, sessions SessionIssuer, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		credentials: credentials,
		policies:    policies,
		sessions:    sessions,
		bus:         bus,
		logger:      logger,
		now:         time.Now,
	}
}

// Login performs one authentication attempt. Business outcomes (success,
// invalid credentials, locked, not found) come back as a LoginResult; only
// infrastructure failures are returned as errors.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*LoginResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	userID := identityModel.NormalizeUserID(dto.UserID)

	user, err := s.credentials.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, internal.ErrAccountNotFound) {
			return &LoginResult{
				StatusCode: http.StatusNotFound,
				Message:    "user not found",
			}, nil
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	// A locked account short-circuits before any verification: the counter
	// is already saturated and must not move.
	if user.Status == identityModel.StatusLocked {
		return &LoginResult{
			StatusCode: http.StatusLocked,
			Message:    "account is locked",
			IsBlocked:  true,
		}, nil
	}

	if user.Status == identityModel.StatusInactive {
		return &LoginResult{
			StatusCode: http.StatusUnauthorized,
			Message:    "account is not active",
		}, nil
	}

	pol, err := s.policies.GetPolicy(ctx, user.TenantID)
	if err != nil {
		return nil, fmt.Errorf("load tenant policy: %w", err)
	}

	matches, err := s.credentials.Verify(ctx, userID, dto.Password)
	if err != nil {
		return nil, fmt.Errorf("verify credentials: %w", err)
	}

	if !matches {
		return s.recordFailure(ctx, userID, pol.MaxFailedAttempts, dto)
	}

	if err := s.credentials.ResetAttempts(ctx, userID); err != nil {
		return nil, fmt.Errorf("reset attempt counter: %w", err)
	}

	requiresChange := policy.ComputeExpired(user.LastPasswordChangeAt, pol, s.now())

	token, err := s.sessions.Issue(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}

	s.publish(events.NewLoginSucceededEvent(userID, dto.deviceMetadata()))
	s.logger.Info("login succeeded", "user_id", userID, "requires_password_change", requiresChange)

	return &LoginResult{
		StatusCode:             http.StatusOK,
		Message:                "login successful",
		RequiresPasswordChange: requiresChange,
		UserID:                 userID,
		SessionToken:           token,
	}, nil
}

// recordFailure counts one failed attempt. The increment and the lockout
// transition are a single store write; tenants without a lockout threshold
// get plain invalid-credentials responses and no counting.
func (s *Service) recordFailure(ctx context.Context, userID string, threshold *int, dto LoginDTO) (*LoginResult, error) {
	if threshold == nil || *threshold <= 0 {
		s.publish(events.NewLoginFailedEvent(userID, -1, dto.deviceMetadata()))
		return &LoginResult{
			StatusCode: http.StatusUnauthorized,
			Message:    "invalid credentials",
		}, nil
	}

	newCount, nowLocked, err := s.credentials.IncrementAttemptAndMaybeLock(ctx, userID, *threshold)
	if err != nil {
		return nil, fmt.Errorf("record failed attempt: %w", err)
	}

	if nowLocked {
		s.publish(events.NewAccountLockedEvent(userID, newCount, dto.deviceMetadata()))
		s.logger.Warn("account locked after repeated failures", "user_id", userID, "failed_attempts", newCount)
		return &LoginResult{
			StatusCode: http.StatusLocked,
			Message:    "account locked after too many failed attempts",
			IsBlocked:  true,
		}, nil
	}

	remaining := *threshold - newCount
	s.publish(events.NewLoginFailedEvent(userID, remaining, dto.deviceMetadata()))
	s.logger.Warn("login failed", "user_id", userID, "attempts_remaining", remaining)

	return &LoginResult{
		StatusCode:        http.StatusUnauthorized,
		Message:           "invalid credentials",
		AttemptsRemaining: &remaining,
	}, nil
}

// ChangePassword verifies the current secret before accepting a new one that
// satisfies the tenant policy.
func (s *Service) ChangePassword(ctx context.Context, userID string, dto ChangePasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	userID = identityModel.NormalizeUserID(userID)

	user, err := s.credentials.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	matches, err := s.credentials.Verify(ctx, userID, dto.CurrentPassword)
	if err != nil {
		return fmt.Errorf("verify current password: %w", err)
	}
	if !matches {
		return internal.ErrInvalidCredentials
	}

	pol, err := s.policies.GetPolicy(ctx, user.TenantID)
	if err != nil {
		return fmt.Errorf("load tenant policy: %w", err)
	}

	if violations := policy.Validate(dto.NewPassword, pol); len(violations) > 0 {
		return PolicyViolationError(violations)
	}

	if err := s.credentials.SetSecret(ctx, userID, dto.NewPassword, s.now()); err != nil {
		return fmt.Errorf("store new password: %w", err)
	}

	s.publish(events.NewPasswordChangedEvent(userID))
	s.logger.Info("password changed", "user_id", userID)
	return nil
}

func (s *Service) GetUser(ctx context.Context, userID string) (*identityModel.User, error) {
	return s.credentials.GetUser(ctx, identityModel.NormalizeUserID(userID))
}

func (s *Service) publish(event events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(context.Background(), event); err != nil {
		s.logger.Error("failed to publish security event", "error", err, "event_type", event.EventType())
	}
}

// PolicyViolationError converts policy violations into the shared AppError
// shape so callers can render every violated dimension at once.
func PolicyViolationError(violations []policy.Violation) *internal.AppError {
	errs := make([]internal.ValidationError, len(violations))
	for i, v := range violations {
		errs[i] = internal.ValidationError{
			Field:   "new_password",
			Message: v.Message,
			Code:    string(v.Dimension),
		}
	}
	return internal.NewValidationError("password does not satisfy the tenant policy", internal.ErrCodePolicyViolation).
		WithDetails(internal.ValidationErrors{Errors: errs})
}
