package recovery

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/identity-access/internal"
	"github.com/frahmantamala/identity-access/internal/auth"
	identityModel "github.com/frahmantamala/identity-access/internal/core/datamodel/identity"
	"github.com/frahmantamala/identity-access/internal/core/events"
	"github.com/frahmantamala/identity-access/internal/policy"
)

type Service struct {
	credentials auth.CredentialStore
	policies    auth.PolicyStore
	bus         *events.EventBus
	logger      *slog.Logger

	now func() time.Time
}

func NewService(credentials auth.CredentialStore, policies auth.PolicyStore, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		credentials: credentials,
		policies:    policies,
		bus:         bus,
		logger:      logger,
		now:         time.Now,
	}
}

// GetChallenge returns the user's security question. Locked accounts are
// served too: recovery is exactly how they get back in.
func (s *Service) GetChallenge(ctx context.Context, userID string) (*Challenge, error) {
	user, err := s.credentials.GetUser(ctx, identityModel.NormalizeUserID(userID))
	if err != nil {
		return nil, err
	}

	return &Challenge{
		Question:   user.SecurityQuestion,
		UserStatus: user.Status,
	}, nil
}

// ValidateAndReset checks the security answer and, when it matches, stores a
// policy-compliant new password, clears the failed-attempt counter and
// returns a locked account to Active. A wrong answer leaves everything
// untouched.
func (s *Service) ValidateAndReset(ctx context.Context, dto ResetDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	userID := identityModel.NormalizeUserID(dto.UserID)

	user, err := s.credentials.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	matches, err := s.credentials.VerifyAnswer(ctx, userID, dto.Answer)
	if err != nil {
		return fmt.Errorf("verify security answer: %w", err)
	}
	if !matches {
		s.logger.Warn("recovery answer mismatch", "user_id", userID)
		return internal.ErrAnswerMismatch
	}

	pol, err := s.policies.GetPolicy(ctx, user.TenantID)
	if err != nil {
		return fmt.Errorf("load tenant policy: %w", err)
	}

	if violations := policy.Validate(dto.NewPassword, pol); len(violations) > 0 {
		return auth.PolicyViolationError(violations)
	}

	if err := s.credentials.SetSecret(ctx, userID, dto.NewPassword, s.now()); err != nil {
		return fmt.Errorf("store new password: %w", err)
	}

	wasLocked := user.Status == identityModel.StatusLocked
	if err := s.credentials.RestoreActive(ctx, userID); err != nil {
		return fmt.Errorf("restore account: %w", err)
	}

	s.publish(events.NewPasswordResetEvent(userID, wasLocked))
	s.logger.Info("password reset through recovery", "user_id", userID, "unlocked", wasLocked)
	return nil
}

func (s *Service) publish(event events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(context.Background(), event); err != nil {
		s.logger.Error("failed to publish security event", "error", err, "event_type", event.EventType())
	}
}
