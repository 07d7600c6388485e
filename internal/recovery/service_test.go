package recovery

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/frahmantamala/identity-access/internal"
	identityModel "github.com/frahmantamala/identity-access/internal/core/datamodel/identity"
	tenantModel "github.com/frahmantamala/identity-access/internal/core/datamodel/tenant"
	"github.com/frahmantamala/identity-access/pkg/logger"
)

func TestRecovery(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Recovery Module Suite")
}

func intPtr(v int) *int { return &v }

type mockCredentialStore struct {
	users   map[string]*identityModel.User
	answers map[string]string
	secrets map[string]string

	returnError   bool
	errorToReturn error
}

func newMockCredentialStore() *mockCredentialStore {
	return &mockCredentialStore{
		users:   make(map[string]*identityModel.User),
		answers: make(map[string]string),
		secrets: make(map[string]string),
	}
}

func (m *mockCredentialStore) addUser(u *identityModel.User, answer string) {
	m.users[u.ID] = u
	m.answers[u.ID] = identityModel.NormalizeAnswer(answer)
}

func (m *mockCredentialStore) GetUser(_ context.Context, userID string) (*identityModel.User, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	if u, ok := m.users[userID]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, internal.ErrAccountNotFound
}

func (m *mockCredentialStore) Verify(_ context.Context, _, _ string) (bool, error) {
	return false, nil
}

func (m *mockCredentialStore) VerifyAnswer(_ context.Context, userID, answer string) (bool, error) {
	if m.returnError {
		return false, m.errorToReturn
	}
	stored, ok := m.answers[userID]
	return ok && stored == identityModel.NormalizeAnswer(answer), nil
}

func (m *mockCredentialStore) IncrementAttemptAndMaybeLock(_ context.Context, _ string, _ int) (int, bool, error) {
	return 0, false, errors.New("not used in recovery")
}

func (m *mockCredentialStore) ResetAttempts(_ context.Context, _ string) error {
	return errors.New("not used in recovery")
}

func (m *mockCredentialStore) RestoreActive(_ context.Context, userID string) error {
	if m.returnError {
		return m.errorToReturn
	}
	u := m.users[userID]
	u.FailedAttempts = 0
	u.Status = identityModel.StatusActive
	return nil
}

func (m *mockCredentialStore) SetSecret(_ context.Context, userID, newSecret string, changedAt time.Time) error {
	if m.returnError {
		return m.errorToReturn
	}
	m.secrets[userID] = newSecret
	m.users[userID].LastPasswordChangeAt = changedAt
	return nil
}

type mockPolicyStore struct {
	policy tenantModel.PasswordPolicy
}

func (m *mockPolicyStore) GetPolicy(_ context.Context, _ int64) (tenantModel.PasswordPolicy, error) {
	return m.policy, nil
}

var _ = ginkgo.Describe("Recovery Service", func() {
	var (
		store    *mockCredentialStore
		policies *mockPolicyStore
		svc      *Service
		ctx      context.Context
	)

	ginkgo.BeforeEach(func() {
		store = newMockCredentialStore()
		policies = &mockPolicyStore{policy: tenantModel.PasswordPolicy{MinLength: intPtr(8)}}
		svc = NewService(store, policies, nil, logger.LoggerWrapper())
		ctx = context.Background()
	})

	ginkgo.Describe("GetChallenge", func() {
		ginkgo.It("returns the question and status for an active user", func() {
			store.addUser(&identityModel.User{
				ID:               "jdoe",
				TenantID:         1,
				SecurityQuestion: "name of your first pet",
				Status:           identityModel.StatusActive,
			}, "rex")

			challenge, err := svc.GetChallenge(ctx, "jdoe")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(challenge.Question).To(gomega.Equal("name of your first pet"))
			gomega.Expect(challenge.UserStatus).To(gomega.Equal(identityModel.StatusActive))
		})

		ginkgo.It("serves locked users too", func() {
			store.addUser(&identityModel.User{
				ID:               "jdoe",
				TenantID:         1,
				SecurityQuestion: "name of your first pet",
				Status:           identityModel.StatusLocked,
			}, "rex")

			challenge, err := svc.GetChallenge(ctx, "jdoe")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(challenge.UserStatus).To(gomega.Equal(identityModel.StatusLocked))
		})

		ginkgo.It("normalizes the identifier before lookup", func() {
			store.addUser(&identityModel.User{ID: "jdoe", Status: identityModel.StatusActive}, "rex")

			_, err := svc.GetChallenge(ctx, "  JDoe  ")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
		})

		ginkgo.It("returns account-not-found for unknown users", func() {
			_, err := svc.GetChallenge(ctx, "ghost")
			gomega.Expect(err).To(gomega.MatchError(internal.ErrAccountNotFound))
		})
	})

	ginkgo.Describe("ValidateAndReset", func() {
		newLockedUser := func() {
			store.addUser(&identityModel.User{
				ID:             "jdoe",
				TenantID:       1,
				Status:         identityModel.StatusLocked,
				FailedAttempts: 3,
			}, "rex")
		}

		ginkgo.It("stores the new secret and unlocks a locked account", func() {
			newLockedUser()

			err := svc.ValidateAndReset(ctx, ResetDTO{UserID: "jdoe", Answer: "rex", NewPassword: "longenough"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(store.secrets["jdoe"]).To(gomega.Equal("longenough"))
			gomega.Expect(store.users["jdoe"].Status).To(gomega.Equal(identityModel.StatusActive))
			gomega.Expect(store.users["jdoe"].FailedAttempts).To(gomega.Equal(0))
		})

		ginkgo.It("accepts answers differing only in case and surrounding whitespace", func() {
			newLockedUser()

			err := svc.ValidateAndReset(ctx, ResetDTO{UserID: "jdoe", Answer: "  REX ", NewPassword: "longenough"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
		})

		ginkgo.It("rejects a wrong answer and leaves the account untouched", func() {
			newLockedUser()

			err := svc.ValidateAndReset(ctx, ResetDTO{UserID: "jdoe", Answer: "fido", NewPassword: "longenough"})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrAnswerMismatch))
			gomega.Expect(store.secrets).NotTo(gomega.HaveKey("jdoe"))
			gomega.Expect(store.users["jdoe"].Status).To(gomega.Equal(identityModel.StatusLocked))
			gomega.Expect(store.users["jdoe"].FailedAttempts).To(gomega.Equal(3))
		})

		ginkgo.It("rejects a new password that violates the tenant policy", func() {
			newLockedUser()

			err := svc.ValidateAndReset(ctx, ResetDTO{UserID: "jdoe", Answer: "rex", NewPassword: "short"})
			gomega.Expect(err).To(gomega.HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodePolicyViolation))
			gomega.Expect(store.secrets).NotTo(gomega.HaveKey("jdoe"))
			gomega.Expect(store.users["jdoe"].Status).To(gomega.Equal(identityModel.StatusLocked))
		})

		ginkgo.It("resets an active account without flipping its status", func() {
			store.addUser(&identityModel.User{
				ID:       "jdoe",
				TenantID: 1,
				Status:   identityModel.StatusActive,
			}, "rex")

			err := svc.ValidateAndReset(ctx, ResetDTO{UserID: "jdoe", Answer: "rex", NewPassword: "longenough"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(store.users["jdoe"].Status).To(gomega.Equal(identityModel.StatusActive))
		})

		ginkgo.It("returns account-not-found for unknown users", func() {
			err := svc.ValidateAndReset(ctx, ResetDTO{UserID: "ghost", Answer: "rex", NewPassword: "longenough"})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrAccountNotFound))
		})

		ginkgo.It("rejects incomplete requests", func() {
			err := svc.ValidateAndReset(ctx, ResetDTO{UserID: "jdoe"})
			gomega.Expect(err).To(gomega.BeAssignableToTypeOf(ValidationError{}))
		})

		ginkgo.It("propagates infrastructure failures", func() {
			newLockedUser()
			store.returnError = true
			store.errorToReturn = errors.New("connection refused")

			err := svc.ValidateAndReset(ctx, ResetDTO{UserID: "jdoe", Answer: "rex", NewPassword: "longenough"})
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(errors.Is(err, internal.ErrAnswerMismatch)).To(gomega.BeFalse())
		})
	})
})
