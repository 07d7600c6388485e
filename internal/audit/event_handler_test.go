package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	auditModel "github.com/frahmantamala/identity-access/internal/core/datamodel/audit"
	"github.com/frahmantamala/identity-access/internal/core/events"
	"github.com/frahmantamala/identity-access/pkg/logger"
)

func TestAudit(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Audit Module Suite")
}

type mockRepository struct {
	entries []auditModel.AccessLogEntry

	returnError   bool
	errorToReturn error
}

func (m *mockRepository) Append(_ context.Context, entry *auditModel.AccessLogEntry) error {
	if m.returnError {
		return m.errorToReturn
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockRepository) ListByUser(_ context.Context, _ string, _ time.Time, _ int) ([]auditModel.AccessLogEntry, error) {
	return m.entries, nil
}

var _ = ginkgo.Describe("Audit Event Handler", func() {
	var (
		repo    *mockRepository
		handler *EventHandler
		ctx     context.Context
	)

	device := events.DeviceMetadata{
		IP:        "203.0.113.9",
		UserAgent: "Mozilla/5.0",
		OS:        "Linux",
		Device:    "Desktop",
		Browser:   "Firefox",
	}

	ginkgo.BeforeEach(func() {
		repo = &mockRepository{}
		handler = NewEventHandler(repo, logger.LoggerWrapper())
		ctx = context.Background()
	})

	ginkgo.It("records a failed login with its device metadata", func() {
		event := events.NewLoginFailedEvent("jdoe", 2, device)

		gomega.Expect(handler.HandleSecurityEvent(ctx, event)).To(gomega.Succeed())
		gomega.Expect(repo.entries).To(gomega.HaveLen(1))

		entry := repo.entries[0]
		gomega.Expect(entry.EventType).To(gomega.Equal(events.EventTypeLoginFailed))
		gomega.Expect(entry.UserID).To(gomega.Equal("jdoe"))
		gomega.Expect(entry.IP).To(gomega.Equal("203.0.113.9"))
		gomega.Expect(entry.Browser).To(gomega.Equal("Firefox"))
		gomega.Expect(entry.Detail).To(gomega.Equal("attempts_remaining=2"))
	})

	ginkgo.It("records a lockout", func() {
		event := events.NewAccountLockedEvent("jdoe", 3, device)

		gomega.Expect(handler.HandleSecurityEvent(ctx, event)).To(gomega.Succeed())
		gomega.Expect(repo.entries[0].EventType).To(gomega.Equal(events.EventTypeAccountLocked))
		gomega.Expect(repo.entries[0].Detail).To(gomega.Equal("failed_attempts=3"))
	})

	ginkgo.It("records a recovery reset without device metadata", func() {
		event := events.NewPasswordResetEvent("jdoe", true)

		gomega.Expect(handler.HandleSecurityEvent(ctx, event)).To(gomega.Succeed())
		gomega.Expect(repo.entries[0].EventType).To(gomega.Equal(events.EventTypePasswordReset))
		gomega.Expect(repo.entries[0].Detail).To(gomega.Equal("unlocked=true"))
		gomega.Expect(repo.entries[0].IP).To(gomega.BeEmpty())
	})

	ginkgo.It("receives events published synchronously on the bus", func() {
		bus := events.NewEventBus(logger.LoggerWrapper())
		handler.RegisterEventHandlers(bus)

		gomega.Expect(bus.PublishSync(ctx, events.NewLoginSucceededEvent("jdoe", device))).To(gomega.Succeed())
		gomega.Expect(repo.entries).To(gomega.HaveLen(1))
		gomega.Expect(repo.entries[0].EventType).To(gomega.Equal(events.EventTypeLoginSucceeded))
	})

	ginkgo.It("surfaces repository failures", func() {
		repo.returnError = true
		repo.errorToReturn = errors.New("connection refused")

		err := handler.HandleSecurityEvent(ctx, events.NewPasswordChangedEvent("jdoe"))
		gomega.Expect(err).To(gomega.HaveOccurred())
	})
})
