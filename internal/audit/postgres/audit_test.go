package postgres_test

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	auditPostgres "github.com/frahmantamala/identity-access/internal/audit/postgres"
	auditModel "github.com/frahmantamala/identity-access/internal/core/datamodel/audit"
)

func TestAuditPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Audit Postgres Suite")
}

var _ = Describe("Audit Repository", func() {
	var (
		db   *gorm.DB
		repo *auditPostgres.AuditRepository
		ctx  context.Context
	)

	entry := func(eventID, userID string, occurredAt time.Time) *auditModel.AccessLogEntry {
		return &auditModel.AccessLogEntry{
			EventID:    eventID,
			EventType:  "security.login_failed",
			UserID:     userID,
			IP:         "203.0.113.9",
			OccurredAt: occurredAt,
		}
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(db.AutoMigrate(&auditModel.AccessLogEntry{})).NotTo(HaveOccurred())

		repo = auditPostgres.NewAuditRepository(db)
		ctx = context.Background()
	})

	Describe("Append", func() {
		It("stores an entry", func() {
			Expect(repo.Append(ctx, entry("evt-1", "jdoe", time.Now()))).To(Succeed())

			var count int64
			Expect(db.Model(&auditModel.AccessLogEntry{}).Count(&count).Error).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(1)))
		})

		It("ignores a redelivered event id", func() {
			Expect(repo.Append(ctx, entry("evt-1", "jdoe", time.Now()))).To(Succeed())
			Expect(repo.Append(ctx, entry("evt-1", "jdoe", time.Now()))).To(Succeed())

			var count int64
			Expect(db.Model(&auditModel.AccessLogEntry{}).Count(&count).Error).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(1)))
		})
	})

	Describe("ListByUser", func() {
		It("returns entries newest first, scoped to the user and window", func() {
			now := time.Now()
			Expect(repo.Append(ctx, entry("evt-1", "jdoe", now.Add(-2*time.Hour)))).To(Succeed())
			Expect(repo.Append(ctx, entry("evt-2", "jdoe", now.Add(-1*time.Hour)))).To(Succeed())
			Expect(repo.Append(ctx, entry("evt-3", "other", now))).To(Succeed())
			Expect(repo.Append(ctx, entry("evt-4", "jdoe", now.AddDate(0, 0, -40)))).To(Succeed())

			entries, err := repo.ListByUser(ctx, "jdoe", now.AddDate(0, 0, -30), 100)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(2))
			Expect(entries[0].EventID).To(Equal("evt-2"))
			Expect(entries[1].EventID).To(Equal("evt-1"))
		})

		It("caps the result set at the limit", func() {
			now := time.Now()
			Expect(repo.Append(ctx, entry("evt-1", "jdoe", now.Add(-3*time.Hour)))).To(Succeed())
			Expect(repo.Append(ctx, entry("evt-2", "jdoe", now.Add(-2*time.Hour)))).To(Succeed())
			Expect(repo.Append(ctx, entry("evt-3", "jdoe", now.Add(-1*time.Hour)))).To(Succeed())

			entries, err := repo.ListByUser(ctx, "jdoe", now.AddDate(0, 0, -1), 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(2))
			Expect(entries[0].EventID).To(Equal("evt-3"))
		})
	})
})
