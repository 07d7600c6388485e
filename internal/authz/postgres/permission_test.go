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

	"github.com/frahmantamala/identity-access/internal"
	authzPostgres "github.com/frahmantamala/identity-access/internal/authz/postgres"
	accessModel "github.com/frahmantamala/identity-access/internal/core/datamodel/access"
)

func TestPermissionPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Permission Postgres Suite")
}

// SQLiteUser is a SQLite-compatible model for testing
type SQLiteUser struct {
	ID        string    `gorm:"primaryKey;column:id"`
	TenantID  int64     `gorm:"column:tenant_id"`
	RoleID    int64     `gorm:"column:role_id"`
	Status    string    `gorm:"column:status"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (SQLiteUser) TableName() string {
	return "users"
}

var _ = Describe("Permission Repository", func() {
	var (
		db   *gorm.DB
		repo *authzPostgres.PermissionRepository
		ctx  context.Context
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(db.AutoMigrate(&SQLiteUser{}, &accessModel.RolePermission{})).NotTo(HaveOccurred())

		repo = authzPostgres.NewPermissionRepository(db)
		ctx = context.Background()
	})

	Describe("GetPermissions", func() {
		It("returns the stored grant", func() {
			grant := accessModel.RolePermission{RoleID: 1, OptionID: 9, CanCreate: true, CanExport: true}
			Expect(db.Create(&grant).Error).NotTo(HaveOccurred())

			got, err := repo.GetPermissions(ctx, 1, 9)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).NotTo(BeNil())
			Expect(got.CanCreate).To(BeTrue())
			Expect(got.CanDelete).To(BeFalse())
			Expect(got.CanExport).To(BeTrue())
		})

		It("returns nil without error when no row exists", func() {
			got, err := repo.GetPermissions(ctx, 1, 9)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeNil())
		})
	})

	Describe("UpsertGrant", func() {
		It("inserts a new grant", func() {
			grant := accessModel.RolePermission{RoleID: 2, OptionID: 5, CanUpdate: true}
			Expect(repo.UpsertGrant(ctx, grant)).To(Succeed())

			got, err := repo.GetPermissions(ctx, 2, 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).NotTo(BeNil())
			Expect(got.CanUpdate).To(BeTrue())
		})

		It("replaces the flags of an existing grant", func() {
			Expect(repo.UpsertGrant(ctx, accessModel.RolePermission{RoleID: 2, OptionID: 5, CanUpdate: true})).To(Succeed())
			Expect(repo.UpsertGrant(ctx, accessModel.RolePermission{RoleID: 2, OptionID: 5, CanPrint: true})).To(Succeed())

			got, err := repo.GetPermissions(ctx, 2, 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).NotTo(BeNil())
			Expect(got.CanUpdate).To(BeFalse())
			Expect(got.CanPrint).To(BeTrue())
		})
	})

	Describe("GetRoleID", func() {
		It("resolves a user's role case-insensitively", func() {
			Expect(db.Create(&SQLiteUser{ID: "jdoe", TenantID: 1, RoleID: 7, Status: "ACTIVE"}).Error).NotTo(HaveOccurred())

			roleID, err := repo.GetRoleID(ctx, "JDoe")
			Expect(err).NotTo(HaveOccurred())
			Expect(roleID).To(Equal(int64(7)))
		})

		It("returns account-not-found for unknown users", func() {
			_, err := repo.GetRoleID(ctx, "ghost")
			Expect(err).To(MatchError(internal.ErrAccountNotFound))
		})
	})
})
