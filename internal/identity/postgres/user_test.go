package postgres_test

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/frahmantamala/identity-access/internal"
	identityModel "github.com/frahmantamala/identity-access/internal/core/datamodel/identity"
	identityPostgres "github.com/frahmantamala/identity-access/internal/identity/postgres"
)

func TestUserPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Postgres Suite")
}

// SQLiteUser is a SQLite-compatible model for testing
type SQLiteUser struct {
	ID                   string    `gorm:"primaryKey;column:id"`
	TenantID             int64     `gorm:"column:tenant_id"`
	RoleID               int64     `gorm:"column:role_id"`
	FirstName            string    `gorm:"column:first_name"`
	LastName             string    `gorm:"column:last_name"`
	Email                string    `gorm:"column:email"`
	Phone                string    `gorm:"column:phone"`
	PasswordHash         string    `gorm:"column:password_hash"`
	SecurityQuestion     string    `gorm:"column:security_question"`
	SecurityAnswerHash   string    `gorm:"column:security_answer_hash"`
	Status               string    `gorm:"column:status"`
	FailedAttempts       int       `gorm:"column:failed_attempts;default:0"`
	LastPasswordChangeAt time.Time `gorm:"column:last_password_change_at"`
	CreatedAt            time.Time `gorm:"column:created_at"`
	UpdatedAt            time.Time `gorm:"column:updated_at"`
}

func (SQLiteUser) TableName() string {
	return "users"
}

var _ = Describe("User Repository", func() {
	var (
		db   *gorm.DB
		repo *identityPostgres.UserRepository
		ctx  context.Context
	)

	newUser := func() *identityModel.User {
		return &identityModel.User{
			ID:                   "JDoe",
			TenantID:             1,
			RoleID:               7,
			FirstName:            "John",
			SecurityQuestion:     "name of your first pet",
			Status:               identityModel.StatusActive,
			LastPasswordChangeAt: time.Now(),
		}
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(db.AutoMigrate(&SQLiteUser{})).NotTo(HaveOccurred())

		repo = identityPostgres.NewUserRepository(db, bcrypt.MinCost)
		ctx = context.Background()
	})

	Describe("Create", func() {
		It("stores a normalized identifier and hashed credentials", func() {
			Expect(repo.Create(ctx, newUser(), "initial-password", "  Rex ")).To(Succeed())

			stored, err := repo.GetByID(ctx, "jdoe")
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.ID).To(Equal("jdoe"))
			Expect(stored.PasswordHash).NotTo(Equal("initial-password"))
			Expect(bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("initial-password"))).To(Succeed())
			Expect(bcrypt.CompareHashAndPassword([]byte(stored.SecurityAnswerHash), []byte("rex"))).To(Succeed())
		})

		It("rejects a duplicate identifier regardless of case", func() {
			Expect(repo.Create(ctx, newUser(), "initial-password", "rex")).To(Succeed())

			dup := newUser()
			dup.ID = "JDOE"
			err := repo.Create(ctx, dup, "other-password", "fido")
			Expect(err).To(MatchError(internal.ErrUserExists))
		})
	})

	Describe("GetByID", func() {
		It("returns account-not-found for unknown users", func() {
			_, err := repo.GetByID(ctx, "ghost")
			Expect(err).To(MatchError(internal.ErrAccountNotFound))
		})
	})

	Describe("SetStatus", func() {
		It("clears the failed-attempt counter when restoring to active", func() {
			Expect(repo.Create(ctx, newUser(), "initial-password", "rex")).To(Succeed())
			Expect(db.Model(&SQLiteUser{}).Where("id = ?", "jdoe").
				Updates(map[string]interface{}{"status": "LOCKED", "failed_attempts": 3}).Error).NotTo(HaveOccurred())

			Expect(repo.SetStatus(ctx, "jdoe", identityModel.StatusActive)).To(Succeed())

			stored, err := repo.GetByID(ctx, "jdoe")
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(identityModel.StatusActive))
			Expect(stored.FailedAttempts).To(Equal(0))
		})

		It("keeps the counter when deactivating", func() {
			Expect(repo.Create(ctx, newUser(), "initial-password", "rex")).To(Succeed())
			Expect(db.Model(&SQLiteUser{}).Where("id = ?", "jdoe").
				Update("failed_attempts", 2).Error).NotTo(HaveOccurred())

			Expect(repo.SetStatus(ctx, "jdoe", identityModel.StatusInactive)).To(Succeed())

			stored, err := repo.GetByID(ctx, "jdoe")
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(identityModel.StatusInactive))
			Expect(stored.FailedAttempts).To(Equal(2))
		})

		It("returns account-not-found for unknown users", func() {
			err := repo.SetStatus(ctx, "ghost", identityModel.StatusInactive)
			Expect(err).To(MatchError(internal.ErrAccountNotFound))
		})
	})
})
