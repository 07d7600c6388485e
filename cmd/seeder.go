package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	accessModel "github.com/frahmantamala/identity-access/internal/core/datamodel/access"
	identityModel "github.com/frahmantamala/identity-access/internal/core/datamodel/identity"
	tenantModel "github.com/frahmantamala/identity-access/internal/core/datamodel/tenant"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlDB.Close()

		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			for _, table := range []string{"role_permissions", "access_logs", "users", "options", "menus", "modules", "roles", "tenants"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		intPtr := func(v int) *int { return &v }

		tenant := tenantModel.Tenant{
			ID:   1,
			Name: "Acme Corp",
			PasswordPolicy: tenantModel.PasswordPolicy{
				MinUppercase:      intPtr(1),
				MinLowercase:      intPtr(1),
				MinDigits:         intPtr(1),
				MinLength:         intPtr(8),
				MaxFailedAttempts: intPtr(3),
				ExpirationDays:    intPtr(90),
			},
		}
		if err := db.FirstOrCreate(&tenant, tenantModel.Tenant{ID: 1}).Error; err != nil {
			log.Fatalf("failed to seed tenant: %v", err)
		}
		fmt.Println("Seeded tenant:", tenant.Name)

		module := accessModel.Module{ID: 1, Name: "Administration", SortOrder: 1}
		if err := db.FirstOrCreate(&module, accessModel.Module{ID: 1}).Error; err != nil {
			log.Fatalf("failed to seed module: %v", err)
		}

		menu := accessModel.Menu{ID: 1, ModuleID: module.ID, Name: "Security", SortOrder: 1}
		if err := db.FirstOrCreate(&menu, accessModel.Menu{ID: 1}).Error; err != nil {
			log.Fatalf("failed to seed menu: %v", err)
		}

		options := []accessModel.Option{
			{ID: 1, MenuID: menu.ID, Name: "Tenants", Page: "tenants", SortOrder: 1},
			{ID: 5, MenuID: menu.ID, Name: "Roles", Page: "roles", SortOrder: 2},
			{ID: 9, MenuID: menu.ID, Name: "Users", Page: "users", SortOrder: 3},
			{ID: 10, MenuID: menu.ID, Name: "Role Grants", Page: "role-grants", SortOrder: 4},
		}
		for _, opt := range options {
			if err := db.FirstOrCreate(&opt, accessModel.Option{ID: opt.ID}).Error; err != nil {
				log.Fatalf("failed to seed option %s: %v", opt.Name, err)
			}
		}
		fmt.Println("Seeded module/menu/option tree")

		roles := []accessModel.Role{
			{ID: 1, Name: "administrator"},
			{ID: 2, Name: "operator"},
		}
		for _, role := range roles {
			if err := db.FirstOrCreate(&role, accessModel.Role{ID: role.ID}).Error; err != nil {
				log.Fatalf("failed to seed role %s: %v", role.Name, err)
			}
		}

		// Administrators get every flag on every option; operators can only
		// view users (print grant, no create/delete/update).
		for _, opt := range options {
			adminGrant := accessModel.RolePermission{
				RoleID:    1,
				OptionID:  opt.ID,
				CanCreate: true,
				CanDelete: true,
				CanUpdate: true,
				CanPrint:  true,
				CanExport: true,
			}
			if err := db.FirstOrCreate(&adminGrant, accessModel.RolePermission{RoleID: 1, OptionID: opt.ID}).Error; err != nil {
				log.Fatalf("failed to seed admin grant: %v", err)
			}
		}
		operatorGrant := accessModel.RolePermission{RoleID: 2, OptionID: 9, CanPrint: true}
		if err := db.FirstOrCreate(&operatorGrant, accessModel.RolePermission{RoleID: 2, OptionID: 9}).Error; err != nil {
			log.Fatalf("failed to seed operator grant: %v", err)
		}
		fmt.Println("Seeded roles and grants")

		passwordHash, _ := bcrypt.GenerateFromPassword([]byte("Administrator1"), cfg.Security.BCryptCost)
		answerHash, _ := bcrypt.GenerateFromPassword([]byte("rex"), cfg.Security.BCryptCost)

		users := []identityModel.User{
			{
				ID:                   "admin",
				TenantID:             tenant.ID,
				RoleID:               1,
				FirstName:            "Admin",
				Email:                "admin@acme.test",
				PasswordHash:         string(passwordHash),
				SecurityQuestion:     "name of your first pet",
				SecurityAnswerHash:   string(answerHash),
				Status:               identityModel.StatusActive,
				LastPasswordChangeAt: time.Now(),
			},
			{
				ID:                   "operator",
				TenantID:             tenant.ID,
				RoleID:               2,
				FirstName:            "Operator",
				Email:                "operator@acme.test",
				PasswordHash:         string(passwordHash),
				SecurityQuestion:     "name of your first pet",
				SecurityAnswerHash:   string(answerHash),
				Status:               identityModel.StatusActive,
				LastPasswordChangeAt: time.Now(),
			},
		}
		for _, user := range users {
			if err := db.FirstOrCreate(&user, identityModel.User{ID: user.ID}).Error; err != nil {
				log.Fatalf("failed to seed user %s: %v", user.ID, err)
			}
			fmt.Println("Seeded user:", user.ID)
		}

		fmt.Println("Seeding complete")
	},
}
