package tenant

import "time"

// PasswordPolicy holds the per-tenant password composition and lockout rules.
// Nil fields mean the dimension is not enforced for that tenant.
type PasswordPolicy struct {
	MinUppercase              *int `gorm:"column:password_min_uppercase"`
	MinLowercase              *int `gorm:"column:password_min_lowercase"`
	MinSpecialChars           *int `gorm:"column:password_min_special_chars"`
	MinDigits                 *int `gorm:"column:password_min_digits"`
	MinLength                 *int `gorm:"column:password_min_length"`
	MaxFailedAttempts         *int `gorm:"column:password_max_failed_attempts"`
	ExpirationDays            *int `gorm:"column:password_expiration_days"`
	RequiredSecurityQuestions *int `gorm:"column:password_required_questions"`
}

type Tenant struct {
	ID             int64  `gorm:"primaryKey"`
	Name           string `gorm:"column:name;uniqueIndex;not null"`
	Address        string `gorm:"column:address"`
	TaxID          string `gorm:"column:tax_id"`
	PasswordPolicy `gorm:"embedded"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
