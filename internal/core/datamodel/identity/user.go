package identity

import (
	"strings"
	"time"
)

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusLocked   Status = "LOCKED"
	StatusInactive Status = "INACTIVE"
)

// User identifiers are case-insensitive: rows store the lower-cased form and
// lookups normalize before querying.
type User struct {
	ID                   string    `gorm:"primaryKey;column:id"`
	TenantID             int64     `gorm:"column:tenant_id;not null"`
	RoleID               int64     `gorm:"column:role_id;not null"`
	FirstName            string    `gorm:"column:first_name;not null"`
	LastName             string    `gorm:"column:last_name"`
	Email                string    `gorm:"column:email"`
	Phone                string    `gorm:"column:phone"`
	PasswordHash         string    `gorm:"column:password_hash;not null"`
	SecurityQuestion     string    `gorm:"column:security_question"`
	SecurityAnswerHash   string    `gorm:"column:security_answer_hash"`
	Status               Status    `gorm:"column:status;not null;default:ACTIVE"`
	FailedAttempts       int       `gorm:"column:failed_attempts;not null;default:0"`
	LastPasswordChangeAt time.Time `gorm:"column:last_password_change_at"`
	CreatedAt            time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// NormalizeUserID lowers and trims an identifier so lookups are
// case-insensitive.
func NormalizeUserID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// NormalizeAnswer canonicalizes a security answer before hashing or
// comparing: surrounding whitespace and letter case are ignored.
func NormalizeAnswer(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}
