package audit

import "time"

// AccessLogEntry is one security-relevant occurrence: a login outcome, a
// lockout, a password change or a recovery reset, with whatever device
// metadata the transport captured.
type AccessLogEntry struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	EventID    string    `gorm:"column:event_id;uniqueIndex;not null"`
	EventType  string    `gorm:"column:event_type;not null"`
	UserID     string    `gorm:"column:user_id;not null;index"`
	IP         string    `gorm:"column:ip;size:50"`
	UserAgent  string    `gorm:"column:user_agent;size:200"`
	OS         string    `gorm:"column:os;size:50"`
	Device     string    `gorm:"column:device;size:50"`
	Browser    string    `gorm:"column:browser;size:50"`
	Detail     string    `gorm:"column:detail"`
	OccurredAt time.Time `gorm:"column:occurred_at;not null;index"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (AccessLogEntry) TableName() string {
	return "access_logs"
}
