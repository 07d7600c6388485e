package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	auditModel "github.com/frahmantamala/identity-access/internal/core/datamodel/audit"
)

// AuditRepository implements audit.RepositoryAPI using GORM.
type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Append inserts the entry, silently skipping redeliveries of the same event.
func (r *AuditRepository) Append(ctx context.Context, entry *auditModel.AccessLogEntry) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}},
		DoNothing: true,
	}).Create(entry).Error
}

func (r *AuditRepository) ListByUser(ctx context.Context, userID string, since time.Time, limit int) ([]auditModel.AccessLogEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var entries []auditModel.AccessLogEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND occurred_at >= ?", userID, since).
		Order("occurred_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
