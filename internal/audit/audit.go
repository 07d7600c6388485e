package audit

import (
	"context"
	"time"

	auditModel "github.com/frahmantamala/identity-access/internal/core/datamodel/audit"
)

// RepositoryAPI persists access-log rows. Append is idempotent on the event
// id so a redelivered event never produces a duplicate row.
type RepositoryAPI interface {
	Append(ctx context.Context, entry *auditModel.AccessLogEntry) error
	ListByUser(ctx context.Context, userID string, since time.Time, limit int) ([]auditModel.AccessLogEntry, error)
}
