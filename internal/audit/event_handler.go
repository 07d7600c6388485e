package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/identity-access/internal"
	auditModel "github.com/frahmantamala/identity-access/internal/core/datamodel/audit"
	"github.com/frahmantamala/identity-access/internal/core/events"
)

// EventHandler turns security events into access-log rows.
type EventHandler struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewEventHandler(repo RepositoryAPI, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		repo:   repo,
		logger: logger,
	}
}

func (h *EventHandler) HandleSecurityEvent(ctx context.Context, event events.Event) error {
	entry := &auditModel.AccessLogEntry{
		EventID:    event.EventID(),
		EventType:  event.EventType(),
		OccurredAt: event.OccurredAt(),
	}

	switch e := event.(type) {
	case *events.LoginSucceededEvent:
		entry.UserID = e.UserID
		fillDevice(entry, e.Device)
	case *events.LoginFailedEvent:
		entry.UserID = e.UserID
		entry.Detail = fmt.Sprintf("attempts_remaining=%d", e.AttemptsRemaining)
		fillDevice(entry, e.Device)
	case *events.AccountLockedEvent:
		entry.UserID = e.UserID
		entry.Detail = fmt.Sprintf("failed_attempts=%d", e.FailedAttempts)
		fillDevice(entry, e.Device)
	case *events.PasswordChangedEvent:
		entry.UserID = e.UserID
	case *events.PasswordResetEvent:
		entry.UserID = e.UserID
		entry.Detail = fmt.Sprintf("unlocked=%t", e.Unlocked)
	default:
		h.logger.Error("unexpected event type for access log", "event_type", event.EventType())
		return fmt.Errorf("unexpected event type %T", event)
	}

	// Bus handlers run detached from the request; bound the write anyway.
	ctx, cancel := internal.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := h.repo.Append(ctx, entry); err != nil {
		h.logger.Error("failed to append access log entry",
			"error", err,
			"event_type", entry.EventType,
			"event_id", entry.EventID,
			"user_id", entry.UserID)
		return err
	}

	h.logger.Info("access log entry recorded",
		"event_type", entry.EventType,
		"event_id", entry.EventID,
		"user_id", entry.UserID)
	return nil
}

func fillDevice(entry *auditModel.AccessLogEntry, device events.DeviceMetadata) {
	entry.IP = device.IP
	entry.UserAgent = device.UserAgent
	entry.OS = device.OS
	entry.Device = device.Device
	entry.Browser = device.Browser
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	types := []string{
		events.EventTypeLoginSucceeded,
		events.EventTypeLoginFailed,
		events.EventTypeAccountLocked,
		events.EventTypePasswordChanged,
		events.EventTypePasswordReset,
	}
	for _, t := range types {
		eventBus.Subscribe(t, h.HandleSecurityEvent)
	}

	h.logger.Info("audit event handlers registered", "handlers", types)
}
