package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeLoginSucceeded  = "security.login_succeeded"
	EventTypeLoginFailed     = "security.login_failed"
	EventTypeAccountLocked   = "security.account_locked"
	EventTypePasswordChanged = "security.password_changed"
	EventTypePasswordReset   = "security.password_reset"
)

// DeviceMetadata describes the client that performed a security-relevant
// action, as reported by the transport layer.
type DeviceMetadata struct {
	IP        string `json:"ip"`
	UserAgent string `json:"user_agent"`
	OS        string `json:"os"`
	Device    string `json:"device"`
	Browser   string `json:"browser"`
}

type LoginSucceededEvent struct {
	BaseEvent
	UserID string         `json:"user_id"`
	Device DeviceMetadata `json:"device"`
}

func NewLoginSucceededEvent(userID string, device DeviceMetadata) *LoginSucceededEvent {
	return &LoginSucceededEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeLoginSucceeded,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id":    userID,
				"ip":         device.IP,
				"user_agent": device.UserAgent,
				"os":         device.OS,
				"device":     device.Device,
				"browser":    device.Browser,
			},
		},
		UserID: userID,
		Device: device,
	}
}

type LoginFailedEvent struct {
	BaseEvent
	UserID            string         `json:"user_id"`
	AttemptsRemaining int            `json:"attempts_remaining"`
	Device            DeviceMetadata `json:"device"`
}

func NewLoginFailedEvent(userID string, attemptsRemaining int, device DeviceMetadata) *LoginFailedEvent {
	return &LoginFailedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeLoginFailed,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id":            userID,
				"attempts_remaining": attemptsRemaining,
				"ip":                 device.IP,
				"user_agent":         device.UserAgent,
			},
		},
		UserID:            userID,
		AttemptsRemaining: attemptsRemaining,
		Device:            device,
	}
}

type AccountLockedEvent struct {
	BaseEvent
	UserID         string         `json:"user_id"`
	FailedAttempts int            `json:"failed_attempts"`
	Device         DeviceMetadata `json:"device"`
}

func NewAccountLockedEvent(userID string, failedAttempts int, device DeviceMetadata) *AccountLockedEvent {
	return &AccountLockedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeAccountLocked,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id":         userID,
				"failed_attempts": failedAttempts,
				"ip":              device.IP,
				"user_agent":      device.UserAgent,
			},
		},
		UserID:         userID,
		FailedAttempts: failedAttempts,
		Device:         device,
	}
}

type PasswordChangedEvent struct {
	BaseEvent
	UserID string `json:"user_id"`
}

func NewPasswordChangedEvent(userID string) *PasswordChangedEvent {
	return &PasswordChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePasswordChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id": userID,
			},
		},
		UserID: userID,
	}
}

// PasswordResetEvent marks a recovery-flow reset, the only path that clears a
// lockout without administrative action.
type PasswordResetEvent struct {
	BaseEvent
	UserID   string `json:"user_id"`
	Unlocked bool   `json:"unlocked"`
}

func NewPasswordResetEvent(userID string, unlocked bool) *PasswordResetEvent {
	return &PasswordResetEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePasswordReset,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id":  userID,
				"unlocked": unlocked,
			},
		},
		UserID:   userID,
		Unlocked: unlocked,
	}
}
