package auth

import (
	"github.com/frahmantamala/identity-access/internal/core/events"
)

// LoginDTO is the transport shape used by the HTTP handler to accept login
// requests. Device metadata is optional; the handler fills missing fields
// from the request.
type LoginDTO struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`

	IP        string `json:"ip,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
	OS        string `json:"os,omitempty"`
	Device    string `json:"device,omitempty"`
	Browser   string `json:"browser,omitempty"`
}

type ChangePasswordDTO struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ValidationError represents a simple validation error from DTO validation.
type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

func (d LoginDTO) Validate() error {
	if d.UserID == "" {
		return ValidationError{Msg: "user_id is required"}
	}
	if d.Password == "" {
		return ValidationError{Msg: "password is required"}
	}
	return nil
}

func (d ChangePasswordDTO) Validate() error {
	if d.CurrentPassword == "" {
		return ValidationError{Msg: "current_password is required"}
	}
	if d.NewPassword == "" {
		return ValidationError{Msg: "new_password is required"}
	}
	return nil
}

func (d LoginDTO) deviceMetadata() events.DeviceMetadata {
	return events.DeviceMetadata{
		IP:        d.IP,
		UserAgent: d.UserAgent,
		OS:        d.OS,
		Device:    d.Device,
		Browser:   d.Browser,
	}
}
