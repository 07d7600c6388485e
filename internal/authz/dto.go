package authz

import "fmt"

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type CheckDTO struct {
	UserID   string `json:"user_id"`
	OptionID int64  `json:"option_id"`
	Action   string `json:"action"`
}

func (d CheckDTO) Validate() error {
	if d.UserID == "" {
		return ValidationError{Field: "user_id", Message: "is required"}
	}
	if d.OptionID <= 0 {
		return ValidationError{Field: "option_id", Message: "must be positive"}
	}
	if d.Action != "" {
		if _, ok := ParseAction(d.Action); !ok {
			return ValidationError{Field: "action", Message: "unknown action"}
		}
	}
	return nil
}

type CheckResultDTO struct {
	Allowed bool `json:"allowed"`
}

type GrantDTO struct {
	RoleID    int64 `json:"role_id"`
	OptionID  int64 `json:"option_id"`
	CanCreate bool  `json:"can_create"`
	CanDelete bool  `json:"can_delete"`
	CanUpdate bool  `json:"can_update"`
	CanPrint  bool  `json:"can_print"`
	CanExport bool  `json:"can_export"`
}

func (d GrantDTO) Validate() error {
	if d.RoleID <= 0 {
		return ValidationError{Field: "role_id", Message: "must be positive"}
	}
	if d.OptionID <= 0 {
		return ValidationError{Field: "option_id", Message: "must be positive"}
	}
	return nil
}
