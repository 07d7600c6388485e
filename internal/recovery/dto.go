package recovery

import "fmt"

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type ResetDTO struct {
	UserID      string `json:"user_id"`
	Answer      string `json:"answer"`
	NewPassword string `json:"new_password"`
}

func (d ResetDTO) Validate() error {
	if d.UserID == "" {
		return ValidationError{Field: "user_id", Message: "is required"}
	}
	if d.Answer == "" {
		return ValidationError{Field: "answer", Message: "is required"}
	}
	if d.NewPassword == "" {
		return ValidationError{Field: "new_password", Message: "is required"}
	}
	return nil
}
