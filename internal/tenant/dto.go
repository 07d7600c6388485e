package tenant

import (
	tenantModel "github.com/frahmantamala/identity-access/internal/core/datamodel/tenant"
)

// UpdatePolicyDTO carries a full replacement of a tenant's password policy.
// Absent fields clear the corresponding dimension.
type UpdatePolicyDTO struct {
	MinUppercase              *int `json:"min_uppercase"`
	MinLowercase              *int `json:"min_lowercase"`
	MinSpecialChars           *int `json:"min_special_chars"`
	MinDigits                 *int `json:"min_digits"`
	MinLength                 *int `json:"min_length"`
	MaxFailedAttempts         *int `json:"max_failed_attempts"`
	ExpirationDays            *int `json:"expiration_days"`
	RequiredSecurityQuestions *int `json:"required_security_questions"`
}

type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

func (d UpdatePolicyDTO) Validate() error {
	fields := map[string]*int{
		"min_uppercase":               d.MinUppercase,
		"min_lowercase":               d.MinLowercase,
		"min_special_chars":           d.MinSpecialChars,
		"min_digits":                  d.MinDigits,
		"min_length":                  d.MinLength,
		"max_failed_attempts":         d.MaxFailedAttempts,
		"expiration_days":             d.ExpirationDays,
		"required_security_questions": d.RequiredSecurityQuestions,
	}
	for name, v := range fields {
		if v != nil && *v < 0 {
			return ValidationError{Msg: name + " cannot be negative"}
		}
	}
	return nil
}

func (d UpdatePolicyDTO) ToPolicy() tenantModel.PasswordPolicy {
	return tenantModel.PasswordPolicy{
		MinUppercase:              d.MinUppercase,
		MinLowercase:              d.MinLowercase,
		MinSpecialChars:           d.MinSpecialChars,
		MinDigits:                 d.MinDigits,
		MinLength:                 d.MinLength,
		MaxFailedAttempts:         d.MaxFailedAttempts,
		ExpirationDays:            d.ExpirationDays,
		RequiredSecurityQuestions: d.RequiredSecurityQuestions,
	}
}
