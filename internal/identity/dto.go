package identity

import (
	errors "github.com/frahmantamala/identity-access/internal"
	"github.com/frahmantamala/identity-access/internal/core/common/validation"
)

type CreateUserDTO struct {
	UserID           string `json:"user_id"`
	TenantID         int64  `json:"tenant_id"`
	RoleID           int64  `json:"role_id"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Password         string `json:"password"`
	SecurityQuestion string `json:"security_question"`
	SecurityAnswer   string `json:"security_answer"`
}

func (d CreateUserDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("user_id", d.UserID).Required().MinLength(3).MaxLength(50)
	v.Field("tenant_id", d.TenantID).Required()
	v.Field("role_id", d.RoleID).Required()
	v.Field("first_name", d.FirstName).Required().MaxLength(100)
	v.Field("last_name", d.LastName).MaxLength(100)
	v.Field("email", d.Email).Email().MaxLength(200)
	v.Field("password", d.Password).Required()
	v.Field("security_question", d.SecurityQuestion).Required().MinLength(10).MaxLength(200)
	v.Field("security_answer", d.SecurityAnswer).Required().MaxLength(100)
	return v.Validate()
}

type StatusDTO struct {
	Status string `json:"status"`
}
