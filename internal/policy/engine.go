package policy

import (
	"fmt"
	"time"
	"unicode"

	"github.com/frahmantamala/identity-access/internal/core/datamodel/tenant"
)

// Dimension names a password rule that a candidate can violate.
type Dimension string

const (
	DimensionUppercase    Dimension = "min_uppercase"
	DimensionLowercase    Dimension = "min_lowercase"
	DimensionSpecialChars Dimension = "min_special_chars"
	DimensionDigits       Dimension = "min_digits"
	DimensionLength       Dimension = "min_length"
)

type Violation struct {
	Dimension Dimension `json:"dimension"`
	Required  int       `json:"required"`
	Actual    int       `json:"actual"`
	Message   string    `json:"message"`
}

func (v Violation) Error() string { return v.Message }

// Validate checks a candidate password against a tenant policy and returns
// every violated dimension, not just the first. A nil or zero requirement
// skips that dimension entirely.
func Validate(candidate string, p tenant.PasswordPolicy) []Violation {
	var upper, lower, digits, special int
	length := len([]rune(candidate))

	for _, r := range candidate {
		switch {
		case unicode.IsUpper(r):
			upper++
		case unicode.IsLower(r):
			lower++
		case unicode.IsDigit(r):
			digits++
		default:
			special++
		}
	}

	var violations []Violation
	check := func(dim Dimension, required *int, actual int, noun string) {
		if required == nil || *required <= 0 {
			return
		}
		if actual < *required {
			violations = append(violations, Violation{
				Dimension: dim,
				Required:  *required,
				Actual:    actual,
				Message:   fmt.Sprintf("password must contain at least %d %s, got %d", *required, noun, actual),
			})
		}
	}

	check(DimensionUppercase, p.MinUppercase, upper, "uppercase letters")
	check(DimensionLowercase, p.MinLowercase, lower, "lowercase letters")
	check(DimensionSpecialChars, p.MinSpecialChars, special, "special characters")
	check(DimensionDigits, p.MinDigits, digits, "digits")
	check(DimensionLength, p.MinLength, length, "characters")

	return violations
}

// ComputeExpired reports whether a password set at lastChangeAt has outlived
// the tenant's expiration window at the reference time now. Tenants without
// an expiration window never expire passwords.
func ComputeExpired(lastChangeAt time.Time, p tenant.PasswordPolicy, now time.Time) bool {
	if p.ExpirationDays == nil || *p.ExpirationDays <= 0 {
		return false
	}
	if lastChangeAt.IsZero() {
		return true
	}
	return now.Sub(lastChangeAt) > time.Duration(*p.ExpirationDays)*24*time.Hour
}
