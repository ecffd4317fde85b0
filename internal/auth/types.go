package auth

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// emailPattern is a shape check, not full RFC 5322: one @, no whitespace,
// a dot somewhere in the domain.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// maxEmailLength is the maximum allowed email length (RFC 3696 erratum).
const maxEmailLength = 254

// NormalizeEmail canonicalises an email for use as an account identity:
// whitespace-trimmed and lowercased, so User@x.com and user@x.com collide.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValidEmail checks if an email meets format requirements.
// Callers should normalize first.
func IsValidEmail(email string) bool {
	return email != "" && len(email) <= maxEmailLength && emailPattern.MatchString(email)
}

// Role represents an authorisation tier in the system.
type Role string

const (
	// RoleUser is a regular account, the default for self-registration.
	RoleUser Role = "user"

	// RoleAdmin has access to administrative endpoints (account listing,
	// stats). Assigned administratively, never via self-registration.
	RoleAdmin Role = "admin"
)

// ValidRoles is the fixed role enumeration. Membership checks are exact,
// there is no hierarchy.
var ValidRoles = []Role{RoleUser, RoleAdmin}

// IsValidRole returns true if the role is part of the enumeration.
func IsValidRole(r Role) bool {
	for _, v := range ValidRoles {
		if r == v {
			return true
		}
	}
	return false
}

// Account represents a registered account.
type Account struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`

	// PasswordHash is never serialised to any outward-facing response.
	PasswordHash string `json:"-"`

	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Sentinel errors for auth operations. The API layer maps these to
// response codes; anything unrecognised becomes a 500.
var (
	// ErrValidation covers malformed registration/login input.
	ErrValidation = errors.New("validation failed")

	// ErrEmailExists is returned when an identity is already registered.
	ErrEmailExists = errors.New("email already registered")

	// ErrAccountNotFound is a store-level miss. It never crosses the login
	// boundary — Login converts it to ErrInvalidCredentials.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInvalidCredentials covers both unknown identity and wrong
	// password, deliberately undifferentiated.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTokenInvalid covers tampered, malformed, or wrongly-shaped tokens.
	ErrTokenInvalid = errors.New("invalid token")

	// ErrTokenExpired is surfaced distinctly so clients can prompt re-login.
	ErrTokenExpired = errors.New("token has expired")

	// ErrForbidden is returned when an authenticated role is not in the
	// required role set.
	ErrForbidden = errors.New("insufficient permissions")

	// ErrStoreUnavailable is returned when a store operation exceeds its
	// timeout instead of letting the request hang.
	ErrStoreUnavailable = errors.New("account store unavailable")

	// ErrPasswordInput is returned for empty or oversized hasher input.
	ErrPasswordInput = errors.New("invalid password input")

	// ErrMalformedHash is returned when a stored hash is not a product of
	// this hasher.
	ErrMalformedHash = errors.New("malformed password hash")
)
