package models

import "time"

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
	RoleGuest    = "guest"
)

func ValidUserRole(role string) bool {
	return role == RoleAdmin || role == RoleCustomer
}

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PasswordReset struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	TokenHash string     `json:"-"`
	ExpiresAt time.Time  `json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Identity is the request-scoped view of the session cookie.
type Identity struct {
	UserID    int64
	Username  string
	Role      string
	CSRFToken string
}

func (i *Identity) IsAuthenticated() bool {
	return i != nil && i.UserID > 0
}

func (i *Identity) IsAdmin() bool {
	return i.IsAuthenticated() && i.Role == RoleAdmin
}
