package models

import "time"

// AdminUser is an allow-listed administrator account. Rows are seeded from
// configuration; only emails present here may request login codes.
type AdminUser struct {
	ID        string     `json:"id" db:"id"`
	Email     string     `json:"email" db:"email"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	LastLogin *time.Time `json:"lastLogin,omitempty" db:"last_login"`
}

// AdminLoginCode stores the bcrypt hash of a one-time login code sent by
// email. A single pending code is kept per email address.
type AdminLoginCode struct {
	ID        string    `db:"id"`
	Email     string    `db:"email"`
	CodeHash  string    `db:"code_hash"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}
