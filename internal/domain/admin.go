package domain

import "time"

// Admin is an operator account. Email is the business identifier.
type Admin struct {
	ID           string    `json:"admin_id"`
	Email        string    `json:"admin_email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Redacted returns a copy that is safe to hand to clients.
func (a Admin) Redacted() Admin {
	a.PasswordHash = ""
	return a
}

// SuperAdmin holds the capability token that authorizes admin creation.
type SuperAdmin struct {
	ID              string
	Email           string
	CapabilityToken string
	CreatedAt       time.Time
}
