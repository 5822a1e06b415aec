// Package models holds the rows the portal backend persists.
package models

import "time"

// Role values stored in residents.role and carried in the token role claim.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Apartment struct {
	ID         int64
	FlatNumber string
}

// Resident is a person registered against an apartment. PasswordHash is a
// bcrypt hash, empty when the resident has only ever signed in with an OTP.
type Resident struct {
	ID           string
	ApartmentID  int64
	FlatNumber   string
	Email        string
	Name         string
	Role         string
	PasswordHash string
	CreatedAt    time.Time
}

// OTP is a pending one-time password for a single email. Only the bcrypt
// hash of the code is stored.
type OTP struct {
	Email     string
	CodeHash  string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the code can no longer be used at now.
func (o *OTP) Expired(now time.Time) bool {
	return !now.Before(o.ExpiresAt)
}
