package domain

import "time"

type User struct {
	ID           string
	Name         string
	Email        string // stored lower-cased, unique
	PasswordHash string // argon2 encoded, never serialized outward
	Description  string
	// HasOpenAccount mirrors "owns at least one account". Maintained in the
	// same transaction as account create/delete and gates user deletion.
	HasOpenAccount bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
