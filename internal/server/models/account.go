// Package models defines the persisted record types of the ledger:
// accounts, balances, transactions, and tax periods.
package models

import "time"

// Role is the authorization level attached to an account.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Account is a ledger identity. CredentialHash is opaque (argon2id PHC
// string); the raw credential is never stored or logged.
type Account struct {
	ID             string
	Username       string
	CredentialHash string
	Role           Role
	CreatedAt      time.Time
}
