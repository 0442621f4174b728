// Package account defines the marketplace account aggregate: one balance
// per user, mutated only through ledger-writing operations.
package account

import (
	"github.com/xraph/bazaar/id"
	"github.com/xraph/bazaar/types"
)

// Role distinguishes ordinary users from administrators.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Account holds the current balance for a user. The balance is a derived
// cache: at any committed point it must equal the sum of the user's ledger
// entries. Only engine operations that also append a ledger entry may
// change it.
type Account struct {
	types.Entity
	ID          id.UserID    `json:"id"`
	Email       string       `json:"email"` // stored lowercase, unique
	DisplayName string       `json:"display_name"`
	Balance     types.Points `json:"balance"`
	Role        Role         `json:"role"`
}

// IsAdmin reports whether the account has the administrator role.
func (a *Account) IsAdmin() bool { return a.Role == RoleAdmin }
