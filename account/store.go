package account

import (
	"context"

	"github.com/xraph/bazaar/id"
	"github.com/xraph/bazaar/types"
)

type Store interface {
	Create(ctx context.Context, a *Account) error
	Get(ctx context.Context, userID id.UserID) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	// AdjustBalance applies a signed delta and returns the new balance.
	// Callers must pair every adjustment with a ledger append inside the
	// same atomic unit of work.
	AdjustBalance(ctx context.Context, userID id.UserID, delta types.Points) (types.Points, error)
	// Delete removes the account row only; the user's ledger entries and
	// ownership records are deliberately left in place.
	Delete(ctx context.Context, userID id.UserID) error
}
