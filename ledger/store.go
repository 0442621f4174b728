package ledger

import (
	"context"

	"github.com/xraph/bazaar/id"
	"github.com/xraph/bazaar/types"
)

type Store interface {
	// Append writes an immutable entry. It performs no business
	// validation; callers validate before appending.
	Append(ctx context.Context, e *Entry) error
	Get(ctx context.Context, entryID id.EntryID) (*Entry, error)
	// List returns a user's entries ordered by creation descending.
	List(ctx context.Context, userID id.UserID, opts ListOpts) ([]*Entry, error)
	// Sum returns the signed sum of all entries for a user. At any
	// committed point it must equal the account balance.
	Sum(ctx context.Context, userID id.UserID) (types.Points, error)
}
