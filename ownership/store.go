package ownership

import (
	"context"

	"github.com/xraph/bazaar/id"
)

type Store interface {
	Owns(ctx context.Context, userID id.UserID, recipeID id.RecipeID) (bool, error)
	// Grant inserts a record. It must fail if a record for the same
	// (user, recipe) pair already exists, even under concurrent inserts;
	// that failure is the double-grant guard for purchases and trades.
	Grant(ctx context.Context, rec *Record) error
	// Revoke removes the (user, recipe) record so the recipe can change
	// hands. It must fail when no record exists.
	Revoke(ctx context.Context, userID id.UserID, recipeID id.RecipeID) error
	// ListOwned returns a user's records ordered by acquisition descending.
	ListOwned(ctx context.Context, userID id.UserID, opts ListOpts) ([]*Record, error)
}
