package trade

import (
	"context"
	"time"

	"github.com/xraph/bazaar/id"
)

type Store interface {
	Create(ctx context.Context, t *Trade) error
	Get(ctx context.Context, tradeID id.TradeID) (*Trade, error)
	// SetStatus records a lifecycle transition and stamps updated-at.
	SetStatus(ctx context.Context, tradeID id.TradeID, status Status, at time.Time) error
	// FindPending looks up an open trade with an identical
	// (offering user, offered recipe, requested user, requested recipe)
	// tuple; used to reject duplicate offers.
	FindPending(ctx context.Context, offeringUserID id.UserID, offeredRecipeID id.RecipeID, requestedUserID id.UserID, requestedRecipeID id.RecipeID) (*Trade, error)
	// ListForUser returns trades where the user is either party, newest first.
	ListForUser(ctx context.Context, userID id.UserID, opts ListOpts) ([]*Trade, error)
}
