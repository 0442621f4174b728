// Package trade defines the bilateral recipe swap aggregate and its
// four-state lifecycle. A trade is created Pending and transitions exactly
// once to Accepted, Declined, or Cancelled; the terminal states are
// absorbing.
package trade

import (
	"github.com/xraph/bazaar/id"
	"github.com/xraph/bazaar/types"
)

// Status is the lifecycle state of a trade.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusDeclined  Status = "declined"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool { return s != StatusPending }

// Trade is a proposed swap: the offering user gives up the offered recipe
// in exchange for the requested user's requested recipe. Ownership
// preconditions are validated at offer time AND re-validated at accept
// time, because either side may have traded the recipe away in between.
type Trade struct {
	types.Entity
	ID                id.TradeID  `json:"id"`
	OfferingUserID    id.UserID   `json:"offering_user_id"`
	OfferedRecipeID   id.RecipeID `json:"offered_recipe_id"`
	RequestedUserID   id.UserID   `json:"requested_user_id"`
	RequestedRecipeID id.RecipeID `json:"requested_recipe_id"`
	Status            Status      `json:"status"`
}

// ListOpts filters and paginates trade listings.
type ListOpts struct {
	Status Status
	Limit  int
	Offset int
}
