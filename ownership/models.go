// Package ownership defines the registry mapping users to the recipes they
// hold, with acquisition provenance. A (user, recipe) pair has at most one
// record; both the purchase and the trade paths rely on that uniqueness to
// reject double grants.
package ownership

import (
	"time"

	"github.com/xraph/bazaar/id"
)

// Acquisition records how a recipe was obtained.
type Acquisition string

const (
	AcquiredByPurchase Acquisition = "purchase"
	AcquiredByTrade    Acquisition = "trade"
)

// Record is proof that a user currently holds a recipe.
type Record struct {
	ID         id.OwnershipID `json:"id"`
	UserID     id.UserID      `json:"user_id"`
	RecipeID   id.RecipeID    `json:"recipe_id"`
	Acquired   Acquisition    `json:"acquired"`
	AcquiredAt time.Time      `json:"acquired_at"`
}

// ListOpts paginates ownership listings.
type ListOpts struct {
	Limit  int
	Offset int
}
