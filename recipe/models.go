// Package recipe defines the recipe listing aggregate. Authorship is
// distinct from ownership: the author reference never changes, while
// ownership records accumulate through purchases and trades.
package recipe

import (
	"github.com/xraph/bazaar/id"
	"github.com/xraph/bazaar/types"
)

// Recipe is a sellable, tradable listing. Price and the subscriber-only
// flag are mutable by the author or an administrator; completed purchases
// and trades reference the recipe by ID, so historical ledger entries are
// unaffected by later edits.
type Recipe struct {
	types.Entity
	ID             id.RecipeID  `json:"id"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	Price          types.Points `json:"price"` // >= 0; zero-priced recipes are free to buy
	AuthorID       id.UserID    `json:"author_id"`
	Views          int64        `json:"views"`
	SubscriberOnly bool         `json:"subscriber_only"` // access gated behind a subscription grant
}
