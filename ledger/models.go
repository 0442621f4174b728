// Package ledger defines the append-only transaction ledger: the single
// source of truth for every balance change in the marketplace.
package ledger

import (
	"time"

	"github.com/xraph/bazaar/id"
	"github.com/xraph/bazaar/types"
)

// Kind classifies a ledger entry.
type Kind string

const (
	KindTopUp    Kind = "topup"    // Points credited from outside the marketplace
	KindPurchase Kind = "purchase" // Debit for a recipe or subscription purchase
	KindSale     Kind = "sale"     // Author credit for a sold recipe
)

// Entry is one immutable, signed balance change. Negative amounts are
// debits, positive amounts are credits. Entries are never updated or
// deleted once written.
type Entry struct {
	ID        id.EntryID   `json:"id"`
	UserID    id.UserID    `json:"user_id"`
	Amount    types.Points `json:"amount"`
	Kind      Kind         `json:"kind"`
	RecipeID  id.RecipeID  `json:"recipe_id,omitempty"` // Nil for top-ups and subscriptions
	CreatedAt time.Time    `json:"created_at"`
}

// ListOpts filters and paginates ledger history queries.
type ListOpts struct {
	Kind   Kind
	Limit  int
	Offset int
}
