package bazaar

import (
	"context"
	"strings"

	"github.com/xraph/bazaar/id"
	"github.com/xraph/bazaar/ownership"
	"github.com/xraph/bazaar/recipe"
	"github.com/xraph/bazaar/store"
	"github.com/xraph/bazaar/trade"
	"github.com/xraph/bazaar/types"
)

// ──────────────────────────────────────────────────
// Recipe Catalog
// ──────────────────────────────────────────────────

// AddRecipe publishes a recipe. Authorship is distinct from ownership: the
// author earns sale credits but holds no ownership record unless they
// acquire the recipe through a trade.
func (m *Market) AddRecipe(ctx context.Context, authorID id.UserID, title, description string, price types.Points, subscriberOnly bool) (*recipe.Recipe, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrInvalidInput
	}
	if price.IsNegative() {
		return nil, ErrInvalidAmount
	}

	rc := &recipe.Recipe{
		Entity:         types.EntityAt(m.clock()),
		ID:             id.NewRecipeID(),
		Title:          title,
		Description:    description,
		Price:          price,
		AuthorID:       authorID,
		SubscriberOnly: subscriberOnly,
	}

	err := m.store.Atomic(ctx, func(tx store.Store) error {
		if _, err := tx.GetAccount(ctx, authorID); err != nil {
			return err
		}
		return tx.CreateRecipe(ctx, rc)
	})
	if err != nil {
		return nil, err
	}

	m.plugins.EmitRecipeAdded(ctx, rc)
	m.logger.Info("recipe added", "recipe_id", rc.ID, "author_id", authorID, "price", price)
	return rc, nil
}

// GetRecipe retrieves a recipe by id.
func (m *Market) GetRecipe(ctx context.Context, recipeID id.RecipeID) (*recipe.Recipe, error) {
	return m.store.GetRecipe(ctx, recipeID)
}

// RecordView bumps a recipe's view counter. Views are advisory metadata
// and are deliberately kept out of the ledger.
func (m *Market) RecordView(ctx context.Context, recipeID id.RecipeID) error {
	return m.store.Atomic(ctx, func(tx store.Store) error {
		rc, err := tx.GetRecipe(ctx, recipeID)
		if err != nil {
			return err
		}
		rc.Views++
		return tx.UpdateRecipe(ctx, rc)
	})
}

// ──────────────────────────────────────────────────
// Ownership reads
// ──────────────────────────────────────────────────

// Owns reports whether the user currently holds the recipe.
func (m *Market) Owns(ctx context.Context, userID id.UserID, recipeID id.RecipeID) (bool, error) {
	return m.store.Owns(ctx, userID, recipeID)
}

// ListOwned returns the user's ownership records, newest acquisition first.
func (m *Market) ListOwned(ctx context.Context, userID id.UserID, opts ownership.ListOpts) ([]*ownership.Record, error) {
	if _, err := m.store.GetAccount(ctx, userID); err != nil {
		return nil, err
	}
	return m.store.ListOwned(ctx, userID, opts)
}

// ListTrades returns trades in which the user is either party.
func (m *Market) ListTrades(ctx context.Context, userID id.UserID, opts trade.ListOpts) ([]*trade.Trade, error) {
	if _, err := m.store.GetAccount(ctx, userID); err != nil {
		return nil, err
	}
	return m.store.ListTradesForUser(ctx, userID, opts)
}
