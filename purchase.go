package bazaar

import (
	"context"
	"errors"

	"github.com/xraph/bazaar/id"
	"github.com/xraph/bazaar/ledger"
	"github.com/xraph/bazaar/ownership"
	"github.com/xraph/bazaar/recipe"
	"github.com/xraph/bazaar/store"
	"github.com/xraph/bazaar/types"
)

// PurchaseResult reports a committed recipe purchase.
type PurchaseResult struct {
	RecipeID   id.RecipeID
	NewBalance types.Points
	EntryID    id.EntryID // the buyer-side debit entry
}

// Purchase executes a recipe purchase: debit buyer, credit author, two
// ledger entries, ownership grant — all in one atomic unit of work.
//
// Preconditions are checked in order inside the transaction, each with a
// distinct error: recipe exists, buyer exists, buyer is not the author,
// buyer does not already own the recipe, balance covers the price. If the
// author's account is gone by execution time, the credit and its Sale
// entry are skipped while the debit and the grant still commit; the buyer
// paid for a recipe whose author can no longer collect.
func (m *Market) Purchase(ctx context.Context, buyerID id.UserID, recipeID id.RecipeID) (*PurchaseResult, error) {
	var (
		result PurchaseResult
		rc     *recipe.Recipe
		entry  *ledger.Entry
	)

	err := m.store.Atomic(ctx, func(tx store.Store) error {
		var err error
		rc, err = tx.GetRecipe(ctx, recipeID)
		if err != nil {
			return err
		}

		buyer, err := tx.GetAccount(ctx, buyerID)
		if err != nil {
			return err
		}

		if rc.AuthorID == buyerID {
			return ErrSelfPurchaseForbidden
		}

		owned, err := tx.Owns(ctx, buyerID, recipeID)
		if err != nil {
			return err
		}
		if owned {
			return ErrAlreadyOwned
		}

		if !buyer.Balance.Covers(rc.Price) {
			return &InsufficientBalanceError{Required: rc.Price, Current: buyer.Balance}
		}

		// Preconditions hold; everything below is execution and any
		// failure rolls the whole purchase back.
		now := m.clock()

		balance, err := tx.AdjustBalance(ctx, buyerID, rc.Price.Negate())
		if err != nil {
			return &OperationError{Kind: ErrPurchaseFailed, Err: err}
		}

		entry = &ledger.Entry{
			ID:        id.NewEntryID(),
			UserID:    buyerID,
			Amount:    rc.Price.Negate(),
			Kind:      ledger.KindPurchase,
			RecipeID:  recipeID,
			CreatedAt: now,
		}
		if err := tx.AppendEntry(ctx, entry); err != nil {
			return &OperationError{Kind: ErrPurchaseFailed, Err: err}
		}

		// Author credit. A missing author is tolerated: the debit and
		// the ownership grant commit without the Sale side.
		if _, err := tx.GetAccount(ctx, rc.AuthorID); err == nil {
			if _, err := tx.AdjustBalance(ctx, rc.AuthorID, rc.Price); err != nil {
				return &OperationError{Kind: ErrPurchaseFailed, Err: err}
			}
			saleEntry := &ledger.Entry{
				ID:        id.NewEntryID(),
				UserID:    rc.AuthorID,
				Amount:    rc.Price,
				Kind:      ledger.KindSale,
				RecipeID:  recipeID,
				CreatedAt: now,
			}
			if err := tx.AppendEntry(ctx, saleEntry); err != nil {
				return &OperationError{Kind: ErrPurchaseFailed, Err: err}
			}
		} else if !errors.Is(err, ErrUserNotFound) {
			return &OperationError{Kind: ErrPurchaseFailed, Err: err}
		} else {
			m.logger.Warn("author missing at purchase time, sale credit skipped",
				"recipe_id", recipeID,
				"author_id", rc.AuthorID,
			)
		}

		if err := tx.GrantOwnership(ctx, &ownership.Record{
			ID:         id.NewOwnershipID(),
			UserID:     buyerID,
			RecipeID:   recipeID,
			Acquired:   ownership.AcquiredByPurchase,
			AcquiredAt: now,
		}); err != nil {
			return &OperationError{Kind: ErrPurchaseFailed, Err: err}
		}

		result = PurchaseResult{RecipeID: recipeID, NewBalance: balance, EntryID: entry.ID}
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.plugins.EmitPurchaseCompleted(ctx, buyerID, rc, entry)
	m.logger.Info("purchase completed",
		"buyer_id", buyerID,
		"recipe_id", recipeID,
		"price", rc.Price,
		"balance", result.NewBalance,
	)
	return &result, nil
}
