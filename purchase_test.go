package bazaar_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bazaar "github.com/xraph/bazaar"
	"github.com/xraph/bazaar/id"
	"github.com/xraph/bazaar/ledger"
	"github.com/xraph/bazaar/ownership"
	"github.com/xraph/bazaar/types"
)

func TestPurchase(t *testing.T) {
	ctx := context.Background()
	m := newTestMarket(t)

	buyer := registerFunded(t, m, "buyer@example.com", "buyer", types.Whole(100))
	author := registerFunded(t, m, "author@example.com", "author", types.Whole(5))
	rc := addRecipe(t, m, author.ID, "Sourdough", types.Whole(40))

	result, err := m.Purchase(ctx, buyer.ID, rc.ID)
	require.NoError(t, err)
	assert.Equal(t, rc.ID, result.RecipeID)
	assert.True(t, result.NewBalance.Equal(types.Whole(60)))

	// Buyer debited, author credited.
	requireBalance(t, m, buyer.ID, types.Whole(60))
	requireBalance(t, m, author.ID, types.Whole(45))

	// Ownership granted with purchase provenance.
	owned, err := m.Owns(ctx, buyer.ID, rc.ID)
	require.NoError(t, err)
	assert.True(t, owned)

	records, err := m.ListOwned(ctx, buyer.ID, ownership.ListOpts{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, ownership.AcquiredByPurchase, records[0].Acquired)

	// One debit entry for the buyer, one sale credit for the author.
	buyerEntries, err := m.History(ctx, buyer.ID, ledger.ListOpts{Kind: ledger.KindPurchase})
	require.NoError(t, err)
	require.Len(t, buyerEntries, 1)
	assert.True(t, buyerEntries[0].Amount.Equal(types.Whole(-40)))
	assert.Equal(t, rc.ID, buyerEntries[0].RecipeID)
	assert.Equal(t, result.EntryID, buyerEntries[0].ID)

	authorEntries, err := m.History(ctx, author.ID, ledger.ListOpts{Kind: ledger.KindSale})
	require.NoError(t, err)
	require.Len(t, authorEntries, 1)
	assert.True(t, authorEntries[0].Amount.Equal(types.Whole(40)))
	assert.Equal(t, rc.ID, authorEntries[0].RecipeID)

	requireConsistent(t, m, buyer.ID)
	requireConsistent(t, m, author.ID)
}

func TestPurchaseAuthorMissing(t *testing.T) {
	ctx := context.Background()
	m := newTestMarket(t)

	buyer := registerFunded(t, m, "buyer@example.com", "buyer", types.Whole(100))
	author := registerFunded(t, m, "author@example.com", "author", types.ZeroPoints())
	rc := addRecipe(t, m, author.ID, "Sourdough", types.Whole(40))

	// The author's account disappears between listing and purchase. The
	// debit and the grant still commit; only the sale credit is skipped.
	require.NoError(t, m.Store().DeleteAccount(ctx, author.ID))

	result, err := m.Purchase(ctx, buyer.ID, rc.ID)
	require.NoError(t, err)
	assert.True(t, result.NewBalance.Equal(types.Whole(60)))

	requireBalance(t, m, buyer.ID, types.Whole(60))
	requireConsistent(t, m, buyer.ID)

	owned, err := m.Owns(ctx, buyer.ID, rc.ID)
	require.NoError(t, err)
	assert.True(t, owned)

	// Exactly one entry was written for the purchase: the buyer's debit.
	buyerEntries, err := m.History(ctx, buyer.ID, ledger.ListOpts{Kind: ledger.KindPurchase})
	require.NoError(t, err)
	require.Len(t, buyerEntries, 1)
	assert.True(t, buyerEntries[0].Amount.Equal(types.Whole(-40)))

	// No orphaned sale credit for the deleted author.
	sum, err := m.Store().SumEntries(ctx, author.ID)
	require.NoError(t, err)
	assert.True(t, sum.IsZero())
}

func TestPurchasePreconditions(t *testing.T) {
	ctx := context.Background()
	m := newTestMarket(t)

	buyer := registerFunded(t, m, "buyer@example.com", "buyer", types.Whole(10))
	author := registerFunded(t, m, "author@example.com", "author", types.ZeroPoints())
	rc := addRecipe(t, m, author.ID, "Sourdough", types.Whole(40))

	t.Run("recipe not found", func(t *testing.T) {
		_, err := m.Purchase(ctx, buyer.ID, id.NewRecipeID())
		assert.ErrorIs(t, err, bazaar.ErrRecipeNotFound)
	})

	t.Run("recipe checked before buyer", func(t *testing.T) {
		_, err := m.Purchase(ctx, id.NewUserID(), id.NewRecipeID())
		assert.ErrorIs(t, err, bazaar.ErrRecipeNotFound)
	})

	t.Run("buyer not found", func(t *testing.T) {
		_, err := m.Purchase(ctx, id.NewUserID(), rc.ID)
		assert.ErrorIs(t, err, bazaar.ErrUserNotFound)
	})

	t.Run("self purchase forbidden", func(t *testing.T) {
		_, err := m.Purchase(ctx, author.ID, rc.ID)
		assert.ErrorIs(t, err, bazaar.ErrSelfPurchaseForbidden)
	})

	t.Run("insufficient balance", func(t *testing.T) {
		_, err := m.Purchase(ctx, buyer.ID, rc.ID)
		assert.ErrorIs(t, err, bazaar.ErrInsufficientBalance)

		var ib *bazaar.InsufficientBalanceError
		require.ErrorAs(t, err, &ib)
		assert.True(t, ib.Required.Equal(types.Whole(40)))
		assert.True(t, ib.Current.Equal(types.Whole(10)))
		assert.True(t, ib.Shortfall().Equal(types.Whole(30)))
		assert.True(t, bazaar.IsPrecondition(err))
	})

	// A failed purchase leaves no trace behind.
	requireBalance(t, m, buyer.ID, types.Whole(10))
	requireBalance(t, m, author.ID, types.ZeroPoints())
	owned, err := m.Owns(ctx, buyer.ID, rc.ID)
	require.NoError(t, err)
	assert.False(t, owned)
	requireConsistent(t, m, buyer.ID)
	requireConsistent(t, m, author.ID)
}

func TestPurchaseAlreadyOwned(t *testing.T) {
	ctx := context.Background()
	m := newTestMarket(t)

	buyer := registerFunded(t, m, "buyer@example.com", "buyer", types.Whole(100))
	author := registerFunded(t, m, "author@example.com", "author", types.ZeroPoints())
	rc := addRecipe(t, m, author.ID, "Sourdough", types.Whole(40))

	_, err := m.Purchase(ctx, buyer.ID, rc.ID)
	require.NoError(t, err)

	_, err = m.Purchase(ctx, buyer.ID, rc.ID)
	assert.ErrorIs(t, err, bazaar.ErrAlreadyOwned)

	// No double debit.
	requireBalance(t, m, buyer.ID, types.Whole(60))
	requireConsistent(t, m, buyer.ID)
}

func TestPurchaseExactBalance(t *testing.T) {
	ctx := context.Background()
	m := newTestMarket(t)

	buyer := registerFunded(t, m, "buyer@example.com", "buyer", types.Whole(40))
	author := registerFunded(t, m, "author@example.com", "author", types.ZeroPoints())
	rc := addRecipe(t, m, author.ID, "Sourdough", types.Whole(40))

	// The coverage boundary is inclusive: an exact balance succeeds.
	result, err := m.Purchase(ctx, buyer.ID, rc.ID)
	require.NoError(t, err)
	assert.True(t, result.NewBalance.IsZero())
	requireConsistent(t, m, buyer.ID)
}

func TestPurchaseOneHundredthShort(t *testing.T) {
	ctx := context.Background()
	m := newTestMarket(t)

	buyer := registerFunded(t, m, "buyer@example.com", "buyer", types.PTS(3999))
	author := registerFunded(t, m, "author@example.com", "author", types.ZeroPoints())
	rc := addRecipe(t, m, author.ID, "Sourdough", types.Whole(40))

	_, err := m.Purchase(ctx, buyer.ID, rc.ID)
	assert.ErrorIs(t, err, bazaar.ErrInsufficientBalance)
}

func TestPurchaseZeroPrice(t *testing.T) {
	ctx := context.Background()
	m := newTestMarket(t)

	buyer := registerFunded(t, m, "buyer@example.com", "buyer", types.ZeroPoints())
	author := registerFunded(t, m, "author@example.com", "author", types.ZeroPoints())
	rc := addRecipe(t, m, author.ID, "Free Starter", types.ZeroPoints())

	// Free recipes still flow through the full pipeline: zero-amount
	// entries on both sides and an ownership grant.
	result, err := m.Purchase(ctx, buyer.ID, rc.ID)
	require.NoError(t, err)
	assert.True(t, result.NewBalance.IsZero())

	owned, err := m.Owns(ctx, buyer.ID, rc.ID)
	require.NoError(t, err)
	assert.True(t, owned)

	entries, err := m.History(ctx, buyer.ID, ledger.ListOpts{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Amount.IsZero())

	requireConsistent(t, m, buyer.ID)
	requireConsistent(t, m, author.ID)
}

func TestPurchaseErrorClassification(t *testing.T) {
	preconditions := []error{
		bazaar.ErrRecipeNotFound,
		bazaar.ErrUserNotFound,
		bazaar.ErrSelfPurchaseForbidden,
		bazaar.ErrAlreadyOwned,
		bazaar.ErrInsufficientBalance,
	}
	for _, err := range preconditions {
		assert.True(t, bazaar.IsPrecondition(err), "%v should be a precondition failure", err)
		assert.False(t, bazaar.IsRetryable(err), "%v should not be retryable", err)
	}

	opErr := &bazaar.OperationError{Kind: bazaar.ErrPurchaseFailed, Err: errors.New("store fault")}
	assert.True(t, bazaar.IsRetryable(opErr))
	assert.False(t, bazaar.IsPrecondition(opErr))
	assert.ErrorIs(t, opErr, bazaar.ErrPurchaseFailed)
}
