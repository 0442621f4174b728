package bazaar_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bazaar "github.com/xraph/bazaar"
	"github.com/xraph/bazaar/account"
	"github.com/xraph/bazaar/id"
	"github.com/xraph/bazaar/ownership"
	"github.com/xraph/bazaar/recipe"
	"github.com/xraph/bazaar/trade"
	"github.com/xraph/bazaar/types"
)

// tradeFixture is two users who each purchased one of the author's
// recipes, ready to swap.
type tradeFixture struct {
	m      *bazaar.Market
	author *account.Account
	u1, u2 *account.Account
	rX, rY *recipe.Recipe
}

func newTradeFixture(t *testing.T, opts ...bazaar.Option) *tradeFixture {
	t.Helper()
	ctx := context.Background()
	m := newTestMarket(t, opts...)

	f := &tradeFixture{
		m:      m,
		author: registerFunded(t, m, "author@example.com", "author", types.ZeroPoints()),
		u1:     registerFunded(t, m, "u1@example.com", "u1", types.Whole(100)),
		u2:     registerFunded(t, m, "u2@example.com", "u2", types.Whole(100)),
	}
	f.rX = addRecipe(t, m, f.author.ID, "Recipe X", types.Whole(10))
	f.rY = addRecipe(t, m, f.author.ID, "Recipe Y", types.Whole(10))

	_, err := m.Purchase(ctx, f.u1.ID, f.rX.ID)
	require.NoError(t, err)
	_, err = m.Purchase(ctx, f.u2.ID, f.rY.ID)
	require.NoError(t, err)

	return f
}

func (f *tradeFixture) offer(t *testing.T) *trade.Trade {
	t.Helper()
	tr, err := f.m.OfferTrade(context.Background(), f.u1.ID, f.rX.ID, f.u2.ID, f.rY.ID)
	require.NoError(t, err)
	return tr
}

func TestOfferTrade(t *testing.T) {
	f := newTradeFixture(t)

	tr := f.offer(t)
	assert.Equal(t, trade.StatusPending, tr.Status)
	assert.Equal(t, f.u1.ID, tr.OfferingUserID)
	assert.Equal(t, f.rX.ID, tr.OfferedRecipeID)
	assert.Equal(t, f.u2.ID, tr.RequestedUserID)
	assert.Equal(t, f.rY.ID, tr.RequestedRecipeID)
	assert.Equal(t, id.PrefixTrade, tr.ID.Prefix())
}

func TestOfferTradePreconditions(t *testing.T) {
	ctx := context.Background()
	f := newTradeFixture(t)

	t.Run("self trade forbidden", func(t *testing.T) {
		_, err := f.m.OfferTrade(ctx, f.u1.ID, f.rX.ID, f.u1.ID, f.rY.ID)
		assert.ErrorIs(t, err, bazaar.ErrSelfTradeForbidden)
	})

	t.Run("offered recipe not owned", func(t *testing.T) {
		_, err := f.m.OfferTrade(ctx, f.u1.ID, f.rY.ID, f.u2.ID, f.rY.ID)
		assert.ErrorIs(t, err, bazaar.ErrOfferedRecipeNotOwned)
	})

	t.Run("requested recipe not owned", func(t *testing.T) {
		rZ := addRecipe(t, f.m, f.author.ID, "Recipe Z", types.Whole(10))
		_, err := f.m.OfferTrade(ctx, f.u1.ID, f.rX.ID, f.u2.ID, rZ.ID)
		assert.ErrorIs(t, err, bazaar.ErrRequestedRecipeNotOwned)
	})

	t.Run("already owns target", func(t *testing.T) {
		// u1 buys Y before offering X for it.
		fx := newTradeFixture(t)
		_, err := fx.m.Purchase(ctx, fx.u1.ID, fx.rY.ID)
		require.NoError(t, err)

		_, err = fx.m.OfferTrade(ctx, fx.u1.ID, fx.rX.ID, fx.u2.ID, fx.rY.ID)
		assert.ErrorIs(t, err, bazaar.ErrAlreadyOwnsTarget)
	})

	t.Run("duplicate offer", func(t *testing.T) {
		fx := newTradeFixture(t)
		fx.offer(t)

		_, err := fx.m.OfferTrade(ctx, fx.u1.ID, fx.rX.ID, fx.u2.ID, fx.rY.ID)
		assert.ErrorIs(t, err, bazaar.ErrDuplicateOffer)
	})
}

func TestAcceptTrade(t *testing.T) {
	ctx := context.Background()
	f := newTradeFixture(t)
	tr := f.offer(t)

	accepted, err := f.m.AcceptTrade(ctx, f.u2.ID, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, trade.StatusAccepted, accepted.Status)

	// The swap moves both recipes: each side gains the other's recipe
	// and loses its own.
	owned, err := f.m.Owns(ctx, f.u2.ID, f.rX.ID)
	require.NoError(t, err)
	assert.True(t, owned, "requested user gains the offered recipe")

	owned, err = f.m.Owns(ctx, f.u1.ID, f.rY.ID)
	require.NoError(t, err)
	assert.True(t, owned, "offering user gains the requested recipe")

	owned, err = f.m.Owns(ctx, f.u1.ID, f.rX.ID)
	require.NoError(t, err)
	assert.False(t, owned, "offering user gives up the offered recipe")

	owned, err = f.m.Owns(ctx, f.u2.ID, f.rY.ID)
	require.NoError(t, err)
	assert.False(t, owned, "requested user gives up the requested recipe")

	// Each side holds exactly one record afterwards, with trade provenance.
	for _, userID := range []id.UserID{f.u1.ID, f.u2.ID} {
		records, err := f.m.ListOwned(ctx, userID, ownership.ListOpts{})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, ownership.AcquiredByTrade, records[0].Acquired)
	}

	// Trades never touch balances or the ledger.
	requireBalance(t, f.m, f.u1.ID, types.Whole(90))
	requireBalance(t, f.m, f.u2.ID, types.Whole(90))
	requireConsistent(t, f.m, f.u1.ID)
	requireConsistent(t, f.m, f.u2.ID)

	got, err := f.m.GetTrade(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, trade.StatusAccepted, got.Status)
	assert.True(t, got.Status.Terminal())
}

func TestAcceptTradeAuthorization(t *testing.T) {
	ctx := context.Background()
	f := newTradeFixture(t)
	tr := f.offer(t)

	_, err := f.m.AcceptTrade(ctx, f.u1.ID, tr.ID)
	assert.ErrorIs(t, err, bazaar.ErrNotYourTradeToAccept)

	_, err = f.m.AcceptTrade(ctx, f.u2.ID, id.NewTradeID())
	assert.ErrorIs(t, err, bazaar.ErrTradeNotFound)
}

func TestAcceptTradeNotPending(t *testing.T) {
	ctx := context.Background()
	f := newTradeFixture(t)
	tr := f.offer(t)

	_, err := f.m.DeclineTrade(ctx, f.u2.ID, tr.ID)
	require.NoError(t, err)

	_, err = f.m.AcceptTrade(ctx, f.u2.ID, tr.ID)
	assert.ErrorIs(t, err, bazaar.ErrTradeNotPending)

	var np *bazaar.TradeNotPendingError
	require.ErrorAs(t, err, &np)
	assert.Equal(t, tr.ID, np.TradeID)
	assert.Equal(t, trade.StatusDeclined, np.Status)
}

func TestAcceptTradeRevalidation(t *testing.T) {
	ctx := context.Background()
	f := newTradeFixture(t)
	tr := f.offer(t)

	// Between offer and accept, u1 buys Y outright. The offer is now
	// stale: completing the swap would double-grant Y to u1.
	_, err := f.m.Purchase(ctx, f.u1.ID, f.rY.ID)
	require.NoError(t, err)

	_, err = f.m.AcceptTrade(ctx, f.u2.ID, tr.ID)
	assert.ErrorIs(t, err, bazaar.ErrAlreadyOwnsTarget)

	// The failed acceptance changed nothing: the trade is still pending
	// and u2 gained nothing.
	got, err := f.m.GetTrade(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, trade.StatusPending, got.Status)

	owned, err := f.m.Owns(ctx, f.u2.ID, f.rX.ID)
	require.NoError(t, err)
	assert.False(t, owned)
}

func TestAcceptTradeOfferingUserLostRecipe(t *testing.T) {
	ctx := context.Background()
	f := newTradeFixture(t)
	tr := f.offer(t)

	// Between offer and accept, u1 trades X away to a third user through
	// an unrelated trade that completes first.
	u3 := registerFunded(t, f.m, "u3@example.com", "u3", types.Whole(100))
	rZ := addRecipe(t, f.m, f.author.ID, "Recipe Z", types.Whole(10))
	_, err := f.m.Purchase(ctx, u3.ID, rZ.ID)
	require.NoError(t, err)

	side, err := f.m.OfferTrade(ctx, f.u1.ID, f.rX.ID, u3.ID, rZ.ID)
	require.NoError(t, err)
	_, err = f.m.AcceptTrade(ctx, u3.ID, side.ID)
	require.NoError(t, err)

	_, err = f.m.AcceptTrade(ctx, f.u2.ID, tr.ID)
	assert.ErrorIs(t, err, bazaar.ErrOfferingUserLostRecipe)

	got, err := f.m.GetTrade(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, trade.StatusPending, got.Status)

	// u2 keeps Y; the stale offer moved nothing.
	owned, err := f.m.Owns(ctx, f.u2.ID, f.rY.ID)
	require.NoError(t, err)
	assert.True(t, owned)
}

func TestAcceptTradeRequestedUserLostRecipe(t *testing.T) {
	ctx := context.Background()
	f := newTradeFixture(t)
	tr := f.offer(t)

	// u2 trades Y away to a third user before accepting u1's offer,
	// so the pending offer now asks for a recipe u2 no longer holds.
	u3 := registerFunded(t, f.m, "u3@example.com", "u3", types.Whole(100))
	rZ := addRecipe(t, f.m, f.author.ID, "Recipe Z", types.Whole(10))
	_, err := f.m.Purchase(ctx, u3.ID, rZ.ID)
	require.NoError(t, err)

	side, err := f.m.OfferTrade(ctx, f.u2.ID, f.rY.ID, u3.ID, rZ.ID)
	require.NoError(t, err)
	_, err = f.m.AcceptTrade(ctx, u3.ID, side.ID)
	require.NoError(t, err)

	_, err = f.m.AcceptTrade(ctx, f.u2.ID, tr.ID)
	assert.ErrorIs(t, err, bazaar.ErrRequestedUserLostRecipe)

	// The stale trade stays pending and no recipe changed hands on it.
	got, err := f.m.GetTrade(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, trade.StatusPending, got.Status)

	owned, err := f.m.Owns(ctx, f.u1.ID, f.rX.ID)
	require.NoError(t, err)
	assert.True(t, owned)

	owned, err = f.m.Owns(ctx, f.u2.ID, f.rX.ID)
	require.NoError(t, err)
	assert.False(t, owned)
}

func TestDeclineTrade(t *testing.T) {
	ctx := context.Background()
	f := newTradeFixture(t)
	tr := f.offer(t)

	_, err := f.m.DeclineTrade(ctx, f.u1.ID, tr.ID)
	assert.ErrorIs(t, err, bazaar.ErrNotYourTradeToDecline)

	declined, err := f.m.DeclineTrade(ctx, f.u2.ID, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, trade.StatusDeclined, declined.Status)

	// No ownership moved.
	owned, err := f.m.Owns(ctx, f.u2.ID, f.rX.ID)
	require.NoError(t, err)
	assert.False(t, owned)
}

func TestCancelTrade(t *testing.T) {
	ctx := context.Background()
	f := newTradeFixture(t)
	tr := f.offer(t)

	_, err := f.m.CancelTrade(ctx, f.u2.ID, tr.ID)
	assert.ErrorIs(t, err, bazaar.ErrNotYourTradeToCancel)

	cancelled, err := f.m.CancelTrade(ctx, f.u1.ID, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, trade.StatusCancelled, cancelled.Status)

	// Terminal states are absorbing.
	_, err = f.m.CancelTrade(ctx, f.u1.ID, tr.ID)
	assert.ErrorIs(t, err, bazaar.ErrTradeNotPending)
}

func TestTradeTimestampsFollowClock(t *testing.T) {
	ctx := context.Background()
	clk := newTestClock()
	f := newTradeFixture(t, bazaar.WithClock(clk.Now))

	tr := f.offer(t)
	assert.True(t, tr.CreatedAt.Equal(clk.Now()))
	assert.True(t, tr.UpdatedAt.Equal(tr.CreatedAt))

	clk.AdvanceDays(2)
	declined, err := f.m.DeclineTrade(ctx, f.u2.ID, tr.ID)
	require.NoError(t, err)
	assert.True(t, declined.UpdatedAt.Equal(clk.Now()))
	assert.False(t, declined.UpdatedAt.Before(declined.CreatedAt))
}

func TestTradeReofferAfterDecline(t *testing.T) {
	ctx := context.Background()
	f := newTradeFixture(t)
	tr := f.offer(t)

	_, err := f.m.DeclineTrade(ctx, f.u2.ID, tr.ID)
	require.NoError(t, err)

	// Only pending trades block duplicates; a declined one does not.
	second, err := f.m.OfferTrade(ctx, f.u1.ID, f.rX.ID, f.u2.ID, f.rY.ID)
	require.NoError(t, err)
	assert.NotEqual(t, tr.ID, second.ID)
}

func TestListTrades(t *testing.T) {
	ctx := context.Background()
	f := newTradeFixture(t)
	tr := f.offer(t)

	for _, userID := range []id.UserID{f.u1.ID, f.u2.ID} {
		trades, err := f.m.ListTrades(ctx, userID, trade.ListOpts{})
		require.NoError(t, err)
		require.Len(t, trades, 1)
		assert.Equal(t, tr.ID, trades[0].ID)
	}

	pending, err := f.m.ListTrades(ctx, f.u1.ID, trade.ListOpts{Status: trade.StatusPending})
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	accepted, err := f.m.ListTrades(ctx, f.u1.ID, trade.ListOpts{Status: trade.StatusAccepted})
	require.NoError(t, err)
	assert.Empty(t, accepted)

	_, err = f.m.ListTrades(ctx, id.NewUserID(), trade.ListOpts{})
	assert.ErrorIs(t, err, bazaar.ErrUserNotFound)

	// The author is party to no trade.
	none, err := f.m.ListTrades(ctx, f.author.ID, trade.ListOpts{})
	require.NoError(t, err)
	assert.Empty(t, none)
}
