package memory

import (
	"context"
	"time"

	"github.com/xraph/bazaar/account"
	"github.com/xraph/bazaar/id"
	"github.com/xraph/bazaar/ledger"
	"github.com/xraph/bazaar/ownership"
	"github.com/xraph/bazaar/plan"
	"github.com/xraph/bazaar/recipe"
	"github.com/xraph/bazaar/store"
	"github.com/xraph/bazaar/subscription"
	"github.com/xraph/bazaar/trade"
	"github.com/xraph/bazaar/types"
)

// txView is the store handed to Atomic callbacks. The enclosing Atomic
// already holds the write lock, so txView calls the state directly. Its own
// Atomic just runs the callback: a nested unit of work joins the enclosing
// one rather than snapshotting again.
type txView struct {
	st *state
}

func (v *txView) CreateAccount(_ context.Context, a *account.Account) error {
	return v.st.createAccount(a)
}

func (v *txView) GetAccount(_ context.Context, userID id.UserID) (*account.Account, error) {
	return v.st.getAccount(userID)
}

func (v *txView) GetAccountByEmail(_ context.Context, email string) (*account.Account, error) {
	return v.st.getAccountByEmail(email)
}

func (v *txView) AdjustBalance(_ context.Context, userID id.UserID, delta types.Points) (types.Points, error) {
	return v.st.adjustBalance(userID, delta)
}

func (v *txView) DeleteAccount(_ context.Context, userID id.UserID) error {
	return v.st.deleteAccount(userID)
}

func (v *txView) AppendEntry(_ context.Context, e *ledger.Entry) error {
	return v.st.appendEntry(e)
}

func (v *txView) GetEntry(_ context.Context, entryID id.EntryID) (*ledger.Entry, error) {
	return v.st.getEntry(entryID)
}

func (v *txView) ListEntries(_ context.Context, userID id.UserID, opts ledger.ListOpts) ([]*ledger.Entry, error) {
	return v.st.listEntries(userID, opts)
}

func (v *txView) SumEntries(_ context.Context, userID id.UserID) (types.Points, error) {
	return v.st.sumEntries(userID)
}

func (v *txView) CreateRecipe(_ context.Context, r *recipe.Recipe) error {
	return v.st.createRecipe(r)
}

func (v *txView) GetRecipe(_ context.Context, recipeID id.RecipeID) (*recipe.Recipe, error) {
	return v.st.getRecipe(recipeID)
}

func (v *txView) UpdateRecipe(_ context.Context, r *recipe.Recipe) error {
	return v.st.updateRecipe(r)
}

func (v *txView) Owns(_ context.Context, userID id.UserID, recipeID id.RecipeID) (bool, error) {
	return v.st.owns(userID, recipeID)
}

func (v *txView) GrantOwnership(_ context.Context, rec *ownership.Record) error {
	return v.st.grantOwnership(rec)
}

func (v *txView) RevokeOwnership(_ context.Context, userID id.UserID, recipeID id.RecipeID) error {
	return v.st.revokeOwnership(userID, recipeID)
}

func (v *txView) ListOwned(_ context.Context, userID id.UserID, opts ownership.ListOpts) ([]*ownership.Record, error) {
	return v.st.listOwned(userID, opts)
}

func (v *txView) CreateTrade(_ context.Context, t *trade.Trade) error {
	return v.st.createTrade(t)
}

func (v *txView) GetTrade(_ context.Context, tradeID id.TradeID) (*trade.Trade, error) {
	return v.st.getTrade(tradeID)
}

func (v *txView) SetTradeStatus(_ context.Context, tradeID id.TradeID, status trade.Status, at time.Time) error {
	return v.st.setTradeStatus(tradeID, status, at)
}

func (v *txView) FindPendingTrade(_ context.Context, offeringUserID id.UserID, offeredRecipeID id.RecipeID, requestedUserID id.UserID, requestedRecipeID id.RecipeID) (*trade.Trade, error) {
	return v.st.findPendingTrade(offeringUserID, offeredRecipeID, requestedUserID, requestedRecipeID)
}

func (v *txView) ListTradesForUser(_ context.Context, userID id.UserID, opts trade.ListOpts) ([]*trade.Trade, error) {
	return v.st.listTradesForUser(userID, opts)
}

func (v *txView) CreatePlan(_ context.Context, p *plan.Plan) error {
	return v.st.createPlan(p)
}

func (v *txView) GetPlan(_ context.Context, planID id.PlanID) (*plan.Plan, error) {
	return v.st.getPlan(planID)
}

func (v *txView) ListPlans(_ context.Context, opts plan.ListOpts) ([]*plan.Plan, error) {
	return v.st.listPlans(opts)
}

func (v *txView) UpdatePlan(_ context.Context, p *plan.Plan) error {
	return v.st.updatePlan(p)
}

func (v *txView) ArchivePlan(_ context.Context, planID id.PlanID) error {
	return v.st.archivePlan(planID)
}

func (v *txView) CreateGrant(_ context.Context, g *subscription.Grant) error {
	return v.st.createGrant(g)
}

func (v *txView) GetGrant(_ context.Context, grantID id.GrantID) (*subscription.Grant, error) {
	return v.st.getGrant(grantID)
}

func (v *txView) ListGrants(_ context.Context, userID id.UserID, opts subscription.ListOpts) ([]*subscription.Grant, error) {
	return v.st.listGrants(userID, opts)
}

func (v *txView) ExpireDueGrants(_ context.Context, now time.Time) (int64, error) {
	return v.st.expireDueGrants(now)
}

func (v *txView) Atomic(_ context.Context, fn func(tx store.Store) error) error {
	return fn(v)
}

func (v *txView) Migrate(_ context.Context) error { return nil }
func (v *txView) Ping(_ context.Context) error    { return nil }
func (v *txView) Close() error                    { return nil }
