// Package store defines the unified storage interface for all Bazaar
// entities, plus the atomic unit of work every mutating engine operation
// runs inside.
package store

import (
	"context"
	"time"

	"github.com/xraph/bazaar/account"
	"github.com/xraph/bazaar/id"
	"github.com/xraph/bazaar/ledger"
	"github.com/xraph/bazaar/ownership"
	"github.com/xraph/bazaar/plan"
	"github.com/xraph/bazaar/recipe"
	"github.com/xraph/bazaar/subscription"
	"github.com/xraph/bazaar/trade"
	"github.com/xraph/bazaar/types"
)

// Store is the unified storage interface for all Bazaar entities.
// Instead of embedding the per-entity sub-interfaces, we explicitly declare
// all methods to avoid naming conflicts.
type Store interface {
	// Account methods
	CreateAccount(ctx context.Context, a *account.Account) error
	GetAccount(ctx context.Context, userID id.UserID) (*account.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*account.Account, error)
	AdjustBalance(ctx context.Context, userID id.UserID, delta types.Points) (types.Points, error)
	// DeleteAccount removes the account row only. Ledger entries and
	// ownership records survive; the ledger is append-only.
	DeleteAccount(ctx context.Context, userID id.UserID) error

	// Ledger methods
	AppendEntry(ctx context.Context, e *ledger.Entry) error
	GetEntry(ctx context.Context, entryID id.EntryID) (*ledger.Entry, error)
	ListEntries(ctx context.Context, userID id.UserID, opts ledger.ListOpts) ([]*ledger.Entry, error)
	SumEntries(ctx context.Context, userID id.UserID) (types.Points, error)

	// Recipe methods
	CreateRecipe(ctx context.Context, r *recipe.Recipe) error
	GetRecipe(ctx context.Context, recipeID id.RecipeID) (*recipe.Recipe, error)
	UpdateRecipe(ctx context.Context, r *recipe.Recipe) error

	// Ownership methods
	Owns(ctx context.Context, userID id.UserID, recipeID id.RecipeID) (bool, error)
	GrantOwnership(ctx context.Context, rec *ownership.Record) error
	// RevokeOwnership removes the (user, recipe) record. Trades call it
	// to move a recipe rather than duplicate it.
	RevokeOwnership(ctx context.Context, userID id.UserID, recipeID id.RecipeID) error
	ListOwned(ctx context.Context, userID id.UserID, opts ownership.ListOpts) ([]*ownership.Record, error)

	// Trade methods
	CreateTrade(ctx context.Context, t *trade.Trade) error
	GetTrade(ctx context.Context, tradeID id.TradeID) (*trade.Trade, error)
	SetTradeStatus(ctx context.Context, tradeID id.TradeID, status trade.Status, at time.Time) error
	FindPendingTrade(ctx context.Context, offeringUserID id.UserID, offeredRecipeID id.RecipeID, requestedUserID id.UserID, requestedRecipeID id.RecipeID) (*trade.Trade, error)
	ListTradesForUser(ctx context.Context, userID id.UserID, opts trade.ListOpts) ([]*trade.Trade, error)

	// Plan methods
	CreatePlan(ctx context.Context, p *plan.Plan) error
	GetPlan(ctx context.Context, planID id.PlanID) (*plan.Plan, error)
	ListPlans(ctx context.Context, opts plan.ListOpts) ([]*plan.Plan, error)
	UpdatePlan(ctx context.Context, p *plan.Plan) error
	ArchivePlan(ctx context.Context, planID id.PlanID) error

	// Grant methods
	CreateGrant(ctx context.Context, g *subscription.Grant) error
	GetGrant(ctx context.Context, grantID id.GrantID) (*subscription.Grant, error)
	ListGrants(ctx context.Context, userID id.UserID, opts subscription.ListOpts) ([]*subscription.Grant, error)
	ExpireDueGrants(ctx context.Context, now time.Time) (int64, error)

	// Atomic runs fn inside a single storage-level transaction. Every
	// read and write fn performs through tx belongs to that transaction.
	// If fn returns an error the transaction rolls back and the
	// pre-operation state is fully intact; otherwise it commits. Nested
	// Atomic calls join the enclosing transaction.
	Atomic(ctx context.Context, fn func(tx Store) error) error

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
