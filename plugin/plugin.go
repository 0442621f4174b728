// Package plugin provides an extensible plugin system for the Bazaar
// engine. Plugins hook into marketplace lifecycle events to extend
// functionality without touching the core exchange paths.
package plugin

import (
	"context"

	"github.com/xraph/bazaar/account"
	"github.com/xraph/bazaar/id"
	"github.com/xraph/bazaar/ledger"
	"github.com/xraph/bazaar/plan"
	"github.com/xraph/bazaar/recipe"
	"github.com/xraph/bazaar/subscription"
	"github.com/xraph/bazaar/trade"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the engine starts. The market argument is the
// *bazaar.Market; typed as any to keep this package import-cycle free.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, market any) error
}

// OnShutdown is called when the engine is shutting down.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Account and catalog hooks
// ──────────────────────────────────────────────────

// OnAccountRegistered is called after a new account commits.
type OnAccountRegistered interface {
	Plugin
	OnAccountRegistered(ctx context.Context, a *account.Account) error
}

// OnRecipeAdded is called after a new recipe is published.
type OnRecipeAdded interface {
	Plugin
	OnRecipeAdded(ctx context.Context, rc *recipe.Recipe) error
}

// ──────────────────────────────────────────────────
// Exchange hooks
// ──────────────────────────────────────────────────

// OnPurchaseCompleted is called after a recipe purchase commits. The entry
// is the buyer-side ledger entry.
type OnPurchaseCompleted interface {
	Plugin
	OnPurchaseCompleted(ctx context.Context, buyerID id.UserID, rc *recipe.Recipe, entry *ledger.Entry) error
}

// OnTopUpRecorded is called after a top-up credit commits.
type OnTopUpRecorded interface {
	Plugin
	OnTopUpRecorded(ctx context.Context, entry *ledger.Entry) error
}

// ──────────────────────────────────────────────────
// Trade hooks
// ──────────────────────────────────────────────────

// OnTradeOffered is called after a trade offer is inserted.
type OnTradeOffered interface {
	Plugin
	OnTradeOffered(ctx context.Context, t *trade.Trade) error
}

// OnTradeAccepted is called after a trade acceptance commits, ownership
// already swapped.
type OnTradeAccepted interface {
	Plugin
	OnTradeAccepted(ctx context.Context, t *trade.Trade) error
}

// OnTradeDeclined is called after a trade is declined.
type OnTradeDeclined interface {
	Plugin
	OnTradeDeclined(ctx context.Context, t *trade.Trade) error
}

// OnTradeCancelled is called after a trade is cancelled by its offerer.
type OnTradeCancelled interface {
	Plugin
	OnTradeCancelled(ctx context.Context, t *trade.Trade) error
}

// ──────────────────────────────────────────────────
// Subscription hooks
// ──────────────────────────────────────────────────

// OnPlanCreated is called when a new subscription plan is created.
type OnPlanCreated interface {
	Plugin
	OnPlanCreated(ctx context.Context, p *plan.Plan) error
}

// OnPlanArchived is called when a plan is archived.
type OnPlanArchived interface {
	Plugin
	OnPlanArchived(ctx context.Context, planID id.PlanID) error
}

// OnSubscriptionGranted is called after a subscription purchase commits.
type OnSubscriptionGranted interface {
	Plugin
	OnSubscriptionGranted(ctx context.Context, g *subscription.Grant) error
}

// OnGrantsExpired is called by the expiry sweep after flipping due grants.
type OnGrantsExpired interface {
	Plugin
	OnGrantsExpired(ctx context.Context, count int64) error
}
