// Package observability provides a metrics extension for Bazaar that
// records marketplace event counts via an injected MetricFactory.
package observability

import (
	"context"

	"github.com/xraph/bazaar/account"
	"github.com/xraph/bazaar/id"
	"github.com/xraph/bazaar/ledger"
	"github.com/xraph/bazaar/plan"
	"github.com/xraph/bazaar/plugin"
	"github.com/xraph/bazaar/recipe"
	"github.com/xraph/bazaar/subscription"
	"github.com/xraph/bazaar/trade"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin                = (*MetricsExtension)(nil)
	_ plugin.OnInit                = (*MetricsExtension)(nil)
	_ plugin.OnAccountRegistered   = (*MetricsExtension)(nil)
	_ plugin.OnRecipeAdded         = (*MetricsExtension)(nil)
	_ plugin.OnPurchaseCompleted   = (*MetricsExtension)(nil)
	_ plugin.OnTopUpRecorded       = (*MetricsExtension)(nil)
	_ plugin.OnTradeOffered        = (*MetricsExtension)(nil)
	_ plugin.OnTradeAccepted       = (*MetricsExtension)(nil)
	_ plugin.OnTradeDeclined       = (*MetricsExtension)(nil)
	_ plugin.OnTradeCancelled      = (*MetricsExtension)(nil)
	_ plugin.OnPlanCreated         = (*MetricsExtension)(nil)
	_ plugin.OnPlanArchived        = (*MetricsExtension)(nil)
	_ plugin.OnSubscriptionGranted = (*MetricsExtension)(nil)
	_ plugin.OnGrantsExpired       = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records system-wide marketplace metrics. Register it as
// a Bazaar plugin to automatically track exchange activity.
type MetricsExtension struct {
	factory MetricFactory

	// Account metrics
	AccountsRegistered Counter
	RecipesAdded       Counter

	// Exchange metrics
	Purchases      Counter
	PurchaseVolume Histogram
	TopUps         Counter
	TopUpVolume    Histogram

	// Trade metrics
	TradesOffered   Counter
	TradesAccepted  Counter
	TradesDeclined  Counter
	TradesCancelled Counter

	// Subscription metrics
	PlansCreated         Counter
	PlansArchived        Counter
	SubscriptionsGranted Counter
	GrantsExpired        Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided
// MetricFactory. Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		// Account metrics
		AccountsRegistered: factory.Counter("bazaar.account.registered"),
		RecipesAdded:       factory.Counter("bazaar.recipe.added"),

		// Exchange metrics
		Purchases:      factory.Counter("bazaar.purchase.completed"),
		PurchaseVolume: factory.Histogram("bazaar.purchase.amount"),
		TopUps:         factory.Counter("bazaar.topup.recorded"),
		TopUpVolume:    factory.Histogram("bazaar.topup.amount"),

		// Trade metrics
		TradesOffered:   factory.Counter("bazaar.trade.offered"),
		TradesAccepted:  factory.Counter("bazaar.trade.accepted"),
		TradesDeclined:  factory.Counter("bazaar.trade.declined"),
		TradesCancelled: factory.Counter("bazaar.trade.cancelled"),

		// Subscription metrics
		PlansCreated:         factory.Counter("bazaar.plan.created"),
		PlansArchived:        factory.Counter("bazaar.plan.archived"),
		SubscriptionsGranted: factory.Counter("bazaar.subscription.granted"),
		GrantsExpired:        factory.Counter("bazaar.grant.expired"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ any) error {
	// No initialization needed
	return nil
}

// ──────────────────────────────────────────────────
// Account and catalog hooks
// ──────────────────────────────────────────────────

// OnAccountRegistered implements plugin.OnAccountRegistered.
func (m *MetricsExtension) OnAccountRegistered(_ context.Context, _ *account.Account) error {
	m.AccountsRegistered.Inc()
	return nil
}

// OnRecipeAdded implements plugin.OnRecipeAdded.
func (m *MetricsExtension) OnRecipeAdded(_ context.Context, _ *recipe.Recipe) error {
	m.RecipesAdded.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Exchange hooks
// ──────────────────────────────────────────────────

// OnPurchaseCompleted implements plugin.OnPurchaseCompleted.
func (m *MetricsExtension) OnPurchaseCompleted(_ context.Context, _ id.UserID, rc *recipe.Recipe, _ *ledger.Entry) error {
	m.Purchases.Inc()
	m.PurchaseVolume.Observe(float64(rc.Price.Amount))
	return nil
}

// OnTopUpRecorded implements plugin.OnTopUpRecorded.
func (m *MetricsExtension) OnTopUpRecorded(_ context.Context, entry *ledger.Entry) error {
	m.TopUps.Inc()
	m.TopUpVolume.Observe(float64(entry.Amount.Amount))
	return nil
}

// ──────────────────────────────────────────────────
// Trade hooks
// ──────────────────────────────────────────────────

// OnTradeOffered implements plugin.OnTradeOffered.
func (m *MetricsExtension) OnTradeOffered(_ context.Context, _ *trade.Trade) error {
	m.TradesOffered.Inc()
	return nil
}

// OnTradeAccepted implements plugin.OnTradeAccepted.
func (m *MetricsExtension) OnTradeAccepted(_ context.Context, _ *trade.Trade) error {
	m.TradesAccepted.Inc()
	return nil
}

// OnTradeDeclined implements plugin.OnTradeDeclined.
func (m *MetricsExtension) OnTradeDeclined(_ context.Context, _ *trade.Trade) error {
	m.TradesDeclined.Inc()
	return nil
}

// OnTradeCancelled implements plugin.OnTradeCancelled.
func (m *MetricsExtension) OnTradeCancelled(_ context.Context, _ *trade.Trade) error {
	m.TradesCancelled.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Subscription hooks
// ──────────────────────────────────────────────────

// OnPlanCreated implements plugin.OnPlanCreated.
func (m *MetricsExtension) OnPlanCreated(_ context.Context, _ *plan.Plan) error {
	m.PlansCreated.Inc()
	return nil
}

// OnPlanArchived implements plugin.OnPlanArchived.
func (m *MetricsExtension) OnPlanArchived(_ context.Context, _ id.PlanID) error {
	m.PlansArchived.Inc()
	return nil
}

// OnSubscriptionGranted implements plugin.OnSubscriptionGranted.
func (m *MetricsExtension) OnSubscriptionGranted(_ context.Context, _ *subscription.Grant) error {
	m.SubscriptionsGranted.Inc()
	return nil
}

// OnGrantsExpired implements plugin.OnGrantsExpired.
func (m *MetricsExtension) OnGrantsExpired(_ context.Context, count int64) error {
	m.GrantsExpired.Add(float64(count))
	return nil
}
