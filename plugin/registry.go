package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/xraph/bazaar/account"
	"github.com/xraph/bazaar/id"
	"github.com/xraph/bazaar/ledger"
	"github.com/xraph/bazaar/plan"
	"github.com/xraph/bazaar/recipe"
	"github.com/xraph/bazaar/subscription"
	"github.com/xraph/bazaar/trade"
)

// Registry manages all registered plugins and provides efficient dispatch.
// Interfaces are cached at registration so each emit is a plain slice walk.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger

	// Type-cached plugin lists for efficient dispatch
	onInit                []OnInit
	onShutdown            []OnShutdown
	onAccountRegistered   []OnAccountRegistered
	onRecipeAdded         []OnRecipeAdded
	onPurchaseCompleted   []OnPurchaseCompleted
	onTopUpRecorded       []OnTopUpRecorded
	onTradeOffered        []OnTradeOffered
	onTradeAccepted       []OnTradeAccepted
	onTradeDeclined       []OnTradeDeclined
	onTradeCancelled      []OnTradeCancelled
	onPlanCreated         []OnPlanCreated
	onPlanArchived        []OnPlanArchived
	onSubscriptionGranted []OnSubscriptionGranted
	onGrantsExpired       []OnGrantsExpired
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{logger: slog.Default()}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	var interfaces []string
	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
		interfaces = append(interfaces, "OnInit")
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
		interfaces = append(interfaces, "OnShutdown")
	}
	if v, ok := p.(OnAccountRegistered); ok {
		r.onAccountRegistered = append(r.onAccountRegistered, v)
		interfaces = append(interfaces, "OnAccountRegistered")
	}
	if v, ok := p.(OnRecipeAdded); ok {
		r.onRecipeAdded = append(r.onRecipeAdded, v)
		interfaces = append(interfaces, "OnRecipeAdded")
	}
	if v, ok := p.(OnPurchaseCompleted); ok {
		r.onPurchaseCompleted = append(r.onPurchaseCompleted, v)
		interfaces = append(interfaces, "OnPurchaseCompleted")
	}
	if v, ok := p.(OnTopUpRecorded); ok {
		r.onTopUpRecorded = append(r.onTopUpRecorded, v)
		interfaces = append(interfaces, "OnTopUpRecorded")
	}
	if v, ok := p.(OnTradeOffered); ok {
		r.onTradeOffered = append(r.onTradeOffered, v)
		interfaces = append(interfaces, "OnTradeOffered")
	}
	if v, ok := p.(OnTradeAccepted); ok {
		r.onTradeAccepted = append(r.onTradeAccepted, v)
		interfaces = append(interfaces, "OnTradeAccepted")
	}
	if v, ok := p.(OnTradeDeclined); ok {
		r.onTradeDeclined = append(r.onTradeDeclined, v)
		interfaces = append(interfaces, "OnTradeDeclined")
	}
	if v, ok := p.(OnTradeCancelled); ok {
		r.onTradeCancelled = append(r.onTradeCancelled, v)
		interfaces = append(interfaces, "OnTradeCancelled")
	}
	if v, ok := p.(OnPlanCreated); ok {
		r.onPlanCreated = append(r.onPlanCreated, v)
		interfaces = append(interfaces, "OnPlanCreated")
	}
	if v, ok := p.(OnPlanArchived); ok {
		r.onPlanArchived = append(r.onPlanArchived, v)
		interfaces = append(interfaces, "OnPlanArchived")
	}
	if v, ok := p.(OnSubscriptionGranted); ok {
		r.onSubscriptionGranted = append(r.onSubscriptionGranted, v)
		interfaces = append(interfaces, "OnSubscriptionGranted")
	}
	if v, ok := p.(OnGrantsExpired); ok {
		r.onGrantsExpired = append(r.onGrantsExpired, v)
		interfaces = append(interfaces, "OnGrantsExpired")
	}

	r.logger.Info("plugin registered",
		"name", p.Name(),
		"interfaces", interfaces,
	)

	return nil
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, market any) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	for _, p := range plugins {
		r.emit(ctx, p.Name(), "OnInit", func() error {
			return p.OnInit(ctx, market)
		})
	}
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	for _, p := range plugins {
		r.emit(ctx, p.Name(), "OnShutdown", func() error {
			return p.OnShutdown(ctx)
		})
	}
}

// EmitAccountRegistered emits an account registered event.
func (r *Registry) EmitAccountRegistered(ctx context.Context, a *account.Account) {
	r.mu.RLock()
	plugins := r.onAccountRegistered
	r.mu.RUnlock()

	for _, p := range plugins {
		r.emit(ctx, p.Name(), "OnAccountRegistered", func() error {
			return p.OnAccountRegistered(ctx, a)
		})
	}
}

// EmitRecipeAdded emits a recipe added event.
func (r *Registry) EmitRecipeAdded(ctx context.Context, rc *recipe.Recipe) {
	r.mu.RLock()
	plugins := r.onRecipeAdded
	r.mu.RUnlock()

	for _, p := range plugins {
		r.emit(ctx, p.Name(), "OnRecipeAdded", func() error {
			return p.OnRecipeAdded(ctx, rc)
		})
	}
}

// EmitPurchaseCompleted emits a purchase completed event.
func (r *Registry) EmitPurchaseCompleted(ctx context.Context, buyerID id.UserID, rc *recipe.Recipe, entry *ledger.Entry) {
	r.mu.RLock()
	plugins := r.onPurchaseCompleted
	r.mu.RUnlock()

	for _, p := range plugins {
		r.emit(ctx, p.Name(), "OnPurchaseCompleted", func() error {
			return p.OnPurchaseCompleted(ctx, buyerID, rc, entry)
		})
	}
}

// EmitTopUpRecorded emits a top-up recorded event.
func (r *Registry) EmitTopUpRecorded(ctx context.Context, entry *ledger.Entry) {
	r.mu.RLock()
	plugins := r.onTopUpRecorded
	r.mu.RUnlock()

	for _, p := range plugins {
		r.emit(ctx, p.Name(), "OnTopUpRecorded", func() error {
			return p.OnTopUpRecorded(ctx, entry)
		})
	}
}

// EmitTradeOffered emits a trade offered event.
func (r *Registry) EmitTradeOffered(ctx context.Context, t *trade.Trade) {
	r.mu.RLock()
	plugins := r.onTradeOffered
	r.mu.RUnlock()

	for _, p := range plugins {
		r.emit(ctx, p.Name(), "OnTradeOffered", func() error {
			return p.OnTradeOffered(ctx, t)
		})
	}
}

// EmitTradeAccepted emits a trade accepted event.
func (r *Registry) EmitTradeAccepted(ctx context.Context, t *trade.Trade) {
	r.mu.RLock()
	plugins := r.onTradeAccepted
	r.mu.RUnlock()

	for _, p := range plugins {
		r.emit(ctx, p.Name(), "OnTradeAccepted", func() error {
			return p.OnTradeAccepted(ctx, t)
		})
	}
}

// EmitTradeDeclined emits a trade declined event.
func (r *Registry) EmitTradeDeclined(ctx context.Context, t *trade.Trade) {
	r.mu.RLock()
	plugins := r.onTradeDeclined
	r.mu.RUnlock()

	for _, p := range plugins {
		r.emit(ctx, p.Name(), "OnTradeDeclined", func() error {
			return p.OnTradeDeclined(ctx, t)
		})
	}
}

// EmitTradeCancelled emits a trade cancelled event.
func (r *Registry) EmitTradeCancelled(ctx context.Context, t *trade.Trade) {
	r.mu.RLock()
	plugins := r.onTradeCancelled
	r.mu.RUnlock()

	for _, p := range plugins {
		r.emit(ctx, p.Name(), "OnTradeCancelled", func() error {
			return p.OnTradeCancelled(ctx, t)
		})
	}
}

// EmitPlanCreated emits a plan created event.
func (r *Registry) EmitPlanCreated(ctx context.Context, p *plan.Plan) {
	r.mu.RLock()
	plugins := r.onPlanCreated
	r.mu.RUnlock()

	for _, pl := range plugins {
		r.emit(ctx, pl.Name(), "OnPlanCreated", func() error {
			return pl.OnPlanCreated(ctx, p)
		})
	}
}

// EmitPlanArchived emits a plan archived event.
func (r *Registry) EmitPlanArchived(ctx context.Context, planID id.PlanID) {
	r.mu.RLock()
	plugins := r.onPlanArchived
	r.mu.RUnlock()

	for _, p := range plugins {
		r.emit(ctx, p.Name(), "OnPlanArchived", func() error {
			return p.OnPlanArchived(ctx, planID)
		})
	}
}

// EmitSubscriptionGranted emits a subscription granted event.
func (r *Registry) EmitSubscriptionGranted(ctx context.Context, g *subscription.Grant) {
	r.mu.RLock()
	plugins := r.onSubscriptionGranted
	r.mu.RUnlock()

	for _, p := range plugins {
		r.emit(ctx, p.Name(), "OnSubscriptionGranted", func() error {
			return p.OnSubscriptionGranted(ctx, g)
		})
	}
}

// EmitGrantsExpired emits a grants expired event.
func (r *Registry) EmitGrantsExpired(ctx context.Context, count int64) {
	r.mu.RLock()
	plugins := r.onGrantsExpired
	r.mu.RUnlock()

	for _, p := range plugins {
		r.emit(ctx, p.Name(), "OnGrantsExpired", func() error {
			return p.OnGrantsExpired(ctx, count)
		})
	}
}

// emit calls a hook with a timeout and logs failures. Plugins must never
// block or fail the exchange pipeline.
func (r *Registry) emit(ctx context.Context, pluginName, hook string, fn func() error) {
	if err := r.callWithTimeout(ctx, pluginName, fn); err != nil {
		r.logger.Warn("plugin hook failed",
			"plugin", pluginName,
			"hook", hook,
			"error", err,
		)
	}
}

// callWithTimeout calls a plugin function with a timeout.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
