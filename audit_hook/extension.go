// Package audithook bridges Bazaar lifecycle events to an audit trail
// backend.
//
// It defines a local Recorder interface so the package does not import
// Chronicle directly. Callers inject a RecorderFunc adapter that bridges
// to Chronicle at wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xraph/bazaar/account"
	"github.com/xraph/bazaar/id"
	"github.com/xraph/bazaar/ledger"
	"github.com/xraph/bazaar/plan"
	"github.com/xraph/bazaar/plugin"
	"github.com/xraph/bazaar/recipe"
	"github.com/xraph/bazaar/subscription"
	"github.com/xraph/bazaar/trade"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin                = (*Extension)(nil)
	_ plugin.OnAccountRegistered   = (*Extension)(nil)
	_ plugin.OnRecipeAdded         = (*Extension)(nil)
	_ plugin.OnPurchaseCompleted   = (*Extension)(nil)
	_ plugin.OnTopUpRecorded       = (*Extension)(nil)
	_ plugin.OnTradeOffered        = (*Extension)(nil)
	_ plugin.OnTradeAccepted       = (*Extension)(nil)
	_ plugin.OnTradeDeclined       = (*Extension)(nil)
	_ plugin.OnTradeCancelled      = (*Extension)(nil)
	_ plugin.OnPlanCreated         = (*Extension)(nil)
	_ plugin.OnPlanArchived        = (*Extension)(nil)
	_ plugin.OnSubscriptionGranted = (*Extension)(nil)
	_ plugin.OnGrantsExpired       = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
// This matches chronicle.Emitter but is defined locally so that the
// audit_hook package does not import Chronicle directly — callers inject
// the concrete *chronicle.Chronicle at wiring time.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
// It mirrors chronicle/audit.Event but avoids a module dependency.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges Bazaar lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Account and catalog hooks
// ──────────────────────────────────────────────────

// OnAccountRegistered implements plugin.OnAccountRegistered.
func (e *Extension) OnAccountRegistered(ctx context.Context, a *account.Account) error {
	return e.record(ctx, ActionAccountRegistered, SeverityInfo, OutcomeSuccess,
		ResourceAccount, a.ID.String(), CategoryIdentity, nil,
		"display_name", a.DisplayName,
	)
}

// OnRecipeAdded implements plugin.OnRecipeAdded.
func (e *Extension) OnRecipeAdded(ctx context.Context, rc *recipe.Recipe) error {
	return e.record(ctx, ActionRecipeAdded, SeverityInfo, OutcomeSuccess,
		ResourceRecipe, rc.ID.String(), CategoryCatalog, nil,
		"author_id", rc.AuthorID.String(),
		"price", rc.Price.String(),
	)
}

// ──────────────────────────────────────────────────
// Exchange hooks
// ──────────────────────────────────────────────────

// OnPurchaseCompleted implements plugin.OnPurchaseCompleted.
func (e *Extension) OnPurchaseCompleted(ctx context.Context, buyerID id.UserID, rc *recipe.Recipe, entry *ledger.Entry) error {
	return e.record(ctx, ActionPurchaseCompleted, SeverityInfo, OutcomeSuccess,
		ResourceRecipe, rc.ID.String(), CategoryExchange, nil,
		"buyer_id", buyerID.String(),
		"author_id", rc.AuthorID.String(),
		"price", rc.Price.String(),
		"entry_id", entry.ID.String(),
	)
}

// OnTopUpRecorded implements plugin.OnTopUpRecorded.
func (e *Extension) OnTopUpRecorded(ctx context.Context, entry *ledger.Entry) error {
	return e.record(ctx, ActionTopUpRecorded, SeverityInfo, OutcomeSuccess,
		ResourceLedgerEntry, entry.ID.String(), CategoryExchange, nil,
		"user_id", entry.UserID.String(),
		"amount", entry.Amount.String(),
	)
}

// ──────────────────────────────────────────────────
// Trade hooks
// ──────────────────────────────────────────────────

// OnTradeOffered implements plugin.OnTradeOffered.
func (e *Extension) OnTradeOffered(ctx context.Context, t *trade.Trade) error {
	return e.record(ctx, ActionTradeOffered, SeverityInfo, OutcomeSuccess,
		ResourceTrade, t.ID.String(), CategoryTrade, nil,
		"offering_user_id", t.OfferingUserID.String(),
		"requested_user_id", t.RequestedUserID.String(),
	)
}

// OnTradeAccepted implements plugin.OnTradeAccepted.
func (e *Extension) OnTradeAccepted(ctx context.Context, t *trade.Trade) error {
	return e.record(ctx, ActionTradeAccepted, SeverityInfo, OutcomeSuccess,
		ResourceTrade, t.ID.String(), CategoryTrade, nil,
		"offered_recipe_id", t.OfferedRecipeID.String(),
		"requested_recipe_id", t.RequestedRecipeID.String(),
	)
}

// OnTradeDeclined implements plugin.OnTradeDeclined.
func (e *Extension) OnTradeDeclined(ctx context.Context, t *trade.Trade) error {
	return e.record(ctx, ActionTradeDeclined, SeverityInfo, OutcomeSuccess,
		ResourceTrade, t.ID.String(), CategoryTrade, nil)
}

// OnTradeCancelled implements plugin.OnTradeCancelled.
func (e *Extension) OnTradeCancelled(ctx context.Context, t *trade.Trade) error {
	return e.record(ctx, ActionTradeCancelled, SeverityInfo, OutcomeSuccess,
		ResourceTrade, t.ID.String(), CategoryTrade, nil)
}

// ──────────────────────────────────────────────────
// Subscription hooks
// ──────────────────────────────────────────────────

// OnPlanCreated implements plugin.OnPlanCreated.
func (e *Extension) OnPlanCreated(ctx context.Context, p *plan.Plan) error {
	return e.record(ctx, ActionPlanCreated, SeverityInfo, OutcomeSuccess,
		ResourcePlan, p.ID.String(), CategorySubscription, nil,
		"name", p.Name,
		"duration_days", p.DurationDays,
	)
}

// OnPlanArchived implements plugin.OnPlanArchived.
func (e *Extension) OnPlanArchived(ctx context.Context, planID id.PlanID) error {
	return e.record(ctx, ActionPlanArchived, SeverityInfo, OutcomeSuccess,
		ResourcePlan, planID.String(), CategorySubscription, nil)
}

// OnSubscriptionGranted implements plugin.OnSubscriptionGranted.
func (e *Extension) OnSubscriptionGranted(ctx context.Context, g *subscription.Grant) error {
	return e.record(ctx, ActionSubscriptionGranted, SeverityInfo, OutcomeSuccess,
		ResourceSubscription, g.ID.String(), CategorySubscription, nil,
		"user_id", g.UserID.String(),
		"plan_id", g.PlanID.String(),
		"end_at", g.EndAt,
	)
}

// OnGrantsExpired implements plugin.OnGrantsExpired.
func (e *Extension) OnGrantsExpired(ctx context.Context, count int64) error {
	return e.record(ctx, ActionGrantsExpired, SeverityInfo, OutcomeSuccess,
		ResourceSubscription, "", CategorySubscription, nil,
		"count", count,
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
