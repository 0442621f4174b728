package bazaar

import (
	"context"
	"strings"
	"time"

	"github.com/xraph/bazaar/id"
	"github.com/xraph/bazaar/ledger"
	"github.com/xraph/bazaar/plan"
	"github.com/xraph/bazaar/store"
	"github.com/xraph/bazaar/subscription"
	"github.com/xraph/bazaar/types"
)

// ──────────────────────────────────────────────────
// Plan Management
// ──────────────────────────────────────────────────

// CreatePlan creates a new subscription plan.
func (m *Market) CreatePlan(ctx context.Context, name, description string, durationDays int, price types.Points) (*plan.Plan, error) {
	name = strings.TrimSpace(name)
	if name == "" || durationDays <= 0 {
		return nil, ErrInvalidInput
	}
	if price.IsNegative() {
		return nil, ErrInvalidAmount
	}

	p := &plan.Plan{
		Entity:       types.EntityAt(m.clock()),
		ID:           id.NewPlanID(),
		Name:         name,
		Description:  description,
		DurationDays: durationDays,
		Price:        price,
		Status:       plan.StatusActive,
	}

	if err := m.store.CreatePlan(ctx, p); err != nil {
		return nil, err
	}

	m.plugins.EmitPlanCreated(ctx, p)
	return p, nil
}

// GetPlan retrieves a plan by id.
func (m *Market) GetPlan(ctx context.Context, planID id.PlanID) (*plan.Plan, error) {
	return m.store.GetPlan(ctx, planID)
}

// ListPlans lists plans, optionally filtered by status.
func (m *Market) ListPlans(ctx context.Context, opts plan.ListOpts) ([]*plan.Plan, error) {
	return m.store.ListPlans(ctx, opts)
}

// ArchivePlan soft-deletes a plan. Existing grants keep their window;
// only new purchases are blocked.
func (m *Market) ArchivePlan(ctx context.Context, planID id.PlanID) error {
	if err := m.store.ArchivePlan(ctx, planID); err != nil {
		return err
	}
	m.plugins.EmitPlanArchived(ctx, planID)
	return nil
}

// ──────────────────────────────────────────────────
// Subscription Grant Engine
// ──────────────────────────────────────────────────

// GrantResult reports a committed subscription purchase.
type GrantResult struct {
	GrantID    id.GrantID
	StartAt    time.Time
	EndAt      time.Time
	NewBalance types.Points
}

// PurchaseSubscription debits the plan price and opens a time-boxed grant
// running from now to now plus the plan duration. The debit, its ledger
// entry (no recipe reference), and the grant commit together.
func (m *Market) PurchaseSubscription(ctx context.Context, userID id.UserID, planID id.PlanID) (*GrantResult, error) {
	var (
		result GrantResult
		g      *subscription.Grant
	)

	err := m.store.Atomic(ctx, func(tx store.Store) error {
		p, err := tx.GetPlan(ctx, planID)
		if err != nil {
			return err
		}
		if !p.Purchasable() {
			return ErrPlanInactive
		}

		a, err := tx.GetAccount(ctx, userID)
		if err != nil {
			return err
		}
		if !a.Balance.Covers(p.Price) {
			return &InsufficientBalanceError{Required: p.Price, Current: a.Balance}
		}

		now := m.clock()

		balance, err := tx.AdjustBalance(ctx, userID, p.Price.Negate())
		if err != nil {
			return &OperationError{Kind: ErrSubscriptionPurchaseFailed, Err: err}
		}

		entry := &ledger.Entry{
			ID:        id.NewEntryID(),
			UserID:    userID,
			Amount:    p.Price.Negate(),
			Kind:      ledger.KindPurchase,
			CreatedAt: now,
		}
		if err := tx.AppendEntry(ctx, entry); err != nil {
			return &OperationError{Kind: ErrSubscriptionPurchaseFailed, Err: err}
		}

		g = &subscription.Grant{
			Entity:  types.EntityAt(now),
			ID:      id.NewGrantID(),
			UserID:  userID,
			PlanID:  planID,
			StartAt: now,
			EndAt:   now.AddDate(0, 0, p.DurationDays),
			Status:  subscription.StatusActive,
		}
		if err := tx.CreateGrant(ctx, g); err != nil {
			return &OperationError{Kind: ErrSubscriptionPurchaseFailed, Err: err}
		}

		result = GrantResult{
			GrantID:    g.ID,
			StartAt:    g.StartAt,
			EndAt:      g.EndAt,
			NewBalance: balance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.plugins.EmitSubscriptionGranted(ctx, g)
	m.logger.Info("subscription granted",
		"user_id", userID,
		"plan_id", planID,
		"end_at", result.EndAt,
	)
	return &result, nil
}

// ListGrants returns the user's subscription grants, newest first.
func (m *Market) ListGrants(ctx context.Context, userID id.UserID, opts subscription.ListOpts) ([]*subscription.Grant, error) {
	if _, err := m.store.GetAccount(ctx, userID); err != nil {
		return nil, err
	}
	return m.store.ListGrants(ctx, userID, opts)
}

// Entitled reports whether a user may access a recipe's content: owners
// and authors always may; subscriber-only recipes additionally open to any
// user holding a live grant. Entitlement is recomputed on every call from
// the grant window — the stored status flag alone is never trusted, so a
// lapsed grant denies access even before the expiry sweep touches it.
func (m *Market) Entitled(ctx context.Context, userID id.UserID, recipeID id.RecipeID) (bool, error) {
	rc, err := m.store.GetRecipe(ctx, recipeID)
	if err != nil {
		return false, err
	}

	if rc.AuthorID == userID {
		return true, nil
	}
	owned, err := m.store.Owns(ctx, userID, recipeID)
	if err != nil {
		return false, err
	}
	if owned {
		return true, nil
	}
	if !rc.SubscriberOnly {
		return false, nil
	}

	grants, err := m.store.ListGrants(ctx, userID, subscription.ListOpts{})
	if err != nil {
		return false, err
	}
	now := m.clock()
	for _, g := range grants {
		if g.EntitledAt(now) {
			return true, nil
		}
	}
	return false, nil
}
