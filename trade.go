package bazaar

import (
	"context"
	"errors"

	"github.com/xraph/bazaar/id"
	"github.com/xraph/bazaar/ownership"
	"github.com/xraph/bazaar/store"
	"github.com/xraph/bazaar/trade"
	"github.com/xraph/bazaar/types"
)

// ──────────────────────────────────────────────────
// Trade State Machine
// ──────────────────────────────────────────────────

// OfferTrade proposes a swap: the offering user's offered recipe for the
// requested user's requested recipe. Ownership preconditions hold at offer
// time; AcceptTrade re-validates them because either side may trade the
// recipe away in between.
func (m *Market) OfferTrade(ctx context.Context, offeringUserID id.UserID, offeredRecipeID id.RecipeID, requestedUserID id.UserID, requestedRecipeID id.RecipeID) (*trade.Trade, error) {
	if offeringUserID == requestedUserID {
		return nil, ErrSelfTradeForbidden
	}

	t := &trade.Trade{
		Entity:            types.EntityAt(m.clock()),
		ID:                id.NewTradeID(),
		OfferingUserID:    offeringUserID,
		OfferedRecipeID:   offeredRecipeID,
		RequestedUserID:   requestedUserID,
		RequestedRecipeID: requestedRecipeID,
		Status:            trade.StatusPending,
	}

	err := m.store.Atomic(ctx, func(tx store.Store) error {
		owned, err := tx.Owns(ctx, offeringUserID, offeredRecipeID)
		if err != nil {
			return err
		}
		if !owned {
			return ErrOfferedRecipeNotOwned
		}

		owned, err = tx.Owns(ctx, requestedUserID, requestedRecipeID)
		if err != nil {
			return err
		}
		if !owned {
			return ErrRequestedRecipeNotOwned
		}

		owned, err = tx.Owns(ctx, offeringUserID, requestedRecipeID)
		if err != nil {
			return err
		}
		if owned {
			return ErrAlreadyOwnsTarget
		}

		_, err = tx.FindPendingTrade(ctx, offeringUserID, offeredRecipeID, requestedUserID, requestedRecipeID)
		if err == nil {
			return ErrDuplicateOffer
		}
		if !errors.Is(err, ErrTradeNotFound) {
			return err
		}

		return tx.CreateTrade(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	m.plugins.EmitTradeOffered(ctx, t)
	m.logger.Info("trade offered",
		"trade_id", t.ID,
		"offering_user_id", offeringUserID,
		"requested_user_id", requestedUserID,
	)
	return t, nil
}

// AcceptTrade completes a pending trade: every ownership precondition is
// re-checked inside the transaction immediately before the swap, so a
// recipe that changed hands since the offer aborts the acceptance. The
// swap itself moves both recipes — each side's old record is revoked and
// a trade-provenance record is granted to the other side — and commits
// together with the status transition, or not at all.
func (m *Market) AcceptTrade(ctx context.Context, requestedUserID id.UserID, tradeID id.TradeID) (*trade.Trade, error) {
	var t *trade.Trade

	err := m.store.Atomic(ctx, func(tx store.Store) error {
		var err error
		t, err = tx.GetTrade(ctx, tradeID)
		if err != nil {
			return err
		}

		if t.RequestedUserID != requestedUserID {
			return ErrNotYourTradeToAccept
		}
		if t.Status != trade.StatusPending {
			return &TradeNotPendingError{TradeID: t.ID, Status: t.Status}
		}

		// Accept-time revalidation. Ownership may have moved since the
		// offer; a stale offer must fail here, not half-apply.
		owned, err := tx.Owns(ctx, t.OfferingUserID, t.OfferedRecipeID)
		if err != nil {
			return err
		}
		if !owned {
			return ErrOfferingUserLostRecipe
		}

		owned, err = tx.Owns(ctx, t.RequestedUserID, t.RequestedRecipeID)
		if err != nil {
			return err
		}
		if !owned {
			return ErrRequestedUserLostRecipe
		}

		owned, err = tx.Owns(ctx, t.OfferingUserID, t.RequestedRecipeID)
		if err != nil {
			return err
		}
		if owned {
			return ErrAlreadyOwnsTarget
		}

		// Two-way swap: revoke both old records, then grant each side
		// the other's recipe. A raced duplicate grant surfaces
		// AlreadyOwned from the store and rolls the whole acceptance
		// back.
		now := m.clock()
		if err := tx.RevokeOwnership(ctx, t.OfferingUserID, t.OfferedRecipeID); err != nil {
			return &OperationError{Kind: ErrTradeAcceptanceFailed, Err: err}
		}
		if err := tx.RevokeOwnership(ctx, t.RequestedUserID, t.RequestedRecipeID); err != nil {
			return &OperationError{Kind: ErrTradeAcceptanceFailed, Err: err}
		}
		if err := tx.GrantOwnership(ctx, &ownership.Record{
			ID:         id.NewOwnershipID(),
			UserID:     t.RequestedUserID,
			RecipeID:   t.OfferedRecipeID,
			Acquired:   ownership.AcquiredByTrade,
			AcquiredAt: now,
		}); err != nil {
			return &OperationError{Kind: ErrTradeAcceptanceFailed, Err: err}
		}
		if err := tx.GrantOwnership(ctx, &ownership.Record{
			ID:         id.NewOwnershipID(),
			UserID:     t.OfferingUserID,
			RecipeID:   t.RequestedRecipeID,
			Acquired:   ownership.AcquiredByTrade,
			AcquiredAt: now,
		}); err != nil {
			return &OperationError{Kind: ErrTradeAcceptanceFailed, Err: err}
		}

		if err := tx.SetTradeStatus(ctx, t.ID, trade.StatusAccepted, now); err != nil {
			return &OperationError{Kind: ErrTradeAcceptanceFailed, Err: err}
		}
		t.Status = trade.StatusAccepted
		t.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.plugins.EmitTradeAccepted(ctx, t)
	m.logger.Info("trade accepted", "trade_id", t.ID)
	return t, nil
}

// DeclineTrade lets the requested user reject a pending trade. No
// ownership changes.
func (m *Market) DeclineTrade(ctx context.Context, requestedUserID id.UserID, tradeID id.TradeID) (*trade.Trade, error) {
	t, err := m.closeTrade(ctx, tradeID, trade.StatusDeclined, func(t *trade.Trade) error {
		if t.RequestedUserID != requestedUserID {
			return ErrNotYourTradeToDecline
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.plugins.EmitTradeDeclined(ctx, t)
	m.logger.Info("trade declined", "trade_id", t.ID)
	return t, nil
}

// CancelTrade lets the offering user withdraw a pending trade. No
// ownership changes.
func (m *Market) CancelTrade(ctx context.Context, offeringUserID id.UserID, tradeID id.TradeID) (*trade.Trade, error) {
	t, err := m.closeTrade(ctx, tradeID, trade.StatusCancelled, func(t *trade.Trade) error {
		if t.OfferingUserID != offeringUserID {
			return ErrNotYourTradeToCancel
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.plugins.EmitTradeCancelled(ctx, t)
	m.logger.Info("trade cancelled", "trade_id", t.ID)
	return t, nil
}

// GetTrade retrieves a trade by id.
func (m *Market) GetTrade(ctx context.Context, tradeID id.TradeID) (*trade.Trade, error) {
	return m.store.GetTrade(ctx, tradeID)
}

// closeTrade moves a pending trade to a passive terminal state after the
// caller-supplied authorization check passes.
func (m *Market) closeTrade(ctx context.Context, tradeID id.TradeID, status trade.Status, authorize func(*trade.Trade) error) (*trade.Trade, error) {
	var t *trade.Trade

	err := m.store.Atomic(ctx, func(tx store.Store) error {
		var err error
		t, err = tx.GetTrade(ctx, tradeID)
		if err != nil {
			return err
		}

		if err := authorize(t); err != nil {
			return err
		}
		if t.Status != trade.StatusPending {
			return &TradeNotPendingError{TradeID: t.ID, Status: t.Status}
		}

		now := m.clock()
		if err := tx.SetTradeStatus(ctx, t.ID, status, now); err != nil {
			return err
		}
		t.Status = status
		t.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}
