package bazaar

import (
	"context"
	"strings"

	"github.com/xraph/bazaar/account"
	"github.com/xraph/bazaar/id"
	"github.com/xraph/bazaar/ledger"
	"github.com/xraph/bazaar/store"
	"github.com/xraph/bazaar/types"
)

// ──────────────────────────────────────────────────
// Account Management
// ──────────────────────────────────────────────────

// RegisterAccount creates a new account with a zero balance. Email is
// normalized to lower case; email and display name must be unique.
func (m *Market) RegisterAccount(ctx context.Context, email, displayName string) (*account.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	displayName = strings.TrimSpace(displayName)
	if email == "" || displayName == "" {
		return nil, ErrInvalidInput
	}

	a := &account.Account{
		Entity:      types.EntityAt(m.clock()),
		ID:          id.NewUserID(),
		Email:       email,
		DisplayName: displayName,
		Balance:     types.ZeroPoints(),
		Role:        account.RoleUser,
	}

	if err := m.store.CreateAccount(ctx, a); err != nil {
		return nil, err
	}

	m.plugins.EmitAccountRegistered(ctx, a)
	m.logger.Info("account registered", "user_id", a.ID, "display_name", a.DisplayName)
	return a, nil
}

// GetAccount retrieves an account by id.
func (m *Market) GetAccount(ctx context.Context, userID id.UserID) (*account.Account, error) {
	return m.store.GetAccount(ctx, userID)
}

// GetAccountByEmail retrieves an account by email, case-insensitively.
func (m *Market) GetAccountByEmail(ctx context.Context, email string) (*account.Account, error) {
	return m.store.GetAccountByEmail(ctx, email)
}

// Balance returns the user's current balance.
func (m *Market) Balance(ctx context.Context, userID id.UserID) (types.Points, error) {
	a, err := m.store.GetAccount(ctx, userID)
	if err != nil {
		return types.Points{}, err
	}
	return a.Balance, nil
}

// History returns the user's ledger entries, newest first.
func (m *Market) History(ctx context.Context, userID id.UserID, opts ledger.ListOpts) ([]*ledger.Entry, error) {
	if _, err := m.store.GetAccount(ctx, userID); err != nil {
		return nil, err
	}
	return m.store.ListEntries(ctx, userID, opts)
}

// ──────────────────────────────────────────────────
// Top-up
// ──────────────────────────────────────────────────

// TopUpResult reports a committed top-up.
type TopUpResult struct {
	NewBalance types.Points
	EntryID    id.EntryID
}

// TopUp credits a user's balance from outside the marketplace. The credit
// and its ledger entry commit together.
func (m *Market) TopUp(ctx context.Context, userID id.UserID, amount types.Points) (*TopUpResult, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	var (
		result TopUpResult
		entry  *ledger.Entry
	)
	err := m.store.Atomic(ctx, func(tx store.Store) error {
		if _, err := tx.GetAccount(ctx, userID); err != nil {
			return err
		}

		balance, err := tx.AdjustBalance(ctx, userID, amount)
		if err != nil {
			return &OperationError{Kind: ErrTopUpFailed, Err: err}
		}

		entry = &ledger.Entry{
			ID:        id.NewEntryID(),
			UserID:    userID,
			Amount:    amount,
			Kind:      ledger.KindTopUp,
			CreatedAt: m.clock(),
		}
		if err := tx.AppendEntry(ctx, entry); err != nil {
			return &OperationError{Kind: ErrTopUpFailed, Err: err}
		}

		result = TopUpResult{NewBalance: balance, EntryID: entry.ID}
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.plugins.EmitTopUpRecorded(ctx, entry)
	m.logger.Info("top-up recorded", "user_id", userID, "amount", amount, "balance", result.NewBalance)
	return &result, nil
}

// ──────────────────────────────────────────────────
// Invariant check
// ──────────────────────────────────────────────────

// AuditResult reports whether a user's cached balance matches the sum of
// their ledger entries.
type AuditResult struct {
	UserID     id.UserID
	Balance    types.Points
	LedgerSum  types.Points
	Consistent bool
}

// Audit verifies the engine's core invariant for one user: the account
// balance equals the sum of all their ledger entries.
func (m *Market) Audit(ctx context.Context, userID id.UserID) (*AuditResult, error) {
	var result AuditResult
	err := m.store.Atomic(ctx, func(tx store.Store) error {
		a, err := tx.GetAccount(ctx, userID)
		if err != nil {
			return err
		}
		sum, err := tx.SumEntries(ctx, userID)
		if err != nil {
			return err
		}
		result = AuditResult{
			UserID:     userID,
			Balance:    a.Balance,
			LedgerSum:  sum,
			Consistent: a.Balance.Equal(sum),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !result.Consistent {
		m.logger.Error("ledger drift detected",
			"user_id", userID,
			"balance", result.Balance,
			"ledger_sum", result.LedgerSum,
		)
	}
	return &result, nil
}
