// Package postgres implements store.Store on PostgreSQL via pgx. Atomic
// maps to a database transaction; reads inside a transaction take row
// locks so revalidation holds until commit.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xraph/bazaar"
	"github.com/xraph/bazaar/account"
	"github.com/xraph/bazaar/id"
	"github.com/xraph/bazaar/ledger"
	"github.com/xraph/bazaar/ownership"
	"github.com/xraph/bazaar/plan"
	"github.com/xraph/bazaar/recipe"
	bazaarstore "github.com/xraph/bazaar/store"
	"github.com/xraph/bazaar/subscription"
	"github.com/xraph/bazaar/trade"
	"github.com/xraph/bazaar/types"
)

// compile-time interface check
var _ bazaarstore.Store = (*Store)(nil)

// querier is the pgx surface shared by a pool and an open transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements store.Store using PostgreSQL via pgx.
type Store struct {
	pool *pgxpool.Pool
	q    querier
	tx   pgx.Tx // non-nil when this Store is a transaction view
}

// New creates a PostgreSQL store backed by the given pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, q: pool}
}

// Pool returns the underlying connection pool for direct access.
func (s *Store) Pool() *pgxpool.Pool { return s.pool }

// Migrate applies pending schema migrations.
func (s *Store) Migrate(ctx context.Context) error {
	if s.tx != nil {
		return fmt.Errorf("bazaar/postgres: migrate inside transaction: %w", bazaar.ErrMigrationFailed)
	}
	return s.runMigrations(ctx)
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool.
func (s *Store) Close() error {
	if s.tx == nil {
		s.pool.Close()
	}
	return nil
}

// Atomic runs fn inside a database transaction. A nested call joins the
// enclosing transaction instead of opening a second one.
func (s *Store) Atomic(ctx context.Context, fn func(tx bazaarstore.Store) error) error {
	if s.tx != nil {
		return fn(s)
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("bazaar/postgres: begin: %w", err)
	}
	view := &Store{pool: s.pool, q: tx, tx: tx}
	if err := fn(view); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("bazaar/postgres: commit: %w", errors.Join(bazaar.ErrTransactionFailed, err))
	}
	return nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// uniqueViolation reports whether err is a unique-index violation on an
// index whose name contains the given fragment.
func uniqueViolation(err error, indexFragment string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return false
	}
	return indexFragment == "" || strings.Contains(pgErr.ConstraintName, indexFragment)
}

// lock returns a FOR UPDATE suffix when reading inside a transaction, so
// revalidated rows stay put until commit.
func (s *Store) lock() string {
	if s.tx != nil {
		return " FOR UPDATE"
	}
	return ""
}

// ==================== Account store ====================

func (s *Store) CreateAccount(ctx context.Context, a *account.Account) error {
	r := toAccountRow(a)
	_, err := s.q.Exec(ctx, `
INSERT INTO bazaar_accounts (id, email, display_name, balance, role, created_at, updated_at)
VALUES ($1, LOWER($2), $3, $4, $5, $6, $7)`,
		r.ID, r.Email, r.DisplayName, r.Balance, r.Role, r.CreatedAt, r.UpdatedAt)
	if err != nil {
		switch {
		case uniqueViolation(err, "email"):
			return bazaar.ErrEmailTaken
		case uniqueViolation(err, "display_name"):
			return bazaar.ErrDisplayNameTaken
		case uniqueViolation(err, ""):
			return bazaar.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (s *Store) GetAccount(ctx context.Context, userID id.UserID) (*account.Account, error) {
	var r accountRow
	err := s.q.QueryRow(ctx, `
SELECT id, email, display_name, balance, role, created_at, updated_at
FROM bazaar_accounts WHERE id = $1`+s.lock(), userID.String()).
		Scan(&r.ID, &r.Email, &r.DisplayName, &r.Balance, &r.Role, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, bazaar.ErrUserNotFound
		}
		return nil, err
	}
	return fromAccountRow(&r)
}

func (s *Store) GetAccountByEmail(ctx context.Context, email string) (*account.Account, error) {
	var r accountRow
	err := s.q.QueryRow(ctx, `
SELECT id, email, display_name, balance, role, created_at, updated_at
FROM bazaar_accounts WHERE LOWER(email) = LOWER($1)`, email).
		Scan(&r.ID, &r.Email, &r.DisplayName, &r.Balance, &r.Role, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, bazaar.ErrUserNotFound
		}
		return nil, err
	}
	return fromAccountRow(&r)
}

func (s *Store) AdjustBalance(ctx context.Context, userID id.UserID, delta types.Points) (types.Points, error) {
	var balance int64
	err := s.q.QueryRow(ctx, `
UPDATE bazaar_accounts SET balance = balance + $2, updated_at = NOW()
WHERE id = $1
RETURNING balance`, userID.String(), delta.Amount).Scan(&balance)
	if err != nil {
		if isNoRows(err) {
			return types.Points{}, bazaar.ErrUserNotFound
		}
		return types.Points{}, err
	}
	return types.PTS(balance), nil
}

func (s *Store) DeleteAccount(ctx context.Context, userID id.UserID) error {
	tag, err := s.q.Exec(ctx, `
DELETE FROM bazaar_accounts WHERE id = $1`, userID.String())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return bazaar.ErrUserNotFound
	}
	return nil
}

// ==================== Ledger store ====================

func (s *Store) AppendEntry(ctx context.Context, e *ledger.Entry) error {
	r := toEntryRow(e)
	_, err := s.q.Exec(ctx, `
INSERT INTO bazaar_ledger_entries (id, user_id, amount, kind, recipe_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`,
		r.ID, r.UserID, r.Amount, r.Kind, r.RecipeID, r.CreatedAt)
	return err
}

func (s *Store) GetEntry(ctx context.Context, entryID id.EntryID) (*ledger.Entry, error) {
	var r entryRow
	err := s.q.QueryRow(ctx, `
SELECT id, user_id, amount, kind, recipe_id, created_at
FROM bazaar_ledger_entries WHERE id = $1`, entryID.String()).
		Scan(&r.ID, &r.UserID, &r.Amount, &r.Kind, &r.RecipeID, &r.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, bazaar.ErrNotFound
		}
		return nil, err
	}
	return fromEntryRow(&r)
}

func (s *Store) ListEntries(ctx context.Context, userID id.UserID, opts ledger.ListOpts) ([]*ledger.Entry, error) {
	query := `
SELECT id, user_id, amount, kind, recipe_id, created_at
FROM bazaar_ledger_entries WHERE user_id = $1`
	args := []any{userID.String()}
	if opts.Kind != "" {
		args = append(args, string(opts.Kind))
		query += fmt.Sprintf(" AND kind = $%d", len(args))
	}
	query += " ORDER BY created_at DESC, id DESC"
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*ledger.Entry
	for rows.Next() {
		var r entryRow
		if err := rows.Scan(&r.ID, &r.UserID, &r.Amount, &r.Kind, &r.RecipeID, &r.CreatedAt); err != nil {
			return nil, err
		}
		e, err := fromEntryRow(&r)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

func (s *Store) SumEntries(ctx context.Context, userID id.UserID) (types.Points, error) {
	var total int64
	err := s.q.QueryRow(ctx, `
SELECT COALESCE(SUM(amount), 0) FROM bazaar_ledger_entries WHERE user_id = $1`,
		userID.String()).Scan(&total)
	if err != nil {
		return types.Points{}, err
	}
	return types.PTS(total), nil
}

// ==================== Recipe store ====================

func (s *Store) CreateRecipe(ctx context.Context, rc *recipe.Recipe) error {
	r := toRecipeRow(rc)
	_, err := s.q.Exec(ctx, `
INSERT INTO bazaar_recipes (id, title, description, price, author_id, views, subscriber_only, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		r.ID, r.Title, r.Description, r.Price, r.AuthorID, r.Views, r.SubscriberOnly, r.CreatedAt, r.UpdatedAt)
	if err != nil {
		if uniqueViolation(err, "") {
			return bazaar.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (s *Store) GetRecipe(ctx context.Context, recipeID id.RecipeID) (*recipe.Recipe, error) {
	var r recipeRow
	err := s.q.QueryRow(ctx, `
SELECT id, title, description, price, author_id, views, subscriber_only, created_at, updated_at
FROM bazaar_recipes WHERE id = $1`+s.lock(), recipeID.String()).
		Scan(&r.ID, &r.Title, &r.Description, &r.Price, &r.AuthorID, &r.Views, &r.SubscriberOnly, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, bazaar.ErrRecipeNotFound
		}
		return nil, err
	}
	return fromRecipeRow(&r)
}

func (s *Store) UpdateRecipe(ctx context.Context, rc *recipe.Recipe) error {
	r := toRecipeRow(rc)
	tag, err := s.q.Exec(ctx, `
UPDATE bazaar_recipes
SET title = $2, description = $3, price = $4, views = $5, subscriber_only = $6, updated_at = NOW()
WHERE id = $1`,
		r.ID, r.Title, r.Description, r.Price, r.Views, r.SubscriberOnly)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return bazaar.ErrRecipeNotFound
	}
	return nil
}

// ==================== Ownership store ====================

func (s *Store) Owns(ctx context.Context, userID id.UserID, recipeID id.RecipeID) (bool, error) {
	var exists bool
	err := s.q.QueryRow(ctx, `
SELECT EXISTS(SELECT 1 FROM bazaar_ownership WHERE user_id = $1 AND recipe_id = $2)`,
		userID.String(), recipeID.String()).Scan(&exists)
	return exists, err
}

func (s *Store) GrantOwnership(ctx context.Context, rec *ownership.Record) error {
	r := toOwnershipRow(rec)
	_, err := s.q.Exec(ctx, `
INSERT INTO bazaar_ownership (id, user_id, recipe_id, acquired, acquired_at)
VALUES ($1, $2, $3, $4, $5)`,
		r.ID, r.UserID, r.RecipeID, r.Acquired, r.AcquiredAt)
	if err != nil {
		// The (user_id, recipe_id) unique index is the last line of
		// defense against double grants under concurrency.
		if uniqueViolation(err, "user_recipe") {
			return bazaar.ErrAlreadyOwned
		}
		if uniqueViolation(err, "") {
			return bazaar.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (s *Store) RevokeOwnership(ctx context.Context, userID id.UserID, recipeID id.RecipeID) error {
	tag, err := s.q.Exec(ctx, `
DELETE FROM bazaar_ownership WHERE user_id = $1 AND recipe_id = $2`,
		userID.String(), recipeID.String())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return bazaar.ErrNotFound
	}
	return nil
}

func (s *Store) ListOwned(ctx context.Context, userID id.UserID, opts ownership.ListOpts) ([]*ownership.Record, error) {
	query := `
SELECT id, user_id, recipe_id, acquired, acquired_at
FROM bazaar_ownership WHERE user_id = $1
ORDER BY acquired_at DESC, id DESC`
	args := []any{userID.String()}
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*ownership.Record
	for rows.Next() {
		var r ownershipRow
		if err := rows.Scan(&r.ID, &r.UserID, &r.RecipeID, &r.Acquired, &r.AcquiredAt); err != nil {
			return nil, err
		}
		rec, err := fromOwnershipRow(&r)
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}

// ==================== Trade store ====================

func (s *Store) CreateTrade(ctx context.Context, t *trade.Trade) error {
	r := toTradeRow(t)
	_, err := s.q.Exec(ctx, `
INSERT INTO bazaar_trades (id, offering_user_id, offered_recipe_id, requested_user_id, requested_recipe_id, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		r.ID, r.OfferingUserID, r.OfferedRecipeID, r.RequestedUserID, r.RequestedRecipeID, r.Status, r.CreatedAt, r.UpdatedAt)
	if err != nil {
		if uniqueViolation(err, "") {
			return bazaar.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (s *Store) GetTrade(ctx context.Context, tradeID id.TradeID) (*trade.Trade, error) {
	var r tradeRow
	err := s.q.QueryRow(ctx, `
SELECT id, offering_user_id, offered_recipe_id, requested_user_id, requested_recipe_id, status, created_at, updated_at
FROM bazaar_trades WHERE id = $1`+s.lock(), tradeID.String()).
		Scan(&r.ID, &r.OfferingUserID, &r.OfferedRecipeID, &r.RequestedUserID, &r.RequestedRecipeID, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, bazaar.ErrTradeNotFound
		}
		return nil, err
	}
	return fromTradeRow(&r)
}

func (s *Store) SetTradeStatus(ctx context.Context, tradeID id.TradeID, status trade.Status, at time.Time) error {
	tag, err := s.q.Exec(ctx, `
UPDATE bazaar_trades SET status = $2, updated_at = $3 WHERE id = $1`,
		tradeID.String(), string(status), at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return bazaar.ErrTradeNotFound
	}
	return nil
}

func (s *Store) FindPendingTrade(ctx context.Context, offeringUserID id.UserID, offeredRecipeID id.RecipeID, requestedUserID id.UserID, requestedRecipeID id.RecipeID) (*trade.Trade, error) {
	var r tradeRow
	err := s.q.QueryRow(ctx, `
SELECT id, offering_user_id, offered_recipe_id, requested_user_id, requested_recipe_id, status, created_at, updated_at
FROM bazaar_trades
WHERE status = 'pending'
  AND offering_user_id = $1 AND offered_recipe_id = $2
  AND requested_user_id = $3 AND requested_recipe_id = $4`,
		offeringUserID.String(), offeredRecipeID.String(),
		requestedUserID.String(), requestedRecipeID.String()).
		Scan(&r.ID, &r.OfferingUserID, &r.OfferedRecipeID, &r.RequestedUserID, &r.RequestedRecipeID, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, bazaar.ErrTradeNotFound
		}
		return nil, err
	}
	return fromTradeRow(&r)
}

func (s *Store) ListTradesForUser(ctx context.Context, userID id.UserID, opts trade.ListOpts) ([]*trade.Trade, error) {
	query := `
SELECT id, offering_user_id, offered_recipe_id, requested_user_id, requested_recipe_id, status, created_at, updated_at
FROM bazaar_trades WHERE (offering_user_id = $1 OR requested_user_id = $1)`
	args := []any{userID.String()}
	if opts.Status != "" {
		args = append(args, string(opts.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY created_at DESC, id DESC"
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*trade.Trade
	for rows.Next() {
		var r tradeRow
		if err := rows.Scan(&r.ID, &r.OfferingUserID, &r.OfferedRecipeID, &r.RequestedUserID, &r.RequestedRecipeID, &r.Status, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		t, err := fromTradeRow(&r)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// ==================== Plan store ====================

func (s *Store) CreatePlan(ctx context.Context, p *plan.Plan) error {
	r := toPlanRow(p)
	_, err := s.q.Exec(ctx, `
INSERT INTO bazaar_plans (id, name, description, duration_days, price, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		r.ID, r.Name, r.Description, r.DurationDays, r.Price, r.Status, r.CreatedAt, r.UpdatedAt)
	if err != nil {
		if uniqueViolation(err, "") {
			return bazaar.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (s *Store) GetPlan(ctx context.Context, planID id.PlanID) (*plan.Plan, error) {
	var r planRow
	err := s.q.QueryRow(ctx, `
SELECT id, name, description, duration_days, price, status, created_at, updated_at
FROM bazaar_plans WHERE id = $1`+s.lock(), planID.String()).
		Scan(&r.ID, &r.Name, &r.Description, &r.DurationDays, &r.Price, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, bazaar.ErrPlanNotFound
		}
		return nil, err
	}
	return fromPlanRow(&r)
}

func (s *Store) ListPlans(ctx context.Context, opts plan.ListOpts) ([]*plan.Plan, error) {
	query := `
SELECT id, name, description, duration_days, price, status, created_at, updated_at
FROM bazaar_plans`
	var args []any
	if opts.Status != "" {
		args = append(args, string(opts.Status))
		query += fmt.Sprintf(" WHERE status = $%d", len(args))
	}
	query += " ORDER BY created_at ASC"
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*plan.Plan
	for rows.Next() {
		var r planRow
		if err := rows.Scan(&r.ID, &r.Name, &r.Description, &r.DurationDays, &r.Price, &r.Status, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		p, err := fromPlanRow(&r)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (s *Store) UpdatePlan(ctx context.Context, p *plan.Plan) error {
	r := toPlanRow(p)
	tag, err := s.q.Exec(ctx, `
UPDATE bazaar_plans
SET name = $2, description = $3, duration_days = $4, price = $5, status = $6, updated_at = NOW()
WHERE id = $1`,
		r.ID, r.Name, r.Description, r.DurationDays, r.Price, r.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return bazaar.ErrPlanNotFound
	}
	return nil
}

func (s *Store) ArchivePlan(ctx context.Context, planID id.PlanID) error {
	tag, err := s.q.Exec(ctx, `
UPDATE bazaar_plans SET status = $2, updated_at = NOW() WHERE id = $1`,
		planID.String(), string(plan.StatusInactive))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return bazaar.ErrPlanNotFound
	}
	return nil
}

// ==================== Grant store ====================

func (s *Store) CreateGrant(ctx context.Context, g *subscription.Grant) error {
	r := toGrantRow(g)
	_, err := s.q.Exec(ctx, `
INSERT INTO bazaar_grants (id, user_id, plan_id, start_at, end_at, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		r.ID, r.UserID, r.PlanID, r.StartAt, r.EndAt, r.Status, r.CreatedAt, r.UpdatedAt)
	if err != nil {
		if uniqueViolation(err, "") {
			return bazaar.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (s *Store) GetGrant(ctx context.Context, grantID id.GrantID) (*subscription.Grant, error) {
	var r grantRow
	err := s.q.QueryRow(ctx, `
SELECT id, user_id, plan_id, start_at, end_at, status, created_at, updated_at
FROM bazaar_grants WHERE id = $1`, grantID.String()).
		Scan(&r.ID, &r.UserID, &r.PlanID, &r.StartAt, &r.EndAt, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, bazaar.ErrNotFound
		}
		return nil, err
	}
	return fromGrantRow(&r)
}

func (s *Store) ListGrants(ctx context.Context, userID id.UserID, opts subscription.ListOpts) ([]*subscription.Grant, error) {
	query := `
SELECT id, user_id, plan_id, start_at, end_at, status, created_at, updated_at
FROM bazaar_grants WHERE user_id = $1
ORDER BY start_at DESC, id DESC`
	args := []any{userID.String()}
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*subscription.Grant
	for rows.Next() {
		var r grantRow
		if err := rows.Scan(&r.ID, &r.UserID, &r.PlanID, &r.StartAt, &r.EndAt, &r.Status, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		g, err := fromGrantRow(&r)
		if err != nil {
			return nil, err
		}
		result = append(result, g)
	}
	return result, rows.Err()
}

func (s *Store) ExpireDueGrants(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.q.Exec(ctx, `
UPDATE bazaar_grants SET status = $2, updated_at = NOW()
WHERE status = $3 AND end_at <= $1`,
		now, string(subscription.StatusExpired), string(subscription.StatusActive))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
