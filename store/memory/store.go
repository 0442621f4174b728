// Package memory provides an in-memory Store: the reference backend for
// tests and examples. Atomic takes the write lock for the whole unit of
// work and restores a snapshot on failure, so rollback semantics match the
// SQL backends.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/xraph/bazaar"
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

// compile-time interface checks
var (
	_ store.Store = (*Store)(nil)
	_ store.Store = (*txView)(nil)
)

// Store is the locking front. All entities are stored by value and copied
// on the way in and out, so callers can never alias live state.
type Store struct {
	mu sync.RWMutex
	st *state
}

// state holds every table. Atomic snapshots and restores the whole struct.
type state struct {
	accounts map[string]account.Account
	entries  []ledger.Entry
	recipes  map[string]recipe.Recipe
	owned    map[string]ownership.Record // keyed user|recipe
	trades   map[string]trade.Trade
	plans    map[string]plan.Plan
	grants   map[string]subscription.Grant
}

func New() *Store {
	return &Store{st: newState()}
}

func newState() *state {
	return &state{
		accounts: make(map[string]account.Account),
		entries:  make([]ledger.Entry, 0),
		recipes:  make(map[string]recipe.Recipe),
		owned:    make(map[string]ownership.Record),
		trades:   make(map[string]trade.Trade),
		plans:    make(map[string]plan.Plan),
		grants:   make(map[string]subscription.Grant),
	}
}

func (st *state) clone() *state {
	cp := &state{
		accounts: make(map[string]account.Account, len(st.accounts)),
		entries:  make([]ledger.Entry, len(st.entries)),
		recipes:  make(map[string]recipe.Recipe, len(st.recipes)),
		owned:    make(map[string]ownership.Record, len(st.owned)),
		trades:   make(map[string]trade.Trade, len(st.trades)),
		plans:    make(map[string]plan.Plan, len(st.plans)),
		grants:   make(map[string]subscription.Grant, len(st.grants)),
	}
	for k, v := range st.accounts {
		cp.accounts[k] = v
	}
	copy(cp.entries, st.entries)
	for k, v := range st.recipes {
		cp.recipes[k] = v
	}
	for k, v := range st.owned {
		cp.owned[k] = v
	}
	for k, v := range st.trades {
		cp.trades[k] = v
	}
	for k, v := range st.plans {
		cp.plans[k] = v
	}
	for k, v := range st.grants {
		cp.grants[k] = v
	}
	return cp
}

func ownKey(userID id.UserID, recipeID id.RecipeID) string {
	return userID.String() + "|" + recipeID.String()
}

// paginate clamps offset/limit against n the way all list methods do.
func paginate(n, offset, limit int) (int, int) {
	start := offset
	if start > n {
		start = n
	}
	end := start + limit
	if limit == 0 || end > n {
		end = n
	}
	return start, end
}

// ──────────────────────────────────────────────────
// Account methods
// ──────────────────────────────────────────────────

func (st *state) createAccount(a *account.Account) error {
	key := a.ID.String()
	if _, exists := st.accounts[key]; exists {
		return bazaar.ErrAlreadyExists
	}
	email := strings.ToLower(a.Email)
	for _, existing := range st.accounts {
		if strings.ToLower(existing.Email) == email {
			return bazaar.ErrEmailTaken
		}
		if existing.DisplayName == a.DisplayName {
			return bazaar.ErrDisplayNameTaken
		}
	}
	cp := *a
	cp.Email = email
	st.accounts[key] = cp
	return nil
}

func (st *state) deleteAccount(userID id.UserID) error {
	key := userID.String()
	if _, exists := st.accounts[key]; !exists {
		return bazaar.ErrUserNotFound
	}
	delete(st.accounts, key)
	return nil
}

func (st *state) getAccount(userID id.UserID) (*account.Account, error) {
	if a, ok := st.accounts[userID.String()]; ok {
		return &a, nil
	}
	return nil, bazaar.ErrUserNotFound
}

func (st *state) getAccountByEmail(email string) (*account.Account, error) {
	email = strings.ToLower(email)
	for _, a := range st.accounts {
		if a.Email == email {
			cp := a
			return &cp, nil
		}
	}
	return nil, bazaar.ErrUserNotFound
}

func (st *state) adjustBalance(userID id.UserID, delta types.Points) (types.Points, error) {
	key := userID.String()
	a, ok := st.accounts[key]
	if !ok {
		return types.Points{}, bazaar.ErrUserNotFound
	}
	a.Balance = a.Balance.Add(delta)
	a.Touch()
	st.accounts[key] = a
	return a.Balance, nil
}

// ──────────────────────────────────────────────────
// Ledger methods
// ──────────────────────────────────────────────────

func (st *state) appendEntry(e *ledger.Entry) error {
	st.entries = append(st.entries, *e)
	return nil
}

func (st *state) getEntry(entryID id.EntryID) (*ledger.Entry, error) {
	for i := range st.entries {
		if st.entries[i].ID == entryID {
			cp := st.entries[i]
			return &cp, nil
		}
	}
	return nil, bazaar.ErrNotFound
}

func (st *state) listEntries(userID id.UserID, opts ledger.ListOpts) ([]*ledger.Entry, error) {
	result := make([]*ledger.Entry, 0)
	// Entries append in creation order; walk backwards for newest-first.
	for i := len(st.entries) - 1; i >= 0; i-- {
		e := st.entries[i]
		if e.UserID != userID {
			continue
		}
		if opts.Kind != "" && e.Kind != opts.Kind {
			continue
		}
		result = append(result, &e)
	}
	start, end := paginate(len(result), opts.Offset, opts.Limit)
	return result[start:end], nil
}

func (st *state) sumEntries(userID id.UserID) (types.Points, error) {
	var total types.Points
	for i := range st.entries {
		if st.entries[i].UserID == userID {
			total = total.Add(st.entries[i].Amount)
		}
	}
	return total, nil
}

// ──────────────────────────────────────────────────
// Recipe methods
// ──────────────────────────────────────────────────

func (st *state) createRecipe(r *recipe.Recipe) error {
	key := r.ID.String()
	if _, exists := st.recipes[key]; exists {
		return bazaar.ErrAlreadyExists
	}
	st.recipes[key] = *r
	return nil
}

func (st *state) getRecipe(recipeID id.RecipeID) (*recipe.Recipe, error) {
	if r, ok := st.recipes[recipeID.String()]; ok {
		return &r, nil
	}
	return nil, bazaar.ErrRecipeNotFound
}

func (st *state) updateRecipe(r *recipe.Recipe) error {
	key := r.ID.String()
	if _, exists := st.recipes[key]; !exists {
		return bazaar.ErrRecipeNotFound
	}
	st.recipes[key] = *r
	return nil
}

// ──────────────────────────────────────────────────
// Ownership methods
// ──────────────────────────────────────────────────

func (st *state) owns(userID id.UserID, recipeID id.RecipeID) (bool, error) {
	_, ok := st.owned[ownKey(userID, recipeID)]
	return ok, nil
}

func (st *state) grantOwnership(rec *ownership.Record) error {
	key := ownKey(rec.UserID, rec.RecipeID)
	if _, exists := st.owned[key]; exists {
		return bazaar.ErrAlreadyOwned
	}
	st.owned[key] = *rec
	return nil
}

func (st *state) revokeOwnership(userID id.UserID, recipeID id.RecipeID) error {
	key := ownKey(userID, recipeID)
	if _, exists := st.owned[key]; !exists {
		return bazaar.ErrNotFound
	}
	delete(st.owned, key)
	return nil
}

func (st *state) listOwned(userID id.UserID, opts ownership.ListOpts) ([]*ownership.Record, error) {
	result := make([]*ownership.Record, 0)
	for _, rec := range st.owned {
		if rec.UserID == userID {
			cp := rec
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].AcquiredAt.After(result[j].AcquiredAt)
	})
	start, end := paginate(len(result), opts.Offset, opts.Limit)
	return result[start:end], nil
}

// ──────────────────────────────────────────────────
// Trade methods
// ──────────────────────────────────────────────────

func (st *state) createTrade(t *trade.Trade) error {
	key := t.ID.String()
	if _, exists := st.trades[key]; exists {
		return bazaar.ErrAlreadyExists
	}
	st.trades[key] = *t
	return nil
}

func (st *state) getTrade(tradeID id.TradeID) (*trade.Trade, error) {
	if t, ok := st.trades[tradeID.String()]; ok {
		return &t, nil
	}
	return nil, bazaar.ErrTradeNotFound
}

func (st *state) setTradeStatus(tradeID id.TradeID, status trade.Status, at time.Time) error {
	key := tradeID.String()
	t, ok := st.trades[key]
	if !ok {
		return bazaar.ErrTradeNotFound
	}
	t.Status = status
	t.UpdatedAt = at
	st.trades[key] = t
	return nil
}

func (st *state) findPendingTrade(offeringUserID id.UserID, offeredRecipeID id.RecipeID, requestedUserID id.UserID, requestedRecipeID id.RecipeID) (*trade.Trade, error) {
	for _, t := range st.trades {
		if t.Status == trade.StatusPending &&
			t.OfferingUserID == offeringUserID &&
			t.OfferedRecipeID == offeredRecipeID &&
			t.RequestedUserID == requestedUserID &&
			t.RequestedRecipeID == requestedRecipeID {
			cp := t
			return &cp, nil
		}
	}
	return nil, bazaar.ErrTradeNotFound
}

func (st *state) listTradesForUser(userID id.UserID, opts trade.ListOpts) ([]*trade.Trade, error) {
	result := make([]*trade.Trade, 0)
	for _, t := range st.trades {
		if t.OfferingUserID != userID && t.RequestedUserID != userID {
			continue
		}
		if opts.Status != "" && t.Status != opts.Status {
			continue
		}
		cp := t
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	start, end := paginate(len(result), opts.Offset, opts.Limit)
	return result[start:end], nil
}

// ──────────────────────────────────────────────────
// Plan methods
// ──────────────────────────────────────────────────

func (st *state) createPlan(p *plan.Plan) error {
	key := p.ID.String()
	if _, exists := st.plans[key]; exists {
		return bazaar.ErrAlreadyExists
	}
	st.plans[key] = *p
	return nil
}

func (st *state) getPlan(planID id.PlanID) (*plan.Plan, error) {
	if p, ok := st.plans[planID.String()]; ok {
		return &p, nil
	}
	return nil, bazaar.ErrPlanNotFound
}

func (st *state) listPlans(opts plan.ListOpts) ([]*plan.Plan, error) {
	result := make([]*plan.Plan, 0)
	for _, p := range st.plans {
		if opts.Status != "" && p.Status != opts.Status {
			continue
		}
		cp := p
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	start, end := paginate(len(result), opts.Offset, opts.Limit)
	return result[start:end], nil
}

func (st *state) updatePlan(p *plan.Plan) error {
	key := p.ID.String()
	if _, exists := st.plans[key]; !exists {
		return bazaar.ErrPlanNotFound
	}
	st.plans[key] = *p
	return nil
}

func (st *state) archivePlan(planID id.PlanID) error {
	key := planID.String()
	p, ok := st.plans[key]
	if !ok {
		return bazaar.ErrPlanNotFound
	}
	p.Status = plan.StatusInactive
	p.Touch()
	st.plans[key] = p
	return nil
}

// ──────────────────────────────────────────────────
// Grant methods
// ──────────────────────────────────────────────────

func (st *state) createGrant(g *subscription.Grant) error {
	key := g.ID.String()
	if _, exists := st.grants[key]; exists {
		return bazaar.ErrAlreadyExists
	}
	st.grants[key] = *g
	return nil
}

func (st *state) getGrant(grantID id.GrantID) (*subscription.Grant, error) {
	if g, ok := st.grants[grantID.String()]; ok {
		return &g, nil
	}
	return nil, bazaar.ErrNotFound
}

func (st *state) listGrants(userID id.UserID, opts subscription.ListOpts) ([]*subscription.Grant, error) {
	result := make([]*subscription.Grant, 0)
	for _, g := range st.grants {
		if g.UserID == userID {
			cp := g
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartAt.After(result[j].StartAt)
	})
	start, end := paginate(len(result), opts.Offset, opts.Limit)
	return result[start:end], nil
}

func (st *state) expireDueGrants(now time.Time) (int64, error) {
	var count int64
	for key, g := range st.grants {
		if g.Status == subscription.StatusActive && !now.Before(g.EndAt) {
			g.Status = subscription.StatusExpired
			g.Touch()
			st.grants[key] = g
			count++
		}
	}
	return count, nil
}

// ──────────────────────────────────────────────────
// Locking front: Store
// ──────────────────────────────────────────────────

func (s *Store) CreateAccount(_ context.Context, a *account.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.createAccount(a)
}

func (s *Store) GetAccount(_ context.Context, userID id.UserID) (*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.getAccount(userID)
}

func (s *Store) GetAccountByEmail(_ context.Context, email string) (*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.getAccountByEmail(email)
}

func (s *Store) AdjustBalance(_ context.Context, userID id.UserID, delta types.Points) (types.Points, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.adjustBalance(userID, delta)
}

func (s *Store) DeleteAccount(_ context.Context, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.deleteAccount(userID)
}

func (s *Store) AppendEntry(_ context.Context, e *ledger.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.appendEntry(e)
}

func (s *Store) GetEntry(_ context.Context, entryID id.EntryID) (*ledger.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.getEntry(entryID)
}

func (s *Store) ListEntries(_ context.Context, userID id.UserID, opts ledger.ListOpts) ([]*ledger.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.listEntries(userID, opts)
}

func (s *Store) SumEntries(_ context.Context, userID id.UserID) (types.Points, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.sumEntries(userID)
}

func (s *Store) CreateRecipe(_ context.Context, r *recipe.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.createRecipe(r)
}

func (s *Store) GetRecipe(_ context.Context, recipeID id.RecipeID) (*recipe.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.getRecipe(recipeID)
}

func (s *Store) UpdateRecipe(_ context.Context, r *recipe.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.updateRecipe(r)
}

func (s *Store) Owns(_ context.Context, userID id.UserID, recipeID id.RecipeID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.owns(userID, recipeID)
}

func (s *Store) GrantOwnership(_ context.Context, rec *ownership.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.grantOwnership(rec)
}

func (s *Store) RevokeOwnership(_ context.Context, userID id.UserID, recipeID id.RecipeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.revokeOwnership(userID, recipeID)
}

func (s *Store) ListOwned(_ context.Context, userID id.UserID, opts ownership.ListOpts) ([]*ownership.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.listOwned(userID, opts)
}

func (s *Store) CreateTrade(_ context.Context, t *trade.Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.createTrade(t)
}

func (s *Store) GetTrade(_ context.Context, tradeID id.TradeID) (*trade.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.getTrade(tradeID)
}

func (s *Store) SetTradeStatus(_ context.Context, tradeID id.TradeID, status trade.Status, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.setTradeStatus(tradeID, status, at)
}

func (s *Store) FindPendingTrade(_ context.Context, offeringUserID id.UserID, offeredRecipeID id.RecipeID, requestedUserID id.UserID, requestedRecipeID id.RecipeID) (*trade.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.findPendingTrade(offeringUserID, offeredRecipeID, requestedUserID, requestedRecipeID)
}

func (s *Store) ListTradesForUser(_ context.Context, userID id.UserID, opts trade.ListOpts) ([]*trade.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.listTradesForUser(userID, opts)
}

func (s *Store) CreatePlan(_ context.Context, p *plan.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.createPlan(p)
}

func (s *Store) GetPlan(_ context.Context, planID id.PlanID) (*plan.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.getPlan(planID)
}

func (s *Store) ListPlans(_ context.Context, opts plan.ListOpts) ([]*plan.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.listPlans(opts)
}

func (s *Store) UpdatePlan(_ context.Context, p *plan.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.updatePlan(p)
}

func (s *Store) ArchivePlan(_ context.Context, planID id.PlanID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.archivePlan(planID)
}

func (s *Store) CreateGrant(_ context.Context, g *subscription.Grant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.createGrant(g)
}

func (s *Store) GetGrant(_ context.Context, grantID id.GrantID) (*subscription.Grant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.getGrant(grantID)
}

func (s *Store) ListGrants(_ context.Context, userID id.UserID, opts subscription.ListOpts) ([]*subscription.Grant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.listGrants(userID, opts)
}

func (s *Store) ExpireDueGrants(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.expireDueGrants(now)
}

// Atomic holds the write lock across the whole unit of work, so the
// transaction sees a stable world and concurrent calls serialize. On error
// the pre-call snapshot is restored wholesale.
func (s *Store) Atomic(_ context.Context, fn func(tx store.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(&txView{st: s.st}); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// Store management
func (s *Store) Migrate(_ context.Context) error {
	return nil // No migration needed for memory store
}

func (s *Store) Ping(_ context.Context) error {
	return nil // Always available
}

func (s *Store) Close() error {
	return nil // Nothing to close
}
