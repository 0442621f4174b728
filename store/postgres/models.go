package postgres

import (
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

// Row models mirror the table layouts. IDs travel as their TypeID string
// form, points as their raw hundredths.

// ==================== Account models ====================

type accountRow struct {
	ID          string
	Email       string
	DisplayName string
	Balance     int64
	Role        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func toAccountRow(a *account.Account) *accountRow {
	return &accountRow{
		ID:          a.ID.String(),
		Email:       a.Email,
		DisplayName: a.DisplayName,
		Balance:     a.Balance.Amount,
		Role:        string(a.Role),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func fromAccountRow(r *accountRow) (*account.Account, error) {
	userID, err := id.ParseUserID(r.ID)
	if err != nil {
		return nil, err
	}
	return &account.Account{
		Entity: types.Entity{
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		},
		ID:          userID,
		Email:       r.Email,
		DisplayName: r.DisplayName,
		Balance:     types.PTS(r.Balance),
		Role:        account.Role(r.Role),
	}, nil
}

// ==================== Ledger entry models ====================

type entryRow struct {
	ID        string
	UserID    string
	Amount    int64
	Kind      string
	RecipeID  string
	CreatedAt time.Time
}

func toEntryRow(e *ledger.Entry) *entryRow {
	r := &entryRow{
		ID:        e.ID.String(),
		UserID:    e.UserID.String(),
		Amount:    e.Amount.Amount,
		Kind:      string(e.Kind),
		CreatedAt: e.CreatedAt,
	}
	if !e.RecipeID.IsNil() {
		r.RecipeID = e.RecipeID.String()
	}
	return r
}

func fromEntryRow(r *entryRow) (*ledger.Entry, error) {
	entryID, err := id.ParseEntryID(r.ID)
	if err != nil {
		return nil, err
	}
	userID, err := id.ParseUserID(r.UserID)
	if err != nil {
		return nil, err
	}
	recipeID := id.RecipeID(id.Nil)
	if r.RecipeID != "" {
		recipeID, err = id.ParseRecipeID(r.RecipeID)
		if err != nil {
			return nil, err
		}
	}
	return &ledger.Entry{
		ID:        entryID,
		UserID:    userID,
		Amount:    types.PTS(r.Amount),
		Kind:      ledger.Kind(r.Kind),
		RecipeID:  recipeID,
		CreatedAt: r.CreatedAt,
	}, nil
}

// ==================== Recipe models ====================

type recipeRow struct {
	ID             string
	Title          string
	Description    string
	Price          int64
	AuthorID       string
	Views          int64
	SubscriberOnly bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func toRecipeRow(rc *recipe.Recipe) *recipeRow {
	return &recipeRow{
		ID:             rc.ID.String(),
		Title:          rc.Title,
		Description:    rc.Description,
		Price:          rc.Price.Amount,
		AuthorID:       rc.AuthorID.String(),
		Views:          rc.Views,
		SubscriberOnly: rc.SubscriberOnly,
		CreatedAt:      rc.CreatedAt,
		UpdatedAt:      rc.UpdatedAt,
	}
}

func fromRecipeRow(r *recipeRow) (*recipe.Recipe, error) {
	recipeID, err := id.ParseRecipeID(r.ID)
	if err != nil {
		return nil, err
	}
	authorID, err := id.ParseUserID(r.AuthorID)
	if err != nil {
		return nil, err
	}
	return &recipe.Recipe{
		Entity: types.Entity{
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		},
		ID:             recipeID,
		Title:          r.Title,
		Description:    r.Description,
		Price:          types.PTS(r.Price),
		AuthorID:       authorID,
		Views:          r.Views,
		SubscriberOnly: r.SubscriberOnly,
	}, nil
}

// ==================== Ownership models ====================

type ownershipRow struct {
	ID         string
	UserID     string
	RecipeID   string
	Acquired   string
	AcquiredAt time.Time
}

func toOwnershipRow(rec *ownership.Record) *ownershipRow {
	return &ownershipRow{
		ID:         rec.ID.String(),
		UserID:     rec.UserID.String(),
		RecipeID:   rec.RecipeID.String(),
		Acquired:   string(rec.Acquired),
		AcquiredAt: rec.AcquiredAt,
	}
}

func fromOwnershipRow(r *ownershipRow) (*ownership.Record, error) {
	recID, err := id.ParseOwnershipID(r.ID)
	if err != nil {
		return nil, err
	}
	userID, err := id.ParseUserID(r.UserID)
	if err != nil {
		return nil, err
	}
	recipeID, err := id.ParseRecipeID(r.RecipeID)
	if err != nil {
		return nil, err
	}
	return &ownership.Record{
		ID:         recID,
		UserID:     userID,
		RecipeID:   recipeID,
		Acquired:   ownership.Acquisition(r.Acquired),
		AcquiredAt: r.AcquiredAt,
	}, nil
}

// ==================== Trade models ====================

type tradeRow struct {
	ID                string
	OfferingUserID    string
	OfferedRecipeID   string
	RequestedUserID   string
	RequestedRecipeID string
	Status            string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func toTradeRow(t *trade.Trade) *tradeRow {
	return &tradeRow{
		ID:                t.ID.String(),
		OfferingUserID:    t.OfferingUserID.String(),
		OfferedRecipeID:   t.OfferedRecipeID.String(),
		RequestedUserID:   t.RequestedUserID.String(),
		RequestedRecipeID: t.RequestedRecipeID.String(),
		Status:            string(t.Status),
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}

func fromTradeRow(r *tradeRow) (*trade.Trade, error) {
	tradeID, err := id.ParseTradeID(r.ID)
	if err != nil {
		return nil, err
	}
	offeringUserID, err := id.ParseUserID(r.OfferingUserID)
	if err != nil {
		return nil, err
	}
	offeredRecipeID, err := id.ParseRecipeID(r.OfferedRecipeID)
	if err != nil {
		return nil, err
	}
	requestedUserID, err := id.ParseUserID(r.RequestedUserID)
	if err != nil {
		return nil, err
	}
	requestedRecipeID, err := id.ParseRecipeID(r.RequestedRecipeID)
	if err != nil {
		return nil, err
	}
	return &trade.Trade{
		Entity: types.Entity{
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		},
		ID:                tradeID,
		OfferingUserID:    offeringUserID,
		OfferedRecipeID:   offeredRecipeID,
		RequestedUserID:   requestedUserID,
		RequestedRecipeID: requestedRecipeID,
		Status:            trade.Status(r.Status),
	}, nil
}

// ==================== Plan models ====================

type planRow struct {
	ID           string
	Name         string
	Description  string
	DurationDays int
	Price        int64
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func toPlanRow(p *plan.Plan) *planRow {
	return &planRow{
		ID:           p.ID.String(),
		Name:         p.Name,
		Description:  p.Description,
		DurationDays: p.DurationDays,
		Price:        p.Price.Amount,
		Status:       string(p.Status),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func fromPlanRow(r *planRow) (*plan.Plan, error) {
	planID, err := id.ParsePlanID(r.ID)
	if err != nil {
		return nil, err
	}
	return &plan.Plan{
		Entity: types.Entity{
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		},
		ID:           planID,
		Name:         r.Name,
		Description:  r.Description,
		DurationDays: r.DurationDays,
		Price:        types.PTS(r.Price),
		Status:       plan.Status(r.Status),
	}, nil
}

// ==================== Grant models ====================

type grantRow struct {
	ID        string
	UserID    string
	PlanID    string
	StartAt   time.Time
	EndAt     time.Time
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func toGrantRow(g *subscription.Grant) *grantRow {
	return &grantRow{
		ID:        g.ID.String(),
		UserID:    g.UserID.String(),
		PlanID:    g.PlanID.String(),
		StartAt:   g.StartAt,
		EndAt:     g.EndAt,
		Status:    string(g.Status),
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

func fromGrantRow(r *grantRow) (*subscription.Grant, error) {
	grantID, err := id.ParseGrantID(r.ID)
	if err != nil {
		return nil, err
	}
	userID, err := id.ParseUserID(r.UserID)
	if err != nil {
		return nil, err
	}
	planID, err := id.ParsePlanID(r.PlanID)
	if err != nil {
		return nil, err
	}
	return &subscription.Grant{
		Entity: types.Entity{
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		},
		ID:      grantID,
		UserID:  userID,
		PlanID:  planID,
		StartAt: r.StartAt,
		EndAt:   r.EndAt,
		Status:  subscription.Status(r.Status),
	}, nil
}
