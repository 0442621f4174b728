// Package subscription defines time-boxed subscription grants.
package subscription

import (
	"time"

	"github.com/xraph/bazaar/id"
	"github.com/xraph/bazaar/types"
)

// Status is the lifecycle state of a grant. A grant past its end timestamp
// may still carry StatusActive until the optional expiry sweep runs, so
// entitlement checks must never trust the status alone — use EntitledAt.
type Status string

const (
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
)

// Grant is one purchased subscription window. A user may hold several
// concurrent or historical grants.
type Grant struct {
	types.Entity
	ID      id.GrantID `json:"id"`
	UserID  id.UserID  `json:"user_id"`
	PlanID  id.PlanID  `json:"plan_id"`
	StartAt time.Time  `json:"start_at"`
	EndAt   time.Time  `json:"end_at"` // StartAt + plan duration
	Status  Status     `json:"status"`
}

// EntitledAt reports whether the grant confers access at the given time.
// Entitlement is recomputed from timestamps on every check.
func (g *Grant) EntitledAt(t time.Time) bool {
	return g.Status == StatusActive && t.Before(g.EndAt)
}

// ListOpts paginates grant listings.
type ListOpts struct {
	Limit  int
	Offset int
}
