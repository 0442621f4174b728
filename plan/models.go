// Package plan defines time-boxed subscription plans.
package plan

import (
	"github.com/xraph/bazaar/id"
	"github.com/xraph/bazaar/types"
)

// Status is a tagged state rather than a raw active flag, so future
// states stay explicit.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive" // soft-deleted; existing grants are unaffected
)

// Plan describes a purchasable subscription: a fixed price buys
// DurationDays of bundled recipe access.
type Plan struct {
	types.Entity
	ID           id.PlanID    `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	DurationDays int          `json:"duration_days"`
	Price        types.Points `json:"price"`
	Status       Status       `json:"status"`
}

// Purchasable reports whether the plan can currently be bought.
func (p *Plan) Purchasable() bool { return p.Status == StatusActive }
