package subscription

import (
	"context"
	"time"

	"github.com/xraph/bazaar/id"
)

type Store interface {
	Create(ctx context.Context, g *Grant) error
	Get(ctx context.Context, grantID id.GrantID) (*Grant, error)
	// ListForUser returns a user's grants ordered by start descending.
	ListForUser(ctx context.Context, userID id.UserID, opts ListOpts) ([]*Grant, error)
	// ExpireDue flips StatusActive grants whose window has closed to
	// StatusExpired and returns how many were flipped. Cosmetic hygiene:
	// entitlement is recomputed from timestamps regardless.
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
}
