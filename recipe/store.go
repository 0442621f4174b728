package recipe

import (
	"context"

	"github.com/xraph/bazaar/id"
)

type Store interface {
	Create(ctx context.Context, r *Recipe) error
	Get(ctx context.Context, recipeID id.RecipeID) (*Recipe, error)
	Update(ctx context.Context, r *Recipe) error
}
