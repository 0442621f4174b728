package bazaar

import "github.com/xraph/bazaar/types"

// Re-export common types for convenience so users don't have to import types package.

// Points is re-exported from types package.
type Points = types.Points

// Entity is re-exported from types package.
type Entity = types.Entity

// Re-export Points constructors
var (
	PTS        = types.PTS
	Whole      = types.Whole
	ZeroPoints = types.ZeroPoints
	SumPoints  = types.SumPoints
)

// Re-export Entity constructor
var NewEntity = types.NewEntity
