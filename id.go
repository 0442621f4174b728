package bazaar

import "github.com/xraph/bazaar/id"

// ID is the primary identifier type for all Bazaar entities.
type ID = id.ID

// Prefix identifies the entity type encoded in a TypeID.
type Prefix = id.Prefix
