package audithook

// Action constants for audit events.
const (
	// Account actions
	ActionAccountRegistered = "account.registered"

	// Catalog actions
	ActionRecipeAdded = "recipe.added"

	// Exchange actions
	ActionPurchaseCompleted = "purchase.completed"
	ActionTopUpRecorded     = "topup.recorded"

	// Trade actions
	ActionTradeOffered   = "trade.offered"
	ActionTradeAccepted  = "trade.accepted"
	ActionTradeDeclined  = "trade.declined"
	ActionTradeCancelled = "trade.cancelled"

	// Subscription actions
	ActionPlanCreated         = "plan.created"
	ActionPlanArchived        = "plan.archived"
	ActionSubscriptionGranted = "subscription.granted"
	ActionGrantsExpired       = "grants.expired"
)

// Resource constants for audit events.
const (
	ResourceAccount      = "account"
	ResourceRecipe       = "recipe"
	ResourceLedgerEntry  = "ledger_entry"
	ResourceTrade        = "trade"
	ResourcePlan         = "plan"
	ResourceSubscription = "subscription"
)

// Category constants for audit events.
const (
	CategoryIdentity     = "identity"
	CategoryCatalog      = "catalog"
	CategoryExchange     = "exchange"
	CategoryTrade        = "trade"
	CategorySubscription = "subscription"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomePartial = "partial"
)
