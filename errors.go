package bazaar

import (
	"errors"
	"fmt"

	"github.com/xraph/bazaar/id"
	"github.com/xraph/bazaar/trade"
	"github.com/xraph/bazaar/types"
)

// Sentinel errors for common failure scenarios. Precondition failures are
// detected before any write; transactional failures surface after the
// storage transaction has already rolled back.
var (
	// General errors
	ErrNotFound      = errors.New("bazaar: not found")
	ErrAlreadyExists = errors.New("bazaar: already exists")
	ErrInvalidInput  = errors.New("bazaar: invalid input")

	// Account errors
	ErrUserNotFound     = errors.New("bazaar: user not found")
	ErrEmailTaken       = errors.New("bazaar: email already registered")
	ErrDisplayNameTaken = errors.New("bazaar: display name already taken")
	ErrInvalidAmount    = errors.New("bazaar: amount must be positive")

	// Recipe errors
	ErrRecipeNotFound = errors.New("bazaar: recipe not found")

	// Purchase errors
	ErrSelfPurchaseForbidden = errors.New("bazaar: cannot purchase your own recipe")
	ErrAlreadyOwned          = errors.New("bazaar: recipe already owned")
	ErrInsufficientBalance   = errors.New("bazaar: insufficient balance")

	// Trade errors
	ErrSelfTradeForbidden      = errors.New("bazaar: cannot trade with yourself")
	ErrOfferedRecipeNotOwned   = errors.New("bazaar: offered recipe not owned by offering user")
	ErrRequestedRecipeNotOwned = errors.New("bazaar: requested recipe not owned by requested user")
	ErrAlreadyOwnsTarget       = errors.New("bazaar: offering user already owns the requested recipe")
	ErrDuplicateOffer          = errors.New("bazaar: identical trade offer already pending")
	ErrTradeNotFound           = errors.New("bazaar: trade not found")
	ErrNotYourTradeToAccept    = errors.New("bazaar: only the requested user may accept")
	ErrNotYourTradeToDecline   = errors.New("bazaar: only the requested user may decline")
	ErrNotYourTradeToCancel    = errors.New("bazaar: only the offering user may cancel")
	ErrTradeNotPending         = errors.New("bazaar: trade is not pending")
	ErrOfferingUserLostRecipe  = errors.New("bazaar: offering user no longer owns the offered recipe")
	ErrRequestedUserLostRecipe = errors.New("bazaar: requested user no longer owns the requested recipe")

	// Subscription errors
	ErrPlanNotFound = errors.New("bazaar: subscription plan not found")
	ErrPlanInactive = errors.New("bazaar: subscription plan is inactive")

	// Transactional failures (the operation rolled back; callers may retry)
	ErrPurchaseFailed             = errors.New("bazaar: purchase failed")
	ErrTradeAcceptanceFailed      = errors.New("bazaar: trade acceptance failed")
	ErrSubscriptionPurchaseFailed = errors.New("bazaar: subscription purchase failed")
	ErrTopUpFailed                = errors.New("bazaar: top-up failed")

	// Store errors
	ErrStoreClosed       = errors.New("bazaar: store is closed")
	ErrTransactionFailed = errors.New("bazaar: transaction failed")
	ErrMigrationFailed   = errors.New("bazaar: migration failed")
)

// InsufficientBalanceError reports a failed balance check with enough
// context for the presentation layer to render an actionable message.
type InsufficientBalanceError struct {
	Required types.Points
	Current  types.Points
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("bazaar: insufficient balance: need %s, have %s (short %s)",
		e.Required, e.Current, e.Shortfall())
}

// Shortfall returns how many points the caller is missing.
func (e *InsufficientBalanceError) Shortfall() types.Points {
	return e.Required.Subtract(e.Current)
}

// Unwrap makes the error match ErrInsufficientBalance via errors.Is.
func (e *InsufficientBalanceError) Unwrap() error { return ErrInsufficientBalance }

// TradeNotPendingError reports a transition attempt on a trade that has
// already reached a terminal state. Status carries the current state so
// clients need not guess the cause.
type TradeNotPendingError struct {
	TradeID id.TradeID
	Status  trade.Status
}

func (e *TradeNotPendingError) Error() string {
	return fmt.Sprintf("bazaar: trade %s is not pending (status: %s)", e.TradeID, e.Status)
}

// Unwrap makes the error match ErrTradeNotPending via errors.Is.
func (e *TradeNotPendingError) Unwrap() error { return ErrTradeNotPending }

// OperationError wraps a storage-level failure that aborted a mutating
// operation. By the time it surfaces, the transaction has rolled back and
// no partial state was persisted.
type OperationError struct {
	Kind error // one of the transactional failure sentinels
	Err  error // the underlying storage cause
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

// Unwrap exposes both the operation sentinel and the underlying cause.
func (e *OperationError) Unwrap() []error { return []error{e.Kind, e.Err} }

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrRecipeNotFound) ||
		errors.Is(err, ErrTradeNotFound) ||
		errors.Is(err, ErrPlanNotFound)
}

// IsPrecondition returns true for validation failures detected before any
// write was attempted. These are client-correctable and never leave
// partial state behind.
func IsPrecondition(err error) bool {
	return IsNotFound(err) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrSelfPurchaseForbidden) ||
		errors.Is(err, ErrAlreadyOwned) ||
		errors.Is(err, ErrInsufficientBalance) ||
		errors.Is(err, ErrSelfTradeForbidden) ||
		errors.Is(err, ErrOfferedRecipeNotOwned) ||
		errors.Is(err, ErrRequestedRecipeNotOwned) ||
		errors.Is(err, ErrAlreadyOwnsTarget) ||
		errors.Is(err, ErrDuplicateOffer) ||
		errors.Is(err, ErrNotYourTradeToAccept) ||
		errors.Is(err, ErrNotYourTradeToDecline) ||
		errors.Is(err, ErrNotYourTradeToCancel) ||
		errors.Is(err, ErrTradeNotPending) ||
		errors.Is(err, ErrOfferingUserLostRecipe) ||
		errors.Is(err, ErrRequestedUserLostRecipe) ||
		errors.Is(err, ErrPlanInactive)
}

// IsRetryable returns true if the error arose from a race or storage fault
// during a write. The transaction has rolled back; re-running the operation
// re-checks every precondition from scratch.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrPurchaseFailed) ||
		errors.Is(err, ErrTradeAcceptanceFailed) ||
		errors.Is(err, ErrSubscriptionPurchaseFailed) ||
		errors.Is(err, ErrTopUpFailed) ||
		errors.Is(err, ErrTransactionFailed)
}
