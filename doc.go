// Package bazaar provides a ledger-consistent exchange engine for a
// points-economy recipe marketplace.
//
// Bazaar is designed as a library, not a service. The HTTP layer, auth,
// and catalog browsing live outside; applications import the engine and
// call it with an authenticated user id. It provides:
//
//   - Recipe purchase: buyer debit, author credit, dual ledger entries,
//     and ownership grant in one atomic unit of work
//   - Peer-to-peer recipe trading: a four-state offer lifecycle with
//     accept-time revalidation and an atomic two-way ownership swap
//   - Subscription grants: time-boxed plan purchases with entitlement
//     recomputed on every read
//   - An append-only points ledger as the single source of truth for
//     every balance change
//
// # Quick Start
//
// Create a market instance with your preferred store:
//
//	import (
//	    "github.com/xraph/bazaar"
//	    "github.com/xraph/bazaar/store/postgres"
//	)
//
//	// Initialize store
//	st, err := postgres.NewFromEnv(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Create the market engine
//	m := bazaar.New(st)
//
//	// Start it (runs migrations, initializes plugins)
//	if err := m.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer m.Stop()
//
// # Core Concepts
//
// Accounts hold a points balance that only ledger-writing operations may
// move. Every mutation pairs a balance adjustment with an immutable ledger
// entry inside the same transaction, so for any user at any time:
//
//	balance == sum of that user's ledger entries
//
// Purchases move points and grant ownership:
//
//	res, err := m.Purchase(ctx, buyerID, recipeID)
//
// Trades swap ownership without moving points:
//
//	t, err := m.OfferTrade(ctx, aliceID, recipeX, bobID, recipeY)
//	t, err = m.AcceptTrade(ctx, bobID, t.ID)
//
// Subscriptions open a time-boxed window over gated recipes:
//
//	res, err := m.PurchaseSubscription(ctx, userID, planID)
//	ok, err := m.Entitled(ctx, userID, recipeID)
//
// # Concurrency
//
// Conflicting operations serialize on the storage transaction. Every
// precondition is re-checked inside the transaction immediately before its
// writes, so a precondition that was true when the request began but was
// invalidated by a concurrent winner aborts cleanly. Partial application
// is never persisted: a purchase debits-and-grants, or does nothing.
//
// All monetary calculations use integer arithmetic to avoid floating-point
// precision issues. The Points type represents amounts in hundredths of a
// point.
//
// # TypeID
//
// All entities use TypeID for globally unique, type-safe identifiers:
//
//	user_01h2xcejqtf2nbrexx3vqjhp41   // Account ID
//	rcp_01h2xcejqtf2nbrexx3vqjhp41    // Recipe ID
//	trade_01h455vb4pex5vsknk084sn02q  // Trade ID
//
// TypeIDs are K-sortable, making them ideal for database indexes and
// providing natural time-ordering of entities.
package bazaar
