package postgres

import (
	"context"
	"fmt"
)

// Migration is a single versioned schema step. Versions are applied in
// slice order and recorded in bazaar_schema_migrations, so reruns are
// no-ops.
type Migration struct {
	Name    string
	Version string
	Up      string
}

// Migrations is the full schema for the bazaar store.
var Migrations = []Migration{
	{
		Name:    "create_bazaar_accounts",
		Version: "20250101000001",
		Up: `
CREATE TABLE IF NOT EXISTS bazaar_accounts (
    id           TEXT PRIMARY KEY,
    email        TEXT NOT NULL,
    display_name TEXT NOT NULL,
    balance      BIGINT NOT NULL DEFAULT 0,
    role         TEXT NOT NULL DEFAULT 'user',
    created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_bazaar_accounts_email ON bazaar_accounts (LOWER(email));
CREATE UNIQUE INDEX IF NOT EXISTS idx_bazaar_accounts_display_name ON bazaar_accounts (display_name);
`,
	},
	{
		Name:    "create_bazaar_recipes",
		Version: "20250101000002",
		Up: `
CREATE TABLE IF NOT EXISTS bazaar_recipes (
    id              TEXT PRIMARY KEY,
    title           TEXT NOT NULL DEFAULT '',
    description     TEXT NOT NULL DEFAULT '',
    price           BIGINT NOT NULL DEFAULT 0,
    author_id       TEXT NOT NULL,
    views           BIGINT NOT NULL DEFAULT 0,
    subscriber_only BOOLEAN NOT NULL DEFAULT FALSE,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_bazaar_recipes_author ON bazaar_recipes (author_id);
`,
	},
	{
		Name:    "create_bazaar_ledger_entries",
		Version: "20250101000003",
		Up: `
CREATE TABLE IF NOT EXISTS bazaar_ledger_entries (
    id         TEXT PRIMARY KEY,
    user_id    TEXT NOT NULL,
    amount     BIGINT NOT NULL,
    kind       TEXT NOT NULL,
    recipe_id  TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_bazaar_entries_user ON bazaar_ledger_entries (user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_bazaar_entries_user_kind ON bazaar_ledger_entries (user_id, kind);
`,
	},
	{
		Name:    "create_bazaar_ownership",
		Version: "20250101000004",
		Up: `
CREATE TABLE IF NOT EXISTS bazaar_ownership (
    id          TEXT PRIMARY KEY,
    user_id     TEXT NOT NULL,
    recipe_id   TEXT NOT NULL,
    acquired    TEXT NOT NULL,
    acquired_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_bazaar_ownership_user_recipe ON bazaar_ownership (user_id, recipe_id);
CREATE INDEX IF NOT EXISTS idx_bazaar_ownership_user ON bazaar_ownership (user_id, acquired_at DESC);
`,
	},
	{
		Name:    "create_bazaar_trades",
		Version: "20250101000005",
		Up: `
CREATE TABLE IF NOT EXISTS bazaar_trades (
    id                  TEXT PRIMARY KEY,
    offering_user_id    TEXT NOT NULL,
    offered_recipe_id   TEXT NOT NULL,
    requested_user_id   TEXT NOT NULL,
    requested_recipe_id TEXT NOT NULL,
    status              TEXT NOT NULL DEFAULT 'pending',
    created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_bazaar_trades_offering ON bazaar_trades (offering_user_id, status);
CREATE INDEX IF NOT EXISTS idx_bazaar_trades_requested ON bazaar_trades (requested_user_id, status);
`,
	},
	{
		Name:    "create_bazaar_plans",
		Version: "20250101000006",
		Up: `
CREATE TABLE IF NOT EXISTS bazaar_plans (
    id            TEXT PRIMARY KEY,
    name          TEXT NOT NULL DEFAULT '',
    description   TEXT NOT NULL DEFAULT '',
    duration_days INT NOT NULL DEFAULT 0,
    price         BIGINT NOT NULL DEFAULT 0,
    status        TEXT NOT NULL DEFAULT 'active',
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_bazaar_plans_status ON bazaar_plans (status);
`,
	},
	{
		Name:    "create_bazaar_grants",
		Version: "20250101000007",
		Up: `
CREATE TABLE IF NOT EXISTS bazaar_grants (
    id         TEXT PRIMARY KEY,
    user_id    TEXT NOT NULL,
    plan_id    TEXT NOT NULL,
    start_at   TIMESTAMPTZ NOT NULL,
    end_at     TIMESTAMPTZ NOT NULL,
    status     TEXT NOT NULL DEFAULT 'active',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_bazaar_grants_user ON bazaar_grants (user_id, start_at DESC);
CREATE INDEX IF NOT EXISTS idx_bazaar_grants_due ON bazaar_grants (status, end_at);
`,
	},
}

// runMigrations applies pending migrations inside a single transaction per
// step, tracking applied versions in bazaar_schema_migrations.
func (s *Store) runMigrations(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS bazaar_schema_migrations (
    version    TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`)
	if err != nil {
		return fmt.Errorf("bazaar/postgres: create migrations table: %w", err)
	}

	for _, m := range Migrations {
		var applied bool
		err := s.pool.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM bazaar_schema_migrations WHERE version = $1)`,
			m.Version,
		).Scan(&applied)
		if err != nil {
			return fmt.Errorf("bazaar/postgres: check migration %s: %w", m.Version, err)
		}
		if applied {
			continue
		}

		tx, err := s.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("bazaar/postgres: begin migration %s: %w", m.Version, err)
		}
		if _, err := tx.Exec(ctx, m.Up); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("bazaar/postgres: apply migration %s (%s): %w", m.Version, m.Name, err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO bazaar_schema_migrations (version, name) VALUES ($1, $2)`,
			m.Version, m.Name,
		); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("bazaar/postgres: record migration %s: %w", m.Version, err)
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("bazaar/postgres: commit migration %s: %w", m.Version, err)
		}
	}
	return nil
}
