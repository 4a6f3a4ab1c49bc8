// AngelaMos | 2026
// migrations.go

// Package migrations applies the database schema at startup. Statements
// are ordered and idempotent; there is no down path.
package migrations

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var statements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id             BIGSERIAL PRIMARY KEY,
		email          TEXT NOT NULL UNIQUE,
		first_name     TEXT NOT NULL,
		last_name      TEXT NOT NULL,
		password_hash  TEXT NOT NULL,
		auth_token_hash TEXT,
		image_filename TEXT,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS categories (
		id   BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,

	`CREATE TABLE IF NOT EXISTS petitions (
		id             BIGSERIAL PRIMARY KEY,
		owner_id       BIGINT NOT NULL REFERENCES users(id),
		title          TEXT NOT NULL UNIQUE,
		description    TEXT NOT NULL,
		category_id    BIGINT NOT NULL REFERENCES categories(id),
		image_filename TEXT,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS support_tiers (
		id          BIGSERIAL PRIMARY KEY,
		petition_id BIGINT NOT NULL REFERENCES petitions(id) ON DELETE CASCADE,
		title       TEXT NOT NULL,
		description TEXT NOT NULL,
		cost        BIGINT NOT NULL CHECK (cost >= 0),
		UNIQUE (petition_id, title)
	)`,

	`CREATE TABLE IF NOT EXISTS supporters (
		id              BIGSERIAL PRIMARY KEY,
		petition_id     BIGINT NOT NULL REFERENCES petitions(id) ON DELETE CASCADE,
		support_tier_id BIGINT NOT NULL REFERENCES support_tiers(id),
		user_id         BIGINT NOT NULL REFERENCES users(id),
		message         TEXT,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (support_tier_id, user_id)
	)`,

	// Reference data. Category rows are never mutated by the API.
	`INSERT INTO categories (name) VALUES
		('Animal Rights'),
		('Arts and Culture'),
		('Community Development'),
		('Economic Justice'),
		('Education'),
		('Environmental Causes'),
		('Health and Wellness'),
		('Human Rights'),
		('Political Reform'),
		('Science and Technology'),
		('Social Justice'),
		('Wildlife')
	ON CONFLICT (name) DO NOTHING`,

	`CREATE INDEX IF NOT EXISTS idx_petitions_owner ON petitions(owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_petitions_category ON petitions(category_id)`,
	`CREATE INDEX IF NOT EXISTS idx_supporters_petition ON supporters(petition_id)`,
	`CREATE INDEX IF NOT EXISTS idx_support_tiers_petition ON support_tiers(petition_id)`,
}

func Apply(ctx context.Context, db *sqlx.DB) error {
	for i, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply migration %d: %w", i, err)
		}
	}
	return nil
}
