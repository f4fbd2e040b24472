package database

import (
	"context"
	"fmt"
)

// Migrate creates the schema. Unique indexes double as the concurrency
// backstop for the check-then-insert paths: duplicate category names and
// duplicate shares surface as unique violations, not silent duplicates.
func Migrate(ctx context.Context, db *DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			login VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS lists (
			id UUID PRIMARY KEY,
			name VARCHAR(500) NOT NULL,
			author_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS lists_author_id_idx ON lists(author_id)`,
		`CREATE TABLE IF NOT EXISTS system_categories (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			icon VARCHAR(100) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS user_categories (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			icon VARCHAR(100) NOT NULL,
			list_id UUID REFERENCES lists(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS user_categories_user_id_idx ON user_categories(user_id)`,
		`CREATE INDEX IF NOT EXISTS user_categories_list_id_idx ON user_categories(list_id)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS user_categories_personal_name_idx
			ON user_categories(user_id, name) WHERE list_id IS NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS user_categories_local_name_idx
			ON user_categories(list_id, name) WHERE list_id IS NOT NULL`,
		`CREATE TABLE IF NOT EXISTS list_items (
			id UUID PRIMARY KEY,
			list_id UUID NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
			title VARCHAR(1000) NOT NULL,
			description VARCHAR(2000),
			is_completed BOOLEAN NOT NULL DEFAULT FALSE,
			category_id UUID,
			category_type VARCHAR(10) CHECK (category_type IN ('user', 'local')),
			position INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CHECK ((category_id IS NULL) = (category_type IS NULL))
		)`,
		`CREATE INDEX IF NOT EXISTS list_items_list_id_idx ON list_items(list_id)`,
		`CREATE INDEX IF NOT EXISTS list_items_category_id_idx ON list_items(category_id)`,
		`CREATE TABLE IF NOT EXISTS list_shares (
			id UUID PRIMARY KEY,
			list_id UUID NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			role VARCHAR(20) NOT NULL DEFAULT 'editor' CHECK (role IN ('owner', 'editor')),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (list_id, user_id)
		)`,
		`CREATE INDEX IF NOT EXISTS list_shares_user_id_idx ON list_shares(user_id)`,
		`CREATE TABLE IF NOT EXISTS refresh_tokens (
			id UUID PRIMARY KEY,
			token VARCHAR(500) NOT NULL UNIQUE,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			expires_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS refresh_tokens_user_id_idx ON refresh_tokens(user_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}
