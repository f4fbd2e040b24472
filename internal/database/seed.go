package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

var defaultSystemCategories = []struct {
	Name string
	Icon string
}{
	{"Groceries", "shopping-cart"},
	{"Dairy", "milk"},
	{"Bakery", "croissant"},
	{"Fruits & Vegetables", "apple"},
	{"Meat & Fish", "beef"},
	{"Household", "home"},
	{"Drinks", "cup-soda"},
	{"Other", "package"},
}

// Seed inserts the system category dictionary when the table is empty.
// These rows are copied into each user's personal scope at registration.
func Seed(ctx context.Context, db *DB) error {
	var count int
	if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM system_categories").Scan(&count); err != nil {
		return fmt.Errorf("failed to count system categories: %w", err)
	}

	if count > 0 {
		return nil
	}

	for _, cat := range defaultSystemCategories {
		_, err := db.Exec(ctx,
			"INSERT INTO system_categories (id, name, icon) VALUES ($1, $2, $3)",
			uuid.New().String(), cat.Name, cat.Icon)
		if err != nil {
			return fmt.Errorf("failed to seed system category %q: %w", cat.Name, err)
		}
	}

	return nil
}
