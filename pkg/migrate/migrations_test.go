package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestProductsMigrationContainsSchema(t *testing.T) {
	content := readMigration(t, "*_create_products_table.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS products",
		"count_in_stock INTEGER CHECK (count_in_stock >= 0)",
		"rating REAL NOT NULL DEFAULT 0",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_products_name",
		"CREATE INDEX IF NOT EXISTS idx_products_category",
		"CREATE INDEX IF NOT EXISTS idx_products_brand",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestOrdersMigrationContainsSchema(t *testing.T) {
	content := readMigration(t, "*_create_orders_tables.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS orders",
		"CREATE TABLE IF NOT EXISTS order_items",
		"address JSONB NOT NULL",
		"quantity INTEGER NOT NULL CHECK (quantity >= 1)",
		"CREATE INDEX IF NOT EXISTS idx_orders_session_id",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %q found", pattern)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
