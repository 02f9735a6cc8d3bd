package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/angelmondragon/packfinderz-simulator/pkg/migrate"
)

func TestSnapshotMigrationContainsSchemas(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_snapshot_tables.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no snapshot migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TYPE category AS ENUM",
		"CREATE TABLE IF NOT EXISTS catalog_products",
		"CREATE TABLE IF NOT EXISTS historical_stats",
		"CREATE TABLE IF NOT EXISTS historical_category_shares",
		"CREATE TABLE IF NOT EXISTS competitor_snapshots",
		"CREATE INDEX IF NOT EXISTS idx_catalog_products_snapshot",
		"CREATE UNIQUE INDEX IF NOT EXISTS uq_historical_stats_venue",
		"CREATE UNIQUE INDEX IF NOT EXISTS uq_competitor_snapshots",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir failed validation: %v", err)
	}
}
