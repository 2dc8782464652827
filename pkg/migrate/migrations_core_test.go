package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/assetnest/assetnest-backend/pkg/migrate"
)

func TestCoreMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_core_tables.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no core migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS organizations",
		"CHECK (member_count <= package_limit)",
		"CREATE TABLE IF NOT EXISTS accounts",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_accounts_email",
		"CREATE TABLE IF NOT EXISTS assets",
		"CHECK (quantity >= 0)",
		"CREATE TABLE IF NOT EXISTS asset_requests",
		"FOREIGN KEY (asset_id) REFERENCES assets(id) ON DELETE RESTRICT",
		"CREATE INDEX IF NOT EXISTS idx_asset_requests_org_status",
		"CREATE TABLE IF NOT EXISTS notices",
		"DROP TABLE IF EXISTS organizations",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationsDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir failed validation: %v", err)
	}
}
