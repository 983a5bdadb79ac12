package database

import (
	"io/fs"
	"strings"
	"testing"
)

// The embedded migrations are fed verbatim to Postgres on startup, so a
// malformed statement bricks every fresh deployment. Guard the cheap
// DDL mistakes that a parser would only catch at boot.
func TestMigrations_WellFormedDDL(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("no embedded migrations")
	}

	for _, entry := range entries {
		data, err := fs.ReadFile(migrationsFS, "migrations/"+entry.Name())
		if err != nil {
			t.Fatalf("read %s: %v", entry.Name(), err)
		}
		for i, line := range strings.Split(string(data), "\n") {
			if strings.Count(line, "ON DELETE") > 1 {
				t.Errorf("%s:%d: repeated ON DELETE action: %s", entry.Name(), i+1, strings.TrimSpace(line))
			}
			if strings.Count(line, "REFERENCES") > 1 {
				t.Errorf("%s:%d: repeated REFERENCES clause: %s", entry.Name(), i+1, strings.TrimSpace(line))
			}
		}
	}
}
