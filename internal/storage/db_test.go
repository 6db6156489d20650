package storage

import (
	"testing"
	"testing/fstest"
)

// TestMigrationSource verifies migrations are read from the migrations
// directory of the supplied filesystem.
func TestMigrationSource(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/000001_init.up.sql":    {Data: []byte("CREATE TABLE a (id int);")},
		"migrations/000001_init.down.sql":  {Data: []byte("DROP TABLE a;")},
		"migrations/000002_index.up.sql":   {Data: []byte("CREATE INDEX ON a (id);")},
		"migrations/000002_index.down.sql": {Data: []byte("DROP INDEX a_id_idx;")},
	}
	src, err := migrationSource(fsys)
	if err != nil {
		t.Fatalf("migrationSource: %v", err)
	}
	defer src.Close()

	first, err := src.First()
	if err != nil {
		t.Fatalf("First: %v", err)
	}
	if first != 1 {
		t.Errorf("first version = %d, want 1", first)
	}
	next, err := src.Next(first)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if next != 2 {
		t.Errorf("next version = %d, want 2", next)
	}
}

// TestMigrationSourceMissingDir verifies a filesystem without a migrations
// directory is rejected before any database work.
func TestMigrationSourceMissingDir(t *testing.T) {
	fsys := fstest.MapFS{"schema/000001_init.up.sql": {Data: []byte("SELECT 1;")}}
	if _, err := migrationSource(fsys); err == nil {
		t.Fatal("expected error for missing migrations directory")
	}
}
