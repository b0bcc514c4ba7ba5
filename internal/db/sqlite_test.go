package db

import (
	"net/url"
	"strings"
	"testing"
)

func TestSQLiteDSNCarriesPragmas(t *testing.T) {
	dsn := sqliteDSN("data/rangepick.db")

	path, rawQuery, found := strings.Cut(dsn, "?")
	if !found || path != "data/rangepick.db" {
		t.Fatalf("unexpected dsn %q", dsn)
	}
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		t.Fatalf("parse dsn query: %v", err)
	}
	pragmas := query["_pragma"]
	if len(pragmas) != len(sqlitePragmas) {
		t.Fatalf("expected %d pragmas, got %v", len(sqlitePragmas), pragmas)
	}
	for index, pragma := range sqlitePragmas {
		if pragmas[index] != pragma {
			t.Fatalf("pragma %d = %q, want %q", index, pragmas[index], pragma)
		}
	}
}

func TestOpenSQLiteEnablesForeignKeysAndWAL(t *testing.T) {
	database := openTestDatabase(t)

	var foreignKeys int
	if err := database.Raw("PRAGMA foreign_keys").Scan(&foreignKeys).Error; err != nil {
		t.Fatalf("read foreign_keys: %v", err)
	}
	if foreignKeys != 1 {
		t.Fatalf("expected foreign keys enabled, got %d", foreignKeys)
	}

	var journalMode string
	if err := database.Raw("PRAGMA journal_mode").Scan(&journalMode).Error; err != nil {
		t.Fatalf("read journal_mode: %v", err)
	}
	if !strings.EqualFold(journalMode, "wal") {
		t.Fatalf("expected WAL journal, got %q", journalMode)
	}
}
