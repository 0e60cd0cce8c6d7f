package store

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := NewSQLiteStore(":memory:", testLogger())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func testBoltStore(t *testing.T) *BoltStore {
	t.Helper()
	st, err := NewBoltStore(filepath.Join(t.TempDir(), "storage.bolt"), testLogger())
	if err != nil {
		t.Fatalf("open bolt: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

// backends returns a fresh instance of every Store implementation.
func backends(t *testing.T) map[string]Store {
	return map[string]Store{
		"sqlite": testSQLiteStore(t),
		"bolt":   testBoltStore(t),
		"memory": NewMemoryStore(),
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	st := testSQLiteStore(t)
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestStore_GetMissing(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			v, ok, err := st.GetItem(context.Background(), "nope")
			if err != nil {
				t.Fatalf("GetItem: %v", err)
			}
			if ok || v != "" {
				t.Errorf("GetItem(missing) = %q, %v; want \"\", false", v, ok)
			}
		})
	}
}

func TestStore_SetGetOverwriteRemove(t *testing.T) {
	ctx := context.Background()
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := st.SetItem(ctx, KeySession, `{"token":"a"}`); err != nil {
				t.Fatalf("SetItem: %v", err)
			}
			if err := st.SetItem(ctx, KeySession, `{"token":"b"}`); err != nil {
				t.Fatalf("SetItem overwrite: %v", err)
			}
			v, ok, err := st.GetItem(ctx, KeySession)
			if err != nil || !ok {
				t.Fatalf("GetItem: %q %v %v", v, ok, err)
			}
			if v != `{"token":"b"}` {
				t.Errorf("value = %q, want overwritten value", v)
			}

			if err := st.RemoveItem(ctx, KeySession); err != nil {
				t.Fatalf("RemoveItem: %v", err)
			}
			if _, ok, _ := st.GetItem(ctx, KeySession); ok {
				t.Error("expected key to be gone after RemoveItem")
			}
			// Removing twice is fine.
			if err := st.RemoveItem(ctx, KeySession); err != nil {
				t.Errorf("RemoveItem missing: %v", err)
			}
		})
	}
}

func TestStore_Keys(t *testing.T) {
	ctx := context.Background()
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			st.SetItem(ctx, KeySession, "{}")
			st.SetItem(ctx, KeyConnections, "[]")
			keys, err := st.Keys(ctx)
			if err != nil {
				t.Fatalf("Keys: %v", err)
			}
			want := []string{KeySession, KeyConnections}
			if diff := cmp.Diff(want, keys); diff != "" {
				t.Errorf("Keys mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	var got payload
	ok, err := GetJSON(ctx, st, "p", &got)
	if err != nil || ok {
		t.Fatalf("GetJSON(missing) = %v, %v", ok, err)
	}

	if err := SetJSON(ctx, st, "p", payload{Name: "x", Count: 2}); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}
	ok, err = GetJSON(ctx, st, "p", &got)
	if err != nil || !ok {
		t.Fatalf("GetJSON = %v, %v", ok, err)
	}
	if diff := cmp.Diff(payload{Name: "x", Count: 2}, got); diff != "" {
		t.Errorf("GetJSON mismatch (-want +got):\n%s", diff)
	}

	st.SetItem(ctx, "p", "{not json")
	ok, err = GetJSON(ctx, st, "p", &got)
	if ok || !errors.Is(err, ErrCorrupt) {
		t.Errorf("GetJSON(corrupt) = %v, %v; want false, ErrCorrupt", ok, err)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	for _, driver := range []string{"sqlite", "bolt", "memory"} {
		t.Run(driver, func(t *testing.T) {
			st, err := Open(ctx, driver, filepath.Join(dir, "nested", driver+".db"), testLogger())
			if err != nil {
				t.Fatalf("Open(%s): %v", driver, err)
			}
			defer st.Close()
			if err := st.SetItem(ctx, "k", "v"); err != nil {
				t.Fatalf("SetItem: %v", err)
			}
		})
	}

	if _, err := Open(ctx, "redis", filepath.Join(dir, "x"), testLogger()); err == nil {
		t.Error("expected error for unknown driver")
	}
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "storage.db")

	st, err := Open(ctx, "sqlite", path, testLogger())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	st.SetItem(ctx, KeyConnections, `[{"code":"ABC123"}]`)
	st.Close()

	st, err = Open(ctx, "sqlite", path, testLogger())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer st.Close()
	v, ok, err := st.GetItem(ctx, KeyConnections)
	if err != nil || !ok || v != `[{"code":"ABC123"}]` {
		t.Errorf("after reopen GetItem = %q, %v, %v", v, ok, err)
	}
}
