package cache

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestKV(t *testing.T) *SQLiteKV {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	kv, err := NewSQLiteKV(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteKV: %v", err)
	}
	t.Cleanup(func() { kv.Close() })
	return kv
}

func TestSQLiteKV_SetAllThenGet(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	if err := kv.SetAll(ctx, map[string]string{"a": "1", "b": "2"}); err != nil {
		t.Fatalf("SetAll: %v", err)
	}

	for key, want := range map[string]string{"a": "1", "b": "2"} {
		got, ok, err := kv.Get(ctx, key)
		if err != nil {
			t.Fatalf("Get(%s): %v", key, err)
		}
		if !ok || got != want {
			t.Errorf("Get(%s) = %q, %v; want %q, true", key, got, ok, want)
		}
	}
}

func TestSQLiteKV_GetUnknownReturnsMiss(t *testing.T) {
	kv := newTestKV(t)

	_, ok, err := kv.Get(context.Background(), "does-not-exist")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("expected miss for unknown key")
	}
}

func TestSQLiteKV_SetAllOverwrites(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	if err := kv.SetAll(ctx, map[string]string{"k": "old"}); err != nil {
		t.Fatalf("first SetAll: %v", err)
	}
	if err := kv.SetAll(ctx, map[string]string{"k": "new"}); err != nil {
		t.Fatalf("second SetAll: %v", err)
	}

	got, _, err := kv.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "new" {
		t.Errorf("Get = %q, want new", got)
	}
}

func TestSQLiteKV_SurvivesReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "persist.db")
	ctx := context.Background()

	kv, err := NewSQLiteKV(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteKV: %v", err)
	}
	if err := kv.SetAll(ctx, map[string]string{"k": "v"}); err != nil {
		t.Fatalf("SetAll: %v", err)
	}
	kv.Close()

	reopened, err := NewSQLiteKV(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, ok, err := reopened.Get(ctx, "k")
	if err != nil || !ok || got != "v" {
		t.Errorf("after reopen Get = %q, %v, %v; want v, true, nil", got, ok, err)
	}
}
