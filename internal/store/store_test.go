package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// exerciseKeyValue runs the behavior every backend must share.
func exerciseKeyValue(t *testing.T, kv KeyValue) {
	t.Helper()
	ctx := context.Background()

	if _, found, err := kv.Get(ctx, "missing"); err != nil || found {
		t.Fatalf("Get(missing) found=%v err=%v", found, err)
	}

	if err := kv.Set(ctx, "sel", []byte(`{"selected":["A"]}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := kv.Set(ctx, "sel", []byte(`{"selected":["B"]}`)); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	v, found, err := kv.Get(ctx, "sel")
	if err != nil || !found {
		t.Fatalf("Get(sel) found=%v err=%v", found, err)
	}
	if string(v) != `{"selected":["B"]}` {
		t.Errorf("Get(sel) = %s", v)
	}

	if err := kv.Delete(ctx, "sel"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, found, _ := kv.Get(ctx, "sel"); found {
		t.Error("deleted key still found")
	}
	if err := kv.Delete(ctx, "sel"); err != nil {
		t.Errorf("Delete of absent key: %v", err)
	}
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	exerciseKeyValue(t, m)

	ctx := context.Background()
	value := []byte("abc")
	if err := m.Set(ctx, "k", value); err != nil {
		t.Fatal(err)
	}
	value[0] = 'x'
	got, _, _ := m.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("stored value aliased caller slice: %s", got)
	}
}

func TestMemory_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewMemory().Set(ctx, "k", nil); err == nil {
		t.Error("Set ignored cancelled context")
	}
}

func TestSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "matrixdiff.db")
	s, err := OpenSQLite(context.Background(), path, 0)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	exerciseKeyValue(t, s)

	if err := s.Set(context.Background(), "keep", []byte("1")); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := OpenSQLite(context.Background(), path, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	v, found, err := reopened.Get(context.Background(), "keep")
	if err != nil || !found || string(v) != "1" {
		t.Errorf("after reopen: %q found=%v err=%v", v, found, err)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	kv, err := Open(ctx, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := kv.(*Memory); !ok {
		t.Errorf("default driver = %T, want *Memory", kv)
	}

	kv, err = Open(ctx, Options{Driver: "SQLite", DSN: ":memory:"})
	if err != nil {
		t.Fatal(err)
	}
	exerciseKeyValue(t, kv)
	kv.Close()

	if _, err := Open(ctx, Options{Driver: "redis"}); err == nil {
		t.Error("unknown driver accepted")
	}
	if _, err := OpenSQLite(ctx, "", 0); err == nil {
		t.Error("empty sqlite path accepted")
	}
}

func TestPostgres(t *testing.T) {
	url := os.Getenv("MATRIXDIFF_TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("MATRIXDIFF_TEST_POSTGRES_URL not set")
	}
	p, err := OpenPostgres(context.Background(), url, 2, 5*time.Second)
	if err != nil {
		t.Fatalf("OpenPostgres: %v", err)
	}
	defer p.Close()
	exerciseKeyValue(t, p)
}

func TestOpenPostgres_EmptyURL(t *testing.T) {
	if _, err := OpenPostgres(context.Background(), "", 0, 0); err == nil {
		t.Error("empty URL accepted")
	}
}
