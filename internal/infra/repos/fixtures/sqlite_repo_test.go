package fixtures

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmrzaf/mockgen/internal/domain"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo := NewSQLiteRepository(filepath.Join(t.TempDir(), "fixtures.db"))
	if err := repo.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestInitCreatesParentDirectory(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "nested", "deeper", "fixtures.db")
	repo := NewSQLiteRepository(dbPath)

	if err := repo.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if repo.DB() == nil {
		t.Fatal("expected db handle to be initialized")
	}
	t.Cleanup(func() {
		_ = repo.DB().Close()
	})
}

func TestCreateGetListDelete(t *testing.T) {
	t.Parallel()
	repo := newTestRepo(t)

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	first := &domain.Fixture{
		SchemaID:      "orders",
		SchemaVersion: "1",
		TypeExpr:      "list<Order>",
		ElementCount:  3,
		Seed:          7,
		ConfigHash:    "abc",
		Payload:       json.RawMessage(`[{"id":1}]`),
		CreatedAt:     base,
	}
	second := &domain.Fixture{
		SchemaID:   "metrics",
		TypeExpr:   "Device",
		ConfigHash: "def",
		Payload:    json.RawMessage(`{}`),
		CreatedAt:  base.Add(time.Minute),
	}
	for _, f := range []*domain.Fixture{first, second} {
		if err := repo.Create(f); err != nil {
			t.Fatal(err)
		}
		if f.ID == "" {
			t.Fatal("expected generated id")
		}
	}

	got, err := repo.Get(first.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.TypeExpr != "list<Order>" || got.Seed != 7 || string(got.Payload) != `[{"id":1}]` {
		t.Fatalf("unexpected fixture: %#v", got)
	}
	if !got.CreatedAt.Equal(base) {
		t.Fatalf("expected created_at %v, got %v", base, got.CreatedAt)
	}

	all, err := repo.List(0, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].ID != second.ID {
		t.Fatalf("expected newest first, got %d entries", len(all))
	}
	if all[0].Payload != nil {
		t.Fatal("expected list to omit payloads")
	}

	filtered, err := repo.List(10, "orders")
	if err != nil {
		t.Fatal(err)
	}
	if len(filtered) != 1 || filtered[0].ID != first.ID {
		t.Fatalf("unexpected filtered list: %#v", filtered)
	}

	if err := repo.Delete(first.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Get(first.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.Delete(first.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestOpen_DefaultsToSQLite(t *testing.T) {
	t.Parallel()
	repo, err := Open(filepath.Join(t.TempDir(), "f.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer repo.Close()
	if _, ok := repo.(*SQLiteRepository); !ok {
		t.Fatalf("expected sqlite backend, got %T", repo)
	}
}

func TestOpen_RequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty dsn")
	}
}
