package credential

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"

	"github.com/obraportal/portal-client/internal/core/domain"
	"github.com/obraportal/portal-client/internal/core/ports"
)

// exerciseStore checks the single-slot lifecycle shared by every backend.
func exerciseStore(t *testing.T, store ports.CredentialStore) {
	t.Helper()
	ctx := context.Background()

	if _, err := store.Load(ctx); !errors.Is(err, domain.ErrNoCredential) {
		t.Fatalf("expected ErrNoCredential on empty slot, got %v", err)
	}

	if err := store.Save(ctx, "first"); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := store.Save(ctx, "second"); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got != "second" {
		t.Fatalf("expected latest credential, got %q", got)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("second Clear should be a no-op, got %v", err)
	}
	if _, err := store.Load(ctx); !errors.Is(err, domain.ErrNoCredential) {
		t.Fatalf("expected ErrNoCredential after clear, got %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, "token")
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	exerciseStore(t, store)
}

func TestFileStore_PersistsUnderKey(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, "token")
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	if err := store.Save(context.Background(), "abc"); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(dir, "token"))
	if err != nil {
		t.Fatalf("read slot: %v", err)
	}
	if string(b) != "abc" {
		t.Fatalf("unexpected slot content %q", b)
	}

	reopened, _ := NewFileStore(dir, "token")
	if got, _ := reopened.Load(context.Background()); got != "abc" {
		t.Fatalf("expected credential to survive reopen, got %q", got)
	}
}

func TestRedisStore(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()

	store, err := Connect(context.Background(), RedisConfig{Addr: mr.Addr(), Key: "token"})
	if err != nil {
		t.Fatalf("Connect error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	exerciseStore(t, store)
}

func TestOpen_UnknownBackend(t *testing.T) {
	if _, _, err := Open(context.Background(), Options{Backend: "cookie", Key: "token"}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestOpen_Memory(t *testing.T) {
	store, release, err := Open(context.Background(), Options{Backend: BackendMemory, Key: "token"})
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	defer release()
	exerciseStore(t, store)
}
