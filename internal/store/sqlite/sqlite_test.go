package sqlite

import (
	"context"
	"testing"

	"github.com/unifyhub/unifyhub/internal/store"
	"github.com/unifyhub/unifyhub/internal/store/storetest"
)

func newMemStore(t *testing.T) store.Store {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := EnsureSchema(db); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return NewWithDB(db)
}

func TestCompliance(t *testing.T) {
	storetest.Run(t, newMemStore)
}

func TestEnsureSchemaIdempotent(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()
	for i := 0; i < 2; i++ {
		if err := EnsureSchema(db); err != nil {
			t.Fatalf("ensure schema pass %d: %v", i+1, err)
		}
	}
}

func TestHealthPing(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()
	if err := EnsureSchema(db); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	s := NewWithDB(db)
	p, ok := s.(interface{ HealthPing(context.Context) error })
	if !ok {
		t.Fatalf("sqlite store does not expose HealthPing")
	}
	if err := p.HealthPing(context.Background()); err != nil {
		t.Fatalf("HealthPing: %v", err)
	}
}
