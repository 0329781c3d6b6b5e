package mock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/unifyhub/unifyhub/internal/store"
	"github.com/unifyhub/unifyhub/internal/store/storetest"
)

func TestCompliance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return New(0)
	})
}

func TestSeededFixture(t *testing.T) {
	s := NewSeeded(0)
	ctx := context.Background()

	svcs, err := s.Services().List(ctx)
	require.NoError(t, err)
	require.Len(t, svcs, 3)

	items, err := s.Items().List(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, items)
	// Seed ids leave room for new records: created ids continue past them.
	created, err := s.Items().Create(ctx, items[0])
	require.NoError(t, err)
	require.Greater(t, created.ID, items[0].ID)

	projects, err := s.Projects().List(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 2)
}

func TestLatencyHonorsContext(t *testing.T) {
	s := New(5 * time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := s.Services().List(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCloneOnRead(t *testing.T) {
	s := NewSeeded(0)
	ctx := context.Background()

	a, err := s.Services().Get(ctx, 1)
	require.NoError(t, err)
	a.Name = "mutated"

	b, err := s.Services().Get(ctx, 1)
	require.NoError(t, err)
	require.NotEqual(t, "mutated", b.Name)
}
