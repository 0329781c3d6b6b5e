package factory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/unifyhub/unifyhub/internal/config"
)

func TestNewStoreMock(t *testing.T) {
	cfg := &config.Config{StoreDriver: config.DriverMock}
	st, err := NewStore(cfg, zerolog.Nop())
	require.NoError(t, err)

	// Seeded fixture comes preloaded.
	svcs, err := st.Services().List(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, svcs)
}

func TestNewStoreSQLite(t *testing.T) {
	cfg := &config.Config{
		StoreDriver: config.DriverSQLite,
		SQLitePath:  filepath.Join(t.TempDir(), "hub.db"),
	}
	st, err := NewStore(cfg, zerolog.Nop())
	require.NoError(t, err)

	svcs, err := st.Services().List(context.Background())
	require.NoError(t, err)
	require.Empty(t, svcs)
}

func TestNewStoreUnknownDriver(t *testing.T) {
	_, err := NewStore(&config.Config{StoreDriver: "bogus"}, zerolog.Nop())
	require.Error(t, err)
}
