package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "unifyhub.db", cfg.SQLitePath)
	assert.Equal(t, ":8080", cfg.GetHTTPAddr())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("UNIFYHUB_STORE_DRIVER", "mock")
	t.Setenv("UNIFYHUB_HTTP_PORT", "9090")
	t.Setenv("UNIFYHUB_MOCK_LATENCY_MS", "0")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, DriverMock, cfg.StoreDriver)
	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, 0, cfg.MockLatencyMS)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"sqlite ok", Config{StoreDriver: DriverSQLite, SQLitePath: "x.db"}, false},
		{"sqlite missing path", Config{StoreDriver: DriverSQLite}, true},
		{"postgres missing dsn", Config{StoreDriver: DriverPostgres}, true},
		{"postgres ok", Config{StoreDriver: DriverPostgres, PostgresDSN: "postgres://localhost/x"}, false},
		{"remote missing url", Config{StoreDriver: DriverRemote}, true},
		{"remote ok", Config{StoreDriver: DriverRemote, RemoteBaseURL: "http://localhost:1234"}, false},
		{"mock ok", Config{StoreDriver: DriverMock}, false},
		{"unknown driver", Config{StoreDriver: "etcd"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
