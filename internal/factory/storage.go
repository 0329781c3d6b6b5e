// Package factory constructs the store backend selected by configuration.
package factory

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/unifyhub/unifyhub/internal/config"
	"github.com/unifyhub/unifyhub/internal/store"
	"github.com/unifyhub/unifyhub/internal/store/mock"
	"github.com/unifyhub/unifyhub/internal/store/postgres"
	"github.com/unifyhub/unifyhub/internal/store/remote"
	"github.com/unifyhub/unifyhub/internal/store/sqlite"
)

// NewStore returns the backend named by cfg.StoreDriver.
func NewStore(cfg *config.Config, log zerolog.Logger) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		log.Info().Str("path", cfg.SQLitePath).Msg("using sqlite store")
		return sqlite.New(cfg.SQLitePath)
	case config.DriverPostgres:
		log.Info().Msg("using postgres store")
		return postgres.New(cfg.PostgresDSN)
	case config.DriverRemote:
		log.Info().Str("base_url", cfg.RemoteBaseURL).Msg("using remote store")
		return remote.New(cfg.RemoteBaseURL, cfg.RemoteAPIKey), nil
	case config.DriverMock:
		latency := time.Duration(cfg.MockLatencyMS) * time.Millisecond
		log.Info().Dur("latency", latency).Msg("using seeded mock store")
		return mock.NewSeeded(latency), nil
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", cfg.StoreDriver)
	}
}
