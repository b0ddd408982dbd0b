package db

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/javiermolinar/onduty/internal/roster"
)

// Storage drivers.
const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
)

// Open returns the directory repository for driver. The SQLite handle is
// shared with the query log when driver is "sqlite".
func Open(driver, snapshotPath, snapshotGlob string, sqlite *SQLite) (roster.Repository, error) {
	switch driver {
	case "", DriverJSON:
		return NewJSONStore(snapshotPath, snapshotGlob), nil
	case DriverSQLite:
		if sqlite == nil {
			return nil, fmt.Errorf("sqlite driver selected without a database")
		}
		return sqlite, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

// LoadDirectory loads the directory from repo. Any failure is logged and an
// empty directory is returned so callers never see a nil directory.
func LoadDirectory(ctx context.Context, repo roster.Repository, log *zap.Logger) *roster.Directory {
	d, err := repo.Load(ctx)
	if err != nil {
		log.Warn("loading channel directory, starting empty", zap.Error(err))
		return roster.NewDirectory()
	}
	if d == nil {
		return roster.NewDirectory()
	}
	return d
}
