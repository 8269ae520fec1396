package di

import (
	"database/sql"

	"github.com/goliatone/go-localize/internal/runtimeconfig"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// OpenBunDB wraps an opened database handle with the bun dialect matching the
// configured storage provider. Unknown providers fall back to sqlite so local
// development keeps working without extra setup.
func OpenBunDB(sqlDB *sql.DB, cfg runtimeconfig.StorageConfig) *bun.DB {
	switch cfg.Provider {
	case "postgres":
		return bun.NewDB(sqlDB, pgdialect.New())
	default:
		return bun.NewDB(sqlDB, sqlitedialect.New())
	}
}
