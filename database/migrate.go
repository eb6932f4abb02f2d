package database

import (
	"embed"
	"errors"
	"fmt"
	"time"

	"storefront_server/config"
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies (or, with down set, rolls back) the embedded schema migrations.
func Migrate(dbCfg *structs.DatabaseConfig, down bool) error {
	logger := config.GetLogger()
	startTime := time.Now()

	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	mig, err := migrate.NewWithSourceInstance("iofs", source, DSN(dbCfg, "pgx5"))
	if err != nil {
		return fmt.Errorf("failed to prepare migrations: %w", err)
	}
	defer mig.Close()

	if down {
		err = mig.Down()
	} else {
		err = mig.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, dirty, _ := mig.Version()
	logger.Info("Migrations applied",
		gecho.Field("down", down),
		gecho.Field("version", version),
		gecho.Field("dirty", dirty),
		gecho.Field("duration", time.Since(startTime)),
	)

	return nil
}
