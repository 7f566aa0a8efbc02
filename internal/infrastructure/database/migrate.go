package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	iofs "github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"coparent-api/migrations"
)

const migrationsTable = "schema_migrations"

// Migrate applies the SQL migrations embedded in the binary.
func Migrate(ctx context.Context, gormDB *gorm.DB, log zerolog.Logger) (err error) {
	migrator, err := openMigrator(ctx, gormDB)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := closeMigrator(migrator); err == nil {
			err = closeErr
		}
	}()

	version, dirty, verr := migrator.Version()
	switch {
	case errors.Is(verr, migrate.ErrNilVersion):
		log.Info().Msg("no migrations applied yet")
	case verr != nil:
		log.Warn().Err(verr).Msg("could not read migration version")
	default:
		log.Info().Uint("version", version).Bool("dirty", dirty).Msg("current migration state")
	}

	if dirty {
		log.Warn().Uint("version", version).Msg("database is dirty, forcing version")
		if forceErr := migrator.Force(int(version)); forceErr != nil {
			return fmt.Errorf("force version %d: %w", version, forceErr)
		}
	}

	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	if final, _, err := migrator.Version(); err == nil {
		log.Info().Uint("version", final).Msg("database schema up to date")
	}
	return nil
}

// Rollback reverts the given number of migrations, or all of them when steps is zero.
func Rollback(ctx context.Context, gormDB *gorm.DB, steps int, log zerolog.Logger) (err error) {
	if steps < 0 {
		return fmt.Errorf("steps must not be negative")
	}
	migrator, err := openMigrator(ctx, gormDB)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := closeMigrator(migrator); err == nil {
			err = closeErr
		}
	}()

	if steps == 0 {
		err = migrator.Down()
	} else {
		err = migrator.Steps(-steps)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("rollback migrations: %w", err)
	}
	log.Info().Int("steps", steps).Msg("migrations rolled back")
	return nil
}

// MigrationStatus reports the applied version. A fresh database reports version 0.
func MigrationStatus(ctx context.Context, gormDB *gorm.DB) (version uint, dirty bool, err error) {
	migrator, err := openMigrator(ctx, gormDB)
	if err != nil {
		return 0, false, err
	}
	defer func() {
		if closeErr := closeMigrator(migrator); err == nil {
			err = closeErr
		}
	}()

	version, dirty, err = migrator.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read migration version: %w", err)
	}
	return version, dirty, nil
}

func openMigrator(ctx context.Context, gormDB *gorm.DB) (*migrate.Migrate, error) {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("retrieve sql db: %w", err)
	}

	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire dedicated connection: %w", err)
	}

	driver, err := postgres.WithConnection(ctx, conn, &postgres.Config{
		MigrationsTable: migrationsTable,
	})
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("initialize postgres driver: %w", err)
	}

	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		_ = driver.Close()
		return nil, fmt.Errorf("load migrations: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		_ = source.Close()
		_ = driver.Close()
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return migrator, nil
}

func closeMigrator(migrator *migrate.Migrate) error {
	sourceErr, dbErr := migrator.Close()
	if sourceErr != nil {
		return fmt.Errorf("close migration source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("close migration connection: %w", dbErr)
	}
	return nil
}
