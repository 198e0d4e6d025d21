package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"
)

const migrationLockTimeout = 30 * time.Second

// MigrationConfig задает источник миграций: встроенная файловая система
// и путь к каталогу внутри нее.
type MigrationConfig struct {
	MigrationsPath string
	MigrationsFS   fs.FS
}

// Migrator применяет схему базы из встроенных миграций поверх pgx пула.
type Migrator struct {
	config MigrationConfig
	pool   *pgxpool.Pool
}

func NewMigrator(config MigrationConfig, pool *pgxpool.Pool) *Migrator {
	return &Migrator{config: config, pool: pool}
}

// Up доводит схему до последней версии. Отсутствие новых миграций
// успехом и считается.
func (m *Migrator) Up(ctx context.Context) error {
	return m.run(ctx, func(mg *migrate.Migrate) error {
		if err := mg.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
		log.Info().Msg("database migrations applied successfully")
		return nil
	})
}

// Down откатывает все миграции.
func (m *Migrator) Down(ctx context.Context) error {
	return m.run(ctx, func(mg *migrate.Migrate) error {
		if err := mg.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to rollback migrations: %w", err)
		}
		log.Info().Msg("database migrations rolled back successfully")
		return nil
	})
}

// Version возвращает текущую версию схемы и признак незавершенной миграции.
// Пустая база отдает нулевую версию без ошибки.
func (m *Migrator) Version(ctx context.Context) (version uint, dirty bool, err error) {
	err = m.run(ctx, func(mg *migrate.Migrate) error {
		v, d, verr := mg.Version()
		if verr != nil {
			if errors.Is(verr, migrate.ErrNilVersion) {
				return nil
			}
			return fmt.Errorf("failed to get migration version: %w", verr)
		}
		version, dirty = uint(v), d
		return nil
	})
	return version, dirty, err
}

// run собирает migrate.Migrate на время одной операции и закрывает его после.
func (m *Migrator) run(ctx context.Context, op func(*migrate.Migrate) error) error {
	// Проверяем живость пула до того, как migrate возьмет advisory lock.
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	conn.Release()

	db := stdlib.OpenDBFromPool(m.pool)
	driver, err := postgres.WithInstance(db, &postgres.Config{
		MigrationsTable:       "schema_migrations",
		MigrationsTableQuoted: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create postgres driver: %w", err)
	}

	source, err := iofs.New(m.config.MigrationsFS, m.config.MigrationsPath)
	if err != nil {
		return fmt.Errorf("failed to create source driver: %w", err)
	}

	mg, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer mg.Close()
	mg.LockTimeout = migrationLockTimeout

	return op(mg)
}
