package db

import (
	"context"
	"database/sql"
	"embed"
	"path"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/vytor/mistakeflash/internal/logger"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// Registered driver names.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

const sqliteParams = "_busy_timeout=5000&_foreign_keys=on&_journal_mode=WAL&_synchronous=NORMAL&_txlock=immediate"

type DB struct {
	*sqlx.DB
	log *logger.Logger
}

// Open connects to driver/dsn and applies any pending migrations for that dialect.
func Open(driver, dsn string) (*DB, error) {
	log := logger.Default().WithPrefix("db").WithField("driver", driver)

	var sqlxDB *sqlx.DB
	var err error
	switch driver {
	case DriverSQLite:
		log.Info("opening database: %s", dsn)
		sqlxDB, err = sqlx.Open(driver, sqliteDSN(dsn))
		if err != nil {
			log.Error("failed to open database: %v", err)
			return nil, errors.Wrap(err, "open sqlite")
		}
		// One writer at a time; with immediate transactions this also serializes card updates.
		sqlxDB.SetMaxOpenConns(1)
	case DriverPostgres:
		log.Info("opening database")
		sqlxDB, err = sqlx.Open(driver, dsn)
		if err != nil {
			log.Error("failed to open database: %v", err)
			return nil, errors.Wrap(err, "open postgres")
		}
	default:
		return nil, errors.Errorf("unsupported driver %q", driver)
	}

	if err := sqlxDB.Ping(); err != nil {
		_ = sqlxDB.Close()
		log.Error("failed to reach database: %v", err)
		return nil, errors.Wrap(err, "ping database")
	}

	db := &DB{DB: sqlxDB, log: log}

	log.Debug("applying migrations")
	if err := db.applyMigrations(context.Background()); err != nil {
		_ = sqlxDB.Close()
		log.Error("failed to apply migrations: %v", err)
		return nil, err
	}

	log.Info("database ready")
	return db, nil
}

func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&" + sqliteParams
	}
	return dsn + "?" + sqliteParams
}

func (db *DB) migrationsDir() string {
	if db.DriverName() == DriverPostgres {
		return "migrations/postgres"
	}
	return "migrations/sqlite"
}

func (db *DB) applyMigrations(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY, applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP)`); err != nil {
		return errors.Wrap(err, "create schema_migrations")
	}

	dir := db.migrationsDir()
	entries, err := migrationsFS.ReadDir(dir)
	if err != nil {
		return errors.Wrap(err, "read migrations")
	}

	for _, entry := range entries {
		version := entry.Name()
		applied, err := db.isMigrationApplied(ctx, version)
		if err != nil {
			return err
		}
		if applied {
			db.log.Debug("migration %s already applied, skipping", version)
			continue
		}
		sqlBytes, err := migrationsFS.ReadFile(path.Join(dir, version))
		if err != nil {
			return errors.Wrapf(err, "read migration %s", version)
		}
		db.log.Info("applying migration: %s", version)
		if err := db.inTx(ctx, func(tx *sqlx.Tx) error {
			if _, err := tx.ExecContext(ctx, string(sqlBytes)); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx, db.Rebind(`INSERT INTO schema_migrations (version) VALUES (?)`), version)
			return err
		}); err != nil {
			db.log.Error("migration %s failed: %v", version, err)
			return errors.Wrapf(err, "apply migration %s", version)
		}
		db.log.Info("migration %s applied successfully", version)
	}
	return nil
}

func (db *DB) isMigrationApplied(ctx context.Context, version string) (bool, error) {
	var v string
	err := db.QueryRowxContext(ctx, db.Rebind(`SELECT version FROM schema_migrations WHERE version = ?`), version).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "check migration")
	}
	return true, nil
}

func (db *DB) inTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Ready reports whether the database answers a ping within ctx.
func (db *DB) Ready(ctx context.Context) error {
	return errors.Wrap(db.PingContext(ctx), "ping database")
}
