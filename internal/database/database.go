package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type DB struct {
	Gorm   *gorm.DB
	Pool   *pgxpool.Pool
	Driver string
	sqlDB  *sql.DB
}

// New opens PostgreSQL for postgres:// URLs and SQLite for everything else
// (sqlite:///relative.db, sqlite:////abs/path.db, or a bare file path).
func New(ctx context.Context, databaseURL string, maxConns int32, minConns int32) (*DB, error) {
	if isPostgresURL(databaseURL) {
		return newPostgres(ctx, databaseURL, maxConns, minConns)
	}

	return OpenSQLite(sqliteDSN(databaseURL))
}

func newPostgres(ctx context.Context, databaseURL string, maxConns int32, minConns int32) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	cfg.MaxConns = maxConns
	cfg.MinConns = minConns
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormConfig())
	if err != nil {
		_ = sqlDB.Close()
		pool.Close()
		return nil, fmt.Errorf("open gorm on pool: %w", err)
	}

	slog.Info("database connected", "driver", DriverPostgres, "max_conns", maxConns, "min_conns", minConns)
	return &DB{Gorm: gormDB, Pool: pool, Driver: DriverPostgres, sqlDB: sqlDB}, nil
}

// OpenSQLite opens a SQLite database through the pure-Go driver. SQLite allows a
// single writer, so the pool is pinned to one connection; this also keeps an
// in-memory database alive for the lifetime of the handle.
func OpenSQLite(dsn string) (*DB, error) {
	gormDB, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", dsn, err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	slog.Info("database connected", "driver", DriverSQLite, "dsn", dsn)
	return &DB{Gorm: gormDB, Driver: DriverSQLite, sqlDB: sqlDB}, nil
}

func (db *DB) Close() {
	if db.sqlDB != nil {
		_ = db.sqlDB.Close()
	}
	if db.Pool != nil {
		db.Pool.Close()
	}
}

func (db *DB) Health(ctx context.Context) error {
	if db.Pool != nil {
		return db.Pool.Ping(ctx)
	}
	return db.sqlDB.PingContext(ctx)
}

func isPostgresURL(raw string) bool {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	return strings.HasPrefix(lowered, "postgres://") || strings.HasPrefix(lowered, "postgresql://")
}

func sqliteDSN(raw string) string {
	trimmed := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(trimmed, "sqlite:///"):
		return strings.TrimPrefix(trimmed, "sqlite:///")
	case strings.HasPrefix(trimmed, "sqlite://"):
		return strings.TrimPrefix(trimmed, "sqlite://")
	case strings.HasPrefix(trimmed, "sqlite:"):
		return strings.TrimPrefix(trimmed, "sqlite:")
	default:
		return trimmed
	}
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
		Logger: gormlogger.New(slogWriter{}, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}
}

// slogWriter routes gorm's slow-query and error traces into slog.
type slogWriter struct{}

func (slogWriter) Printf(format string, args ...any) {
	slog.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "gorm")
}
