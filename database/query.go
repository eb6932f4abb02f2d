package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/url"
	"storefront_server/structs"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

type DB struct {
	*bun.DB
}

// DSN renders the connection URL for the configured database.
func DSN(dbCfg *structs.DatabaseConfig, scheme string) string {
	u := url.URL{
		Scheme: scheme,
		User:   url.UserPassword(dbCfg.User, dbCfg.Password),
		Host:   fmt.Sprintf("%s:%d", dbCfg.Host, dbCfg.Port),
		Path:   "/" + dbCfg.Name,
	}
	q := u.Query()
	q.Set("sslmode", dbCfg.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// openSQL opens the pool through bun's pgdriver or through pgx, depending on DB_DRIVER
func openSQL(dbCfg *structs.DatabaseConfig) (*sql.DB, error) {
	var sqldb *sql.DB

	switch dbCfg.Driver {
	case "pgx":
		connCfg, err := pgx.ParseConfig(DSN(dbCfg, "postgres"))
		if err != nil {
			return nil, fmt.Errorf("invalid database config: %w", err)
		}
		sqldb = stdlib.OpenDB(*connCfg)
	case "pgdriver", "":
		sqldb = sql.OpenDB(pgdriver.NewConnector(
			pgdriver.WithDSN(DSN(dbCfg, "postgres")),
			pgdriver.WithReadTimeout(dbCfg.ReadTimeout),
			pgdriver.WithWriteTimeout(dbCfg.WriteTimeout),
		))
	default:
		return nil, fmt.Errorf("unknown database driver %q", dbCfg.Driver)
	}

	sqldb.SetMaxOpenConns(dbCfg.MaxConns)
	sqldb.SetMaxIdleConns(dbCfg.MinConns)
	sqldb.SetConnMaxLifetime(dbCfg.MaxLifetime)
	sqldb.SetConnMaxIdleTime(dbCfg.MaxIdleTime)

	return sqldb, nil
}

const pingTimeout = 5 * time.Second

// Connect opens the pool, installs the query log hook and verifies the server answers.
func Connect(ctx context.Context, dbCfg *structs.DatabaseConfig, logger *gecho.Logger) (*DB, error) {
	sqldb, err := openSQL(dbCfg)
	if err != nil {
		return nil, err
	}

	db := bun.NewDB(sqldb, pgdialect.New())
	db.AddQueryHook(&queryLogHook{logger: logger, slow: dbCfg.SlowQuery})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Connected to database",
		gecho.Field("driver", dbCfg.Driver),
		gecho.Field("host", dbCfg.Host),
		gecho.Field("name", dbCfg.Name),
	)
	return &DB{db}, nil
}

func (db *DB) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return db.PingContext(ctx)
}

// queryLogHook warns on slow queries and reports connections dropped mid-query.
type queryLogHook struct {
	logger *gecho.Logger
	slow   time.Duration
}

func (h *queryLogHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *queryLogHook) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	elapsed := time.Since(event.StartTime)
	if h.slow > 0 && elapsed > h.slow {
		h.logger.Warn("Slow query",
			gecho.Field("operation", event.Operation()),
			gecho.Field("query", event.Query),
			gecho.Field("elapsed", elapsed.Round(time.Millisecond)),
		)
	}

	if errors.Is(event.Err, io.EOF) || errors.Is(event.Err, io.ErrUnexpectedEOF) {
		h.logger.Error("Database connection dropped",
			gecho.Field("operation", event.Operation()),
			gecho.Field("error", event.Err),
		)
	}
}
