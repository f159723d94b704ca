package stringql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
)

const pingTimeout = 10 * time.Second

// Querier is the slice of database/sql an Engine executes against. It is
// satisfied by *sql.DB, *sql.Tx and *sql.Conn, so statements can run on a
// pool, inside a transaction or pinned to one connection.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Engine opens PostgreSQL connections and runs parameterized statements.
// It is safe for concurrent use.
type Engine struct {
	cfg   *Config
	log   zerolog.Logger
	cache *programCache
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.log = logger
	}
}

// WithCacheSize sets how many compiled statements the engine memoizes.
// Zero or negative disables the cache.
func WithCacheSize(size int) Option {
	return func(e *Engine) {
		e.cache = newProgramCache(size)
	}
}

// New creates an Engine. A nil config behaves like an empty one, leaving
// connection details to the driver's defaults and PG* environment variables.
func New(cfg *Config, opts ...Option) *Engine {
	if cfg == nil {
		cfg = &Config{}
	}
	e := &Engine{
		cfg:   cfg,
		log:   zerolog.Nop(),
		cache: newProgramCache(DefaultCacheSize),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Connect opens a connection pool, verifies it with a ping and, when the
// config names a schema, ensures that schema exists and is the pool's
// search_path. The caller owns the returned pool.
func (e *Engine) Connect(ctx context.Context) (*sql.DB, error) {
	return e.connect(ctx, e.cfg.Schema)
}

// ConnectSchema is Connect with the schema overridden per call.
func (e *Engine) ConnectSchema(ctx context.Context, schema string) (*sql.DB, error) {
	return e.connect(ctx, schema)
}

func (e *Engine) connect(ctx context.Context, schema string) (*sql.DB, error) {
	pgxCfg, err := pgx.ParseConfig(e.cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %w", err)
	}
	if schema != "" {
		pgxCfg.RuntimeParams["search_path"] = schema
	}
	db := stdlib.OpenDB(*pgxCfg)
	if e.cfg.MaxConns > 0 {
		db.SetMaxOpenConns(e.cfg.MaxConns)
	}
	if e.cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(e.cfg.MaxIdleConns)
	}
	if e.cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(e.cfg.ConnMaxLifetime)
	}
	if e.cfg.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(e.cfg.ConnMaxIdleTime)
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if schema != "" {
		if _, err := db.ExecContext(ctx, "create schema if not exists "+quoteIdent(schema)); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to ensure schema %s: %w", schema, err)
		}
	}
	e.log.Info().
		Str("host", pgxCfg.Host).
		Uint16("port", pgxCfg.Port).
		Str("database", pgxCfg.Database).
		Str("schema", schema).
		Msg("connected to PostgreSQL")
	return db, nil
}

// DoQuery validates, parameterizes, binds and executes one statement.
//
// Read and WriteReturning run the statement as a query and return its rows,
// which the caller must close. Write executes it and returns nil rows. The
// template, payload and keyword arguments follow the rules of Parameterize;
// anything the checks reject comes back wrapping one of the sentinel errors.
// Errors raised by the database are returned as received, with a full
// DescribeFailure report written to the engine's log.
func (e *Engine) DoQuery(ctx context.Context, q Querier, mode Mode, query string, data any, kwargs Kwargs, dropKeys ...string) (*sql.Rows, error) {
	if _, err := validateRequest(mode, query, data); err != nil {
		return nil, err
	}
	st, err := Parameterize(query, data, kwargs, dropKeys...)
	if err != nil {
		return nil, err
	}
	prog := e.cache.compile(st.text)
	if err := checkPlaceholderCount(prog, st.payload); err != nil {
		return nil, err
	}
	args, err := prog.args(st.payload)
	if err != nil {
		return nil, err
	}
	var rows *sql.Rows
	if mode.returnsRows() {
		rows, err = q.QueryContext(ctx, prog.sql, args...)
	} else {
		_, err = q.ExecContext(ctx, prog.sql, args...)
	}
	if err != nil {
		e.log.Error().
			Err(err).
			Str("mode", string(mode)).
			Str("sql", prog.sql).
			Str("diagnostics", DescribeFailure(err)).
			Msg("statement failed")
		return nil, err
	}
	e.log.Debug().
		Str("mode", string(mode)).
		Str("sql", prog.sql).
		Int("args", len(args)).
		Msg("statement executed")
	return rows, nil
}
