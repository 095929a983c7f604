package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/mylabvault/labvault/internal/common"
)

// Dialect selects the SQL flavor for DDL and placeholder rebinding.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// DialectForDSN picks the dialect from the DSN scheme. postgres:// and
// postgresql:// select pgx; everything else is treated as a sqlite path.
func DialectForDSN(dsn string) Dialect {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return DialectPostgres
	}
	return DialectSQLite
}

// Open connects to the database named by the DSN and verifies the
// connection within the dial timeout.
func Open(ctx context.Context, cfg common.DatabaseConfig, logger *slog.Logger) (*sql.DB, Dialect, error) {
	if logger == nil {
		logger = slog.Default()
	}
	dialect := DialectForDSN(cfg.DSN)
	driver := "sqlite"
	dsn := strings.TrimPrefix(cfg.DSN, "file:")
	if dialect == DialectPostgres {
		driver = "pgx"
		dsn = cfg.DSN
	}

	logger.Info("connecting to database", "dialect", string(dialect))
	db, err := sql.Open(driver, dsn)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return nil, dialect, common.WrapError(common.ErrStorageUnavailable, err.Error())
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		logger.Error("failed to connect to database", "error", err)
		return nil, dialect, common.WrapError(common.ErrStorageUnavailable, err.Error())
	}

	logger.Info("successfully connected to database")
	return db, dialect, nil
}

// Migrate creates the results and import-log tables when missing.
func Migrate(ctx context.Context, db *sql.DB, dialect Dialect) error {
	serial := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if dialect == DialectPostgres {
		serial = "BIGSERIAL PRIMARY KEY"
	}
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS lab_results (
			id %s,
			patient_id BIGINT NOT NULL,
			test_name TEXT NOT NULL,
			value_numeric DOUBLE PRECISION,
			value_text TEXT,
			unit TEXT,
			reference_range TEXT,
			flag TEXT,
			collection_date DATE,
			provider TEXT,
			panel TEXT,
			confidence DOUBLE PRECISION NOT NULL,
			import_key TEXT NOT NULL UNIQUE,
			created_at TIMESTAMP NOT NULL
		)`, serial),
		`CREATE INDEX IF NOT EXISTS idx_lab_results_lookup
			ON lab_results (patient_id, test_name, collection_date)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS import_log (
			id %s,
			session_id TEXT NOT NULL,
			source_ref TEXT NOT NULL,
			content_hash TEXT NOT NULL,
			patient_id BIGINT NOT NULL,
			vendor TEXT,
			candidate_count INTEGER NOT NULL,
			tests_imported INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`, serial),
		`CREATE INDEX IF NOT EXISTS idx_import_log_hash ON import_log (content_hash)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return common.WrapError(common.ErrStorageUnavailable, err.Error())
		}
	}
	return nil
}

// HealthCheck pings the database within the given timeout.
func HealthCheck(ctx context.Context, db *sql.DB, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return common.WrapError(common.ErrStorageUnavailable, err.Error())
	}
	return nil
}

// rebind rewrites ? placeholders to $1..$n for postgres. Queries are
// written with ? so both dialects share one statement set.
func rebind(dialect Dialect, query string) string {
	if dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
