package archive

import (
	"database/sql"
	"fmt"
	"regexp"

	"github.com/go-sql-driver/mysql"
	"github.com/huangsam/peloton/internal/contract"
	"github.com/huangsam/peloton/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

var tableNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// validateTableName checks that a table name is safe to splice into a query.
func validateTableName(name string) error {
	if name == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	if !tableNamePattern.MatchString(name) {
		return fmt.Errorf("invalid table name: %s (must match pattern ^[a-zA-Z_][a-zA-Z0-9_]*$)", name)
	}
	return nil
}

// quoteTableName returns the properly quoted table name for the given backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	default: // SQLite and PostgreSQL
		return fmt.Sprintf("\"%s\"", name)
	}
}

// placeholder returns the n-th (1-based) parameter placeholder for the backend.
func placeholder(backend schema.DatabaseBackend, n int) string {
	switch backend {
	case schema.PostgreSQLBackend:
		return fmt.Sprintf("$%d", n)
	default: // SQLite and MySQL
		return "?"
	}
}

// driverName returns the database/sql driver registered for the backend.
func driverName(backend schema.DatabaseBackend) (string, error) {
	switch backend {
	case schema.SQLiteBackend:
		return "sqlite", nil
	case schema.MySQLBackend:
		return "mysql", nil
	case schema.PostgreSQLBackend:
		return "pgx", nil
	default:
		return "", fmt.Errorf("unsupported archive backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}
}

// openDB opens and pings a connection pool for the backend.
// An empty SQLite connection string points at the default archive file.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	name, err := driverName(backend)
	if err != nil {
		return nil, err
	}

	var db *sql.DB
	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetArchiveDBFilePath()
		}
		db, err = sql.Open(name, dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite archive at %q: %w. Ensure the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		// Migration files hold several statements each
		cfg, err := mysql.ParseDSN(connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse MySQL DSN: %w. Check connection format: user:password@tcp(host:port)/dbname", err)
		}
		cfg.MultiStatements = true
		db, err = sql.Open(name, cfg.FormatDSN())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MySQL archive: %w", err)
		}

	case schema.PostgreSQLBackend:
		// connStr should be:
		// host=localhost port=5432 user=postgres password=mysecretpassword dbname=postgres
		db, err = sql.Open(name, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL archive: %w. Check connection format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}
	return db, nil
}
