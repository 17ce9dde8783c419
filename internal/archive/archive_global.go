package archive

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/peloton/internal/contract"
	"github.com/huangsam/peloton/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &ArchiveStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetDBFilePath returns the path to the SQLite DB file for archive storage.
func GetDBFilePath() string {
	return contract.GetArchiveDBFilePath()
}

// InitArchive initializes the global archive manager.
// An empty backend leaves archiving disabled.
func InitArchive(backend schema.DatabaseBackend, connStr string) error {
	var initErr error

	initOnce.Do(func() {
		if backend == "" {
			return
		}
		store, err := NewArchiveStore(backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize archive store: %w", err)
			return
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.archive = store
	})

	return initErr
}

// CloseArchive should be called on application shutdown.
func CloseArchive() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.archive != nil {
			_ = Manager.archive.Close()
		}
	})
}

// ClearArchive clears the archive for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the archive tables and the migration history.
// For NoneBackend, it does nothing.
func ClearArchive(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		tables := append([]string{migrationsTable}, archiveTables...)
		name, _ := driverName(backend)
		for _, table := range tables {
			if err := clearSQLTable(name, connStr, quoteTableName(table, backend)); err != nil {
				return err
			}
		}
		return nil

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported archive backend for clearing: %s", backend)
	}
}

// clearSQLTable connects to the SQL database and drops the table if it exists.
func clearSQLTable(driverName, connStr, tableName string) error {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	query := fmt.Sprintf("DROP TABLE IF EXISTS %s", tableName)
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}

	return nil
}
