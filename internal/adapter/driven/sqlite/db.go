// Package sqlite implements the driven storage ports on SQLite.
package sqlite

import (
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// filePragmas apply to on-disk databases; WAL has no effect in memory.
const filePragmas = "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)&_pragma=cache_size(-64000)"

const memoryPragmas = "_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)"

// DB provides dual reader/writer database connections.
// The writer is limited to a single connection to avoid "database is locked"
// errors; the reader pool allows up to 4 concurrent readers.
type DB struct {
	Writer *sqlx.DB
	Reader *sqlx.DB
	path   string
}

// NewDB opens the database at dbPath. An empty path opens a private
// shared-cache in-memory database that lives as long as the DB.
func NewDB(dbPath string) (*DB, error) {
	return open(dsnFor(dbPath), dbPath)
}

func dsnFor(dbPath string) string {
	if dbPath == "" {
		return memoryDSN("glsidebar-" + uuid.NewString())
	}
	return fmt.Sprintf("file:%s?%s", dbPath, filePragmas)
}

// memoryDSN names a shared in-memory database so the writer and reader pools
// see the same data.
func memoryDSN(name string) string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared&%s", url.PathEscape(name), memoryPragmas)
}

func open(dsn, path string) (*DB, error) {
	writer, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open writer: %w", err)
	}
	writer.SetMaxOpenConns(1)
	writer.SetMaxIdleConns(1)

	if err := writer.Ping(); err != nil {
		_ = writer.Close()
		return nil, fmt.Errorf("ping writer: %w", err)
	}

	reader, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		_ = writer.Close()
		return nil, fmt.Errorf("open reader: %w", err)
	}
	reader.SetMaxOpenConns(4)

	if err := reader.Ping(); err != nil {
		_ = reader.Close()
		_ = writer.Close()
		return nil, fmt.Errorf("ping reader: %w", err)
	}

	return &DB{
		Writer: writer,
		Reader: reader,
		path:   path,
	}, nil
}

// InMemory reports whether the database has no backing file.
func (db *DB) InMemory() bool {
	return db.path == ""
}

// Close closes both reader and writer connections. Returns the first error encountered.
func (db *DB) Close() error {
	var firstErr error

	if err := db.Reader.Close(); err != nil {
		firstErr = fmt.Errorf("close reader: %w", err)
	}

	if err := db.Writer.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close writer: %w", err)
	}

	return firstErr
}
