package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	verrors "github.com/Humphrey-He/vanya/pkg/errors"

	_ "modernc.org/sqlite"
)

// SQLiteStorage keeps slots as rows of a single table in a SQLite database.
// It uses the pure-Go modernc driver so no cgo toolchain is needed.
//
// SQLiteStorage 将槽保存为SQLite数据库中单个表的行。
// 它使用纯Go的modernc驱动，因此不需要cgo工具链。
type SQLiteStorage struct {
	db     *sql.DB
	mu     sync.RWMutex
	path   string
	closed bool
}

// NewSQLiteStorage opens (or creates) the database at path.
// The special path ":memory:" opens a private in-memory database.
//
// NewSQLiteStorage 打开（或创建）path处的数据库。
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite storage requires a database path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	s := &SQLiteStorage{db: db, path: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStorage) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS slots (
		name TEXT PRIMARY KEY,
		blob BLOB NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create slots table: %w", err)
	}
	return nil
}

// Get selects the slot row.
func (s *SQLiteStorage) Get(ctx context.Context, name string) ([]byte, bool, error) {
	if name == "" {
		return nil, false, verrors.ErrSlotNameEmpty
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, false, verrors.NewSlotError(name, verrors.ErrClosed)
	}

	var blob []byte
	err := s.db.QueryRowContext(ctx, `SELECT blob FROM slots WHERE name = ?`, name).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read slot %s: %w", name, err)
	}
	return blob, true, nil
}

// Set upserts the slot row.
func (s *SQLiteStorage) Set(ctx context.Context, name string, blob []byte) error {
	if name == "" {
		return verrors.ErrSlotNameEmpty
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return verrors.NewSlotError(name, verrors.ErrClosed)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO slots (name, blob, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET blob = excluded.blob, updated_at = CURRENT_TIMESTAMP`,
		name, blob)
	if err != nil {
		return fmt.Errorf("failed to write slot %s: %w", name, err)
	}
	return nil
}

// Delete removes the slot row.
func (s *SQLiteStorage) Delete(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, verrors.NewSlotError(name, verrors.ErrClosed)
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM slots WHERE name = ?`, name)
	if err != nil {
		return false, fmt.Errorf("failed to delete slot %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete slot %s: %w", name, err)
	}
	return n > 0, nil
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
