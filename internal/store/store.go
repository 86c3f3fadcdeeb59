// Package store is the embedded relational store: a single-writer SQLite
// database (pure-Go modernc.org/sqlite driver, opened in WAL mode so
// read-only query sessions can run concurrently with a build) holding the
// nodes/edges schema and its migrations.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/codegraph-dev/codegraph/internal/logging"
)

// DefaultRelPath is where the per-project store lives.
const DefaultRelPath = ".codegraph/graph.db"

// Store wraps the database connection. Writers must go through
// Transaction; readers may use DB directly.
type Store struct {
	db   *sql.DB
	path string
	mu   sync.Mutex // serializes writers against the single SQLite connection
	log  *zap.SugaredLogger
}

// Open opens or creates the store at dbPath, applying pragmas for
// WAL-mode concurrency and a busy timeout, then runs schema creation and
// column migrations.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer; reads share the one WAL connection too

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	if err := migrateColumns(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	s := &Store{db: db, path: dbPath, log: logging.For("store")}
	s.log.Infow("opened store", "path", dbPath)
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Transaction runs fn inside a single write transaction: an abort on
// storage failure leaves the store in the pre-build state, never
// mid-transaction.
func (s *Store) Transaction(fn func(*sql.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.log.Errorw("rollback failed", "err", rbErr)
		}
		return err
	}
	return tx.Commit()
}

// DB exposes the underlying *sql.DB for read-only query sessions.
func (s *Store) DB() *sql.DB { return s.db }

// ClearAll truncates nodes and edges, used at the start of a full rebuild
// so the whole graph is rebuilt atomically.
func ClearAll(tx *sql.Tx) error {
	if _, err := tx.Exec(`DELETE FROM edges`); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM nodes`); err != nil {
		return err
	}
	return nil
}

// ClearFile deletes all nodes where file = f and all edges whose source or
// target node has file = f — the incremental-update delta applied before
// a single-file rebuild.
func ClearFile(tx *sql.Tx, file string) error {
	if _, err := tx.Exec(`
		DELETE FROM edges WHERE source_id IN (SELECT id FROM nodes WHERE file = ?)
		   OR target_id IN (SELECT id FROM nodes WHERE file = ?)`, file, file); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM nodes WHERE file = ?`, file); err != nil {
		return err
	}
	return nil
}

// FindWorkspaceDB walks upward from startDir until it finds a
// .codegraph/graph.db file, defaulting to .codegraph/graph.db under
// startDir.
func FindWorkspaceDB(startDir string) string {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return DefaultRelPath
	}
	for {
		candidate := filepath.Join(dir, DefaultRelPath)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return filepath.Join(startDir, DefaultRelPath)
}
