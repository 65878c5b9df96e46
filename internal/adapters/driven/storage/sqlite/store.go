package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/wbedit/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/wbedit/internal/core/domain"
	"github.com/custodia-labs/wbedit/internal/core/ports/driven"
)

// timeLayout is fixed-width so that created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store is a SQLite-based storage for the edit journal.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.wbedit/data/journal.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".wbedit", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "journal.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// EditLogStore returns an EditLogStore interface backed by this store.
func (s *Store) EditLogStore() driven.EditLogStore {
	return &editLogStore{store: s}
}

// migrate applies the embedded *.up.sql files newer than the recorded
// schema version. Each file records its own version.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_edit_log.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Edit Log Store ====================

// editLogStore implements driven.EditLogStore.
type editLogStore struct {
	store *Store
}

var _ driven.EditLogStore = (*editLogStore)(nil)

// Append stores a record.
func (s *editLogStore) Append(ctx context.Context, rec domain.EditRecord) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO edit_log (id, entity_id, entity_type, revision_id, summary, bot, recovered, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.EntityID, rec.EntityType, rec.RevisionID, rec.Summary,
		boolToInt(rec.Bot), boolToInt(rec.Recovered), rec.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("inserting edit record: %w", err)
	}
	return nil
}

// List returns records newest first.
func (s *editLogStore) List(ctx context.Context, entityID string, limit int) ([]domain.EditRecord, error) {
	query := `SELECT id, entity_id, entity_type, revision_id, summary, bot, recovered, created_at FROM edit_log`
	var args []any
	if entityID != "" {
		query += ` WHERE entity_id = ?`
		args = append(args, entityID)
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying edit log: %w", err)
	}
	defer rows.Close()

	var records []domain.EditRecord
	for rows.Next() {
		rec, err := scanEditRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func scanEditRecord(rows *sql.Rows) (*domain.EditRecord, error) {
	var (
		rec            domain.EditRecord
		bot, recovered int
		createdAt      string
	)
	if err := rows.Scan(&rec.ID, &rec.EntityID, &rec.EntityType, &rec.RevisionID,
		&rec.Summary, &bot, &recovered, &createdAt); err != nil {
		return nil, fmt.Errorf("scanning edit record: %w", err)
	}

	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at %q: %w", createdAt, err)
	}
	rec.CreatedAt = t
	rec.Bot = bot != 0
	rec.Recovered = recovered != 0
	return &rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
