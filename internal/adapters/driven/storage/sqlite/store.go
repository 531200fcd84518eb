package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/quickfind/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/quickfind/internal/core/domain"
	"github.com/custodia-labs/quickfind/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.CatalogStore = (*Store)(nil)

// Store is the SQLite catalog of every searchable category.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.quickfind/data/catalog.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".quickfind", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "catalog.db")

	// WAL lets fetchers of several categories read concurrently.
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

// migrate runs all pending migrations.
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
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
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

// Save stores or updates items in one transaction.
// Items without an ID are assigned one in place.
func (s *Store) Save(ctx context.Context, items []domain.Item) error {
	for i := range items {
		if !items[i].Category.IsValid() {
			return fmt.Errorf("%w: %q", domain.ErrUnknownCategory, items[i].Category)
		}
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO items (category, id, title, subtitle, snippet, url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(category, id) DO UPDATE SET
			title = excluded.title,
			subtitle = excluded.subtitle,
			snippet = excluded.snippet,
			url = excluded.url,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, item := range items {
		_, err := stmt.ExecContext(ctx,
			string(item.Category), item.ID, item.Title, item.Subtitle, item.Snippet, item.URL,
			nullTime(item.CreatedAt), now)
		if err != nil {
			return fmt.Errorf("saving item %s/%s: %w", item.Category, item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing items: %w", err)
	}
	return nil
}

// Get retrieves an item by category and ID.
func (s *Store) Get(ctx context.Context, category domain.Category, id string) (*domain.Item, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT category, id, title, subtitle, snippet, url, created_at
		FROM items WHERE category = ? AND id = ?
	`, string(category), id)

	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning item: %w", err)
	}
	return item, nil
}

// Count returns the number of items stored for a category.
func (s *Store) Count(ctx context.Context, category domain.Category) (int, error) {
	if !category.IsValid() {
		return 0, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, category)
	}
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM items WHERE category = ?", string(category)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting items: %w", err)
	}
	return n, nil
}

// Fetcher returns the fetch function for a category.
func (s *Store) Fetcher(category domain.Category) driven.CategoryFetcher {
	return driven.FetchFunc(func(ctx context.Context, text string, limit, offset int) ([]domain.Item, error) {
		return s.fetch(ctx, category, text, limit, offset)
	})
}

// fetch matches text case-insensitively against title, subtitle and snippet,
// ordered by title then ID. A non-positive limit returns every match.
func (s *Store) fetch(ctx context.Context, category domain.Category, text string, limit, offset int) ([]domain.Item, error) {
	if !category.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, category)
	}
	if limit <= 0 {
		limit = -1
	}

	needle := domain.NormalizeText(text)
	pattern := "%" + escapeLike(needle) + "%"

	rows, err := s.db.QueryContext(ctx, `
		SELECT category, id, title, subtitle, snippet, url, created_at
		FROM items
		WHERE category = ?
		  AND (? = '' OR lower(title) LIKE ? ESCAPE '\'
		       OR lower(subtitle) LIKE ? ESCAPE '\'
		       OR lower(snippet) LIKE ? ESCAPE '\')
		ORDER BY title COLLATE NOCASE, id
		LIMIT ? OFFSET ?
	`, string(category), needle, pattern, pattern, pattern, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", category, err)
	}
	defer rows.Close()

	items := []domain.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating items: %w", err)
	}
	return items, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (*domain.Item, error) {
	var (
		item      domain.Item
		category  string
		createdAt sql.NullTime
	)
	if err := row.Scan(&category, &item.ID, &item.Title, &item.Subtitle, &item.Snippet, &item.URL, &createdAt); err != nil {
		return nil, err
	}
	item.Category = domain.Category(category)
	if createdAt.Valid {
		item.CreatedAt = createdAt.Time
	}
	return &item, nil
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}

// escapeLike escapes LIKE wildcards so user text matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
