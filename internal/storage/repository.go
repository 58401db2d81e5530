package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Document names used when documents share one SQLite database
const (
	GameDocumentName   = "game_data"
	LedgerDocumentName = "bot_state"
)

// Repository stores named documents in SQLite
type Repository struct {
	db *sql.DB
}

// DocumentInfo describes a stored document
type DocumentInfo struct {
	Name      string
	Size      int
	UpdatedAt time.Time
}

// NewRepository creates a new repository with SQLite
func NewRepository(dbPath string) (*Repository, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	repo := &Repository{db: db}

	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return repo, nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}

// migrate creates the database schema
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			name VARCHAR(64) PRIMARY KEY,
			body BLOB NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// ReadDocument returns the body of the named document
func (r *Repository) ReadDocument(ctx context.Context, name string) ([]byte, error) {
	var body []byte
	err := r.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE name = ?`, name).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to read document %s: %w", name, err)
	}
	return body, nil
}

// WriteDocument creates or replaces the named document
func (r *Repository) WriteDocument(ctx context.Context, name string, body []byte) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO documents (name, body, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		name, body, time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to write document %s: %w", name, err)
	}
	return nil
}

// ListDocuments returns metadata for every stored document
func (r *Repository) ListDocuments(ctx context.Context) ([]DocumentInfo, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, length(body), updated_at FROM documents ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []DocumentInfo
	for rows.Next() {
		var d DocumentInfo
		var updated int64
		if err := rows.Scan(&d.Name, &d.Size, &updated); err != nil {
			return nil, err
		}
		d.UpdatedAt = time.UnixMilli(updated).UTC()
		docs = append(docs, d)
	}

	return docs, rows.Err()
}

// Blob returns a Blob view of the named document
func (r *Repository) Blob(name string) Blob {
	return &documentBlob{repo: r, name: name}
}

type documentBlob struct {
	repo *Repository
	name string
}

func (b *documentBlob) Read(ctx context.Context) ([]byte, error) {
	return b.repo.ReadDocument(ctx, b.name)
}

func (b *documentBlob) Write(ctx context.Context, data []byte) error {
	return b.repo.WriteDocument(ctx, b.name, data)
}
