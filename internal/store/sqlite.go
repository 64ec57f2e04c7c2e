package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
    collection TEXT NOT NULL,
    id         TEXT NOT NULL,
    data       TEXT NOT NULL CHECK(json_valid(data)),
    created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
    updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
    PRIMARY KEY (collection, id)
);

CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents(collection, created_at);
`

// SQLite stores documents as JSON text in a single table.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the SQLite database and initializes the schema.
func OpenSQLite(dbPath string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// List returns all records of a collection in insertion order.
func (s *SQLite) List(ctx context.Context, path string) ([]Record, error) {
	if err := ValidatePath(path); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, data
		FROM documents
		WHERE collection = ?
		ORDER BY created_at, rowid
	`, path)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", path, err)
	}
	defer rows.Close()

	var results []Record
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", path, err)
		}
		rec, err := unmarshalFields(id, data)
		if err != nil {
			return nil, err
		}
		results = append(results, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", path, err)
	}

	return results, nil
}

// Get retrieves a single record by id.
func (s *SQLite) Get(ctx context.Context, path, id string) (Record, error) {
	if err := ValidatePath(path); err != nil {
		return Record{}, err
	}

	var data string
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM documents WHERE collection = ? AND id = ?", path, id,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%s/%s: %w", path, id, ErrNotFound)
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to get %s/%s: %w", path, id, err)
	}

	return unmarshalFields(id, data)
}

// Create inserts a record under a new id.
func (s *SQLite) Create(ctx context.Context, path string, fields Fields) (string, error) {
	if err := ValidatePath(path); err != nil {
		return "", err
	}
	data, err := marshalFields(fields)
	if err != nil {
		return "", err
	}

	id := NewID()
	if _, err := s.db.ExecContext(ctx,
		"INSERT INTO documents (collection, id, data) VALUES (?, ?, ?)", path, id, data,
	); err != nil {
		return "", fmt.Errorf("failed to insert into %s: %w", path, err)
	}
	return id, nil
}

// Update merges fields into the stored JSON body.
func (s *SQLite) Update(ctx context.Context, path, id string, fields Fields) error {
	if err := ValidatePath(path); err != nil {
		return err
	}
	patch, err := marshalFields(fields)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE documents
		SET data = json_patch(data, ?), updated_at = strftime('%Y-%m-%dT%H:%M:%fZ','now')
		WHERE collection = ? AND id = ?
	`, patch, path, id)
	if err != nil {
		return fmt.Errorf("failed to update %s/%s: %w", path, id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update %s/%s: %w", path, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s/%s: %w", path, id, ErrNotFound)
	}
	return nil
}

// Delete removes a record. Deleting a missing record is not an error.
func (s *SQLite) Delete(ctx context.Context, path, id string) error {
	if err := ValidatePath(path); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM documents WHERE collection = ? AND id = ?", path, id,
	); err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", path, id, err)
	}
	return nil
}

// Put upserts a record with a known id.
func (s *SQLite) Put(ctx context.Context, path, id string, fields Fields) error {
	if err := ValidatePath(path); err != nil {
		return err
	}
	data, err := marshalFields(fields)
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, data) VALUES (?, ?, ?)
		ON CONFLICT(collection, id) DO UPDATE SET
			data = excluded.data,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ','now')
	`, path, id, data); err != nil {
		return fmt.Errorf("failed to put %s/%s: %w", path, id, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
