package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3"

	"estoque/internal/adapter"
	apperrors "estoque/internal/errors"
)

// Store persists records in a single-file sqlite database, the device-local
// backend. Each record is a row keyed by id with its field map as a JSON
// column.
type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("sqlite path must not be empty")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating db directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, apperrors.NewUnavailableError("opening sqlite database", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func createSchema(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS records (
	id TEXT PRIMARY KEY,
	fields TEXT NOT NULL
);
`
	if _, err := db.Exec(schema); err != nil {
		return apperrors.NewUnavailableError("creating schema", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) List(ctx context.Context) ([]adapter.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, fields FROM records`)
	if err != nil {
		return nil, apperrors.NewUnavailableError("querying records", err)
	}
	defer rows.Close()

	var list []adapter.Record
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, apperrors.NewUnavailableError("scanning record row", err)
		}
		fields := map[string]any{}
		if err := json.Unmarshal([]byte(raw), &fields); err != nil {
			return nil, fmt.Errorf("decoding record %q: %w", id, err)
		}
		list = append(list, adapter.Record{ID: id, Fields: fields})
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewUnavailableError("iterating record rows", err)
	}
	return list, nil
}

func (s *Store) Create(ctx context.Context, rec adapter.Record) (string, error) {
	raw, err := json.Marshal(rec.Fields)
	if err != nil {
		return "", fmt.Errorf("encoding record fields: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO records (id, fields) VALUES (?, ?)`, rec.ID, string(raw))
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return "", apperrors.NewDuplicateIDError(rec.ID)
		}
		return "", apperrors.NewUnavailableError("inserting record", err)
	}
	return rec.ID, nil
}

func (s *Store) Update(ctx context.Context, id string, rec adapter.Record) error {
	raw, err := json.Marshal(rec.Fields)
	if err != nil {
		return fmt.Errorf("encoding record fields: %w", err)
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE records SET fields = ? WHERE id = ?`, string(raw), id)
	if err != nil {
		return apperrors.NewUnavailableError("updating record", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewUnavailableError("getting rows affected", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("record %q not found", id))
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id)
	if err != nil {
		return apperrors.NewUnavailableError("deleting record", err)
	}
	return nil
}
