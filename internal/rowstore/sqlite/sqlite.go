// Package sqlite provides a SQLite-backed implementation of the
// rowstore.Store interface using the pure Go driver (no CGO).
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/rowstore"
)

// Ensure RowStore implements rowstore.Store
var _ rowstore.Store = (*RowStore)(nil)

// RowStore persists logical tables as ordered rows of JSON-encoded cells.
type RowStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS sheet_rows (
    tbl     TEXT    NOT NULL,
    row_idx INTEGER NOT NULL,
    cells   TEXT    NOT NULL,
    PRIMARY KEY (tbl, row_idx)
);
`

// New creates a RowStore at the given database path, creating parent
// directories and the schema as needed.
func New(dbPath string) (*RowStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set journal mode: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &RowStore{db: db}, nil
}

// Close closes the database connection.
func (s *RowStore) Close() error {
	return s.db.Close()
}

// GetAll returns every row of table ordered by row index.
func (s *RowStore) GetAll(ctx context.Context, table rowstore.Table) ([][]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT cells FROM sheet_rows WHERE tbl = ? ORDER BY row_idx",
		string(table),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	var result [][]string
	for rows.Next() {
		var encoded string
		if err := rows.Scan(&encoded); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		var cells []string
		if err := json.Unmarshal([]byte(encoded), &cells); err != nil {
			return nil, fmt.Errorf("corrupt row in %s: %w", table, err)
		}
		result = append(result, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", table, err)
	}
	return result, nil
}

// Append adds rows to the end of table inside a single transaction.
func (s *RowStore) Append(ctx context.Context, table rowstore.Table, newRows [][]string) error {
	if len(newRows) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var next int
	err = tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(row_idx), -1) + 1 FROM sheet_rows WHERE tbl = ?",
		string(table),
	).Scan(&next)
	if err != nil {
		return fmt.Errorf("failed to find next row index for %s: %w", table, err)
	}

	for i, cells := range newRows {
		encoded, err := json.Marshal(cells)
		if err != nil {
			return fmt.Errorf("failed to encode row for %s: %w", table, err)
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO sheet_rows (tbl, row_idx, cells) VALUES (?, ?, ?)",
			string(table), next+i, string(encoded),
		)
		if err != nil {
			return fmt.Errorf("failed to insert row into %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit append to %s: %w", table, err)
	}
	return nil
}

// UpdateRange overwrites cells of one row starting at startCol, growing
// the row with empty cells when the range extends past its current width.
func (s *RowStore) UpdateRange(ctx context.Context, table rowstore.Table, rowIndex, startCol int, values []string) error {
	if rowIndex < 0 || startCol < 0 {
		return fmt.Errorf("invalid range for %s: row %d col %d", table, rowIndex, startCol)
	}
	if len(values) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var encoded string
	err = tx.QueryRowContext(ctx,
		"SELECT cells FROM sheet_rows WHERE tbl = ? AND row_idx = ?",
		string(table), rowIndex,
	).Scan(&encoded)
	if err == sql.ErrNoRows {
		return fmt.Errorf("no row %d in %s", rowIndex, table)
	}
	if err != nil {
		return fmt.Errorf("failed to read row %d of %s: %w", rowIndex, table, err)
	}

	var cells []string
	if err := json.Unmarshal([]byte(encoded), &cells); err != nil {
		return fmt.Errorf("corrupt row %d in %s: %w", rowIndex, table, err)
	}

	if need := startCol + len(values); need > len(cells) {
		grown := make([]string, need)
		copy(grown, cells)
		cells = grown
	}
	copy(cells[startCol:], values)

	updated, err := json.Marshal(cells)
	if err != nil {
		return fmt.Errorf("failed to encode row for %s: %w", table, err)
	}
	_, err = tx.ExecContext(ctx,
		"UPDATE sheet_rows SET cells = ? WHERE tbl = ? AND row_idx = ?",
		string(updated), string(table), rowIndex,
	)
	if err != nil {
		return fmt.Errorf("failed to update row %d of %s: %w", rowIndex, table, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit update to %s: %w", table, err)
	}
	return nil
}
