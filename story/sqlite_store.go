package story

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/dustin/go-humanize"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps a copy of the dataset keyed by row index for constant-time lookups.
// Blank rows are stored as NULL so the row numbering matches the source CSV.
type SQLiteStore struct {
	conn *sqlx.DB
}

// OpenSQLite opens an existing story index. A missing file fails with ErrDataUnavailable.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: story index not found at %s: %v", ErrDataUnavailable, path, err)
	}
	return openSQLite(path)
}

// CreateSQLite opens the story index at path, creating it if needed.
func CreateSQLite(path string) (*SQLiteStore, error) {
	return openSQLite(path)
}

func openSQLite(path string) (*SQLiteStore, error) {
	conn, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open story index: %v", ErrDataUnavailable, err)
	}

	store := &SQLiteStore{conn: conn}
	if err := store.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: migrate story index: %v", ErrDataUnavailable, err)
	}

	return store, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS stories (
		row_index INTEGER PRIMARY KEY,
		text TEXT
	);
	`
	_, err := s.conn.Exec(schema)
	return err
}

func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.conn.GetContext(ctx, &count, "SELECT COALESCE(MAX(row_index), 0) FROM stories"); err != nil {
		return 0, fmt.Errorf("%w: counting stories: %v", ErrDataUnavailable, err)
	}
	return count, nil
}

func (s *SQLiteStore) Record(ctx context.Context, row int) (Record, error) {
	var text sql.NullString
	err := s.conn.GetContext(ctx, &text, "SELECT text FROM stories WHERE row_index = ?", row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w %d: out of range", ErrNoRecord, row)
	}
	if err != nil {
		return Record{}, fmt.Errorf("%w: reading row %d: %v", ErrDataUnavailable, row, err)
	}

	rec := Record{RowIndex: row, Text: text.String}
	if !text.Valid || rec.Blank() {
		return Record{}, fmt.Errorf("%w %d: blank text", ErrNoRecord, row)
	}
	return rec, nil
}

func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

// ImportCSV replaces the contents of dst with every row of src in a single transaction.
func ImportCSV(ctx context.Context, dst *SQLiteStore, src *CSVStore) (int, error) {
	total, _ := src.Count(ctx)

	tx, err := dst.conn.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM stories"); err != nil {
		return 0, err
	}

	stmt, err := tx.PreparexContext(ctx, "INSERT INTO stories (row_index, text) VALUES (?, ?)")
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	imported := 0
	for row := 1; row <= total; row++ {
		text, err := src.rawText(row)
		if err != nil && !errors.Is(err, ErrNoRecord) {
			return imported, fmt.Errorf("importing row %d: %w", row, err)
		}

		value := sql.NullString{String: text, Valid: err == nil && !(Record{Text: text}).Blank()}
		if _, err := stmt.ExecContext(ctx, row, value); err != nil {
			return imported, fmt.Errorf("inserting row %d: %w", row, err)
		}
		if value.Valid {
			imported++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	logger.Info("Imported stories into index",
		zap.String("rows", humanize.Comma(int64(total))),
		zap.String("non_blank", humanize.Comma(int64(imported))))

	return imported, nil
}
