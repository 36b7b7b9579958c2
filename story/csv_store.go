package story

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

const DefaultTextColumn = "text"

// CSVStore indexes the byte offset of every row once, then reads single rows with ReadAt.
// ReadAt is safe for concurrent use so no locking is needed.
type CSVStore struct {
	path    string
	file    *os.File
	textCol int
	// offsets[i] is where data row i+1 starts; the last entry is the end of the final row.
	offsets []int64
}

type csvOptions struct {
	textColumn   string
	expectedRows int
}

type CSVOption func(*csvOptions)

// WithTextColumn overrides the column holding the story text.
func WithTextColumn(name string) CSVOption {
	return func(o *csvOptions) { o.textColumn = name }
}

// WithExpectedRows logs a warning when the file row count differs from n.
func WithExpectedRows(n int) CSVOption {
	return func(o *csvOptions) { o.expectedRows = n }
}

// OpenCSV opens and indexes a story dataset. A missing file fails with ErrDataUnavailable.
func OpenCSV(path string, opts ...CSVOption) (*CSVStore, error) {
	options := csvOptions{textColumn: DefaultTextColumn}
	for _, opt := range opts {
		opt(&options)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: story data file not found at %s: %v", ErrDataUnavailable, path, err)
	}

	store := &CSVStore{path: path, file: file}
	if err := store.buildIndex(options.textColumn); err != nil {
		file.Close()
		return nil, err
	}

	rows := len(store.offsets) - 1
	logger.Info("Indexed story dataset",
		zap.String("path", path),
		zap.String("rows", humanize.Comma(int64(rows))))

	if options.expectedRows > 0 && options.expectedRows != rows {
		logger.Error("Story dataset row count differs from configured value",
			zap.Int("expected", options.expectedRows),
			zap.Int("actual", rows))
	}

	return store, nil
}

func (s *CSVStore) buildIndex(textColumn string) error {
	reader := csv.NewReader(s.file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("%w: reading header of %s: %v", ErrDataUnavailable, s.path, err)
	}

	s.textCol = -1
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")), textColumn) {
			s.textCol = i
			break
		}
	}
	if s.textCol < 0 {
		return fmt.Errorf("%w: %s has no %q column", ErrDataUnavailable, s.path, textColumn)
	}

	s.offsets = []int64{reader.InputOffset()}
	for {
		_, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if err != nil && !errors.As(err, &parseErr) {
			return fmt.Errorf("%w: indexing %s: %v", ErrDataUnavailable, s.path, err)
		}
		// Malformed rows keep their slot so row numbers stay aligned with the file.
		s.offsets = append(s.offsets, reader.InputOffset())
	}

	return nil
}

func (s *CSVStore) Count(ctx context.Context) (int, error) {
	return len(s.offsets) - 1, nil
}

func (s *CSVStore) Record(ctx context.Context, row int) (Record, error) {
	text, err := s.rawText(row)
	if err != nil {
		return Record{}, err
	}

	rec := Record{RowIndex: row, Text: text}
	if rec.Blank() {
		return Record{}, fmt.Errorf("%w %d: blank text", ErrNoRecord, row)
	}
	return rec, nil
}

// rawText returns the text cell of a row, blank or not.
func (s *CSVStore) rawText(row int) (string, error) {
	if row < 1 || row >= len(s.offsets) {
		return "", fmt.Errorf("%w %d: out of range", ErrNoRecord, row)
	}

	start, end := s.offsets[row-1], s.offsets[row]
	reader := csv.NewReader(io.NewSectionReader(s.file, start, end-start))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	fields, err := reader.Read()
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) || errors.Is(err, io.EOF) {
			return "", fmt.Errorf("%w %d: %v", ErrNoRecord, row, err)
		}
		return "", fmt.Errorf("%w: reading row %d of %s: %v", ErrDataUnavailable, row, s.path, err)
	}

	if s.textCol >= len(fields) {
		return "", nil
	}
	return fields[s.textCol], nil
}

func (s *CSVStore) Close() error {
	return s.file.Close()
}
