// Package story reads children's stories from a read-only dataset and samples them at random.
package story

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrDataUnavailable means the dataset is missing or unreadable. It is never retried.
	ErrDataUnavailable = errors.New("story data unavailable")

	// ErrNoRecord means the requested row does not exist or has no text.
	ErrNoRecord = errors.New("no story at row")

	// ErrDataExhausted means the sampler gave up after its maximum number of draws.
	ErrDataExhausted = errors.New("no story found")
)

// Record is one dataset row. RowIndex is 1-based; row 1 is the first row after the header.
type Record struct {
	RowIndex int
	Text     string
}

func (r Record) Blank() bool {
	return strings.TrimSpace(r.Text) == ""
}

// Store gives random access to dataset rows.
type Store interface {
	// Count returns the number of data rows, or an error wrapping ErrDataUnavailable.
	Count(ctx context.Context) (int, error)

	// Record returns the row at the given index. Blank and out-of-range rows return ErrNoRecord.
	Record(ctx context.Context, row int) (Record, error)

	Close() error
}

// Unavailable returns a Store that fails every call with err.
// Servers use it to keep running when the dataset could not be opened at startup.
func Unavailable(err error) Store {
	if !errors.Is(err, ErrDataUnavailable) {
		err = errors.Join(ErrDataUnavailable, err)
	}
	return unavailableStore{err: err}
}

type unavailableStore struct {
	err error
}

func (s unavailableStore) Count(ctx context.Context) (int, error) { return 0, s.err }

func (s unavailableStore) Record(ctx context.Context, row int) (Record, error) {
	return Record{}, s.err
}

func (s unavailableStore) Close() error { return nil }
