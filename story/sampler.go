package story

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"go.uber.org/zap"
)

const DefaultMaxAttempts = 64

// Picker returns a row index in [1, n].
type Picker func(n int) int

func uniformPicker(n int) int {
	return rand.IntN(n) + 1
}

// Sampler draws uniformly random rows until it finds one with text.
// It keeps no state between calls, so one Sampler can serve concurrent requests.
type Sampler struct {
	store       Store
	pick        Picker
	maxAttempts int
}

type SamplerOption func(*Sampler)

func WithPicker(p Picker) SamplerOption {
	return func(s *Sampler) { s.pick = p }
}

func WithMaxAttempts(n int) SamplerOption {
	return func(s *Sampler) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

func NewSampler(store Store, opts ...SamplerOption) *Sampler {
	s := &Sampler{
		store:       store,
		pick:        uniformPicker,
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sample returns a random non-blank story. Blank rows are redrawn; an unavailable dataset
// fails on the first attempt; running out of attempts returns ErrDataExhausted.
func (s *Sampler) Sample(ctx context.Context) (Record, error) {
	total, err := s.store.Count(ctx)
	if err != nil {
		return Record{}, err
	}
	if total <= 0 {
		return Record{}, fmt.Errorf("%w: dataset is empty", ErrDataExhausted)
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return Record{}, err
		}

		row := s.pick(total)
		logger.Info("Trying to pick a random story", zap.Int("row", row), zap.Int("attempt", attempt))

		rec, err := s.store.Record(ctx, row)
		if errors.Is(err, ErrNoRecord) {
			continue
		}
		if err != nil {
			return Record{}, err
		}
		if rec.Blank() {
			continue
		}

		return rec, nil
	}

	return Record{}, fmt.Errorf("%w after %d attempts", ErrDataExhausted, s.maxAttempts)
}
