package translate

import "context"

// Backend translates a batch of English chunks into one target language.
// It returns exactly one translation per chunk, in order.
type Backend interface {
	Translate(ctx context.Context, chunks []string, target Language) ([]string, error)
	Name() string
}
