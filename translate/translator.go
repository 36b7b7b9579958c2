package translate

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"go.uber.org/zap"
)

const DefaultTimeout = 10 * time.Second

// Reasons reported on a degraded Result.
const (
	ReasonTimeout      = "timeout"
	ReasonConnectivity = "connection failed"
	ReasonEmpty        = "empty translation"
	ReasonBackend      = "translation failed"
	ReasonNoBackend    = "no translation backend configured"
)

// Result maps language to text. It always holds the English original; it holds the
// target language only when translation succeeded, otherwise Degraded is set.
type Result struct {
	Texts    map[Language]string `json:"texts"`
	Degraded bool                `json:"degraded"`
	Reason   string              `json:"reason,omitempty"`
}

func (r Result) Text(lang Language) (string, bool) {
	text, ok := r.Texts[lang]
	return text, ok
}

// Translator wraps a Backend with a timeout and the English-only fallback.
type Translator struct {
	backend       Backend
	timeout       time.Duration
	maxChunkChars int
}

type Option func(*Translator)

func WithTimeout(d time.Duration) Option {
	return func(t *Translator) {
		if d > 0 {
			t.timeout = d
		}
	}
}

func WithMaxChunkChars(n int) Option {
	return func(t *Translator) {
		if n > 0 {
			t.maxChunkChars = n
		}
	}
}

func NewTranslator(backend Backend, opts ...Option) *Translator {
	t := &Translator{
		backend:       backend,
		timeout:       DefaultTimeout,
		maxChunkChars: DefaultMaxChunkChars,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Translate returns {en: englishText, target: translation}. Backend failures, timeouts and
// blank output degrade to {en: englishText} without an error. The only error is
// ErrUnsupportedLanguage, returned before the backend is called.
func (t *Translator) Translate(ctx context.Context, englishText string, target Language) (Result, error) {
	if !target.IsTarget() {
		return Result{}, fmt.Errorf("%w: cannot translate into %q", ErrUnsupportedLanguage, target)
	}

	result := Result{Texts: map[Language]string{English: englishText}}

	if t.backend == nil {
		return t.degrade(result, target, ReasonNoBackend, nil), nil
	}

	chunks := ChunkBySentences(englishText, t.maxChunkChars)
	if len(chunks) == 0 {
		return t.degrade(result, target, ReasonEmpty, nil), nil
	}

	translated, err := t.call(ctx, chunks, target)
	if err != nil {
		return t.degrade(result, target, classify(err), err), nil
	}

	if len(translated) != len(chunks) {
		err := fmt.Errorf("got %d translations for %d chunks", len(translated), len(chunks))
		return t.degrade(result, target, ReasonBackend, err), nil
	}

	for i, chunk := range translated {
		if strings.TrimSpace(chunk) == "" {
			return t.degrade(result, target, ReasonEmpty, fmt.Errorf("chunk %d of %d is blank", i+1, len(chunks))), nil
		}
	}

	result.Texts[target] = strings.TrimSpace(strings.Join(translated, " "))
	logger.Info("Successfully translated story",
		zap.String("lang", string(target)),
		zap.String("backend", t.backend.Name()),
		zap.Int("chunks", len(chunks)))
	return result, nil
}

// call bounds the backend by the timeout even if the backend ignores its context.
func (t *Translator) call(ctx context.Context, chunks []string, target Language) ([]string, error) {
	callCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	type outcome struct {
		texts []string
		err   error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("translation backend panicked: %v", r)}
			}
		}()
		texts, err := t.backend.Translate(callCtx, chunks, target)
		done <- outcome{texts: texts, err: err}
	}()

	select {
	case o := <-done:
		return o.texts, o.err
	case <-callCtx.Done():
		return nil, callCtx.Err()
	}
}

func (t *Translator) degrade(result Result, target Language, reason string, err error) Result {
	fields := []zap.Field{zap.String("lang", string(target)), zap.String("reason", reason)}
	if err != nil {
		fields = append(fields, zap.Error(err))
		reason = fmt.Sprintf("%s: %v", reason, err)
	}
	logger.Error("Translation degraded to English only", fields...)

	result.Degraded = true
	result.Reason = reason
	return result
}

func classify(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ReasonTimeout
		}
		return ReasonConnectivity
	}

	return ReasonBackend
}
