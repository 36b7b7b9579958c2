// Package storyteller turns a random dataset row into a story for a small child,
// optionally translated into Tamil or Hindi.
package storyteller

import (
	"context"
	"fmt"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/tiny-tales/story"
	"github.com/SaiNageswarS/tiny-tales/translate"
	"go.uber.org/zap"
)

// StoryContext is built per tool call and dropped after the response.
type StoryContext struct {
	CurrentStory string
	StoryID      int
	LastLanguage translate.Language
}

// Teller runs the sampler, rewriter and translator for the two story tools.
type Teller struct {
	sampler    *story.Sampler
	rewriter   *StyleRewriter
	translator *translate.Translator
	store      story.Store
}

func NewTeller(sampler *story.Sampler, rewriter *StyleRewriter, translator *translate.Translator) *Teller {
	return &Teller{
		sampler:    sampler,
		rewriter:   rewriter,
		translator: translator,
	}
}

// RandomStoryInEnglish samples a story and retells it for a young child.
// Only sampling errors (ErrDataUnavailable, ErrDataExhausted) are returned.
func (t *Teller) RandomStoryInEnglish(ctx context.Context) (StoryContext, error) {
	rec, err := t.sampler.Sample(ctx)
	if err != nil {
		logger.Error("Failed to sample story", zap.Error(err))
		return StoryContext{}, fmt.Errorf("failed to sample story: %w", err)
	}

	return StoryContext{
		CurrentStory: t.rewriter.Rewrite(ctx, rec.Text),
		StoryID:      rec.RowIndex,
		LastLanguage: translate.English,
	}, nil
}

// StoryInOtherLanguage returns an English story together with its translation.
// The language is checked before any story is sampled. A failed translation
// degrades the result to English only and is not an error.
func (t *Teller) StoryInOtherLanguage(ctx context.Context, lang string) (StoryContext, translate.Result, error) {
	target, err := translate.ParseTarget(lang)
	if err != nil {
		return StoryContext{}, translate.Result{}, err
	}

	sc, err := t.RandomStoryInEnglish(ctx)
	if err != nil {
		return StoryContext{}, translate.Result{}, err
	}

	result, err := t.translator.Translate(ctx, sc.CurrentStory, target)
	if err != nil {
		return StoryContext{}, translate.Result{}, err
	}

	sc.LastLanguage = target
	if result.Degraded {
		sc.LastLanguage = translate.English
	}
	return sc, result, nil
}

// Close releases the story store when the Teller owns it.
func (t *Teller) Close() error {
	if t.store == nil {
		return nil
	}
	return t.store.Close()
}
