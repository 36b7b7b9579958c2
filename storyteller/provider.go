package storyteller

import (
	"context"
	"strings"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/tiny-tales/appconfig"
	"github.com/SaiNageswarS/tiny-tales/llm"
	"github.com/SaiNageswarS/tiny-tales/story"
	"github.com/SaiNageswarS/tiny-tales/translate"
	"go.uber.org/zap"
)

// ProvideTeller wires a Teller from config. Missing pieces degrade instead of failing:
// an unreadable dataset makes every tool call return ErrDataUnavailable, a missing
// LLM disables rewriting and a missing backend makes every translation English only.
func ProvideTeller(ctx context.Context, cfg *appconfig.AppConfig) *Teller {
	store := provideStore(cfg)
	sampler := story.NewSampler(store, story.WithMaxAttempts(cfg.MaxSampleAttempts))
	rewriter := NewStyleRewriter(provideRewriteClient(cfg))
	translator := translate.NewTranslator(provideBackend(ctx, cfg), translate.WithTimeout(cfg.TranslationTimeout()))

	teller := NewTeller(sampler, rewriter, translator)
	teller.store = store
	return teller
}

func provideStore(cfg *appconfig.AppConfig) story.Store {
	var (
		store story.Store
		err   error
	)

	switch strings.ToLower(cfg.StoryStore) {
	case appconfig.StoreSQLite:
		store, err = openStore(story.OpenSQLite(cfg.SQLitePath))
	default:
		store, err = openStore(story.OpenCSV(cfg.DataFile, story.WithExpectedRows(cfg.ExpectedRows)))
	}

	if err != nil {
		logger.Error("Story dataset unavailable, tools will report errors", zap.Error(err))
		return story.Unavailable(err)
	}
	return store
}

func openStore[S story.Store](store S, err error) (story.Store, error) {
	if err != nil {
		return nil, err
	}
	return store, nil
}

func provideRewriteClient(cfg *appconfig.AppConfig) llm.LLMClient {
	provider := strings.ToLower(strings.TrimSpace(cfg.RewriteProvider))
	if provider == "" || provider == "none" {
		logger.Info("Story rewriting disabled")
		return nil
	}

	client, err := llm.NewClient(provider, cfg.RewriteModel)
	if err != nil {
		logger.Error("Failed to create rewrite LLM client, stories will be told verbatim", zap.Error(err))
		return nil
	}
	return client
}

func provideBackend(ctx context.Context, cfg *appconfig.AppConfig) translate.Backend {
	switch strings.ToLower(strings.TrimSpace(cfg.TranslationBackend)) {
	case appconfig.BackendLambda:
		backend, err := translate.NewLambdaBackend(ctx, cfg.TranslatorLambda)
		if err != nil {
			logger.Error("Failed to create Lambda translator, translations will be English only", zap.Error(err))
			return nil
		}
		return backend
	case appconfig.BackendNone:
		return nil
	default:
		return translate.NewGoogleBackend()
	}
}
