package storyteller

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/tiny-tales/llm"
	"github.com/SaiNageswarS/tiny-tales/prompts"
	"go.uber.org/zap"
)

const DefaultRewriteTimeout = 30 * time.Second

// StyleRewriter retells a story for a 4 to 5 year old using an LLM.
// Rewrite never fails: any problem returns the original text.
type StyleRewriter struct {
	client  llm.LLMClient
	timeout time.Duration
}

type RewriterOption func(*StyleRewriter)

func WithRewriteTimeout(d time.Duration) RewriterOption {
	return func(r *StyleRewriter) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// NewStyleRewriter returns a rewriter. A nil client disables rewriting.
func NewStyleRewriter(client llm.LLMClient, opts ...RewriterOption) *StyleRewriter {
	r := &StyleRewriter{
		client:  client,
		timeout: DefaultRewriteTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *StyleRewriter) Rewrite(ctx context.Context, text string) string {
	if r == nil || r.client == nil {
		return text
	}

	systemPrompt, userPrompt, err := prompts.RenderStoryRewritePrompt(text)
	if err != nil {
		logger.Error("Failed to render rewrite prompt", zap.Error(err))
		return text
	}

	rewritten, err := r.generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		logger.Error("Story rewrite failed, using original text", zap.String("model", r.client.GetModel()), zap.Error(err))
		return text
	}

	rewritten = strings.TrimSpace(rewritten)
	if rewritten == "" {
		logger.Error("Story rewrite returned empty text, using original text", zap.String("model", r.client.GetModel()))
		return text
	}

	logger.Info("Rewrote story",
		zap.Int("original_chars", len([]rune(text))),
		zap.Int("rewritten_chars", len([]rune(rewritten))))
	return rewritten
}

// generate bounds the LLM call by the rewrite timeout even if the client ignores its context.
func (r *StyleRewriter) generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	type outcome struct {
		text string
		err  error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("llm client panicked: %v", r)}
			}
		}()
		var sb strings.Builder
		err := r.client.GenerateInference(callCtx,
			[]llm.Message{{Role: "user", Content: userPrompt}},
			func(chunk string) error {
				sb.WriteString(chunk)
				return nil
			},
			llm.WithSystemPrompt(systemPrompt),
			llm.WithTemperature(0.7),
			llm.WithMaxTokens(1024),
		)
		done <- outcome{text: sb.String(), err: err}
	}()

	select {
	case o := <-done:
		return o.text, o.err
	case <-callCtx.Done():
		return "", callCtx.Err()
	}
}
