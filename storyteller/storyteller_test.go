package storyteller

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/SaiNageswarS/tiny-tales/appconfig"
	"github.com/SaiNageswarS/tiny-tales/llm"
	"github.com/SaiNageswarS/tiny-tales/story"
	"github.com/SaiNageswarS/tiny-tales/translate"
	"github.com/ollama/ollama/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testLLMClient struct {
	response     string
	err          error
	block        bool
	panics       bool
	calls        int
	lastMessages []llm.Message
}

func (m *testLLMClient) GenerateInference(ctx context.Context, messages []llm.Message, callback func(chunk string) error, opts ...llm.LLMOption) error {
	m.calls++
	m.lastMessages = messages
	if m.panics {
		panic("client bug")
	}
	if m.block {
		time.Sleep(time.Second)
		return nil
	}
	if m.err != nil {
		return m.err
	}
	return callback(m.response)
}

func (m *testLLMClient) GenerateInferenceWithTools(ctx context.Context, messages []llm.Message, contentCallback func(chunk string) error, toolCallback func(toolCalls []api.ToolCall) error, opts ...llm.LLMOption) error {
	return errors.New("not used")
}

func (m *testLLMClient) Capabilities() llm.Capability { return 0 }

func (m *testLLMClient) GetModel() string { return "test-model" }

type memStore struct {
	rows []string
	err  error
}

func (s *memStore) Count(ctx context.Context) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	return len(s.rows), nil
}

func (s *memStore) Record(ctx context.Context, row int) (story.Record, error) {
	if row < 1 || row > len(s.rows) || strings.TrimSpace(s.rows[row-1]) == "" {
		return story.Record{}, story.ErrNoRecord
	}
	return story.Record{RowIndex: row, Text: s.rows[row-1]}, nil
}

func (s *memStore) Close() error { return nil }

type fakeBackend struct {
	translations map[translate.Language]string
	err          error
	calls        int
}

func (b *fakeBackend) Name() string { return "fake" }

func (b *fakeBackend) Translate(ctx context.Context, chunks []string, target translate.Language) ([]string, error) {
	b.calls++
	if b.err != nil {
		return nil, b.err
	}
	return []string{b.translations[target]}, nil
}

func fixedPicker(row int) story.Picker {
	return func(n int) int { return row }
}

func TestRewriteReturnsModelOutput(t *testing.T) {
	client := &testLLMClient{response: "  Once upon a time, a thirsty crow found a pitcher.  "}
	rewriter := NewStyleRewriter(client)

	out := rewriter.Rewrite(context.Background(), "A crow, parched with thirst, came upon a pitcher.")

	assert.Equal(t, "Once upon a time, a thirsty crow found a pitcher.", out)
	require.Len(t, client.lastMessages, 1)
	assert.Equal(t, "user", client.lastMessages[0].Role)
	assert.Contains(t, client.lastMessages[0].Content, "A crow, parched with thirst, came upon a pitcher.")
}

func TestRewriteFallsBackToOriginal(t *testing.T) {
	const original = "Once upon a time..."

	tests := []struct {
		name     string
		rewriter *StyleRewriter
	}{
		{"llm error", NewStyleRewriter(&testLLMClient{err: errors.New("quota exceeded")})},
		{"llm timeout", NewStyleRewriter(&testLLMClient{err: context.DeadlineExceeded})},
		{"blocked past timeout", NewStyleRewriter(&testLLMClient{block: true}, WithRewriteTimeout(20*time.Millisecond))},
		{"blank output", NewStyleRewriter(&testLLMClient{response: " \n "})},
		{"client panic", NewStyleRewriter(&testLLMClient{panics: true})},
		{"no client", NewStyleRewriter(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, original, tt.rewriter.Rewrite(context.Background(), original))
		})
	}
}

func TestRandomStoryInEnglish(t *testing.T) {
	store := &memStore{rows: []string{"First story.", "", "Third story."}}
	client := &testLLMClient{response: "A happy little story."}

	teller := NewTeller(
		story.NewSampler(store, story.WithPicker(fixedPicker(3))),
		NewStyleRewriter(client),
		translate.NewTranslator(&fakeBackend{}),
	)

	sc, err := teller.RandomStoryInEnglish(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, sc.StoryID)
	assert.Equal(t, "A happy little story.", sc.CurrentStory)
	assert.Equal(t, translate.English, sc.LastLanguage)
	assert.Contains(t, client.lastMessages[0].Content, "Third story.")
}

func TestRandomStoryInEnglishDataErrors(t *testing.T) {
	t.Run("unavailable", func(t *testing.T) {
		teller := NewTeller(
			story.NewSampler(story.Unavailable(errors.New("disk gone"))),
			NewStyleRewriter(nil),
			translate.NewTranslator(nil),
		)
		_, err := teller.RandomStoryInEnglish(context.Background())
		assert.ErrorIs(t, err, story.ErrDataUnavailable)
	})

	t.Run("exhausted", func(t *testing.T) {
		teller := NewTeller(
			story.NewSampler(&memStore{rows: []string{"", " "}}, story.WithMaxAttempts(4)),
			NewStyleRewriter(nil),
			translate.NewTranslator(nil),
		)
		_, err := teller.RandomStoryInEnglish(context.Background())
		assert.ErrorIs(t, err, story.ErrDataExhausted)
	})
}

func TestStoryInOtherLanguage(t *testing.T) {
	backend := &fakeBackend{translations: map[translate.Language]string{translate.Tamil: "வணக்கம்"}}
	teller := NewTeller(
		story.NewSampler(&memStore{rows: []string{"Hello"}}, story.WithPicker(fixedPicker(1))),
		NewStyleRewriter(nil),
		translate.NewTranslator(backend),
	)

	sc, result, err := teller.StoryInOtherLanguage(context.Background(), "TAMIL")

	require.NoError(t, err)
	assert.Equal(t, 1, sc.StoryID)
	assert.Equal(t, translate.Tamil, sc.LastLanguage)
	assert.False(t, result.Degraded)
	assert.Equal(t, map[translate.Language]string{translate.English: "Hello", translate.Tamil: "வணக்கம்"}, result.Texts)
}

func TestStoryInOtherLanguageDegrades(t *testing.T) {
	backend := &fakeBackend{err: errors.New("backend down")}
	teller := NewTeller(
		story.NewSampler(&memStore{rows: []string{"Hello"}}),
		NewStyleRewriter(nil),
		translate.NewTranslator(backend),
	)

	sc, result, err := teller.StoryInOtherLanguage(context.Background(), "hi")

	require.NoError(t, err)
	assert.True(t, result.Degraded)
	assert.Equal(t, map[translate.Language]string{translate.English: "Hello"}, result.Texts)
	assert.Equal(t, translate.English, sc.LastLanguage)
}

func TestStoryInOtherLanguageRejectsBeforeSampling(t *testing.T) {
	for _, lang := range []string{"la", "en", "french", ""} {
		t.Run(lang, func(t *testing.T) {
			backend := &fakeBackend{}
			client := &testLLMClient{response: "unused"}
			teller := NewTeller(
				story.NewSampler(&memStore{rows: []string{"Hello"}}),
				NewStyleRewriter(client),
				translate.NewTranslator(backend),
			)

			_, _, err := teller.StoryInOtherLanguage(context.Background(), lang)

			assert.ErrorIs(t, err, translate.ErrUnsupportedLanguage)
			assert.Equal(t, 0, backend.calls)
			assert.Equal(t, 0, client.calls)
		})
	}
}

func TestProvideTeller(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "validation.csv")
	require.NoError(t, os.WriteFile(path, []byte("text\nThe moon smiled at the sleepy owl.\n"), 0o644))

	cfg := &appconfig.AppConfig{
		DataFile:           path,
		StoryStore:         appconfig.StoreCSV,
		RewriteProvider:    "none",
		TranslationBackend: appconfig.BackendNone,
	}

	teller := ProvideTeller(context.Background(), cfg)
	defer teller.Close()

	sc, err := teller.RandomStoryInEnglish(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "The moon smiled at the sleepy owl.", sc.CurrentStory)
	assert.Equal(t, 1, sc.StoryID)

	_, result, err := teller.StoryInOtherLanguage(context.Background(), "ta")
	require.NoError(t, err)
	assert.True(t, result.Degraded)
	assert.Equal(t, translate.ReasonNoBackend, result.Reason)
}

func TestProvideTellerMissingData(t *testing.T) {
	cfg := &appconfig.AppConfig{
		DataFile:           filepath.Join(t.TempDir(), "missing.csv"),
		TranslationBackend: appconfig.BackendNone,
	}

	teller := ProvideTeller(context.Background(), cfg)
	defer teller.Close()

	_, err := teller.RandomStoryInEnglish(context.Background())
	assert.ErrorIs(t, err, story.ErrDataUnavailable)
}
