package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const googleTranslateURL = "https://translate.googleapis.com/translate_a/single"

// GoogleBackend calls the public Google Translate web endpoint, one request per chunk.
type GoogleBackend struct {
	httpClient *http.Client
	url        string
}

func NewGoogleBackend() *GoogleBackend {
	return &GoogleBackend{
		httpClient: &http.Client{},
		url:        googleTranslateURL,
	}
}

func (b *GoogleBackend) Name() string {
	return "google"
}

func (b *GoogleBackend) Translate(ctx context.Context, chunks []string, target Language) ([]string, error) {
	translations := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		translated, err := b.translateOne(ctx, chunk, target)
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", i+1, err)
		}
		translations = append(translations, translated)
	}
	return translations, nil
}

func (b *GoogleBackend) translateOne(ctx context.Context, text string, target Language) (string, error) {
	query := url.Values{}
	query.Set("client", "gtx")
	query.Set("sl", string(English))
	query.Set("tl", string(target))
	query.Set("dt", "t")
	query.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.url+"?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate request failed with status %d: %s", resp.StatusCode, string(body))
	}

	return parseGoogleResponse(body)
}

// parseGoogleResponse joins the translated segments of a response shaped like
// [[["translated","source",...],...],null,"en",...].
func parseGoogleResponse(body []byte) (string, error) {
	var payload []json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("error unmarshaling response: %w", err)
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("empty translate response")
	}

	var segments [][]any
	if err := json.Unmarshal(payload[0], &segments); err != nil {
		return "", fmt.Errorf("error unmarshaling segments: %w", err)
	}

	var b strings.Builder
	for _, segment := range segments {
		if len(segment) == 0 {
			continue
		}
		if text, ok := segment[0].(string); ok {
			b.WriteString(text)
		}
	}
	return b.String(), nil
}
