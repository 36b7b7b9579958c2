package translate

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxChunkChars keeps each request below the web endpoint's URL length limit.
const DefaultMaxChunkChars = 4000

// ChunkBySentences splits text into chunks of at most maxChars runes.
// Sentences are never split; a sentence longer than maxChars becomes its own chunk.
func ChunkBySentences(text string, maxChars int) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	if maxChars <= 0 {
		maxChars = DefaultMaxChunkChars
	}

	var chunks []string
	var current strings.Builder
	currentChars := 0

	flush := func() {
		if chunk := strings.TrimSpace(current.String()); chunk != "" {
			chunks = append(chunks, chunk)
		}
		current.Reset()
		currentChars = 0
	}

	for _, sentence := range splitSentences(text) {
		sentenceChars := utf8.RuneCountInString(sentence)

		if sentenceChars > maxChars {
			flush()
			chunks = append(chunks, strings.TrimSpace(sentence))
			continue
		}

		if currentChars+sentenceChars > maxChars && currentChars > 0 {
			flush()
		}

		current.WriteString(sentence)
		currentChars += sentenceChars
	}

	flush()
	return chunks
}

// splitSentences cuts after '.', '!', '?' or a newline, keeping the delimiter and the
// whitespace that follows it, so concatenating the parts yields the input.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	runes := []rune(text)

	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '.', '!', '?', '\n', '।':
		default:
			continue
		}

		end := i + 1
		for end < len(runes) && unicode.IsSpace(runes[end]) {
			end++
		}
		// Punctuation only ends a sentence when whitespace or the end of the text follows,
		// so "3.5" and "e.g." stay intact.
		if end == i+1 && end < len(runes) && runes[i] != '\n' {
			continue
		}

		sentences = append(sentences, string(runes[start:end]))
		start = end
		i = end - 1
	}

	if start < len(runes) {
		sentences = append(sentences, string(runes[start:]))
	}
	return sentences
}
