// Package translate turns English stories into Tamil or Hindi and degrades to English-only
// when the translation service misbehaves.
package translate

import (
	"errors"
	"fmt"
	"strings"
)

// Language is an ISO 639-1 code from a closed set.
type Language string

const (
	English Language = "en"
	Tamil   Language = "ta"
	Hindi   Language = "hi"
)

var ErrUnsupportedLanguage = errors.New("unsupported language")

// ParseLanguage accepts a code or an English language name in any case.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "en", "english":
		return English, nil
	case "ta", "tamil":
		return Tamil, nil
	case "hi", "hindi":
		return Hindi, nil
	default:
		return "", fmt.Errorf("%w: %q (supported: english, tamil, hindi)", ErrUnsupportedLanguage, s)
	}
}

// ParseTarget is ParseLanguage restricted to translation targets.
func ParseTarget(s string) (Language, error) {
	lang, err := ParseLanguage(s)
	if err != nil {
		return "", err
	}
	if !lang.IsTarget() {
		return "", fmt.Errorf("%w: %s is the source language, not a translation target", ErrUnsupportedLanguage, lang.Name())
	}
	return lang, nil
}

// Targets lists the languages a story can be translated into.
func Targets() []Language {
	return []Language{Tamil, Hindi}
}

func (l Language) IsTarget() bool {
	switch l {
	case Tamil, Hindi:
		return true
	default:
		return false
	}
}

func (l Language) Name() string {
	switch l {
	case English:
		return "English"
	case Tamil:
		return "Tamil"
	case Hindi:
		return "Hindi"
	default:
		return string(l)
	}
}

func (l Language) String() string {
	return string(l)
}
