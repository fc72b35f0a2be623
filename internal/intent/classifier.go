// Package intent implements the layered intent classification engine for the
// spa assistant chatbot.
//
// Classification runs deterministic tiers first and fuzzy tiers only when the
// deterministic layer is silent: pattern bank, then example similarity, then
// the keyword heuristic, then (when configured) a GenAI fallback. The first
// tier to produce a result wins. This is a precision-over-recall policy: a
// regex match is always trusted over a fuzzy score.
package intent

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/somOone/spa-assistant/internal/models"
)

// Classifier is a single classification tier. Classify returns nil when the
// tier has no opinion about the text, letting the engine fall through to the
// next tier.
type Classifier interface {
	// Source identifies the tier in results and audit records.
	Source() models.IntentSource
	// Classify attempts to classify the normalized text. A nil result means
	// "no match"; tiers never return errors, they simply stay silent.
	Classify(text string) *models.IntentResult
}

// Engine folds an ordered list of classifiers over the input, stopping at the
// first non-nil result.
type Engine struct {
	tiers []Classifier
}

// Option configures an Engine.
type Option func(*Engine)

// WithTier appends an extra classification tier after the default ones.
func WithTier(c Classifier) Option {
	return func(e *Engine) {
		e.tiers = append(e.tiers, c)
	}
}

// NewEngine creates the classification engine with the default tier order:
// pattern bank, example similarity, keyword heuristic. Options may append
// further tiers (e.g. the GenAI fallback).
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		tiers: []Classifier{
			NewPatternBank(),
			NewSimilarityClassifier(),
			NewHeuristicClassifier(),
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	slog.Debug("Engine.NewEngine: classification engine created", "tiers", len(e.tiers))
	return e
}

// Classify runs the tiers in order and returns the first result, or the
// explicit unknown sentinel when every tier is silent.
func (e *Engine) Classify(text string) models.IntentResult {
	normalized := normalizeText(text)
	if normalized == "" {
		slog.Debug("Engine.Classify: empty input, returning unknown")
		return models.UnknownIntent()
	}

	for _, tier := range e.tiers {
		if result := tier.Classify(normalized); result != nil {
			slog.Debug("Engine.Classify: tier matched",
				"source", result.Source, "intent", result.Intent, "confidence", result.Confidence)
			return *result
		}
	}

	slog.Debug("Engine.Classify: no tier matched, returning unknown", "text_length", len(text))
	return models.UnknownIntent()
}

var spaceNormalizer = regexp.MustCompile(`\s+`)

// normalizeText lowercases, trims, collapses runs of whitespace and strips
// trailing punctuation so every tier sees the same canonical form.
func normalizeText(input string) string {
	text := strings.ToLower(strings.TrimSpace(input))
	text = spaceNormalizer.ReplaceAllString(text, " ")
	text = strings.TrimRight(text, "!?.,;:")
	return text
}

// words splits normalized text into its word list, dropping punctuation-only
// tokens.
func words(text string) []string {
	fields := strings.Fields(text)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,!?;:\"()")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
