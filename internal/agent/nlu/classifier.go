// Package nlu resolves free text to a catalog intent. Literal pattern
// matches are tried first; a TF-IDF cosine comparison against the catalog's
// own patterns is the fallback.
package nlu

import (
	"strings"

	"github.com/Chative-support-poc/server/internal/agent/graph/parsers"
	"github.com/Chative-support-poc/server/internal/agent/model"
)

// DefaultThreshold is the similarity a fallback match must exceed.
const DefaultThreshold = 0.3

// Option configures a Model at construction.
type Option func(*Model)

// WithThreshold overrides DefaultThreshold. Values outside [0, 1] are ignored.
func WithThreshold(t float64) Option {
	return func(m *Model) {
		if t >= 0 && t <= 1 {
			m.threshold = t
		}
	}
}

// Model is the classifier fitted from a catalog. It is immutable after
// NewModel returns and safe for concurrent use.
type Model struct {
	intents   []model.Intent
	space     *vectorizer
	vectors   []vector
	labels    []string
	threshold float64
}

// Match describes how a label was chosen.
type Match struct {
	Intent     string
	Pattern    string
	Similarity float64
	Exact      bool
}

// NewModel fits the vector space over every catalog pattern in declaration order.
func NewModel(catalog *model.Catalog, opts ...Option) *Model {
	m := &Model{threshold: DefaultThreshold}
	for _, opt := range opts {
		opt(m)
	}

	var docs []string
	for _, in := range catalog.Intents {
		patterns := make([]string, 0, len(in.Patterns))
		for _, p := range in.Patterns {
			p = strings.ToLower(p)
			patterns = append(patterns, p)
			docs = append(docs, p)
			m.labels = append(m.labels, in.Name)
		}
		m.intents = append(m.intents, model.Intent{Name: in.Name, Patterns: patterns})
	}

	m.space = fitVectorizer(docs)
	m.vectors = make([]vector, len(docs))
	for i, d := range docs {
		m.vectors[i] = m.space.transform(d)
	}
	return m
}

// Threshold returns the similarity cut-off in use.
func (m *Model) Threshold() float64 {
	return m.threshold
}

// Classify returns the intent name for raw text, or model.IntentUnknown.
func (m *Model) Classify(raw string) string {
	return m.Resolve(raw).Intent
}

// Resolve runs the exact stage and, when nothing matches, the similarity stage.
func (m *Model) Resolve(raw string) Match {
	text := parsers.Normalize(raw)

	for _, in := range m.intents {
		for _, p := range in.Patterns {
			if strings.Contains(text, p) {
				return Match{Intent: in.Name, Pattern: p, Similarity: 1, Exact: true}
			}
		}
	}

	if len(m.vectors) == 0 {
		return Match{Intent: model.IntentUnknown}
	}

	input := m.space.transform(text)
	best, bestIdx := -1.0, 0
	for i, v := range m.vectors {
		// strict comparison keeps the first pattern on ties
		if s := cosine(input, v); s > best {
			best, bestIdx = s, i
		}
	}

	if best <= m.threshold {
		return Match{Intent: model.IntentUnknown, Similarity: best}
	}
	return Match{Intent: m.labels[bestIdx], Pattern: m.patternAt(bestIdx), Similarity: best}
}

func (m *Model) patternAt(idx int) string {
	for _, in := range m.intents {
		if idx < len(in.Patterns) {
			return in.Patterns[idx]
		}
		idx -= len(in.Patterns)
	}
	return ""
}
