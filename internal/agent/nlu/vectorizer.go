package nlu

import (
	"math"
	"sort"

	"github.com/Chative-support-poc/server/internal/agent/graph/parsers"
)

// vector is a sparse, l2-normalised TF-IDF vector keyed by vocabulary index.
type vector map[int]float64

// vectorizer is a TF-IDF space fitted once over a fixed document set.
// Weights follow the smoothed form idf = ln((1+n)/(1+df)) + 1 with raw term
// counts, so every fitted term has a strictly positive weight.
type vectorizer struct {
	vocabulary map[string]int
	idf        []float64
}

func fitVectorizer(docs []string) *vectorizer {
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, tok := range parsers.Tokenize(doc) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	terms := make([]string, 0, len(df))
	for t := range df {
		terms = append(terms, t)
	}
	sort.Strings(terms)

	v := &vectorizer{
		vocabulary: make(map[string]int, len(terms)),
		idf:        make([]float64, len(terms)),
	}
	n := float64(len(docs))
	for i, t := range terms {
		v.vocabulary[t] = i
		v.idf[i] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}
	return v
}

// transform embeds normalized text. Tokens outside the vocabulary are ignored;
// text without known tokens yields the zero vector.
func (v *vectorizer) transform(normalized string) vector {
	out := vector{}
	for _, tok := range parsers.Tokenize(normalized) {
		if idx, ok := v.vocabulary[tok]; ok {
			out[idx]++
		}
	}

	var norm float64
	for idx, tf := range out {
		w := tf * v.idf[idx]
		out[idx] = w
		norm += w * w
	}
	if norm == 0 {
		return out
	}
	norm = math.Sqrt(norm)
	for idx := range out {
		out[idx] /= norm
	}
	return out
}

// cosine of two l2-normalised vectors; zero when either is empty.
func cosine(a, b vector) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for idx, w := range a {
		dot += w * b[idx]
	}
	return dot
}
