package nlu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chative-support-poc/server/internal/agent/graph/prompts"
	"github.com/Chative-support-poc/server/internal/agent/model"
)

func newTestModel(t *testing.T, opts ...Option) *Model {
	t.Helper()
	c, err := prompts.DefaultCatalog()
	require.NoError(t, err)
	return NewModel(c, opts...)
}

func TestClassify_ExactMatch(t *testing.T) {
	m := newTestModel(t)

	tests := []struct {
		in   string
		want string
	}{
		{"Hello there", "greeting"},
		{"Can you TRACK ORDER for me?", "order_status"},
		{"where is my order ORD123", "order_status"},
		{"what's your return policy", "return_policy"},
		{"I want a refund", "return_policy"},
		{"what payment methods", "payment"},
		{"cancel order ORD789", "cancel_order"},
		{"please stop delivery", "cancel_order"},
		{"thank you!", "goodbye"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := m.Resolve(tt.in)
			assert.True(t, got.Exact)
			assert.Equal(t, tt.want, got.Intent)
		})
	}
}

func TestClassify_DeclarationOrderWins(t *testing.T) {
	m := newTestModel(t)

	// "shipping" contains "hi", and greeting is declared before every other intent.
	assert.Equal(t, "greeting", m.Classify("shipping cancel"))
	// order_status is declared before cancel_order.
	assert.Equal(t, "order_status", m.Classify("cancel order status"))
}

func TestClassify_SimilarityFallback(t *testing.T) {
	m := newTestModel(t)

	got := m.Resolve("delivery please")
	assert.False(t, got.Exact)
	assert.Equal(t, model.IntentCancelOrder, got.Intent)
	assert.Equal(t, "stop delivery", got.Pattern)
	assert.InDelta(t, 0.7071, got.Similarity, 0.001)
}

func TestClassify_BelowThresholdIsUnknown(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, model.IntentUnknown, m.Classify("xyz qwerty"))
	assert.Equal(t, model.IntentUnknown, m.Classify("ORD123"))

	strict := newTestModel(t, WithThreshold(0.8))
	assert.Equal(t, 0.8, strict.Threshold())
	assert.Equal(t, model.IntentUnknown, strict.Classify("delivery please"))
}

func TestClassify_EmptyInput(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, model.IntentUnknown, m.Classify(""))
	assert.Equal(t, model.IntentUnknown, m.Classify("   ?! "))
}

func TestClassify_TieKeepsFirstPattern(t *testing.T) {
	c := &model.Catalog{Intents: []model.Intent{
		{Name: "first", Patterns: []string{"alpha beta"}, Responses: []string{"1"}},
		{Name: "second", Patterns: []string{"alpha gamma"}, Responses: []string{"2"}},
	}}
	m := NewModel(c)

	// "alpha" alone is equally similar to both patterns.
	got := m.Resolve("alpha")
	assert.Equal(t, "first", got.Intent)
	assert.Equal(t, "alpha beta", got.Pattern)
}

func TestWithThreshold_IgnoresOutOfRange(t *testing.T) {
	assert.Equal(t, DefaultThreshold, newTestModel(t, WithThreshold(-1)).Threshold())
	assert.Equal(t, DefaultThreshold, newTestModel(t, WithThreshold(2)).Threshold())
}

func TestCosine(t *testing.T) {
	v := &vectorizer{vocabulary: map[string]int{"aa": 0, "bb": 1}, idf: []float64{1, 1}}
	a := v.transform("aa")
	b := v.transform("aa bb")
	assert.InDelta(t, 1.0, cosine(a, a), 1e-9)
	assert.InDelta(t, 0.7071, cosine(a, b), 1e-4)
	assert.Zero(t, cosine(a, v.transform("zz")))
}
