package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Hello, World!  ", "hello world"},
		{"Where is my ORDER?!", "where is my order"},
		{"ORD-123", "ord123"},
		{"hi !", "hi"},
		{"", ""},
		{"   \t ", ""},
		{"?!.,", ""},
		{"Café déjà-vu", "café déjàvu"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"hi !", " Track ORDER ord123. ", "a  b\tc", "!!!", "Thank you :)", "ünïcode Ünïcode"}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"where", "is", "my", "order"}, Tokenize("where is my order"))
	assert.Equal(t, []string{"ok"}, Tokenize("a ok b"))
	assert.Empty(t, Tokenize(""))
}

func TestExtractOrderID(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"cancel order ORD789", "ORD789", true},
		{"status of ord456 please", "ORD456", true},
		{"Ord1 and ORD2", "ORD1", true},
		{"order number 123", "", false},
		{"ORD", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ExtractOrderID(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
