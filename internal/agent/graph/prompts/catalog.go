package prompts

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Chative-support-poc/server/internal/agent/model"
)

//go:embed template/catalog.yaml
var catalogDocument []byte

var (
	ErrEmptyCatalog     = errors.New("catalog has no intents")
	ErrDuplicateIntent  = errors.New("duplicate intent name")
	ErrIntentIncomplete = errors.New("intent needs at least one pattern and one response")
	ErrMissingReply     = errors.New("catalog reply is empty")
)

// DefaultCatalog parses the embedded support catalog.
func DefaultCatalog() (*model.Catalog, error) {
	return ParseCatalog(catalogDocument)
}

// ParseCatalog decodes and validates a YAML catalog document.
func ParseCatalog(doc []byte) (*model.Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(doc))
	dec.KnownFields(true)

	var c model.Catalog
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := Validate(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate enforces unique intent names and non-empty pattern and response sets.
// Patterns and small-talk triggers are lowercased so they compare against
// normalized input.
func Validate(c *model.Catalog) error {
	if c == nil || len(c.Intents) == 0 {
		return ErrEmptyCatalog
	}

	seen := make(map[string]struct{}, len(c.Intents))
	for i := range c.Intents {
		in := &c.Intents[i]
		in.Name = strings.TrimSpace(in.Name)
		if in.Name == "" || in.Name == model.IntentUnknown {
			return fmt.Errorf("intent %d: invalid name %q", i, in.Name)
		}
		if _, dup := seen[in.Name]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateIntent, in.Name)
		}
		seen[in.Name] = struct{}{}

		patterns := in.Patterns[:0]
		for _, p := range in.Patterns {
			if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
				patterns = append(patterns, p)
			}
		}
		in.Patterns = patterns
		if len(in.Patterns) == 0 || len(in.Responses) == 0 {
			return fmt.Errorf("%w: %s", ErrIntentIncomplete, in.Name)
		}
	}

	for i := range c.SmallTalk {
		c.SmallTalk[i].Trigger = strings.ToLower(strings.TrimSpace(c.SmallTalk[i].Trigger))
		if c.SmallTalk[i].Trigger == "" || c.SmallTalk[i].Reply == "" {
			return fmt.Errorf("small talk %d: trigger and reply are required", i)
		}
	}

	for name, v := range map[string]string{
		"order_id_prompt":  c.Replies.OrderIDPrompt,
		"cancel_id_prompt": c.Replies.CancelIDPrompt,
		"fallback":         c.Replies.Fallback,
		"farewell":         c.Replies.Farewell,
	} {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%w: %s", ErrMissingReply, name)
		}
	}
	return nil
}
