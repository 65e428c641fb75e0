package model

const (
	IntentUnknown     = "unknown"
	IntentOrderStatus = "order_status"
	IntentCancelOrder = "cancel_order"
)

// Intent is a user goal with its trigger substrings and candidate replies.
type Intent struct {
	Name      string   `yaml:"name"`
	Patterns  []string `yaml:"patterns"`
	Responses []string `yaml:"responses"`
}

// SmallTalk is a fixed reply triggered before intent classification.
type SmallTalk struct {
	Trigger string `yaml:"trigger"`
	Reply   string `yaml:"reply"`
}

// Replies holds the fixed lines the dialogue engine emits outside intent templates.
type Replies struct {
	OrderIDPrompt  string `yaml:"order_id_prompt"`
	CancelIDPrompt string `yaml:"cancel_id_prompt"`
	Fallback       string `yaml:"fallback"`
	Farewell       string `yaml:"farewell"`
}

// Catalog is the ordered intent table. Declaration order of intents and of
// their patterns decides which intent wins an ambiguous match.
type Catalog struct {
	Intents   []Intent    `yaml:"intents"`
	SmallTalk []SmallTalk `yaml:"small_talk"`
	Replies   Replies     `yaml:"replies"`
}

// Intent returns the intent with the given name.
func (c *Catalog) Intent(name string) (*Intent, bool) {
	for i := range c.Intents {
		if c.Intents[i].Name == name {
			return &c.Intents[i], true
		}
	}
	return nil, false
}
