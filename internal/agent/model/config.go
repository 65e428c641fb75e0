package model

// ================ Config ================
type ConversationConfig struct {
	TTL     string `envconfig:"CONVERSATION_TTL" default:"15m"`
	History struct {
		MaxMessages int `envconfig:"CONVERSATION_HISTORY_MAX" default:"50"`
	}
}

type ClassifierConfig struct {
	// Threshold is the cosine similarity a fallback match must exceed.
	Threshold float64 `envconfig:"CLASSIFIER_THRESHOLD" default:"0.3"`
}

type ServerConfig struct {
	Port      string  `envconfig:"SERVER_PORT" default:"8080"`
	RateLimit float64 `envconfig:"SERVER_RATE_LIMIT" default:"50"`
	RateBurst int     `envconfig:"SERVER_RATE_BURST" default:"100"`
	BodyLimit int     `envconfig:"SERVER_BODY_LIMIT" default:"65536"`
}

type ChatConfig struct {
	ExitKeyword string `envconfig:"CHAT_EXIT_KEYWORD" default:"quit"`
}
