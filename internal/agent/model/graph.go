package model

// AppState stores per-invocation state for the Eino Graph.
// Concurrency model:
//   - This struct is registered as Graph Local State via compose.WithGenLocalState.
//   - All reads/writes happen only inside Eino state handlers:
//     WithStatePreHandler, WithStatePostHandler, or compose.ProcessState.
//   - Turns of the same conversation are serialised by the runner, so the
//     DialogueState loaded here is never shared with a concurrent turn.
type AppState struct {
	ConversationID string
	Dialogue       *DialogueState // loaded by the input pre-handler, saved by the dialogue post-handler
	PhaseBefore    Phase          // phase the turn started in, for logging
}

// QueryInput represents the input for processing user queries.
type QueryInput struct {
	ConversationID string `json:"conversation_id"`
	Query          string `json:"query"`
}
