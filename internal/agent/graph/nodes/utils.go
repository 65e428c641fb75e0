package nodes

// Graph node keys.
const (
	NodeInputConverter = "InputConverter"
	NodeDialogue       = "Dialogue"
)

// DefaultMaxRunSteps bounds a single turn; the turn graph is acyclic, so
// this only guards against a mis-wired edge.
const DefaultMaxRunSteps = 10
