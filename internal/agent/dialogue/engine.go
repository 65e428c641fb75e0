// Package dialogue is the turn-level state machine of the support agent.
//
// Priority per turn, first applicable rule wins:
//  1. a pending order-id slot consumes the raw utterance as the id
//  2. a pending cancel-id slot consumes the raw utterance as the id
//  3. small talk (substring of the normalized utterance, table order)
//  4. intent classification and dispatch
//
// The engine holds only read-only collaborators; all conversational memory
// lives in the *model.DialogueState passed to Respond.
package dialogue

import (
	"math/rand"
	"strings"

	"github.com/Chative-support-poc/server/internal/agent/graph/parsers"
	"github.com/Chative-support-poc/server/internal/agent/graph/tools"
	"github.com/Chative-support-poc/server/internal/agent/model"
	"github.com/Chative-support-poc/server/internal/agent/nlu"
)

// Chooser picks an index in [0, n). n is always at least 1.
type Chooser func(n int) int

// RandomChooser selects uniformly at random.
func RandomChooser(n int) int {
	return rand.Intn(n)
}

// FirstChooser always selects the first candidate.
func FirstChooser(int) int {
	return 0
}

// Classifier maps raw text to an intent name or model.IntentUnknown.
type Classifier interface {
	Classify(raw string) string
}

// Engine produces replies for one turn at a time. It is safe for concurrent
// use as long as each goroutine passes its own state.
type Engine struct {
	catalog    *model.Catalog
	classifier Classifier
	orders     *tools.OrderRegistry
	choose     Chooser
}

// Option customises an Engine.
type Option func(*Engine)

// WithChooser replaces the random reply selection.
func WithChooser(c Chooser) Option {
	return func(e *Engine) {
		if c != nil {
			e.choose = c
		}
	}
}

// WithClassifier replaces the catalog-fitted classifier.
func WithClassifier(c Classifier) Option {
	return func(e *Engine) {
		if c != nil {
			e.classifier = c
		}
	}
}

// NewEngine wires an engine over a validated catalog and an order registry.
// Unless WithClassifier is given, an nlu.Model is fitted from the catalog.
func NewEngine(catalog *model.Catalog, orders *tools.OrderRegistry, opts ...Option) *Engine {
	e := &Engine{
		catalog: catalog,
		orders:  orders,
		choose:  RandomChooser,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.classifier == nil {
		e.classifier = nlu.NewModel(catalog)
	}
	return e
}

// Route names the rule that produced a reply.
type Route string

const (
	RouteOrderSlot  Route = "order_slot"
	RouteCancelSlot Route = "cancel_slot"
	RouteSmallTalk  Route = "small_talk"
	RouteIntent     Route = "intent"
)

// Turn is the outcome of one Respond call.
type Turn struct {
	Reply  string
	Route  Route
	Intent string // empty unless Route is RouteIntent
}

// Respond advances state by one turn and returns the reply. It never fails;
// a nil state is treated as a throwaway Idle conversation.
func (e *Engine) Respond(state *model.DialogueState, text string) string {
	return e.Step(state, text).Reply
}

// Step is Respond with the routing decision attached.
func (e *Engine) Step(state *model.DialogueState, text string) Turn {
	if state == nil {
		state = model.NewDialogueState()
	}

	if state.WaitingForOrderID {
		state.WaitingForOrderID = false
		return Turn{Reply: e.LookupStatus(state, text), Route: RouteOrderSlot}
	}
	if state.WaitingForCancelID {
		state.WaitingForCancelID = false
		return Turn{Reply: e.CancelOrder(text), Route: RouteCancelSlot}
	}

	normalized := parsers.Normalize(text)
	for _, st := range e.catalog.SmallTalk {
		if strings.Contains(normalized, st.Trigger) {
			return Turn{Reply: st.Reply, Route: RouteSmallTalk}
		}
	}

	intent := e.classifier.Classify(text)
	return Turn{Reply: e.dispatch(state, intent, text), Route: RouteIntent, Intent: intent}
}

func (e *Engine) dispatch(state *model.DialogueState, intent, text string) string {
	switch intent {
	case model.IntentOrderStatus:
		if id, ok := parsers.ExtractOrderID(text); ok {
			return e.LookupStatus(state, id)
		}
		state.WaitingForOrderID = true
		return e.catalog.Replies.OrderIDPrompt

	case model.IntentCancelOrder:
		if id, ok := parsers.ExtractOrderID(text); ok {
			return e.CancelOrder(id)
		}
		if state.HasLastOrder() {
			return e.CancelOrder(state.LastOrderID)
		}
		state.WaitingForCancelID = true
		return e.catalog.Replies.CancelIDPrompt

	case model.IntentUnknown:
		return e.catalog.Replies.Fallback

	default:
		return e.pick(intent)
	}
}

// Farewell is the line adapters print when a user leaves.
func (e *Engine) Farewell() string {
	return e.catalog.Replies.Farewell
}

func (e *Engine) pick(intent string) string {
	in, ok := e.catalog.Intent(intent)
	if !ok || len(in.Responses) == 0 {
		return e.catalog.Replies.Fallback
	}
	idx := e.choose(len(in.Responses))
	if idx < 0 || idx >= len(in.Responses) {
		idx = 0
	}
	return in.Responses[idx]
}
