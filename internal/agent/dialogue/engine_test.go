package dialogue

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chative-support-poc/server/internal/agent/graph/prompts"
	"github.com/Chative-support-poc/server/internal/agent/graph/tools"
	"github.com/Chative-support-poc/server/internal/agent/model"
)

const (
	orderPrompt  = "Please provide your order number:"
	cancelPrompt = "Please provide your order number to cancel:"
	fallback     = "I can help with order tracking, returns, payments, order cancellation, and general questions. What would you like to know?"
)

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	c, err := prompts.DefaultCatalog()
	require.NoError(t, err)
	return NewEngine(c, tools.DefaultOrderRegistry(), append([]Option{WithChooser(FirstChooser)}, opts...)...)
}

type turn struct {
	in    string
	want  string
	phase model.Phase
}

func runTurns(t *testing.T, e *Engine, state *model.DialogueState, turns []turn) {
	t.Helper()
	for i, tt := range turns {
		got := e.Respond(state, tt.in)
		assert.Equal(t, tt.want, got, "turn %d (%q)", i, tt.in)
		assert.Equal(t, tt.phase, state.Phase(), "turn %d (%q)", i, tt.in)
	}
}

func TestRespond_OrderStatusSlotFilling(t *testing.T) {
	e := newTestEngine(t)
	state := model.NewDialogueState()

	runTurns(t, e, state, []turn{
		{"track order", orderPrompt, model.PhaseAwaitingOrderID},
		{"ORD123", "Order ORD123: Shipped - Tracking: TRK789456 - Expected Dec 28, 2024", model.PhaseIdle},
	})
	assert.Equal(t, "ORD123", state.LastOrderID)
}

func TestRespond_OrderStatusInline(t *testing.T) {
	e := newTestEngine(t)
	state := model.NewDialogueState()

	runTurns(t, e, state, []turn{
		{"where is my order ord456?", "Order ORD456: Processing - Expected Dec 30, 2024", model.PhaseIdle},
		{"order status ORD789", "Order ORD789: Delivered - Delivered Dec 25, 2024", model.PhaseIdle},
	})
	assert.Equal(t, "ORD789", state.LastOrderID)
}

func TestRespond_UnknownOrderStillRemembered(t *testing.T) {
	e := newTestEngine(t)
	state := model.NewDialogueState()

	runTurns(t, e, state, []turn{
		{"track order", orderPrompt, model.PhaseAwaitingOrderID},
		{"ORD999", "Order ORD999 not found. Please check your order number or contact support.", model.PhaseIdle},
	})
	assert.Equal(t, "ORD999", state.LastOrderID)

	// bare cancel falls back to the remembered id
	runTurns(t, e, state, []turn{
		{"cancel", "Order ORD999 not found. Please check your order number or contact support.", model.PhaseIdle},
	})
}

func TestRespond_Cancellation(t *testing.T) {
	e := newTestEngine(t)

	t.Run("processing order via slot", func(t *testing.T) {
		state := model.NewDialogueState()
		runTurns(t, e, state, []turn{
			{"cancel", cancelPrompt, model.PhaseAwaitingCancelID},
			{"ORD456", "Order ORD456 has been successfully cancelled. You will receive a confirmation email shortly.", model.PhaseIdle},
		})
		assert.Empty(t, state.LastOrderID, "cancellation does not remember the id")
	})

	t.Run("shipped order inline", func(t *testing.T) {
		state := model.NewDialogueState()
		runTurns(t, e, state, []turn{
			{"cancel order ORD123", "Order ORD123 has already shipped and cannot be cancelled. Please contact support for return options.", model.PhaseIdle},
		})
	})

	t.Run("delivered order in one turn", func(t *testing.T) {
		state := model.NewDialogueState()
		runTurns(t, e, state, []turn{
			{"cancel order ORD789", "Order ORD789 has been delivered and cannot be cancelled. Please see our return policy for options.", model.PhaseIdle},
		})
	})

	t.Run("unknown order", func(t *testing.T) {
		state := model.NewDialogueState()
		runTurns(t, e, state, []turn{
			{"cancel my order ord000", "Order ORD000 not found. Please check your order number or contact support.", model.PhaseIdle},
		})
	})

	t.Run("uses last referenced order", func(t *testing.T) {
		state := model.NewDialogueState()
		runTurns(t, e, state, []turn{
			{"order status ORD456", "Order ORD456: Processing - Expected Dec 30, 2024", model.PhaseIdle},
			{"cancel it", "Order ORD456 has been successfully cancelled. You will receive a confirmation email shortly.", model.PhaseIdle},
			// the registry is unchanged by the advisory cancellation
			{"order status ORD456", "Order ORD456: Processing - Expected Dec 30, 2024", model.PhaseIdle},
		})
	})
}

func TestRespond_SlotConsumesRawTurn(t *testing.T) {
	e := newTestEngine(t)
	state := model.NewDialogueState()

	runTurns(t, e, state, []turn{
		{"track order", orderPrompt, model.PhaseAwaitingOrderID},
		{"help", "Order HELP not found. Please check your order number or contact support.", model.PhaseIdle},
		{"help", "I can assist with: order tracking, returns, payments, order cancellation, and more!", model.PhaseIdle},
	})

	runTurns(t, e, model.NewDialogueState(), []turn{
		{"cancel", cancelPrompt, model.PhaseAwaitingCancelID},
		{"  ord456  ", "Order ORD456 has been successfully cancelled. You will receive a confirmation email shortly.", model.PhaseIdle},
	})

	runTurns(t, e, model.NewDialogueState(), []turn{
		{"track order", orderPrompt, model.PhaseAwaitingOrderID},
		{"my order is ORD123", "Order MY ORDER IS ORD123 not found. Please check your order number or contact support.", model.PhaseIdle},
	})
}

func TestRespond_SmallTalkBeforeIntents(t *testing.T) {
	e := newTestEngine(t)
	state := model.NewDialogueState()

	runTurns(t, e, state, []turn{
		{"How are you?", "I'm doing great, thank you for asking! How can I help you?", model.PhaseIdle},
		{"What is your name", "I'm your customer support assistant. How may I help you today?", model.PhaseIdle},
		{"help me track order", "I can assist with: order tracking, returns, payments, order cancellation, and more!", model.PhaseIdle},
	})
}

func TestRespond_TemplateReplies(t *testing.T) {
	e := newTestEngine(t)
	state := model.NewDialogueState()

	runTurns(t, e, state, []turn{
		{"hello", "Hello! I can help with order tracking, returns, payments, order cancellation, and general questions. What would you like to know?", model.PhaseIdle},
		{"refund", "Our return policy allows returns within 30 days. Items must be unused and in original packaging.", model.PhaseIdle},
		{"billing", "We accept all major credit cards, PayPal, and Apple Pay.", model.PhaseIdle},
		{"bye", "Goodbye! Have a great day!", model.PhaseIdle},
	})
}

func TestRespond_ChooserSelectsResponse(t *testing.T) {
	e := newTestEngine(t, WithChooser(func(n int) int { return n - 1 }))
	got := e.Respond(model.NewDialogueState(), "hey")
	assert.Equal(t, "Hey! I can help with order tracking, returns, payments, order cancellation, and general questions. What would you like to know?", got)

	outOfRange := newTestEngine(t, WithChooser(func(n int) int { return n + 5 }))
	assert.Equal(t, "Goodbye! Have a great day!", outOfRange.Respond(model.NewDialogueState(), "goodbye"))
}

func TestRespond_RandomChooserStaysInResponseSet(t *testing.T) {
	e := newTestEngine(t, WithChooser(RandomChooser))
	in, ok := e.catalog.Intent("goodbye")
	require.True(t, ok)
	for i := 0; i < 50; i++ {
		assert.Contains(t, in.Responses, e.Respond(model.NewDialogueState(), "thanks"))
	}
}

func TestRespond_AlwaysAnswers(t *testing.T) {
	e := newTestEngine(t)
	for _, in := range []string{"", "   ", "!!!", "xyzzy", "\x00\x01", "ORD"} {
		assert.Equal(t, fallback, e.Respond(model.NewDialogueState(), in), "input %q", in)
	}
	assert.Equal(t, fallback, e.Respond(nil, "asdf"))
	assert.Equal(t, orderPrompt, e.Respond(nil, "track order"))
}

type stubClassifier string

func (s stubClassifier) Classify(string) string { return string(s) }

func TestRespond_UsesInjectedClassifier(t *testing.T) {
	e := newTestEngine(t, WithClassifier(stubClassifier(model.IntentCancelOrder)))
	state := model.NewDialogueState()
	assert.Equal(t, cancelPrompt, e.Respond(state, "anything at all"))
	assert.Equal(t, model.PhaseAwaitingCancelID, state.Phase())

	missing := newTestEngine(t, WithClassifier(stubClassifier("not_in_catalog")))
	assert.Equal(t, fallback, missing.Respond(model.NewDialogueState(), "x"))
}

func TestRespond_ConcurrentStatesAreIndependent(t *testing.T) {
	e := newTestEngine(t, WithChooser(RandomChooser))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			state := model.NewDialogueState()
			id := fmt.Sprintf("ORD%d", 1000+i)
			assert.Equal(t, orderPrompt, e.Respond(state, "track order"))
			assert.Equal(t, fmt.Sprintf("Order %s not found. Please check your order number or contact support.", id), e.Respond(state, id))
			assert.Equal(t, id, state.LastOrderID)
		}(i)
	}
	wg.Wait()
}

func TestStep_ReportsRoute(t *testing.T) {
	e := newTestEngine(t)
	state := model.NewDialogueState()

	tests := []struct {
		in     string
		route  Route
		intent string
	}{
		{"what can you do", RouteSmallTalk, ""},
		{"track order", RouteIntent, model.IntentOrderStatus},
		{"ORD456", RouteOrderSlot, ""},
		{"cancel", RouteIntent, model.IntentCancelOrder},
		{"zzz", RouteIntent, model.IntentUnknown},
	}
	for _, tt := range tests {
		got := e.Step(state, tt.in)
		assert.Equal(t, tt.route, got.Route, tt.in)
		assert.Equal(t, tt.intent, got.Intent, tt.in)
	}

	// "cancel" above used the remembered ORD456, so force the cancel slot explicitly
	state = model.NewDialogueState()
	e.Step(state, "cancel")
	assert.Equal(t, RouteCancelSlot, e.Step(state, "ORD123").Route)
}
