package model

// Phase is the slot-filling position of a conversation.
type Phase string

const (
	PhaseIdle             Phase = "idle"
	PhaseAwaitingOrderID  Phase = "awaiting_order_id"
	PhaseAwaitingCancelID Phase = "awaiting_cancel_id"
)

// DialogueState is the per-conversation memory mutated by the dialogue engine.
// The zero value is an Idle conversation with no remembered order.
type DialogueState struct {
	WaitingForOrderID  bool   `json:"waiting_for_order_id"`
	WaitingForCancelID bool   `json:"waiting_for_cancel_id"`
	LastOrderID        string `json:"last_order_id,omitempty"`
}

// NewDialogueState returns an Idle state.
func NewDialogueState() *DialogueState {
	return &DialogueState{}
}

// Phase derives the slot-filling phase from the pending flags.
func (s *DialogueState) Phase() Phase {
	switch {
	case s == nil:
		return PhaseIdle
	case s.WaitingForOrderID:
		return PhaseAwaitingOrderID
	case s.WaitingForCancelID:
		return PhaseAwaitingCancelID
	default:
		return PhaseIdle
	}
}

// HasLastOrder reports whether an order id was referenced in an earlier turn.
func (s *DialogueState) HasLastOrder() bool {
	return s != nil && s.LastOrderID != ""
}

// Clone returns an independent copy.
func (s *DialogueState) Clone() *DialogueState {
	if s == nil {
		return NewDialogueState()
	}
	c := *s
	return &c
}
