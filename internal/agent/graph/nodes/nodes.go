package nodes

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/Chative-support-poc/server/internal/agent/dialogue"
	"github.com/Chative-support-poc/server/internal/agent/graph/conversations"
	"github.com/Chative-support-poc/server/internal/agent/model"
	logx "github.com/Chative-support-poc/server/pkg/logger"
)

// NewInputConverterPreHandler loads the conversation's dialogue state into the graph state.
func NewInputConverterPreHandler(mm *conversations.MessagesManager) func(context.Context, model.QueryInput, *model.AppState) (model.QueryInput, error) {
	return func(ctx context.Context, in model.QueryInput, s *model.AppState) (model.QueryInput, error) {
		s.ConversationID = in.ConversationID

		state, err := mm.LoadState(ctx, in.ConversationID)
		if err != nil {
			logx.Error().Err(err).Str("conversation_id", in.ConversationID).Msg("Error loading dialogue state")
			return in, err
		}
		s.Dialogue = state
		s.PhaseBefore = state.Phase()
		return in, nil
	}
}

// NewInputConverterNode records the user message and hands the raw text to the dialogue node.
func NewInputConverterNode(mm *conversations.MessagesManager) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, input model.QueryInput) (string, error) {
		// history is informational; a failed write must not cost the user a reply
		if err := mm.SaveQuery(ctx, input.ConversationID, input.Query); err != nil {
			logx.Warn().
				Err(err).
				Str("conversation_id", input.ConversationID).
				Msg("Error saving user message")
		}
		return input.Query, nil
	})
}

// NewDialogueNode runs one dialogue turn against the state loaded by the pre-handler.
func NewDialogueNode(engine *dialogue.Engine) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, query string) (*schema.Message, error) {
		var turn dialogue.Turn
		var conversationID string
		err := compose.ProcessState(ctx, func(_ context.Context, state *model.AppState) error {
			if state.Dialogue == nil {
				state.Dialogue = model.NewDialogueState()
			}
			turn = engine.Step(state.Dialogue, query)
			conversationID = state.ConversationID
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}

		logx.Debug().
			Str("conversation_id", conversationID).
			Str("route", string(turn.Route)).
			Str("intent", turn.Intent).
			Msg("Dialogue turn resolved")

		return schema.AssistantMessage(turn.Reply, nil), nil
	})
}

// NewDialoguePostHandler persists the mutated dialogue state and the reply.
func NewDialoguePostHandler(mm *conversations.MessagesManager) func(context.Context, *schema.Message, *model.AppState) (*schema.Message, error) {
	return func(ctx context.Context, out *schema.Message, state *model.AppState) (*schema.Message, error) {
		if err := mm.SaveState(ctx, state.ConversationID, state.Dialogue); err != nil {
			logx.Error().
				Str("conversation_id", state.ConversationID).
				Err(err).
				Msg("Error saving dialogue state")
			return nil, err
		}

		if phase := state.Dialogue.Phase(); phase != state.PhaseBefore {
			logx.Debug().
				Str("conversation_id", state.ConversationID).
				Str("from", string(state.PhaseBefore)).
				Str("to", string(phase)).
				Msg("Dialogue phase changed")
		}

		if out != nil && strings.TrimSpace(out.Content) != "" {
			if err := mm.SaveResponse(ctx, state.ConversationID, out.Content); err != nil {
				logx.Warn().
					Str("conversation_id", state.ConversationID).
					Err(err).
					Msg("Error saving assistant response")
			}
		}
		return out, nil
	}
}
