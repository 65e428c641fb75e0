package conversations

import (
	"context"
	"fmt"

	"github.com/Chative-support-poc/server/internal/agent/model"
	logx "github.com/Chative-support-poc/server/pkg/logger"

	"github.com/cloudwego/eino/schema"
)

// MessagesManager owns everything that outlives a single turn: the message
// history, the dialogue state, and the per-conversation turn lock.
type MessagesManager struct {
	conversationRepo model.ConversationRepository
	sessionRepo      model.SessionRepository
	locks            *turnLocks
}

func NewMessagesManager(conversationRepo model.ConversationRepository, sessionRepo model.SessionRepository) *MessagesManager {
	return &MessagesManager{
		conversationRepo: conversationRepo,
		sessionRepo:      sessionRepo,
		locks:            newTurnLocks(),
	}
}

// Lock serialises turns for conversationID. It gives up with ctx.Err() when
// ctx ends first. The returned func releases the lock and is safe to call
// more than once.
func (cm *MessagesManager) Lock(ctx context.Context, conversationID string) (func(), error) {
	return cm.locks.acquire(ctx, conversationID)
}

// =========== Dialogue state ===========
func (cm *MessagesManager) LoadState(ctx context.Context, conversationID string) (*model.DialogueState, error) {
	state, err := cm.sessionRepo.LoadState(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("load dialogue state: %w", err)
	}
	if state == nil {
		state = model.NewDialogueState()
	}
	return state, nil
}

func (cm *MessagesManager) SaveState(ctx context.Context, conversationID string, state *model.DialogueState) error {
	if err := cm.sessionRepo.SaveState(ctx, conversationID, state); err != nil {
		return fmt.Errorf("save dialogue state: %w", err)
	}
	return nil
}

// =========== Message history ===========
func (cm *MessagesManager) SaveQuery(ctx context.Context, conversationID string, query string) error {
	return cm.conversationRepo.AddMessage(ctx, conversationID, schema.UserMessage(query))
}

func (cm *MessagesManager) SaveResponse(ctx context.Context, conversationID string, content string) error {
	assistantMsg := schema.AssistantMessage(content, nil)
	return cm.conversationRepo.AddMessage(ctx, conversationID, assistantMsg)
}

// History returns the stored user and assistant messages, oldest first.
func (cm *MessagesManager) History(ctx context.Context, conversationID string) ([]*schema.Message, error) {
	history, err := cm.conversationRepo.LoadHistory(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	msgs := make([]*schema.Message, 0, len(history.Messages))
	for _, msg := range history.Messages {
		if msg == nil {
			continue
		}
		switch msg.Role {
		case schema.User, schema.Assistant:
			msgs = append(msgs, msg)
		}
	}
	return msgs, nil
}

// Reset forgets the conversation's state and history. It waits for any
// in-flight turn of the same conversation.
func (cm *MessagesManager) Reset(ctx context.Context, conversationID string) error {
	unlock, err := cm.Lock(ctx, conversationID)
	if err != nil {
		return fmt.Errorf("wait for conversation: %w", err)
	}
	defer unlock()

	if err := cm.sessionRepo.ClearState(ctx, conversationID); err != nil {
		return fmt.Errorf("clear dialogue state: %w", err)
	}
	if err := cm.conversationRepo.ClearHistory(ctx, conversationID); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	logx.Debug().Str("conversation_id", conversationID).Msg("Conversation reset")
	return nil
}
