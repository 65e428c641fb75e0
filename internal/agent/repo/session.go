package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Chative-support-poc/server/internal/agent/model"
	errx "github.com/Chative-support-poc/server/internal/core/error"
	logx "github.com/Chative-support-poc/server/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// RedisSessionRepository keeps one JSON encoded DialogueState per conversation.
type RedisSessionRepository struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisSessionRepository(rdb redis.Cmdable, ttl time.Duration) *RedisSessionRepository {
	return &RedisSessionRepository{rdb: rdb, ttl: ttl}
}

func (r *RedisSessionRepository) sessionKey(conversationID string) string {
	return fmt.Sprintf("conversation:%s:state", conversationID)
}

func (r *RedisSessionRepository) LoadState(ctx context.Context, conversationID string) (*model.DialogueState, error) {
	key := r.sessionKey(conversationID)

	raw, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.NewDialogueState(), nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load dialogue state from redis")
		return nil, errx.WrapSession(errx.WrapRedis(err))
	}

	state := model.NewDialogueState()
	if err := json.Unmarshal(raw, state); err != nil {
		// a corrupt record must not wedge the conversation; start over
		logx.Warn().Err(err).Str("key", key).Msg("discarding undecodable dialogue state")
		return model.NewDialogueState(), nil
	}
	return state, nil
}

func (r *RedisSessionRepository) SaveState(ctx context.Context, conversationID string, state *model.DialogueState) error {
	key := r.sessionKey(conversationID)

	b, err := json.Marshal(state.Clone())
	if err != nil {
		return fmt.Errorf("marshal dialogue state: %w", err)
	}
	if err := r.rdb.Set(ctx, key, b, r.ttl).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to save dialogue state to redis")
		return errx.WrapSession(errx.WrapRedis(err))
	}
	return nil
}

func (r *RedisSessionRepository) ClearState(ctx context.Context, conversationID string) error {
	key := r.sessionKey(conversationID)
	if err := r.rdb.Del(ctx, key).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to delete dialogue state from redis")
		return errx.WrapSession(errx.WrapRedis(err))
	}
	return nil
}

var _ model.SessionRepository = (*RedisSessionRepository)(nil)
