package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"drug-repurpose-go/internal/model"

	"github.com/go-redis/redis/v8"
)

// redisSessionRepository 将聊天记录以 JSON 形式保存在 Redis 中，
// 适用于多副本部署：任意副本都能读到同一会话的记录。
type redisSessionRepository struct {
	redisClient *redis.Client
	ttl         time.Duration
	maxTurns    int
}

// NewRedisSessionRepository 创建一个基于 Redis 的 SessionRepository。
func NewRedisSessionRepository(redisClient *redis.Client, ttl time.Duration, maxTurns int) SessionRepository {
	return &redisSessionRepository{redisClient: redisClient, ttl: ttl, maxTurns: maxTurns}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("chat_session:%s", sessionID)
}

func (r *redisSessionRepository) AppendTurns(ctx context.Context, sessionID string, turns ...model.ChatTurn) error {
	history, err := r.History(ctx, sessionID)
	if err != nil {
		return err
	}
	history = append(history, turns...)
	// 只保留最近 maxTurns 条
	if r.maxTurns > 0 && len(history) > r.maxTurns {
		history = history[len(history)-r.maxTurns:]
	}
	jsonData, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to marshal chat history: %w", err)
	}
	if err := r.redisClient.Set(ctx, sessionKey(sessionID), jsonData, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set chat history: %w", err)
	}
	return nil
}

func (r *redisSessionRepository) History(ctx context.Context, sessionID string) ([]model.ChatTurn, error) {
	jsonData, err := r.redisClient.Get(ctx, sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return []model.ChatTurn{}, nil // 尚无记录
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chat history: %w", err)
	}
	var history []model.ChatTurn
	if err := json.Unmarshal([]byte(jsonData), &history); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chat history: %w", err)
	}
	return history, nil
}
