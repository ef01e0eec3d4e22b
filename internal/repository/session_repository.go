package repository

import (
	"context"
	"sync"

	"drug-repurpose-go/internal/model"
)

// SessionRepository 定义了会话聊天记录的操作接口。
// 每次成功的聊天交互追加一对 (user, bot) 记录，History 按时间顺序返回。
type SessionRepository interface {
	AppendTurns(ctx context.Context, sessionID string, turns ...model.ChatTurn) error
	History(ctx context.Context, sessionID string) ([]model.ChatTurn, error)
}

// memorySessionRepository 将聊天记录保存在进程内。
// 这是默认实现：记录随进程结束而消失，符合会话级生命周期的约定。
// HTTP 请求是并发处理的，因此需要互斥锁保护。
type memorySessionRepository struct {
	mu       sync.Mutex
	sessions map[string][]model.ChatTurn
	maxTurns int
}

// NewMemorySessionRepository 创建一个进程内的 SessionRepository。
// maxTurns 限制单个会话保留的记录条数，超出后丢弃最早的记录。
func NewMemorySessionRepository(maxTurns int) SessionRepository {
	return &memorySessionRepository{
		sessions: make(map[string][]model.ChatTurn),
		maxTurns: maxTurns,
	}
}

func (r *memorySessionRepository) AppendTurns(ctx context.Context, sessionID string, turns ...model.ChatTurn) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	history := append(r.sessions[sessionID], turns...)
	if r.maxTurns > 0 && len(history) > r.maxTurns {
		history = history[len(history)-r.maxTurns:]
	}
	r.sessions[sessionID] = history
	return nil
}

func (r *memorySessionRepository) History(ctx context.Context, sessionID string) ([]model.ChatTurn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	history := r.sessions[sessionID]
	out := make([]model.ChatTurn, len(history))
	copy(out, history)
	return out, nil
}
