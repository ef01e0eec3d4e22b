package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"drug-repurpose-go/internal/model"
	"drug-repurpose-go/internal/repository"
	"drug-repurpose-go/pkg/gemini"
	"drug-repurpose-go/pkg/log"
)

// ErrEmptyQuestion 表示用户提交了空问题。此时不会发起任何网关调用。
var ErrEmptyQuestion = errors.New("empty question")

// ChatService 定义了聊天操作的接口。
// 每轮对话相互独立：不向网关发送历史上下文，历史记录只用于页面展示。
type ChatService interface {
	// Ask 发送单轮问题并返回完整回答，成功后向会话记录追加 (user, bot) 两条。
	Ask(ctx context.Context, sessionID, question string) (string, error)
	// StreamAsk 以流式方式回答，分块写入 writer，完成后同样落一对记录。
	StreamAsk(ctx context.Context, sessionID, question string, writer gemini.MessageWriter) error
	// History 返回会话的聊天记录，按时间顺序。
	History(ctx context.Context, sessionID string) ([]model.ChatTurn, error)
}

type chatService struct {
	gateway     gemini.Client
	sessionRepo repository.SessionRepository
	timeout     time.Duration
}

// NewChatService 创建一个新的 ChatService 实例。
func NewChatService(gateway gemini.Client, sessionRepo repository.SessionRepository, timeout time.Duration) ChatService {
	return &chatService{
		gateway:     gateway,
		sessionRepo: sessionRepo,
		timeout:     timeout,
	}
}

func (s *chatService) Ask(ctx context.Context, sessionID, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrEmptyQuestion
	}

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	answer, err := s.gateway.GenerateContent(callCtx, question)
	if err != nil {
		// 所有失败模式（网络、配额、响应异常）统一折叠为一个错误，
		// 由上层渲染成通用提示
		return "", err
	}

	s.appendExchange(sessionID, question, answer)
	return answer, nil
}

func (s *chatService) StreamAsk(ctx context.Context, sessionID, question string, writer gemini.MessageWriter) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return ErrEmptyQuestion
	}

	// 拦截 writer 以捕获完整回答
	answerBuilder := &strings.Builder{}
	interceptor := &writerInterceptor{next: writer, captured: answerBuilder}

	if err := s.gateway.StreamGenerateContent(ctx, question, interceptor); err != nil {
		return err
	}

	if answerBuilder.Len() > 0 {
		s.appendExchange(sessionID, question, answerBuilder.String())
	}
	return nil
}

func (s *chatService) History(ctx context.Context, sessionID string) ([]model.ChatTurn, error) {
	return s.sessionRepo.History(ctx, sessionID)
}

// appendExchange 把一轮成功的问答写入会话记录。
// 使用后台上下文：即使原始请求被取消，也希望保存已经生成的回答。
// 保存失败只记日志，不影响已经成功的交互。
func (s *chatService) appendExchange(sessionID, question, answer string) {
	now := time.Now()
	err := s.sessionRepo.AppendTurns(context.Background(), sessionID,
		model.ChatTurn{Speaker: model.SpeakerUser, Message: question, Timestamp: now},
		model.ChatTurn{Speaker: model.SpeakerBot, Message: answer, Timestamp: now},
	)
	if err != nil {
		log.Errorf("保存会话聊天记录失败: %v", err)
	}
}

// writerInterceptor 是对 MessageWriter 的封装，用于捕获写出的分块。
type writerInterceptor struct {
	next     gemini.MessageWriter
	captured *strings.Builder
}

// WriteMessage 满足 gemini.MessageWriter 接口。
func (w *writerInterceptor) WriteMessage(messageType int, data []byte) error {
	w.captured.Write(data)
	return w.next.WriteMessage(messageType, data)
}
