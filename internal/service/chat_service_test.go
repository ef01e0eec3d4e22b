package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"drug-repurpose-go/internal/model"
	"drug-repurpose-go/internal/repository"
	"drug-repurpose-go/pkg/gemini"

	"github.com/gorilla/websocket"
)

// fakeGateway 是聊天网关的测试替身，记录调用次数。
type fakeGateway struct {
	answer string
	err    error
	calls  int
}

func (f *fakeGateway) GenerateContent(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeGateway) StreamGenerateContent(ctx context.Context, prompt string, writer gemini.MessageWriter) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	// 模拟两个分块
	for _, chunk := range []string{f.answer[:len(f.answer)/2], f.answer[len(f.answer)/2:]} {
		if err := writer.WriteMessage(websocket.TextMessage, []byte(chunk)); err != nil {
			return err
		}
	}
	return nil
}

func newChatFixture(gateway *fakeGateway) (ChatService, repository.SessionRepository) {
	repo := repository.NewMemorySessionRepository(40)
	return NewChatService(gateway, repo, time.Second), repo
}

func TestAskAppendsAlternatingTurns(t *testing.T) {
	gateway := &fakeGateway{answer: "an answer"}
	svc, _ := newChatFixture(gateway)
	ctx := context.Background()

	const n = 3
	for i := 0; i < n; i++ {
		answer, err := svc.Ask(ctx, "s1", fmt.Sprintf("question %d", i))
		if err != nil {
			t.Fatalf("Ask: %v", err)
		}
		if answer != "an answer" {
			t.Fatalf("unexpected answer: %q", answer)
		}
	}

	history, err := svc.History(ctx, "s1")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2*n {
		t.Fatalf("expected %d turns after %d interactions, got %d", 2*n, n, len(history))
	}
	for i, turn := range history {
		want := model.SpeakerUser
		if i%2 == 1 {
			want = model.SpeakerBot
		}
		if turn.Speaker != want {
			t.Fatalf("turn %d speaker = %q, want %q", i, turn.Speaker, want)
		}
	}
	if history[0].Message != "question 0" || history[5].Message != "an answer" {
		t.Fatalf("chronological order broken: %+v", history)
	}
}

func TestAskEmptyQuestionSkipsGateway(t *testing.T) {
	gateway := &fakeGateway{answer: "unused"}
	svc, _ := newChatFixture(gateway)

	for _, q := range []string{"", "   ", "\n\t"} {
		_, err := svc.Ask(context.Background(), "s1", q)
		if !errors.Is(err, ErrEmptyQuestion) {
			t.Fatalf("Ask(%q): expected ErrEmptyQuestion, got %v", q, err)
		}
	}
	if gateway.calls != 0 {
		t.Fatalf("gateway must not be called for empty input, got %d calls", gateway.calls)
	}

	history, _ := svc.History(context.Background(), "s1")
	if len(history) != 0 {
		t.Fatalf("no turns should be logged for empty input, got %d", len(history))
	}
}

func TestAskGatewayFailureCollapsesToError(t *testing.T) {
	gateway := &fakeGateway{err: errors.New("quota exceeded")}
	svc, _ := newChatFixture(gateway)

	_, err := svc.Ask(context.Background(), "s1", "anything")
	if err == nil {
		t.Fatal("expected error from failing gateway")
	}

	// 失败的交互不落任何记录
	history, _ := svc.History(context.Background(), "s1")
	if len(history) != 0 {
		t.Fatalf("failed interaction must not append turns, got %d", len(history))
	}
}

// builderWriter 收集流式分块。
type builderWriter struct{ sb strings.Builder }

func (w *builderWriter) WriteMessage(messageType int, data []byte) error {
	w.sb.Write(data)
	return nil
}

func TestStreamAskCapturesFullAnswer(t *testing.T) {
	gateway := &fakeGateway{answer: "streamed answer"}
	svc, _ := newChatFixture(gateway)
	writer := &builderWriter{}

	if err := svc.StreamAsk(context.Background(), "s1", "q", writer); err != nil {
		t.Fatalf("StreamAsk: %v", err)
	}
	if writer.sb.String() != "streamed answer" {
		t.Fatalf("writer received %q", writer.sb.String())
	}

	history, _ := svc.History(context.Background(), "s1")
	if len(history) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(history))
	}
	if history[1].Speaker != model.SpeakerBot || history[1].Message != "streamed answer" {
		t.Fatalf("bot turn not captured: %+v", history[1])
	}
}

func TestStreamAskEmptyQuestion(t *testing.T) {
	gateway := &fakeGateway{answer: "unused"}
	svc, _ := newChatFixture(gateway)

	err := svc.StreamAsk(context.Background(), "s1", "  ", &builderWriter{})
	if !errors.Is(err, ErrEmptyQuestion) {
		t.Fatalf("expected ErrEmptyQuestion, got %v", err)
	}
	if gateway.calls != 0 {
		t.Fatalf("gateway must not be called, got %d calls", gateway.calls)
	}
}
