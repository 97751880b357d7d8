//go:build !integration

package telegram

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"quantum-oracle-bot/internal/domain/model"
	"quantum-oracle-bot/internal/domain/ports/adapter"
	red "quantum-oracle-bot/internal/infra/redis"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(nil)
	return &logger
}

type mockSender struct {
	mu   sync.Mutex
	sent []tgbotapi.MessageConfig
	err  error
}

func (m *mockSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return tgbotapi.Message{}, m.err
	}
	m.sent = append(m.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

type mockHandler struct {
	got []adapter.InboundMessage
}

func (h *mockHandler) HandleMessage(ctx context.Context, msg adapter.InboundMessage) model.CycleOutcome {
	h.got = append(h.got, msg)
	return model.CycleOutcomeSent
}

// countingClient is an in-memory redis stand-in for the limiter.
type countingClient struct{ counts map[string]int64 }

func (c *countingClient) Ping(ctx context.Context) error { return nil }
func (c *countingClient) Incr(ctx context.Context, key string) (int64, error) {
	c.counts[key]++
	return c.counts[key], nil
}
func (c *countingClient) Expire(ctx context.Context, key string, d time.Duration) error { return nil }
func (c *countingClient) Close() error                                                  { return nil }

func textUpdate(chatID int64, text string, fromBot bool) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 5,
		Chat:      &tgbotapi.Chat{ID: chatID},
		From:      &tgbotapi.User{ID: 77, UserName: "seeker", IsBot: fromBot},
		Text:      text,
	}}
}

func TestSendMessage(t *testing.T) {
	s := &mockSender{}
	a := newAdapter(s, nil, 1, newTestLogger())

	if err := a.SendMessage(context.Background(), 12, "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	long := strings.Repeat("א", MaxMessageRunes+10)
	if err := a.SendMessage(context.Background(), 12, long); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.sent) != 3 {
		t.Fatalf("expected 3 sends, got %d", len(s.sent))
	}
	if s.sent[0].ChatID != 12 || s.sent[0].Text != "hello" {
		t.Errorf("unexpected first message %+v", s.sent[0])
	}
	if n := len([]rune(s.sent[2].Text)); n != 10 {
		t.Errorf("expected a 10 rune tail, got %d", n)
	}

	s.err = errors.New("Forbidden: bot was blocked by the user")
	if err := a.SendMessage(context.Background(), 12, "x"); err == nil {
		t.Error("expected the send error to surface")
	}
}

func TestHandleUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("text messages reach the handler", func(t *testing.T) {
		h := &mockHandler{}
		a := newAdapter(&mockSender{}, nil, 1, newTestLogger())
		a.handleUpdate(ctx, h, textUpdate(9, "hi", false))

		if len(h.got) != 1 {
			t.Fatalf("expected one message, got %d", len(h.got))
		}
		want := adapter.InboundMessage{ChatID: 9, MessageID: 5, FromID: 77, Username: "seeker", Text: "hi"}
		if h.got[0] != want {
			t.Errorf("unexpected message %+v", h.got[0])
		}
	})

	t.Run("non text and bot messages are ignored", func(t *testing.T) {
		h := &mockHandler{}
		a := newAdapter(&mockSender{}, nil, 1, newTestLogger())
		a.handleUpdate(ctx, h, tgbotapi.Update{})
		a.handleUpdate(ctx, h, textUpdate(9, "", false))
		a.handleUpdate(ctx, h, textUpdate(9, "beep", true))
		if len(h.got) != 0 {
			t.Fatalf("expected nothing handled, got %+v", h.got)
		}
	})

	t.Run("per chat rate limit", func(t *testing.T) {
		h := &mockHandler{}
		rl := red.NewRateLimiter(&countingClient{counts: map[string]int64{}}, 2, time.Minute)
		a := newAdapter(&mockSender{}, rl, 1, newTestLogger())
		for i := 0; i < 3; i++ {
			a.handleUpdate(ctx, h, textUpdate(9, "hi", false))
		}
		a.handleUpdate(ctx, h, textUpdate(10, "hi", false))
		if len(h.got) != 3 {
			t.Fatalf("expected 2 messages from chat 9 and 1 from chat 10, got %d", len(h.got))
		}
	})
}

func TestNoopBotAdapter(t *testing.T) {
	b := NewNoopBotAdapter(newTestLogger())
	if err := b.SendMessage(context.Background(), 1, "x"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := b.SendMessage(ctx, 1, "x"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
