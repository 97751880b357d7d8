//go:build !integration

package usecase_test

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"quantum-oracle-bot/internal/domain"
	"quantum-oracle-bot/internal/domain/model"
	"quantum-oracle-bot/internal/domain/ports/adapter"
	"quantum-oracle-bot/internal/domain/ports/repository"
	"quantum-oracle-bot/internal/quantum"
)

// newTestLogger creates a silent logger for tests.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(nil)
	return &logger
}

// =============================
// Random source
// =============================

// seqSource serves one batch per Fetch and fails once exhausted.
type seqSource struct {
	mu      sync.Mutex
	batches [][]uint16
}

func (s *seqSource) Fetch(ctx context.Context, n int) ([]uint16, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.batches) == 0 {
		return nil, domain.ErrSourceUnavailable
	}
	b := s.batches[0]
	s.batches = s.batches[1:]
	return b, nil
}

// newBuffer returns a buffer whose first refill yields values.
func newBuffer(policy quantum.FallbackPolicy, values ...uint16) *quantum.Buffer {
	src := &seqSource{}
	if len(values) > 0 {
		src.batches = [][]uint16{values}
	}
	return quantum.NewBuffer(src, quantum.Options{BatchSize: 1024, LowWatermark: 2, Fallback: policy}, newTestLogger())
}

// =============================
// Adapters
// =============================

// ---- Mock OracleClient ----

type MockOracle struct {
	mu     sync.Mutex
	Inputs []string

	GenerateFunc func(ctx context.Context, input string) (string, error)
}

var _ adapter.OracleClient = (*MockOracle)(nil)

func (m *MockOracle) Name() string { return "mock" }

func (m *MockOracle) Generate(ctx context.Context, input string) (string, error) {
	m.mu.Lock()
	m.Inputs = append(m.Inputs, input)
	m.mu.Unlock()
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, input)
	}
	return "oracle:" + input, nil
}

func (m *MockOracle) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Inputs)
}

// ---- Mock Messenger ----

type SentMessage struct {
	ChatID int64
	Text   string
}

type MockMessenger struct {
	mu   sync.Mutex
	Sent []SentMessage

	SendMessageFunc func(ctx context.Context, chatID int64, text string) error
}

var _ adapter.Messenger = (*MockMessenger)(nil)

func (m *MockMessenger) SendMessage(ctx context.Context, chatID int64, text string) error {
	if m.SendMessageFunc != nil {
		if err := m.SendMessageFunc(ctx, chatID, text); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, SentMessage{ChatID: chatID, Text: text})
	return nil
}

func (m *MockMessenger) Messages() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SentMessage(nil), m.Sent...)
}

// =============================
// Repositories
// =============================

// ---- Mock CycleLogRepository ----

type MockCycleLogRepo struct {
	SavedCh chan *model.CycleRecord

	SaveFunc func(ctx context.Context, rec *model.CycleRecord) error
}

var _ repository.CycleLogRepository = (*MockCycleLogRepo)(nil)

func NewMockCycleLogRepo() *MockCycleLogRepo {
	return &MockCycleLogRepo{SavedCh: make(chan *model.CycleRecord, 16)}
}

func (m *MockCycleLogRepo) Save(ctx context.Context, rec *model.CycleRecord) error {
	if m.SaveFunc != nil {
		if err := m.SaveFunc(ctx, rec); err != nil {
			return err
		}
	}
	m.SavedCh <- rec
	return nil
}

// =============================
// Selectors
// =============================

type selectorFunc func(ctx context.Context) (model.Content, error)

func (f selectorFunc) Select(ctx context.Context) (model.Content, error) { return f(ctx) }

func fixedContent(text string) selectorFunc {
	return func(ctx context.Context) (model.Content, error) {
		return model.Content{Kind: model.ContentKindPhrase, Text: text, Prompt: text}, nil
	}
}

func mustDictionary(t *testing.T, categories map[string][]string) *model.Dictionary {
	t.Helper()
	d, err := model.NewDictionary(categories)
	if err != nil {
		t.Fatalf("dictionary: %v", err)
	}
	return d
}
