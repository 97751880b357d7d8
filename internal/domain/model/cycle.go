package model

import (
	"time"

	"github.com/oklog/ulid/v2"
)

type CycleOutcome string

const (
	CycleOutcomeSent          CycleOutcome = "sent"
	CycleOutcomeEmpty         CycleOutcome = "empty"
	CycleOutcomeSkipped       CycleOutcome = "skipped"
	CycleOutcomeSelectFailed  CycleOutcome = "select_failed"
	CycleOutcomeOracleFailed  CycleOutcome = "oracle_failed"
	CycleOutcomeDeliverFailed CycleOutcome = "deliver_failed"
	CycleOutcomeCancelled     CycleOutcome = "cancelled"
	CycleOutcomePanicked      CycleOutcome = "panicked"
)

// ExchangeType tells autonomous broadcasts apart from replies to inbound messages.
type ExchangeType string

const (
	ExchangeBroadcast ExchangeType = "broadcast"
	ExchangeReply     ExchangeType = "reply"
)

// BroadcastCycle is the transient state of one produce/send/pace iteration.
type BroadcastCycle struct {
	StartedAt time.Time
	TargetID  int64
	Content   Content
	Response  string
	Outcome   CycleOutcome
	Delay     time.Duration
}

// CycleRecord is one exchange as persisted by the cycle log.
type CycleRecord struct {
	ID        string
	CreatedAt time.Time
	TargetID  int64
	Actor     string
	Type      ExchangeType
	Kind      ContentKind
	Content   string
	Response  string
}

// NewCycleRecord stamps a record with a sortable id and the current time.
func NewCycleRecord(typ ExchangeType, target int64, actor string, c Content, response string) *CycleRecord {
	return &CycleRecord{
		ID:        ulid.Make().String(),
		CreatedAt: time.Now().UTC(),
		TargetID:  target,
		Actor:     actor,
		Type:      typ,
		Kind:      c.Kind,
		Content:   c.Text,
		Response:  response,
	}
}
