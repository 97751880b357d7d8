package adapter

import "context"

// Messenger delivers text to a chat. Failures are reported, never retried here.
type Messenger interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// InboundMessage is the subset of an incoming chat update the reply flow needs.
type InboundMessage struct {
	ChatID    int64
	MessageID int
	FromID    int64
	Username  string
	Text      string
}
