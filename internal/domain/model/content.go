package model

// ContentKind names the strategy that produced a piece of content.
type ContentKind string

const (
	ContentKindPhrase     ContentKind = "phrase"
	ContentKindNumerology ContentKind = "numerology"
)

// Content is what a selector hands to the oracle.
// Text is the raw derived content; Prompt is what is actually sent
// (identical to Text for the phrase strategy).
type Content struct {
	Kind   ContentKind
	Text   string
	Prompt string
}

func (c Content) IsEmpty() bool { return c.Prompt == "" }
