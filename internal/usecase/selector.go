package usecase

import (
	"context"
	"fmt"
	"strings"

	"quantum-oracle-bot/internal/domain"
	"quantum-oracle-bot/internal/domain/model"
)

// QuantumBuffer is the part of quantum.Buffer the use cases consume.
type QuantumBuffer interface {
	EnsureAvailable(ctx context.Context, k int) int
	MaybeRefill(ctx context.Context)
	Take(ctx context.Context, k int) ([]uint16, error)
	Draw(ctx context.Context) (uint16, error)
}

// ContentSelector derives the text for one exchange from the quantum buffer.
// An empty Content with a nil error means there is nothing to send.
type ContentSelector interface {
	Select(ctx context.Context) (model.Content, error)
}

const (
	StrategyPhrase     = "phrase"
	StrategyNumerology = "numerology"
)

// Placeholders understood by prompt templates.
const (
	PlaceholderContent = "{{content}}"
	PlaceholderNumber  = "{{number}}"
)

const DefaultNumerologyPrompt = "You are a numerology oracle. The quantum draw " + PlaceholderNumber +
	" carries these energies: " + PlaceholderContent +
	" Write a short, evocative reading of two or three sentences based only on these energies."

type SelectorConfig struct {
	Strategy       string
	Dictionary     *model.Dictionary // phrase strategy
	Decay          float64           // numerology strategy
	Reserve        int               // numerology: values to ensure before the draw
	PromptTemplate string
}

// NewContentSelector builds the strategy named in cfg.
func NewContentSelector(buf QuantumBuffer, cfg SelectorConfig) (ContentSelector, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Strategy)) {
	case StrategyPhrase, "gematria", "":
		if cfg.Dictionary == nil || cfg.Dictionary.Len() == 0 {
			return nil, fmt.Errorf("phrase strategy needs a dictionary: %w", domain.ErrInvalidArgument)
		}
		return NewPhraseSelector(buf, cfg.Dictionary, cfg.PromptTemplate), nil
	case StrategyNumerology:
		return NewNumerologySelector(buf, cfg.Decay, cfg.Reserve, cfg.PromptTemplate), nil
	default:
		return nil, fmt.Errorf("unknown content strategy %q: %w", cfg.Strategy, domain.ErrInvalidArgument)
	}
}

func renderPrompt(tmpl, content, number string) string {
	if strings.TrimSpace(tmpl) == "" {
		return content
	}
	out := strings.ReplaceAll(tmpl, PlaceholderContent, content)
	return strings.ReplaceAll(out, PlaceholderNumber, number)
}
