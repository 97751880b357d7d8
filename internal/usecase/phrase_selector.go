package usecase

import (
	"context"
	"strings"

	"quantum-oracle-bot/internal/domain/model"
	"quantum-oracle-bot/internal/quantum"
)

type phraseSelector struct {
	buf    QuantumBuffer
	dict   *model.Dictionary
	prompt string
}

// NewPhraseSelector assembles gematria phrases: one draw picks the word count
// through its digital root, then every word costs two draws (category, candidate).
func NewPhraseSelector(buf QuantumBuffer, dict *model.Dictionary, promptTemplate string) ContentSelector {
	return &phraseSelector{buf: buf, dict: dict, prompt: promptTemplate}
}

func (s *phraseSelector) Select(ctx context.Context) (model.Content, error) {
	s.buf.EnsureAvailable(ctx, 2)
	head, err := s.buf.Take(ctx, 1)
	if err != nil {
		return model.Content{}, err
	}
	n := quantum.DigitalRoot(head[0])

	words := make([]string, 0, n)
	for i := 0; i < n; i++ {
		pair, err := s.buf.Take(ctx, 2)
		if err != nil {
			return model.Content{}, err
		}
		_, candidates := s.dict.Candidates(quantum.ScaledIndex(pair[0], s.dict.Len()))
		if len(candidates) == 0 {
			continue
		}
		words = append(words, candidates[quantum.ScaledIndex(pair[1], len(candidates))])
	}
	if len(words) == 0 {
		return model.Content{Kind: model.ContentKindPhrase}, nil
	}

	phrase := strings.Join(words, " ")
	return model.Content{
		Kind:   model.ContentKindPhrase,
		Text:   phrase,
		Prompt: renderPrompt(s.prompt, phrase, ""),
	}, nil
}
