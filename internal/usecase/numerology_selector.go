package usecase

import (
	"context"
	"fmt"

	"quantum-oracle-bot/internal/domain/model"
	"quantum-oracle-bot/internal/quantum"
)

type numerologySelector struct {
	buf     QuantumBuffer
	decay   float64
	reserve int
	prompt  string
}

// NewNumerologySelector reads one draw as a 5-digit number and describes its
// digit energies. reserve is how many values to make available before the
// draw; callers that also pace from the buffer pass more than one.
func NewNumerologySelector(buf QuantumBuffer, decay float64, reserve int, promptTemplate string) ContentSelector {
	if decay <= 0 {
		decay = quantum.DefaultDecay
	}
	if reserve < 1 {
		reserve = 1
	}
	if promptTemplate == "" {
		promptTemplate = DefaultNumerologyPrompt
	}
	return &numerologySelector{buf: buf, decay: decay, reserve: reserve, prompt: promptTemplate}
}

func (s *numerologySelector) Select(ctx context.Context) (model.Content, error) {
	s.buf.EnsureAvailable(ctx, s.reserve)
	raw, err := s.buf.Draw(ctx)
	if err != nil {
		return model.Content{}, err
	}
	energies := quantum.EnergyWeights(quantum.Digits(raw), s.decay)
	desc := quantum.DescribeEnergies(energies)
	return model.Content{
		Kind:   model.ContentKindNumerology,
		Text:   desc,
		Prompt: renderPrompt(s.prompt, desc, fmt.Sprintf("%05d", raw)),
	}, nil
}
