package adapter

import "context"

// RandomSource fetches a batch of true-random 16-bit values.
// Implementations return values in source order and never a partial batch on error.
type RandomSource interface {
	Fetch(ctx context.Context, n int) ([]uint16, error)
}
