package quantum

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"quantum-oracle-bot/internal/domain"
	"quantum-oracle-bot/internal/domain/ports/adapter"
	"quantum-oracle-bot/internal/infra/metrics"
)

// FallbackPolicy decides what a starved draw returns.
type FallbackPolicy string

const (
	FallbackZero  FallbackPolicy = "zero"  // serve 0, biases scaled picks towards index 0
	FallbackOne   FallbackPolicy = "one"   // serve 1
	FallbackError FallbackPolicy = "error" // fail the draw with domain.ErrStarvedBuffer
)

// ParseFallbackPolicy accepts zero|one|error (case-insensitive); empty means error.
func ParseFallbackPolicy(s string) (FallbackPolicy, error) {
	switch p := FallbackPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return FallbackError, nil
	case FallbackZero, FallbackOne, FallbackError:
		return p, nil
	default:
		return "", fmt.Errorf("unknown fallback policy %q: %w", s, domain.ErrInvalidArgument)
	}
}

type Options struct {
	BatchSize     int            // values requested per refill
	LowWatermark  int            // MaybeRefill tops up below this size
	Fallback      FallbackPolicy // starved draws
	RefillTimeout time.Duration  // bound on one source round trip
}

// Stats is a consistent snapshot of the buffer counters.
// Size always equals Appended - Popped.
type Stats struct {
	Size     int
	Appended uint64
	Popped   uint64
}

// Buffer is the process-wide queue of consumed-once random values.
//
// Values are appended at the tail by refills and removed from the head by draws.
// Consumers going through Take are serialized, so the availability check and
// the pops that follow it cannot interleave with another consumer.
type Buffer struct {
	src  adapter.RandomSource
	opts Options
	log  *zerolog.Logger

	mu       sync.Mutex
	values   []uint16
	appended uint64
	popped   uint64

	refills singleflight.Group
	take    chan struct{}
}

func NewBuffer(src adapter.RandomSource, opts Options, logger *zerolog.Logger) *Buffer {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 1024
	}
	if opts.LowWatermark <= 0 {
		opts.LowWatermark = 24
	}
	if opts.Fallback == "" {
		opts.Fallback = FallbackError
	}
	if opts.RefillTimeout <= 0 {
		opts.RefillTimeout = 15 * time.Second
	}
	bufLog := logger.With().Str("component", "QuantumBuffer").Logger()
	return &Buffer{
		src:  src,
		opts: opts,
		log:  &bufLog,
		take: make(chan struct{}, 1),
	}
}

func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.values)
}

func (b *Buffer) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Stats{Size: len(b.values), Appended: b.appended, Popped: b.popped}
}

func (b *Buffer) Policy() FallbackPolicy { return b.opts.Fallback }

// Refill requests one batch from the source and appends it in source order.
// Failures leave the buffer untouched and are only logged; the next consumer
// that finds the buffer short triggers another attempt. Returns the number of
// values appended.
func (b *Buffer) Refill(ctx context.Context) int {
	ctx, cancel := context.WithTimeout(ctx, b.opts.RefillTimeout)
	defer cancel()

	vals, err := b.src.Fetch(ctx, b.opts.BatchSize)
	if err != nil {
		metrics.IncRefill("failed")
		b.log.Warn().Err(err).Int("size", b.Len()).Msg("refill failed")
		return 0
	}
	if len(vals) == 0 {
		metrics.IncRefill("empty")
		return 0
	}

	b.mu.Lock()
	b.values = append(b.values, vals...)
	b.appended += uint64(len(vals))
	size := len(b.values)
	b.mu.Unlock()

	metrics.IncRefill("ok")
	metrics.SetBufferSize(size)
	b.log.Debug().Int("added", len(vals)).Int("size", size).Msg("refilled")
	return len(vals)
}

// EnsureAvailable triggers one refill when fewer than k values are buffered and
// waits for it. Concurrent callers share the same in-flight refill. The
// returned size may still be below k when the source is down.
func (b *Buffer) EnsureAvailable(ctx context.Context, k int) int {
	if n := b.Len(); n >= k {
		return n
	}
	ch := b.refills.DoChan("refill", func() (interface{}, error) {
		// detached from the first caller so a cancelled waiter does not abort the shared refill
		return b.Refill(context.WithoutCancel(ctx)), nil
	})
	select {
	case <-ch:
	case <-ctx.Done():
	}
	return b.Len()
}

// MaybeRefill tops the buffer up when it has fallen below the low watermark.
func (b *Buffer) MaybeRefill(ctx context.Context) {
	if b.Len() < b.opts.LowWatermark {
		b.EnsureAvailable(ctx, b.opts.LowWatermark)
	}
}

// Pop removes the head value. ok is false when the buffer is empty; callers
// are expected to go through Take or Draw, which apply the fallback policy.
func (b *Buffer) Pop() (v uint16, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.popLocked()
}

func (b *Buffer) popLocked() (uint16, bool) {
	if len(b.values) == 0 {
		return 0, false
	}
	v := b.values[0]
	b.values = b.values[1:]
	b.popped++
	return v, true
}

// Take ensures k values are available and pops them as one unit. Slots the
// source could not supply are filled according to the fallback policy; under
// FallbackError a short take returns domain.ErrStarvedBuffer and consumes nothing.
func (b *Buffer) Take(ctx context.Context, k int) ([]uint16, error) {
	if k <= 0 {
		return nil, nil
	}
	select {
	case b.take <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-b.take }()

	b.EnsureAvailable(ctx, k)

	b.mu.Lock()
	if len(b.values) < k && b.opts.Fallback == FallbackError {
		size := len(b.values)
		b.mu.Unlock()
		metrics.IncStarvedDraw(string(b.opts.Fallback))
		b.log.Warn().Int("want", k).Int("size", size).Msg("buffer starved")
		return nil, fmt.Errorf("take %d of %d: %w", k, size, domain.ErrStarvedBuffer)
	}
	out := make([]uint16, 0, k)
	for len(out) < k {
		v, ok := b.popLocked()
		if !ok {
			break
		}
		out = append(out, v)
	}
	got := len(out)
	size := len(b.values)
	b.mu.Unlock()

	metrics.AddPopped(got)
	metrics.SetBufferSize(size)
	if got < k {
		fill := b.fallbackValue()
		for len(out) < k {
			out = append(out, fill)
			metrics.IncStarvedDraw(string(b.opts.Fallback))
		}
		b.log.Warn().Int("want", k).Int("got", got).Str("policy", string(b.opts.Fallback)).
			Msg("buffer starved; fallback values served")
	}
	return out, nil
}

// Draw takes a single value.
func (b *Buffer) Draw(ctx context.Context) (uint16, error) {
	vals, err := b.Take(ctx, 1)
	if err != nil {
		return 0, err
	}
	return vals[0], nil
}

func (b *Buffer) fallbackValue() uint16 {
	if b.opts.Fallback == FallbackOne {
		return 1
	}
	return 0
}
