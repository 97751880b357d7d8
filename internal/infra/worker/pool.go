package worker

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"github.com/rs/zerolog"
)

// A very small worker pool for fire-and-forget side work (cycle log writes)
// that must never hold up a broadcast cycle or a reply.

type Task func(ctx context.Context) error

var ErrQueueFull = errors.New("worker queue full")

type Pool struct {
	wg   sync.WaitGroup
	jobs chan Task
	quit chan struct{}
	stop sync.Once
	n    int
	log  *zerolog.Logger
}

func NewPool(workers int, logger *zerolog.Logger) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	poolLog := logger.With().Str("component", "WorkerPool").Logger()
	return &Pool{jobs: make(chan Task, workers*4), quit: make(chan struct{}), n: workers, log: &poolLog}
}

func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.n; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case <-p.quit:
					return
				case task := <-p.jobs:
					if task == nil {
						continue
					}
					if err := p.run(ctx, task); err != nil {
						p.log.Warn().Err(err).Int("worker", id).Msg("task error")
					}
				}
			}
		}(i)
	}
}

// run isolates a panicking task so the worker keeps serving.
func (p *Pool) run(ctx context.Context, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Interface("panic", r).Msg("task panicked")
		}
	}()
	return task(ctx)
}

// Stop is idempotent and waits for in-flight tasks.
func (p *Pool) Stop() {
	p.stop.Do(func() { close(p.quit) })
	p.wg.Wait()
}

func (p *Pool) Submit(task Task) error {
	if task == nil {
		return errors.New("nil task")
	}
	select {
	case p.jobs <- task:
		return nil
	default:
		// drop when saturated; callers treat their side work as best-effort
		return ErrQueueFull
	}
}
