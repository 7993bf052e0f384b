// Package scoring runs candidate scoring on a fixed set of workers with a
// bounded number of pending tasks.
package scoring

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/hupe1980/groundtruth/resource"
)

// DefaultHighWater is the default bound on pending tasks.
const DefaultHighWater = 1000

// ErrClosed is returned by Submit after Wait has been called.
var ErrClosed = errors.New("scoring pool closed")

// Candidate is one unit of work.
type Candidate struct {
	ID        int64
	Embedding []float32
}

func (c Candidate) size() int64 {
	return int64(len(c.Embedding)) * 4
}

// ScoreFunc scores one candidate. A non-nil error stops the pool.
type ScoreFunc func(Candidate) error

// Options configures a Pool.
type Options struct {
	// Workers is the number of scoring goroutines. Defaults to GOMAXPROCS.
	Workers int

	// HighWater bounds queued plus in-flight tasks. Submit blocks while the
	// bound is reached. Defaults to DefaultHighWater.
	HighWater int

	// Resources optionally accounts the embedding bytes of pending tasks.
	Resources *resource.Controller
}

// Stats is a snapshot of pool counters.
type Stats struct {
	Submitted         int64
	Completed         int64
	BackpressureWaits int64
	PeakPending       int64
}

// Pool is a bounded worker pool. Submit must be called from a single
// producer goroutine.
type Pool struct {
	score ScoreFunc
	rc    *resource.Controller

	tasks chan Candidate
	slots *semaphore.Weighted

	g    *errgroup.Group
	gctx context.Context

	pending   atomic.Int64
	submitted atomic.Int64
	completed atomic.Int64
	waits     atomic.Int64
	peak      atomic.Int64

	closed    atomic.Bool
	closeOnce sync.Once
}

// New starts the workers. They stop when ctx is canceled or a ScoreFunc
// fails.
func New(ctx context.Context, opts Options, score ScoreFunc) *Pool {
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.HighWater <= 0 {
		opts.HighWater = DefaultHighWater
	}

	g, gctx := errgroup.WithContext(ctx)

	p := &Pool{
		score: score,
		rc:    opts.Resources,
		tasks: make(chan Candidate, opts.HighWater),
		slots: semaphore.NewWeighted(int64(opts.HighWater)),
		g:     g,
		gctx:  gctx,
	}

	for range opts.Workers {
		g.Go(p.work)
	}

	return p
}

func (p *Pool) work() error {
	for {
		select {
		case <-p.gctx.Done():
			return p.gctx.Err()
		case c, ok := <-p.tasks:
			if !ok {
				return nil
			}
			err := p.score(c)
			p.done(c)
			if err != nil {
				return err
			}
		}
	}
}

func (p *Pool) done(c Candidate) {
	p.rc.ReleaseMemory(c.size())
	p.pending.Add(-1)
	p.completed.Add(1)
	p.slots.Release(1)
}

// Submit queues c, blocking while the pending bound is reached. It returns
// the first worker error, ctx's error, or ErrClosed.
func (p *Pool) Submit(ctx context.Context, c Candidate) error {
	if p.closed.Load() {
		return ErrClosed
	}
	if err := p.gctx.Err(); err != nil {
		return p.failure(err)
	}

	actx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(p.gctx, cancel)
	defer stop()

	if !p.slots.TryAcquire(1) {
		p.waits.Add(1)
		if err := p.slots.Acquire(actx, 1); err != nil {
			return p.failure(err)
		}
	}

	if err := p.rc.AcquireMemory(actx, c.size()); err != nil {
		p.slots.Release(1)
		return p.failure(err)
	}

	n := p.pending.Add(1)
	for {
		peak := p.peak.Load()
		if n <= peak || p.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	p.submitted.Add(1)

	// A held slot guarantees buffer space.
	p.tasks <- c
	return nil
}

// failure prefers the worker error over the cancellation it caused.
func (p *Pool) failure(err error) error {
	if p.gctx.Err() == nil {
		return err
	}
	if werr := p.Wait(); werr != nil {
		return werr
	}
	return err
}

// Pending returns the number of queued plus in-flight tasks.
func (p *Pool) Pending() int64 {
	return p.pending.Load()
}

// Wait stops accepting work, lets the workers drain every queued task and
// returns the first worker error. On success Pending is zero.
func (p *Pool) Wait() error {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.tasks)
	})
	return p.g.Wait()
}

// Stats returns a snapshot of the pool counters.
func (p *Pool) Stats() Stats {
	return Stats{
		Submitted:         p.submitted.Load(),
		Completed:         p.completed.Load(),
		BackpressureWaits: p.waits.Load(),
		PeakPending:       p.peak.Load(),
	}
}
