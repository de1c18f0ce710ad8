package inventory

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"estoque/internal/adapter"
	"estoque/internal/errors"
)

type opKind int

const (
	opCreate opKind = iota
	opUpdate
	opDelete
)

type persistOp struct {
	kind opKind
	id   string
	seq  uint64
	rec  adapter.Record
}

type PersistOptions struct {
	MaxAttempts int
	Backoff     time.Duration
}

func (o PersistOptions) withDefaults() PersistOptions {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.Backoff <= 0 {
		o.Backoff = 100 * time.Millisecond
	}
	return o
}

// persister applies store mutations to the backend from a single worker
// goroutine, so writes reach the backend in the order they were enqueued.
// The queue is unbounded: Enqueue is called under the store lock and must
// never block, since the worker takes the same lock when reporting results.
// Transport failures are retried with backoff; once attempts run out the op
// is dropped and the product is reported as sync-failed instead of silently
// diverging.
type persister struct {
	backend  adapter.Adapter
	logger   *zap.Logger
	opts     PersistOptions
	onResult func(id string, seq uint64, ok bool)

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []persistOp
	closed bool
	done   chan struct{}
}

func newPersister(backend adapter.Adapter, logger *zap.Logger, opts PersistOptions, onResult func(string, uint64, bool)) *persister {
	p := &persister{
		backend:  backend,
		logger:   logger,
		opts:     opts.withDefaults(),
		onResult: onResult,
		done:     make(chan struct{}),
	}
	p.cond = sync.NewCond(&p.mu)
	go p.run()
	return p
}

func (p *persister) Enqueue(op persistOp) {
	p.mu.Lock()
	if !p.closed {
		p.queue = append(p.queue, op)
		p.cond.Signal()
	}
	p.mu.Unlock()
}

// Close drains the queue and stops the worker.
func (p *persister) Close() {
	p.mu.Lock()
	p.closed = true
	p.cond.Signal()
	p.mu.Unlock()
	<-p.done
}

func (p *persister) run() {
	defer close(p.done)
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.cond.Wait()
		}
		if len(p.queue) == 0 {
			p.mu.Unlock()
			return
		}
		op := p.queue[0]
		p.queue = p.queue[1:]
		p.mu.Unlock()

		ok := p.applyWithRetry(op)
		if op.kind != opDelete {
			p.onResult(op.id, op.seq, ok)
		}
	}
}

func (p *persister) applyWithRetry(op persistOp) bool {
	for attempt := 1; attempt <= p.opts.MaxAttempts; attempt++ {
		err := p.apply(op)
		if err == nil {
			return true
		}

		if _, unavailable := errors.IsUnavailableError(err); !unavailable {
			p.logger.Error("persist failed", zap.String("productId", op.id), zap.Error(err))
			return false
		}

		if attempt < p.opts.MaxAttempts {
			p.logger.Warn("backend unavailable, retrying",
				zap.String("productId", op.id),
				zap.Int("attempt", attempt),
				zap.Int("maxAttempts", p.opts.MaxAttempts))
			time.Sleep(p.opts.Backoff * time.Duration(attempt))
			continue
		}

		p.logger.Error("persist retries exhausted", zap.String("productId", op.id), zap.Error(err))
	}
	return false
}

func (p *persister) apply(op persistOp) error {
	ctx := context.Background()

	switch op.kind {
	case opCreate:
		_, err := p.backend.Create(ctx, op.rec)
		if _, dup := errors.IsDuplicateIDError(err); dup {
			// The record is already there (a reload raced an earlier create);
			// converge by overwriting it.
			return p.backend.Update(ctx, op.id, op.rec)
		}
		return err
	case opUpdate:
		err := p.backend.Update(ctx, op.id, op.rec)
		if _, missing := errors.IsNotFoundError(err); missing {
			// The create this update depends on never landed; upsert.
			_, err = p.backend.Create(ctx, op.rec)
		}
		return err
	case opDelete:
		return p.backend.Delete(ctx, op.id)
	}
	return nil
}
