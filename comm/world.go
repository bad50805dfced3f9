package comm

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// mailboxKey identifies one FIFO: a communicator, the operation that owns
// the traffic and an ordered pair of world ranks. Point-to-point messages and
// each kind of collective travel on separate queues, so a pending Send is
// never consumed by a collective.
type mailboxKey struct {
	comm     string
	op       string
	src, dst int
}

// world is the shared state behind all communicators of one Run.
type world struct {
	size int

	mu      sync.Mutex
	cond    *sync.Cond
	boxes   map[mailboxKey][]any
	aborted bool
	cause   error

	logger *slog.Logger
}

func newWorld(size int, logger *slog.Logger) *world {
	w := &world{
		size:   size,
		boxes:  make(map[mailboxKey][]any),
		logger: logger,
	}
	w.cond = sync.NewCond(&w.mu)

	return w
}

// post appends a payload to a mailbox. It never blocks.
func (w *world) post(key mailboxKey, payload any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.aborted {
		return ErrAborted
	}
	w.boxes[key] = append(w.boxes[key], payload)
	w.cond.Broadcast()

	return nil
}

// take removes the oldest payload of a mailbox, waiting until one is present
// or the world is aborted.
func (w *world) take(key mailboxKey) (any, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for {
		if w.aborted {
			return nil, ErrAborted
		}
		if q := w.boxes[key]; len(q) > 0 {
			p := q[0]
			q[0] = nil
			if len(q) == 1 {
				delete(w.boxes, key)
			} else {
				w.boxes[key] = q[1:]
			}

			return p, nil
		}
		w.cond.Wait()
	}
}

// abort marks the world failed. Only the first cause is kept.
func (w *world) abort(cause error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.aborted {
		return
	}
	w.aborted = true
	w.cause = cause
	abortsTotal.Inc()
	w.logger.Debug("comm: world aborted", slog.Int("size", w.size), slog.Any("cause", cause))
	w.cond.Broadcast()
}

func (w *world) rootCause() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.cause
}

// RankFunc is the body executed by every rank.
type RankFunc func(ctx context.Context, c *Comm) error

// RunOption configures Run.
type RunOption func(*runOptions)

type runOptions struct {
	logger *slog.Logger
}

// WithLogger routes the world's debug events to logger.
func WithLogger(logger *slog.Logger) RunOption {
	if logger == nil {
		panic("comm: WithLogger: logger must be non-nil")
	}

	return func(o *runOptions) { o.logger = logger }
}

// Run executes fn on size ranks and waits for all of them.
//
// The returned error is the root cause of the first failure: the error of the
// first rank that failed, a panic converted to an error (with stack trace,
// printable with %+v), or the context error if ctx was canceled first.
// Ranks that only observed the abort do not mask it.
func Run(ctx context.Context, size int, fn RankFunc, opts ...RunOption) error {
	if size < 1 {
		return fmt.Errorf("comm.Run(%d): %w", size, ErrBadSize)
	}
	o := runOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	w := newWorld(size, o.logger)
	members := make([]int, size)
	for i := range members {
		members[i] = i
	}

	g, gctx := errgroup.WithContext(ctx)
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			w.abort(context.Cause(ctx))
		case <-done:
		}
	}()

	for rank := 0; rank < size; rank++ {
		rank := rank // per-iteration copy (go directive < 1.22)
		c := &Comm{w: w, id: "world", members: members, rank: rank}
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = errors.Errorf("comm: rank %d panicked: %v", rank, r)
				}
				if err != nil {
					w.abort(err)
				}
			}()

			return fn(gctx, c)
		})
	}

	err := g.Wait()
	if err == nil {
		return nil
	}
	if cause := w.rootCause(); cause != nil {
		return cause
	}

	return err
}
