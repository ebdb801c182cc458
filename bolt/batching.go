package bolt

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/saeedesfandi/streamparse/errors"
	"github.com/saeedesfandi/streamparse/metric"
	"github.com/saeedesfandi/streamparse/multilang"
)

// DefaultFlushInterval is the wall-clock period between consumer flush
// attempts when none is configured. Fractional intervals are expressed
// naturally through time.Duration.
const DefaultFlushInterval = 2 * time.Second

// batchStore is the accumulation store shared between the producer and
// consumer tasks: group key to tuples in arrival order, append-only
// between flushes. Exactly one store is live at a time; the consumer
// swaps it for a fresh one under the mutex at each flush boundary.
type batchStore struct {
	mu     sync.Mutex
	groups map[GroupKey][]multilang.Tuple
}

func (s *batchStore) appendTuple(key GroupKey, tup multilang.Tuple) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.groups == nil {
		s.groups = make(map[GroupKey][]multilang.Tuple)
	}
	s.groups[key] = append(s.groups[key], tup)
}

func (s *batchStore) groupCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.groups)
}

// BatchingEngineDeps holds runtime dependencies for the batching engine
type BatchingEngineDeps struct {
	Name            string                  // Worker instance name
	Bolt            BatchingBolt            // User batch-processing logic
	Config          Config                  // Auto-behavior switches
	FlushInterval   time.Duration           // Minimum spacing between flushes; 0 means DefaultFlushInterval
	Conn            *multilang.Conn         // Protocol transport
	MetricsRegistry *metric.MetricsRegistry // Optional
	Logger          *slog.Logger            // Optional
}

// BatchingEngine decouples protocol reads from user batch logic. The
// producer task keeps consuming tuples into the accumulation store so
// protocol I/O never stalls on a slow batch handler; the consumer task
// flushes the store to ProcessBatch on a timer. A consumer failure
// cancels the producer's pending read through the shared errgroup
// context and Run returns the consumer's original error.
type BatchingEngine struct {
	engineBase
	bolt          BatchingBolt
	flushInterval time.Duration
	store         batchStore
}

// NewBatchingEngine creates a batching engine.
func NewBatchingEngine(deps BatchingEngineDeps) (*BatchingEngine, error) {
	if deps.Bolt == nil {
		return nil, errors.WrapInvalidArgument(errors.ErrNilBolt, "BatchingEngine", "NewBatchingEngine", "validate deps")
	}
	if deps.Conn == nil {
		return nil, errors.WrapInvalidArgument(errors.ErrNilConn, "BatchingEngine", "NewBatchingEngine", "validate deps")
	}
	if deps.FlushInterval < 0 {
		return nil, errors.WrapInvalidArgument(errors.ErrBadInterval, "BatchingEngine", "NewBatchingEngine", "validate deps")
	}

	interval := deps.FlushInterval
	if interval == 0 {
		interval = DefaultFlushInterval
	}

	return &BatchingEngine{
		engineBase:    newEngineBase(deps.Name, deps.Config, deps.Conn, deps.MetricsRegistry, deps.Logger),
		bolt:          deps.Bolt,
		flushInterval: interval,
	}, nil
}

func (e *BatchingEngine) groupKeyFor(tup multilang.Tuple) GroupKey {
	if g, ok := AsGrouper(e.bolt); ok {
		return g.GroupKey(tup)
	}
	return NoGroup()
}

// Run drives the engine until the input closes (pending batches are
// drained, then nil is returned), ctx is cancelled, or a fatal error
// occurs in either task. On a non-nil return the error has already been
// reported to the orchestrator; callers should exit non-zero.
func (e *BatchingEngine) Run(ctx context.Context) error {
	if _, err := e.startup(ctx, e.bolt); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return e.fatal(err)
	}

	out := newCollector(e.conn, e.cfg, &e.inflight, e.metrics)
	e.metrics.recordStatus(statusRunning)

	// drained is closed by the producer on clean input close so the
	// consumer can flush what is left and exit.
	drained := make(chan struct{})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return e.produce(gctx, drained) })
	g.Go(func() error { return e.consume(gctx, drained, out) })

	if err := g.Wait(); err != nil {
		// Reported at the failure site; observed exactly once here.
		return err
	}
	e.metrics.recordStatus(statusStopped)
	return nil
}

// produce blocks only on the transport read: read one tuple, compute its
// group key, append it to the store. No user batch logic runs here.
func (e *BatchingEngine) produce(ctx context.Context, drained chan<- struct{}) error {
	for {
		tup, err := e.conn.ReadTuple(ctx)
		if err != nil {
			if stderrors.Is(err, errors.ErrClosed) {
				e.logger.Info("input closed, draining pending batches")
				close(drained)
				return nil
			}
			if ctx.Err() != nil {
				// The consumer died first; its error wins.
				return nil
			}
			// The in-flight set belongs to the consumer: it may hold a
			// batch that is mid-ProcessBatch and about to be acked.
			// Failing it here would blame tuples this task never owned.
			return e.report(err)
		}

		e.metrics.recordReceived()
		e.store.appendTuple(e.groupKeyFor(tup), tup)
		e.metrics.recordPendingGroups(e.store.groupCount())
	}
}

// consume sleeps through the flush interval, then flushes every pending
// group. The interval is minimum spacing, not exact cadence: the timer
// restarts only after a flush completes.
func (e *BatchingEngine) consume(ctx context.Context, drained <-chan struct{}, out *Collector) error {
	timer := time.NewTimer(e.flushInterval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-drained:
			if err := e.flush(ctx, out); err != nil {
				return e.fatal(err)
			}
			return nil
		case <-timer.C:
			if err := e.flush(ctx, out); err != nil {
				return e.fatal(err)
			}
			timer.Reset(e.flushInterval)
		}
	}
}

// flush swaps the store for a fresh one and processes the swapped-out
// view, all under the store mutex, so the producer can never append to a
// group that is being iterated. The producer stalls for at most one
// flush's worth of work; no tuple is double-counted or dropped across
// the boundary.
func (e *BatchingEngine) flush(ctx context.Context, out *Collector) error {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()

	if len(e.store.groups) == 0 {
		return nil
	}

	pending := e.store.groups
	e.store.groups = make(map[GroupKey][]multilang.Tuple)

	start := time.Now()
	for key, batch := range pending {
		e.inflight.set(batch...)

		if err := e.bolt.ProcessBatch(ctx, out, key, batch); err != nil {
			return errors.WrapProcessing(err, e.name, "ProcessBatch",
				fmt.Sprintf("flush group %s", key))
		}
		if e.cfg.AutoAck {
			for _, tup := range batch {
				if err := out.Ack(tup.ID); err != nil {
					return err
				}
			}
		}

		e.metrics.recordBatch(len(batch))
		e.inflight.clear()
	}

	e.metrics.recordFlush(time.Since(start))
	e.metrics.recordPendingGroups(0)
	return nil
}
