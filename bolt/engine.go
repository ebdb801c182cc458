package bolt

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/saeedesfandi/streamparse/errors"
	"github.com/saeedesfandi/streamparse/metric"
	"github.com/saeedesfandi/streamparse/multilang"
)

// Worker status values reported through metrics
const (
	statusStopped = 0
	statusRunning = 1
	statusFailed  = 2
)

// engineBase carries the state shared by both engines: the transport,
// the auto-behavior config, the in-flight unit set, and the fatal-error
// reporting path.
type engineBase struct {
	name     string
	cfg      Config
	conn     *multilang.Conn
	logger   *slog.Logger
	metrics  *engineMetrics
	inflight inflightSet
}

func newEngineBase(name string, cfg Config, conn *multilang.Conn,
	registry *metric.MetricsRegistry, logger *slog.Logger) engineBase {
	if name == "" {
		name = "bolt"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return engineBase{
		name:    name,
		cfg:     cfg,
		conn:    conn,
		logger:  logger.With("worker", name, "worker_id", uuid.NewString()),
		metrics: newEngineMetrics(registry, name),
	}
}

// startup performs the handshake, acknowledges it with the worker pid,
// and runs the bolt's Initialize hook when it has one.
func (e *engineBase) startup(ctx context.Context, b any) (*multilang.Handshake, error) {
	hs, err := e.conn.ReadHandshake(ctx)
	if err != nil {
		return nil, err
	}
	if err := e.conn.AcknowledgeHandshake(hs, os.Getpid()); err != nil {
		return nil, err
	}
	e.logger.Info("handshake complete", "conf_keys", len(hs.Conf), "pid_dir", hs.PidDir)

	if init, ok := AsInitializer(b); ok {
		if err := init.Initialize(hs.Conf, hs.Context); err != nil {
			return nil, errors.WrapProcessing(err, e.name, "Initialize", "bolt setup")
		}
	}
	return hs, nil
}

// fatal drives the non-retried failure path: auto-fail the in-flight
// unit(s), report the error to the orchestrator's log channel, and hand
// the error back for the process to exit non-zero on. Only the task that
// owns the in-flight set may call it; tasks that don't own it report
// instead.
func (e *engineBase) fatal(err error) error {
	if e.cfg.AutoFail {
		for _, id := range e.inflight.snapshot() {
			if werr := e.conn.WriteMessage(multilang.NewFail(id)); werr != nil {
				e.logger.Error("could not fail in-flight tuple", "tuple_id", id, "error", werr)
				continue
			}
			e.metrics.recordFailed()
		}
	}
	return e.report(err)
}

// report writes the classified error to the orchestrator's log channel
// and records it, without touching the in-flight set.
func (e *engineBase) report(err error) error {
	class := errors.Classify(err)
	report := fmt.Sprintf("worker error (%s): %v\n%s", class, err, debug.Stack())
	if werr := e.conn.WriteMessage(multilang.NewLog(report)); werr != nil {
		e.logger.Error("could not report error to orchestrator", "error", werr)
	}

	e.metrics.recordError(class.String())
	e.metrics.recordStatus(statusFailed)
	e.logger.Error("worker terminating", "class", class.String(), "error", err)
	return err
}

// EngineDeps holds runtime dependencies for the single-dispatch engine
type EngineDeps struct {
	Name            string                  // Worker instance name
	Bolt            Bolt                    // User processing logic
	Config          Config                  // Auto-behavior switches
	Conn            *multilang.Conn         // Protocol transport
	MetricsRegistry *metric.MetricsRegistry // Optional
	Logger          *slog.Logger            // Optional
}

// Engine is the per-tuple synchronous processing loop: handshake,
// initialize, then read / dispatch / auto-ack until the input closes or
// something fails.
type Engine struct {
	engineBase
	bolt Bolt
}

// NewEngine creates a single-dispatch engine.
func NewEngine(deps EngineDeps) (*Engine, error) {
	if deps.Bolt == nil {
		return nil, errors.WrapInvalidArgument(errors.ErrNilBolt, "Engine", "NewEngine", "validate deps")
	}
	if deps.Conn == nil {
		return nil, errors.WrapInvalidArgument(errors.ErrNilConn, "Engine", "NewEngine", "validate deps")
	}

	return &Engine{
		engineBase: newEngineBase(deps.Name, deps.Config, deps.Conn, deps.MetricsRegistry, deps.Logger),
		bolt:       deps.Bolt,
	}, nil
}

// Run drives the engine until the input closes (nil return), ctx is
// cancelled, or a fatal error occurs. Callers should exit the process
// non-zero on a non-nil return; the error has already been reported to
// the orchestrator.
func (e *Engine) Run(ctx context.Context) error {
	if _, err := e.startup(ctx, e.bolt); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return e.fatal(err)
	}

	out := newCollector(e.conn, e.cfg, &e.inflight, e.metrics)
	e.metrics.recordStatus(statusRunning)

	for {
		tup, err := e.conn.ReadTuple(ctx)
		if err != nil {
			if stderrors.Is(err, errors.ErrClosed) {
				e.logger.Info("input closed, shutting down")
				e.metrics.recordStatus(statusStopped)
				return nil
			}
			if ctx.Err() != nil {
				e.metrics.recordStatus(statusStopped)
				return ctx.Err()
			}
			return e.fatal(err)
		}

		e.metrics.recordReceived()
		e.inflight.set(tup)

		start := time.Now()
		if err := e.bolt.Process(ctx, out, tup); err != nil {
			return e.fatal(errors.WrapProcessing(err, e.name, "Process", "dispatch tuple"))
		}
		e.metrics.recordDuration("process", time.Since(start))

		if e.cfg.AutoAck {
			if err := out.Ack(tup.ID); err != nil {
				return e.fatal(err)
			}
		}
		// reset so a later read failure cannot fail the wrong tuple
		e.inflight.clear()
	}
}
