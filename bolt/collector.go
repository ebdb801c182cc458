package bolt

import (
	"sync"

	"github.com/saeedesfandi/streamparse/errors"
	"github.com/saeedesfandi/streamparse/multilang"
)

// inflightSet tracks the tuple(s) currently being processed, used solely
// to know what to anchor to and what to fail on an unhandled error. It is
// cleared on successful completion so a later, unrelated failure cannot
// mis-attribute blame.
type inflightSet struct {
	mu  sync.Mutex
	ids []string
}

func (s *inflightSet) set(tups ...multilang.Tuple) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = multilang.IDs(tups)
}

func (s *inflightSet) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = nil
}

func (s *inflightSet) snapshot() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.ids...)
}

type emitOptions struct {
	stream     string
	anchors    []any
	anchorsSet bool
	directTask *int64
}

// EmitOption configures a single Emit or EmitMany call.
type EmitOption func(*emitOptions)

// WithStream targets a named stream instead of the default one.
func WithStream(stream string) EmitOption {
	return func(o *emitOptions) { o.stream = stream }
}

// WithAnchors anchors the emission to the given tuple references (string
// ids or Tuples). Passing it, even with no anchors, suppresses
// auto-anchoring for the call.
func WithAnchors(anchors ...any) EmitOption {
	return func(o *emitOptions) {
		o.anchors = anchors
		o.anchorsSet = true
	}
}

// WithDirectTask sends the emission straight to a task id, bypassing
// normal stream routing.
func WithDirectTask(task int64) EmitOption {
	return func(o *emitOptions) { o.directTask = &task }
}

// Collector is the output side of a bolt: emissions, acks and fails.
// A Collector is handed to Process/ProcessBatch and is safe for use from
// the goroutine that invoked the bolt.
type Collector struct {
	conn     *multilang.Conn
	cfg      Config
	inflight *inflightSet
	metrics  *engineMetrics
}

func newCollector(conn *multilang.Conn, cfg Config, inflight *inflightSet, metrics *engineMetrics) *Collector {
	return &Collector{conn: conn, cfg: cfg, inflight: inflight, metrics: metrics}
}

// resolveAnchors applies the anchor contract: explicit anchors win (tuple
// references reduced to ids), otherwise auto-anchor falls back to the
// current in-flight ids, otherwise empty.
func (c *Collector) resolveAnchors(o *emitOptions) ([]string, error) {
	if o.anchorsSet {
		ids := make([]string, 0, len(o.anchors))
		for _, a := range o.anchors {
			id, err := multilang.RefID(a)
			if err != nil {
				return nil, errors.WrapInvalidArgument(err, "Collector", "Emit", "resolve anchor")
			}
			ids = append(ids, id)
		}
		return ids, nil
	}
	if c.cfg.AutoAnchor {
		return c.inflight.snapshot(), nil
	}
	return []string{}, nil
}

func (c *Collector) buildEmit(values []any, o *emitOptions) (multilang.EmitMessage, error) {
	anchors, err := c.resolveAnchors(o)
	if err != nil {
		return multilang.EmitMessage{}, err
	}

	msg := multilang.NewEmit(values, anchors)
	msg.Stream = o.stream
	msg.Task = o.directTask
	return msg, nil
}

// Emit writes one tuple downstream. Validation happens before any
// transport write: a nil value list is an invalid-argument error.
func (c *Collector) Emit(values []any, opts ...EmitOption) error {
	if values == nil {
		return errors.WrapInvalidArgument(errors.ErrNilValues, "Collector", "Emit", "validate values")
	}

	var o emitOptions
	for _, opt := range opts {
		opt(&o)
	}

	msg, err := c.buildEmit(values, &o)
	if err != nil {
		return err
	}
	if err := c.conn.WriteMessage(msg); err != nil {
		return err
	}
	c.metrics.recordEmitted(1)
	return nil
}

// EmitMany writes a batch of tuples as one buffered block. The anchor
// contract is applied identically to every tuple in the batch.
func (c *Collector) EmitMany(batches [][]any, opts ...EmitOption) error {
	if len(batches) == 0 {
		return errors.WrapInvalidArgument(errors.ErrEmptyBatch, "Collector", "EmitMany", "validate batch")
	}
	for _, values := range batches {
		if values == nil {
			return errors.WrapInvalidArgument(errors.ErrNilValues, "Collector", "EmitMany", "validate batch entry")
		}
	}

	var o emitOptions
	for _, opt := range opts {
		opt(&o)
	}

	msgs := make([]any, 0, len(batches))
	for _, values := range batches {
		msg, err := c.buildEmit(values, &o)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	if err := c.conn.WriteBatch(msgs); err != nil {
		return err
	}
	c.metrics.recordEmitted(len(msgs))
	return nil
}

// Ack signals that processing of a tuple succeeded. Accepts a string id
// or a Tuple.
func (c *Collector) Ack(ref any) error {
	id, err := multilang.RefID(ref)
	if err != nil {
		return errors.WrapInvalidArgument(err, "Collector", "Ack", "resolve tuple id")
	}
	if err := c.conn.WriteMessage(multilang.NewAck(id)); err != nil {
		return err
	}
	c.metrics.recordAcked()
	return nil
}

// Fail signals that processing of a tuple failed. Accepts a string id or
// a Tuple.
func (c *Collector) Fail(ref any) error {
	id, err := multilang.RefID(ref)
	if err != nil {
		return errors.WrapInvalidArgument(err, "Collector", "Fail", "resolve tuple id")
	}
	if err := c.conn.WriteMessage(multilang.NewFail(id)); err != nil {
		return err
	}
	c.metrics.recordFailed()
	return nil
}
