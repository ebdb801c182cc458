package bolt

import (
	"context"

	"github.com/saeedesfandi/streamparse/multilang"
)

// Bolt processes one tuple at a time. Process may call any collector
// operation any number of times; returning an error is fatal to the
// worker.
type Bolt interface {
	Process(ctx context.Context, out *Collector, tup multilang.Tuple) error
}

// BatchingBolt processes tuples accumulated over a flush interval, one
// call per non-empty group. Tuples arrive in strict arrival order within
// a group; returning an error is fatal to the worker.
type BatchingBolt interface {
	ProcessBatch(ctx context.Context, out *Collector, key GroupKey, tups []multilang.Tuple) error
}

// Initializer is implemented by bolts that need a setup hook. It runs
// once, after the handshake and before the run loop, with the
// orchestrator-supplied configuration and topology context. An error
// here is a fatal start-up failure.
type Initializer interface {
	Initialize(conf, topology map[string]any) error
}

// Grouper is implemented by batching bolts that partition tuples into
// independent batches. Bolts that don't implement it get one global
// NoGroup batch.
type Grouper interface {
	GroupKey(tup multilang.Tuple) GroupKey
}

// AsGrouper safely casts a batching bolt to Grouper.
func AsGrouper(b BatchingBolt) (Grouper, bool) {
	g, ok := b.(Grouper)
	return g, ok
}

// AsInitializer safely casts a bolt to Initializer.
func AsInitializer(b any) (Initializer, bool) {
	init, ok := b.(Initializer)
	return init, ok
}
