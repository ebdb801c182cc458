// Package streamparse implements the worker side of a multilang stream
// topology: long-running bolt processes that speak a line-delimited JSON
// protocol with an orchestrator over stdin/stdout, process tuples, and
// report acks and failures for upstream replay tracking.
//
// # Architecture
//
// A worker process is three layers:
//
//	┌─────────────────────────────────────┐
//	│            Bolt (user code)         │  Process / ProcessBatch
//	└─────────────────────────────────────┘
//	           ↑ dispatched by
//	┌─────────────────────────────────────┐
//	│          Engine (bolt pkg)          │  tuple loop, batching,
//	│   single-dispatch or batching       │  ack/fail/anchor contract
//	└─────────────────────────────────────┘
//	           ↕ frames via
//	┌─────────────────────────────────────┐
//	│        Conn (multilang pkg)         │  handshake, tuples,
//	│    stdin/stdout JSON framing        │  emit/ack/fail/log
//	└─────────────────────────────────────┘
//
// The orchestrator launches the worker, sends a handshake, then streams
// tuples. The engine reads each tuple, hands it to the bolt with a
// Collector for emitting downstream, and applies the configured
// auto-ack, auto-fail, and auto-anchor behavior. Batching engines
// accumulate tuples into per-group batches and flush them on a timer,
// keeping protocol reads decoupled from batch processing.
//
// stdout carries protocol frames exclusively. Logs go to stderr or
// through protocol log messages, never to stdout.
//
// # Packages
//
//   - multilang: wire protocol (framing, handshake, tuple and control
//     messages, cancellable connection)
//   - bolt: execution engines, Collector, bolt interfaces, grouping
//   - config: worker-side YAML configuration
//   - metric: Prometheus metrics and scrape endpoint
//   - errors: classified error handling
//
// # Usage
//
// A minimal bolt:
//
//	type splitter struct{}
//
//	func (splitter) Process(ctx context.Context, out *bolt.Collector, tup multilang.Tuple) error {
//	    for _, word := range strings.Fields(tup.Values[0].(string)) {
//	        if err := out.Emit([]any{word}); err != nil {
//	            return err
//	        }
//	    }
//	    return nil
//	}
//
//	func main() {
//	    conn := multilang.NewConn(os.Stdin, os.Stdout)
//	    defer conn.Close()
//
//	    engine, err := bolt.NewEngine(bolt.EngineDeps{
//	        Name:   "splitter",
//	        Bolt:   splitter{},
//	        Config: bolt.BasicConfig(),
//	        Conn:   conn,
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if err := engine.Run(context.Background()); err != nil {
//	        os.Exit(1)
//	    }
//	}
//
// See cmd/splitsentence and cmd/wordcount for complete workers,
// including batching with per-group dispatch.
package streamparse
