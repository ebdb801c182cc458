// Package bolt provides the execution engines that drive user-defined
// processing units over the multilang protocol.
//
// Two engines are provided. Engine dispatches tuples one at a time on a
// single goroutine: read, process, optionally auto-ack. BatchingEngine
// decouples protocol reads from user batch logic: a producer goroutine
// keeps consuming tuples into a grouped accumulation store while a
// consumer goroutine flushes the store to ProcessBatch on a fixed
// interval. Auto-anchor, auto-ack and auto-fail behavior is fixed per
// engine through an immutable Config; BasicConfig and BasicBatchingConfig
// are the legacy all-on presets.
//
// Neither engine retries anything. Any error from user code or the
// transport is fatal: the in-flight tuples are optionally failed, a
// structured error report is written to the orchestrator's log channel,
// and Run returns a non-nil error so the process can exit non-zero. The
// orchestrator owns respawn and replay.
package bolt
