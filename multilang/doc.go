// Package multilang implements the worker side of the Storm multilang
// protocol: line-delimited JSON messages over a byte stream pair, with each
// message terminated by a sentinel line containing "end".
//
// The package owns the protocol boundary only. It decodes the initial
// handshake and inbound tuples, and encodes outbound emit/ack/fail/log
// messages. Delivery semantics (anchoring, auto-ack, batching) live in the
// bolt package, which drives a Conn.
package multilang
