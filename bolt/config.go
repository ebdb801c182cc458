package bolt

// Config fixes the auto-behaviors of an engine at construction time. The
// zero value disables everything; engines never mutate it at runtime.
type Config struct {
	// AutoAnchor anchors emits to the current in-flight tuple ids when
	// the caller does not pass anchors explicitly
	AutoAnchor bool
	// AutoAck acknowledges each tuple (or batch) after it has been
	// processed without error
	AutoAck bool
	// AutoFail fails the in-flight tuple(s) when processing errors out
	AutoFail bool
}

// BasicConfig is the legacy single-dispatch preset with every
// auto-behavior enabled.
func BasicConfig() Config {
	return Config{AutoAnchor: true, AutoAck: true, AutoFail: true}
}

// BasicBatchingConfig is the legacy batching preset with every
// auto-behavior enabled.
func BasicBatchingConfig() Config {
	return Config{AutoAnchor: true, AutoAck: true, AutoFail: true}
}
