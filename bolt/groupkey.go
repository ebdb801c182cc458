package bolt

import "fmt"

// GroupKey partitions tuples into independent batches. It is a tagged
// value: NoGroup is the explicit "one global batch" case, distinct from
// any caller-supplied key, so a legitimate nil or zero key never
// collides with the ungrouped sentinel.
//
// Keys are used as map keys and must be comparable.
type GroupKey struct {
	grouped bool
	key     any
}

// NoGroup returns the ungrouped key. All tuples land in a single batch.
func NoGroup() GroupKey {
	return GroupKey{}
}

// GroupBy returns a key that routes tuples into the batch for key.
func GroupBy(key any) GroupKey {
	return GroupKey{grouped: true, key: key}
}

// Grouped reports whether this is a caller-supplied key rather than the
// ungrouped sentinel.
func (k GroupKey) Grouped() bool {
	return k.grouped
}

// Key returns the caller-supplied key, or nil for NoGroup.
func (k GroupKey) Key() any {
	return k.key
}

// String renders the key for logs.
func (k GroupKey) String() string {
	if !k.grouped {
		return "<no-group>"
	}
	return fmt.Sprintf("%v", k.key)
}
