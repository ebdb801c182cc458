package multilang

import (
	"github.com/saeedesfandi/streamparse/errors"
)

// Tuple is one unit of input read from the orchestrator. Identity for
// acknowledgement purposes is solely ID; a Tuple is never mutated after
// it has been decoded.
type Tuple struct {
	// ID is the opaque identifier assigned by the orchestrator
	ID string `json:"id"`
	// Component is the name of the component that produced this tuple
	Component string `json:"comp"`
	// Stream is the logical channel the tuple arrived on
	Stream string `json:"stream"`
	// Task is the numeric id of the source task
	Task int64 `json:"task"`
	// Values is the ordered payload of the tuple
	Values []any `json:"tuple"`
}

// RefID reduces a tuple reference to its protocol id. A reference is
// either a raw string id or a Tuple (value or pointer); anything else is
// an invalid-argument error.
func RefID(ref any) (string, error) {
	switch v := ref.(type) {
	case string:
		return v, nil
	case Tuple:
		return v.ID, nil
	case *Tuple:
		if v == nil {
			return "", errors.ErrBadTupleRef
		}
		return v.ID, nil
	default:
		return "", errors.ErrBadTupleRef
	}
}

// IDs extracts the protocol ids of a slice of tuples, preserving order.
func IDs(tuples []Tuple) []string {
	ids := make([]string, len(tuples))
	for i, t := range tuples {
		ids[i] = t.ID
	}
	return ids
}
