package multilang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saeedesfandi/streamparse/errors"
)

func TestRefID(t *testing.T) {
	tup := Tuple{ID: "t-1", Component: "spout", Values: []any{"hello"}}

	tests := []struct {
		name    string
		ref     any
		want    string
		wantErr bool
	}{
		{"string id", "abc", "abc", false},
		{"tuple value", tup, "t-1", false},
		{"tuple pointer", &tup, "t-1", false},
		{"nil tuple pointer", (*Tuple)(nil), "", true},
		{"integer", 42, "", true},
		{"nil", nil, "", true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := RefID(test.ref)
			if test.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, errors.ErrBadTupleRef)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.want, got)
		})
	}
}

func TestIDs(t *testing.T) {
	tups := []Tuple{{ID: "1"}, {ID: "2"}, {ID: "3"}}
	assert.Equal(t, []string{"1", "2", "3"}, IDs(tups))
	assert.Empty(t, IDs(nil))
}
