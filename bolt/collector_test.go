package bolt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saeedesfandi/streamparse/errors"
	"github.com/saeedesfandi/streamparse/multilang"
)

func TestCollector_Emit_NilValues(t *testing.T) {
	c, out := newTestCollector(Config{}, nil)

	err := c.Emit(nil)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
	// validation happens before any transport write
	assert.Zero(t, out.Len())
}

func TestCollector_Emit_AnchorsDefaultEmpty(t *testing.T) {
	c, out := newTestCollector(Config{}, nil)

	require.NoError(t, c.Emit([]any{"hello"}))

	msgs := decodeOutput(t, out.String())
	require.Len(t, msgs, 1)
	assert.Equal(t, []any{}, msgs[0]["anchors"])
}

func TestCollector_Emit_AutoAnchor(t *testing.T) {
	inflight := &inflightSet{}
	inflight.set(multilang.Tuple{ID: "42"})
	c, out := newTestCollector(Config{AutoAnchor: true}, inflight)

	require.NoError(t, c.Emit([]any{"word"}))

	msgs := decodeOutput(t, out.String())
	require.Len(t, msgs, 1)
	assert.Equal(t, []any{"42"}, msgs[0]["anchors"])
}

func TestCollector_Emit_ExplicitAnchorsWin(t *testing.T) {
	inflight := &inflightSet{}
	inflight.set(multilang.Tuple{ID: "42"})
	c, out := newTestCollector(Config{AutoAnchor: true}, inflight)

	// explicit anchors, including Tuple references, override auto-anchor
	require.NoError(t, c.Emit([]any{"word"},
		WithAnchors("a1", multilang.Tuple{ID: "a2"})))

	msgs := decodeOutput(t, out.String())
	require.Len(t, msgs, 1)
	assert.Equal(t, []any{"a1", "a2"}, msgs[0]["anchors"])
}

func TestCollector_Emit_ExplicitEmptyAnchorsSuppressAuto(t *testing.T) {
	inflight := &inflightSet{}
	inflight.set(multilang.Tuple{ID: "42"})
	c, out := newTestCollector(Config{AutoAnchor: true}, inflight)

	require.NoError(t, c.Emit([]any{"word"}, WithAnchors()))

	msgs := decodeOutput(t, out.String())
	require.Len(t, msgs, 1)
	assert.Equal(t, []any{}, msgs[0]["anchors"])
}

func TestCollector_Emit_BadAnchorRef(t *testing.T) {
	c, out := newTestCollector(Config{}, nil)

	err := c.Emit([]any{"word"}, WithAnchors(99))
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
	assert.Zero(t, out.Len())
}

func TestCollector_Emit_Routing(t *testing.T) {
	c, out := newTestCollector(Config{}, nil)

	require.NoError(t, c.Emit([]any{"word"}, WithStream("words"), WithDirectTask(7)))

	msgs := decodeOutput(t, out.String())
	require.Len(t, msgs, 1)
	assert.Equal(t, "words", msgs[0]["stream"])
	assert.Equal(t, float64(7), msgs[0]["task"])
}

func TestCollector_EmitMany_InvalidBatches(t *testing.T) {
	c, out := newTestCollector(Config{}, nil)

	err := c.EmitMany(nil)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))

	err = c.EmitMany([][]any{})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))

	err = c.EmitMany([][]any{{"a"}, nil})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))

	assert.Zero(t, out.Len())
}

func TestCollector_EmitMany_OneBlock(t *testing.T) {
	// emit_many with anchors omitted and auto-anchor disabled: every
	// emitted tuple carries an empty anchors list, one frame per tuple,
	// each terminated by the sentinel line.
	c, out := newTestCollector(Config{}, nil)

	require.NoError(t, c.EmitMany([][]any{{"a"}, {"b"}}))

	raw := out.String()
	assert.Equal(t, 2, strings.Count(raw, "\nend\n"))

	msgs := decodeOutput(t, raw)
	require.Len(t, msgs, 2)
	for i, values := range []any{[]any{"a"}, []any{"b"}} {
		assert.Equal(t, "emit", msgs[i]["command"])
		assert.Equal(t, values, msgs[i]["tuple"])
		assert.Equal(t, []any{}, msgs[i]["anchors"])
	}
}

func TestCollector_EmitMany_AnchorRuleAppliesToAll(t *testing.T) {
	inflight := &inflightSet{}
	inflight.set(multilang.Tuple{ID: "t-9"})
	c, out := newTestCollector(Config{AutoAnchor: true}, inflight)

	require.NoError(t, c.EmitMany([][]any{{"a"}, {"b"}, {"c"}}))

	msgs := decodeOutput(t, out.String())
	require.Len(t, msgs, 3)
	for _, m := range msgs {
		assert.Equal(t, []any{"t-9"}, m["anchors"])
	}
}

func TestCollector_AckFail_RefReduction(t *testing.T) {
	c, out := newTestCollector(Config{}, nil)

	require.NoError(t, c.Ack("id-1"))
	require.NoError(t, c.Ack(multilang.Tuple{ID: "id-2"}))
	require.NoError(t, c.Fail(&multilang.Tuple{ID: "id-3"}))

	msgs := decodeOutput(t, out.String())
	require.Len(t, msgs, 3)
	assert.Equal(t, map[string]any{"command": "ack", "id": "id-1"}, msgs[0])
	assert.Equal(t, map[string]any{"command": "ack", "id": "id-2"}, msgs[1])
	assert.Equal(t, map[string]any{"command": "fail", "id": "id-3"}, msgs[2])
}

func TestCollector_AckFail_BadRef(t *testing.T) {
	c, out := newTestCollector(Config{}, nil)

	err := c.Ack(12.5)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))

	err = c.Fail(struct{}{})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))

	assert.Zero(t, out.Len())
}
