package bolt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroupKey(t *testing.T) {
	none := NoGroup()
	assert.False(t, none.Grouped())
	assert.Nil(t, none.Key())
	assert.Equal(t, "<no-group>", none.String())

	byWord := GroupBy("hello")
	assert.True(t, byWord.Grouped())
	assert.Equal(t, "hello", byWord.Key())
	assert.Equal(t, "hello", byWord.String())

	// a nil grouping value is still a real group
	byNil := GroupBy(nil)
	assert.True(t, byNil.Grouped())
	assert.NotEqual(t, none, byNil)

	// comparable: usable as a map key, equal keys collide
	seen := map[GroupKey]int{}
	seen[GroupBy("hello")]++
	seen[byWord]++
	seen[none]++
	assert.Equal(t, 2, seen[GroupBy("hello")])
	assert.Equal(t, 1, seen[NoGroup()])
}
