package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringSet(t *testing.T) {
	s := make(StringSet)
	s.Insert("10.0.0.0/24")
	s.Insert("10.0.1.0/24")
	s.Insert("10.0.0.0/24")

	assert.Len(t, s, 2, "duplicate inserts collapse")
	assert.True(t, s.Contains("10.0.1.0/24"))
	assert.False(t, s.Contains("10.0.2.0/24"))
	assert.Equal(t, []string{"10.0.0.0/24", "10.0.1.0/24"}, s.SortedItems())

	other := StringSet{"10.0.1.0/24": {}}
	assert.True(t, s.Intersects(other))
	assert.True(t, other.Intersects(s))
	assert.False(t, s.Intersects(StringSet{"192.0.2.0/24": {}}))
	assert.False(t, s.Intersects(nil))
}

func TestIntSet(t *testing.T) {
	s := make(IntSet)
	for _, i := range []int{9, 3, 5, 3} {
		s.Insert(i)
	}
	assert.Equal(t, []int{3, 5, 9}, s.SortedItems())
	assert.True(t, s.Contains(5))
	assert.False(t, s.Contains(4))
}
