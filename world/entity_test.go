package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntityStore(t *testing.T) {
	s := &entityStore{}

	a := s.create()
	b := s.create()

	assert.True(t, a.Valid())
	assert.NotEqual(t, a, b)
	assert.True(t, s.isAlive(a))
	assert.Equal(t, 2, s.live)

	assert.True(t, s.destroy(a))
	assert.False(t, s.destroy(a))
	assert.False(t, s.isAlive(a))

	// the slot is reused with a new generation
	c := s.create()
	assert.Equal(t, a.id(), c.id())
	assert.NotEqual(t, a, c)
	assert.True(t, s.isAlive(c))
	assert.False(t, s.isAlive(a))
	assert.Equal(t, 2, s.live)

	assert.False(t, s.isAlive(0))
	assert.False(t, Entity(0).Valid())
}

func TestStore(t *testing.T) {
	s := &entityStore{}
	st := NewStore[string]()

	a, b, c := s.create(), s.create(), s.create()
	st.Set(a, "a")
	st.Set(b, "b")
	st.Set(c, "c")
	st.Set(b, "bb")

	assert.Equal(t, 3, st.Len())

	v, ok := st.Get(b)
	assert.True(t, ok)
	assert.Equal(t, "bb", *v)

	assert.True(t, st.Remove(a))
	assert.False(t, st.Remove(a))
	assert.False(t, st.Has(a))

	// c was swapped into a's slot, lookups still work
	v, ok = st.Get(c)
	assert.True(t, ok)
	assert.Equal(t, "c", *v)
	assert.ElementsMatch(t, []Entity{b, c}, st.Entities())

	// a recycled id does not see the old value
	s.destroy(c)
	d := s.create()
	assert.Equal(t, c.id(), d.id())
	assert.False(t, st.Has(d))

	st.Clear()
	assert.Equal(t, 0, st.Len())
	assert.False(t, st.Has(b))
}
