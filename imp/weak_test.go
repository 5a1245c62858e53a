package imp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeakUpgrade(t *testing.T) {
	h := New(1)
	w := h.Downgrade()
	assert.Equal(t, 1, h.WeakCount())
	assert.True(t, w.Alive())

	h2, ok := w.Upgrade()
	require.True(t, ok)
	assert.True(t, Same(h, h2))
	assert.Equal(t, 2, h.StrongCount())

	h.Drop()
	h2.Drop()
	assert.False(t, w.Alive())

	h3, ok := w.Upgrade()
	assert.False(t, ok)
	assert.Nil(t, h3)
}

func TestWeakRelease(t *testing.T) {
	h := New(1)
	w := h.Downgrade()

	w.Release()
	w.Release()
	assert.Equal(t, 0, h.WeakCount())
	assert.False(t, w.Alive())

	var nilWeak *Weak[int]
	_, ok := nilWeak.Upgrade()
	assert.False(t, ok)
}

type node struct {
	name     string
	parent   *Weak[*node]
	children []*Handle[*node]
}

func TestWeakBreaksParentCycle(t *testing.T) {
	var destroyed []string
	onDrop := OnDrop(func(n *node) {
		destroyed = append(destroyed, n.name)
		for _, c := range n.children {
			c.Drop()
		}
	})

	parent := New(&node{name: "parent"}, onDrop)
	child := New(&node{name: "child"}, onDrop)

	child.Update(func(n **node) { (*n).parent = parent.Downgrade() })
	parent.Update(func(n **node) { (*n).children = append((*n).children, child.Clone()) })

	back := child.Get().parent
	up, ok := back.Upgrade()
	require.True(t, ok)
	assert.Equal(t, "parent", up.Get().name)
	up.Drop()

	child.Drop()
	assert.Empty(t, destroyed, "parent still owns a clone of the child")

	parent.Drop()
	assert.Equal(t, []string{"parent", "child"}, destroyed)
	assert.False(t, back.Alive())
}
