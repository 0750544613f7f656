package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(h *history[int]) []int {
	var out []int
	for {
		out = append(out, h.top())
		if !h.pop() {
			return out
		}
	}
}

func TestHistory(t *testing.T) {
	t.Parallel()

	t.Run("unbounded", func(t *testing.T) {
		t.Parallel()
		h := newHistory(0, 0)
		for i := 1; i <= 5; i++ {
			h.push(i)
		}
		assert.Equal(t, 6, h.len())
		assert.Equal(t, []int{5, 4, 3, 2, 1, 0}, drain(h))
		assert.Equal(t, 1, h.len())
	})

	t.Run("capped ring wraps and keeps the floor", func(t *testing.T) {
		t.Parallel()
		h := newHistory(0, 3)
		for i := 1; i <= 7; i++ {
			h.push(i)
			require.Equal(t, i, h.top())
		}
		assert.Equal(t, 4, h.len())
		assert.Equal(t, []int{7, 6, 5, 0}, drain(h))
	})

	t.Run("capped push after pop reuses slots", func(t *testing.T) {
		t.Parallel()
		h := newHistory(0, 2)
		h.push(1)
		h.push(2)
		h.push(3)
		require.True(t, h.pop())
		h.push(4)
		h.push(5)
		assert.Equal(t, []int{5, 4, 0}, drain(h))
	})

	t.Run("floor never pops", func(t *testing.T) {
		t.Parallel()
		h := newHistory(9, 1)
		assert.False(t, h.pop())
		assert.Equal(t, 9, h.top())
		assert.Equal(t, 1, h.len())
	})
}
