package store

// history is a stack of state snapshots above a floor that is never removed.
// Unbounded histories grow a slice; capped ones keep the undoable entries in
// a ring so a push at the cap drops the oldest entry in constant time.
type history[S any] struct {
	floor S
	ring  []S // unbounded: entries oldest first; capped: fixed-size ring
	start int // capped only: index of the oldest entry
	n     int // entries above the floor
	limit int // max entries above the floor, 0 means unbounded
}

func newHistory[S any](floor S, limit int) *history[S] {
	h := &history[S]{floor: floor, limit: limit}
	if limit > 0 {
		h.ring = make([]S, limit)
	}
	return h
}

func (h *history[S]) slot(i int) int {
	if h.limit == 0 {
		return i
	}
	return (h.start + i) % h.limit
}

func (h *history[S]) top() S {
	if h.n == 0 {
		return h.floor
	}
	return h.ring[h.slot(h.n-1)]
}

func (h *history[S]) len() int {
	return h.n + 1
}

func (h *history[S]) push(state S) {
	switch {
	case h.limit == 0:
		h.ring = append(h.ring, state)
		h.n++
	case h.n < h.limit:
		h.ring[h.slot(h.n)] = state
		h.n++
	default:
		// Full: overwrite the oldest undoable entry, the floor stays.
		h.ring[h.start] = state
		h.start = (h.start + 1) % h.limit
	}
}

// pop drops the top entry unless only the floor is left.
func (h *history[S]) pop() bool {
	if h.n == 0 {
		return false
	}
	var zero S
	i := h.slot(h.n - 1)
	h.ring[i] = zero
	if h.limit == 0 {
		h.ring = h.ring[:i]
	}
	h.n--
	return true
}
