package cdcl

import "container/heap"

// varHeap is a max-heap of currently-unassigned variables ordered by
// activity (ties broken by smallest index), directly modeled on the
// watch-count max-heap this package's DPLL-era ancestor used for picking
// the next literal to branch on — same container/heap shape, a different
// ordering key.
type varHeap struct {
	activity *[]int64 // shared reference to the solver's activity slice
	items    []int32  // heap-ordered variable indices
	pos      map[int32]int
}

func newVarHeap(activity *[]int64, n int) *varHeap {
	h := &varHeap{activity: activity, pos: make(map[int32]int, n)}
	h.items = make([]int32, 0, n)
	for v := int32(1); v <= int32(n); v++ {
		heap.Push(h, v)
	}
	return h
}

func (h *varHeap) Len() int { return len(h.items) }

func (h *varHeap) Less(i, j int) bool {
	act := *h.activity
	vi, vj := h.items[i], h.items[j]
	if act[vi] != act[vj] {
		return act[vi] > act[vj]
	}
	return vi < vj
}

func (h *varHeap) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.pos[h.items[i]] = i
	h.pos[h.items[j]] = j
}

func (h *varHeap) Push(x any) {
	v := x.(int32)
	h.pos[v] = len(h.items)
	h.items = append(h.items, v)
}

func (h *varHeap) Pop() any {
	n := len(h.items)
	v := h.items[n-1]
	h.items = h.items[:n-1]
	delete(h.pos, v)
	return v
}

// popMax removes and returns the unassigned variable of maximum activity.
func (h *varHeap) popMax() (int32, bool) {
	if len(h.items) == 0 {
		return 0, false
	}
	return heap.Pop(h).(int32), true
}

// remove takes v out of the heap (used when a random-branch pick assigns a
// variable the heap hasn't popped yet).
func (h *varHeap) remove(v int32) {
	i, ok := h.pos[v]
	if !ok {
		return
	}
	heap.Remove(h, i)
}

// restore re-inserts v into the heap (used on backtrack, when a previously
// assigned variable becomes unassigned again).
func (h *varHeap) restore(v int32) {
	if _, ok := h.pos[v]; ok {
		return
	}
	heap.Push(h, v)
}

// fix re-establishes heap order for v after its activity changed.
func (h *varHeap) fix(v int32) {
	if i, ok := h.pos[v]; ok {
		heap.Fix(h, i)
	}
}
