package epa

// faceHeap is a binary min-heap of polytope faces ordered by plane
// distance D, the priority structure EPA's main loop pops from to find
// the face closest to the origin in O(log n) rather than the O(n) scan
// a flat slice would need once polytopes grow past a few dozen faces.
//
// Entries are tombstoned rather than removed when their face is
// deleted from the polytope during silhouette expansion, since a
// binary heap has no O(log n) delete-by-value. Each entry carries the
// generation its face had when pushed; a pop checks that against the
// face's current generation and silently discards stale entries
// rather than sifting mid-heap on every delete.
type faceHeap struct {
	entries []heapEntry
}

type heapEntry struct {
	faceIndex int
	d         float64
	gen       int
}

func (h *faceHeap) push(faceIndex int, d float64, gen int) {
	h.entries = append(h.entries, heapEntry{faceIndex: faceIndex, d: d, gen: gen})
	h.siftUp(len(h.entries) - 1)
}

// pop removes and returns the heap's minimum-D entry. The caller is
// responsible for checking the entry's generation against the
// corresponding face's current generation before trusting it.
func (h *faceHeap) pop() (heapEntry, bool) {
	if len(h.entries) == 0 {
		return heapEntry{}, false
	}

	top := h.entries[0]
	last := len(h.entries) - 1
	h.entries[0] = h.entries[last]
	h.entries = h.entries[:last]
	if len(h.entries) > 0 {
		h.siftDown(0)
	}
	return top, true
}

func (h *faceHeap) reset() {
	h.entries = h.entries[:0]
}

func (h *faceHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if h.entries[parent].d <= h.entries[i].d {
			break
		}
		h.entries[parent], h.entries[i] = h.entries[i], h.entries[parent]
		i = parent
	}
}

func (h *faceHeap) siftDown(i int) {
	n := len(h.entries)
	for {
		left := 2*i + 1
		right := 2*i + 2
		smallest := i

		if left < n && h.entries[left].d < h.entries[smallest].d {
			smallest = left
		}
		if right < n && h.entries[right].d < h.entries[smallest].d {
			smallest = right
		}
		if smallest == i {
			return
		}
		h.entries[smallest], h.entries[i] = h.entries[i], h.entries[smallest]
		i = smallest
	}
}
