package flexbuffers

import "sort"

// sortMapPairs returns the permutation of pair indices (0..n-1, where
// pair i is region[2*i], region[2*i+1]) that orders the pairs by their
// key bytes, and whether any two pairs share byte-identical keys.
//
// Comparison reads each key's bytes directly out of the buffer via
// dataAt, stopping at the shorter key's length the way a NUL-terminated
// strcmp would, then breaking a shared-prefix tie by length. This
// matches the ordering a reader performs when binary searching a map by
// key at lookup time, so the keys vector this produces is always
// correctly sorted from that reader's point of view.
func sortMapPairs(region []value, dataAt func(sloc uint64, n int) []byte) ([]int, bool) {
	n := len(region) / 2
	order := make([]int, n)
	keyBytes := make([][]byte, n)
	for i := 0; i < n; i++ {
		order[i] = i
		keyBytes[i] = keyContentBytes(region[2*i], dataAt)
	}

	sort.SliceStable(order, func(a, b int) bool {
		return compareKeyBytes(keyBytes[order[a]], keyBytes[order[b]]) < 0
	})

	dup := false
	for i := 1; i < n; i++ {
		if compareKeyBytes(keyBytes[order[i-1]], keyBytes[order[i]]) == 0 {
			dup = true
		}
	}
	return order, dup
}

// keyContentBytes reads a key value's NUL-terminated content back out
// of the buffer, not including the terminator. It walks forward from
// sloc one byte at a time since the key's own length was never
// recorded; keys are expected to be short, so this is not a hot-path
// concern.
func keyContentBytes(key value, dataAt func(sloc uint64, n int) []byte) []byte {
	n := 0
	for dataAt(key.sloc, n+1)[n] != 0 {
		n++
	}
	return dataAt(key.sloc, n)
}

func compareKeyBytes(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}
