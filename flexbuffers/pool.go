package flexbuffers

import "hash/maphash"

// internPool maps the content hash of a previously written, NUL
// terminated byte string to the sloc(s) it was written at. Lookup always
// confirms byte equality against the buffer before reporting a hit: a
// hash collision must never silently alias two different keys or
// strings.
type internPool struct {
	seed    maphash.Seed
	entries map[uint64][]uint64
}

func newInternPool() *internPool {
	return &internPool{
		seed:    maphash.MakeSeed(),
		entries: map[uint64][]uint64{},
	}
}

func (p *internPool) hash(content []byte) uint64 {
	var h maphash.Hash
	h.SetSeed(p.seed)
	h.Write(content)
	return h.Sum64()
}

// find returns the sloc of a prior entry whose stored bytes equal
// content, and true, or (0, false) on a miss. dataAt must return exactly
// n bytes starting at sloc.
func (p *internPool) find(content []byte, dataAt func(sloc uint64, n int) []byte) (uint64, bool) {
	h := p.hash(content)
	for _, sloc := range p.entries[h] {
		if bytesEqual(dataAt(sloc, len(content)), content) {
			return sloc, true
		}
	}
	return 0, false
}

func (p *internPool) record(content []byte, sloc uint64) {
	h := p.hash(content)
	p.entries[h] = append(p.entries[h], sloc)
}

func (p *internPool) reset() {
	p.entries = map[uint64][]uint64{}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
