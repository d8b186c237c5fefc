package flexbuffers

// Map is a Vector of values paired with a parallel, independently
// sorted Vector of keys, letting Get binary search by key rather than
// scanning.
type Map struct {
	Vector
	keys Vector
}

// KeyAt returns the raw bytes of the key at index i.
func (m Map) KeyAt(i int) []byte {
	return m.keys.Index(i).CString()
}

// Get looks up key by binary search over the sorted keys vector and
// returns the paired value and true, or a null Reference and false if
// key is not present.
func (m Map) Get(key string) (Reference, bool) {
	target := []byte(key)
	lo, hi := 0, m.keys.Len()
	for lo < hi {
		mid := (lo + hi) / 2
		switch compareKeyBytes(m.KeyAt(mid), target) {
		case 0:
			return m.Index(mid), true
		case -1:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return Reference{typ: TypeNull}, false
}

// CString returns a key or blob-like Reference's raw content bytes. For
// a Key it reads forward from the referent until the NUL terminator; for
// a String or Blob it returns the length-prefixed content. It returns
// nil for every other Reference type.
func (r Reference) CString() []byte {
	if r.typ != TypeKey {
		return r.blobLikeIfPresent()
	}
	target := r.target()
	n := uint64(0)
	for {
		b := sliceAt(r.buf, target, n+1)
		if b == nil || b[n] == 0 {
			return sliceAt(r.buf, target, n)
		}
		n++
	}
}

func (r Reference) blobLikeIfPresent() []byte {
	if r.typ.IsBlobLike() {
		return r.blobLikeBytes()
	}
	return nil
}
