package flexbuffers

import (
	"fmt"
	"math"

	"github.com/datatrails/go-datatrails-common/logger"
)

// Builder constructs a single FlexBuffers buffer using the reference
// two-pass stack discipline: children are always fully written and
// pushed onto the construction stack before the vector or map that
// contains them is closed off. Strings, keys, and blobs are written to
// the tail of the growing buffer immediately; scalars stay on the stack
// as inline values until their enclosing vector, map, or Finish writes
// them; vectors and maps defer their own header until EndVector/EndMap,
// once every child's width is known.
//
// A Builder is not safe for concurrent use. Each Add/Start/End call
// mutates the stack and the buffer in place.
type Builder struct {
	buf  *growableBuffer
	opts BuilderOptions

	stack []value

	keyPool    *internPool
	stringPool *internPool
	vecPool    *internPool

	finished          bool
	hasDuplicateKeys  bool
}

// New returns a Builder with the given initial buffer capacity and no
// sharing. Use NewWithOptions to enable key/string interning or to raise
// the minimum bit width.
func New(initialSize int) *Builder {
	return NewWithOptions(WithInitialSize(initialSize))
}

// NewWithOptions returns a Builder configured by opts.
func NewWithOptions(opts ...Option) *Builder {
	o := newBuilderOptions(opts...)
	return &Builder{
		buf:        newGrowableBuffer(o.InitialSize, o.MaxBufferSize),
		opts:       o,
		keyPool:    newInternPool(),
		stringPool: newInternPool(),
		vecPool:    newInternPool(),
	}
}

func (bb *Builder) mustNotBeFinished() {
	if bb.finished {
		panic(newMisuseError("builder already finished; call Reset before reuse"))
	}
}

func (bb *Builder) push(v value) { bb.stack = append(bb.stack, v) }

func (bb *Builder) dataAt(sloc uint64, n int) []byte {
	return bb.buf.data[sloc : sloc+uint64(n)]
}

// AddNull pushes a null value.
func (bb *Builder) AddNull() {
	bb.mustNotBeFinished()
	bb.push(newInlineNull())
}

// AddBool pushes a boolean value.
func (bb *Builder) AddBool(v bool) {
	bb.mustNotBeFinished()
	bb.push(newInlineBool(v))
}

// AddInt pushes a signed integer value, narrowed to however few bytes
// its magnitude needs.
func (bb *Builder) AddInt(v int64) {
	bb.mustNotBeFinished()
	bb.push(newInlineInt(v))
}

// AddUint pushes an unsigned integer value, narrowed to however few
// bytes its magnitude needs.
func (bb *Builder) AddUint(v uint64) {
	bb.mustNotBeFinished()
	bb.push(newInlineUint(v))
}

// AddFloat32 pushes a single precision float value.
func (bb *Builder) AddFloat32(v float32) {
	bb.mustNotBeFinished()
	bb.push(newInlineFloat(float64(v), BitWidth32))
}

// AddFloat64 pushes a double precision float value.
func (bb *Builder) AddFloat64(v float64) {
	bb.mustNotBeFinished()
	bb.push(newInlineFloat(v, BitWidth64))
}

// AddString pushes a length-prefixed, NUL-terminated UTF-8 string,
// interning it in the string pool when the Builder's flags are
// ShareKeysAndStrings or higher.
func (bb *Builder) AddString(v string) {
	bb.mustNotBeFinished()
	bb.push(bb.internString([]byte(v)))
}

// AddBlob pushes a length-prefixed opaque byte string.
func (bb *Builder) AddBlob(v []byte) {
	bb.mustNotBeFinished()
	bb.push(bb.writeBlobLike(v, 0, TypeBlob))
}

// AddKey pushes a NUL-terminated, unprefixed key, interning it in the
// key pool when the Builder's flags are ShareKeys or higher (any
// non-zero flags, ShareStrings alone included). A key must precede the value it
// names inside a map frame; EndMap rejects a frame whose stack region
// does not alternate key, value pairs.
func (bb *Builder) AddKey(key string) {
	bb.mustNotBeFinished()
	bb.push(bb.internKey([]byte(key)))
}

func (bb *Builder) internKey(content []byte) value {
	startPos := bb.buf.len()
	sloc := uint64(bb.buf.len())
	bb.buf.writeBytes(content)
	bb.buf.writeZero(1)
	v := newOffsetValue(sloc, TypeKey, BitWidth8)
	if !bb.opts.Flags.sharesKeys() {
		return v
	}
	if found, ok := bb.keyPool.find(content, bb.dataAt); ok {
		logger.Sugar.Debugf("builder: key pool hit for %q at sloc=%d", content, found)
		bb.buf.data = bb.buf.data[:startPos]
		v.sloc = found
		return v
	}
	logger.Sugar.Debugf("builder: key pool miss for %q, interning at sloc=%d", content, v.sloc)
	bb.keyPool.record(content, v.sloc)
	return v
}

func (bb *Builder) internString(content []byte) value {
	startPos := bb.buf.len()
	v := bb.writeBlobLike(content, 1, TypeString)
	if !bb.opts.Flags.sharesStrings() {
		return v
	}
	if found, ok := bb.stringPool.find(content, bb.dataAt); ok {
		logger.Sugar.Debugf("builder: string pool hit for %q at sloc=%d", content, found)
		bb.buf.data = bb.buf.data[:startPos]
		v.sloc = found
		return v
	}
	logger.Sugar.Debugf("builder: string pool miss for %q, interning at sloc=%d", content, v.sloc)
	bb.stringPool.record(content, v.sloc)
	return v
}

// writeBlobLike writes a length prefix (width elected from the content's
// own length), the content itself, and trailing zero bytes, returning an
// offset value pointing at the first content byte. trailing is 1 for
// NUL-terminated strings and 0 for plain blobs.
func (bb *Builder) writeBlobLike(content []byte, trailing int, typ Type) value {
	ln := len(content)
	bw := widthU(uint64(ln))
	byteWidth := bb.buf.align(bw.ByteWidth())
	bb.buf.writeUint(uint64(ln), byteWidth)
	sloc := uint64(bb.buf.len())
	bb.buf.writeBytes(content)
	if trailing > 0 {
		bb.buf.writeZero(trailing)
	}
	return newOffsetValue(sloc, typ, bw)
}

// --- keyed scalar convenience wrappers -------------------------------

func (bb *Builder) AddNullKey(key string)              { bb.AddKey(key); bb.AddNull() }
func (bb *Builder) AddBoolKey(key string, v bool)       { bb.AddKey(key); bb.AddBool(v) }
func (bb *Builder) AddIntKey(key string, v int64)       { bb.AddKey(key); bb.AddInt(v) }
func (bb *Builder) AddUintKey(key string, v uint64)     { bb.AddKey(key); bb.AddUint(v) }
func (bb *Builder) AddFloat32Key(key string, v float32) { bb.AddKey(key); bb.AddFloat32(v) }
func (bb *Builder) AddFloat64Key(key string, v float64) { bb.AddKey(key); bb.AddFloat64(v) }
func (bb *Builder) AddStringKey(key string, v string)   { bb.AddKey(key); bb.AddString(v) }
func (bb *Builder) AddBlobKey(key string, v []byte)     { bb.AddKey(key); bb.AddBlob(v) }

// --- vectors ----------------------------------------------------------

// StartVector marks the start of a new vector frame and returns a
// marker to pass to EndVector.
func (bb *Builder) StartVector() int {
	bb.mustNotBeFinished()
	logger.Sugar.Debugf("builder: open vector frame at stack depth %d", len(bb.stack))
	return len(bb.stack)
}

// StartVectorKey is StartVector preceded by a key, for use as a map
// value.
func (bb *Builder) StartVectorKey(key string) int {
	bb.AddKey(key)
	return bb.StartVector()
}

// EndVector closes the vector frame opened at marker, emitting every
// stack value pushed since then as the vector's elements and replacing
// them on the stack with the single resulting vector value.
//
// typed requires every element to share the same Type and emits a typed
// vector with no per-element type bytes. fixed additionally omits the
// length prefix, relying on the tag alone to convey the length, and is
// only valid for lengths 2, 3 or 4.
func (bb *Builder) EndVector(marker int, typed, fixed bool) int {
	bb.mustNotBeFinished()
	elems := bb.stack[marker:]
	if fixed && !typed {
		panic(newMisuseError("a fixed vector must also be typed"))
	}
	if fixed && (len(elems) < 2 || len(elems) > 4) {
		panic(newMisuseError(fmt.Sprintf("a fixed vector must have 2, 3 or 4 elements, got %d", len(elems))))
	}
	v := bb.emitVector(elems, typed, fixed, nil)
	logger.Sugar.Debugf("builder: close vector frame at %d, n=%d, sloc=%d, width=%v", marker, len(elems), v.sloc, v.width)
	bb.stack = append(bb.stack[:marker], v)
	return int(v.sloc)
}

// emitVector writes elems as a vector frame and returns the resulting
// offset value, without touching the construction stack. When keys is
// non-nil the frame is a map's value vector: it gains a 3 word prefix
// (keys back-offset, keys byte width, count) instead of the usual 1
// word count, per the map layout.
func (bb *Builder) emitVector(elems []value, typed, fixed bool, keys *value) value {
	count := len(elems)
	bw := widthU(uint64(count))
	if bb.opts.MinBitWidth > bw {
		bw = bb.opts.MinBitWidth
	}

	prefixElems := 1
	if keys != nil {
		prefixElems = 3
	}

	bufferSize := uint64(bb.buf.len())
	if keys != nil {
		if w := keys.elementWidth(bufferSize, 0); w > bw {
			bw = w
		}
	}

	var elemType Type
	if typed {
		elemType = elems[0].typ
		for _, e := range elems {
			if e.typ != elemType {
				panic(newMisuseError("typed vector elements must share a single type"))
			}
		}
	}

	for i, e := range elems {
		if w := e.elementWidth(bufferSize, uint64(i+prefixElems)); w > bw {
			logger.Sugar.Debugf("builder: width promoted %v -> %v by element %d", bw, w, i)
			bw = w
		}
	}

	byteWidth := bb.buf.align(bw.ByteWidth())

	if keys != nil {
		bb.writeValueAt(*keys, byteWidth)
		bb.buf.writeUint(uint64(keys.width.ByteWidth()), byteWidth)
	}
	if !fixed {
		bb.buf.writeUint(uint64(count), byteWidth)
	}

	vloc := uint64(bb.buf.len())
	for _, e := range elems {
		bb.writeValueAt(e, byteWidth)
	}
	if !typed {
		for _, e := range elems {
			bb.buf.writeBytes([]byte{packType(e.storedWidth(bw), e.typ)})
		}
	}

	var resultType Type
	switch {
	case keys != nil:
		resultType = TypeMap
	case typed && fixed:
		resultType = ToTypedVector(elemType, count)
	case typed:
		resultType = ToTypedVector(elemType, 0)
	default:
		resultType = TypeVector
	}
	return newOffsetValue(vloc, resultType, bw)
}

// writeValueAt writes v at the buffer's current tail, occupying exactly
// byteWidth bytes. Inline scalars write their own (possibly widened)
// payload; every other type writes a relative back-offset to v.sloc.
func (bb *Builder) writeValueAt(v value, byteWidth int) {
	switch v.typ {
	case TypeNull:
		bb.buf.writeZero(byteWidth)
	case TypeInt:
		bb.buf.writeInt(v.i, byteWidth)
	case TypeUint, TypeBool:
		bb.buf.writeUint(v.u, byteWidth)
	case TypeFloat:
		bb.writeFloatAt(v.f, byteWidth)
	default:
		offset := uint64(bb.buf.len()) - v.sloc
		bb.buf.writeUint(offset, byteWidth)
	}
}

func (bb *Builder) writeFloatAt(f float64, byteWidth int) {
	if byteWidth == 4 {
		bb.buf.writeUint(uint64(math.Float32bits(float32(f))), 4)
		return
	}
	bb.buf.writeUint(math.Float64bits(f), byteWidth)
}

// CreateTypedVectorInt appends a fixed-width int vector in a single
// pass, bypassing the construction stack: the reference implementation
// offers this as a fast path for data already held in a native slice.
func (bb *Builder) CreateTypedVectorInt(values []int64) int {
	bb.mustNotBeFinished()
	elems := make([]value, len(values))
	for i, v := range values {
		elems[i] = newInlineInt(v)
	}
	v := bb.emitVector(elems, true, false, nil)
	bb.push(v)
	return int(v.sloc)
}

// CreateTypedVectorUint is CreateTypedVectorInt for unsigned values.
func (bb *Builder) CreateTypedVectorUint(values []uint64) int {
	bb.mustNotBeFinished()
	elems := make([]value, len(values))
	for i, v := range values {
		elems[i] = newInlineUint(v)
	}
	v := bb.emitVector(elems, true, false, nil)
	bb.push(v)
	return int(v.sloc)
}

// CreateTypedVectorFloat64 is CreateTypedVectorInt for double precision
// floats.
func (bb *Builder) CreateTypedVectorFloat64(values []float64) int {
	bb.mustNotBeFinished()
	elems := make([]value, len(values))
	for i, v := range values {
		elems[i] = newInlineFloat(v, BitWidth64)
	}
	v := bb.emitVector(elems, true, false, nil)
	bb.push(v)
	return int(v.sloc)
}

// CreateTypedVectorBool is CreateTypedVectorInt for booleans.
func (bb *Builder) CreateTypedVectorBool(values []bool) int {
	bb.mustNotBeFinished()
	elems := make([]value, len(values))
	for i, v := range values {
		elems[i] = newInlineBool(v)
	}
	v := bb.emitVector(elems, true, false, nil)
	bb.push(v)
	return int(v.sloc)
}

// --- maps ---------------------------------------------------------------

// StartMap marks the start of a new map frame and returns a marker to
// pass to EndMap. Between StartMap and EndMap, every value must be
// preceded by AddKey (or one of the *Key convenience wrappers).
func (bb *Builder) StartMap() int {
	bb.mustNotBeFinished()
	logger.Sugar.Debugf("builder: open map frame at stack depth %d", len(bb.stack))
	return len(bb.stack)
}

// StartMapKey is StartMap preceded by a key, for use as a nested map
// value.
func (bb *Builder) StartMapKey(key string) int {
	bb.AddKey(key)
	return bb.StartMap()
}

// EndMap closes the map frame opened at marker. The stack region from
// marker to the top must alternate key, value, key, value: EndMap sorts
// the pairs by key byte content, detects duplicate keys (surfaced
// afterwards via HasDuplicateKeys), and emits a typed keys vector
// followed by the value vector.
func (bb *Builder) EndMap(marker int) int {
	bb.mustNotBeFinished()
	region := bb.stack[marker:]
	if len(region)%2 != 0 {
		panic(newMisuseError("a map frame must have an even number of stack entries (key, value pairs)"))
	}
	n := len(region) / 2
	for i := 0; i < n; i++ {
		if region[2*i].typ != TypeKey {
			panic(newMisuseError("map frame entries must alternate key, value"))
		}
	}

	order, dup := sortMapPairs(region, bb.dataAt)
	if dup {
		bb.hasDuplicateKeys = true
	}

	keys := make([]value, n)
	vals := make([]value, n)
	for i, pairIdx := range order {
		keys[i] = region[2*pairIdx]
		vals[i] = region[2*pairIdx+1]
	}

	keysValue := bb.emitKeysVector(keys)
	v := bb.emitVector(vals, false, false, &keysValue)
	logger.Sugar.Debugf("builder: close map frame at %d, n=%d, sloc=%d, dup=%v", marker, n, v.sloc, dup)
	bb.stack = append(bb.stack[:marker], v)
	return int(v.sloc)
}

// emitKeysVector writes keys as its own standalone typed vector,
// consulting and populating the key-vector sharing pool when the
// Builder's flags are ShareAll. The vector's own sloc is retained but it
// is never pushed onto the construction stack; it only feeds the
// subsequent value-vector emission as that frame's keys pointer.
func (bb *Builder) emitKeysVector(keys []value) value {
	var digest []byte
	if bb.opts.Flags >= ShareAll {
		digest = make([]byte, 0, len(keys)*8)
		for _, k := range keys {
			digest = bb.appendSlocDigest(digest, k.sloc)
		}
		if sloc, ok := bb.vecPool.find(digest, bb.dataAt); ok {
			return newOffsetValue(sloc, TypeVectorKey, BitWidth8)
		}
	}
	v := bb.emitVector(keys, true, false, nil)
	if digest != nil {
		bb.vecPool.record(digest, v.sloc)
	}
	return v
}

func (bb *Builder) appendSlocDigest(digest []byte, sloc uint64) []byte {
	var tmp [8]byte
	for i := 0; i < 8; i++ {
		tmp[i] = byte(sloc >> (8 * uint(i)))
	}
	return append(digest, tmp[:]...)
}

// HasDuplicateKeys reports whether any map finished by this Builder
// contained two pairs with byte-identical keys. Both pairs are
// retained, the earlier one first (the key sort is stable), and which of
// them Map.Get returns depends on the binary search; this flag merely
// surfaces that the input was not a well-formed map, for callers who
// want to treat it as an error.
func (bb *Builder) HasDuplicateKeys() bool { return bb.hasDuplicateKeys }

// --- finishing ----------------------------------------------------------

// Finish closes the buffer: the single remaining stack value becomes
// the root, the buffer is aligned to the root's width, the root is
// written, and the packed type plus root byte width trailer bytes are
// appended. Finish panics if zero or more than one value sits on the
// stack; a Builder only ever finishes a single top-level value, which
// is typically a vector or map.
func (bb *Builder) Finish() []byte {
	bb.mustNotBeFinished()
	if len(bb.stack) != 1 {
		panic(newMisuseError(fmt.Sprintf("Finish requires exactly one root value on the stack, found %d", len(bb.stack))))
	}
	root := bb.stack[0]

	bw := bb.opts.MinBitWidth
	if w := root.elementWidth(uint64(bb.buf.len()), 0); w > bw {
		logger.Sugar.Debugf("builder: root width promoted %v -> %v", bb.opts.MinBitWidth, w)
		bw = w
	}
	byteWidth := bb.buf.align(bw.ByteWidth())
	logger.Sugar.Debugf("builder: finishing root type=%v width=%v byteWidth=%d", root.typ, bw, byteWidth)
	bb.writeValueAt(root, byteWidth)
	bb.buf.writeBytes([]byte{packType(root.storedWidth(bw), root.typ)})
	bb.buf.writeBytes([]byte{byte(byteWidth)})

	bb.finished = true
	bb.stack = nil
	return bb.buf.bytes()
}

// Bytes returns the finished buffer. It panics if called before
// Finish.
func (bb *Builder) Bytes() []byte {
	if !bb.finished {
		panic(newMisuseError("Bytes called before Finish"))
	}
	return bb.buf.bytes()
}

// Reset discards all construction state, including the interning
// pools, and makes the Builder ready to build a fresh buffer while
// keeping its already-grown backing array.
func (bb *Builder) Reset() {
	bb.buf.reset()
	bb.stack = nil
	bb.keyPool.reset()
	bb.stringPool.reset()
	bb.vecPool.reset()
	bb.finished = false
	bb.hasDuplicateKeys = false
}
