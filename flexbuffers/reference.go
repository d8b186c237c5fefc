package flexbuffers

import "math"

// Reference is a lazily interpreted view onto a single value inside a
// finished buffer. Constructing one never copies or validates the
// referent; every accessor bounds-checks its own reads and returns a
// zero-ish value (0, "", nil, an empty Vector/Map) on a type mismatch or
// an out-of-range offset rather than erroring, matching how the
// reference implementation treats the buffer as adversarial input that
// must never crash the reader.
//
// offset/parentWidth describe the slot this Reference was read out of:
// for an inline scalar, that slot holds the payload itself; for every
// other type, it holds a relative back-offset. byteWidth is this
// value's own declared width, used to interpret whatever the back-offset
// points at (a length prefix, a count, a nested vector's element width).
type Reference struct {
	buf         []byte
	offset      uint64
	parentWidth int
	byteWidth   int
	typ         Type
}

// GetRoot decodes the two trailer bytes of buffer and returns a
// Reference to the value they describe.
func GetRoot(buffer []byte) (Reference, error) {
	if len(buffer) < 3 {
		return Reference{}, ErrBufferTooSmall
	}
	rootByteWidth := int(buffer[len(buffer)-1])
	switch rootByteWidth {
	case 1, 2, 4, 8:
	default:
		return Reference{}, ErrUnknownType
	}
	packed := buffer[len(buffer)-2]
	width, typ := unpackType(packed)
	if _, ok := typeNames[typ]; !ok {
		return Reference{}, ErrUnknownType
	}
	end := len(buffer) - 2 - rootByteWidth
	if end < 0 {
		return Reference{}, ErrBufferTooSmall
	}
	return Reference{
		buf:         buffer,
		offset:      uint64(end),
		parentWidth: rootByteWidth,
		byteWidth:   width.ByteWidth(),
		typ:         typ,
	}, nil
}

// Type reports the value's FlexBuffers type tag.
func (r Reference) Type() Type { return r.typ }

// IsNull reports whether the value is FBT_NULL.
func (r Reference) IsNull() bool { return r.typ == TypeNull }

// target resolves the absolute buffer offset the value's own content
// begins at: the payload slot itself for inline scalars, or the
// back-offset's destination for everything else.
func (r Reference) target() uint64 {
	if r.typ.IsInline() {
		return r.offset
	}
	return r.indirect()
}

func (r Reference) indirect() uint64 {
	u := readUintLE(r.buf, r.offset, r.parentWidth)
	if u > r.offset {
		return 0
	}
	return r.offset - u
}

// AsBool reports the value as a boolean: true for a nonzero Bool, Int,
// Uint or Float, false for everything else including a mismatched type.
func (r Reference) AsBool() bool {
	switch r.typ {
	case TypeBool, TypeInt, TypeUint:
		return r.AsUint() != 0
	case TypeFloat:
		return r.AsDouble() != 0
	default:
		return false
	}
}

// AsInt coerces the value to a signed integer. Non-numeric types read
// as 0.
func (r Reference) AsInt() int64 {
	switch r.typ {
	case TypeInt:
		return readIntLE(r.buf, r.offset, r.parentWidth)
	case TypeIndirectInt:
		return readIntLE(r.buf, r.target(), r.byteWidth)
	case TypeUint, TypeBool:
		return int64(readUintLE(r.buf, r.offset, r.parentWidth))
	case TypeIndirectUint:
		return int64(readUintLE(r.buf, r.target(), r.byteWidth))
	case TypeFloat:
		return int64(readFloatLE(r.buf, r.offset, r.parentWidth))
	case TypeIndirectFloat:
		return int64(readFloatLE(r.buf, r.target(), r.byteWidth))
	default:
		return 0
	}
}

// AsUint coerces the value to an unsigned integer. Non-numeric types
// read as 0.
func (r Reference) AsUint() uint64 {
	switch r.typ {
	case TypeUint, TypeBool:
		return readUintLE(r.buf, r.offset, r.parentWidth)
	case TypeIndirectUint:
		return readUintLE(r.buf, r.target(), r.byteWidth)
	case TypeInt:
		return uint64(readIntLE(r.buf, r.offset, r.parentWidth))
	case TypeIndirectInt:
		return uint64(readIntLE(r.buf, r.target(), r.byteWidth))
	case TypeFloat:
		return uint64(readFloatLE(r.buf, r.offset, r.parentWidth))
	case TypeIndirectFloat:
		return uint64(readFloatLE(r.buf, r.target(), r.byteWidth))
	default:
		return 0
	}
}

// AsDouble coerces the value to a float64. Non-numeric types read as 0.
func (r Reference) AsDouble() float64 {
	switch r.typ {
	case TypeFloat:
		return readFloatLE(r.buf, r.offset, r.parentWidth)
	case TypeIndirectFloat:
		return readFloatLE(r.buf, r.target(), r.byteWidth)
	case TypeInt:
		return float64(readIntLE(r.buf, r.offset, r.parentWidth))
	case TypeIndirectInt:
		return float64(readIntLE(r.buf, r.target(), r.byteWidth))
	case TypeUint, TypeBool:
		return float64(readUintLE(r.buf, r.offset, r.parentWidth))
	case TypeIndirectUint:
		return float64(readUintLE(r.buf, r.target(), r.byteWidth))
	default:
		return 0
	}
}

// AsString returns the string's UTF-8 bytes, or "" if this Reference is
// not a String.
func (r Reference) AsString() string {
	if r.typ != TypeString {
		return ""
	}
	return string(r.blobLikeBytes())
}

// AsBlob returns the blob's raw bytes, or nil if this Reference is not
// a Blob.
func (r Reference) AsBlob() []byte {
	if r.typ != TypeBlob {
		return nil
	}
	return r.blobLikeBytes()
}

// blobLikeBytes reads a length-prefixed run: the length lives at
// byteWidth bytes immediately before target, itself declared at this
// value's own byteWidth, per how Builder.writeBlobLike laid it out.
func (r Reference) blobLikeBytes() []byte {
	target := r.target()
	if target < uint64(r.byteWidth) {
		return nil
	}
	length := readUintLE(r.buf, target-uint64(r.byteWidth), r.byteWidth)
	return sliceAt(r.buf, target, length)
}

// AsVector returns the value as a Vector, or an empty Vector if this
// Reference is not any vector variant.
func (r Reference) AsVector() Vector {
	if !r.typ.IsVector() {
		return Vector{}
	}
	target := r.target()
	return Vector{
		buf:       r.buf,
		offset:    target,
		byteWidth: r.byteWidth,
		length:    r.vectorLength(target),
		typed:     r.typ.IsTypedVector(),
		elemType:  typedVectorElementType(r.typ),
	}
}

// AsMap returns the value as a Map, or an empty Map if this Reference
// is not a Map.
func (r Reference) AsMap() Map {
	if r.typ != TypeMap {
		return Map{}
	}
	target := r.target()
	length := r.vectorLength(target)
	if target < uint64(3*r.byteWidth) {
		return Map{}
	}
	keysBackoffsetLoc := target - uint64(3*r.byteWidth)
	keysWidth := int(readUintLE(r.buf, target-uint64(2*r.byteWidth), r.byteWidth))
	keysBackoffset := readUintLE(r.buf, keysBackoffsetLoc, r.byteWidth)
	keysTarget := keysBackoffsetLoc - keysBackoffset
	return Map{
		Vector: Vector{buf: r.buf, offset: target, byteWidth: r.byteWidth, length: length},
		keys: Vector{
			buf:       r.buf,
			offset:    keysTarget,
			byteWidth: keysWidth,
			length:    length,
			typed:     true,
			elemType:  TypeKey,
		},
	}
}

func (r Reference) vectorLength(target uint64) int {
	if n := fixedTypedVectorLen(r.typ); n != 0 {
		return n
	}
	if target < uint64(r.byteWidth) {
		return 0
	}
	return int(readUintLE(r.buf, target-uint64(r.byteWidth), r.byteWidth))
}

// --- shared little-endian readers ---------------------------------------

func readUintLE(buf []byte, offset uint64, width int) uint64 {
	if width <= 0 || offset > uint64(len(buf)) || uint64(len(buf))-offset < uint64(width) {
		return 0
	}
	var v uint64
	for i := 0; i < width; i++ {
		v |= uint64(buf[offset+uint64(i)]) << (8 * uint(i))
	}
	return v
}

func readIntLE(buf []byte, offset uint64, width int) int64 {
	u := readUintLE(buf, offset, width)
	switch width {
	case 1:
		return int64(int8(u))
	case 2:
		return int64(int16(u))
	case 4:
		return int64(int32(u))
	default:
		return int64(u)
	}
}

func readFloatLE(buf []byte, offset uint64, width int) float64 {
	switch width {
	case 4:
		return float64(math.Float32frombits(uint32(readUintLE(buf, offset, 4))))
	case 8:
		return math.Float64frombits(readUintLE(buf, offset, 8))
	default:
		return 0
	}
}

// sliceAt returns length bytes of buf starting at offset, or nil if that
// range falls outside buf.
func sliceAt(buf []byte, offset, length uint64) []byte {
	if offset > uint64(len(buf)) || uint64(len(buf))-offset < length {
		return nil
	}
	return buf[offset : offset+length]
}
