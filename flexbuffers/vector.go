package flexbuffers

// Vector is a fixed-stride array of elements starting at offset, each
// occupying exactly byteWidth bytes. Untyped vectors additionally carry
// one packed type byte per element, stored immediately after the last
// element; typed vectors omit that array since every element shares
// elemType.
type Vector struct {
	buf       []byte
	offset    uint64
	byteWidth int
	length    int
	typed     bool
	elemType  Type
}

// Len returns the number of elements in the vector.
func (v Vector) Len() int { return v.length }

// Index returns a Reference to the element at i, or a null Reference if
// i is out of range.
func (v Vector) Index(i int) Reference {
	if i < 0 || i >= v.length {
		return Reference{typ: TypeNull}
	}
	elemOffset := v.offset + uint64(i*v.byteWidth)
	if v.typed {
		return Reference{
			buf:         v.buf,
			offset:      elemOffset,
			parentWidth: v.byteWidth,
			byteWidth:   v.byteWidth,
			typ:         v.elemType,
		}
	}
	typeByteOffset := v.offset + uint64(v.length*v.byteWidth) + uint64(i)
	if typeByteOffset >= uint64(len(v.buf)) {
		return Reference{typ: TypeNull}
	}
	width, typ := unpackType(v.buf[typeByteOffset])
	return Reference{
		buf:         v.buf,
		offset:      elemOffset,
		parentWidth: v.byteWidth,
		byteWidth:   width.ByteWidth(),
		typ:         typ,
	}
}
