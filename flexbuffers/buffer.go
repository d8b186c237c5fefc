package flexbuffers

import "fmt"

// growableBuffer is the byte store a Builder writes into. It grows by
// power-of-two doubling and is always addressed from the low end: the
// "backward from the high end" framing in the FlexBuffers reference
// implementation is purely semantic here, since callers only ever see the
// finished, right-sized slice returned by Bytes.
type growableBuffer struct {
	data    []byte
	maxSize int
}

func newGrowableBuffer(initialSize, maxSize int) *growableBuffer {
	if initialSize < 8 {
		initialSize = 8
	}
	return &growableBuffer{
		data:    make([]byte, 0, initialSize),
		maxSize: maxSize,
	}
}

func (b *growableBuffer) len() int { return len(b.data) }

// ensureSpace grows the backing array, if needed, so that n more bytes can
// be appended without a further reallocation. Capacity doubles until it is
// sufficient, then the grown buffer is copied in; existing written bytes
// are preserved.
func (b *growableBuffer) ensureSpace(n int) {
	need := len(b.data) + n
	if need <= cap(b.data) {
		return
	}
	if need > b.maxSize {
		panic(newMisuseError(fmt.Sprintf(
			"flexbuffers: buffer growth to %d bytes exceeds the %d byte ceiling", need, b.maxSize)))
	}
	newCap := cap(b.data)
	if newCap == 0 {
		newCap = 8
	}
	for newCap < need {
		newCap *= 2
	}
	if newCap > b.maxSize {
		newCap = b.maxSize
	}
	grown := make([]byte, len(b.data), newCap)
	copy(grown, b.data)
	b.data = grown
}

// align advances the buffer to a multiple of byteWidth by appending zero
// padding bytes, then returns byteWidth unchanged, mirroring the
// align(bw) helper described in the FlexBuffers layout algorithm.
func (b *growableBuffer) align(byteWidth int) int {
	pad := padding(len(b.data), byteWidth)
	if pad == 0 {
		return byteWidth
	}
	b.ensureSpace(pad)
	b.data = append(b.data, make([]byte, pad)...)
	return byteWidth
}

func (b *growableBuffer) writeBytes(p []byte) {
	b.ensureSpace(len(p))
	b.data = append(b.data, p...)
}

func (b *growableBuffer) writeZero(n int) {
	b.ensureSpace(n)
	b.data = append(b.data, make([]byte, n)...)
}

// writeUint writes v's low byteWidth bytes, little-endian, at the end of
// the buffer.
func (b *growableBuffer) writeUint(v uint64, byteWidth int) {
	var tmp [8]byte
	for i := 0; i < byteWidth; i++ {
		tmp[i] = byte(v >> (8 * uint(i)))
	}
	b.writeBytes(tmp[:byteWidth])
}

func (b *growableBuffer) writeInt(v int64, byteWidth int) {
	b.writeUint(uint64(v), byteWidth)
}

func (b *growableBuffer) bytes() []byte { return b.data }

func (b *growableBuffer) reset() {
	b.data = b.data[:0]
}
