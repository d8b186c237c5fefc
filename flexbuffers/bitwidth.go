package flexbuffers

import "math/bits"

// BitWidth is one of the four widths a FlexBuffers value or back-offset can
// be stored at: 1, 2, 4 or 8 bytes.
type BitWidth uint8

const (
	BitWidth8 BitWidth = iota
	BitWidth16
	BitWidth32
	BitWidth64
)

// ByteWidth returns the number of bytes this width occupies.
func (w BitWidth) ByteWidth() int { return 1 << uint(w) }

// widthU returns the narrowest BitWidth whose range holds v, following
// mmr.Log2Uint64's lead of deriving bit lengths from math/bits rather than
// looping over candidate shifts.
func widthU(v uint64) BitWidth {
	switch n := bits.Len64(v); {
	case n <= 8:
		return BitWidth8
	case n <= 16:
		return BitWidth16
	case n <= 32:
		return BitWidth32
	default:
		return BitWidth64
	}
}

// widthI returns the narrowest BitWidth that can hold the signed value i
// under two's complement, by folding i into the unsigned range that
// widthU already knows how to measure: non-negative values are doubled,
// negative values are complemented after doubling, so the result's high
// bit reflects how many sign-extension bits the value actually needs.
func widthI(i int64) BitWidth {
	u := uint64(i) << 1
	if i < 0 {
		u = ^u
	}
	return widthU(u)
}

// padding returns the number of zero bytes needed to advance bufSize to a
// multiple of elemSize. elemSize must be a power of two.
func padding(bufSize, elemSize int) int {
	return -bufSize & (elemSize - 1)
}

// packType fuses a BitWidth and Type into the single byte FlexBuffers
// stores ahead of every offset-bearing value and trailing the document.
func packType(width BitWidth, t Type) byte {
	return byte(t)<<2 | byte(width)
}

// unpackType is the inverse of packType.
func unpackType(b byte) (BitWidth, Type) {
	return BitWidth(b & 3), Type(b >> 2)
}
