package flexbuffers

// Type is the 6 bit FlexBuffers type tag. It occupies the top 6 bits of a
// packed type byte, the bottom 2 bits carrying the referent's BitWidth.
type Type uint8

const (
	TypeNull   Type = 0
	TypeInt    Type = 1
	TypeUint   Type = 2
	TypeFloat  Type = 3
	TypeKey    Type = 4
	TypeString Type = 5

	TypeIndirectInt   Type = 6
	TypeIndirectUint  Type = 7
	TypeIndirectFloat Type = 8

	TypeMap    Type = 9
	TypeVector Type = 10

	TypeVectorInt                Type = 11
	TypeVectorUint               Type = 12
	TypeVectorFloat              Type = 13
	TypeVectorKey                Type = 14
	TypeVectorStringDeprecated   Type = 15

	TypeVectorInt2   Type = 16
	TypeVectorUint2  Type = 17
	TypeVectorFloat2 Type = 18
	TypeVectorInt3   Type = 19
	TypeVectorUint3  Type = 20
	TypeVectorFloat3 Type = 21
	TypeVectorInt4   Type = 22
	TypeVectorUint4  Type = 23
	TypeVectorFloat4 Type = 24

	TypeBlob Type = 25
	TypeBool Type = 26

	// TypeVectorBool does not sit in the contiguous typed-vector range; it
	// reuses the ToTypedVector(TypeBool, 0) slot so a bool vector converts
	// to/from its scalar type the same way every other typed vector does.
	TypeVectorBool Type = 36
)

// IsInline reports whether a value of this type is stored as its own
// payload (no back-offset): null, int, uint, float and bool.
func (t Type) IsInline() bool {
	return t <= TypeFloat || t == TypeBool
}

// IsTypedVector reports whether t is a vector whose elements share a
// declared type and so carry no per-element type byte.
func (t Type) IsTypedVector() bool {
	return (t > TypeVector && t <= TypeVectorStringDeprecated) ||
		t.IsFixedTypedVector() || t == TypeVectorBool || t == TypeVectorKey
}

// IsFixedTypedVector reports whether t is a typed vector whose length is
// implied by the tag (2, 3 or 4 elements) rather than stored inline.
func (t Type) IsFixedTypedVector() bool {
	return t.isTuple() || t.isTriple() || t.isQuad()
}

func (t Type) isIndirectScalar() bool { return t >= TypeIndirectInt && t <= TypeIndirectFloat }
func (t Type) isTuple() bool          { return t >= TypeVectorInt2 && t <= TypeVectorFloat2 }
func (t Type) isTriple() bool         { return t >= TypeVectorInt3 && t <= TypeVectorFloat3 }
func (t Type) isQuad() bool           { return t >= TypeVectorInt4 && t <= TypeVectorFloat4 }

// IsVector reports whether t is any vector variant: generic, typed or
// fixed-typed.
func (t Type) IsVector() bool {
	return t == TypeVector || t.IsTypedVector()
}

// IsBlobLike reports whether t is a length-prefixed byte run: blob,
// string or key.
func (t Type) IsBlobLike() bool {
	return t == TypeBlob || t == TypeString || t == TypeKey
}

// IsTyped reports whether t needs no per-element type byte when it
// appears inside a vector: typed vectors and blob-like scalars.
func (t Type) IsTyped() bool {
	return t.IsTypedVector() || t.IsBlobLike()
}

func (t Type) isIntTyped() bool {
	return t == TypeVectorInt || t == TypeIndirectInt ||
		t == TypeVectorInt2 || t == TypeVectorInt3 || t == TypeVectorInt4
}

func (t Type) isUintTyped() bool {
	return t == TypeVectorUint || t == TypeIndirectUint ||
		t == TypeVectorUint2 || t == TypeVectorUint3 || t == TypeVectorUint4 || t.IsBlobLike()
}

func (t Type) isFloatTyped() bool {
	return t == TypeVectorFloat || t == TypeIndirectFloat ||
		t == TypeVectorFloat2 || t == TypeVectorFloat3 || t == TypeVectorFloat4
}

// ToTypedVector returns the typed-vector tag for element type t. fixedLen
// is 0 for a variable length typed vector, or 2/3/4 for the fixed-length
// tuple/triple/quad variants.
func ToTypedVector(t Type, fixedLen int) Type {
	switch fixedLen {
	case 0:
		return t + (TypeVectorInt - TypeInt)
	case 2:
		return t + (TypeVectorInt2 - TypeInt)
	case 3:
		return t + (TypeVectorInt3 - TypeInt)
	case 4:
		return t + (TypeVectorInt4 - TypeInt)
	default:
		panic(newMisuseError("ToTypedVector: fixedLen must be one of 0, 2, 3, 4"))
	}
}

// typedVectorElementType returns the scalar element type backing a typed
// vector tag, the inverse of ToTypedVector.
func typedVectorElementType(t Type) Type {
	switch {
	case t == TypeVectorBool:
		return TypeBool
	case t == TypeVectorKey:
		return TypeKey
	case t > TypeVector && t <= TypeVectorStringDeprecated:
		return t - (TypeVectorInt - TypeInt)
	case t.isTuple():
		return t - (TypeVectorInt2 - TypeInt)
	case t.isTriple():
		return t - (TypeVectorInt3 - TypeInt)
	case t.isQuad():
		return t - (TypeVectorInt4 - TypeInt)
	default:
		return TypeNull
	}
}

// fixedTypedVectorLen returns the element count implied by a fixed typed
// vector tag (tuple=2, triple=3, quad=4), or 0 if t is not fixed-length.
func fixedTypedVectorLen(t Type) int {
	switch {
	case t.isTuple():
		return 2
	case t.isTriple():
		return 3
	case t.isQuad():
		return 4
	default:
		return 0
	}
}

var typeNames = map[Type]string{
	TypeNull:                   "Null",
	TypeInt:                    "Int",
	TypeUint:                   "UInt",
	TypeFloat:                  "Float",
	TypeKey:                    "Key",
	TypeString:                 "String",
	TypeIndirectInt:            "IndirectInt",
	TypeIndirectUint:           "IndirectUInt",
	TypeIndirectFloat:          "IndirectFloat",
	TypeMap:                    "Map",
	TypeVector:                 "Vector",
	TypeVectorInt:              "VectorInt",
	TypeVectorUint:             "VectorUInt",
	TypeVectorFloat:            "VectorFloat",
	TypeVectorKey:              "VectorKey",
	TypeVectorStringDeprecated: "VectorString",
	TypeVectorInt2:             "VectorInt2",
	TypeVectorUint2:            "VectorUInt2",
	TypeVectorFloat2:           "VectorFloat2",
	TypeVectorInt3:             "VectorInt3",
	TypeVectorUint3:            "VectorUInt3",
	TypeVectorFloat3:           "VectorFloat3",
	TypeVectorInt4:             "VectorInt4",
	TypeVectorUint4:            "VectorUInt4",
	TypeVectorFloat4:           "VectorFloat4",
	TypeBlob:                   "Blob",
	TypeBool:                   "Bool",
	TypeVectorBool:             "VectorBool",
}

// String renders t using the same names as the FlexBuffers schema spec.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "Unknown"
}
