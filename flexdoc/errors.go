package flexdoc

import "errors"

var (
	// ErrUnsupportedType is returned when a value's reflect.Kind has no
	// FlexBuffers encoding (channels, functions, complex numbers).
	ErrUnsupportedType = errors.New("flexdoc: unsupported type")

	// ErrUnmarshalTarget is returned when Unmarshal is given something
	// other than a non-nil pointer.
	ErrUnmarshalTarget = errors.New("flexdoc: unmarshal target must be a non-nil pointer")

	// ErrTypeMismatch is returned when a Reference's FlexBuffers type
	// cannot be coerced into the requested Go type.
	ErrTypeMismatch = errors.New("flexdoc: value type does not match target")
)
