package flexdoc

import (
	"fmt"
	"reflect"

	"github.com/datatrails/go-datatrails-flexbuffers/flexbuffers"
)

// Unmarshal decodes a finished FlexBuffers buffer into out, which must
// be a non-nil pointer.
func Unmarshal(buf []byte, out any) error {
	ref, err := flexbuffers.GetRoot(buf)
	if err != nil {
		return err
	}
	return UnmarshalReference(ref, out)
}

// UnmarshalReference decodes ref into out, which must be a non-nil
// pointer. Use this to decode a value nested inside an already-obtained
// Reference (a map value, a vector element) without re-parsing the
// trailer.
func UnmarshalReference(ref flexbuffers.Reference, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrUnmarshalTarget
	}
	return decode(ref, rv.Elem())
}

func decode(ref flexbuffers.Reference, rv reflect.Value) error {
	if ref.IsNull() {
		rv.Set(reflect.Zero(rv.Type()))
		return nil
	}

	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		return decode(ref, rv.Elem())
	}

	switch rv.Kind() {
	case reflect.Bool:
		rv.SetBool(ref.AsBool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		rv.SetInt(ref.AsInt())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		rv.SetUint(ref.AsUint())
	case reflect.Float32, reflect.Float64:
		rv.SetFloat(ref.AsDouble())
	case reflect.String:
		if ref.Type() != flexbuffers.TypeString {
			return fmt.Errorf("%w: expected string, got type %v", ErrTypeMismatch, ref.Type())
		}
		rv.SetString(ref.AsString())
	case reflect.Slice:
		return decodeSlice(ref, rv)
	case reflect.Map:
		return decodeMap(ref, rv)
	case reflect.Struct:
		return decodeStruct(ref, rv)
	case reflect.Interface:
		v, err := decodeAny(ref)
		if err != nil {
			return err
		}
		rv.Set(reflect.ValueOf(v))
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedType, rv.Kind())
	}
	return nil
}

func decodeSlice(ref flexbuffers.Reference, rv reflect.Value) error {
	if rv.Type().Elem().Kind() == reflect.Uint8 && ref.Type() == flexbuffers.TypeBlob {
		rv.SetBytes(ref.AsBlob())
		return nil
	}
	if !ref.Type().IsVector() {
		return fmt.Errorf("%w: expected vector, got type %v", ErrTypeMismatch, ref.Type())
	}
	vec := ref.AsVector()
	out := reflect.MakeSlice(rv.Type(), vec.Len(), vec.Len())
	for i := 0; i < vec.Len(); i++ {
		if err := decode(vec.Index(i), out.Index(i)); err != nil {
			return err
		}
	}
	rv.Set(out)
	return nil
}

func decodeMap(ref flexbuffers.Reference, rv reflect.Value) error {
	if rv.Type().Key().Kind() != reflect.String {
		return fmt.Errorf("%w: map key %s (only string keys are supported)", ErrUnsupportedType, rv.Type().Key())
	}
	if ref.Type() != flexbuffers.TypeMap {
		return fmt.Errorf("%w: expected map, got type %v", ErrTypeMismatch, ref.Type())
	}
	m := ref.AsMap()
	out := reflect.MakeMapWithSize(rv.Type(), m.Len())
	elemType := rv.Type().Elem()
	for i := 0; i < m.Len(); i++ {
		key := reflect.ValueOf(string(m.KeyAt(i)))
		elem := reflect.New(elemType).Elem()
		if err := decode(m.Index(i), elem); err != nil {
			return err
		}
		out.SetMapIndex(key, elem)
	}
	rv.Set(out)
	return nil
}

func decodeStruct(ref flexbuffers.Reference, rv reflect.Value) error {
	if ref.Type() != flexbuffers.TypeMap {
		return fmt.Errorf("%w: expected map, got type %v", ErrTypeMismatch, ref.Type())
	}
	m := ref.AsMap()
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		tag := parseFieldTag(field.Tag.Get("flex"), field.Name)
		if tag.skip {
			continue
		}
		v, ok := m.Get(tag.name)
		if !ok {
			continue
		}
		if err := decode(v, rv.Field(i)); err != nil {
			return fmt.Errorf("field %s: %w", field.Name, err)
		}
	}
	return nil
}

// decodeAny decodes ref into the most natural Go type for its
// FlexBuffers type tag, for use with interface{}-typed fields and map
// values whose shape is not known ahead of time.
func decodeAny(ref flexbuffers.Reference) (any, error) {
	switch {
	case ref.IsNull():
		return nil, nil
	case ref.Type() == flexbuffers.TypeBool:
		return ref.AsBool(), nil
	case ref.Type() == flexbuffers.TypeInt:
		return ref.AsInt(), nil
	case ref.Type() == flexbuffers.TypeUint:
		return ref.AsUint(), nil
	case ref.Type() == flexbuffers.TypeFloat:
		return ref.AsDouble(), nil
	case ref.Type() == flexbuffers.TypeString:
		return ref.AsString(), nil
	case ref.Type() == flexbuffers.TypeBlob:
		return ref.AsBlob(), nil
	case ref.Type() == flexbuffers.TypeMap:
		m := ref.AsMap()
		out := make(map[string]any, m.Len())
		for i := 0; i < m.Len(); i++ {
			v, err := decodeAny(m.Index(i))
			if err != nil {
				return nil, err
			}
			out[string(m.KeyAt(i))] = v
		}
		return out, nil
	case ref.Type().IsVector():
		vec := ref.AsVector()
		out := make([]any, vec.Len())
		for i := 0; i < vec.Len(); i++ {
			v, err := decodeAny(vec.Index(i))
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: type %v", ErrUnsupportedType, ref.Type())
	}
}
