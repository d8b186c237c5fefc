package flexdoc

import (
	"fmt"
	"reflect"

	"github.com/datatrails/go-datatrails-flexbuffers/flexbuffers"
)

// Marshal builds a complete FlexBuffers document from v and returns the
// finished bytes. It is a thin convenience wrapper around AutoBuild for
// the common case of a single self-contained value.
func Marshal(v any, opts ...flexbuffers.Option) ([]byte, error) {
	b := flexbuffers.NewWithOptions(opts...)
	if err := AutoBuild(b, v); err != nil {
		return nil, err
	}
	return b.Finish(), nil
}

// AutoBuild walks v by reflection and issues the matching Builder calls,
// leaving exactly one value on the Builder's stack: the root that a
// following Finish will close off. Struct fields are named by their
// `flex` tag, or by the field's own name when untagged; a tag of "-"
// skips the field, and ",omitempty" skips zero-valued fields.
func AutoBuild(b *flexbuffers.Builder, v any) error {
	return autoBuild(b, reflect.ValueOf(v))
}

func autoBuild(b *flexbuffers.Builder, rv reflect.Value) error {
	if !rv.IsValid() {
		b.AddNull()
		return nil
	}
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			b.AddNull()
			return nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Bool:
		b.AddBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		b.AddInt(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		b.AddUint(rv.Uint())
	case reflect.Float32:
		b.AddFloat32(float32(rv.Float()))
	case reflect.Float64:
		b.AddFloat64(rv.Float())
	case reflect.String:
		b.AddString(rv.String())
	case reflect.Slice, reflect.Array:
		return autoBuildSequence(b, rv)
	case reflect.Map:
		return autoBuildMap(b, rv)
	case reflect.Struct:
		return autoBuildStruct(b, rv)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedType, rv.Kind())
	}
	return nil
}

func autoBuildSequence(b *flexbuffers.Builder, rv reflect.Value) error {
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
		b.AddBlob(rv.Bytes())
		return nil
	}
	start := b.StartVector()
	for i := 0; i < rv.Len(); i++ {
		if err := autoBuild(b, rv.Index(i)); err != nil {
			return err
		}
	}
	b.EndVector(start, false, false)
	return nil
}

func autoBuildMap(b *flexbuffers.Builder, rv reflect.Value) error {
	if rv.Type().Key().Kind() != reflect.String {
		return fmt.Errorf("%w: map key %s (only string keys are supported)", ErrUnsupportedType, rv.Type().Key())
	}
	start := b.StartMap()
	iter := rv.MapRange()
	for iter.Next() {
		b.AddKey(iter.Key().String())
		if err := autoBuild(b, iter.Value()); err != nil {
			return err
		}
	}
	b.EndMap(start)
	return nil
}

func autoBuildStruct(b *flexbuffers.Builder, rv reflect.Value) error {
	t := rv.Type()
	start := b.StartMap()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		tag := parseFieldTag(field.Tag.Get("flex"), field.Name)
		if tag.skip {
			continue
		}
		fv := rv.Field(i)
		if tag.omitEmpty && fv.IsZero() {
			continue
		}
		b.AddKey(tag.name)
		if err := autoBuild(b, fv); err != nil {
			return fmt.Errorf("field %s: %w", field.Name, err)
		}
	}
	b.EndMap(start)
	return nil
}
