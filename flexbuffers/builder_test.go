package flexbuffers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinishSingleString(t *testing.T) {
	b := New(64)
	b.AddString("Hello")
	got := b.Finish()

	want := []byte{5, 'H', 'e', 'l', 'l', 'o', 0, 6, 0x14, 1}
	assert.Equal(t, want, got)
}

func TestFinishElectsRootWidthFromRootAlone(t *testing.T) {
	b := New(512)
	start := b.StartMap()
	b.AddBlobKey("data", make([]byte, 300))
	b.EndMap(start)
	buf := b.Finish()

	require.Greater(t, len(buf), 255)
	rootByteWidth := buf[len(buf)-1]
	assert.EqualValues(t, 1, rootByteWidth, "a root map whose own back-offset fits one byte must not be widened just because the buffer is long")
}

func TestFinishRequiresExactlyOneRoot(t *testing.T) {
	b := New(64)
	assert.Panics(t, func() { b.Finish() })

	b2 := New(64)
	b2.AddInt(1)
	b2.AddInt(2)
	assert.Panics(t, func() { b2.Finish() })
}

func TestRoundTripScalars(t *testing.T) {
	tests := []struct {
		name string
		add  func(*Builder)
		want func(*testing.T, Reference)
	}{
		{"null", func(b *Builder) { b.AddNull() }, func(t *testing.T, r Reference) {
			assert.True(t, r.IsNull())
		}},
		{"bool true", func(b *Builder) { b.AddBool(true) }, func(t *testing.T, r Reference) {
			assert.Equal(t, TypeBool, r.Type())
			assert.True(t, r.AsBool())
		}},
		{"small int", func(b *Builder) { b.AddInt(42) }, func(t *testing.T, r Reference) {
			assert.EqualValues(t, 42, r.AsInt())
		}},
		{"negative int", func(b *Builder) { b.AddInt(-12345) }, func(t *testing.T, r Reference) {
			assert.EqualValues(t, -12345, r.AsInt())
		}},
		{"large uint", func(b *Builder) { b.AddUint(1 << 40) }, func(t *testing.T, r Reference) {
			assert.EqualValues(t, 1<<40, r.AsUint())
		}},
		{"float64", func(b *Builder) { b.AddFloat64(3.14159265) }, func(t *testing.T, r Reference) {
			assert.InDelta(t, 3.14159265, r.AsDouble(), 1e-12)
		}},
		{"float32", func(b *Builder) { b.AddFloat32(1.5) }, func(t *testing.T, r Reference) {
			assert.InDelta(t, 1.5, r.AsDouble(), 1e-6)
		}},
		{"blob", func(b *Builder) { b.AddBlob([]byte{0xde, 0xad, 0xbe, 0xef}) }, func(t *testing.T, r Reference) {
			assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, r.AsBlob())
		}},
		{"string", func(b *Builder) { b.AddString("round trip") }, func(t *testing.T, r Reference) {
			assert.Equal(t, "round trip", r.AsString())
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(64)
			tt.add(b)
			buf := b.Finish()
			ref, err := GetRoot(buf)
			require.NoError(t, err)
			tt.want(t, ref)
		})
	}
}

func TestRoundTripUntypedVector(t *testing.T) {
	b := New(64)
	start := b.StartVector()
	b.AddInt(1)
	b.AddString("two")
	b.AddBool(true)
	b.EndVector(start, false, false)
	buf := b.Finish()

	ref, err := GetRoot(buf)
	require.NoError(t, err)
	require.Equal(t, TypeVector, ref.Type())

	vec := ref.AsVector()
	require.Equal(t, 3, vec.Len())
	assert.EqualValues(t, 1, vec.Index(0).AsInt())
	assert.Equal(t, "two", vec.Index(1).AsString())
	assert.True(t, vec.Index(2).AsBool())
}

func TestRoundTripTypedIntVector(t *testing.T) {
	b := New(64)
	values := []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 20}
	start := b.StartVector()
	for _, v := range values {
		b.AddInt(v)
	}
	b.EndVector(start, true, false)
	buf := b.Finish()

	ref, err := GetRoot(buf)
	require.NoError(t, err)
	vec := ref.AsVector()
	require.Equal(t, len(values), vec.Len())
	for i, v := range values {
		assert.EqualValues(t, v, vec.Index(i).AsInt())
	}
}

func TestCreateTypedVectorBool(t *testing.T) {
	b := New(64)
	b.CreateTypedVectorBool([]bool{true, false, true, false})
	buf := b.Finish()

	ref, err := GetRoot(buf)
	require.NoError(t, err)
	vec := ref.AsVector()
	require.Equal(t, 4, vec.Len())
	want := []bool{true, false, true, false}
	for i, v := range want {
		assert.Equal(t, v, vec.Index(i).AsBool())
	}
}

func TestRoundTripMap(t *testing.T) {
	b := New(64)
	m := b.StartMap()
	b.AddBoolKey("bool2", false)
	b.AddBoolKey("bool1", true)
	b.EndMap(m)
	buf := b.Finish()

	ref, err := GetRoot(buf)
	require.NoError(t, err)
	require.Equal(t, TypeMap, ref.Type())

	mp := ref.AsMap()
	require.Equal(t, 2, mp.Len())

	v, ok := mp.Get("bool1")
	require.True(t, ok)
	assert.True(t, v.AsBool())

	v, ok = mp.Get("bool2")
	require.True(t, ok)
	assert.False(t, v.AsBool())

	_, ok = mp.Get("missing")
	assert.False(t, ok)
}

func TestMapKeysAreSorted(t *testing.T) {
	b := New(64)
	m := b.StartMap()
	b.AddIntKey("zebra", 1)
	b.AddIntKey("apple", 2)
	b.AddIntKey("mango", 3)
	b.EndMap(m)
	buf := b.Finish()

	ref, err := GetRoot(buf)
	require.NoError(t, err)
	mp := ref.AsMap()
	require.Equal(t, 3, mp.Len())
	assert.Equal(t, "apple", string(mp.KeyAt(0)))
	assert.Equal(t, "mango", string(mp.KeyAt(1)))
	assert.Equal(t, "zebra", string(mp.KeyAt(2)))
}

func TestDuplicateKeysDetected(t *testing.T) {
	b := New(64)
	m := b.StartMap()
	b.AddIntKey("dup", 1)
	b.AddIntKey("dup", 2)
	b.EndMap(m)
	b.Finish()
	assert.True(t, b.HasDuplicateKeys())
}

func TestNestedMapInVector(t *testing.T) {
	b := New(64)
	outer := b.StartVector()
	inner := b.StartMap()
	b.AddIntKey("a", 1)
	b.AddStringKey("b", "two")
	b.EndMap(inner)
	b.AddInt(99)
	b.EndVector(outer, false, false)
	buf := b.Finish()

	ref, err := GetRoot(buf)
	require.NoError(t, err)
	vec := ref.AsVector()
	require.Equal(t, 2, vec.Len())

	mp := vec.Index(0).AsMap()
	require.Equal(t, 2, mp.Len())
	v, ok := mp.Get("a")
	require.True(t, ok)
	assert.EqualValues(t, 1, v.AsInt())
	v, ok = mp.Get("b")
	require.True(t, ok)
	assert.Equal(t, "two", v.AsString())

	assert.EqualValues(t, 99, vec.Index(1).AsInt())
}

func TestShareStringsReusesLocation(t *testing.T) {
	b := NewWithOptions(WithFlags(ShareKeysAndStrings), WithInitialSize(64))
	start := b.StartVector()
	b.AddString("welcome")
	b.AddString("welcome")
	b.AddString("welcome")
	b.EndVector(start, false, false)
	buf := b.Finish()

	ref, err := GetRoot(buf)
	require.NoError(t, err)
	vec := ref.AsVector()
	require.Equal(t, 3, vec.Len())
	for i := 0; i < 3; i++ {
		assert.Equal(t, "welcome", vec.Index(i).AsString())
	}
}

func TestBoundaryWidthPromotion(t *testing.T) {
	tests := []struct {
		v    uint64
		want BitWidth
	}{
		{1<<8 - 1, BitWidth8},
		{1 << 8, BitWidth16},
		{1<<16 - 1, BitWidth16},
		{1 << 16, BitWidth32},
		{1<<32 - 1, BitWidth32},
		{1 << 32, BitWidth64},
	}
	for _, tt := range tests {
		got := widthU(tt.v)
		assert.Equalf(t, tt.want, got, "widthU(%d)", tt.v)
	}
}

func TestFixedTypedVectorRejectsBadLength(t *testing.T) {
	b := New(64)
	start := b.StartVector()
	b.AddInt(1)
	assert.Panics(t, func() { b.EndVector(start, true, true) })
}

func TestTypedVectorRejectsMixedTypes(t *testing.T) {
	b := New(64)
	start := b.StartVector()
	b.AddInt(1)
	b.AddString("nope")
	assert.Panics(t, func() { b.EndVector(start, true, false) })
}

func TestResetAllowsReuse(t *testing.T) {
	b := New(64)
	b.AddInt(1)
	b.Finish()

	b.Reset()
	b.AddString("fresh")
	buf := b.Finish()

	ref, err := GetRoot(buf)
	require.NoError(t, err)
	assert.Equal(t, "fresh", ref.AsString())
}
