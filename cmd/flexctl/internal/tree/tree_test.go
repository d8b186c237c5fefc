package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datatrails/go-datatrails-flexbuffers/flexbuffers"
)

func TestRenderMapWithScalarsAndVector(t *testing.T) {
	b := flexbuffers.New(64)
	start := b.StartMap()
	b.AddStringKey("name", "Ada")
	b.AddIntKey("age", 36)
	vecStart := b.StartVectorKey("tags")
	b.AddString("math")
	b.AddString("computing")
	b.EndVector(vecStart, false, false)
	b.EndMap(start)
	buf := b.Finish()

	ref, err := flexbuffers.GetRoot(buf)
	require.NoError(t, err)

	out := Render(ref)
	assert.Contains(t, out, "name")
	assert.Contains(t, out, "Ada")
	assert.Contains(t, out, "age")
	assert.Contains(t, out, "36")
	assert.Contains(t, out, "tags")
	assert.Contains(t, out, "math")
	assert.Contains(t, out, "computing")
}

func TestRenderNullRoot(t *testing.T) {
	b := flexbuffers.New(16)
	b.AddNull()
	buf := b.Finish()

	ref, err := flexbuffers.GetRoot(buf)
	require.NoError(t, err)

	out := Render(ref)
	assert.Contains(t, out, "null")
}
