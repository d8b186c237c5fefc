package flexcbor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datatrails/go-datatrails-flexbuffers/flexbuffers"
)

func TestBuildAndRoundTripManifest(t *testing.T) {
	b := flexbuffers.New(64)
	b.AddString("hello manifest")
	buf := b.Finish()

	m, err := BuildManifest(buf, flexbuffers.ShareNone, false)
	require.NoError(t, err)
	assert.EqualValues(t, flexbuffers.TypeString, m.RootType)
	assert.EqualValues(t, len(buf), m.ContentLength)

	codec, err := NewCodec()
	require.NoError(t, err)

	encoded, err := codec.Marshal(m)
	require.NoError(t, err)

	decoded, err := codec.Unmarshal(encoded)
	require.NoError(t, err)
	assert.Equal(t, m, decoded)
}
