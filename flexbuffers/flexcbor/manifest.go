// Package flexcbor describes the CBOR sidecar manifest that flexstore
// writes alongside every persisted FlexBuffers document, and the codec
// used to read and write it. The manifest exists so a caller never has
// to parse a document's trailer bytes just to learn its shape.
package flexcbor

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/datatrails/go-datatrails-flexbuffers/flexbuffers"
)

// Manifest records enough about a finished FlexBuffers buffer to answer
// "what is this" without touching the buffer itself: its root type and
// byte width (read straight off the two trailer bytes), the sharing
// flags the Builder was configured with, whether EndMap ever detected a
// duplicate key, and the buffer's length for a cheap integrity check.
type Manifest struct {
	RootType         uint8  `cbor:"root_type"`
	RootByteWidth    uint8  `cbor:"root_byte_width"`
	ShareFlags       uint8  `cbor:"share_flags"`
	HasDuplicateKeys bool   `cbor:"has_duplicate_keys"`
	ContentLength    uint64 `cbor:"content_length"`
}

// BuildManifest reads a finished buffer's trailer bytes and builds the
// Manifest describing it. hasDuplicateKeys must come from the Builder
// that produced buf, since a reader alone cannot recover that fact.
func BuildManifest(buf []byte, shareFlags flexbuffers.ShareFlags, hasDuplicateKeys bool) (Manifest, error) {
	ref, err := flexbuffers.GetRoot(buf)
	if err != nil {
		return Manifest{}, err
	}
	return Manifest{
		RootType:         uint8(ref.Type()),
		RootByteWidth:    uint8(buf[len(buf)-1]),
		ShareFlags:       uint8(shareFlags),
		HasDuplicateKeys: hasDuplicateKeys,
		ContentLength:    uint64(len(buf)),
	}, nil
}

// Codec wraps the CBOR encoding conventions this package uses for every
// Manifest: canonical (deterministic map key ordering) on the wire, so
// two manifests describing identical documents always encode to
// identical bytes.
type Codec struct {
	encMode cbor.EncMode
	decMode cbor.DecMode
}

// NewCodec returns a Codec using CBOR's canonical encoding options.
func NewCodec() (Codec, error) {
	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return Codec{}, err
	}
	decMode, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		return Codec{}, err
	}
	return Codec{encMode: encMode, decMode: decMode}, nil
}

// Marshal encodes m as canonical CBOR.
func (c Codec) Marshal(m Manifest) ([]byte, error) {
	return c.encMode.Marshal(m)
}

// Unmarshal decodes data into a Manifest.
func (c Codec) Unmarshal(data []byte) (Manifest, error) {
	var m Manifest
	err := c.decMode.Unmarshal(data, &m)
	return m, err
}
