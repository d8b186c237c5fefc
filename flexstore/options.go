package flexstore

import (
	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/google/uuid"

	"github.com/datatrails/go-datatrails-flexbuffers/flexbuffers"
	"github.com/datatrails/go-datatrails-flexbuffers/flexbuffers/flexcbor"
)

// PathProvider maps a document id to the blob paths a Store reads and
// writes. The default provider concatenates a fixed prefix with the id's
// string form, matching storage/prefixeduuid.go's convention.
type PathProvider interface {
	DocumentPath(id uuid.UUID) string
	ManifestPath(id uuid.UUID) string
}

type prefixPathProvider struct{ prefix string }

func (p prefixPathProvider) DocumentPath(id uuid.UUID) string {
	return p.prefix + id.String()
}

func (p prefixPathProvider) ManifestPath(id uuid.UUID) string {
	return p.DocumentPath(id) + manifestSuffix
}

// ManifestCodec encodes and decodes a Store's sidecar manifest.
// flexcbor.Codec satisfies this interface and is the default.
type ManifestCodec interface {
	Marshal(m flexcbor.Manifest) ([]byte, error)
	Unmarshal(data []byte) (flexcbor.Manifest, error)
}

// Signer attests a document's manifest and content digest the way
// flexsign.Sign does. It is optional: a Store configured with no Signer
// never writes a signature blob.
type Signer interface {
	Sign(buf []byte, shareFlags flexbuffers.ShareFlags, hasDuplicateKeys bool) ([]byte, error)
}

const signatureSuffix = ".sig"

// StoreOptions configures a Store. Use New or NewWithOptions; the zero
// value is not a usable configuration on its own.
type StoreOptions struct {
	Paths  PathProvider
	Codec  ManifestCodec
	Signer Signer
	Log    logger.Logger
}

// Option mutates a *StoreOptions, type-asserting its target the same way
// flexbuffers.Option and massifs.Option do.
type Option func(any)

// WithPathProvider overrides the default prefix-based path layout.
func WithPathProvider(p PathProvider) Option {
	return func(o any) {
		if opts, ok := o.(*StoreOptions); ok {
			opts.Paths = p
		}
	}
}

// WithManifestCodec overrides the default flexcbor.Codec.
func WithManifestCodec(c ManifestCodec) Option {
	return func(o any) {
		if opts, ok := o.(*StoreOptions); ok {
			opts.Codec = c
		}
	}
}

// WithSigner enables writing a signature blob alongside every stored
// document, produced by s.Sign.
func WithSigner(s Signer) Option {
	return func(o any) {
		if opts, ok := o.(*StoreOptions); ok {
			opts.Signer = s
		}
	}
}

func newStoreOptions(prefix string, opts ...Option) (StoreOptions, error) {
	codec, err := flexcbor.NewCodec()
	if err != nil {
		return StoreOptions{}, err
	}
	o := StoreOptions{
		Paths: prefixPathProvider{prefix: prefix},
		Codec: codec,
		Log:   logger.Sugar,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o, nil
}
