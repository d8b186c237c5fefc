// Package flexstore persists FlexBuffers documents in Azure Blob Storage,
// addressed by UUID, with a CBOR sidecar manifest written alongside each
// document so a caller can learn a document's shape without fetching it.
package flexstore

import (
	"context"
	"fmt"
	"time"

	"github.com/datatrails/go-datatrails-common/azblob"
	"github.com/google/uuid"

	"github.com/datatrails/go-datatrails-flexbuffers/flexbuffers"
	"github.com/datatrails/go-datatrails-flexbuffers/flexbuffers/flexcbor"
)

// BlobReaderWriter is the subset of an Azure blob container client flexstore
// depends on. It matches the shape of the reader/writer the blob store
// presents to the rest of the log, so flexstore can be tested against a fake
// without pulling in a real storage account. BlobRead mirrors the
// log's own convenience of returning the fully-read body together with the
// blob's metadata response, since callers always want both.
type BlobReaderWriter interface {
	BlobRead(ctx context.Context, identity string, opts ...azblob.Option) (*azblob.ReaderResponse, []byte, error)
	Put(ctx context.Context, identity string, content []byte, opts ...azblob.Option) (*azblob.WriteResponse, error)
}

// Store persists documents under a fixed path prefix, one blob per document
// plus one manifest blob per document (and, when a Signer is configured,
// one signature blob).
type Store struct {
	Blobs BlobReaderWriter
	opts  StoreOptions
}

// New returns a Store rooted at prefix (e.g. "v1/flexdocs/"), with the
// default manifest codec and no signer. Every document written through it
// lives at prefix + id.String() + manifestSuffix/"".
func New(blobs BlobReaderWriter, prefix string) Store {
	s, err := NewWithOptions(blobs, prefix)
	if err != nil {
		// NewWithOptions only returns an error when building the default
		// flexcbor codec fails, which its fixed canonical options do not.
		panic(err)
	}
	return s
}

// NewWithOptions returns a Store rooted at prefix, configured by opts.
func NewWithOptions(blobs BlobReaderWriter, prefix string, opts ...Option) (Store, error) {
	o, err := newStoreOptions(prefix, opts...)
	if err != nil {
		return Store{}, err
	}
	return Store{Blobs: blobs, opts: o}, nil
}

const manifestSuffix = ".manifest"

// DocumentPath returns the blob path for a document's own bytes.
func (s Store) DocumentPath(id uuid.UUID) string {
	return s.opts.Paths.DocumentPath(id)
}

// ManifestPath returns the blob path for a document's sidecar manifest.
func (s Store) ManifestPath(id uuid.UUID) string {
	return s.opts.Paths.ManifestPath(id)
}

// SignaturePath returns the blob path for a document's signature, valid
// only when the Store was configured with a Signer.
func (s Store) SignaturePath(id uuid.UUID) string {
	return s.DocumentPath(id) + signatureSuffix
}

// Stat describes a stored document without its bytes.
type Stat struct {
	ID           uuid.UUID
	ETag         string
	LastModified time.Time
	Manifest     flexcbor.Manifest
}

// Put stores buf and its manifest under a newly generated UUID, returning
// the ID so the caller can address it later. shareFlags and
// hasDuplicateKeys describe how buf's Builder was configured, the same way
// flexsign.NewEnvelope requires.
func (s Store) Put(ctx context.Context, buf []byte, shareFlags flexbuffers.ShareFlags, hasDuplicateKeys bool) (uuid.UUID, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return uuid.UUID{}, err
	}
	if err := s.PutWithID(ctx, id, buf, shareFlags, hasDuplicateKeys); err != nil {
		return uuid.UUID{}, err
	}
	return id, nil
}

// PutWithID stores buf and its manifest under the given id, overwriting
// whatever was previously stored there.
func (s Store) PutWithID(ctx context.Context, id uuid.UUID, buf []byte, shareFlags flexbuffers.ShareFlags, hasDuplicateKeys bool) error {
	manifest, err := flexcbor.BuildManifest(buf, shareFlags, hasDuplicateKeys)
	if err != nil {
		return err
	}
	manifestBytes, err := s.opts.Codec.Marshal(manifest)
	if err != nil {
		return err
	}

	s.opts.Log.Debugf("flexstore: put document %s, %d bytes", id, len(buf))
	if _, err := s.Blobs.Put(ctx, s.DocumentPath(id), buf); err != nil {
		return fmt.Errorf("putting document %s: %w", id, WrapDocumentNotFound(err))
	}
	if _, err := s.Blobs.Put(ctx, s.ManifestPath(id), manifestBytes); err != nil {
		return fmt.Errorf("putting manifest %s: %w", id, WrapDocumentNotFound(err))
	}

	if s.opts.Signer != nil {
		signed, err := s.opts.Signer.Sign(buf, shareFlags, hasDuplicateKeys)
		if err != nil {
			return fmt.Errorf("signing document %s: %w", id, err)
		}
		if _, err := s.Blobs.Put(ctx, s.SignaturePath(id), signed); err != nil {
			return fmt.Errorf("putting signature %s: %w", id, WrapDocumentNotFound(err))
		}
	}
	return nil
}

// Get fetches the document stored under id.
func (s Store) Get(ctx context.Context, id uuid.UUID) ([]byte, error) {
	s.opts.Log.Debugf("flexstore: get document %s", id)
	_, data, err := s.Blobs.BlobRead(ctx, s.DocumentPath(id))
	if err != nil {
		s.opts.Log.Debugf("flexstore: miss document %s: %v", id, err)
		return nil, fmt.Errorf("getting document %s: %w", id, WrapDocumentNotFound(err))
	}
	return data, nil
}

// GetManifest fetches only the sidecar manifest for id, without reading the
// (potentially much larger) document bytes.
func (s Store) GetManifest(ctx context.Context, id uuid.UUID) (flexcbor.Manifest, error) {
	s.opts.Log.Debugf("flexstore: get manifest %s", id)
	_, data, err := s.Blobs.BlobRead(ctx, s.ManifestPath(id))
	if err != nil {
		s.opts.Log.Debugf("flexstore: miss manifest %s: %v", id, err)
		return flexcbor.Manifest{}, fmt.Errorf("getting manifest %s: %w", id, WrapDocumentNotFound(err))
	}
	return s.opts.Codec.Unmarshal(data)
}

// Stat fetches the sidecar manifest and blob metadata for id without
// reading the document bytes.
func (s Store) Stat(ctx context.Context, id uuid.UUID) (Stat, error) {
	s.opts.Log.Debugf("flexstore: stat document %s", id)
	rr, data, err := s.Blobs.BlobRead(ctx, s.ManifestPath(id))
	if err != nil {
		s.opts.Log.Debugf("flexstore: miss document %s: %v", id, err)
		return Stat{}, fmt.Errorf("stating document %s: %w", id, WrapDocumentNotFound(err))
	}

	manifest, err := s.opts.Codec.Unmarshal(data)
	if err != nil {
		return Stat{}, err
	}

	stat := Stat{ID: id, Manifest: manifest}
	if rr.ETag != nil {
		stat.ETag = *rr.ETag
	}
	if rr.LastModified != nil {
		stat.LastModified = *rr.LastModified
	}
	return stat, nil
}
