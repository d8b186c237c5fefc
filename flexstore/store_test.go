package flexstore

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"fmt"
	"testing"

	"github.com/datatrails/go-datatrails-common/azblob"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datatrails/go-datatrails-flexbuffers/flexbuffers"
	"github.com/datatrails/go-datatrails-flexbuffers/flexbuffers/flexcbor"
	"github.com/datatrails/go-datatrails-flexbuffers/flexbuffers/flexsign"
)

type fakeBlobStore struct {
	blobs map[string][]byte
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: map[string][]byte{}}
}

func (f *fakeBlobStore) Put(ctx context.Context, identity string, content []byte, opts ...azblob.Option) (*azblob.WriteResponse, error) {
	f.blobs[identity] = append([]byte{}, content...)
	return &azblob.WriteResponse{}, nil
}

func (f *fakeBlobStore) BlobRead(ctx context.Context, identity string, opts ...azblob.Option) (*azblob.ReaderResponse, []byte, error) {
	data, ok := f.blobs[identity]
	if !ok {
		return nil, nil, fmt.Errorf("blob %s not found", identity)
	}
	return &azblob.ReaderResponse{ContentLength: int64(len(data))}, data, nil
}

func buildDoc(t *testing.T) []byte {
	t.Helper()
	b := flexbuffers.New(64)
	b.AddString("persisted document")
	return b.Finish()
}

func TestPutGetRoundTrip(t *testing.T) {
	store := New(newFakeBlobStore(), "v1/flexdocs/")
	buf := buildDoc(t)

	id, err := store.Put(context.Background(), buf, flexbuffers.ShareNone, false)
	require.NoError(t, err)

	got, err := store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, buf, got)
}

func TestGetManifestWithoutDocument(t *testing.T) {
	store := New(newFakeBlobStore(), "v1/flexdocs/")
	buf := buildDoc(t)

	id, err := store.Put(context.Background(), buf, flexbuffers.ShareNone, false)
	require.NoError(t, err)

	manifest, err := store.GetManifest(context.Background(), id)
	require.NoError(t, err)
	assert.EqualValues(t, flexbuffers.TypeString, manifest.RootType)
	assert.EqualValues(t, len(buf), manifest.ContentLength)
}

func TestGetMissingDocumentReturnsError(t *testing.T) {
	store := New(newFakeBlobStore(), "v1/flexdocs/")
	id := uuid.New()
	_, err := store.Get(context.Background(), id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), id.String())
}

func TestPutWithIDOverwrites(t *testing.T) {
	blobs := newFakeBlobStore()
	store := New(blobs, "v1/flexdocs/")
	id := uuid.New()

	first := buildDoc(t)
	require.NoError(t, store.PutWithID(context.Background(), id, first, flexbuffers.ShareNone, false))

	b := flexbuffers.New(64)
	b.AddString("replacement document")
	second := b.Finish()
	require.NoError(t, store.PutWithID(context.Background(), id, second, flexbuffers.ShareNone, false))

	got, err := store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

func TestNewWithOptionsCustomPathProvider(t *testing.T) {
	blobs := newFakeBlobStore()
	store, err := NewWithOptions(blobs, "unused/", WithPathProvider(prefixPathProvider{prefix: "v2/docs/"}))
	require.NoError(t, err)

	id := uuid.New()
	require.NoError(t, store.PutWithID(context.Background(), id, buildDoc(t), flexbuffers.ShareNone, false))

	_, ok := blobs.blobs["v2/docs/"+id.String()]
	assert.True(t, ok)
}

func TestNewWithOptionsCustomManifestCodec(t *testing.T) {
	codec, err := flexcbor.NewCodec()
	require.NoError(t, err)

	store, err := NewWithOptions(newFakeBlobStore(), "v1/flexdocs/", WithManifestCodec(codec))
	require.NoError(t, err)

	id, err := store.Put(context.Background(), buildDoc(t), flexbuffers.ShareNone, false)
	require.NoError(t, err)

	manifest, err := store.GetManifest(context.Background(), id)
	require.NoError(t, err)
	assert.EqualValues(t, flexbuffers.TypeString, manifest.RootType)
}

func TestNewWithOptionsSignerWritesSignatureBlob(t *testing.T) {
	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	blobs := newFakeBlobStore()
	store, err := NewWithOptions(blobs, "v1/flexdocs/", WithSigner(flexsign.KeySigner{PrivateKey: privateKey}))
	require.NoError(t, err)

	buf := buildDoc(t)
	id, err := store.Put(context.Background(), buf, flexbuffers.ShareNone, false)
	require.NoError(t, err)

	signed, ok := blobs.blobs[store.SignaturePath(id)]
	require.True(t, ok)

	envelope, err := flexsign.Verify(signed, buf, nil, &privateKey.PublicKey)
	require.NoError(t, err)
	assert.EqualValues(t, flexbuffers.TypeString, envelope.Manifest.RootType)
}
