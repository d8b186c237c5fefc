package flexsign

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datatrails/go-datatrails-flexbuffers/flexbuffers"
)

func buildTestDocument(t *testing.T) []byte {
	t.Helper()
	b := flexbuffers.New(64)
	start := b.StartMap()
	b.AddIntKey("version", 1)
	b.AddStringKey("subject", "document under test")
	b.EndMap(start)
	return b.Finish()
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	buf := buildTestDocument(t)
	external := []byte("flexsign-test")

	signed, err := Sign(rand.Reader, buf, flexbuffers.ShareNone, false, external, privateKey)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	envelope, err := Verify(signed, buf, external, &privateKey.PublicKey)
	require.NoError(t, err)
	assert.EqualValues(t, flexbuffers.TypeMap, envelope.Manifest.RootType)
	assert.EqualValues(t, len(buf), envelope.Manifest.ContentLength)
	assert.Len(t, envelope.ContentDigest, 32)
}

func TestVerifyRejectsTamperedDocument(t *testing.T) {
	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	buf := buildTestDocument(t)
	signed, err := Sign(rand.Reader, buf, flexbuffers.ShareNone, false, nil, privateKey)
	require.NoError(t, err)

	tampered := append([]byte{}, buf...)
	tampered[0] ^= 0xFF

	_, err = Verify(signed, tampered, nil, &privateKey.PublicKey)
	assert.ErrorIs(t, err, ErrContentDigestMismatch)
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	otherKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	buf := buildTestDocument(t)
	signed, err := Sign(rand.Reader, buf, flexbuffers.ShareNone, false, nil, privateKey)
	require.NoError(t, err)

	_, err = Verify(signed, buf, nil, &otherKey.PublicKey)
	assert.Error(t, err)
}

func TestVerifyRejectsMismatchedExternalData(t *testing.T) {
	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	buf := buildTestDocument(t)
	signed, err := Sign(rand.Reader, buf, flexbuffers.ShareNone, false, []byte("context-a"), privateKey)
	require.NoError(t, err)

	_, err = Verify(signed, buf, []byte("context-b"), &privateKey.PublicKey)
	assert.Error(t, err)
}
