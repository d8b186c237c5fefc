// Package flexsign wraps github.com/veraison/go-cose to produce and verify
// a COSE Sign1 envelope over a FlexBuffers document's manifest. Signing the
// manifest rather than the raw document bytes keeps the signed payload
// small and stable: the manifest is a fixed-shape CBOR record, while the
// document it describes can be arbitrarily large.
package flexsign

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/veraison/go-cose"

	"github.com/datatrails/go-datatrails-flexbuffers/flexbuffers"
	"github.com/datatrails/go-datatrails-flexbuffers/flexbuffers/flexcbor"
)

// ErrContentDigestMismatch is returned by Verify when the signed envelope's
// recorded content hash does not match the document bytes it is checked
// against.
var ErrContentDigestMismatch = errors.New("flexsign: content digest does not match document")

// Envelope is the CBOR payload carried inside the COSE Sign1 message: a
// document's manifest plus the SHA-256 digest of the document bytes the
// manifest describes. The digest lets a verifier bind a signature to one
// specific document without re-signing the document itself.
type Envelope struct {
	Manifest      flexcbor.Manifest `cbor:"manifest"`
	ContentDigest []byte            `cbor:"content_digest"`
}

// NewEnvelope builds the Envelope for buf, using shareFlags and
// hasDuplicateKeys as BuildManifest requires.
func NewEnvelope(buf []byte, shareFlags flexbuffers.ShareFlags, hasDuplicateKeys bool) (Envelope, error) {
	manifest, err := flexcbor.BuildManifest(buf, shareFlags, hasDuplicateKeys)
	if err != nil {
		return Envelope{}, err
	}
	digest := sha256.Sum256(buf)
	return Envelope{Manifest: manifest, ContentDigest: digest[:]}, nil
}

// Sign1Message wraps a veraison/go-cose Sign1Message with the CBOR encoding
// conventions this package signs and verifies under: canonical encoding, so
// the same Envelope always produces the same signed bytes.
type Sign1Message struct {
	*cose.Sign1Message
	encMode cbor.EncMode
	decMode cbor.DecMode
}

func newCodecModes() (cbor.EncMode, cbor.DecMode, error) {
	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, nil, err
	}
	decMode, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		return nil, nil, err
	}
	return encMode, decMode, nil
}

// Sign builds the Envelope for buf and produces a signed, CBOR-encoded
// COSE Sign1 message over it using the ES256 algorithm. external is
// additional authenticated data per RFC 8152 and may be nil.
func Sign(randSource io.Reader, buf []byte, shareFlags flexbuffers.ShareFlags, hasDuplicateKeys bool, external []byte, privateKey *ecdsa.PrivateKey) ([]byte, error) {
	envelope, err := NewEnvelope(buf, shareFlags, hasDuplicateKeys)
	if err != nil {
		return nil, err
	}

	encMode, decMode, err := newCodecModes()
	if err != nil {
		return nil, err
	}

	payload, err := encMode.Marshal(envelope)
	if err != nil {
		return nil, err
	}

	signer, err := cose.NewSigner(cose.AlgorithmES256, privateKey)
	if err != nil {
		return nil, err
	}

	msg := cose.Sign1Message{
		Headers: cose.Headers{
			Protected: cose.ProtectedHeader{
				cose.HeaderLabelAlgorithm: cose.AlgorithmES256,
			},
		},
		Payload: payload,
	}

	if err := msg.Sign(randSource, external, signer); err != nil {
		return nil, err
	}

	sm := Sign1Message{Sign1Message: &msg, encMode: encMode, decMode: decMode}
	return sm.MarshalCBOR()
}

// MarshalCBOR encodes the wrapped Sign1Message.
func (sm *Sign1Message) MarshalCBOR() ([]byte, error) {
	return sm.Sign1Message.MarshalCBOR()
}

// ParseSigned decodes a CBOR-encoded COSE Sign1 message produced by Sign,
// without verifying its signature.
func ParseSigned(data []byte) (*Sign1Message, Envelope, error) {
	var msg cose.Sign1Message
	if err := msg.UnmarshalCBOR(data); err != nil {
		return nil, Envelope{}, err
	}

	encMode, decMode, err := newCodecModes()
	if err != nil {
		return nil, Envelope{}, err
	}

	var envelope Envelope
	if err := decMode.Unmarshal(msg.Payload, &envelope); err != nil {
		return nil, Envelope{}, err
	}

	return &Sign1Message{Sign1Message: &msg, encMode: encMode, decMode: decMode}, envelope, nil
}

// Verify checks the COSE Sign1 signature in data against publicKey, then
// checks the enclosed Envelope's content digest against buf. A signature
// failure is returned from go-cose's own Verify; a digest mismatch is
// reported as ErrContentDigestMismatch.
func Verify(data []byte, buf []byte, external []byte, publicKey crypto.PublicKey) (Envelope, error) {
	sm, envelope, err := ParseSigned(data)
	if err != nil {
		return Envelope{}, err
	}

	verifier, err := cose.NewVerifier(cose.AlgorithmES256, publicKey)
	if err != nil {
		return Envelope{}, err
	}
	if err := sm.Sign1Message.Verify(external, verifier); err != nil {
		return Envelope{}, err
	}

	digest := sha256.Sum256(buf)
	if !bytesEqual(digest[:], envelope.ContentDigest) {
		return Envelope{}, ErrContentDigestMismatch
	}
	return envelope, nil
}

// KeySigner adapts Sign to the shape flexstore.Signer expects (it is
// satisfied structurally; flexsign does not import flexstore), signing
// with crypto/rand and no external authenticated data.
type KeySigner struct {
	PrivateKey *ecdsa.PrivateKey
}

// Sign signs buf's manifest and content digest with k.PrivateKey.
func (k KeySigner) Sign(buf []byte, shareFlags flexbuffers.ShareFlags, hasDuplicateKeys bool) ([]byte, error) {
	return Sign(rand.Reader, buf, shareFlags, hasDuplicateKeys, nil, k.PrivateKey)
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
