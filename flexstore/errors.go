package flexstore

import (
	"errors"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

// ErrDocumentNotFound is returned (wrapped) when a document or manifest
// blob does not exist.
var ErrDocumentNotFound = errors.New("flexstore: document not found")

// WrapDocumentNotFound translates err to ErrDocumentNotFound when it is the
// Azure SDK's blob-not-found error. In every other case, including err ==
// nil, the original err is returned unchanged.
func WrapDocumentNotFound(err error) error {
	if err == nil {
		return nil
	}
	if !bloberror.HasCode(err, bloberror.BlobNotFound) {
		return err
	}
	return fmt.Errorf("%s: %w", err.Error(), ErrDocumentNotFound)
}

// IsDocumentNotFound reports whether err (or anything it wraps) is a
// document-not-found error, either because WrapDocumentNotFound already
// translated it or because err is itself the Azure SDK's blob-not-found
// error.
func IsDocumentNotFound(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrDocumentNotFound) || bloberror.HasCode(err, bloberror.BlobNotFound)
}
