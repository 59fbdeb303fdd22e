package mediashare

import (
	"errors"
	"fmt"

	"github.com/skypixel/mediashare/pkg/mediashare/transform"
)

// Error types
var (
	// ErrUnauthorized indicates the request carried no valid session
	ErrUnauthorized = errors.New("unauthorized")

	// ErrMissingFile indicates the multipart form carried no file field
	ErrMissingFile = errors.New("file not found")

	// ErrProviderNotConfigured indicates the transformation provider
	// credentials are incomplete. Fast-fail guard, not a retry condition.
	ErrProviderNotConfigured = errors.New("missing provider credentials")

	// ErrProviderUpload indicates the transformation provider rejected or
	// errored during the streaming upload
	ErrProviderUpload = errors.New("provider upload failed")

	// ErrPersistence indicates the metadata record could not be written
	ErrPersistence = errors.New("metadata write failed")

	// ErrVideoNotFound indicates a video record was not found
	ErrVideoNotFound = errors.New("video not found")

	// ErrInvalidSpec indicates a malformed transformation spec
	ErrInvalidSpec = transform.ErrInvalidSpec

	// ErrDownloadFailed indicates a derived asset could not be fetched
	ErrDownloadFailed = errors.New("download failed")
)

// UploadError represents an error in the upload orchestration for one asset.
type UploadError struct {
	Kind AssetKind
	Op   string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload operation %s failed for %s asset: %v", e.Op, e.Kind, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// ProviderError represents an error returned by the transformation provider.
type ProviderError struct {
	Endpoint string
	Status   int
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("provider request to %s failed with status %d: %v", e.Endpoint, e.Status, e.Err)
	}
	return fmt.Sprintf("provider request to %s failed: %v", e.Endpoint, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// StorageError represents an error in the originals archive.
type StorageError struct {
	Backend string
	Key     string
	Op      string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("archive operation %s failed for key %s on backend %s: %v", e.Op, e.Key, e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
