package mediashare

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/skypixel/mediashare/pkg/mediashare/transform"
)

// Provider is the remote transformation service boundary. It owns the
// canonical bytes; this module only references the identifiers it issues.
type Provider interface {
	// Upload ships raw bytes to the provider in a single round trip and
	// returns the issued identifier plus derived statistics.
	Upload(ctx context.Context, reader io.Reader, opts UploadOptions) (*UploadResult, error)

	// URLs returns the deriver used to map (identifier, spec) pairs to
	// delivery URLs for assets held by this provider.
	URLs() *transform.URLBuilder

	// Configured reports whether the provider has a complete credential set.
	Configured() bool
}

// Repository defines the interface for video metadata persistence.
// Records are append-only: created exactly once at successful upload
// completion and never mutated afterwards.
type Repository interface {
	CreateVideo(ctx context.Context, video *Video) error
	GetVideo(ctx context.Context, id uuid.UUID) (*Video, error)
	ListVideos(ctx context.Context) ([]*Video, error)
}

// BlobStore is the originals archive: an optional local copy of the raw
// uploaded bytes, kept for disaster recovery and re-upload.
type BlobStore interface {
	// Upload stores content under the given key
	Upload(ctx context.Context, objectKey string, reader io.Reader) error

	// Download retrieves content stored under the given key
	Download(ctx context.Context, objectKey string) (io.ReadCloser, error)

	// Delete removes content stored under the given key
	Delete(ctx context.Context, objectKey string) error

	// GetObjectMeta retrieves metadata for a stored object
	GetObjectMeta(ctx context.Context, objectKey string) (*ObjectMeta, error)
}

// ObjectMeta contains metadata about an object in the originals archive.
type ObjectMeta struct {
	Key         string
	Size        int64
	ContentType string
	UpdatedAt   time.Time
}

// EventSink defines the interface for upload lifecycle notifications.
type EventSink interface {
	// ImageUploaded is fired after the provider acknowledges an image upload
	ImageUploaded(ctx context.Context, publicID string) error

	// VideoUploaded is fired after the video record has been persisted
	VideoUploaded(ctx context.Context, video *Video) error

	// UploadFailed is fired once per failed upload, with the detailed cause
	UploadFailed(ctx context.Context, kind AssetKind, err error) error
}
