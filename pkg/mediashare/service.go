package mediashare

import (
	"context"

	"github.com/google/uuid"

	"github.com/skypixel/mediashare/pkg/mediashare/transform"
)

// Service defines the main interface for the mediashare library.
type Service interface {
	// Upload orchestration
	UploadImage(ctx context.Context, req UploadImageRequest) (string, error)
	UploadVideo(ctx context.Context, req UploadVideoRequest) (*Video, error)

	// Video metadata operations
	GetVideo(ctx context.Context, id uuid.UUID) (*Video, error)
	ListVideos(ctx context.Context) ([]*Video, error)

	// DeriveURL maps an already-issued identifier plus a transformation spec
	// to a delivery URL. Pure with respect to its arguments: the same pair
	// always yields the same URL.
	DeriveURL(kind AssetKind, publicID string, spec transform.Spec) (string, error)
}
