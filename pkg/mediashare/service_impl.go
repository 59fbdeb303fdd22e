package mediashare

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/skypixel/mediashare/pkg/mediashare/transform"
)

// service implements the Service interface
type service struct {
	provider   Provider
	repository Repository
	archive    BlobStore
	eventSink  EventSink
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithProvider sets the transformation provider for the service
func WithProvider(p Provider) Option {
	return func(s *service) {
		s.provider = p
	}
}

// WithRepository sets the video metadata repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithArchive sets the optional originals archive
func WithArchive(store BlobStore) Option {
	return func(s *service) {
		s.archive = store
	}
}

// WithEventSink sets the event sink for the service
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.eventSink = sink
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{}

	for _, option := range options {
		option(s)
	}

	if s.provider == nil {
		return nil, fmt.Errorf("provider is required")
	}
	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.eventSink == nil {
		s.eventSink = NewNoopEventSink()
	}

	return s, nil
}

// UploadImage ships raw image bytes to the provider and returns the issued
// identifier. No transformation is applied at upload time and no metadata
// record is written; variants are computed later on read.
func (s *service) UploadImage(ctx context.Context, req UploadImageRequest) (string, error) {
	if !s.provider.Configured() {
		return "", &UploadError{Kind: AssetKindImage, Op: "upload", Err: ErrProviderNotConfigured}
	}
	if req.Reader == nil {
		return "", &UploadError{Kind: AssetKindImage, Op: "upload", Err: ErrMissingFile}
	}

	payload, err := io.ReadAll(req.Reader)
	if err != nil {
		return "", &UploadError{Kind: AssetKindImage, Op: "read", Err: err}
	}

	result, err := s.provider.Upload(ctx, bytes.NewReader(payload), UploadOptions{
		Kind:   AssetKindImage,
		Folder: ImageUploadFolder,
	})
	if err != nil {
		s.fireUploadFailed(ctx, AssetKindImage, err)
		return "", &UploadError{Kind: AssetKindImage, Op: "upload", Err: fmt.Errorf("%w: %v", ErrProviderUpload, err)}
	}

	s.archiveOriginal(ctx, AssetKindImage, result.PublicID, payload)

	if err := s.eventSink.ImageUploaded(ctx, result.PublicID); err != nil {
		slog.Warn("image uploaded event failed", "public_id", result.PublicID, "error", err)
	}

	return result.PublicID, nil
}

// UploadVideo ships raw video bytes to the provider with the fixed delivery
// profile (quality auto, mp4), then persists exactly one metadata record.
// The two steps are strictly ordered: the record is written only after the
// provider has acknowledged the upload, so a provider failure leaves no
// orphan record behind.
func (s *service) UploadVideo(ctx context.Context, req UploadVideoRequest) (*Video, error) {
	if !s.provider.Configured() {
		return nil, &UploadError{Kind: AssetKindVideo, Op: "upload", Err: ErrProviderNotConfigured}
	}
	if req.Reader == nil {
		return nil, &UploadError{Kind: AssetKindVideo, Op: "upload", Err: ErrMissingFile}
	}

	payload, err := io.ReadAll(req.Reader)
	if err != nil {
		return nil, &UploadError{Kind: AssetKindVideo, Op: "read", Err: err}
	}

	result, err := s.provider.Upload(ctx, bytes.NewReader(payload), UploadOptions{
		Kind:           AssetKindVideo,
		Folder:         VideoUploadFolder,
		Transformation: "q_auto,f_mp4",
	})
	if err != nil {
		s.fireUploadFailed(ctx, AssetKindVideo, err)
		return nil, &UploadError{Kind: AssetKindVideo, Op: "upload", Err: fmt.Errorf("%w: %v", ErrProviderUpload, err)}
	}

	video := &Video{
		ID:             uuid.New(),
		PublicID:       result.PublicID,
		Title:          req.Title,
		Description:    req.Description,
		OriginalSize:   originalSizeOrActual(req.OriginalSize, len(payload)),
		CompressedSize: strconv.FormatInt(result.Bytes, 10),
		Duration:       result.Duration,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.repository.CreateVideo(ctx, video); err != nil {
		s.fireUploadFailed(ctx, AssetKindVideo, err)
		return nil, &UploadError{Kind: AssetKindVideo, Op: "persist", Err: fmt.Errorf("%w: %v", ErrPersistence, err)}
	}

	s.archiveOriginal(ctx, AssetKindVideo, result.PublicID, payload)

	if err := s.eventSink.VideoUploaded(ctx, video); err != nil {
		slog.Warn("video uploaded event failed", "public_id", video.PublicID, "error", err)
	}

	return video, nil
}

func (s *service) GetVideo(ctx context.Context, id uuid.UUID) (*Video, error) {
	return s.repository.GetVideo(ctx, id)
}

func (s *service) ListVideos(ctx context.Context) ([]*Video, error) {
	return s.repository.ListVideos(ctx)
}

func (s *service) DeriveURL(kind AssetKind, publicID string, spec transform.Spec) (string, error) {
	return s.provider.URLs().Derive(transform.AssetType(kind), publicID, spec)
}

// originalSizeOrActual keeps the caller-reported size when it parses as a
// byte count, falling back to the length actually received.
func originalSizeOrActual(reported string, actual int) string {
	if n, err := strconv.ParseInt(reported, 10, 64); err == nil && n > 0 {
		return reported
	}
	return strconv.Itoa(actual)
}

// archiveOriginal keeps a best-effort copy of the raw upload. The provider
// holds the canonical bytes, so an archive failure is logged and swallowed.
func (s *service) archiveOriginal(ctx context.Context, kind AssetKind, publicID string, payload []byte) {
	if s.archive == nil {
		return
	}
	key := fmt.Sprintf("originals/%s/%s", kind, publicID)
	if err := s.archive.Upload(ctx, key, bytes.NewReader(payload)); err != nil {
		slog.Warn("originals archive write failed", "key", key, "error", err)
	}
}

func (s *service) fireUploadFailed(ctx context.Context, kind AssetKind, cause error) {
	if err := s.eventSink.UploadFailed(ctx, kind, cause); err != nil {
		slog.Warn("upload failed event failed", "kind", kind, "error", err)
	}
}
