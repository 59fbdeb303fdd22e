package mediashare

import (
	"context"
	"log/slog"
)

// NoopEventSink is an EventSink that does nothing.
type NoopEventSink struct{}

// NewNoopEventSink creates a new no-op event sink
func NewNoopEventSink() *NoopEventSink {
	return &NoopEventSink{}
}

func (s *NoopEventSink) ImageUploaded(ctx context.Context, publicID string) error { return nil }

func (s *NoopEventSink) VideoUploaded(ctx context.Context, video *Video) error { return nil }

func (s *NoopEventSink) UploadFailed(ctx context.Context, kind AssetKind, err error) error {
	return nil
}

// LogEventSink writes one structured log line per upload lifecycle event.
type LogEventSink struct {
	logger *slog.Logger
}

// NewLogEventSink creates an event sink backed by the given logger.
// A nil logger falls back to slog.Default().
func NewLogEventSink(logger *slog.Logger) *LogEventSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogEventSink{logger: logger}
}

func (s *LogEventSink) ImageUploaded(ctx context.Context, publicID string) error {
	s.logger.InfoContext(ctx, "image uploaded", "public_id", publicID)
	return nil
}

func (s *LogEventSink) VideoUploaded(ctx context.Context, video *Video) error {
	s.logger.InfoContext(ctx, "video uploaded",
		"public_id", video.PublicID,
		"title", video.Title,
		"compressed_size", video.CompressedSize,
		"duration", video.Duration,
	)
	return nil
}

func (s *LogEventSink) UploadFailed(ctx context.Context, kind AssetKind, err error) error {
	s.logger.ErrorContext(ctx, "upload failed", "kind", kind, "error", err)
	return nil
}
