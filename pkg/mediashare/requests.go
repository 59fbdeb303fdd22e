package mediashare

import "io"

// Request DTOs

// UploadImageRequest contains parameters for uploading an image.
type UploadImageRequest struct {
	Reader   io.Reader
	FileName string
}

// UploadVideoRequest contains parameters for uploading a video.
//
// OriginalSize is the byte length observed caller-side before any network
// transfer, carried as a decimal string. It is trusted for display when
// parseable; otherwise the actually-received byte length is recorded.
type UploadVideoRequest struct {
	Reader       io.Reader
	FileName     string
	Title        string
	Description  string
	OriginalSize string
}
