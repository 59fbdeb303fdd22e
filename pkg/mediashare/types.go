package mediashare

import (
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// AssetKind is the domain type for the two kinds of canonical assets.
type AssetKind string

// Asset kind constants (typed).
const (
	AssetKindImage AssetKind = "image"
	AssetKindVideo AssetKind = "video"
)

// Provider folders, one per asset kind.
const (
	ImageUploadFolder = "next-cloudinary-uploads"
	VideoUploadFolder = "video-uploads"
)

// Video represents one completed video upload.
//
// OriginalSize and CompressedSize are byte counts kept as decimal strings:
// the original size is reported by the caller before transfer and the
// compressed size comes back from the provider after transcoding. Both are
// display-only bookkeeping for the compression savings readout.
type Video struct {
	ID             uuid.UUID `json:"id"`
	PublicID       string    `json:"publicId"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	OriginalSize   string    `json:"originalSize"`
	CompressedSize string    `json:"compressedSize"`
	Duration       float64   `json:"duration"`
	CreatedAt      time.Time `json:"createdAt"`
}

// CompressionPercent reports how much smaller the provider-transcoded asset
// is relative to the caller-reported original, rounded to the nearest whole
// percent. Returns 0 when either size is missing or unparsable.
func (v *Video) CompressionPercent() int {
	original, err := strconv.ParseFloat(v.OriginalSize, 64)
	if err != nil || original <= 0 {
		return 0
	}
	compressed, err := strconv.ParseFloat(v.CompressedSize, 64)
	if err != nil || compressed < 0 {
		return 0
	}
	return int(math.Round((1 - compressed/original) * 100))
}

// UploadResult is what the transformation provider reports back after it has
// accepted and stored an upload.
type UploadResult struct {
	PublicID     string  `json:"public_id"`
	Bytes        int64   `json:"bytes"`
	Duration     float64 `json:"duration,omitempty"`
	Format       string  `json:"format,omitempty"`
	ResourceType string  `json:"resource_type,omitempty"`
}

// UploadOptions selects the provider-side profile for an upload.
type UploadOptions struct {
	Kind   AssetKind
	Folder string
	// Transformation is the provider-side incoming transformation applied at
	// upload time (e.g. "q_auto,f_mp4" for video). Empty for images: raw
	// bytes are stored as-is and variants are computed on read.
	Transformation string
}
