// Package transform is the variant URL deriver: pure functions mapping an
// already-issued asset identifier plus a transformation spec to the delivery
// URL the provider serves the derived bytes from. Nothing here performs I/O
// or synthesizes identifiers; derivation is referentially transparent, so
// callers may treat derived URLs as cacheable.
package transform

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSpec indicates a malformed transformation spec.
var ErrInvalidSpec = errors.New("invalid transformation spec")

// AssetType names the provider-side resource class an identifier belongs to.
type AssetType string

// Asset type constants (typed).
const (
	AssetTypeImage AssetType = "image"
	AssetTypeVideo AssetType = "video"
)

// Crop mode constants understood by the provider.
const (
	CropFill  = "fill"
	CropFit   = "fit"
	CropScale = "scale"
	CropLimit = "limit"
)

// Gravity strategy constants understood by the provider.
const (
	GravityAuto   = "auto"
	GravityCenter = "center"
	GravityFace   = "face"
)

// Delivery format constants understood by the provider.
const (
	FormatPNG = "png"
	FormatJPG = "jpg"
	FormatMP4 = "mp4"
)

// Spec is a declarative, stateless transformation request. Specs are never
// persisted; they are recomputed from the fixed intent catalog on every use.
type Spec struct {
	Width       int
	Height      int
	Crop        string
	Gravity     string
	Format      string
	Quality     string
	AspectRatio string

	// Raw carries provider-specific transformation segments appended after
	// the structured component (e.g. the hover-preview effect chain).
	Raw []string
}

var validCrops = map[string]bool{
	CropFill: true, CropFit: true, CropScale: true, CropLimit: true,
}

var validGravities = map[string]bool{
	GravityAuto: true, GravityCenter: true, GravityFace: true,
}

// Validate checks the spec for internal consistency. All failures wrap
// ErrInvalidSpec.
func (s Spec) Validate() error {
	if s.Width < 0 || s.Height < 0 {
		return fmt.Errorf("%w: negative dimensions %dx%d", ErrInvalidSpec, s.Width, s.Height)
	}
	if (s.Width == 0) != (s.Height == 0) {
		return fmt.Errorf("%w: width and height must be set together", ErrInvalidSpec)
	}
	if s.Width == 0 && len(s.Raw) == 0 {
		return fmt.Errorf("%w: empty spec", ErrInvalidSpec)
	}
	if s.Crop != "" && !validCrops[s.Crop] {
		return fmt.Errorf("%w: unknown crop mode %q", ErrInvalidSpec, s.Crop)
	}
	if s.Gravity != "" && !validGravities[s.Gravity] {
		return fmt.Errorf("%w: unknown gravity %q", ErrInvalidSpec, s.Gravity)
	}
	for _, raw := range s.Raw {
		if strings.ContainsAny(raw, "/ ") || raw == "" {
			return fmt.Errorf("%w: malformed raw segment %q", ErrInvalidSpec, raw)
		}
	}
	return nil
}

// Component renders the structured part of the spec in a fixed parameter
// order so that equal specs always serialize identically.
func (s Spec) Component() string {
	parts := make([]string, 0, 7)
	if s.Crop != "" {
		parts = append(parts, "c_"+s.Crop)
	}
	if s.Width > 0 {
		parts = append(parts, fmt.Sprintf("w_%d", s.Width))
	}
	if s.Height > 0 {
		parts = append(parts, fmt.Sprintf("h_%d", s.Height))
	}
	if s.AspectRatio != "" {
		parts = append(parts, "ar_"+s.AspectRatio)
	}
	if s.Gravity != "" {
		parts = append(parts, "g_"+s.Gravity)
	}
	if s.Quality != "" {
		parts = append(parts, "q_"+s.Quality)
	}
	if s.Format != "" {
		parts = append(parts, "f_"+s.Format)
	}
	return strings.Join(parts, ",")
}

// URLBuilder derives delivery URLs for one provider account. Derivation is a
// pure function of (asset type, identifier, spec); the provider computes the
// derived bytes lazily on first access.
type URLBuilder struct {
	// BaseURL is the provider delivery origin, e.g. "https://res.cloudinary.com".
	BaseURL string
	// CloudName is the provider account name.
	CloudName string
}

// NewURLBuilder creates a URL builder for the given delivery origin and
// account name. A trailing slash on baseURL is tolerated.
func NewURLBuilder(baseURL, cloudName string) *URLBuilder {
	return &URLBuilder{
		BaseURL:   strings.TrimSuffix(baseURL, "/"),
		CloudName: cloudName,
	}
}

// Derive maps (identifier, spec) to the delivery URL for the derived asset.
// It never blocks and fails only on a malformed spec or arguments.
func (b *URLBuilder) Derive(assetType AssetType, publicID string, spec Spec) (string, error) {
	if b.BaseURL == "" || b.CloudName == "" {
		return "", fmt.Errorf("url builder not configured")
	}
	if publicID == "" {
		return "", fmt.Errorf("%w: empty identifier", ErrInvalidSpec)
	}
	if assetType != AssetTypeImage && assetType != AssetTypeVideo {
		return "", fmt.Errorf("%w: unknown asset type %q", ErrInvalidSpec, assetType)
	}
	if err := spec.Validate(); err != nil {
		return "", err
	}

	segments := make([]string, 0, 1+len(spec.Raw))
	if c := spec.Component(); c != "" {
		segments = append(segments, c)
	}
	segments = append(segments, spec.Raw...)

	return fmt.Sprintf("%s/%s/%s/upload/%s/%s",
		b.BaseURL, b.CloudName, assetType, strings.Join(segments, "/"), publicID), nil
}
