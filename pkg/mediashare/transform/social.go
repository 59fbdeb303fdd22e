package transform

import "fmt"

// SocialFormat is one entry of the fixed social-media crop catalog.
type SocialFormat struct {
	Name        string `json:"name"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	AspectRatio string `json:"aspectRatio"`
}

// socialFormats is the catalog, in display order.
var socialFormats = []SocialFormat{
	{Name: "Instagram Square (1:1)", Width: 1080, Height: 1080, AspectRatio: "1:1"},
	{Name: "Instagram Portrait (4:5)", Width: 1080, Height: 1350, AspectRatio: "4:5"},
	{Name: "Twitter Post (16:9)", Width: 1200, Height: 675, AspectRatio: "16:9"},
	{Name: "Twitter Header (3:1)", Width: 1500, Height: 500, AspectRatio: "3:1"},
	{Name: "Facebook Cover (205:78)", Width: 820, Height: 312, AspectRatio: "205:78"},
}

// SocialFormats returns the catalog in display order. The returned slice is
// a copy; callers may reorder it freely.
func SocialFormats() []SocialFormat {
	out := make([]SocialFormat, len(socialFormats))
	copy(out, socialFormats)
	return out
}

// SocialFormatByName looks up a catalog entry by its display name.
func SocialFormatByName(name string) (SocialFormat, error) {
	for _, f := range socialFormats {
		if f.Name == name {
			return f, nil
		}
	}
	return SocialFormat{}, fmt.Errorf("%w: unknown social format %q", ErrInvalidSpec, name)
}

// Spec returns the transformation spec for this catalog entry: the fixed
// width/height/aspect-ratio triple with fill crop and auto gravity.
func (f SocialFormat) Spec() Spec {
	return Spec{
		Width:       f.Width,
		Height:      f.Height,
		AspectRatio: f.AspectRatio,
		Crop:        CropFill,
		Gravity:     GravityAuto,
	}
}
