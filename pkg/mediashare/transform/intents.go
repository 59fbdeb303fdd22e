package transform

// Named transformation intents. Each maps to a fixed tuple used identically
// for every asset, which is what keeps derived URLs stable across callers.

// ThumbnailStill is the small fixed-aspect card image. Against a video
// identifier the jpg output format makes the provider extract a still frame.
func ThumbnailStill() Spec {
	return Spec{
		Width:   400,
		Height:  225,
		Crop:    CropFill,
		Gravity: GravityAuto,
		Format:  FormatJPG,
		Quality: "auto",
	}
}

// HoverPreview is the short looping clip shown while a card is hovered:
// at most 15 seconds sampled from up to 9 segments of at least 1 second.
// Muted autoplay is the consumer's concern, not encoded in the URL.
func HoverPreview() Spec {
	return Spec{
		Width:  400,
		Height: 225,
		Raw:    []string{"e_preview:duration_15:max_seg_9:min_seg_dur_1"},
	}
}

// FullResolution is the maximum delivered resolution with no cropping.
func FullResolution() Spec {
	return Spec{
		Width:  1920,
		Height: 1080,
	}
}
