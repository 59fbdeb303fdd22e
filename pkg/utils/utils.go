package utils

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"
)

var whitespace = regexp.MustCompile(`\s+`)

// DownloadFilename synthesizes the attachment filename for a derived asset
// from a display name: folded to ASCII, whitespace collapsed to underscores,
// lower-cased, fixed extension.
func DownloadFilename(displayName, ext string) string {
	name := SanitizeFilename(strings.TrimSpace(displayName))
	name = strings.ToLower(whitespace.ReplaceAllString(name, "_"))
	if name == "" {
		name = "download"
	}
	return name + "." + ext
}

// FormatDuration renders a duration in seconds as m:ss, rounding the
// seconds to the nearest whole number.
func FormatDuration(seconds float64) string {
	minutes := int(seconds) / 60
	remaining := int(math.Round(math.Mod(seconds, 60)))
	if remaining == 60 {
		minutes++
		remaining = 0
	}
	return fmt.Sprintf("%d:%02d", minutes, remaining)
}

// diacritics maps accented Latin rune ranges to their closest ASCII letter.
var diacritics = []struct {
	lo, hi rune
	out    rune
}{
	{'À', 'Å', 'A'},
	{'à', 'å', 'a'},
	{'È', 'Ë', 'E'},
	{'è', 'ë', 'e'},
	{'Ì', 'Ï', 'I'},
	{'ì', 'ï', 'i'},
	{'Ò', 'Ö', 'O'},
	{'ò', 'ö', 'o'},
	{'Ù', 'Ü', 'U'},
	{'ù', 'ü', 'u'},
	{'Ç', 'Ç', 'C'},
	{'ç', 'ç', 'c'},
	{'Ñ', 'Ñ', 'N'},
	{'ñ', 'ñ', 'n'},
}

// SanitizeFilename converts a filename to printable ASCII, folding common
// Latin diacritics to their base letter and replacing anything else with a
// dash.
func SanitizeFilename(filename string) string {
	if filename == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(filename))

	for _, r := range filename {
		if r < 128 && unicode.IsPrint(r) {
			result.WriteRune(r)
			continue
		}
		folded := '-'
		for _, d := range diacritics {
			if r >= d.lo && r <= d.hi {
				folded = d.out
				break
			}
		}
		result.WriteRune(folded)
	}

	return result.String()
}
