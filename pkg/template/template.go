// Package template defines the closed table of social-platform card templates.
//
// Every platform a card can be exported to is described by a [PlatformTemplate]:
// fixed pixel dimensions, the ordered set of export formats the platform
// accepts, and the platform's caption length limit. The table is versioned
// configuration, not runtime state; when a platform changes its recommended
// dimensions, this table changes, never the rendering logic.
//
// Platform ids referenced anywhere in the pipeline must resolve here. An
// unknown id is a programming error surfaced as an INVALID_PLATFORM error,
// not a user-facing condition.
package template

import (
	"fmt"
	"sort"

	"github.com/kestrelhq/sharecard/pkg/errors"
)

// Format constants for export artifacts.
const (
	FormatPNG = "png"
	FormatJPG = "jpg"
	FormatPDF = "pdf"
)

// ValidFormats is the set of supported export formats.
var ValidFormats = map[string]bool{
	FormatPNG: true,
	FormatJPG: true,
	FormatPDF: true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: png, jpg, pdf)", format)
	}
	return nil
}

// Platform ids for the supported social destinations.
const (
	InstagramStory    = "instagram_story"
	InstagramFeed     = "instagram_feed"
	InstagramPortrait = "instagram_portrait"
	TikTok            = "tiktok"
	Twitter           = "twitter"
	Facebook          = "facebook"
	LinkedIn          = "linkedin"
	Pinterest         = "pinterest"
	WhatsApp          = "whatsapp"
)

// PlatformTemplate describes one social destination's canvas and constraints.
type PlatformTemplate struct {
	// ID is the platform identifier (e.g., "instagram_story").
	ID string

	// Width and Height are the canvas size in logical pixels.
	Width  int
	Height int

	// AspectRatio is the display string for the canvas proportions (e.g., "9:16").
	AspectRatio string

	// ExportFormats is the non-empty ordered set of formats the platform accepts.
	// The first entry is the recommended format used by pack exports.
	ExportFormats []string

	// CaptionLimit is the platform's maximum caption length in characters.
	CaptionLimit int
}

// RecommendedFormat returns the preferred export format for this template.
func (t PlatformTemplate) RecommendedFormat() string {
	return t.ExportFormats[0]
}

// SupportsFormat reports whether the template accepts the given format.
func (t PlatformTemplate) SupportsFormat(format string) bool {
	for _, f := range t.ExportFormats {
		if f == format {
			return true
		}
	}
	return false
}

// Dimensions returns the canvas size as a "WxH" display string.
func (t PlatformTemplate) Dimensions() string {
	return fmt.Sprintf("%dx%d", t.Width, t.Height)
}

// templates is the closed platform table. Dimensions follow each platform's
// published recommended sizes; caption limits are the platforms' hard caps.
var templates = map[string]PlatformTemplate{
	InstagramStory: {
		ID: InstagramStory, Width: 1080, Height: 1920, AspectRatio: "9:16",
		ExportFormats: []string{FormatJPG, FormatPNG, FormatPDF}, CaptionLimit: 2200,
	},
	InstagramFeed: {
		ID: InstagramFeed, Width: 1080, Height: 1080, AspectRatio: "1:1",
		ExportFormats: []string{FormatJPG, FormatPNG, FormatPDF}, CaptionLimit: 2200,
	},
	InstagramPortrait: {
		ID: InstagramPortrait, Width: 1080, Height: 1350, AspectRatio: "4:5",
		ExportFormats: []string{FormatJPG, FormatPNG, FormatPDF}, CaptionLimit: 2200,
	},
	TikTok: {
		ID: TikTok, Width: 1080, Height: 1920, AspectRatio: "9:16",
		ExportFormats: []string{FormatJPG, FormatPNG}, CaptionLimit: 2200,
	},
	Twitter: {
		ID: Twitter, Width: 1200, Height: 675, AspectRatio: "16:9",
		ExportFormats: []string{FormatPNG, FormatJPG}, CaptionLimit: 280,
	},
	Facebook: {
		ID: Facebook, Width: 1200, Height: 630, AspectRatio: "1.91:1",
		ExportFormats: []string{FormatJPG, FormatPNG, FormatPDF}, CaptionLimit: 63206,
	},
	LinkedIn: {
		ID: LinkedIn, Width: 1200, Height: 627, AspectRatio: "1.91:1",
		ExportFormats: []string{FormatPNG, FormatJPG, FormatPDF}, CaptionLimit: 3000,
	},
	Pinterest: {
		ID: Pinterest, Width: 1000, Height: 1500, AspectRatio: "2:3",
		ExportFormats: []string{FormatPNG, FormatJPG}, CaptionLimit: 500,
	},
	WhatsApp: {
		ID: WhatsApp, Width: 1080, Height: 1080, AspectRatio: "1:1",
		ExportFormats: []string{FormatJPG, FormatPNG}, CaptionLimit: 700,
	},
}

// Lookup resolves a platform id to its template.
// Unknown ids return an INVALID_PLATFORM error; callers should treat this as
// a programming error since the UI only ever offers known ids.
func Lookup(platformID string) (PlatformTemplate, error) {
	t, ok := templates[platformID]
	if !ok {
		return PlatformTemplate{}, errors.New(errors.ErrCodeInvalidPlatform,
			"unknown platform: %q", platformID)
	}
	return t, nil
}

// RecommendedFormat resolves the preferred export format for a platform id.
// This is the pure lookup used by pack exports.
func RecommendedFormat(platformID string) (string, error) {
	t, err := Lookup(platformID)
	if err != nil {
		return "", err
	}
	return t.RecommendedFormat(), nil
}

// IDs returns all known platform ids in sorted order.
func IDs() []string {
	ids := make([]string, 0, len(templates))
	for id := range templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
