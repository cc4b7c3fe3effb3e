package template

import (
	"testing"

	"github.com/kestrelhq/sharecard/pkg/errors"
)

func TestLookupKnownPlatforms(t *testing.T) {
	for _, id := range IDs() {
		tpl, err := Lookup(id)
		if err != nil {
			t.Fatalf("Lookup(%q) error: %v", id, err)
		}
		if tpl.ID != id {
			t.Errorf("Lookup(%q).ID = %q", id, tpl.ID)
		}
		if tpl.Width <= 0 || tpl.Height <= 0 {
			t.Errorf("%s: non-positive dimensions %dx%d", id, tpl.Width, tpl.Height)
		}
		if len(tpl.ExportFormats) == 0 {
			t.Errorf("%s: empty export formats", id)
		}
		if tpl.CaptionLimit <= 0 {
			t.Errorf("%s: non-positive caption limit %d", id, tpl.CaptionLimit)
		}
		for _, f := range tpl.ExportFormats {
			if !ValidFormats[f] {
				t.Errorf("%s: invalid format %q in table", id, f)
			}
		}
	}
}

func TestLookupUnknownPlatform(t *testing.T) {
	_, err := Lookup("myspace")
	if err == nil {
		t.Fatal("Lookup should fail for unknown platform")
	}
	if !errors.Is(err, errors.ErrCodeInvalidPlatform) {
		t.Errorf("error code = %q, want INVALID_PLATFORM", errors.GetCode(err))
	}
}

func TestRecommendedFormatIsFirstListed(t *testing.T) {
	tpl, err := Lookup(InstagramStory)
	if err != nil {
		t.Fatal(err)
	}
	if got := tpl.RecommendedFormat(); got != tpl.ExportFormats[0] {
		t.Errorf("RecommendedFormat = %q, want %q", got, tpl.ExportFormats[0])
	}

	format, err := RecommendedFormat(Twitter)
	if err != nil {
		t.Fatal(err)
	}
	if format != FormatPNG {
		t.Errorf("twitter recommended format = %q, want png", format)
	}
}

func TestInstagramStoryDimensions(t *testing.T) {
	tpl, err := Lookup(InstagramStory)
	if err != nil {
		t.Fatal(err)
	}
	if tpl.Width != 1080 || tpl.Height != 1920 {
		t.Errorf("instagram_story = %s, want 1080x1920", tpl.Dimensions())
	}
	if !tpl.SupportsFormat(FormatJPG) || !tpl.SupportsFormat(FormatPDF) {
		t.Error("instagram_story should support jpg and pdf")
	}
	if tpl.CaptionLimit != 2200 {
		t.Errorf("instagram_story caption limit = %d, want 2200", tpl.CaptionLimit)
	}
}

// Every platform id referenced by a pack must resolve, and the pack's
// recommended format for each platform must be one of the template's formats.
func TestPackTemplateCompleteness(t *testing.T) {
	for _, packID := range PackIDs() {
		pack, err := LookupPack(packID)
		if err != nil {
			t.Fatalf("LookupPack(%q) error: %v", packID, err)
		}
		if len(pack.Platforms) == 0 {
			t.Errorf("%s: empty platform list", packID)
		}
		seen := map[string]bool{}
		for _, pid := range pack.Platforms {
			if seen[pid] {
				t.Errorf("%s: duplicate platform %q", packID, pid)
			}
			seen[pid] = true

			tpl, err := Lookup(pid)
			if err != nil {
				t.Errorf("%s: platform %q does not resolve: %v", packID, pid, err)
				continue
			}
			if !tpl.SupportsFormat(tpl.RecommendedFormat()) {
				t.Errorf("%s: recommended format %q not in %q's formats", packID, tpl.RecommendedFormat(), pid)
			}
		}
	}
}

func TestLookupUnknownPack(t *testing.T) {
	_, err := LookupPack("mega_pack")
	if err == nil {
		t.Fatal("LookupPack should fail for unknown pack")
	}
	if !errors.Is(err, errors.ErrCodeInvalidPack) {
		t.Errorf("error code = %q, want INVALID_PACK", errors.GetCode(err))
	}
}

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{FormatPNG, FormatJPG, FormatPDF} {
		if err := ValidateFormat(f); err != nil {
			t.Errorf("ValidateFormat(%q) error: %v", f, err)
		}
	}
	if err := ValidateFormat("gif"); err == nil {
		t.Error("ValidateFormat should reject gif")
	}
}
