// Package caption composes share captions for activity cards.
//
// Composition is a pure function of its inputs: the same activity metadata
// and style always produce the same caption. Hashtag inclusion is driven by
// a per-style policy table, not by call sites. The composer never truncates;
// it reports the character count and whether a platform's limit is exceeded
// so the caller can warn the user.
package caption

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kestrelhq/sharecard/pkg/errors"
	"github.com/kestrelhq/sharecard/pkg/template"
)

// Style selects a caption formatting strategy.
type Style string

// Supported caption styles.
const (
	StyleStandard Style = "standard"
	StyleSocial   Style = "social"
	StyleMinimal  Style = "minimal"
	StyleDetailed Style = "detailed"
)

// ValidStyles is the set of supported caption styles.
var ValidStyles = map[Style]bool{
	StyleStandard: true,
	StyleSocial:   true,
	StyleMinimal:  true,
	StyleDetailed: true,
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(s Style) error {
	if !ValidStyles[s] {
		return errors.New(errors.ErrCodeInvalidStyle,
			"invalid caption style: %q (must be one of: standard, social, minimal, detailed)", s)
	}
	return nil
}

// policy describes what a style includes. This table is the single source of
// truth for category, hashtag, summary, and attribution inclusion.
type policy struct {
	category    bool
	hashtags    bool
	summary     bool
	attribution bool
}

var stylePolicies = map[Style]policy{
	StyleStandard: {category: true, attribution: true},
	StyleSocial:   {category: true, hashtags: true, attribution: true},
	StyleMinimal:  {},
	StyleDetailed: {category: true, hashtags: true, summary: true, attribution: true},
}

// Input carries the activity metadata a caption is composed from.
type Input struct {
	ActivityID    string
	Title         string
	Category      string
	CreatorName   string
	CreatorHandle string
	Summary       string
}

// Caption is a composed caption. Body and Hashtags are kept separate so the
// UI can render them independently; FullText is the ready-to-paste join.
type Caption struct {
	Body     string
	Hashtags []string
	FullText string

	// CharacterCount is len(Body) + len(join(Hashtags, " ")) in characters.
	// It is reported, never enforced: truncation is a UI concern.
	CharacterCount int

	// Limit and OverLimit are populated by ComposeForPlatform.
	Limit     int
	OverLimit bool
}

// Compose builds a caption from the input using the given style.
// It is deterministic and never truncates.
func Compose(in Input, style Style) Caption {
	p, ok := stylePolicies[style]
	if !ok {
		p = stylePolicies[StyleStandard]
	}

	var b strings.Builder
	b.WriteString(in.Title)

	if p.category && in.Category != "" {
		fmt.Fprintf(&b, " · %s", titleCase(in.Category))
	}
	if p.summary && in.Summary != "" {
		b.WriteString("\n\n")
		b.WriteString(in.Summary)
	}
	if p.attribution {
		if attr := attribution(in); attr != "" {
			b.WriteString("\n")
			b.WriteString(attr)
		}
	}

	c := Caption{Body: b.String()}
	if p.hashtags {
		c.Hashtags = hashtagsFor(in.Category)
	}
	c.FullText = c.Body
	if len(c.Hashtags) > 0 {
		c.FullText += "\n\n" + strings.Join(c.Hashtags, " ")
	}
	c.CharacterCount = utf8.RuneCountInString(c.Body) +
		utf8.RuneCountInString(strings.Join(c.Hashtags, " "))
	return c
}

// ComposeForPlatform composes a caption and annotates it with the target
// platform's caption limit. The limit is metadata for a character counter;
// the caption is never cut to fit.
func ComposeForPlatform(in Input, style Style, platformID string) (Caption, error) {
	tpl, err := template.Lookup(platformID)
	if err != nil {
		return Caption{}, err
	}
	c := Compose(in, style)
	c.Limit = tpl.CaptionLimit
	c.OverLimit = c.CharacterCount > tpl.CaptionLimit
	return c, nil
}

// attribution formats the creator credit line, preferring handle over name.
func attribution(in Input) string {
	switch {
	case in.CreatorHandle != "":
		return "by @" + strings.TrimPrefix(in.CreatorHandle, "@")
	case in.CreatorName != "":
		return "by " + in.CreatorName
	default:
		return ""
	}
}

// hashtagsFor derives hashtags from the activity category.
// The category tag always comes first, followed by the app-wide tags.
func hashtagsFor(category string) []string {
	tags := []string{}
	if tag := hashtag(category); tag != "" {
		tags = append(tags, tag)
	}
	return append(tags, "#goals", "#progress")
}

// hashtag converts free-form category text into a single hashtag,
// keeping only letters and digits ("self care" -> "#selfcare").
func hashtag(category string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(category) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return "#" + b.String()
}

// titleCase uppercases the first letter of each word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = strings.ToUpper(string(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
