package template

import (
	"sort"

	"github.com/kestrelhq/sharecard/pkg/errors"
)

// PlatformPack is a named, ordered bundle of platform ids exported together
// by the batch flow.
type PlatformPack struct {
	ID          string
	DisplayName string
	Platforms   []string
}

// Pack ids for the built-in bundles.
const (
	SocialPack       = "social_pack"
	StoriesPack      = "stories_pack"
	ProfessionalPack = "professional_pack"
)

// packs is the closed pack table. Every platform id listed here must resolve
// via Lookup; the registry tests enforce this.
var packs = map[string]PlatformPack{
	SocialPack: {
		ID:          SocialPack,
		DisplayName: "Social Media Pack",
		Platforms:   []string{InstagramFeed, InstagramStory, Twitter, Facebook},
	},
	StoriesPack: {
		ID:          StoriesPack,
		DisplayName: "Stories Pack",
		Platforms:   []string{InstagramStory, TikTok, WhatsApp},
	},
	ProfessionalPack: {
		ID:          ProfessionalPack,
		DisplayName: "Professional Pack",
		Platforms:   []string{LinkedIn, Twitter, Facebook, Pinterest},
	},
}

// LookupPack resolves a pack id to its bundle.
// Unknown ids return an INVALID_PACK error.
func LookupPack(packID string) (PlatformPack, error) {
	p, ok := packs[packID]
	if !ok {
		return PlatformPack{}, errors.New(errors.ErrCodeInvalidPack, "unknown pack: %q", packID)
	}
	return p, nil
}

// PackIDs returns all known pack ids in sorted order.
func PackIDs() []string {
	ids := make([]string, 0, len(packs))
	for id := range packs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
