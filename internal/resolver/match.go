package resolver

import (
	"strings"

	"github.com/beauthy/beauthy/internal/models"
)

// Tier is the matching rule that selected an icon.
type Tier int

const (
	TierExact Tier = iota + 1
	TierPrefix
	TierSubstring
	TierOverride
)

// String returns the string representation of Tier
func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierPrefix:
		return "prefix"
	case TierSubstring:
		return "substring"
	case TierOverride:
		return "override"
	default:
		return "unknown"
	}
}

// Match is a resolved icon meta entry.
type Match struct {
	Entry models.IconMetaEntry
	Tier  Tier
	// Key is the string the entry was matched against.
	Key string
}

// Name returns the icon file name of the matched entry.
func (m Match) Name() string {
	return IconName(m.Entry.Path)
}

// Resolve finds the icon entry for key. Tiers are tried in order (exact,
// prefix, substring); within a tier the first entry in snapshot order wins.
func Resolve(key string, snap *models.IconCacheSnapshot) (Match, error) {
	if key == "" {
		return Match{}, models.NewError(models.ErrNotFound, "no icon found for empty name")
	}

	exact := models.MetaDir + key + models.MetaExt
	prefix := models.MetaDir + key

	tiers := []struct {
		tier  Tier
		match func(path string) bool
	}{
		{TierExact, func(p string) bool { return p == exact }},
		{TierPrefix, func(p string) bool { return strings.HasPrefix(p, prefix) }},
		{TierSubstring, func(p string) bool { return strings.Contains(p, key) }},
	}

	for _, t := range tiers {
		for _, e := range snap.Entries {
			if t.match(e.Path) {
				return Match{Entry: e, Tier: t.tier, Key: key}, nil
			}
		}
	}

	return Match{}, models.NewError(models.ErrNotFound, "no icon found for %q", key)
}

// IconName strips the meta directory and extension from a meta path:
// meta/foo-bar.json becomes foo-bar.
func IconName(path string) string {
	name := strings.TrimPrefix(path, models.MetaDir)
	return strings.TrimSuffix(name, models.MetaExt)
}
