package models

import (
	"strings"
	"time"
)

const (
	// MetaDir is the directory of the icon repository holding meta files.
	MetaDir = "meta/"
	// MetaExt is the extension of a meta file.
	MetaExt = ".json"
)

// IconMetaEntry locates one meta file in the icon repository tree.
type IconMetaEntry struct {
	Path string `json:"path"`
	SHA  string `json:"sha"`
}

// IsMetaPath reports whether path is a meta file (meta/*.json).
func IsMetaPath(path string) bool {
	return strings.HasPrefix(path, MetaDir) && strings.HasSuffix(path, MetaExt)
}

// IconColors lists the colour variants of an icon.
type IconColors struct {
	Dark  string `json:"dark,omitempty"`
	Light string `json:"light,omitempty"`
}

// IconMeta is the parsed content of a meta file.
type IconMeta struct {
	Base       string      `json:"base"`
	Aliases    []string    `json:"aliases,omitempty"`
	Categories []string    `json:"categories,omitempty"`
	Colors     *IconColors `json:"colors,omitempty"`
}

// HasVariants reports whether the meta file declares colour variants.
func (m *IconMeta) HasVariants() bool {
	return m.Colors != nil && (m.Colors.Dark != "" || m.Colors.Light != "")
}

// IconCacheSnapshot is the ordered set of meta entries of the icon
// repository at FetchedAt.
type IconCacheSnapshot struct {
	Repository string
	Branch     string
	FetchedAt  time.Time
	Entries    []IconMetaEntry
}

// Lookup returns the entry with the given path.
func (s *IconCacheSnapshot) Lookup(path string) (IconMetaEntry, bool) {
	for _, e := range s.Entries {
		if e.Path == path {
			return e, true
		}
	}
	return IconMetaEntry{}, false
}
