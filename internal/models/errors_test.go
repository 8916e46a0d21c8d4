package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeauthyErrorMessage(t *testing.T) {
	err := NewError(ErrNotFound, "no icon found for %q", "plex")
	assert.Equal(t, `[NotFound] no icon found for "plex"`, err.Error())

	tagged := ForApplication("plex", err)
	assert.Equal(t, `[NotFound] plex: no icon found for "plex"`, tagged.Error())
}

func TestForApplicationKeepsTypeAndStatus(t *testing.T) {
	wrapped := fmt.Errorf("generate description: %w", UpstreamError(503, "ollama down"))

	err := ForApplication("jellyfin", wrapped)

	var be *BeauthyError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, ErrUpstream, be.Type)
	assert.Equal(t, 503, be.StatusCode)
	assert.Equal(t, "jellyfin", be.Application)
	assert.Contains(t, err.Error(), "generate description")
}

func TestForApplicationPlainError(t *testing.T) {
	err := ForApplication("plex", errors.New("connection reset"))
	assert.True(t, IsType(err, ErrTransport))
	assert.Nil(t, ForApplication("plex", nil))
}

func TestIconMeta(t *testing.T) {
	assert.False(t, (&IconMeta{Base: "svg"}).HasVariants())
	assert.False(t, (&IconMeta{Colors: &IconColors{}}).HasVariants())
	assert.True(t, (&IconMeta{Colors: &IconColors{Light: "plex-light"}}).HasVariants())

	assert.True(t, IsMetaPath("meta/plex.json"))
	assert.False(t, IsMetaPath("svg/plex.svg"))
	assert.False(t, IsMetaPath("meta/README.md"))
}

func TestSnapshotLookup(t *testing.T) {
	snap := &IconCacheSnapshot{Entries: []IconMetaEntry{{Path: "meta/plex.json", SHA: "a"}}}

	e, ok := snap.Lookup("meta/plex.json")
	assert.True(t, ok)
	assert.Equal(t, "a", e.SHA)

	_, ok = snap.Lookup("meta/jellyfin.json")
	assert.False(t, ok)
}
