package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/beauthy/beauthy/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot(paths ...string) *models.IconCacheSnapshot {
	snap := &models.IconCacheSnapshot{}
	for _, p := range paths {
		snap.Entries = append(snap.Entries, models.IconMetaEntry{Path: p, SHA: "sha-" + p})
	}
	return snap
}

func TestResolveTiers(t *testing.T) {
	tests := []struct {
		name     string
		slug     string
		paths    []string
		wantPath string
		wantTier Tier
	}{
		{
			name:     "exact match beats prefix",
			slug:     "plex",
			paths:    []string{"meta/plex.json", "meta/plexamp.json"},
			wantPath: "meta/plex.json",
			wantTier: TierExact,
		},
		{
			name:     "exact match wins even when listed last",
			slug:     "plex",
			paths:    []string{"meta/plexamp.json", "meta/media/plex-old.json", "meta/plex.json"},
			wantPath: "meta/plex.json",
			wantTier: TierExact,
		},
		{
			name:     "prefix match",
			slug:     "plex",
			paths:    []string{"meta/plexamp.json"},
			wantPath: "meta/plexamp.json",
			wantTier: TierPrefix,
		},
		{
			name:     "first prefix match in snapshot order",
			slug:     "plex",
			paths:    []string{"meta/old-plex.json", "meta/plexamp.json", "meta/plex-meta-manager.json"},
			wantPath: "meta/plexamp.json",
			wantTier: TierPrefix,
		},
		{
			name:     "substring match",
			slug:     "plex",
			paths:    []string{"meta/media/old-plex-server.json"},
			wantPath: "meta/media/old-plex-server.json",
			wantTier: TierSubstring,
		},
		{
			name:     "first substring match in snapshot order",
			slug:     "grafana",
			paths:    []string{"meta/jellyfin.json", "meta/loki-grafana.json", "meta/my-grafana.json"},
			wantPath: "meta/loki-grafana.json",
			wantTier: TierSubstring,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Resolve(tt.slug, snapshot(tt.paths...))
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, m.Entry.Path)
			assert.Equal(t, "sha-"+tt.wantPath, m.Entry.SHA)
			assert.Equal(t, tt.wantTier, m.Tier)
		})
	}
}

func TestResolveNotFound(t *testing.T) {
	for _, slug := range []string{"nextcloud", ""} {
		_, err := Resolve(slug, snapshot("meta/plex.json", "meta/jellyfin.json"))
		require.Error(t, err)
		assert.True(t, models.IsType(err, models.ErrNotFound), "slug %q", slug)
	}

	_, err := Resolve("plex", &models.IconCacheSnapshot{})
	assert.True(t, models.IsType(err, models.ErrNotFound))
}

func TestIconName(t *testing.T) {
	assert.Equal(t, "foo-bar", IconName("meta/foo-bar.json"))
	assert.Equal(t, "media/old-plex-server", IconName("meta/media/old-plex-server.json"))

	m := Match{Entry: models.IconMetaEntry{Path: "meta/plex.json"}}
	assert.Equal(t, "plex", m.Name())
}

func TestResolveApplicationOverride(t *testing.T) {
	snap := snapshot("meta/plex.json", "meta/home-assistant.json")
	r := New(WithOverrides(map[string]string{"hass": "home-assistant", "broken": "missing"}))

	m, err := r.ResolveApplication(models.Application{Slug: "hass"}, snap)
	require.NoError(t, err)
	assert.Equal(t, "meta/home-assistant.json", m.Entry.Path)
	assert.Equal(t, TierOverride, m.Tier)

	_, err = r.ResolveApplication(models.Application{Slug: "broken"}, snap)
	assert.True(t, models.IsType(err, models.ErrNotFound))

	m, err = r.ResolveApplication(models.Application{Slug: "plex"}, snap)
	require.NoError(t, err)
	assert.Equal(t, TierExact, m.Tier)
}

func TestResolveApplicationNameFallback(t *testing.T) {
	snap := snapshot("meta/home-assistant.json")
	app := models.Application{Slug: "hass", Name: "Home Assistant"}

	_, err := New().ResolveApplication(app, snap)
	assert.True(t, models.IsType(err, models.ErrNotFound))

	m, err := New(WithNameFallback(true)).ResolveApplication(app, snap)
	require.NoError(t, err)
	assert.Equal(t, "meta/home-assistant.json", m.Entry.Path)
	assert.Equal(t, "home-assistant", m.Key)

	_, err = New(WithNameFallback(true)).ResolveApplication(models.Application{Slug: "x", Name: "Nothing Here"}, snap)
	assert.True(t, models.IsType(err, models.ErrNotFound))
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.yaml")
	require.NoError(t, os.WriteFile(path, []byte("hass: home-assistant\npve: proxmox\n"), 0644))

	overrides, err := LoadOverrides(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"hass": "home-assistant", "pve": "proxmox"}, overrides)

	_, err = LoadOverrides(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, models.IsType(err, models.ErrConfiguration))
}

func TestKebabCase(t *testing.T) {
	tests := map[string]string{
		"Home Assistant":    "home-assistant",
		"HomeAssistant":     "home-assistant",
		"uptime_kuma":       "uptime-kuma",
		"  Jellyfin  ":      "jellyfin",
		"Pi-hole":           "pi-hole",
		"Café Manager":      "cafe-manager",
		"nginx proxy   mgr": "nginx-proxy-mgr",
	}
	for in, want := range tests {
		assert.Equal(t, want, KebabCase(in), in)
	}
}
