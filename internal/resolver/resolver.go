package resolver

import (
	"os"

	"github.com/beauthy/beauthy/internal/models"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Resolver matches applications to icons, honouring manual overrides and
// optionally falling back to the application's display name.
type Resolver struct {
	overrides    map[string]string
	nameFallback bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithOverrides maps application slugs to icon names.
func WithOverrides(overrides map[string]string) Option {
	return func(r *Resolver) {
		for slug, icon := range overrides {
			r.overrides[slug] = icon
		}
	}
}

// WithNameFallback retries with the kebab-cased display name when the slug
// has no match.
func WithNameFallback(enabled bool) Option {
	return func(r *Resolver) {
		r.nameFallback = enabled
	}
}

// New creates a Resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{overrides: make(map[string]string)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LoadOverrides reads a YAML file of "slug: icon-name" pairs.
func LoadOverrides(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, models.NewError(models.ErrConfiguration, "failed to read overrides: %w", err)
	}

	overrides := make(map[string]string)
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, models.NewError(models.ErrConfiguration, "failed to parse overrides %s: %w", path, err)
	}
	return overrides, nil
}

// ResolveApplication finds the icon entry for app.
func (r *Resolver) ResolveApplication(app models.Application, snap *models.IconCacheSnapshot) (Match, error) {
	if icon, ok := r.overrides[app.Slug]; ok {
		entry, found := snap.Lookup(models.MetaDir + icon + models.MetaExt)
		if !found {
			return Match{}, models.NewError(models.ErrNotFound, "override %q for %s is not in the icon repository", icon, app.Slug)
		}
		return Match{Entry: entry, Tier: TierOverride, Key: icon}, nil
	}

	m, err := Resolve(app.Slug, snap)
	if err == nil || !r.nameFallback {
		return m, err
	}

	name := KebabCase(app.Name)
	if name == "" || name == app.Slug {
		return m, err
	}

	logrus.Debugf("No icon for slug %s, trying name %s", app.Slug, name)
	fallback, ferr := Resolve(name, snap)
	if ferr != nil {
		return Match{}, models.NewError(models.ErrNotFound, "no icon found for %q or %q", app.Slug, name)
	}
	return fallback, nil
}
