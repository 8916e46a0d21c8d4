package resolver

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/beauthy/beauthy/internal/models"
)

// Delivery selects how an icon reaches the portal.
type Delivery string

const (
	// DeliveryFile uploads a local icon file.
	DeliveryFile Delivery = "file"
	// DeliveryURL hands the portal a CDN URL to fetch.
	DeliveryURL Delivery = "url"
)

const (
	// FormatDefault uses the base format declared by the meta file.
	FormatDefault = "default"

	ThemeDark  = "dark"
	ThemeLight = "light"
)

// ParseDelivery validates a delivery method name.
func ParseDelivery(s string) (Delivery, error) {
	switch Delivery(s) {
	case DeliveryFile, DeliveryURL:
		return Delivery(s), nil
	}
	return "", models.NewError(models.ErrConfiguration, "unknown delivery method %q (want file or url)", s)
}

// Options selects the icon variant to apply.
type Options struct {
	Format   string
	Theme    string
	Delivery Delivery
	SavePath string
	CDNBase  string
}

// Target is where a resolved icon lives.
type Target struct {
	Format string
	// Stem is the icon file name without extension, theme suffix included.
	Stem string
	Path string
	URL  string
}

// Location returns Path or URL depending on delivery.
func (t Target) Location(d Delivery) string {
	if d == DeliveryURL {
		return t.URL
	}
	return t.Path
}

// Locate builds the local path and CDN URL for icon name described by meta.
// The "default" format is substituted per call and never stored in opts.
func Locate(name string, meta *models.IconMeta, opts Options) (Target, error) {
	format := opts.Format
	if format == "" || format == FormatDefault {
		format = meta.Base
	}
	if format == "" {
		return Target{}, models.NewError(models.ErrUpstream, "meta file for %s declares no base format", name)
	}

	stem := name
	if meta.HasVariants() && opts.Theme == ThemeLight {
		stem = meta.Colors.Light
		if stem == "" {
			stem = name + "-" + ThemeLight
		}
	}

	file := fmt.Sprintf("%s.%s", stem, format)
	return Target{
		Format: format,
		Stem:   stem,
		Path:   filepath.Join(opts.SavePath, file),
		URL:    fmt.Sprintf("%s/%s/%s", strings.TrimRight(opts.CDNBase, "/"), format, file),
	}, nil
}
