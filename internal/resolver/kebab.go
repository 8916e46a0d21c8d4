package resolver

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	separators = regexp.MustCompile(`[\s_]+`)
	camelHump  = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	lower      = cases.Lower(language.Und)
)

// KebabCase converts a display name to kebab-case: "Home Assistant" and
// "HomeAssistant" both become "home-assistant". Diacritics are dropped.
func KebabCase(text string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), text)
	if err == nil {
		text = folded
	}

	text = strings.TrimSpace(text)
	text = separators.ReplaceAllString(text, "-")
	text = camelHump.ReplaceAllString(text, "${1}-${2}")
	return lower.String(text)
}
