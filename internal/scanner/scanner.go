package scanner

import "context"

// IconFormat represents the image format of an icon file
type IconFormat int

const (
	FormatUnknown IconFormat = iota
	FormatSVG
	FormatPNG
	FormatWebP
)

// String returns the string representation of IconFormat
func (f IconFormat) String() string {
	switch f {
	case FormatSVG:
		return "svg"
	case FormatPNG:
		return "png"
	case FormatWebP:
		return "webp"
	default:
		return "unknown"
	}
}

// ParseFormat maps a file extension or format name to an IconFormat.
func ParseFormat(s string) IconFormat {
	switch s {
	case "svg", ".svg":
		return FormatSVG
	case "png", ".png":
		return FormatPNG
	case "webp", ".webp":
		return FormatWebP
	default:
		return FormatUnknown
	}
}

// LocalIcon represents an icon file found during scanning
type LocalIcon struct {
	Path   string
	Name   string
	Format IconFormat
	Size   int64
	// Mismatch is set when the content does not match the file extension
	Mismatch bool
}

// Scanner interface for finding icon files on disk
type Scanner interface {
	// Scan recursively scans a directory for icon files
	Scan(ctx context.Context, dir string) ([]LocalIcon, error)

	// DetectFormat determines the icon format of a file
	DetectFormat(path string) (IconFormat, error)
}
