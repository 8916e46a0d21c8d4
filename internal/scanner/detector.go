package scanner

import (
	"bytes"
	"os"
)

// Magic bytes for icon detection
var (
	// PNG files start with 0x89 "PNG" CR LF 0x1A LF
	pngMagic = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

	// WebP files are RIFF containers with "WEBP" at offset 8
	riffMagic = []byte("RIFF")
	webpMagic = []byte("WEBP")

	svgTag  = []byte("<svg")
	utf8BOM = []byte{0xEF, 0xBB, 0xBF}
)

// DetectFormat determines the icon format from the leading bytes of data
func DetectFormat(data []byte) IconFormat {
	if bytes.HasPrefix(data, pngMagic) {
		return FormatPNG
	}

	if len(data) >= 12 && bytes.HasPrefix(data, riffMagic) && bytes.Equal(data[8:12], webpMagic) {
		return FormatWebP
	}

	// SVG is text: allow a BOM and a prolog of declarations, comments and
	// a doctype before the root element
	text := skipProlog(bytes.TrimPrefix(data, utf8BOM))
	if bytes.HasPrefix(text, svgTag) {
		return FormatSVG
	}

	return FormatUnknown
}

// skipProlog drops leading whitespace, <?...?>, <!--...--> and <!...>
// sections. It returns nil when a section is not terminated.
func skipProlog(text []byte) []byte {
	for {
		text = bytes.TrimLeft(text, " \t\r\n")

		var end int
		switch {
		case bytes.HasPrefix(text, []byte("<?")):
			end = sectionEnd(text, "?>")
		case bytes.HasPrefix(text, []byte("<!--")):
			end = sectionEnd(text, "-->")
		case bytes.HasPrefix(text, []byte("<!")):
			// A doctype may carry an internal subset in brackets
			bracket := bytes.IndexByte(text, '[')
			gt := bytes.IndexByte(text, '>')
			if bracket >= 0 && (gt < 0 || bracket < gt) {
				end = sectionEnd(text, "]")
				if end >= 0 {
					if tail := bytes.IndexByte(text[end:], '>'); tail >= 0 {
						end += tail + 1
					} else {
						end = -1
					}
				}
			} else {
				end = sectionEnd(text, ">")
			}
		default:
			return text
		}

		if end < 0 {
			return nil
		}
		text = text[end:]
	}
}

// sectionEnd returns the offset just past terminator, or -1.
func sectionEnd(text []byte, terminator string) int {
	i := bytes.Index(text, []byte(terminator))
	if i < 0 {
		return -1
	}
	return i + len(terminator)
}

// DetectFileFormat determines the icon format of the file at path
func DetectFileFormat(path string) (IconFormat, error) {
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, err
	}
	defer f.Close()

	// Read enough for magic bytes or an SVG prolog
	header := make([]byte, 4096)
	n, err := f.Read(header)
	if err != nil && n == 0 {
		return FormatUnknown, err
	}

	return DetectFormat(header[:n]), nil
}
