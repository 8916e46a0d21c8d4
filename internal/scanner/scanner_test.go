package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngData  = append([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 16)...)
	webpData = []byte("RIFF\x24\x00\x00\x00WEBPVP8 ")
	svgData  = []byte(`<?xml version="1.0"?>` + "\n" + `<svg xmlns="http://www.w3.org/2000/svg"></svg>`)
)

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatPNG, DetectFormat(pngData))
	assert.Equal(t, FormatWebP, DetectFormat(webpData))
	assert.Equal(t, FormatSVG, DetectFormat(svgData))
	assert.Equal(t, FormatSVG, DetectFormat([]byte("\n  <svg viewBox=\"0 0 1 1\"/>")))
	assert.Equal(t, FormatSVG, DetectFormat([]byte("<!-- Generator: Adobe Illustrator 24.0 -->\n<svg xmlns=\"http://www.w3.org/2000/svg\"/>")))
	assert.Equal(t, FormatSVG, DetectFormat([]byte(`<!DOCTYPE svg PUBLIC "-//W3C//DTD SVG 1.1//EN" "http://www.w3.org/Graphics/SVG/1.1/DTD/svg11.dtd">`+"\n<svg/>")))
	assert.Equal(t, FormatSVG, DetectFormat([]byte(`<?xml version="1.0"?><!-- banner --><!DOCTYPE svg [<!ENTITY ns "x">]><svg/>`)))
	assert.Equal(t, FormatSVG, DetectFormat(append([]byte{0xEF, 0xBB, 0xBF}, "<svg/>"...)))
	assert.Equal(t, FormatUnknown, DetectFormat([]byte("<!-- unterminated <svg/>")))
	assert.Equal(t, FormatUnknown, DetectFormat([]byte("<?xml version=\"1.0\"?><html><svg/></html>")))
	assert.Equal(t, FormatUnknown, DetectFormat([]byte("<!DOCTYPE html><html>Not Found</html>")))
	assert.Equal(t, FormatUnknown, DetectFormat(nil))
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatSVG, ParseFormat(".svg"))
	assert.Equal(t, FormatPNG, ParseFormat("png"))
	assert.Equal(t, FormatUnknown, ParseFormat("gif"))
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plex.svg"), svgData, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "jellyfin.png"), pngData, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "grafana.webp"), []byte("<html>oops</html>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	icons, err := NewFileSystemScanner().Scan(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, icons, 3)

	byName := map[string]LocalIcon{}
	for _, icon := range icons {
		byName[icon.Name] = icon
	}

	assert.Equal(t, FormatSVG, byName["plex"].Format)
	assert.False(t, byName["plex"].Mismatch)
	assert.Equal(t, FormatPNG, byName["jellyfin"].Format)
	assert.Equal(t, FormatUnknown, byName["grafana"].Format)
	assert.True(t, byName["grafana"].Mismatch)
}

func TestScanCancelled(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plex.svg"), svgData, 0644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFileSystemScanner().Scan(ctx, dir)
	assert.Error(t, err)
}
