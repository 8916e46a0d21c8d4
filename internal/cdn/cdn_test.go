package cdn

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/beauthy/beauthy/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const svgIcon = `<svg xmlns="http://www.w3.org/2000/svg"/>`

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/svg/plex.svg" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(svgIcon))
	}))
	defer srv.Close()

	d := NewDownloader(5 * time.Second)
	dst := filepath.Join(t.TempDir(), "icons", "plex.svg")

	require.NoError(t, d.Download(context.Background(), srv.URL+"/svg/plex.svg", dst))
	content, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, svgIcon, string(content))

	err = d.Download(context.Background(), srv.URL+"/svg/missing.svg", filepath.Join(t.TempDir(), "missing.svg"))
	assert.True(t, models.IsType(err, models.ErrNotFound))
}

func TestDownloadUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	dst := filepath.Join(t.TempDir(), "plex.svg")
	err := NewDownloader(time.Second).Download(context.Background(), srv.URL+"/svg/plex.svg", dst)
	assert.True(t, models.IsType(err, models.ErrUpstream))

	_, statErr := os.Stat(dst)
	assert.True(t, os.IsNotExist(statErr))
}

func TestDownloadRejectsWrongContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<!DOCTYPE html><html>rate limited</html>"))
	}))
	defer srv.Close()

	dst := filepath.Join(t.TempDir(), "plex.png")
	err := NewDownloader(time.Second).Download(context.Background(), srv.URL+"/png/plex.png", dst)
	require.Error(t, err)
	assert.True(t, models.IsType(err, models.ErrUpstream))
	assert.Contains(t, err.Error(), "expected png")

	_, statErr := os.Stat(dst)
	assert.True(t, os.IsNotExist(statErr))
}

func TestDownloadSVGWithProlog(t *testing.T) {
	bodies := map[string]string{
		"/svg/illustrator.svg": "<!-- Generator: Adobe Illustrator 24.0 -->\n" + svgIcon,
		"/svg/doctype.svg": `<!DOCTYPE svg PUBLIC "-//W3C//DTD SVG 1.1//EN" "http://www.w3.org/Graphics/SVG/1.1/DTD/svg11.dtd">` +
			"\n<svg/>",
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(bodies[r.URL.Path]))
	}))
	defer srv.Close()

	d := NewDownloader(time.Second)
	for path, body := range bodies {
		dst := filepath.Join(t.TempDir(), filepath.Base(path))
		require.NoError(t, d.Download(context.Background(), srv.URL+path, dst), path)

		content, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Equal(t, body, string(content))
	}
}

func TestDownloadRejectsOversizedIcon(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(png)
		_, _ = w.Write(bytes.Repeat([]byte{0}, maxIconSize))
	}))
	defer srv.Close()

	dst := filepath.Join(t.TempDir(), "plex.png")
	err := NewDownloader(5*time.Second).Download(context.Background(), srv.URL+"/png/plex.png", dst)
	require.Error(t, err)
	assert.True(t, models.IsType(err, models.ErrUpstream))
	assert.Contains(t, err.Error(), "exceeds")

	_, statErr := os.Stat(dst)
	assert.True(t, os.IsNotExist(statErr))
}
