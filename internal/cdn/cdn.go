package cdn

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/beauthy/beauthy/internal/models"
	"github.com/beauthy/beauthy/internal/scanner"
	"github.com/beauthy/beauthy/internal/utils"
	"github.com/sirupsen/logrus"
)

// maxIconSize bounds a downloaded icon.
const maxIconSize = 10 << 20

// Downloader fetches icon files from the icon CDN.
type Downloader struct {
	httpClient *http.Client
}

// NewDownloader creates a Downloader.
func NewDownloader(timeout time.Duration) *Downloader {
	return &Downloader{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Download fetches url and writes it to dst.
func (d *Downloader) Download(ctx context.Context, url, dst string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.NewError(models.ErrTransport, "build request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return models.NewError(models.ErrTransport, "download %s: %w", url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &models.BeauthyError{Type: models.ErrNotFound, StatusCode: resp.StatusCode, Err: fmt.Errorf("icon %s not found on CDN", url)}
	case resp.StatusCode != http.StatusOK:
		return models.UpstreamError(resp.StatusCode, "download %s: unexpected status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxIconSize+1))
	if err != nil {
		return models.NewError(models.ErrTransport, "download %s: %w", url, err)
	}
	if len(data) > maxIconSize {
		return models.UpstreamError(resp.StatusCode, "download %s: icon exceeds %d bytes", url, maxIconSize)
	}

	expected := scanner.ParseFormat(filepath.Ext(dst))
	if got := scanner.DetectFormat(data); expected != scanner.FormatUnknown && got != expected {
		return models.UpstreamError(resp.StatusCode, "download %s: got %s content, expected %s", url, got, expected)
	}

	if err := utils.WriteFile(dst, data, 0644); err != nil {
		return models.NewError(models.ErrTransport, "save %s: %w", dst, err)
	}

	logrus.Debugf("Downloaded %s to %s (%d bytes)", url, dst, len(data))
	return nil
}
