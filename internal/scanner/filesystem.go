package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// FileSystemScanner implements Scanner interface for filesystem scanning
type FileSystemScanner struct{}

// NewFileSystemScanner creates a new filesystem scanner
func NewFileSystemScanner() *FileSystemScanner {
	return &FileSystemScanner{}
}

// Scan recursively scans a directory for icon files
func (s *FileSystemScanner) Scan(ctx context.Context, dir string) ([]LocalIcon, error) {
	var icons []LocalIcon

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Check context cancellation
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// Skip directories
		if info.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		byExt := ParseFormat(ext)
		if byExt == FormatUnknown {
			return nil
		}

		format, err := s.DetectFormat(path)
		if err != nil {
			logrus.Warnf("Failed to detect format for %s: %v", path, err)
			return nil
		}

		icon := LocalIcon{
			Path:     path,
			Name:     strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
			Format:   format,
			Size:     info.Size(),
			Mismatch: format != byExt,
		}
		if icon.Mismatch {
			logrus.Warnf("%s has extension %s but contains %s", path, ext, format)
		}

		logrus.Debugf("Found %s icon: %s", format, path)
		icons = append(icons, icon)
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to scan directory: %w", err)
	}

	sort.Slice(icons, func(i, j int) bool { return icons[i].Path < icons[j].Path })

	logrus.Infof("Found %d icons in %s", len(icons), dir)
	return icons, nil
}

// DetectFormat determines the icon format of a file
func (s *FileSystemScanner) DetectFormat(path string) (IconFormat, error) {
	return DetectFileFormat(path)
}
