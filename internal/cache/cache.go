package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/beauthy/beauthy/internal/models"
	"github.com/beauthy/beauthy/internal/utils"
	"github.com/cespare/xxhash/v2"
	"github.com/sirupsen/logrus"
)

// FormatVersion is the version written into every cache file.
const FormatVersion = 1

// Lister lists the meta files of an icon repository.
type Lister interface {
	ListMetaFiles(ctx context.Context, repoID, branch string) ([]models.IconMetaEntry, error)
}

// Cache persists the icon repository listing to a local file.
type Cache struct {
	path       string
	repository string
	branch     string
	lister     Lister
	now        func() time.Time
}

// New creates a cache stored at path for repository@branch.
func New(path, repository, branch string, lister Lister) *Cache {
	return &Cache{
		path:       path,
		repository: repository,
		branch:     branch,
		lister:     lister,
		now:        time.Now,
	}
}

// Path returns the cache file location.
func (c *Cache) Path() string {
	return c.path
}

// Load returns the persisted snapshot, or refreshes it when the file is
// missing or unreadable.
func (c *Cache) Load(ctx context.Context) (*models.IconCacheSnapshot, error) {
	snap, err := Read(c.path)
	if err == nil {
		logrus.Infof("Loaded %d icon entries from %s (fetched %s)",
			len(snap.Entries), c.path, snap.FetchedAt.Format(time.RFC3339))
		return snap, nil
	}

	if errors.Is(err, fs.ErrNotExist) {
		logrus.Infof("No icon cache at %s, fetching from %s", c.path, c.repository)
	} else {
		logrus.Warnf("Discarding icon cache %s: %v", c.path, err)
	}
	return c.Refresh(ctx)
}

// Refresh lists the repository again and overwrites the cache file.
func (c *Cache) Refresh(ctx context.Context) (*models.IconCacheSnapshot, error) {
	entries, err := c.lister.ListMetaFiles(ctx, c.repository, c.branch)
	if err != nil {
		return nil, err
	}

	snap := &models.IconCacheSnapshot{
		Repository: c.repository,
		Branch:     c.branch,
		FetchedAt:  c.now().UTC(),
		Entries:    entries,
	}
	if err := Save(c.path, snap); err != nil {
		return nil, err
	}

	logrus.Infof("Saved %d icon entries to %s", len(entries), c.path)
	return snap, nil
}

// envelope is the on-disk representation of a snapshot.
type envelope struct {
	Version    int                    `json:"version"`
	Repository string                 `json:"repository"`
	Branch     string                 `json:"branch"`
	FetchedAt  time.Time              `json:"fetched_at"`
	Checksum   string                 `json:"checksum"`
	Entries    []models.IconMetaEntry `json:"entries"`
}

// Save writes snap to path. The extension selects the compression.
func Save(path string, snap *models.IconCacheSnapshot) error {
	for _, e := range snap.Entries {
		if !models.IsMetaPath(e.Path) {
			return fmt.Errorf("refusing to cache %q: not a meta file", e.Path)
		}
	}

	entries := snap.Entries
	if entries == nil {
		entries = []models.IconMetaEntry{}
	}

	data, err := json.MarshalIndent(envelope{
		Version:    FormatVersion,
		Repository: snap.Repository,
		Branch:     snap.Branch,
		FetchedAt:  snap.FetchedAt,
		Checksum:   Checksum(entries),
		Entries:    entries,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode icon cache: %w", err)
	}

	encoded, err := utils.Compress(utils.CompressionFor(path), data)
	if err != nil {
		return fmt.Errorf("failed to compress icon cache: %w", err)
	}

	if err := utils.WriteFile(path, encoded, 0644); err != nil {
		return fmt.Errorf("failed to write icon cache: %w", err)
	}
	return nil
}

// Read loads a snapshot written by Save.
func Read(path string) (*models.IconCacheSnapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	data, err := utils.Decompress(utils.CompressionFor(path), raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode: %w", err)
	}

	if env.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported cache version %d", env.Version)
	}
	if sum := Checksum(env.Entries); sum != env.Checksum {
		return nil, fmt.Errorf("checksum mismatch: got %s, want %s", sum, env.Checksum)
	}
	for _, e := range env.Entries {
		if !models.IsMetaPath(e.Path) {
			return nil, fmt.Errorf("entry %q is not a meta file", e.Path)
		}
	}

	return &models.IconCacheSnapshot{
		Repository: env.Repository,
		Branch:     env.Branch,
		FetchedAt:  env.FetchedAt,
		Entries:    env.Entries,
	}, nil
}

// Checksum hashes the ordered entry list.
func Checksum(entries []models.IconMetaEntry) string {
	d := xxhash.New()
	for _, e := range entries {
		_, _ = d.WriteString(e.Path)
		_, _ = d.Write([]byte{0})
		_, _ = d.WriteString(e.SHA)
		_, _ = d.Write([]byte{'\n'})
	}
	return strconv.FormatUint(d.Sum64(), 16)
}
