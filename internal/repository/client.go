package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/beauthy/beauthy/internal/models"
	"github.com/google/go-github/v66/github"
	"github.com/sirupsen/logrus"
)

// Client lists and fetches icon meta files from a GitHub repository.
type Client struct {
	gh *github.Client
}

// Option configures a Client.
type Option func(*Client) error

// WithBaseURL points the client at another API endpoint.
func WithBaseURL(base string) Option {
	return func(c *Client) error {
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return models.NewError(models.ErrConfiguration, "invalid GitHub base URL %q: %w", base, err)
		}
		c.gh.BaseURL = u
		return nil
	}
}

// NewClient creates a client authenticated with a personal access token.
func NewClient(token string, timeout time.Duration, opts ...Option) (*Client, error) {
	gh := github.NewClient(&http.Client{Timeout: timeout})
	if token != "" {
		gh = gh.WithAuthToken(token)
	}

	c := &Client{gh: gh}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ListMetaFiles returns every meta/*.json entry of the repository tree at
// branch, in tree order. An empty branch selects the default branch.
func (c *Client) ListMetaFiles(ctx context.Context, repoID, branch string) ([]models.IconMetaEntry, error) {
	owner, name, err := splitRepoID(repoID)
	if err != nil {
		return nil, err
	}

	if branch == "" {
		repo, _, err := c.gh.Repositories.Get(ctx, owner, name)
		if err != nil {
			return nil, mapError(err, "get repository %s", repoID)
		}
		branch = repo.GetDefaultBranch()
		logrus.Debugf("Using default branch %s of %s", branch, repoID)
	}

	tree, _, err := c.gh.Git.GetTree(ctx, owner, name, branch, true)
	if err != nil {
		return nil, mapError(err, "get tree %s@%s", repoID, branch)
	}
	if tree.GetTruncated() {
		logrus.Warnf("Tree of %s@%s is truncated, some icons will be missing", repoID, branch)
	}

	var entries []models.IconMetaEntry
	for _, e := range tree.Entries {
		if !models.IsMetaPath(e.GetPath()) {
			continue
		}
		entries = append(entries, models.IconMetaEntry{
			Path: e.GetPath(),
			SHA:  e.GetSHA(),
		})
	}

	logrus.Infof("Found %d icon meta files in %s@%s", len(entries), repoID, branch)
	return entries, nil
}

// FetchMetaFile fetches and parses one meta file.
func (c *Client) FetchMetaFile(ctx context.Context, repoID, path string) (*models.IconMeta, error) {
	owner, name, err := splitRepoID(repoID)
	if err != nil {
		return nil, err
	}

	file, _, _, err := c.gh.Repositories.GetContents(ctx, owner, name, path, nil)
	if err != nil {
		return nil, mapError(err, "get contents %s", path)
	}
	if file == nil {
		return nil, models.NewError(models.ErrNotFound, "%s is not a file", path)
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, models.NewError(models.ErrUpstream, "decode %s: %w", path, err)
	}

	var meta models.IconMeta
	if err := json.Unmarshal([]byte(content), &meta); err != nil {
		return nil, models.NewError(models.ErrUpstream, "parse %s: %w", path, err)
	}
	return &meta, nil
}

func splitRepoID(repoID string) (string, string, error) {
	owner, name, ok := strings.Cut(repoID, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", models.NewError(models.ErrConfiguration, "invalid repository %q, expected owner/name", repoID)
	}
	return owner, name, nil
}

func mapError(err error, format string, args ...any) error {
	what := fmt.Sprintf(format, args...)

	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		status := ghErr.Response.StatusCode
		if status == http.StatusNotFound {
			return &models.BeauthyError{Type: models.ErrNotFound, StatusCode: status, Err: fmt.Errorf("%s: %w", what, err)}
		}
		return models.UpstreamError(status, "%s: %w", what, err)
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return models.UpstreamError(http.StatusForbidden, "%s: %w", what, err)
	}

	return models.NewError(models.ErrTransport, "%s: %w", what, err)
}
