package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/beauthy/beauthy/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	apiPrefix = "/api/v3/"

	categoryApplications = "core/applications"
	pageSize             = 100
)

// Client talks to the Authentik REST API with a bearer token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a client for host. A host without a scheme is reached
// over https.
func NewClient(host, token string, timeout time.Duration) *Client {
	base := strings.TrimRight(host, "/")
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}
	return &Client{
		baseURL: base,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// endpoint builds https://<host>/api/v3/<category>/[<segments>/].
func (c *Client) endpoint(category string, segments ...string) string {
	var b strings.Builder
	b.WriteString(c.baseURL)
	b.WriteString(apiPrefix)
	b.WriteString(strings.Trim(category, "/"))
	b.WriteString("/")
	for _, s := range segments {
		b.WriteString(url.PathEscape(s))
		b.WriteString("/")
	}
	return b.String()
}

// request performs an authenticated call and decodes a JSON response into
// out when out is not nil.
func (c *Client) request(ctx context.Context, method, endpoint string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return models.NewError(models.ErrTransport, "build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	logrus.Debugf("%s %s", method, endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.NewError(models.ErrTransport, "%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return models.UpstreamError(resp.StatusCode, "%s %s: unexpected status %d: %s",
			method, endpoint, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return models.UpstreamError(resp.StatusCode, "%s %s: decode response: %w", method, endpoint, err)
	}
	return nil
}

func (c *Client) requestJSON(ctx context.Context, method, endpoint string, payload, out any) error {
	var body io.Reader
	contentType := ""
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return models.NewError(models.ErrTransport, "encode payload: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.request(ctx, method, endpoint, body, contentType, out)
}

type pagination struct {
	Next       int `json:"next"`
	Current    int `json:"current"`
	TotalPages int `json:"total_pages"`
	Count      int `json:"count"`
}

type applicationPage struct {
	Pagination pagination           `json:"pagination"`
	Results    []models.Application `json:"results"`
}

// ListApplications returns every application, following pagination.
func (c *Client) ListApplications(ctx context.Context) ([]models.Application, error) {
	var apps []models.Application

	page := 1
	for {
		q := url.Values{
			"page":      {strconv.Itoa(page)},
			"page_size": {strconv.Itoa(pageSize)},
		}

		var resp applicationPage
		if err := c.requestJSON(ctx, http.MethodGet, c.endpoint(categoryApplications)+"?"+q.Encode(), nil, &resp); err != nil {
			return nil, err
		}
		apps = append(apps, resp.Results...)

		// Authentik reports next=0 on the last page.
		if resp.Pagination.Next == 0 || resp.Pagination.Next <= page {
			break
		}
		page = resp.Pagination.Next
	}

	logrus.Debugf("Fetched %d applications", len(apps))
	return apps, nil
}

// GetApplication returns one application by slug.
func (c *Client) GetApplication(ctx context.Context, slug string) (*models.Application, error) {
	var app models.Application
	if err := c.requestJSON(ctx, http.MethodGet, c.endpoint(categoryApplications, slug), nil, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// PatchApplication partially updates an application.
func (c *Client) PatchApplication(ctx context.Context, slug string, fields map[string]any) error {
	return c.requestJSON(ctx, http.MethodPatch, c.endpoint(categoryApplications, slug), fields, nil)
}

// SetIconURL points the application icon at url. The portal fetches the
// icon asynchronously, so the change may not be visible right away.
func (c *Client) SetIconURL(ctx context.Context, slug, iconURL string) error {
	payload := map[string]string{"url": iconURL}
	return c.requestJSON(ctx, http.MethodPost, c.endpoint(categoryApplications, slug, "set_icon_url"), payload, nil)
}

// SetIconFile uploads the file at path as the application icon.
func (c *Client) SetIconFile(ctx context.Context, slug, path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.NewError(models.ErrNotFound, "icon file %s not found", path)
		}
		return models.NewError(models.ErrTransport, "open %s: %w", path, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreatePart(filePartHeader(filepath.Base(path)))
	if err != nil {
		return models.NewError(models.ErrTransport, "build upload: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return models.NewError(models.ErrTransport, "read %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return models.NewError(models.ErrTransport, "build upload: %w", err)
	}

	return c.request(ctx, http.MethodPost, c.endpoint(categoryApplications, slug, "set_icon"), &buf, w.FormDataContentType(), nil)
}

// ClearIcon removes the application icon.
func (c *Client) ClearIcon(ctx context.Context, slug string) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("clear", "true"); err != nil {
		return models.NewError(models.ErrTransport, "build request: %w", err)
	}
	if err := w.Close(); err != nil {
		return models.NewError(models.ErrTransport, "build request: %w", err)
	}

	return c.request(ctx, http.MethodPost, c.endpoint(categoryApplications, slug, "set_icon"), &buf, w.FormDataContentType(), nil)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func filePartHeader(filename string) textproto.MIMEHeader {
	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return textproto.MIMEHeader{
		"Content-Disposition": {fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(filename))},
		"Content-Type":        {contentType},
	}
}
