package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/beauthy/beauthy/internal/generator"
	"github.com/beauthy/beauthy/internal/models"
	"github.com/sirupsen/logrus"
)

// Generator implements the generator.Generator interface for a local
// Ollama server
type Generator struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewGenerator creates a new Ollama generator
func NewGenerator(baseURL, model string, timeout time.Duration) generator.Generator {
	return &Generator{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
	Think  bool   `json:"think"`
}

type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Model returns the configured model name
func (g *Generator) Model() string {
	return g.model
}

// Generate sends a single non-streaming prompt to /api/generate
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:  g.model,
		Prompt: prompt,
	})
	if err != nil {
		return "", models.NewError(models.ErrTransport, "ollama: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", models.NewError(models.ErrTransport, "ollama: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", models.NewError(models.ErrTransport, "ollama: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", models.UpstreamError(resp.StatusCode, "ollama: unexpected status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", models.UpstreamError(resp.StatusCode, "ollama: decode response: %w", err)
	}

	logrus.Debugf("Generated %d characters with %s", len(result.Response), g.model)
	return result.Response, nil
}
