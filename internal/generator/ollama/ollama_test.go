package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/beauthy/beauthy/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "qwen3:14b", req["model"])
		assert.Equal(t, "Who publishes Plex?", req["prompt"])
		assert.Equal(t, false, req["stream"])
		assert.Equal(t, false, req["think"])

		_ = json.NewEncoder(w).Encode(map[string]any{"model": "qwen3:14b", "response": "Plex Inc.", "done": true})
	}))
	defer srv.Close()

	g := NewGenerator(srv.URL+"/", "qwen3:14b", 5*time.Second)
	assert.Equal(t, "qwen3:14b", g.Model())

	out, err := g.Generate(context.Background(), "Who publishes Plex?")
	require.NoError(t, err)
	assert.Equal(t, "Plex Inc.", out)
}

func TestGenerateUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model 'nope' not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewGenerator(srv.URL, "nope", time.Second).Generate(context.Background(), "hi")
	require.Error(t, err)
	assert.True(t, models.IsType(err, models.ErrUpstream))
	assert.Contains(t, err.Error(), "not found")
}
