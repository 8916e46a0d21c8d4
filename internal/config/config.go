package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/beauthy/beauthy/internal/models"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Settings holds the environment-sourced configuration shared by every client.
type Settings struct {
	// Portal
	AuthentikHost  string `env:"AUTHENTIK_HOST,required,notEmpty"`
	AuthentikToken string `env:"AUTHENTIK_TOKEN,required,notEmpty"`

	// Icon repository
	GitHubToken     string `env:"GITHUB_TOKEN,required,notEmpty"`
	GitHubAPIURL    string `env:"GITHUB_API_URL"`
	IconsRepository string `env:"ICONS_REPOSITORY" envDefault:"homarr-labs/dashboard-icons"`
	IconsBranch     string `env:"ICONS_BRANCH" envDefault:"main"`
	IconsCDN        string `env:"ICONS_CDN" envDefault:"https://cdn.jsdelivr.net/gh/homarr-labs/dashboard-icons"`
	IconsCache      string `env:"ICONS_CACHE" envDefault:"icons_meta.json.gz"`

	// Text generation
	OllamaHost  string `env:"OLLAMA_HOST" envDefault:"http://localhost:11434"`
	OllamaModel string `env:"OLLAMA_MODEL" envDefault:"qwen3:14b"`

	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`
}

// Load reads envFile (when it exists) into the process environment and
// parses Settings from it. Missing required values yield a Configuration error.
func Load(envFile string) (*Settings, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, models.NewError(models.ErrConfiguration, "failed to read %s: %w", envFile, err)
		}
	}

	var s Settings
	if err := env.Parse(&s); err != nil {
		return nil, &models.BeauthyError{
			Type: models.ErrConfiguration,
			Err:  fmt.Errorf("parse env: %w", err),
		}
	}

	if s.HTTPTimeout < 0 {
		return nil, models.NewError(models.ErrConfiguration, "HTTP_TIMEOUT must not be negative")
	}

	return &s, nil
}
