// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cloud

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables holding API keys.
const (
	EnvNewsAPIKey   = "NEWS_API_KEY"
	EnvGeminiAPIKey = "GEMINI_API_KEY"
	EnvGoogleAPIKey = "GOOGLE_API_KEY" // Accepted in place of GEMINI_API_KEY.
	EnvPexelsAPIKey = "PEXELS_API_KEY"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	EnvRunwayAPIKey = "RUNWAY_API_KEY"
)

// ConfigError reports every missing credential at once.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", strings.Join(e.Missing, ", "))
}

// Credentials are the API keys read from the environment.
type Credentials struct {
	NewsAPIKey   string
	GeminiAPIKey string
	PexelsAPIKey string
	OpenAIAPIKey string
	RunwayAPIKey string
}

// LoadCredentials reads .env files into the environment, without overriding
// variables that are already set, and then collects the API keys. Missing
// .env files are not an error.
func LoadCredentials(envFiles ...string) *Credentials {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}
	return CredentialsFromEnv()
}

func CredentialsFromEnv() *Credentials {
	gemini := env(EnvGeminiAPIKey)
	if gemini == "" {
		gemini = env(EnvGoogleAPIKey)
	}
	return &Credentials{
		NewsAPIKey:   env(EnvNewsAPIKey),
		GeminiAPIKey: gemini,
		PexelsAPIKey: env(EnvPexelsAPIKey),
		OpenAIAPIKey: env(EnvOpenAIAPIKey),
		RunwayAPIKey: env(EnvRunwayAPIKey),
	}
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

// Validate checks the keys needed by the strategies selected in config.
// The returned error is a *ConfigError.
func (c *Credentials) Validate(config *Config) error {
	var missing []string
	if config.News.Strategy == NewsStrategyNewsAPI && c.NewsAPIKey == "" {
		missing = append(missing, EnvNewsAPIKey)
	}
	if config.News.Strategy == NewsStrategyRSS && config.News.RSSURL == "" {
		missing = append(missing, "news.rss_url")
	}
	if config.Application.GenAIBackend == GenAIBackendVertex {
		if config.Application.GoogleProjectId == "" {
			missing = append(missing, "application.google_project_id")
		}
	} else if c.GeminiAPIKey == "" {
		missing = append(missing, EnvGeminiAPIKey)
	}
	if config.Images.Strategy == ImageStrategyPexels && c.PexelsAPIKey == "" {
		missing = append(missing, EnvPexelsAPIKey)
	}
	if c.OpenAIAPIKey == "" {
		missing = append(missing, EnvOpenAIAPIKey)
	}
	if config.Animation.Enabled && c.RunwayAPIKey == "" {
		missing = append(missing, EnvRunwayAPIKey)
	}
	if len(missing) > 0 {
		return &ConfigError{Missing: missing}
	}
	return nil
}
