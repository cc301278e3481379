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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"go.opentelemetry.io/otel/metric"
	"google.golang.org/genai"
)

const (
	ConfigFileBaseName  = ".env"
	ConfigFileExtension = ".toml"
	ConfigSeparator     = "."
	EnvConfigFilePrefix = "GCP_CONFIG_PREFIX" // Directory holding the TOML files.
	EnvConfigRuntime    = "GCP_RUNTIME"       // e.g. "local", "test", "prod".
	DefaultRuntime      = "test"
)

// ErrEmptyResponse means the model answered without any usable text.
var ErrEmptyResponse = errors.New("model returned no text")

// RetryBackoff is the wait before the first retry; it doubles on each retry.
var RetryBackoff = 2 * time.Second

func fileExists(in string) bool {
	_, err := os.Stat(in)
	return !errors.Is(err, os.ErrNotExist)
}

// ConfigFiles returns the base and runtime-specific config paths derived
// from the environment.
func ConfigFiles() (base string, runtime string) {
	prefix := os.Getenv(EnvConfigFilePrefix)
	if len(prefix) > 0 && !strings.HasSuffix(prefix, string(os.PathSeparator)) {
		prefix = prefix + string(os.PathSeparator)
	}
	env := os.Getenv(EnvConfigRuntime)
	if env == "" {
		env = DefaultRuntime
	}
	base = prefix + ConfigFileBaseName + ConfigFileExtension
	runtime = prefix + ConfigFileBaseName + ConfigSeparator + env + ConfigFileExtension
	return base, runtime
}

// LoadConfig decodes the base file and then the runtime file into
// baseConfig. Files that do not exist are skipped.
func LoadConfig(baseConfig interface{}) error {
	base, runtime := ConfigFiles()
	for _, name := range []string{base, runtime} {
		if !fileExists(name) {
			slog.Debug("configuration file not found, skipping", "file", name)
			continue
		}
		if _, err := toml.DecodeFile(name, baseConfig); err != nil {
			return fmt.Errorf("failed to decode configuration file %s: %w", name, err)
		}
		slog.Info("loaded configuration", "file", name)
	}
	return nil
}

// TokenCounters groups the per-command GenAI usage instruments.
type TokenCounters struct {
	Input  metric.Int64Counter
	Output metric.Int64Counter
	Retry  metric.Int64Counter
}

// NewTokenCounters creates "<name>.gemini.token.input|output|retry".
func NewTokenCounters(meter metric.Meter, name string) TokenCounters {
	var c TokenCounters
	c.Input, _ = meter.Int64Counter(fmt.Sprintf("%s.gemini.token.input", name))
	c.Output, _ = meter.Int64Counter(fmt.Sprintf("%s.gemini.token.output", name))
	c.Retry, _ = meter.Int64Counter(fmt.Sprintf("%s.gemini.token.retry", name))
	return c
}

// GenerateTextResponse sends content to model and returns the first text
// part of the first candidate, trimmed. It makes 1+maxRetries attempts with
// doubling backoff between them. An answer without text is ErrEmptyResponse
// and is not retried.
func GenerateTextResponse(
	ctx context.Context,
	counters TokenCounters,
	maxRetries int,
	model ContentGenerator,
	content []*genai.Content) (string, error) {

	var resp *genai.GenerateContentResponse
	var err error
	wait := RetryBackoff
	for attempt := 0; ; attempt++ {
		resp, err = model.GenerateContent(ctx, content)
		if err == nil || attempt >= maxRetries {
			break
		}
		if counters.Retry != nil {
			counters.Retry.Add(ctx, 1)
		}
		slog.WarnContext(ctx, "model call failed, retrying", "attempt", attempt+1, "wait", wait, "error", err)
		select {
		case <-ctx.Done():
			return "", errors.Join(err, ctx.Err())
		case <-time.After(wait):
		}
		wait *= 2
	}
	if err != nil {
		return "", err
	}

	if resp.UsageMetadata != nil {
		if counters.Input != nil {
			counters.Input.Add(ctx, int64(resp.UsageMetadata.PromptTokenCount))
		}
		if counters.Output != nil {
			counters.Output.Add(ctx, int64(resp.UsageMetadata.CandidatesTokenCount))
		}
	}

	value := FirstText(resp)
	if value == "" {
		return "", ErrEmptyResponse
	}
	return value, nil
}

// FirstText returns the trimmed text of the first part of the first
// candidate, or "" when there is none.
func FirstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return ""
	}
	part := candidate.Content.Parts[0]
	if part == nil {
		return ""
	}
	return strings.TrimSpace(part.Text)
}

func NewTextPart(in string) []*genai.Content {
	return genai.Text(in)
}
