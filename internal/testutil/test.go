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

// Package test holds fixtures and in-memory providers for the package
// tests: configuration loading, canned provider payloads and fakes for the
// text model, speech, news, images and the encoder.
package test

import (
	"log"
	"os"
	"path/filepath"
	"runtime"

	"github.com/rams30/AINewsVideo/internal/cloud"
)

type StateManager struct {
	config *cloud.Config
}

var state = &StateManager{}

// ConfigDir is the repository's configs directory, resolved from this
// file so tests can run from any package directory.
func ConfigDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "configs")
}

// SetupOS points the config loader at configs/ with the "test" runtime.
func SetupOS() (err error) {
	if err = os.Setenv(cloud.EnvConfigFilePrefix, ConfigDir()); err != nil {
		return err
	}
	return os.Setenv(cloud.EnvConfigRuntime, "test")
}

// GetConfig loads .env.toml and .env.test.toml once per test binary.
// Tests that change fields should work on a copy from NewTestConfig.
func GetConfig() *cloud.Config {
	if state.config == nil {
		if err := SetupOS(); err != nil {
			log.Fatalf("failed to setup environment for test: %v\n", err)
		}
		config := cloud.NewConfig()
		if err := cloud.LoadConfig(config); err != nil {
			log.Fatalf("failed to load test config: %v\n", err)
		}
		state.config = config
	}
	return state.config
}

// NewTestConfig returns a copy of the test configuration that writes its
// output under dir and skips the downloads copy.
func NewTestConfig(dir string) *cloud.Config {
	c := *GetConfig()
	c.Video.OutputDir = dir
	c.Video.DownloadsDir = ""
	return &c
}
