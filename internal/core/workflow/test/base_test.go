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

// Package workflow_test runs the whole reel pipeline against in-memory
// providers. TestMain loads the test configuration and installs the
// telemetry providers once for every test in the package.
package workflow_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"

	"github.com/rams30/AINewsVideo/internal/cloud"
	"github.com/rams30/AINewsVideo/internal/core/model"
	"github.com/rams30/AINewsVideo/internal/core/workflow"
	"github.com/rams30/AINewsVideo/internal/telemetry"
	test "github.com/rams30/AINewsVideo/internal/testutil"
)

var (
	ctx    context.Context
	config *cloud.Config
)

const tName = "github.com/rams30/AINewsVideo/tests/workflow"

var (
	tracer = otel.Tracer(tName)
	logger = otelslog.NewLogger(tName)
)

func TestMain(m *testing.M) {
	var cancel context.CancelFunc
	ctx, cancel = context.WithCancel(context.Background())

	config = test.GetConfig()
	telemetry.SetupLogging("", slog.LevelDebug)

	shutdown, err := telemetry.SetupOpenTelemetry(ctx, config)
	if err != nil {
		panic(err)
	}
	cloud.RetryBackoff = time.Millisecond

	code := m.Run()

	_ = shutdown(ctx)
	cancel()
	os.Exit(code)
}

// fixture is a full set of fake providers that produce a two scene reel
// with ten seconds of narration.
type fixture struct {
	news    *test.FakeNewsSource
	script  *test.FakeGenerator
	query   *test.FakeGenerator
	images  *test.FakeImageSource
	speech  *test.FakeSpeech
	encoder *test.FakeEncoder
}

func newFixture() *fixture {
	return &fixture{
		news: &test.FakeNewsSource{Items: []*model.NewsItem{
			model.NewNewsItem("Scientists map deep ocean floor", "A new survey charts the trench.", ""),
			model.NewNewsItem("City opens new bridge", "", ""),
		}},
		script:  test.StaticGenerator("Scientists mapped the trench. The survey took a year."),
		query:   test.StaticGenerator("ocean survey ship"),
		images:  &test.FakeImageSource{Data: test.TinyPNG()},
		speech:  &test.FakeSpeech{Audio: []byte("mp3")},
		encoder: &test.FakeEncoder{Duration: 10 * time.Second},
	}
}

func (f *fixture) providers() *workflow.Providers {
	return &workflow.Providers{
		News:        f.news,
		Images:      f.images,
		Speech:      f.speech,
		Encoder:     f.encoder,
		ScriptModel: f.script,
		QueryModel:  f.query,
	}
}

func (f *fixture) runner(c *cloud.Config) *workflow.Runner {
	return workflow.NewRunner(c, &cloud.ServiceClients{}).WithProviders(func(*model.ReelRequest) (*workflow.Providers, error) {
		return f.providers(), nil
	})
}
