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

package commands

import (
	"bytes"
	"fmt"
	"log/slog"
	"text/template"

	"go.opentelemetry.io/otel/metric"

	"github.com/rams30/AINewsVideo/internal/cloud"
	"github.com/rams30/AINewsVideo/internal/core/cor"
	"github.com/rams30/AINewsVideo/internal/core/model"
)

// ScenePlanner splits the narration into sentences and asks the text model
// for a short image search query per sentence. A sentence whose query
// cannot be generated searches with its own text. A script with no
// sentences stops the run.
type ScenePlanner struct {
	cor.BaseCommand
	generativeAIModel cloud.ContentGenerator
	template          *template.Template
	maxRetries        int
	tokens            cloud.TokenCounters
	fallbackCounter   metric.Int64Counter
}

type queryParams struct {
	Sentence string
}

func NewScenePlanner(
	name string,
	generativeAIModel cloud.ContentGenerator,
	template *template.Template,
	maxRetries int) *ScenePlanner {

	out := &ScenePlanner{
		BaseCommand:       *cor.NewBaseCommand(name),
		generativeAIModel: generativeAIModel,
		template:          template,
		maxRetries:        maxRetries,
	}
	out.tokens = cloud.NewTokenCounters(out.GetMeter(), name)
	out.fallbackCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.counter.fallback", name))
	return out
}

func (c *ScenePlanner) Execute(context cor.Context) {
	ctx := context.GetContext()
	script := context.Get(c.GetInputParam()).(string)

	scenes := model.NewScenes(model.SplitSentences(script))
	if len(scenes) == 0 {
		c.Fail(context, ErrNoSentences)
		return
	}

	for _, scene := range scenes {
		query, err := c.query(context, scene.Sentence)
		if err != nil {
			slog.WarnContext(ctx, "query generation failed, searching with the sentence", "scene", scene.Index, "error", err)
			c.fallbackCounter.Add(ctx, 1)
			continue
		}
		scene.Query = query
		scene.QueryFallback = false
	}

	if reel := GetReel(context); reel != nil {
		reel.Scenes = scenes
	}
	slog.InfoContext(ctx, "planned scenes", "count", len(scenes))
	c.Succeed(context, scenes)
}

func (c *ScenePlanner) query(context cor.Context, sentence string) (string, error) {
	if c.generativeAIModel == nil {
		return "", fmt.Errorf("no text model configured")
	}
	var buffer bytes.Buffer
	if err := c.template.Execute(&buffer, queryParams{Sentence: sentence}); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return cloud.GenerateTextResponse(context.GetContext(), c.tokens, c.maxRetries, c.generativeAIModel, cloud.NewTextPart(buffer.String()))
}
