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

// ScriptWriter turns the selected headline into a narration paragraph.
//
// The prompt is rendered from a template with .Title and .Description and
// sent to the text model. When the template, the model call or the answer
// fails, the failure is logged and model.FallbackScript is used instead, so
// this command never records an error.
type ScriptWriter struct {
	cor.BaseCommand
	generativeAIModel cloud.ContentGenerator
	template          *template.Template
	maxRetries        int
	tokens            cloud.TokenCounters
	fallbackCounter   metric.Int64Counter
}

func NewScriptWriter(
	name string,
	generativeAIModel cloud.ContentGenerator,
	template *template.Template,
	maxRetries int) *ScriptWriter {

	out := &ScriptWriter{
		BaseCommand:       *cor.NewBaseCommand(name),
		generativeAIModel: generativeAIModel,
		template:          template,
		maxRetries:        maxRetries,
	}
	out.tokens = cloud.NewTokenCounters(out.GetMeter(), name)
	out.fallbackCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.counter.fallback", name))
	return out
}

func (c *ScriptWriter) Execute(context cor.Context) {
	ctx := context.GetContext()
	item := context.Get(c.GetInputParam()).(*model.NewsItem)

	script, err := c.generate(context, item)
	if err != nil {
		slog.WarnContext(ctx, "script generation failed, using fallback script", "title", item.Title, "error", err)
		c.fallbackCounter.Add(ctx, 1)
		script = model.FallbackScript(item.Title, item.Description)
	}

	if reel := GetReel(context); reel != nil {
		reel.Item = item
		reel.Script = script
	}
	slog.InfoContext(ctx, "script ready", "length", len(script), "fallback", err != nil)
	c.Succeed(context, script)
}

func (c *ScriptWriter) generate(context cor.Context, item *model.NewsItem) (string, error) {
	if c.generativeAIModel == nil {
		return "", fmt.Errorf("no text model configured")
	}
	var buffer bytes.Buffer
	if err := c.template.Execute(&buffer, item); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return cloud.GenerateTextResponse(context.GetContext(), c.tokens, c.maxRetries, c.generativeAIModel, cloud.NewTextPart(buffer.String()))
}
