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
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/rams30/AINewsVideo/internal/core/cor"
	"github.com/rams30/AINewsVideo/internal/core/model"
	"github.com/rams30/AINewsVideo/internal/core/services"
)

// ImageSupplier resolves every scene to an image. Scenes are never removed
// or reordered: a failed lookup leaves Scene.Image nil with the reason in
// Scene.ImageErr, and the batch carries on.
type ImageSupplier struct {
	cor.BaseCommand
	source      services.ImageSource
	hitCounter  metric.Int64Counter
	missCounter metric.Int64Counter
}

func NewImageSupplier(name string, source services.ImageSource) *ImageSupplier {
	out := &ImageSupplier{BaseCommand: *cor.NewBaseCommand(name), source: source}
	out.hitCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.counter.hit", name))
	out.missCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.counter.miss", name))
	return out
}

func (c *ImageSupplier) Execute(context cor.Context) {
	ctx := context.GetContext()
	scenes := context.Get(c.GetInputParam()).([]*model.Scene)

	var item *model.NewsItem
	if reel := GetReel(context); reel != nil {
		item = reel.Item
	}

	for _, scene := range scenes {
		spanCtx, span := c.GetTracer().Start(ctx, "fetch-image")
		span.SetAttributes(attribute.Int("scene.index", scene.Index), attribute.String("scene.query", scene.Query))

		image, err := c.source.FetchImage(spanCtx, scene, item)
		if err != nil {
			scene.Image = nil
			scene.ImageErr = err
			span.RecordError(err)
			c.missCounter.Add(ctx, 1)
			slog.WarnContext(spanCtx, "no image for scene", "scene", scene.Index, "query", scene.Query, "error", err)
		} else {
			scene.Image = image
			scene.ImageErr = nil
			c.hitCounter.Add(ctx, 1)
		}
		span.End()
	}

	slog.InfoContext(ctx, "images supplied", "scenes", len(scenes), "images", model.CountImages(scenes))
	c.Succeed(context, scenes)
}
