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
	"os"
	"path/filepath"
	"strings"

	"github.com/rams30/AINewsVideo/internal/core/cor"
	"github.com/rams30/AINewsVideo/internal/core/model"
	"github.com/rams30/AINewsVideo/internal/core/services"
)

// SceneAnimator replaces still images with short generated clips. Each clip
// is written to <outputDir>/animated_{i}.mp4 and set as Scene.ClipPath. A
// scene whose animation fails keeps its still image.
type SceneAnimator struct {
	cor.BaseCommand
	animator  services.Animator
	outputDir string
	prompt    string
}

func NewSceneAnimator(name string, animator services.Animator, outputDir string, prompt string) *SceneAnimator {
	return &SceneAnimator{BaseCommand: *cor.NewBaseCommand(name), animator: animator, outputDir: outputDir, prompt: prompt}
}

func (c *SceneAnimator) Execute(context cor.Context) {
	ctx := context.GetContext()
	scenes := context.Get(c.GetInputParam()).([]*model.Scene)

	if err := os.MkdirAll(c.outputDir, 0755); err != nil {
		slog.ErrorContext(ctx, "failed to create output directory, skipping animation", "dir", c.outputDir, "error", err)
		c.Succeed(context, scenes)
		return
	}

	animated := 0
	for _, scene := range scenes {
		if !scene.HasImage() {
			continue
		}
		clip, err := c.animator.Animate(ctx, scene.Image.Data, c.promptFor(scene))
		if err != nil {
			slog.WarnContext(ctx, "animation failed, keeping still image", "scene", scene.Index, "error", err)
			continue
		}
		path := filepath.Join(c.outputDir, fmt.Sprintf("animated_%d.mp4", scene.Index))
		if err := os.WriteFile(path, clip, 0644); err != nil {
			slog.WarnContext(ctx, "failed to write animated clip", "scene", scene.Index, "error", err)
			continue
		}
		context.AddTempFile(path)
		scene.ClipPath = path
		animated++
	}

	slog.InfoContext(ctx, "scenes animated", "animated", animated, "scenes", len(scenes))
	c.Succeed(context, scenes)
}

func (c *SceneAnimator) promptFor(scene *model.Scene) string {
	return strings.TrimSpace(c.prompt + " " + scene.Sentence)
}
