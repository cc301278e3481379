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
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/rams30/AINewsVideo/internal/cloud"
	"github.com/rams30/AINewsVideo/internal/core/cor"
	"github.com/rams30/AINewsVideo/internal/core/model"
	"github.com/rams30/AINewsVideo/internal/core/services"
)

// VideoAssembler turns the scenes and the narration into the final MP4.
//
// Logic Flow:
//  1. The narration is probed for its length D and the script is split again
//     to get the sentence count N. Every scene is allotted D/N, whether or
//     not its neighbours survive.
//  2. Each scene with an image is normalized to <output>/temp_{i}.jpg and
//     rendered with its caption to <output>/scene_{i}.mp4. Animated scenes
//     use their clip instead of the still. A scene that fails is dropped.
//  3. The clips are concatenated in order with the narration underneath.
//  4. Intermediate files are removed and the result is copied to the
//     downloads directory. Neither step can fail the run.
type VideoAssembler struct {
	cor.BaseCommand
	encoder services.Encoder
	video   cloud.Video
}

func NewVideoAssembler(name string, encoder services.Encoder, video cloud.Video) *VideoAssembler {
	out := &VideoAssembler{BaseCommand: *cor.NewBaseCommand(name), encoder: encoder, video: video}
	out.InputParamName = ParamReel
	return out
}

func (c *VideoAssembler) IsExecutable(context cor.Context) bool {
	return hasReel(context) && GetReel(context).Audio != nil
}

func (c *VideoAssembler) Execute(context cor.Context) {
	ctx := context.GetContext()
	reel := GetReel(context)

	sentences := model.SplitSentences(reel.Script)
	if len(sentences) == 0 || !hasVisuals(reel.Scenes) {
		c.Fail(context, ErrNoContent)
		return
	}

	total, err := c.encoder.Probe(ctx, reel.Audio.Path)
	if err != nil {
		c.Fail(context, fmt.Errorf("failed to measure narration: %w", err))
		return
	}
	reel.Audio.Duration = total
	perScene := total / time.Duration(len(sentences))
	slog.InfoContext(ctx, "assembling video",
		"sentences", len(sentences), "images", model.CountImages(reel.Scenes), "audio", total, "per_scene", perScene)

	if err := os.MkdirAll(c.video.OutputDir, 0755); err != nil {
		c.Fail(context, fmt.Errorf("failed to create output directory: %w", err))
		return
	}

	var intermediates []string
	defer func() { removeAll(intermediates) }()

	clips := make([]model.SceneClip, 0, len(reel.Scenes))
	for _, scene := range reel.Scenes {
		scene.Duration = perScene
		if !scene.HasImage() && scene.ClipPath == "" {
			slog.WarnContext(ctx, "skipping scene without image", "scene", scene.Index, "reason", scene.ImageErr)
			continue
		}

		clip := model.SceneClip{
			Index:    scene.Index,
			Caption:  scene.Sentence,
			ClipPath: scene.ClipPath,
			Width:    c.video.Width,
			Height:   c.video.Height,
			Duration: perScene,
			OutPath:  filepath.Join(c.video.OutputDir, fmt.Sprintf("scene_%d.mp4", scene.Index)),
		}
		if clip.ClipPath == "" {
			clip.ImagePath = filepath.Join(c.video.OutputDir, fmt.Sprintf("temp_%d.jpg", scene.Index))
			if err := NormalizeImage(scene.Image.Data, clip.ImagePath); err != nil {
				slog.WarnContext(ctx, "skipping scene with unreadable image", "scene", scene.Index, "error", err)
				continue
			}
			intermediates = append(intermediates, clip.ImagePath)
		}

		intermediates = append(intermediates, clip.OutPath)
		if err := c.encoder.RenderScene(ctx, clip); err != nil {
			slog.WarnContext(ctx, "skipping scene that failed to render", "scene", scene.Index, "error", err)
			continue
		}
		clips = append(clips, clip)
	}

	if len(clips) == 0 {
		c.Fail(context, ErrNoClips)
		return
	}

	outPath := filepath.Join(c.video.OutputDir, c.video.OutputFileName)
	if err := c.encoder.Concat(ctx, clips, reel.Audio.Path, outPath); err != nil {
		_ = os.Remove(outPath)
		c.Fail(context, fmt.Errorf("failed to encode video: %w", err))
		return
	}
	reel.VideoPath = outPath
	slog.InfoContext(ctx, "video written", "path", outPath, "clips", len(clips))

	reel.DownloadPath = c.copyToDownloads(context, outPath)
	c.Succeed(context, outPath)
}

func (c *VideoAssembler) copyToDownloads(context cor.Context, outPath string) string {
	if c.video.DownloadsDir == "" {
		return ""
	}
	dir, err := ExpandHome(c.video.DownloadsDir)
	if err != nil {
		slog.WarnContext(context.GetContext(), "failed to resolve downloads directory", "error", err)
		return ""
	}
	dest := filepath.Join(dir, c.video.DownloadFileName)
	if err := CopyFile(outPath, dest); err != nil {
		slog.WarnContext(context.GetContext(), "failed to copy video to downloads", "dest", dest, "error", err)
		return ""
	}
	slog.InfoContext(context.GetContext(), "video copied", "dest", dest)
	return dest
}

func hasVisuals(scenes []*model.Scene) bool {
	for _, s := range scenes {
		if s.HasImage() || s.ClipPath != "" {
			return true
		}
	}
	return false
}

// NormalizeImage decodes data and writes it to path as an RGB JPEG.
func NormalizeImage(data []byte, path string) error {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}
	var buffer bytes.Buffer
	if err := jpeg.Encode(&buffer, img, &jpeg.Options{Quality: 95}); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return os.WriteFile(path, buffer.Bytes(), 0644)
}
