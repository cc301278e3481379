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

package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/rams30/AINewsVideo/internal/core/model"
)

// Encoder measures audio and turns scene clips into the final video.
type Encoder interface {
	Probe(ctx context.Context, path string) (time.Duration, error)
	RenderScene(ctx context.Context, clip model.SceneClip) error
	Concat(ctx context.Context, clips []model.SceneClip, audioPath string, outPath string) error
}

// FFmpegEncoder builds ffmpeg filter graphs with ffmpeg-go and runs them
// under the caller's context.
type FFmpegEncoder struct {
	FFmpegPath      string
	FPS             int
	Bitrate         string
	VideoCodec      string
	AudioCodec      string
	Preset          string
	CaptionWidth    float64 // Fraction of the frame width.
	CaptionFontSize float64 // Fraction of the frame height.
	CaptionBoxAlpha float64
	CaptionStroke   int
	FontFile        string
}

type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// ParseProbeDuration reads format.duration from ffprobe JSON output.
func ParseProbeDuration(out string) (time.Duration, error) {
	var probe probeOutput
	if err := json.Unmarshal([]byte(out), &probe); err != nil {
		return 0, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}
	seconds, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe reported no duration: %w", err)
	}
	if seconds <= 0 {
		return 0, fmt.Errorf("ffprobe reported duration %v", seconds)
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

func (e *FFmpegEncoder) Probe(ctx context.Context, path string) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	out, err := ffmpeg.Probe(path)
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	return ParseProbeDuration(out)
}

// RenderScene writes one silent clip of clip.Duration with the caption
// burned in near the bottom of the frame.
func (e *FFmpegEncoder) RenderScene(ctx context.Context, clip model.SceneClip) error {
	captionFile := strings.TrimSuffix(clip.OutPath, ".mp4") + ".txt"
	fontSize := int(math.Round(float64(clip.Height) * e.CaptionFontSize))
	if fontSize < 1 {
		fontSize = 1
	}
	boxWidth := int(float64(clip.Width) * e.CaptionWidth)
	if err := os.WriteFile(captionFile, []byte(WrapCaption(clip.Caption, CaptionColumns(boxWidth, fontSize))), 0644); err != nil {
		return fmt.Errorf("failed to write caption: %w", err)
	}
	defer os.Remove(captionFile)

	err := e.run(ctx, e.SceneStream(clip, captionFile, fontSize))
	if err != nil {
		_ = os.Remove(clip.OutPath)
	}
	return err
}

// SceneStream is the ffmpeg graph for one scene. The input is the animated
// clip when present, looped, or else the still image held for the duration.
func (e *FFmpegEncoder) SceneStream(clip model.SceneClip, captionFile string, fontSize int) *ffmpeg.Stream {
	seconds := formatSeconds(clip.Duration)
	size := fmt.Sprintf("%d:%d", clip.Width, clip.Height)

	var input *ffmpeg.Stream
	if clip.ClipPath != "" {
		input = ffmpeg.Input(clip.ClipPath, ffmpeg.KwArgs{"stream_loop": "-1"})
	} else {
		input = ffmpeg.Input(clip.ImagePath, ffmpeg.KwArgs{"loop": "1", "framerate": strconv.Itoa(e.FPS)})
	}

	text := ffmpeg.KwArgs{
		"textfile":    captionFile,
		"fontsize":    strconv.Itoa(fontSize),
		"fontcolor":   "white",
		"box":         "1",
		"boxcolor":    fmt.Sprintf("black@%.2f", e.CaptionBoxAlpha),
		"boxborderw":  strconv.Itoa(fontSize / 2),
		"borderw":     strconv.Itoa(e.CaptionStroke),
		"bordercolor": "black",
		"x":           "(w-text_w)/2",
		"y":           fmt.Sprintf("h-text_h-%d", fontSize),
	}
	if e.FontFile != "" {
		text["fontfile"] = e.FontFile
	}

	video := input.Video().
		Filter("scale", ffmpeg.Args{size}, ffmpeg.KwArgs{"force_original_aspect_ratio": "decrease"}).
		Filter("pad", ffmpeg.Args{strconv.Itoa(clip.Width), strconv.Itoa(clip.Height), "(ow-iw)/2", "(oh-ih)/2"}).
		Filter("setsar", ffmpeg.Args{"1"}).
		Filter("drawtext", ffmpeg.Args{}, text).
		Filter("format", ffmpeg.Args{"yuv420p"})

	return video.Output(clip.OutPath, ffmpeg.KwArgs{
		"t":      seconds,
		"r":      strconv.Itoa(e.FPS),
		"c:v":    e.VideoCodec,
		"b:v":    e.Bitrate,
		"preset": e.Preset,
		"an":     "",
	}).OverWriteOutput()
}

// Concat joins the rendered clips in order and lays the narration under
// them. A failed encode leaves no file at outPath.
func (e *FFmpegEncoder) Concat(ctx context.Context, clips []model.SceneClip, audioPath string, outPath string) error {
	if len(clips) == 0 {
		return errors.New("no clips to concatenate")
	}
	if err := e.run(ctx, e.ConcatStream(clips, audioPath, outPath)); err != nil {
		_ = os.Remove(outPath)
		return err
	}
	return nil
}

func (e *FFmpegEncoder) ConcatStream(clips []model.SceneClip, audioPath string, outPath string) *ffmpeg.Stream {
	inputs := make([]*ffmpeg.Stream, 0, len(clips))
	for _, clip := range clips {
		inputs = append(inputs, ffmpeg.Input(clip.OutPath))
	}
	video := ffmpeg.Concat(inputs, ffmpeg.KwArgs{"v": 1, "a": 0})
	audio := ffmpeg.Input(audioPath).Audio()

	return ffmpeg.Output([]*ffmpeg.Stream{video, audio}, outPath, ffmpeg.KwArgs{
		"c:v":      e.VideoCodec,
		"c:a":      e.AudioCodec,
		"r":        strconv.Itoa(e.FPS),
		"b:v":      e.Bitrate,
		"preset":   e.Preset,
		"pix_fmt":  "yuv420p",
		"shortest": "",
	}).OverWriteOutput()
}

func (e *FFmpegEncoder) run(ctx context.Context, stream *ffmpeg.Stream) error {
	path := e.FFmpegPath
	if path == "" {
		path = "ffmpeg"
	}
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, stream.GetArgs()...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg failed: %w: %s", err, tail(stderr.String(), 500))
	}
	return nil
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) > n {
		return s[len(s)-n:]
	}
	return s
}

// CaptionColumns estimates how many characters fit in width pixels at the
// given font size.
func CaptionColumns(width, fontSize int) int {
	if fontSize <= 0 {
		return width
	}
	cols := int(float64(width) / (float64(fontSize) * 0.55))
	if cols < 10 {
		cols = 10
	}
	return cols
}

// WrapCaption breaks text on spaces so that no line exceeds columns
// characters, unless a single word is longer.
func WrapCaption(text string, columns int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > columns {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
