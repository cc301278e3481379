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
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rams30/AINewsVideo/internal/core/cor"
	"github.com/rams30/AINewsVideo/internal/core/model"
	"github.com/rams30/AINewsVideo/internal/core/services"
)

// Narrator synthesizes the reel's script to <outputDir>/<fileName>. There is
// no fallback: a synthesis or write failure stops the run.
type Narrator struct {
	cor.BaseCommand
	synthesizer services.SpeechSynthesizer
	outputDir   string
	fileName    string
}

func NewNarrator(name string, synthesizer services.SpeechSynthesizer, outputDir string, fileName string) *Narrator {
	out := &Narrator{
		BaseCommand: *cor.NewBaseCommand(name),
		synthesizer: synthesizer,
		outputDir:   outputDir,
		fileName:    fileName,
	}
	out.InputParamName = ParamReel
	return out
}

func (c *Narrator) IsExecutable(context cor.Context) bool {
	return hasReel(context) && GetReel(context).Script != ""
}

func (c *Narrator) Execute(context cor.Context) {
	ctx := context.GetContext()
	reel := GetReel(context)

	if err := os.MkdirAll(c.outputDir, 0755); err != nil {
		c.Fail(context, fmt.Errorf("failed to create output directory: %w", err))
		return
	}
	path := filepath.Join(c.outputDir, c.fileName)

	audio, err := c.synthesizer.Synthesize(ctx, reel.Script)
	if err != nil {
		c.Fail(context, fmt.Errorf("failed to synthesize speech: %w", err))
		return
	}
	defer audio.Close()

	if err := writeStream(path, audio); err != nil {
		c.Fail(context, fmt.Errorf("failed to write audio file: %w", err))
		return
	}

	track := &model.AudioTrack{Path: path}
	reel.Audio = track
	slog.InfoContext(ctx, "narration written", "path", path)
	c.Succeed(context, track)
}

// writeStream copies r to path and removes the file when the copy fails.
func writeStream(path string, r io.Reader) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		_ = os.Remove(path)
		return err
	}
	return out.Close()
}
