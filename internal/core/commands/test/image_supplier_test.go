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

package commands_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rams30/AINewsVideo/internal/core/commands"
	"github.com/rams30/AINewsVideo/internal/core/cor"
	"github.com/rams30/AINewsVideo/internal/core/model"
	"github.com/rams30/AINewsVideo/internal/core/services"
	test "github.com/rams30/AINewsVideo/internal/testutil"
)

func TestImageSupplierKeepsAlignment(t *testing.T) {
	scenes := model.NewScenes([]string{"a", "b", "c"})
	chainCtx, _ := newContext(t, scenes)
	source := &test.FakeImageSource{Data: test.TinyPNG(), Fail: map[int]error{1: services.ErrNoImage}}

	commands.NewImageSupplier("image-supplier", source).Execute(chainCtx)

	assert.False(t, chainCtx.HasErrors())
	out := chainCtx.Get(cor.CtxOut).([]*model.Scene)
	require.Len(t, out, 3)
	assert.True(t, out[0].HasImage())
	assert.False(t, out[1].HasImage())
	assert.ErrorIs(t, out[1].ImageErr, services.ErrNoImage)
	assert.True(t, out[2].HasImage())
	assert.Equal(t, "c", out[2].Sentence)
}

func TestImageSupplierAllFail(t *testing.T) {
	scenes := model.NewScenes([]string{"a", "b"})
	chainCtx, _ := newContext(t, scenes)
	source := &test.FakeImageSource{Fail: map[int]error{0: services.ErrNoImage, 1: services.ErrNotImage}}

	commands.NewImageSupplier("image-supplier", source).Execute(chainCtx)

	assert.False(t, chainCtx.HasErrors())
	assert.Equal(t, 0, model.CountImages(scenes))
	assert.Len(t, scenes, 2)
}

type fakeAnimator struct {
	fail    map[string]bool
	prompts []string
}

func (f *fakeAnimator) Animate(_ context.Context, _ []byte, prompt string) ([]byte, error) {
	f.prompts = append(f.prompts, prompt)
	if f.fail[prompt] {
		return nil, services.ErrNoVideo
	}
	return []byte("clip"), nil
}

func TestSceneAnimator(t *testing.T) {
	dir := t.TempDir()
	scenes := scenesWithImages("a", "b")
	scenes = append(scenes, model.NewScenes([]string{"c"})...)
	scenes[2].Index = 2
	chainCtx, _ := newContext(t, scenes)
	animator := &fakeAnimator{fail: map[string]bool{"news, b": true}}

	commands.NewSceneAnimator("scene-animator", animator, dir, "news,").Execute(chainCtx)

	assert.False(t, chainCtx.HasErrors())
	assert.Equal(t, []string{"news, a", "news, b"}, animator.prompts)

	assert.Equal(t, filepath.Join(dir, "animated_0.mp4"), scenes[0].ClipPath)
	assert.FileExists(t, scenes[0].ClipPath)
	assert.Equal(t, "", scenes[1].ClipPath)
	assert.True(t, scenes[1].HasImage())
	assert.Equal(t, "", scenes[2].ClipPath)

	// Clips are temp files of the run.
	assert.Equal(t, []string{scenes[0].ClipPath}, chainCtx.GetTempFiles())
	chainCtx.Close()
	_, err := os.Stat(filepath.Join(dir, "animated_0.mp4"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
