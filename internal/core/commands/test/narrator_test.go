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
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rams30/AINewsVideo/internal/core/commands"
	"github.com/rams30/AINewsVideo/internal/core/services"
	test "github.com/rams30/AINewsVideo/internal/testutil"
)

func TestNarrator(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	chainCtx, reel := newContext(t, nil)
	reel.Script = "One. Two."
	speech := &test.FakeSpeech{Audio: []byte("mp3-bytes")}

	cmd := commands.NewNarrator("narrator", speech, dir, "audio.mp3")
	require.True(t, cmd.IsExecutable(chainCtx))
	cmd.Execute(chainCtx)

	assert.False(t, chainCtx.HasErrors())
	assert.Equal(t, []string{"One. Two."}, speech.Texts)
	require.NotNil(t, reel.Audio)
	assert.Equal(t, filepath.Join(dir, "audio.mp3"), reel.Audio.Path)

	data, err := os.ReadFile(reel.Audio.Path)
	require.NoError(t, err)
	assert.Equal(t, "mp3-bytes", string(data))
}

func TestNarratorFailureIsFatal(t *testing.T) {
	dir := t.TempDir()
	chainCtx, reel := newContext(t, nil)
	reel.Script = "One."
	speech := &test.FakeSpeech{Err: &services.ProviderError{Provider: "openai-speech", StatusCode: 401, Err: errors.New("bad key")}}

	commands.NewNarrator("narrator", speech, dir, "audio.mp3").Execute(chainCtx)

	err := chainCtx.GetErrors()["narrator"]
	var providerErr *services.ProviderError
	assert.True(t, errors.As(err, &providerErr))
	assert.Nil(t, reel.Audio)
	assert.NoFileExists(t, filepath.Join(dir, "audio.mp3"))
}

func TestNarratorNeedsScript(t *testing.T) {
	chainCtx, _ := newContext(t, nil)
	cmd := commands.NewNarrator("narrator", &test.FakeSpeech{}, t.TempDir(), "audio.mp3")
	assert.False(t, cmd.IsExecutable(chainCtx))
}
