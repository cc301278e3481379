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

package cor_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rams30/AINewsVideo/internal/core/cor"
)

// step appends its suffix to the string input, or fails when err is set.
type step struct {
	cor.BaseCommand
	suffix string
	err    error
}

func newStep(name, suffix string, err error) *step {
	return &step{BaseCommand: *cor.NewBaseCommand(name), suffix: suffix, err: err}
}

func (s *step) Execute(context cor.Context) {
	if s.err != nil {
		s.Fail(context, s.err)
		return
	}
	in, _ := cor.Get[string](context, s.GetInputParam())
	s.Succeed(context, in+s.suffix)
}

func newContext(in interface{}) cor.Context {
	chainCtx := cor.NewBaseContext()
	chainCtx.SetContext(context.Background())
	if in != nil {
		chainCtx.Add(cor.CtxIn, in)
	}
	return chainCtx
}

func TestChainPipesOutputs(t *testing.T) {
	chain := cor.NewBaseChain("chain").
		AddCommand(newStep("a", "-a", nil)).
		AddCommand(newStep("b", "-b", nil)).
		AddCommand(newStep("c", "-c", nil))

	chainCtx := newContext("in")
	defer chainCtx.Close()
	chain.Execute(chainCtx)

	assert.False(t, chainCtx.HasErrors())
	assert.NoError(t, chainCtx.Err())
	assert.Equal(t, "in-a-b-c", chainCtx.Get(cor.CtxIn))
	assert.Nil(t, chainCtx.Get(cor.CtxOut))
	assert.Len(t, chain.GetCommands(), 3)
}

func TestChainStopsOnFailure(t *testing.T) {
	boom := errors.New("boom")
	last := newStep("c", "-c", nil)
	chain := cor.NewBaseChain("chain").
		AddCommand(newStep("a", "-a", nil)).
		AddCommand(newStep("b", "", boom)).
		AddCommand(last)

	chainCtx := newContext("in")
	defer chainCtx.Close()
	chain.Execute(chainCtx)

	require.True(t, chainCtx.HasErrors())
	assert.ErrorIs(t, chainCtx.Err(), boom)
	assert.EqualError(t, chainCtx.Err(), "b: boom")
	// b produced nothing, so nothing reached c.
	assert.Nil(t, chainCtx.Get(cor.CtxIn))
}

func TestChainContinueOnFailure(t *testing.T) {
	// Both read a key that outlives the CtxIn hand-off.
	first := newStep("a", "", errors.New("first"))
	first.InputParamName = "seed"
	second := newStep("b", "", errors.New("second"))
	second.InputParamName = "seed"
	chain := cor.NewBaseChain("chain").
		ContinueOnFailure(true).
		AddCommand(first).
		AddCommand(second)

	chainCtx := newContext(nil)
	defer chainCtx.Close()
	chainCtx.Add("seed", "in")
	chain.Execute(chainCtx)

	assert.Len(t, chainCtx.GetErrors(), 2)
	assert.EqualError(t, chainCtx.Err(), "a: first\nb: second")
}

func TestChainSkipsNonExecutable(t *testing.T) {
	// BaseCommand.IsExecutable needs a value under CtxIn.
	chain := cor.NewBaseChain("chain").AddCommand(newStep("a", "-a", nil))

	chainCtx := newContext(nil)
	defer chainCtx.Close()
	chain.Execute(chainCtx)

	assert.False(t, chainCtx.HasErrors())
	assert.Nil(t, chainCtx.Get(cor.CtxIn))
}

func TestChainRestoresContext(t *testing.T) {
	chainCtx := newContext("in")
	defer chainCtx.Close()
	parent := chainCtx.GetContext()

	cor.NewBaseChain("chain").AddCommand(newStep("a", "-a", nil)).Execute(chainCtx)
	assert.Equal(t, parent, chainCtx.GetContext())
}

func TestContextTempFiles(t *testing.T) {
	dir := t.TempDir()
	kept := filepath.Join(dir, "kept")
	temp := filepath.Join(dir, "temp")
	require.NoError(t, os.WriteFile(kept, nil, 0644))
	require.NoError(t, os.WriteFile(temp, nil, 0644))

	chainCtx := cor.NewBaseContext()
	chainCtx.AddTempFile(temp)
	chainCtx.AddTempFile(filepath.Join(dir, "never-created"))
	chainCtx.Close()

	assert.NoFileExists(t, temp)
	assert.FileExists(t, kept)
	assert.Empty(t, chainCtx.GetTempFiles())
}

func TestGet(t *testing.T) {
	chainCtx := cor.NewBaseContext()
	chainCtx.Add("n", 3)

	n, ok := cor.Get[int](chainCtx, "n")
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	_, ok = cor.Get[string](chainCtx, "n")
	assert.False(t, ok)
	_, ok = cor.Get[int](chainCtx, "missing")
	assert.False(t, ok)
}
