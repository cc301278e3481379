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

// Package commands_test runs each pipeline stage on its own against the
// in-memory providers from testutil.
package commands_test

import (
	"context"
	"testing"
	"text/template"

	"github.com/rams30/AINewsVideo/internal/cloud"
	"github.com/rams30/AINewsVideo/internal/core/commands"
	"github.com/rams30/AINewsVideo/internal/core/cor"
	"github.com/rams30/AINewsVideo/internal/core/model"
)

// newContext returns a chain context holding a fresh reel and, when in is
// not nil, the command input under cor.CtxIn.
func newContext(t *testing.T, in interface{}) (cor.Context, *model.Reel) {
	t.Helper()
	reel := model.NewReel()
	chainCtx := cor.NewBaseContext()
	chainCtx.SetContext(context.Background())
	chainCtx.Add(commands.ParamReel, reel)
	if in != nil {
		chainCtx.Add(cor.CtxIn, in)
	}
	t.Cleanup(chainCtx.Close)
	return chainCtx, reel
}

func scriptTemplate(t *testing.T) *template.Template {
	t.Helper()
	return template.Must(template.New("script").Parse(cloud.DefaultScriptPrompt))
}

func queryTemplate(t *testing.T) *template.Template {
	t.Helper()
	return template.Must(template.New("query").Parse(cloud.DefaultQueryPrompt))
}

func scenesWithImages(sentences ...string) []*model.Scene {
	scenes := model.NewScenes(sentences)
	for _, s := range scenes {
		s.Image = &model.SceneImage{Data: []byte{1}}
	}
	return scenes
}
