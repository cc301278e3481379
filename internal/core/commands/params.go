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

// Package commands holds the stages of the reel pipeline. Each stage is a
// cor.Command. Stages hand their primary result down the chain through
// cor.CtxOut and record everything worth keeping on the shared *model.Reel
// stored under ParamReel.
package commands

import (
	"errors"

	"github.com/rams30/AINewsVideo/internal/core/cor"
	"github.com/rams30/AINewsVideo/internal/core/model"
)

// Context keys shared across the pipeline.
const (
	ParamReel      = "__REEL__"
	ParamNewsItems = "news.items"
	ParamRequest   = "__REEL_REQUEST__"
)

var (
	// ErrNoSentences means the narration split into nothing.
	ErrNoSentences = errors.New("script contains no sentences")
	// ErrNoContent means there is nothing to assemble: no sentences or no images.
	ErrNoContent = errors.New("no sentences or images provided")
	// ErrNoClips means every scene failed to render.
	ErrNoClips = errors.New("no valid clips were created")
)

// GetReel returns the run record, or nil when the context has none.
func GetReel(context cor.Context) *model.Reel {
	reel, _ := cor.Get[*model.Reel](context, ParamReel)
	return reel
}

// hasReel is the shared precondition for commands that work off the reel.
func hasReel(context cor.Context) bool {
	return context != nil && context.GetContext() != nil && GetReel(context) != nil
}
