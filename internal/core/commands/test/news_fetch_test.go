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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rams30/AINewsVideo/internal/core/commands"
	"github.com/rams30/AINewsVideo/internal/core/cor"
	"github.com/rams30/AINewsVideo/internal/core/model"
	"github.com/rams30/AINewsVideo/internal/core/services"
	test "github.com/rams30/AINewsVideo/internal/testutil"
)

func headlines() []*model.NewsItem {
	return []*model.NewsItem{
		model.NewNewsItem("First", "one", ""),
		model.NewNewsItem("Second", "two", "https://example.com/2.jpg"),
	}
}

func TestNewsFetchSelectsIndex(t *testing.T) {
	chainCtx, reel := newContext(t, nil)
	cmd := commands.NewNewsFetch("news-fetch", &test.FakeNewsSource{Items: headlines()}, 1)

	assert.True(t, cmd.IsExecutable(chainCtx))
	cmd.Execute(chainCtx)

	assert.False(t, chainCtx.HasErrors())
	assert.Equal(t, "Second", reel.Item.Title)
	assert.Equal(t, reel.Item, chainCtx.Get(cor.CtxOut))
	assert.Len(t, chainCtx.Get(commands.ParamNewsItems), 2)
}

func TestNewsFetchIndexOutOfRange(t *testing.T) {
	chainCtx, reel := newContext(t, nil)
	commands.NewNewsFetch("news-fetch", &test.FakeNewsSource{Items: headlines()}, 7).Execute(chainCtx)

	assert.False(t, chainCtx.HasErrors())
	assert.Equal(t, "First", reel.Item.Title)
}

func TestNewsFetchProviderFailure(t *testing.T) {
	chainCtx, reel := newContext(t, nil)
	source := &test.FakeNewsSource{Err: &services.ProviderError{Provider: "newsapi", StatusCode: 500, Err: errors.New("boom")}}
	commands.NewNewsFetch("news-fetch", source, 0).Execute(chainCtx)

	// The failure is swallowed into an empty list, which cannot be narrated.
	items, ok := cor.Get[[]*model.NewsItem](chainCtx, commands.ParamNewsItems)
	assert.True(t, ok)
	assert.Empty(t, items)
	assert.ErrorIs(t, chainCtx.GetErrors()["news-fetch"], services.ErrNoArticles)
	assert.Nil(t, reel.Item)
	assert.Nil(t, chainCtx.Get(cor.CtxOut))
}

func TestNewsFetchRequiresReel(t *testing.T) {
	chainCtx := cor.NewBaseContext()
	defer chainCtx.Close()
	cmd := commands.NewNewsFetch("news-fetch", &test.FakeNewsSource{}, 0)
	assert.False(t, cmd.IsExecutable(chainCtx))
}
