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
	"log/slog"

	"github.com/rams30/AINewsVideo/internal/core/cor"
	"github.com/rams30/AINewsVideo/internal/core/model"
	"github.com/rams30/AINewsVideo/internal/core/services"
)

// NewsFetch asks the configured source for the current top headlines.
//
// Whatever the source returns, the list lands in the context under
// ParamNewsItems; provider failures are logged and turned into an empty
// list. The run still needs a headline, so an empty list is recorded as
// services.ErrNoArticles against this command. Otherwise the item at index
// becomes the reel's subject and the command output.
type NewsFetch struct {
	cor.BaseCommand
	source services.NewsSource
	index  int
}

func NewNewsFetch(name string, source services.NewsSource, index int) *NewsFetch {
	return &NewsFetch{BaseCommand: *cor.NewBaseCommand(name), source: source, index: index}
}

// IsExecutable only needs the reel; the fetch is the first stage.
func (c *NewsFetch) IsExecutable(context cor.Context) bool {
	return hasReel(context)
}

func (c *NewsFetch) Execute(context cor.Context) {
	ctx := context.GetContext()

	items, err := c.source.TopHeadlines(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to fetch headlines", "command", c.GetName(), "error", err)
		items = make([]*model.NewsItem, 0)
	}
	context.Add(ParamNewsItems, items)

	if len(items) == 0 {
		c.Fail(context, services.ErrNoArticles)
		return
	}

	index := c.index
	if index < 0 || index >= len(items) {
		slog.WarnContext(ctx, "news index out of range, using first item", "index", index, "count", len(items))
		index = 0
	}
	item := items[index]
	GetReel(context).Item = item

	slog.InfoContext(ctx, "selected headline", "title", item.Title, "index", index, "count", len(items))
	c.Succeed(context, item)
}

