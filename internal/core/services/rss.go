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
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/rams30/AINewsVideo/internal/core/model"
)

// RSSSource reads headlines from an RSS or Atom feed.
type RSSSource struct {
	Client   *http.Client
	FeedURL  string
	PageSize int
}

func (s *RSSSource) TopHeadlines(ctx context.Context) ([]*model.NewsItem, error) {
	pageSize := s.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	parser := gofeed.NewParser()
	parser.Client = httpClientOrDefault(s.Client)
	feed, err := parser.ParseURLWithContext(s.FeedURL, ctx)
	if err != nil {
		var httpErr gofeed.HTTPError
		if errors.As(err, &httpErr) {
			return nil, &ProviderError{Provider: "rss", StatusCode: httpErr.StatusCode, Err: err}
		}
		return nil, &ProviderError{Provider: "rss", Err: err}
	}

	items := make([]*model.NewsItem, 0, pageSize)
	for _, entry := range feed.Items {
		if len(items) == pageSize {
			break
		}
		summary := entry.Description
		if summary == "" {
			summary = entry.Content
		}
		text, inlineImage := flattenHTML(summary)

		item := model.NewNewsItem(entry.Title, text, feedImage(entry, inlineImage))
		if item == nil {
			continue
		}
		item.URL = entry.Link
		item.Source = feed.Title
		if entry.PublishedParsed != nil {
			item.PublishedAt = *entry.PublishedParsed
		} else if entry.UpdatedParsed != nil {
			item.PublishedAt = *entry.UpdatedParsed
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, ErrNoArticles
	}
	return items, nil
}

// flattenHTML returns the visible text of a feed description and the src of
// its first <img>, if any. Plain text passes through unchanged.
func flattenHTML(in string) (text string, image string) {
	if !strings.Contains(in, "<") {
		return strings.TrimSpace(in), ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(in))
	if err != nil {
		return strings.TrimSpace(in), ""
	}
	image, _ = doc.Find("img").First().Attr("src")
	return strings.Join(strings.Fields(doc.Text()), " "), image
}

func feedImage(entry *gofeed.Item, inline string) string {
	if entry.Image != nil && entry.Image.URL != "" {
		return entry.Image.URL
	}
	for _, enc := range entry.Enclosures {
		if enc != nil && strings.HasPrefix(enc.Type, "image/") {
			return enc.URL
		}
	}
	return inline
}
