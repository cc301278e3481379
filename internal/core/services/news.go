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
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rams30/AINewsVideo/internal/core/model"
)

// DefaultPageSize is the most headlines a source returns.
const DefaultPageSize = 5

// NewsSource returns candidate headlines, best first. An empty result is
// ErrNoArticles, never a nil error.
type NewsSource interface {
	TopHeadlines(ctx context.Context) ([]*model.NewsItem, error)
}

// NewsAPISource reads the newsapi.org top-headlines endpoint.
type NewsAPISource struct {
	Client   *http.Client
	Endpoint string
	APIKey   string
	Country  string
	PageSize int
}

type newsAPIResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		URLToImage  string `json:"urlToImage"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

func (s *NewsAPISource) TopHeadlines(ctx context.Context) ([]*model.NewsItem, error) {
	pageSize := s.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	params := url.Values{}
	params.Set("country", s.Country)
	params.Set("apiKey", s.APIKey)
	params.Set("pageSize", strconv.Itoa(pageSize))

	req, err := http.NewRequest(http.MethodGet, s.Endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &ProviderError{Provider: "newsapi", Err: err}
	}

	var body newsAPIResponse
	if err := fetchJSON(ctx, s.Client, "newsapi", req, &body); err != nil {
		return nil, err
	}

	items := make([]*model.NewsItem, 0, len(body.Articles))
	for _, a := range body.Articles {
		item := model.NewNewsItem(a.Title, a.Description, a.URLToImage)
		if item == nil {
			continue
		}
		item.URL = a.URL
		item.Source = a.Source.Name
		if t, err := time.Parse(time.RFC3339, a.PublishedAt); err == nil {
			item.PublishedAt = t
		}
		items = append(items, item)
		if len(items) == pageSize {
			break
		}
	}
	if len(items) == 0 {
		return nil, ErrNoArticles
	}
	return items, nil
}
