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

// Package services_test exercises the provider clients against local
// httptest servers carrying canned payloads.
package services_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rams30/AINewsVideo/internal/core/services"
	test "github.com/rams30/AINewsVideo/internal/testutil"
)

func serve(t *testing.T, status int, contentType string, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewsAPISource(t *testing.T) {
	var query map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		_, _ = w.Write([]byte(test.NewsAPIResponse))
	}))
	defer srv.Close()

	source := &services.NewsAPISource{Client: srv.Client(), Endpoint: srv.URL, APIKey: "key", Country: "us"}
	items, err := source.TopHeadlines(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"us"}, query["country"])
	assert.Equal(t, []string{"key"}, query["apiKey"])
	assert.Equal(t, []string{"5"}, query["pageSize"])

	// The untitled article is dropped; nulls become empty strings.
	require.Len(t, items, 2)
	assert.Equal(t, "City opens new bridge", items[0].Title)
	assert.Equal(t, "", items[0].Description)
	assert.Equal(t, "", items[0].ImageURL)
	assert.Equal(t, "Example Times", items[0].Source)

	assert.Equal(t, "Scientists map deep ocean floor", items[1].Title)
	assert.Equal(t, "https://example.com/ocean.jpg", items[1].ImageURL)
	assert.Equal(t, 2024, items[1].PublishedAt.Year())
}

func TestNewsAPISourcePageSize(t *testing.T) {
	srv := serve(t, http.StatusOK, "application/json", test.NewsAPIResponse)

	source := &services.NewsAPISource{Client: srv.Client(), Endpoint: srv.URL, PageSize: 1}
	items, err := source.TopHeadlines(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestNewsAPISourceErrors(t *testing.T) {
	t.Run("empty result", func(t *testing.T) {
		srv := serve(t, http.StatusOK, "application/json", test.NewsAPIEmpty)
		_, err := (&services.NewsAPISource{Client: srv.Client(), Endpoint: srv.URL}).TopHeadlines(context.Background())
		assert.ErrorIs(t, err, services.ErrNoArticles)
	})

	t.Run("unauthorized", func(t *testing.T) {
		srv := serve(t, http.StatusUnauthorized, "application/json", `{"status":"error","code":"apiKeyInvalid"}`)
		_, err := (&services.NewsAPISource{Client: srv.Client(), Endpoint: srv.URL}).TopHeadlines(context.Background())

		var providerErr *services.ProviderError
		require.True(t, errors.As(err, &providerErr))
		assert.Equal(t, "newsapi", providerErr.Provider)
		assert.Equal(t, http.StatusUnauthorized, providerErr.StatusCode)
		assert.Contains(t, err.Error(), "apiKeyInvalid")
		assert.False(t, errors.Is(err, services.ErrNoArticles))
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := serve(t, http.StatusOK, "application/json", `{"articles": [`)
		_, err := (&services.NewsAPISource{Client: srv.Client(), Endpoint: srv.URL}).TopHeadlines(context.Background())

		var providerErr *services.ProviderError
		assert.True(t, errors.As(err, &providerErr))
		assert.Equal(t, 0, providerErr.StatusCode)
	})
}

func TestRSSSource(t *testing.T) {
	srv := serve(t, http.StatusOK, "application/rss+xml", test.RSSFeed)

	source := &services.RSSSource{Client: srv.Client(), FeedURL: srv.URL}
	items, err := source.TopHeadlines(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "Markets rally on rate news", items[0].Title)
	assert.Equal(t, "Stocks rose sharply.", items[0].Description)
	assert.Equal(t, "https://example.com/markets.jpg", items[0].ImageURL)
	assert.Equal(t, "Example Feed", items[0].Source)

	assert.Equal(t, "Storm heads north", items[1].Title)
	assert.Equal(t, "Residents prepare for winds.", items[1].Description)
	assert.Equal(t, "https://example.com/storm.png", items[1].ImageURL)
}

func TestRSSSourceErrors(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		srv := serve(t, http.StatusBadGateway, "text/plain", "upstream down")
		_, err := (&services.RSSSource{Client: srv.Client(), FeedURL: srv.URL}).TopHeadlines(context.Background())

		var providerErr *services.ProviderError
		require.True(t, errors.As(err, &providerErr))
		assert.Equal(t, http.StatusBadGateway, providerErr.StatusCode)
	})

	t.Run("no items", func(t *testing.T) {
		srv := serve(t, http.StatusOK, "application/rss+xml",
			`<?xml version="1.0"?><rss version="2.0"><channel><title>Empty</title></channel></rss>`)
		_, err := (&services.RSSSource{Client: srv.Client(), FeedURL: srv.URL}).TopHeadlines(context.Background())
		assert.ErrorIs(t, err, services.ErrNoArticles)
	})
}
