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

	"github.com/h2non/filetype"

	"github.com/rams30/AINewsVideo/internal/core/model"
)

// ImageSource resolves one scene to an image. item is the headline being
// narrated; strategies that only use the scene query ignore it.
type ImageSource interface {
	FetchImage(ctx context.Context, scene *model.Scene, item *model.NewsItem) (*model.SceneImage, error)
}

// PexelsImageSource searches Pexels with the scene query and downloads the
// first landscape result.
type PexelsImageSource struct {
	Client      *http.Client
	Endpoint    string
	APIKey      string
	Orientation string
	PerPage     int
}

type pexelsResponse struct {
	Photos []struct {
		Src struct {
			Large string `json:"large"`
		} `json:"src"`
	} `json:"photos"`
}

func (p *PexelsImageSource) FetchImage(ctx context.Context, scene *model.Scene, _ *model.NewsItem) (*model.SceneImage, error) {
	perPage := p.PerPage
	if perPage <= 0 {
		perPage = 1
	}
	params := url.Values{}
	params.Set("query", scene.Query)
	params.Set("per_page", strconv.Itoa(perPage))
	if p.Orientation != "" {
		params.Set("orientation", p.Orientation)
	}

	req, err := http.NewRequest(http.MethodGet, p.Endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &ProviderError{Provider: "pexels", Err: err}
	}
	req.Header.Set("Authorization", p.APIKey)

	var body pexelsResponse
	if err := fetchJSON(ctx, p.Client, "pexels", req, &body); err != nil {
		return nil, err
	}
	if len(body.Photos) == 0 || body.Photos[0].Src.Large == "" {
		return nil, ErrNoImage
	}
	return DownloadImage(ctx, p.Client, body.Photos[0].Src.Large)
}

// ArticleImageSource reuses the headline's own artwork for every scene.
type ArticleImageSource struct {
	Client *http.Client
}

func (a *ArticleImageSource) FetchImage(ctx context.Context, _ *model.Scene, item *model.NewsItem) (*model.SceneImage, error) {
	if !item.HasImage() {
		return nil, ErrNoImageURL
	}
	return DownloadImage(ctx, a.Client, item.ImageURL)
}

// DownloadImage fetches imageURL and checks that the bytes are an image.
func DownloadImage(ctx context.Context, client *http.Client, imageURL string) (*model.SceneImage, error) {
	req, err := http.NewRequest(http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, &ProviderError{Provider: "image-download", Err: err}
	}
	data, err := fetch(ctx, client, "image-download", req)
	if err != nil {
		return nil, err
	}
	kind, err := filetype.Image(data)
	if err != nil || kind == filetype.Unknown {
		return nil, ErrNotImage
	}
	return &model.SceneImage{
		Data:      data,
		MIMEType:  kind.MIME.Value,
		Extension: kind.Extension,
		SourceURL: imageURL,
	}, nil
}
