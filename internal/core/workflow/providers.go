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

package workflow

import (
	"fmt"

	"github.com/rams30/AINewsVideo/internal/cloud"
	"github.com/rams30/AINewsVideo/internal/core/model"
	"github.com/rams30/AINewsVideo/internal/core/services"
)

// Providers are the external capabilities a reel run calls. The workflow
// only sees these interfaces, so any of them can be replaced.
type Providers struct {
	News        services.NewsSource
	Images      services.ImageSource
	Speech      services.SpeechSynthesizer
	Encoder     services.Encoder
	Animator    services.Animator // Nil disables scene animation.
	ScriptModel cloud.ContentGenerator
	QueryModel  cloud.ContentGenerator
}

// NewProviders selects the strategies named by config, overridden by any
// non-empty field of req.
func NewProviders(config *cloud.Config, clients *cloud.ServiceClients, req *model.ReelRequest) (*Providers, error) {
	if req == nil {
		req = &model.ReelRequest{}
	}
	creds := clients.Credentials
	if creds == nil {
		creds = &cloud.Credentials{}
	}

	out := &Providers{
		Speech:  services.NewOpenAISpeech(clients.SpeechClient, config.Speech.Model, config.Speech.Voice, config.Speech.Format),
		Encoder: NewEncoder(config.Video),
	}
	if m, ok := clients.AgentModels[cloud.ScriptWriterModel]; ok {
		out.ScriptModel = m
	}
	if m, ok := clients.AgentModels[cloud.ScenePlannerModel]; ok {
		out.QueryModel = m
	}

	newsStrategy := firstNonEmpty(req.NewsStrategy, config.News.Strategy)
	switch newsStrategy {
	case cloud.NewsStrategyNewsAPI:
		out.News = &services.NewsAPISource{
			Client:   clients.HTTPClient,
			Endpoint: config.News.Endpoint,
			APIKey:   creds.NewsAPIKey,
			Country:  config.News.Country,
			PageSize: config.News.PageSize,
		}
	case cloud.NewsStrategyRSS:
		out.News = &services.RSSSource{
			Client:   clients.HTTPClient,
			FeedURL:  config.News.RSSURL,
			PageSize: config.News.PageSize,
		}
	default:
		return nil, fmt.Errorf("unknown news strategy %q", newsStrategy)
	}

	imageStrategy := firstNonEmpty(req.ImageStrategy, config.Images.Strategy)
	switch imageStrategy {
	case cloud.ImageStrategyPexels:
		out.Images = &services.PexelsImageSource{
			Client:      clients.HTTPClient,
			Endpoint:    config.Images.PexelsEndpoint,
			APIKey:      creds.PexelsAPIKey,
			Orientation: config.Images.Orientation,
			PerPage:     config.Images.PerPage,
		}
	case cloud.ImageStrategyArticle:
		out.Images = &services.ArticleImageSource{Client: clients.HTTPClient}
	default:
		return nil, fmt.Errorf("unknown image strategy %q", imageStrategy)
	}

	if config.Animation.Enabled || req.Animate {
		if creds.RunwayAPIKey == "" {
			return nil, &cloud.ConfigError{Missing: []string{cloud.EnvRunwayAPIKey}}
		}
		out.Animator = &services.RunwayAnimator{
			Client:   clients.HTTPClient,
			Endpoint: config.Animation.Endpoint,
			APIKey:   creds.RunwayAPIKey,
			Duration: config.Animation.Duration,
			Motion:   config.Animation.Motion,
			Style:    config.Animation.Style,
		}
	}
	return out, nil
}

// NewEncoder builds the ffmpeg encoder from the video settings.
func NewEncoder(video cloud.Video) *services.FFmpegEncoder {
	return &services.FFmpegEncoder{
		FFmpegPath:      video.FFmpegPath,
		FPS:             video.FPS,
		Bitrate:         video.Bitrate,
		VideoCodec:      video.VideoCodec,
		AudioCodec:      video.AudioCodec,
		Preset:          video.Preset,
		CaptionWidth:    video.CaptionWidth,
		CaptionFontSize: video.CaptionFontSize,
		CaptionBoxAlpha: video.CaptionBoxAlpha,
		CaptionStroke:   video.CaptionStroke,
		FontFile:        video.FontFile,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
