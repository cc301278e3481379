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

package model

import (
	"time"

	"github.com/google/uuid"
)

// Reel is the working record of one pipeline run.
type Reel struct {
	Id           string
	Item         *NewsItem
	Script       string
	Scenes       []*Scene
	Audio        *AudioTrack
	VideoPath    string
	DownloadPath string
	PublishedURI string
	SignedURL    string
	CreateDate   time.Time
}

func NewReel() *Reel {
	return &Reel{
		Id:         uuid.New().String(),
		Scenes:     make([]*Scene, 0),
		CreateDate: time.Now(),
	}
}

// RenderedScenes counts scenes that ended up with an image or clip.
func (r *Reel) RenderedScenes() int {
	n := 0
	for _, s := range r.Scenes {
		if s.HasImage() || s.ClipPath != "" {
			n++
		}
	}
	return n
}

// ReelRecord is the flat row written to the run ledger and served by the API.
type ReelRecord struct {
	Id                   string    `json:"id" bigquery:"id"`
	Title                string    `json:"title" bigquery:"title"`
	Description          string    `json:"description" bigquery:"description"`
	ArticleURL           string    `json:"article_url,omitempty" bigquery:"article_url"`
	Script               string    `json:"script" bigquery:"script"`
	SentenceCount        int       `json:"sentence_count" bigquery:"sentence_count"`
	RenderedSceneCount   int       `json:"rendered_scene_count" bigquery:"rendered_scene_count"`
	AudioDurationSeconds float64   `json:"audio_duration_seconds" bigquery:"audio_duration_seconds"`
	VideoURI             string    `json:"video_uri,omitempty" bigquery:"video_uri"`
	CreateDate           time.Time `json:"create_date" bigquery:"create_date"`
}

func (r *Reel) ToRecord() *ReelRecord {
	out := &ReelRecord{
		Id:                 r.Id,
		Script:             r.Script,
		SentenceCount:      len(r.Scenes),
		RenderedSceneCount: r.RenderedScenes(),
		VideoURI:           r.PublishedURI,
		CreateDate:         r.CreateDate,
	}
	if r.Item != nil {
		out.Title = r.Item.Title
		out.Description = r.Item.Description
		out.ArticleURL = r.Item.URL
	}
	if r.Audio != nil {
		out.AudioDurationSeconds = r.Audio.Duration.Seconds()
	}
	if out.VideoURI == "" {
		out.VideoURI = r.VideoPath
	}
	return out
}

// ReelRequest is the optional body of an HTTP or Pub/Sub trigger. Zero
// values fall back to configuration.
type ReelRequest struct {
	NewsStrategy  string    `json:"news_strategy,omitempty"`
	ImageStrategy string    `json:"image_strategy,omitempty"`
	NewsIndex     *int      `json:"news_index,omitempty"`
	Item          *NewsItem `json:"item,omitempty"` // Skips the news fetch when set.
	Animate       bool      `json:"animate,omitempty"`
	Publish       bool      `json:"publish,omitempty"`
}
