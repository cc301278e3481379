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

// Package model holds the values that flow through a reel pipeline run: the
// headline, the narration split into scenes, the narration audio and the
// resulting reel record.
package model

import (
	"strings"
	"time"
)

// NewsItem is one candidate headline. An absent description or image URL is
// the empty string.
type NewsItem struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	URL         string    `json:"url,omitempty"`
	Source      string    `json:"source,omitempty"`
	PublishedAt time.Time `json:"published_at,omitempty"`
}

// NewNewsItem trims every field. It returns nil when the title is blank,
// since such items are never usable.
func NewNewsItem(title, description, imageURL string) *NewsItem {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil
	}
	return &NewsItem{
		Title:       title,
		Description: strings.TrimSpace(description),
		ImageURL:    strings.TrimSpace(imageURL),
	}
}

func (n *NewsItem) HasDescription() bool {
	return n != nil && n.Description != ""
}

func (n *NewsItem) HasImage() bool {
	return n != nil && n.ImageURL != ""
}
