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

import "time"

// SceneImage is raw image bytes fetched for one scene.
type SceneImage struct {
	Data      []byte
	MIMEType  string // e.g. "image/jpeg"
	Extension string // e.g. "jpg"
	SourceURL string
}

// AudioTrack is the synthesized narration. Duration is zero until measured.
type AudioTrack struct {
	Path     string
	Duration time.Duration
}

// Scene keeps a sentence, its search query and its image together so that
// dropping one scene can never shift the others.
type Scene struct {
	Index         int
	Sentence      string
	Query         string
	QueryFallback bool // Query is the raw sentence because generation failed.
	Image         *SceneImage
	ImageErr      error  // Why Image is nil, when it is.
	ClipPath      string // Optional animated clip replacing the still image.
	Duration      time.Duration
}

// NewScenes builds one scene per sentence with the query defaulted to the
// sentence itself.
func NewScenes(sentences []string) []*Scene {
	out := make([]*Scene, len(sentences))
	for i, s := range sentences {
		out[i] = &Scene{Index: i, Sentence: s, Query: s, QueryFallback: true}
	}
	return out
}

func (s *Scene) HasImage() bool {
	return s != nil && s.Image != nil && len(s.Image.Data) > 0
}

// CountImages returns how many scenes hold image bytes.
func CountImages(scenes []*Scene) int {
	n := 0
	for _, s := range scenes {
		if s.HasImage() {
			n++
		}
	}
	return n
}

// SceneClip is one rendered segment of the final video.
type SceneClip struct {
	Index     int
	Caption   string
	ImagePath string // Still image input, used when ClipPath is empty.
	ClipPath  string // Animated input, looped and trimmed to Duration.
	Width     int
	Height    int
	Duration  time.Duration
	OutPath   string
}
