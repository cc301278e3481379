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
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrNoVideo means the animation provider answered without a clip.
var ErrNoVideo = errors.New("animation response contained no video")

// Animator turns a still image into a short clip.
type Animator interface {
	Animate(ctx context.Context, image []byte, prompt string) ([]byte, error)
}

// RunwayAnimator calls the Runway image-to-video endpoint. The clip comes
// back inline as base64.
type RunwayAnimator struct {
	Client   *http.Client
	Endpoint string
	APIKey   string
	Duration int
	Motion   float64
	Style    string
}

type runwayRequest struct {
	Image    string  `json:"image"`
	Prompt   string  `json:"prompt"`
	Duration int     `json:"duration"`
	Motion   float64 `json:"motion"`
	Style    string  `json:"style"`
}

type runwayResponse struct {
	Video string `json:"video"`
}

func (r *RunwayAnimator) Animate(ctx context.Context, image []byte, prompt string) ([]byte, error) {
	payload, err := json.Marshal(&runwayRequest{
		Image:    base64.StdEncoding.EncodeToString(image),
		Prompt:   prompt,
		Duration: r.Duration,
		Motion:   r.Motion,
		Style:    r.Style,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, r.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &ProviderError{Provider: "runway", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+r.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	var body runwayResponse
	if err := fetchJSON(ctx, r.Client, "runway", req, &body); err != nil {
		return nil, err
	}
	if body.Video == "" {
		return nil, ErrNoVideo
	}
	video, err := base64.StdEncoding.DecodeString(body.Video)
	if err != nil {
		return nil, &ProviderError{Provider: "runway", Err: fmt.Errorf("failed to decode video: %w", err)}
	}
	return video, nil
}
