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

// Package services wraps the external providers used by the reel pipeline:
// headline sources, stock imagery, speech synthesis, image animation, the
// ffmpeg encoder and the reel ledger. Every call returns a typed error and
// leaves the fallback decision to the caller.
package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNoArticles means the news provider answered but had nothing usable.
	ErrNoArticles = errors.New("no news articles found")
	// ErrNoImage means an image search matched nothing.
	ErrNoImage = errors.New("no image found")
	// ErrNotImage means downloaded bytes are not a supported raster image.
	ErrNotImage = errors.New("content is not a supported image")
	// ErrNoImageURL means the article strategy has no URL to download.
	ErrNoImageURL = errors.New("news item has no image url")
	// ErrResponseTooLarge means a provider body exceeded MaxResponseBytes.
	ErrResponseTooLarge = errors.New("response body too large")
)

// ProviderError is a failed call to an external provider. StatusCode is
// zero when the request never got a response.
type ProviderError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: unexpected status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
