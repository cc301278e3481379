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

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rams30/AINewsVideo/internal/core/cor"
)

// URLSigner signs a gs:// URI for temporary access.
type URLSigner interface {
	GenerateSignedURL(ctx context.Context, gcsURI string, expires time.Duration) (string, error)
}

// ReelSignURL attaches a time-limited playback URL to a reel published to GCS.
type ReelSignURL struct {
	cor.BaseCommand
	signer  URLSigner
	expires time.Duration
}

func NewReelSignURL(name string, signer URLSigner, expires time.Duration) *ReelSignURL {
	out := &ReelSignURL{BaseCommand: *cor.NewBaseCommand(name), signer: signer, expires: expires}
	out.InputParamName = ParamReel
	return out
}

func (c *ReelSignURL) IsExecutable(context cor.Context) bool {
	return hasReel(context) && strings.HasPrefix(GetReel(context).PublishedURI, "gs://")
}

func (c *ReelSignURL) Execute(context cor.Context) {
	reel := GetReel(context)
	u, err := c.signer.GenerateSignedURL(context.GetContext(), reel.PublishedURI, c.expires)
	if err != nil {
		c.Fail(context, fmt.Errorf("failed to sign %s: %w", reel.PublishedURI, err))
		return
	}
	reel.SignedURL = u
	slog.InfoContext(context.GetContext(), "signed playback url", "uri", reel.PublishedURI, "expires", c.expires)
	c.Succeed(context, u)
}
