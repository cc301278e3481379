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
	"fmt"
	"io"
	"log/slog"
	"os"

	"cloud.google.com/go/storage"

	"github.com/rams30/AINewsVideo/internal/cloud"
	"github.com/rams30/AINewsVideo/internal/core/cor"
)

// GCSFileUpload streams the finished video to <bucket>/<prefix>/<reel id>.mp4
// and records the gs:// URI on the reel. The local file is left in place.
type GCSFileUpload struct {
	cor.BaseCommand
	client *storage.Client
	bucket string
	prefix string
}

func NewGCSFileUpload(name string, client *storage.Client, bucket string, prefix string) *GCSFileUpload {
	out := &GCSFileUpload{BaseCommand: *cor.NewBaseCommand(name), client: client, bucket: bucket, prefix: prefix}
	out.InputParamName = ParamReel
	return out
}

func (c *GCSFileUpload) IsExecutable(context cor.Context) bool {
	return hasReel(context) && GetReel(context).VideoPath != ""
}

func (c *GCSFileUpload) Execute(context cor.Context) {
	ctx := context.GetContext()
	reel := GetReel(context)

	dat, err := os.Open(reel.VideoPath)
	if err != nil {
		c.Fail(context, fmt.Errorf("failed to open file %s: %w", reel.VideoPath, err))
		return
	}
	defer dat.Close()

	target := cloud.NewGCSObject(c.bucket, c.prefix, reel.Id+".mp4", "video/mp4")
	writer := c.client.Bucket(target.Bucket).Object(target.Name).NewWriter(ctx)
	writer.ContentType = target.MIMEType

	if written, err := io.Copy(writer, dat); err != nil {
		_ = writer.Close()
		c.Fail(context, fmt.Errorf("failed to copy to GCS after %d bytes: %w", written, err))
		return
	}
	// The object only exists once Close succeeds.
	if err := writer.Close(); err != nil {
		c.Fail(context, fmt.Errorf("failed to finalize GCS object: %w", err))
		return
	}

	reel.PublishedURI = target.URI()
	slog.InfoContext(ctx, "uploaded video", "uri", reel.PublishedURI)
	c.Succeed(context, target)
}
