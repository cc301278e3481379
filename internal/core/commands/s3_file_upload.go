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
	"log/slog"
	"os"
	"path"

	"github.com/rams30/AINewsVideo/internal/cloud"
	"github.com/rams30/AINewsVideo/internal/core/cor"
)

// S3FileUpload puts the finished video at s3://<bucket>/<prefix>/<reel id>.mp4.
// The S3 URI becomes the reel's published URI unless a GCS upload already
// set one.
type S3FileUpload struct {
	cor.BaseCommand
	client cloud.ObjectPutter
	bucket string
	prefix string
}

func NewS3FileUpload(name string, client cloud.ObjectPutter, bucket string, prefix string) *S3FileUpload {
	out := &S3FileUpload{BaseCommand: *cor.NewBaseCommand(name), client: client, bucket: bucket, prefix: prefix}
	out.InputParamName = ParamReel
	return out
}

func (c *S3FileUpload) IsExecutable(context cor.Context) bool {
	return hasReel(context) && GetReel(context).VideoPath != ""
}

func (c *S3FileUpload) Execute(context cor.Context) {
	ctx := context.GetContext()
	reel := GetReel(context)

	dat, err := os.Open(reel.VideoPath)
	if err != nil {
		c.Fail(context, fmt.Errorf("failed to open file %s: %w", reel.VideoPath, err))
		return
	}
	defer dat.Close()

	key := path.Join(c.prefix, reel.Id+".mp4")
	if err := c.client.Put(ctx, c.bucket, key, dat, "video/mp4"); err != nil {
		c.Fail(context, fmt.Errorf("failed to upload to s3://%s/%s: %w", c.bucket, key, err))
		return
	}

	uri := fmt.Sprintf("s3://%s/%s", c.bucket, key)
	if reel.PublishedURI == "" {
		reel.PublishedURI = uri
	}
	slog.InfoContext(ctx, "uploaded video", "uri", uri)
	c.Succeed(context, uri)
}
