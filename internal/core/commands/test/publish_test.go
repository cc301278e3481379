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

package commands_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rams30/AINewsVideo/internal/core/commands"
	"github.com/rams30/AINewsVideo/internal/core/cor"
	"github.com/rams30/AINewsVideo/internal/core/model"
)

type fakePutter struct {
	bucket, key, contentType string
	body                     []byte
	err                      error
}

func (f *fakePutter) Put(_ context.Context, bucket, key string, body io.Reader, contentType string) error {
	if f.err != nil {
		return f.err
	}
	f.bucket, f.key, f.contentType = bucket, key, contentType
	f.body, _ = io.ReadAll(body)
	return nil
}

type fakeSigner struct {
	uri     string
	expires time.Duration
}

func (f *fakeSigner) GenerateSignedURL(_ context.Context, gcsURI string, expires time.Duration) (string, error) {
	f.uri, f.expires = gcsURI, expires
	return "https://storage.googleapis.com/signed", nil
}

func withVideo(t *testing.T) (cor.Context, *model.Reel) {
	t.Helper()
	chainCtx, reel := newContext(t, nil)
	reel.VideoPath = filepath.Join(t.TempDir(), "final_video.mp4")
	require.NoError(t, os.WriteFile(reel.VideoPath, []byte("video"), 0644))
	return chainCtx, reel
}

func TestS3FileUpload(t *testing.T) {
	chainCtx, reel := withVideo(t)
	putter := &fakePutter{}

	cmd := commands.NewS3FileUpload("reel-upload-s3", putter, "reels", "daily")
	require.True(t, cmd.IsExecutable(chainCtx))
	cmd.Execute(chainCtx)

	assert.False(t, chainCtx.HasErrors())
	assert.Equal(t, "reels", putter.bucket)
	assert.Equal(t, "daily/"+reel.Id+".mp4", putter.key)
	assert.Equal(t, "video/mp4", putter.contentType)
	assert.Equal(t, []byte("video"), putter.body)
	assert.Equal(t, "s3://reels/daily/"+reel.Id+".mp4", reel.PublishedURI)
}

func TestS3FileUploadKeepsGCSURI(t *testing.T) {
	chainCtx, reel := withVideo(t)
	reel.PublishedURI = "gs://bucket/reel.mp4"

	commands.NewS3FileUpload("reel-upload-s3", &fakePutter{}, "reels", "").Execute(chainCtx)

	assert.False(t, chainCtx.HasErrors())
	assert.Equal(t, "gs://bucket/reel.mp4", reel.PublishedURI)
}

func TestS3FileUploadFailure(t *testing.T) {
	chainCtx, reel := withVideo(t)
	commands.NewS3FileUpload("reel-upload-s3", &fakePutter{err: errors.New("denied")}, "reels", "").Execute(chainCtx)

	assert.Error(t, chainCtx.GetErrors()["reel-upload-s3"])
	assert.Equal(t, "", reel.PublishedURI)
}

func TestUploadsNeedVideo(t *testing.T) {
	chainCtx, _ := newContext(t, nil)
	assert.False(t, commands.NewS3FileUpload("s3", &fakePutter{}, "b", "").IsExecutable(chainCtx))
	assert.False(t, commands.NewGCSFileUpload("gcs", nil, "b", "").IsExecutable(chainCtx))
}

func TestReelSignURL(t *testing.T) {
	chainCtx, reel := newContext(t, nil)
	signer := &fakeSigner{}
	cmd := commands.NewReelSignURL("reel-sign-url", signer, 15*time.Minute)

	reel.PublishedURI = "s3://reels/x.mp4"
	assert.False(t, cmd.IsExecutable(chainCtx))

	reel.PublishedURI = "gs://reels/x.mp4"
	require.True(t, cmd.IsExecutable(chainCtx))
	cmd.Execute(chainCtx)

	assert.False(t, chainCtx.HasErrors())
	assert.Equal(t, "gs://reels/x.mp4", signer.uri)
	assert.Equal(t, 15*time.Minute, signer.expires)
	assert.Equal(t, "https://storage.googleapis.com/signed", reel.SignedURL)
}

func TestReelRequestReader(t *testing.T) {
	t.Run("empty body", func(t *testing.T) {
		chainCtx, _ := newContext(t, "  ")
		commands.NewReelRequestReader("reader").Execute(chainCtx)

		assert.False(t, chainCtx.HasErrors())
		assert.Equal(t, &model.ReelRequest{}, chainCtx.Get(commands.ParamRequest))
		assert.Equal(t, &model.ReelRequest{}, chainCtx.Get(cor.CtxOut))
	})

	t.Run("json body", func(t *testing.T) {
		chainCtx, _ := newContext(t, `{"news_strategy": "rss", "news_index": 2, "publish": true}`)
		commands.NewReelRequestReader("reader").Execute(chainCtx)

		req := chainCtx.Get(cor.CtxOut).(*model.ReelRequest)
		assert.Equal(t, "rss", req.NewsStrategy)
		require.NotNil(t, req.NewsIndex)
		assert.Equal(t, 2, *req.NewsIndex)
		assert.True(t, req.Publish)
	})

	t.Run("bad body", func(t *testing.T) {
		chainCtx, _ := newContext(t, `{"news_index": "two"}`)
		commands.NewReelRequestReader("reader").Execute(chainCtx)

		assert.Error(t, chainCtx.GetErrors()["reader"])
		assert.Nil(t, chainCtx.Get(cor.CtxOut))
	})
}

func TestCopyFileAndExpandHome(t *testing.T) {
	src := filepath.Join(t.TempDir(), "a.mp4")
	require.NoError(t, os.WriteFile(src, []byte("data"), 0644))

	dst := filepath.Join(t.TempDir(), "x", "y", "b.mp4")
	require.NoError(t, commands.CopyFile(src, dst))
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))

	assert.Error(t, commands.CopyFile(filepath.Join(t.TempDir(), "missing"), dst))

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	expanded, err := commands.ExpandHome("~/Downloads")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "Downloads"), expanded)

	unchanged, err := commands.ExpandHome("/tmp/out")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/out", unchanged)
}
