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

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rams30/AINewsVideo/internal/api"
	"github.com/rams30/AINewsVideo/internal/core/model"
	"github.com/rams30/AINewsVideo/internal/core/services"
	"github.com/rams30/AINewsVideo/internal/core/workflow"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeTrigger struct {
	busy    bool
	request *model.ReelRequest
	latest  *workflow.RunResult
}

func (f *fakeTrigger) Start(_ context.Context, req *model.ReelRequest) (string, error) {
	if f.busy {
		return "", workflow.ErrBusy
	}
	f.request = req
	return "reel-1", nil
}

func (f *fakeTrigger) Latest() *workflow.RunResult {
	return f.latest
}

type fakeLedger struct {
	records map[string]*model.ReelRecord
	signed  string
	ttl     time.Duration
	limit   int
}

func (f *fakeLedger) Get(_ context.Context, id string) (*model.ReelRecord, error) {
	if r, ok := f.records[id]; ok {
		return r, nil
	}
	return nil, services.ErrReelNotFound
}

func (f *fakeLedger) ListRecent(_ context.Context, limit int) ([]*model.ReelRecord, error) {
	f.limit = limit
	out := make([]*model.ReelRecord, 0, len(f.records))
	for _, r := range f.records {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeLedger) GenerateSignedURL(_ context.Context, gcsURI string, expires time.Duration) (string, error) {
	f.signed, f.ttl = gcsURI, expires
	return "https://signed.example/" + gcsURI[len("gs://"):], nil
}

func do(r http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	out := map[string]interface{}{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestStartReel(t *testing.T) {
	trigger := &fakeTrigger{}
	r := api.NewRouter("test", trigger, nil, time.Minute)

	w, body := do(r, http.MethodPost, "/api/v1/reels", "")
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "reel-1", body["id"])
	assert.Equal(t, &model.ReelRequest{}, trigger.request)

	w, _ = do(r, http.MethodPost, "/api/v1/reels", `{"image_strategy": "article", "publish": true}`)
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "article", trigger.request.ImageStrategy)
	assert.True(t, trigger.request.Publish)

	w, _ = do(r, http.MethodPost, "/api/v1/reels", `{"news_index": "one"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	trigger.busy = true
	w, body = do(r, http.MethodPost, "/api/v1/reels", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, workflow.ErrBusy.Error(), body["error"])
}

func TestLatestReel(t *testing.T) {
	trigger := &fakeTrigger{}
	r := api.NewRouter("test", trigger, nil, time.Minute)

	w, _ := do(r, http.MethodGet, "/api/v1/reels/latest", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	reel := model.NewReel()
	reel.Item = &model.NewsItem{Title: "Headline"}
	trigger.latest = &workflow.RunResult{Reel: reel, Err: errors.New("video-assembler: no valid clips were created"), Finished: time.Now()}

	w, body := do(r, http.MethodGet, "/api/v1/reels/latest", "")
	require.Equal(t, http.StatusOK, w.Code)
	record := body["reel"].(map[string]interface{})
	assert.Equal(t, reel.Id, record["id"])
	assert.Equal(t, "Headline", record["title"])
	assert.Contains(t, body["error"], "no valid clips")
}

func TestGetReel(t *testing.T) {
	ledger := &fakeLedger{records: map[string]*model.ReelRecord{
		"a": {Id: "a", Title: "Published", VideoURI: "gs://reels/a.mp4"},
		"b": {Id: "b", Title: "Local only", VideoURI: "output/final_video.mp4"},
	}}
	r := api.NewRouter("test", &fakeTrigger{}, ledger, 15*time.Minute)

	w, body := do(r, http.MethodGet, "/api/v1/reels/a", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Published", body["title"])

	w, _ = do(r, http.MethodGet, "/api/v1/reels/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, body = do(r, http.MethodGet, "/api/v1/reels/a/stream", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://signed.example/reels/a.mp4", body["url"])
	assert.Equal(t, "gs://reels/a.mp4", ledger.signed)
	assert.Equal(t, 15*time.Minute, ledger.ttl)

	w, _ = do(r, http.MethodGet, "/api/v1/reels/b/stream", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListReels(t *testing.T) {
	ledger := &fakeLedger{records: map[string]*model.ReelRecord{
		"a": {Id: "a", Title: "Published", VideoURI: "gs://reels/a.mp4"},
	}}
	r := api.NewRouter("test", &fakeTrigger{}, ledger, time.Minute)

	w, _ := do(r, http.MethodGet, "/api/v1/reels", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 10, ledger.limit)
	var records []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "a", records[0]["id"])

	w, _ = do(r, http.MethodGet, "/api/v1/reels?limit=3", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, ledger.limit)

	for _, bad := range []string{"0", "abc", "1000"} {
		w, _ = do(r, http.MethodGet, "/api/v1/reels?limit="+bad, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, bad)
	}
}

func TestReadRoutesWithoutLedger(t *testing.T) {
	r := api.NewRouter("test", &fakeTrigger{}, nil, time.Minute)

	w, _ := do(r, http.MethodGet, "/api/v1/reels", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	w, _ = do(r, http.MethodGet, "/api/v1/reels/a", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	w, _ = do(r, http.MethodGet, "/api/v1/reels/a/stream", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
