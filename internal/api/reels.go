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

// Package api exposes the reel pipeline over HTTP with gin.
//
//	POST /api/v1/reels             start a run; 202 with the reel id, 409 when busy
//	GET  /api/v1/reels?limit=N     most recent ledger rows, newest first
//	GET  /api/v1/reels/latest      result of the last finished run in this process
//	GET  /api/v1/reels/:id         ledger row for a reel
//	GET  /api/v1/reels/:id/stream  signed playback URL for a published reel
package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/rams30/AINewsVideo/internal/core/model"
	"github.com/rams30/AINewsVideo/internal/core/services"
	"github.com/rams30/AINewsVideo/internal/core/workflow"
)

// Trigger starts runs and reports the last one.
type Trigger interface {
	Start(ctx context.Context, req *model.ReelRequest) (string, error)
	Latest() *workflow.RunResult
}

// Ledger reads published reels.
type Ledger interface {
	Get(ctx context.Context, id string) (*model.ReelRecord, error)
	ListRecent(ctx context.Context, limit int) ([]*model.ReelRecord, error)
	GenerateSignedURL(ctx context.Context, gcsURI string, expires time.Duration) (string, error)
}

// NewRouter returns the gin engine with tracing and CORS. ledger may be nil
// when no reel table is configured; the read routes then answer 503.
func NewRouter(serviceName string, trigger Trigger, ledger Ledger, signedURLTTL time.Duration) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(cors.Default())

	apiV1 := r.Group("/api/v1")
	{
		ReelRouter(apiV1, trigger, ledger, signedURLTTL)
	}
	return r
}

const maxListLimit = 100

func ReelRouter(r *gin.RouterGroup, trigger Trigger, ledger Ledger, signedURLTTL time.Duration) {
	reels := r.Group("/reels")
	{
		reels.POST("", func(c *gin.Context) {
			req := &model.ReelRequest{}
			if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			id, err := trigger.Start(c.Request.Context(), req)
			if errors.Is(err, workflow.ErrBusy) {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusAccepted, gin.H{"id": id})
		})

		reels.GET("", func(c *gin.Context) {
			if ledger == nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "reel ledger is not configured"})
				return
			}
			limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
			if err != nil || limit <= 0 || limit > maxListLimit {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
				return
			}
			out, err := ledger.ListRecent(c.Request.Context(), limit)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, out)
		})

		reels.GET("/latest", func(c *gin.Context) {
			latest := trigger.Latest()
			if latest == nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "no reel has finished yet"})
				return
			}
			out := gin.H{"reel": latest.Reel.ToRecord(), "finished": latest.Finished, "signed_url": latest.Reel.SignedURL}
			if latest.Err != nil {
				out["error"] = latest.Err.Error()
			}
			c.JSON(http.StatusOK, out)
		})

		reels.GET("/:id", func(c *gin.Context) {
			if ledger == nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "reel ledger is not configured"})
				return
			}
			out, err := ledger.Get(c.Request.Context(), c.Param("id"))
			if err != nil {
				status := http.StatusInternalServerError
				if errors.Is(err, services.ErrReelNotFound) {
					status = http.StatusNotFound
				}
				c.JSON(status, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, out)
		})

		reels.GET("/:id/stream", func(c *gin.Context) {
			if ledger == nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "reel ledger is not configured"})
				return
			}
			reel, err := ledger.Get(c.Request.Context(), c.Param("id"))
			if err != nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "Reel not found"})
				return
			}
			if !strings.HasPrefix(reel.VideoURI, "gs://") {
				c.JSON(http.StatusNotFound, gin.H{"error": "Reel was not published to Cloud Storage"})
				return
			}
			signedURL, err := ledger.GenerateSignedURL(c.Request.Context(), reel.VideoURI, signedURLTTL)
			if err != nil {
				slog.ErrorContext(c.Request.Context(), "failed to sign reel url", "id", reel.Id, "error", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate streaming URL"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"url": signedURL})
		})
	}
}
