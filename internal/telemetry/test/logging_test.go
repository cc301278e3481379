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

package telemetry_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/rams30/AINewsVideo/internal/telemetry"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	out := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}

func TestLogHandlerCloudFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(telemetry.NewLogHandler(&buf, slog.LevelInfo))

	logger.Warn("no image for scene", "scene", 2)
	entry := decode(t, &buf)

	assert.Equal(t, "WARNING", entry["severity"])
	assert.Equal(t, "no image for scene", entry["message"])
	assert.Contains(t, entry, "timestamp")
	assert.Equal(t, float64(2), entry["scene"])
	assert.NotContains(t, entry, "logging.googleapis.com/trace")
}

func TestLogHandlerTraceFields(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()
	ctx, span := tp.Tracer("test").Start(context.Background(), "reel-run")
	defer span.End()

	var buf bytes.Buffer
	logger := slog.New(telemetry.NewLogHandler(&buf, slog.LevelInfo)).With("reel", "abc")
	logger.InfoContext(ctx, "starting reel run")
	entry := decode(t, &buf)

	assert.Equal(t, span.SpanContext().TraceID().String(), entry["logging.googleapis.com/trace"])
	assert.Equal(t, span.SpanContext().SpanID().String(), entry["logging.googleapis.com/spanId"])
	assert.Equal(t, true, entry["logging.googleapis.com/trace_sampled"])
	assert.Equal(t, "abc", entry["reel"])
}

func TestLogHandlerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(telemetry.NewLogHandler(&buf, slog.LevelInfo))
	logger.Debug("hidden")
	assert.Equal(t, 0, buf.Len())
}
