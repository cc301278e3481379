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

package workflow

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/rams30/AINewsVideo/internal/cloud"
	"github.com/rams30/AINewsVideo/internal/core/model"
)

// ErrBusy is returned when a run is requested while another is in progress.
var ErrBusy = errors.New("a reel run is already in progress")

// ProviderFactory resolves the providers for one request.
type ProviderFactory func(req *model.ReelRequest) (*Providers, error)

// RunResult is the outcome of the most recent finished run.
type RunResult struct {
	Reel     *model.Reel
	Err      error
	Finished time.Time
}

// Runner lets at most one reel run execute at a time. Requests arriving
// while a run is active are rejected with ErrBusy rather than queued.
type Runner struct {
	config         *cloud.Config
	serviceClients *cloud.ServiceClients
	providers      ProviderFactory

	running sync.Mutex

	mu     sync.RWMutex
	latest *RunResult
	cron   *cron.Cron
}

func NewRunner(config *cloud.Config, serviceClients *cloud.ServiceClients) *Runner {
	r := &Runner{config: config, serviceClients: serviceClients}
	r.providers = func(req *model.ReelRequest) (*Providers, error) {
		return NewProviders(config, serviceClients, req)
	}
	return r
}

// WithProviders replaces the provider factory.
func (r *Runner) WithProviders(factory ProviderFactory) *Runner {
	r.providers = factory
	return r
}

// Run executes one reel synchronously.
func (r *Runner) Run(ctx context.Context, req *model.ReelRequest) (*model.Reel, error) {
	if !r.running.TryLock() {
		return nil, ErrBusy
	}
	defer r.running.Unlock()

	reel := model.NewReel()
	return reel, r.execute(ctx, req, reel)
}

// Start begins a run in the background and returns its reel id at once.
// The run is detached from ctx's cancellation but keeps its values.
func (r *Runner) Start(ctx context.Context, req *model.ReelRequest) (string, error) {
	if !r.running.TryLock() {
		return "", ErrBusy
	}

	reel := model.NewReel()
	go func() {
		defer r.running.Unlock()
		_ = r.execute(context.WithoutCancel(ctx), req, reel)
	}()
	return reel.Id, nil
}

// Latest returns the result of the last finished run, or nil.
func (r *Runner) Latest() *RunResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.latest
}

func (r *Runner) execute(ctx context.Context, req *model.ReelRequest, reel *model.Reel) (err error) {
	ctx, span := otel.Tracer("reel-runner").Start(ctx, "reel-run")
	span.SetAttributes(attribute.String("reel.id", reel.Id))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "reel run failed")
		} else {
			span.SetStatus(codes.Ok, "reel run completed")
		}
		span.End()

		r.mu.Lock()
		r.latest = &RunResult{Reel: reel, Err: err, Finished: time.Now()}
		r.mu.Unlock()
	}()

	providers, err := r.providers(req)
	if err != nil {
		return err
	}
	wf, err := NewNewsReelWorkflow(r.config, r.serviceClients, providers, req)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "starting reel run", "reel", reel.Id)
	if err = wf.Run(ctx, reel); err != nil {
		slog.ErrorContext(ctx, "reel run failed", "reel", reel.Id, "error", err)
		return err
	}
	slog.InfoContext(ctx, "reel run completed", "reel", reel.Id, "video", reel.VideoPath)
	return nil
}

// Schedule triggers a default run on the cron spec until StopSchedule.
// Ticks that land while a run is active are skipped.
func (r *Runner) Schedule(ctx context.Context, spec string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cron != nil {
		return errors.New("schedule already started")
	}

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		slog.InfoContext(ctx, "cron triggered reel run")
		if _, err := r.Run(ctx, &model.ReelRequest{}); errors.Is(err, ErrBusy) {
			slog.WarnContext(ctx, "cron run skipped, runner busy")
		}
	})
	if err != nil {
		return err
	}
	c.Start()
	r.cron = c
	slog.InfoContext(ctx, "reel schedule started", "schedule", spec)
	return nil
}

// StopSchedule stops the cron trigger and waits for a running tick.
func (r *Runner) StopSchedule() {
	r.mu.Lock()
	c := r.cron
	r.cron = nil
	r.mu.Unlock()
	if c != nil {
		<-c.Stop().Done()
	}
}
