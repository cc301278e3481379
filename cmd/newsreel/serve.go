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

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/rams30/AINewsVideo/internal/api"
)

var (
	servePort     int
	serveSchedule string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the reel API and run the optional schedule",
	RunE:  serve,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (default from config)")
	serveCmd.Flags().StringVar(&serveSchedule, "schedule", "", "Cron spec for unattended runs (default from config)")
}

func serve(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if err := InitState(ctx); err != nil {
		return err
	}
	config := state.config

	port := config.Server.Port
	if servePort > 0 {
		port = servePort
	}
	schedule := config.Server.Schedule
	if serveSchedule != "" {
		schedule = serveSchedule
	}
	if schedule != "" {
		if err := state.runner.Schedule(ctx, schedule); err != nil {
			return fmt.Errorf("invalid schedule %q: %w", schedule, err)
		}
	}

	ttl := time.Duration(config.Storage.SignedURLMinutes) * time.Minute
	r := api.NewRouter(config.Application.Name, state.runner, state.Ledger(), ttl)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	slog.Info("server ready", "port", port)

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
	return nil
}
