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
	"io"
	"log/slog"
	"os"

	"github.com/rams30/AINewsVideo/internal/api"
	"github.com/rams30/AINewsVideo/internal/cloud"
	"github.com/rams30/AINewsVideo/internal/core/services"
	"github.com/rams30/AINewsVideo/internal/core/workflow"
	"github.com/rams30/AINewsVideo/internal/telemetry"
)

type StateManager struct {
	config      *cloud.Config
	cloud       *cloud.ServiceClients
	runner      *workflow.Runner
	reelService *services.ReelService
	shutdown    func(context.Context) error
	logCloser   io.Closer
}

var state = &StateManager{}

// SetupOS exports the config location for cloud.LoadConfig. Variables
// already present in the environment win over the flags.
func SetupOS() (err error) {
	if os.Getenv(cloud.EnvConfigFilePrefix) == "" {
		if err = os.Setenv(cloud.EnvConfigFilePrefix, configDir); err != nil {
			return err
		}
	}
	if os.Getenv(cloud.EnvConfigRuntime) == "" {
		err = os.Setenv(cloud.EnvConfigRuntime, runtimeID)
	}
	return err
}

func GetConfig() (*cloud.Config, error) {
	if state.config == nil {
		config := cloud.NewConfig()
		if err := cloud.LoadConfig(config); err != nil {
			return nil, err
		}
		state.config = config
	}
	return state.config, nil
}

// InitState connects every configured client and builds the runner. It must
// run after any flag overrides have been applied to the config.
func InitState(ctx context.Context) error {
	config, err := GetConfig()
	if err != nil {
		return err
	}

	shutdown, err := telemetry.SetupOpenTelemetry(ctx, config)
	if err != nil {
		return err
	}
	state.shutdown = shutdown
	slog.Debug("telemetry initialized")

	creds := cloud.LoadCredentials(envFile)
	cloudClients, err := cloud.NewCloudServiceClients(ctx, config, creds)
	if err != nil {
		return err
	}
	state.cloud = cloudClients
	state.runner = workflow.NewRunner(config, cloudClients)

	if cloudClients.BiqQueryClient != nil && config.BigQueryDataSource.ReelTable != "" {
		state.reelService = &services.ReelService{
			BigqueryClient: cloudClients.BiqQueryClient,
			StorageClient:  cloudClients.StorageClient,
			IAMClient:      cloudClients.IAMClient,
			SignerEmail:    config.Application.SignerServiceAccountEmail,
			DatasetName:    config.BigQueryDataSource.DatasetName,
			ReelTable:      config.BigQueryDataSource.ReelTable,
		}
	}
	slog.Info("initialized state", "runtime", os.Getenv(cloud.EnvConfigRuntime))
	return nil
}

// Ledger returns the reel ledger, or a nil interface when none is configured.
func (s *StateManager) Ledger() api.Ledger {
	if s.reelService == nil {
		return nil
	}
	return s.reelService
}

func (s *StateManager) Close(ctx context.Context) {
	if s.runner != nil {
		s.runner.StopSchedule()
	}
	if s.cloud != nil {
		s.cloud.Close()
	}
	if s.shutdown != nil {
		if err := s.shutdown(context.WithoutCancel(ctx)); err != nil {
			slog.Warn("telemetry shutdown failed", "error", err)
		}
	}
	if s.logCloser != nil {
		_ = s.logCloser.Close()
	}
}
